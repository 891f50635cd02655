package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int            `json:"port"`
	Env          string         `json:"env"`
	Pepper       string         `json:"pepper"`
	HMACKey      string         `json:"hmac_key"`
	CSRFKey      string         `json:"csrf_key"`
	FeedPageSize int            `json:"feed_page_size"`
	Database     PostgresConfig `json:"database"`
	Github       GithubConfig   `json:"github"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// GithubConfig holds the oauth app credentials for sign-in with Github.
type GithubConfig struct {
	ID          string `json:"id"`
	Secret      string `json:"secret"`
	RedirectURL string `json:"redirect_url"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func DefaultConfig() Config {
	return Config{
		Port:         1111,
		Env:          "dev",
		Pepper:       "secret-random-string",
		HMACKey:      "secret-hmac-key",
		CSRFKey:      "32-byte-long-auth-key-change-me!",
		FeedPageSize: 10,
		Database:     DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "blog_app",
	}
}

// LoadConfig builds the app configuration. It starts from the defaults,
// overlays a .config.json file if one is present, and lets environment
// variables (optionally read from a .env file) have the final word on
// secrets and connection info. In production the .config.json file is
// required and the app refuses to start without it.
func LoadConfig(prod bool) Config {
	// A missing .env file is fine, env vars may come from the machine.
	if err := godotenv.Load(); err == nil {
		log.Println("Successfully loaded .env")
	}

	c := DefaultConfig()
	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("A .config.json file is required in production.")
		}
	} else {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			panic(err)
		}
		log.Println("Successfully loaded .config.json")
	}

	applyEnvOverrides(&c)
	return c
}

// applyEnvOverrides lets environment variables override the file config.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("PEPPER"); v != "" {
		c.Pepper = v
	}
	if v := os.Getenv("HMAC_KEY"); v != "" {
		c.HMACKey = v
	}
	if v := os.Getenv("CSRF_KEY"); v != "" {
		c.CSRFKey = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("GITHUB_CLIENT_ID"); v != "" {
		c.Github.ID = v
	}
	if v := os.Getenv("GITHUB_CLIENT_SECRET"); v != "" {
		c.Github.Secret = v
	}
	if v := os.Getenv("GITHUB_REDIRECT_URL"); v != "" {
		c.Github.RedirectURL = v
	}
}

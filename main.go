package main

import (
	"flag"
	"log"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/farzanini/blog-app/crud"
	"github.com/farzanini/blog-app/http"
)

func main() {
	prod := flag.Bool("prod", false, "Set to true in production. This ensures that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*prod)

	db, err := Open(config.Database, !config.IsProd())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal(err)
	}

	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithPost(config.FeedPageSize),
		crud.WithTag(),
		crud.WithLike(),
		crud.WithBookmark(),
		crud.WithFollow(),
		crud.WithComment(),
		crud.WithOAuth(),
	)
	if err != nil {
		log.Fatal(err)
	}

	githubOAuth := &oauth2.Config{
		ClientID:     config.Github.ID,
		ClientSecret: config.Github.Secret,
		RedirectURL:  config.Github.RedirectURL,
		Endpoint:     github.Endpoint,
		Scopes:       []string{"read:user", "user:email"},
	}

	server := http.NewServer(config.IsProd(), config.CSRFKey, githubOAuth, services)
	server.Run(config.Port)
}

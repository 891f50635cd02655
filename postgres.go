package main

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farzanini/blog-app/domain"
)

// DB wraps the gorm connection so main can manage migrations and teardown.
type DB struct {
	Gorm *gorm.DB
}

// Open connects to the postgres database described by the config.
// TranslateError is on so unique index violations surface as
// gorm.ErrDuplicatedKey and can be mapped to conflicts by the services.
func Open(config PostgresConfig, logMode bool) (*DB, error) {
	logLevel := logger.Silent
	if logMode {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(config.ConnectionInfo()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return &DB{Gorm: db}, nil
}

// AutoMigrate migrates all model tables.
func (db *DB) AutoMigrate() error {
	return db.Gorm.AutoMigrate(
		&domain.User{},
		&domain.OAuth{},
		&domain.Post{},
		&domain.Tag{},
		&domain.Like{},
		&domain.Bookmark{},
		&domain.Follow{},
		&domain.Comment{},
	)
}

// DestructiveReset drops all model tables and migrates them again.
// Never call this in production.
func (db *DB) DestructiveReset() error {
	err := db.Gorm.Migrator().DropTable(
		&domain.Comment{},
		&domain.Follow{},
		&domain.Bookmark{},
		&domain.Like{},
		&domain.Tag{},
		&domain.Post{},
		&domain.OAuth{},
		&domain.User{},
		"post_tags",
	)
	if err != nil {
		return err
	}
	return db.AutoMigrate()
}

// Close closes the underlying sql connection.
func (db *DB) Close() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

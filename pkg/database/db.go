package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options carries the connection settings for the relational store.
type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (o Options) dsn() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

// Connect opens the connection pool against Postgres. It is meant to be
// called exactly once at startup; the returned handle is threaded through
// the application explicitly rather than held in package state.
func Connect(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.dsn()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Shutdown closes the underlying connection pool.
func Shutdown(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

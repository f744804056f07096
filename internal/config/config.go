package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Environment    string
	HTTPAddr       string
	MigrationsPath string
	EmailProvider  string // "log", "noop" or a webhook URL
}

func Load() (*Config, error) {
	// Load .env when present; plain environment variables otherwise.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		EmailProvider:  os.Getenv("EMAIL_PROVIDER"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

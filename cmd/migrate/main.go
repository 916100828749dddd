package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/FinalGun/foodgram/config"
	"github.com/FinalGun/foodgram/internal/database"
)

// Bootstraps the application database: creates it if it does not exist,
// then applies the schema migrations.
func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := ensureDatabase(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("failed to create database")
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Str("database", cfg.DBName).Msg("migrations applied")
}

// ensureDatabase connects to the postgres maintenance database and creates
// the application database when missing.
func ensureDatabase(cfg *config.Config, log zerolog.Logger) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBSSLMode)
	admin, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Info().Str("database", cfg.DBName).Msg("creating database")
	_, err = admin.Exec(fmt.Sprintf("CREATE DATABASE %q", cfg.DBName))
	return err
}

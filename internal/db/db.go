package db

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schema string

func ConnectAndMigrate(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("failed to ping database")
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Error().Err(err).Msg("failed to apply schema")
		db.Close()
		return nil, err
	}

	log.Info().Msg("connected to database")
	return db, nil
}

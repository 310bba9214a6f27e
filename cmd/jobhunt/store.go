package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/config"
	"github.com/jonathan/jobhunt-tracker/internal/db"
)

var errNoDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// openStore loads the configuration and connects to the database it names.
func openStore(ctx context.Context) (*db.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errNoDatabaseURL
	}
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}

func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user-id %q: %w", raw, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid --user-id: nil UUID")
	}
	return id, nil
}

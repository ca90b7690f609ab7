// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
)

// Storages groups the server-side repositories into a single value
// passed to the service layer.
type Storages struct {
	UserRepository     UserRepository
	DocumentRepository DocumentRepository
}

// NewStorages initialises the server storage layer: it connects to
// PostgreSQL, applies pending migrations and wires the repositories.
func NewStorages(cfg config.DB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating server storages...")

	db, err := NewConnectPostgres(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, logger),
		DocumentRepository: NewDocumentRepository(db, logger),
	}, nil
}

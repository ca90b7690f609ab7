// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
)

// ClientStorages groups the agent-side storage layer into a single
// value that can be passed around the service layer. It owns the SQLite
// connection shared by the document cache and the mutation queue.
type ClientStorages struct {
	// Documents is the SQLite-backed repository for cached documents,
	// their cache metadata and the sync checkpoint.
	Documents LocalDocumentStore

	// DB is the underlying connection, exposed so the mutation queue
	// can share the same database file (one durable store per device).
	DB *sql.DB
}

// NewClientStorages initialises the agent storage layer: it opens the
// SQLite cache file named in cfg.Path (creating it if absent), ensures
// the schema, and wires a fresh [LocalDocumentStore].
func NewClientStorages(cfg config.Local, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("local cache connection error: %w", err)
	}

	return &ClientStorages{
		Documents: NewLocalDocumentStore(db, logger),
		DB:        db,
	}, nil
}

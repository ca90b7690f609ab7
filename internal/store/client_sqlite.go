// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
)

// NewConnectSQLite opens (creating if necessary) the agent's on-device
// SQLite cache at cfg.Path and ensures the document and checkpoint
// schema exists. WAL mode keeps concurrent reads cheap while the sync
// engine writes.
func NewConnectSQLite(ctx context.Context, cfg config.Local, log *logger.Logger) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create local cache dir: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error occurred during local cache connection")
		return nil, fmt.Errorf("open local cache %s: %w", path, err)
	}

	if path == ":memory:" {
		// an in-memory database lives inside a single connection
		conn.SetMaxOpenConns(1)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting local cache (ping)")
		return nil, err
	}

	if _, err = conn.ExecContext(ctx, createClientSchema); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating local cache schema")
		return nil, fmt.Errorf("create local cache schema: %w", err)
	}

	log.Info().Str("func", "NewConnectSQLite").Str("path", path).Msg("connected to local cache successfully")

	return conn, nil
}

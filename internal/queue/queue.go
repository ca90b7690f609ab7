// SPDX-License-Identifier: Apache-2.0

// Package queue implements the durable mutation queue: the ordered
// record of local writes awaiting transmission to the remote store.
// Entries live in the agent's SQLite cache so queued work survives
// restarts; per-document FIFO order is enforced at batch selection
// time.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/utils"
	"github.com/mpetrenko/fieldstore/models"
)

// Sentinel errors returned by queue methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrEntryNotFound is returned when an operation targets a queue
	// entry that does not exist.
	ErrEntryNotFound = errors.New("mutation queue entry not found")

	// ErrEntryTerminal is returned when a state transition targets an
	// entry already in a terminal state.
	ErrEntryTerminal = errors.New("mutation queue entry is terminal")
)

//go:generate mockgen -source=queue.go -destination=../mock/mutation_queue_mock.go -package=mock

// MutationQueue is the durable, ordered list of pending local writes.
type MutationQueue interface {
	// Enqueue records a pending local change and returns its entry id.
	Enqueue(ctx context.Context, entry models.MutationQueueEntry) (string, error)

	// NextBatch returns up to maxN entries eligible for transmission,
	// FIFO per document: no entry is returned while an earlier entry
	// for the same document is non-terminal. Returned entries are moved
	// to in_flight.
	NextBatch(ctx context.Context, maxN int) ([]models.MutationQueueEntry, error)

	// Ack removes an entry whose remote application was acknowledged.
	Ack(ctx context.Context, entryID string) error

	// MarkConflicted moves an entry to the terminal conflicted state,
	// recording the divergent sibling revisions for manual handling.
	MarkConflicted(ctx context.Context, entryID string, siblings []string) error

	// MarkFailed records a transient failure. The entry returns to
	// pending with an exponential backoff delay until the attempt bound
	// is reached, after which it becomes terminal failed — never
	// silently dropped.
	MarkFailed(ctx context.Context, entryID string, reason string) error

	// Get returns a single entry by id.
	Get(ctx context.Context, entryID string) (models.MutationQueueEntry, error)

	// ListByStatus returns all entries currently in the given status,
	// oldest first.
	ListByStatus(ctx context.Context, status models.EntryStatus) ([]models.MutationQueueEntry, error)

	// References reports whether a pending or in-flight entry targets
	// the document. Satisfies the quota manager's victim filter.
	References(docID string) bool

	// DirtyBase reports whether the document has any non-terminal entry
	// and, when it does, the base revision of its oldest one — the
	// revision the unsynced local chain was forked from. The sync engine
	// feeds both to the revision resolver.
	DirtyBase(ctx context.Context, docID string) (string, bool, error)
}

type sqliteQueue struct {
	db    *sql.DB
	cfg   config.Sync
	ids   *utils.UUIDGenerator
	now   func() time.Time
	log   *logger.Logger
}

// New constructs a SQLite-backed MutationQueue on db, ensures its
// schema, and recovers entries stranded in_flight by a crash back to
// pending so they are retransmitted (at-least-once).
func New(db *sql.DB, cfg config.Sync, log *logger.Logger) (MutationQueue, error) {
	q := &sqliteQueue{
		db:  db,
		cfg: cfg,
		ids: utils.NewUUIDGenerator(),
		now: time.Now,
		log: log,
	}

	if _, err := db.Exec(createQueueTable); err != nil {
		return nil, fmt.Errorf("create mutation_queue schema: %w", err)
	}
	if _, err := db.Exec(recoverInFlight); err != nil {
		return nil, fmt.Errorf("recover in-flight entries: %w", err)
	}

	return q, nil
}

func (q *sqliteQueue) Enqueue(ctx context.Context, entry models.MutationQueueEntry) (string, error) {
	log := logger.FromContext(ctx)

	entry.ID = q.ids.Generate()
	entry.Status = models.EntryPending
	entry.EnqueuedAt = q.now().UTC()
	entry.NextAttemptAt = entry.EnqueuedAt
	if entry.WrittenAt.IsZero() {
		entry.WrittenAt = entry.EnqueuedAt
	}

	_, err := q.db.ExecContext(ctx, insertEntry,
		entry.ID,
		entry.TargetDocumentID,
		string(entry.Operation),
		[]byte(entry.Payload),
		entry.BaseRevisionID,
		entry.WrittenAt.UnixNano(),
		entry.EnqueuedAt.UnixNano(),
		string(entry.Status),
		entry.NextAttemptAt.UnixNano(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteQueue.Enqueue").
			Str("document_id", entry.TargetDocumentID).
			Msg("failed to insert mutation queue entry")
		return "", fmt.Errorf("enqueue mutation for %s: %w", entry.TargetDocumentID, err)
	}

	return entry.ID, nil
}

func (q *sqliteQueue) NextBatch(ctx context.Context, maxN int) ([]models.MutationQueueEntry, error) {
	log := logger.FromContext(ctx)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin next batch tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, selectNextBatch, q.now().UTC().UnixNano(), maxN)
	if err != nil {
		log.Err(err).Str("func", "sqliteQueue.NextBatch").Msg("failed to select eligible entries")
		return nil, fmt.Errorf("select next batch: %w", err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if _, err = tx.ExecContext(ctx, markInFlight, entries[i].ID); err != nil {
			return nil, fmt.Errorf("mark entry %s in flight: %w", entries[i].ID, err)
		}
		entries[i].Status = models.EntryInFlight
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit next batch tx: %w", err)
	}

	return entries, nil
}

func (q *sqliteQueue) Ack(ctx context.Context, entryID string) error {
	res, err := q.db.ExecContext(ctx, deleteEntry, entryID)
	if err != nil {
		return fmt.Errorf("ack entry %s: %w", entryID, err)
	}

	return requireAffected(res, entryID)
}

func (q *sqliteQueue) MarkConflicted(ctx context.Context, entryID string, siblings []string) error {
	sib, err := json.Marshal(siblings)
	if err != nil {
		return fmt.Errorf("encode siblings for %s: %w", entryID, err)
	}

	res, err := q.db.ExecContext(ctx, markConflicted, string(sib), entryID)
	if err != nil {
		return fmt.Errorf("mark entry %s conflicted: %w", entryID, err)
	}

	return requireAffected(res, entryID)
}

func (q *sqliteQueue) MarkFailed(ctx context.Context, entryID string, reason string) error {
	log := logger.FromContext(ctx)

	entry, err := q.Get(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Status.Terminal() {
		return fmt.Errorf("entry %s: %w", entryID, ErrEntryTerminal)
	}

	attempts := entry.Attempts + 1
	if attempts >= q.cfg.MaxAttempts {
		// Retry bound exhausted: terminal, surfaced, never dropped.
		res, err := q.db.ExecContext(ctx, markFailedTerminal, attempts, reason, entryID)
		if err != nil {
			return fmt.Errorf("mark entry %s failed: %w", entryID, err)
		}
		log.Warn().
			Str("func", "sqliteQueue.MarkFailed").
			Str("entry_id", entryID).
			Int("attempts", attempts).
			Msg("mutation exhausted retry bound, requires attention")
		return requireAffected(res, entryID)
	}

	nextAttempt := q.now().UTC().Add(backoff(q.cfg, attempts))
	res, err := q.db.ExecContext(ctx, markFailedRetry, attempts, reason, nextAttempt.UnixNano(), entryID)
	if err != nil {
		return fmt.Errorf("schedule retry for entry %s: %w", entryID, err)
	}

	return requireAffected(res, entryID)
}

func (q *sqliteQueue) Get(ctx context.Context, entryID string) (models.MutationQueueEntry, error) {
	row := q.db.QueryRowContext(ctx, selectEntry, entryID)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MutationQueueEntry{}, fmt.Errorf("entry %s: %w", entryID, ErrEntryNotFound)
	}
	if err != nil {
		return models.MutationQueueEntry{}, fmt.Errorf("get entry %s: %w", entryID, err)
	}

	return entry, nil
}

func (q *sqliteQueue) ListByStatus(ctx context.Context, status models.EntryStatus) ([]models.MutationQueueEntry, error) {
	rows, err := q.db.QueryContext(ctx, selectByStatus, string(status))
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", status, err)
	}

	return scanEntries(rows)
}

func (q *sqliteQueue) References(docID string) bool {
	var n int
	err := q.db.QueryRow(countActiveForDocument, docID).Scan(&n)
	if err != nil {
		// Counting failure must not make the document evictable.
		q.log.Err(err).Str("func", "sqliteQueue.References").Str("document_id", docID).
			Msg("failed to count active entries, treating document as referenced")
		return true
	}

	return n > 0
}

func (q *sqliteQueue) DirtyBase(ctx context.Context, docID string) (string, bool, error) {
	var base string
	err := q.db.QueryRowContext(ctx, selectOldestActiveBase, docID).Scan(&base)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select active base for %s: %w", docID, err)
	}

	return base, true, nil
}

// backoff computes the exponential delay before retry number attempts,
// bounded by the configured min and max.
func backoff(cfg config.Sync, attempts int) time.Duration {
	d := cfg.BackoffMin
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= cfg.BackoffMax {
			return cfg.BackoffMax
		}
	}
	if d > cfg.BackoffMax {
		return cfg.BackoffMax
	}
	return d
}

func requireAffected(res sql.Result, entryID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for entry %s: %w", entryID, err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", entryID, ErrEntryNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.MutationQueueEntry, error) {
	var (
		entry        models.MutationQueueEntry
		op, status   string
		payload      []byte
		writtenAt    int64
		enqueuedAt   int64
		nextAttempt  int64
		siblingsJSON string
	)

	err := row.Scan(
		&entry.ID,
		&entry.TargetDocumentID,
		&op,
		&payload,
		&entry.BaseRevisionID,
		&writtenAt,
		&enqueuedAt,
		&status,
		&entry.Attempts,
		&nextAttempt,
		&siblingsJSON,
		&entry.LastError,
	)
	if err != nil {
		return models.MutationQueueEntry{}, err
	}

	entry.Operation = models.Operation(op)
	entry.Status = models.EntryStatus(status)
	entry.Payload = payload
	entry.WrittenAt = time.Unix(0, writtenAt).UTC()
	entry.EnqueuedAt = time.Unix(0, enqueuedAt).UTC()
	entry.NextAttemptAt = time.Unix(0, nextAttempt).UTC()

	if siblingsJSON != "" && siblingsJSON != "[]" {
		if err = json.Unmarshal([]byte(siblingsJSON), &entry.Siblings); err != nil {
			return models.MutationQueueEntry{}, fmt.Errorf("decode siblings of %s: %w", entry.ID, err)
		}
	}

	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]models.MutationQueueEntry, error) {
	defer rows.Close()

	var entries []models.MutationQueueEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mutation queue row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutation queue rows: %w", err)
	}

	return entries, nil
}

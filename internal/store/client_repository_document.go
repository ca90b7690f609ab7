// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/models"
)

// localDocumentStore is the SQLite-backed implementation of
// [LocalDocumentStore] used by the agent.
type localDocumentStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewLocalDocumentStore constructs a [LocalDocumentStore] backed by the
// provided SQLite connection and logger.
func NewLocalDocumentStore(db *sql.DB, logger *logger.Logger) LocalDocumentStore {
	return &localDocumentStore{
		db:     db,
		logger: logger,
	}
}

func (s *localDocumentStore) Save(ctx context.Context, doc models.LocalDocument) error {
	log := logger.FromContext(ctx)

	conflicts, err := encodeConflicts(doc.ConflictRevisions)
	if err != nil {
		return fmt.Errorf("encode conflict revisions for %s: %w", doc.ID, err)
	}

	_, err = s.db.ExecContext(ctx, upsertDocument,
		doc.ID,
		doc.RevisionID,
		conflicts,
		string(doc.Tier),
		doc.Pinned,
		doc.SizeBytes,
		doc.LastAccessedAt.UnixNano(),
		doc.Deleted,
		doc.OwnerID,
		doc.Kind,
		string(doc.State),
		nanosOrNil(doc.DueAt),
		[]byte(doc.Payload),
		doc.UpdatedAt.UnixNano(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "localDocumentStore.Save").
			Str("document_id", doc.ID).
			Msg("failed to execute upsert for document")
		return fmt.Errorf("failed to save document (id=%s): %w", doc.ID, err)
	}

	return nil
}

func (s *localDocumentStore) Get(ctx context.Context, id string) (models.LocalDocument, error) {
	log := logger.FromContext(ctx)

	row := s.db.QueryRowContext(ctx, getDocument, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LocalDocument{}, fmt.Errorf("document %s: %w", id, ErrDocumentNotFound)
	}
	if err != nil {
		log.Err(err).
			Str("func", "localDocumentStore.Get").
			Str("document_id", id).
			Msg("failed to scan document row")
		return models.LocalDocument{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return doc, nil
}

func (s *localDocumentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, deleteDocument, id)
	if err != nil {
		return fmt.Errorf("failed to delete document (id=%s): %w", id, err)
	}

	return requireDocumentAffected(res, id)
}

func (s *localDocumentStore) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, touchDocument, at.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to touch document (id=%s): %w", id, err)
	}

	return requireDocumentAffected(res, id)
}

func (s *localDocumentStore) SetTier(ctx context.Context, id string, tier models.Tier) error {
	res, err := s.db.ExecContext(ctx, setDocumentTier, string(tier), id)
	if err != nil {
		return fmt.Errorf("failed to set tier for document (id=%s): %w", id, err)
	}

	return requireDocumentAffected(res, id)
}

func (s *localDocumentStore) SetPinned(ctx context.Context, id string, pinned bool) error {
	res, err := s.db.ExecContext(ctx, setDocumentPinned, pinned, id)
	if err != nil {
		return fmt.Errorf("failed to set pin for document (id=%s): %w", id, err)
	}

	return requireDocumentAffected(res, id)
}

func (s *localDocumentStore) SetConflicts(ctx context.Context, id string, revisions []string) error {
	conflicts, err := encodeConflicts(revisions)
	if err != nil {
		return fmt.Errorf("encode conflict revisions for %s: %w", id, err)
	}

	res, err := s.db.ExecContext(ctx, setDocumentConflicts, conflicts, id)
	if err != nil {
		return fmt.Errorf("failed to set conflicts for document (id=%s): %w", id, err)
	}

	return requireDocumentAffected(res, id)
}

func (s *localDocumentStore) ListByTier(ctx context.Context, tier models.Tier) ([]models.LocalDocument, error) {
	rows, err := s.db.QueryContext(ctx, listDocumentsByTier, string(tier))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return scanDocuments(rows)
}

func (s *localDocumentStore) ListAll(ctx context.Context) ([]models.LocalDocument, error) {
	rows, err := s.db.QueryContext(ctx, listAllDocuments)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return scanDocuments(rows)
}

func (s *localDocumentStore) EvictionCandidates(ctx context.Context) ([]models.LocalDocument, error) {
	rows, err := s.db.QueryContext(ctx, listEvictionCandidates, string(models.TierRecent))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return scanDocuments(rows)
}

func (s *localDocumentStore) UsageByTier(ctx context.Context) (map[models.Tier]int64, error) {
	rows, err := s.db.QueryContext(ctx, usageByTier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	usage := make(map[models.Tier]int64, 4)
	for rows.Next() {
		var (
			tier  string
			bytes int64
		)
		if err = rows.Scan(&tier, &bytes); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		usage[models.Tier(tier)] = bytes
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return usage, nil
}

func (s *localDocumentStore) Checkpoint(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, getCheckpoint).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read sync checkpoint: %w", err)
	}

	return seq, nil
}

func (s *localDocumentStore) SetCheckpoint(ctx context.Context, seq int64) error {
	if _, err := s.db.ExecContext(ctx, setCheckpoint, seq); err != nil {
		return fmt.Errorf("advance sync checkpoint to %d: %w", seq, err)
	}

	return nil
}

func encodeConflicts(revisions []string) (string, error) {
	if len(revisions) == 0 {
		return "[]", nil
	}

	raw, err := json.Marshal(revisions)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func requireDocumentAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for document %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrDocumentNotFound)
	}
	return nil
}

func nanosOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixNano()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (models.LocalDocument, error) {
	var (
		doc        models.LocalDocument
		tier       string
		state      string
		conflicts  string
		accessedAt int64
		updatedAt  int64
		dueAt      sql.NullInt64
		payload    []byte
	)

	err := row.Scan(
		&doc.ID,
		&doc.RevisionID,
		&conflicts,
		&tier,
		&doc.Pinned,
		&doc.SizeBytes,
		&accessedAt,
		&doc.Deleted,
		&doc.OwnerID,
		&doc.Kind,
		&state,
		&dueAt,
		&payload,
		&updatedAt,
	)
	if err != nil {
		return models.LocalDocument{}, err
	}

	doc.Tier = models.Tier(tier)
	doc.State = models.DocumentState(state)
	doc.Payload = payload
	doc.LastAccessedAt = time.Unix(0, accessedAt).UTC()
	doc.UpdatedAt = time.Unix(0, updatedAt).UTC()

	if dueAt.Valid {
		due := time.Unix(0, dueAt.Int64).UTC()
		doc.DueAt = &due
	}

	if conflicts != "" && conflicts != "[]" {
		if err = json.Unmarshal([]byte(conflicts), &doc.ConflictRevisions); err != nil {
			return models.LocalDocument{}, fmt.Errorf("decode conflict revisions of %s: %w", doc.ID, err)
		}
	}

	return doc, nil
}

func scanDocuments(rows *sql.Rows) ([]models.LocalDocument, error) {
	defer rows.Close()

	var docs []models.LocalDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return docs, nil
}

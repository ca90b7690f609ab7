// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository]. Every write advances the shared documents_seq
// sequence so the changes feed observes a strictly increasing cursor.
type documentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *documentRepository) Changes(ctx context.Context, userID int64, since int64, limit int) ([]models.RemoteDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildChangesQuery(userID, since, limit)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Changes").
			Int64("user_id", userID).
			Msg("failed to build changes query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Changes").
			Int64("user_id", userID).
			Int64("since", since).
			Msg("failed to execute changes query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	docs := make([]models.RemoteDocument, 0, limit)

	for rows.Next() {
		doc, scanErr := scanRemoteDocument(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "documentRepository.Changes").
				Int64("user_id", userID).
				Msg("failed to scan changes row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		docs = append(docs, doc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "documentRepository.Changes").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return docs, nil
}

func (r *documentRepository) Get(ctx context.Context, id string) (models.RemoteDocument, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getRemoteDocument, id)

	doc, err := scanRemoteDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteDocument{}, fmt.Errorf("document %s: %w", id, ErrDocumentNotFound)
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Get").
			Str("document_id", id).
			Msg("failed to scan document row")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return doc, nil
}

func (r *documentRepository) Insert(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, insertDocument,
		doc.ID,
		doc.OwnerID,
		doc.Kind,
		string(doc.State),
		doc.DueAt,
		doc.Deleted,
		[]byte(doc.Payload),
		doc.RevisionID,
		doc.UpdatedAt,
	)

	if err := row.Scan(&doc.Seq); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			// Somebody created the document first: the writer's base
			// (nothing) is stale.
			return models.RemoteDocument{}, fmt.Errorf("document %s: %w", doc.ID, ErrRevisionConflict)
		}
		log.Err(err).
			Str("func", "documentRepository.Insert").
			Str("document_id", doc.ID).
			Msg("failed to insert document")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return doc, nil
}

func (r *documentRepository) Update(ctx context.Context, doc models.RemoteDocument, baseRevision string) (models.RemoteDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGuardedUpdateQuery(doc, baseRevision)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Update").
			Str("document_id", doc.ID).
			Msg("failed to build guarded update query")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	err = row.Scan(&doc.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		// The guard did not match: either the row is gone or another
		// writer advanced the revision since baseRevision was read.
		if _, getErr := r.Get(ctx, doc.ID); errors.Is(getErr, ErrDocumentNotFound) {
			return models.RemoteDocument{}, getErr
		}
		return models.RemoteDocument{}, fmt.Errorf("document %s: %w", doc.ID, ErrRevisionConflict)
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Update").
			Str("document_id", doc.ID).
			Msg("failed to execute guarded update")
		return models.RemoteDocument{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.classify(err))
	}

	return doc, nil
}

func scanRemoteDocument(row rowScanner) (models.RemoteDocument, error) {
	var (
		doc     models.RemoteDocument
		state   string
		dueAt   sql.NullTime
		payload []byte
	)

	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Kind,
		&state,
		&dueAt,
		&doc.Deleted,
		&payload,
		&doc.RevisionID,
		&doc.UpdatedAt,
		&doc.Seq,
	)
	if err != nil {
		return models.RemoteDocument{}, err
	}

	doc.State = models.DocumentState(state)
	doc.Payload = payload
	if dueAt.Valid {
		due := dueAt.Time.UTC()
		doc.DueAt = &due
	}

	return doc, nil
}

// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/revision"
	"github.com/mpetrenko/fieldstore/internal/store"
	"github.com/mpetrenko/fieldstore/models"
)

// documentService is the concrete implementation of DocumentService.
// It serves the changes feed and applies pushed client mutations
// against the authoritative document set, one entry at a time under an
// optimistic revision guard.
type documentService struct {
	documentRepository store.DocumentRepository
	logger             *logger.Logger
}

// NewDocumentService constructs a DocumentService over the given
// repository.
func NewDocumentService(documentRepository store.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		logger:             logger,
	}
}

func (s *documentService) Changes(ctx context.Context, userID int64, since int64, limit int) (models.ChangesResponse, error) {
	log := logger.FromContext(ctx)

	docs, err := s.documentRepository.Changes(ctx, userID, since, limit)
	if err != nil {
		log.Err(err).
			Int64("user_id", userID).
			Int64("since", since).
			Msg("changes feed query failed")
		return models.ChangesResponse{}, fmt.Errorf("changes feed query failed: %w", err)
	}

	next := since
	for _, doc := range docs {
		if doc.Seq > next {
			next = doc.Seq
		}
	}

	return models.ChangesResponse{
		Documents:  docs,
		NextCursor: next,
		Length:     len(docs),
	}, nil
}

// Push applies each entry of the batch independently and reports a
// per-entry outcome in submission order. A revision-guard miss becomes
// a conflict result carrying the current head; only infrastructure
// failures of the batch as a whole return an error.
func (s *documentService) Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error) {
	results := make([]models.PushResult, 0, len(req.Entries))

	for _, entry := range req.Entries {
		results = append(results, s.applyEntry(ctx, userID, entry))
	}

	return models.PushResponse{Results: results, Length: len(results)}, nil
}

func (s *documentService) applyEntry(ctx context.Context, userID int64, entry models.PushEntry) models.PushResult {
	log := logger.FromContext(ctx)

	result := models.PushResult{
		EntryID:    entry.EntryID,
		DocumentID: entry.DocumentID,
	}

	var (
		applied models.RemoteDocument
		err     error
	)

	switch entry.Operation {
	case models.OpCreate:
		applied, err = s.create(ctx, userID, entry)
	case models.OpUpdate:
		applied, err = s.mutate(ctx, userID, entry, false)
	case models.OpDelete:
		applied, err = s.mutate(ctx, userID, entry, true)
	default:
		err = fmt.Errorf("%w: unknown operation %q", ErrInvalidDataProvided, entry.Operation)
	}

	switch {
	case err == nil:
		result.Status = models.PushApplied
		result.RevisionID = applied.RevisionID

	case errors.Is(err, store.ErrRevisionConflict):
		result.Status = models.PushConflict
		if current, getErr := s.documentRepository.Get(ctx, entry.DocumentID); getErr == nil {
			result.Current = &current
		}

	default:
		log.Err(err).
			Str("entry_id", entry.EntryID).
			Str("document_id", entry.DocumentID).
			Msg("push entry failed")
		result.Status = models.PushError
		result.Error = err.Error()
	}

	return result
}

// create inserts a brand-new document at generation 1. The revision
// token is derived from the payload and the client's write timestamp,
// so the client that queued the create already holds the same token.
func (s *documentService) create(ctx context.Context, userID int64, entry models.PushEntry) (models.RemoteDocument, error) {
	doc := models.RemoteDocument{
		ID:         entry.DocumentID,
		RevisionID: revision.New(1, entry.Payload, entry.WrittenAt).String(),
		OwnerID:    userID,
		Kind:       entry.Kind,
		State:      entry.State,
		DueAt:      entry.DueAt,
		Payload:    entry.Payload,
		UpdatedAt:  entry.WrittenAt,
	}

	return s.documentRepository.Insert(ctx, doc)
}

// mutate applies an update or deletion on top of the entry's base
// revision. The guard fails as [store.ErrRevisionConflict] when the
// stored revision has moved past the base.
func (s *documentService) mutate(ctx context.Context, userID int64, entry models.PushEntry, deleted bool) (models.RemoteDocument, error) {
	base, err := revision.Parse(entry.BaseRevisionID)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("%w: base revision: %w", ErrInvalidDataProvided, err)
	}

	existing, err := s.documentRepository.Get(ctx, entry.DocumentID)
	if err != nil {
		return models.RemoteDocument{}, err
	}
	if existing.OwnerID != userID {
		return models.RemoteDocument{}, store.ErrDocumentNotFound
	}

	doc := models.RemoteDocument{
		ID:         entry.DocumentID,
		RevisionID: revision.New(base.Seq+1, entry.Payload, entry.WrittenAt).String(),
		OwnerID:    userID,
		Kind:       entry.Kind,
		State:      entry.State,
		DueAt:      entry.DueAt,
		Deleted:    deleted,
		Payload:    entry.Payload,
		UpdatedAt:  entry.WrittenAt,
	}
	if deleted {
		doc.Payload = nil
		doc.Kind = existing.Kind
		doc.State = existing.State
	}

	return s.documentRepository.Update(ctx, doc, entry.BaseRevisionID)
}

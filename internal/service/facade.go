// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/queue"
	"github.com/mpetrenko/fieldstore/internal/quota"
	"github.com/mpetrenko/fieldstore/internal/revision"
	"github.com/mpetrenko/fieldstore/internal/store"
	"github.com/mpetrenko/fieldstore/internal/tier"
	"github.com/mpetrenko/fieldstore/internal/utils"
	"github.com/mpetrenko/fieldstore/models"
)

// documentFacade implements [DocumentFacade] over the local cache, the
// mutation queue and the quota ledger. Writes are serialised under a
// single mutex so quota decisions and their effects apply atomically.
type documentFacade struct {
	docs     store.LocalDocumentStore
	queue    queue.MutationQueue
	quota    *quota.Manager
	session  *UserSession
	notifier *Notifier

	ids *utils.UUIDGenerator
	now func() time.Time

	mu sync.Mutex

	logger *logger.Logger
}

// NewDocumentFacade constructs the facade. The quota manager is
// expected to be seeded from the persisted cache before first use.
func NewDocumentFacade(
	docs store.LocalDocumentStore,
	q queue.MutationQueue,
	qm *quota.Manager,
	session *UserSession,
	notifier *Notifier,
	log *logger.Logger,
) DocumentFacade {
	return &documentFacade{
		docs:     docs,
		queue:    q,
		quota:    qm,
		session:  session,
		notifier: notifier,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   log,
	}
}

func (f *documentFacade) Get(ctx context.Context, id string) (models.LocalDocument, error) {
	doc, err := f.docs.Get(ctx, id)
	if err != nil {
		return models.LocalDocument{}, err
	}
	if doc.Deleted {
		return models.LocalDocument{}, fmt.Errorf("document %s: %w", id, store.ErrDocumentNotFound)
	}

	now := f.now().UTC()
	if err = f.docs.Touch(ctx, id, now); err != nil {
		return models.LocalDocument{}, err
	}
	doc.LastAccessedAt = now

	// Every access re-evaluates the tier; a stale recent document may
	// come back into the window, a pinned one stays pinned.
	if newTier := tier.Classify(doc, f.session.Context(now)); newTier != doc.Tier {
		if err = f.docs.SetTier(ctx, id, newTier); err != nil {
			return models.LocalDocument{}, err
		}
		f.quota.Reclassify(doc, doc.Tier, newTier)
		doc.Tier = newTier
	}

	return doc, nil
}

func (f *documentFacade) Put(ctx context.Context, doc models.LocalDocument) (models.LocalDocument, error) {
	log := logger.FromContext(ctx)

	if len(doc.Payload) == 0 {
		return models.LocalDocument{}, ErrInvalidDataProvided
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now().UTC()
	op := models.OpUpdate
	var existing *models.LocalDocument

	if doc.ID == "" {
		doc.ID = f.ids.Generate()
		op = models.OpCreate
	} else {
		cur, err := f.docs.Get(ctx, doc.ID)
		switch {
		case errors.Is(err, store.ErrDocumentNotFound):
			op = models.OpCreate
		case err != nil:
			return models.LocalDocument{}, err
		case cur.Conflicted():
			return models.LocalDocument{}, fmt.Errorf("document %s: %w", doc.ID, ErrDocumentConflicted)
		default:
			existing = &cur
			// The pin flag is cache metadata, not document content; it
			// survives edits.
			doc.Pinned = cur.Pinned
		}
	}

	base := ""
	seq := int64(1)
	if existing != nil {
		rev, err := revision.Parse(existing.RevisionID)
		if err != nil {
			return models.LocalDocument{}, err
		}
		base = existing.RevisionID
		seq = rev.Seq + 1
	}

	doc.RevisionID = revision.New(seq, doc.Payload, now).String()
	doc.SizeBytes = int64(len(doc.Payload))
	doc.LastAccessedAt = now
	doc.UpdatedAt = now
	doc.Deleted = false
	doc.ConflictRevisions = nil
	doc.Tier = tier.Classify(doc, f.session.Context(now))

	if err := f.admit(ctx, doc, existing); err != nil {
		return models.LocalDocument{}, err
	}

	if err := f.docs.Save(ctx, doc); err != nil {
		log.Err(err).
			Str("func", "documentFacade.Put").
			Str("document_id", doc.ID).
			Msg("failed to persist document")
		return models.LocalDocument{}, err
	}

	_, err := f.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: doc.ID,
		Operation:        op,
		Payload:          doc.Payload,
		BaseRevisionID:   base,
		WrittenAt:        now,
	})
	if err != nil {
		// A saved write with no queue entry would never reach the
		// remote: undo the save so the edit fails loudly instead of
		// dangling.
		f.quota.Release(doc)
		if existing != nil {
			f.quota.Commit(*existing, nil)
			if rbErr := f.docs.Save(ctx, *existing); rbErr != nil {
				log.Err(rbErr).
					Str("func", "documentFacade.Put").
					Str("document_id", doc.ID).
					Msg("failed to restore document after enqueue failure")
			}
		} else if rbErr := f.docs.Delete(ctx, doc.ID); rbErr != nil {
			log.Err(rbErr).
				Str("func", "documentFacade.Put").
				Str("document_id", doc.ID).
				Msg("failed to remove document after enqueue failure")
		}
		return models.LocalDocument{}, err
	}

	f.notifier.Publish(Event{DocumentID: doc.ID, Change: ChangeUpdated})

	return doc, nil
}

func (f *documentFacade) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.docs.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.Conflicted() {
		return fmt.Errorf("document %s: %w", id, ErrDocumentConflicted)
	}

	rev, err := revision.Parse(doc.RevisionID)
	if err != nil {
		return err
	}

	now := f.now().UTC()
	base := doc.RevisionID
	original := doc

	f.quota.Release(doc)

	// The tombstone is a minimal marker: no payload, no accounted
	// bytes. It is purged once the remote acknowledges the deletion.
	doc.Deleted = true
	doc.Payload = nil
	doc.SizeBytes = 0
	doc.RevisionID = revision.New(rev.Seq+1, nil, now).String()
	doc.UpdatedAt = now

	if err = f.docs.Save(ctx, doc); err != nil {
		f.quota.Commit(original, nil)
		return err
	}

	_, err = f.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: id,
		Operation:        models.OpDelete,
		BaseRevisionID:   base,
		WrittenAt:        now,
	})
	if err != nil {
		// An unqueued tombstone would never reach the remote: restore
		// the document so the deletion fails loudly.
		if rbErr := f.docs.Save(ctx, original); rbErr != nil {
			logger.FromContext(ctx).Err(rbErr).
				Str("func", "documentFacade.Remove").
				Str("document_id", id).
				Msg("failed to restore document after enqueue failure")
		} else {
			f.quota.Commit(original, nil)
		}
		return err
	}

	f.notifier.Publish(Event{DocumentID: id, Change: ChangeRemoved})

	return nil
}

func (f *documentFacade) Pin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.docs.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.Pinned {
		return nil
	}

	pinned := doc
	pinned.Pinned = true
	pinned.Tier = models.TierPinned

	if err = f.admit(ctx, pinned, &doc); err != nil {
		return err
	}

	if err = f.docs.Save(ctx, pinned); err != nil {
		return err
	}

	f.notifier.Publish(Event{DocumentID: id, Change: ChangeUpdated})

	return nil
}

func (f *documentFacade) Unpin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.docs.Get(ctx, id)
	if err != nil {
		return err
	}
	if !doc.Pinned {
		return nil
	}

	unpinned := doc
	unpinned.Pinned = false
	unpinned.Tier = tier.Classify(unpinned, f.session.Context(f.now().UTC()))

	if err = f.admit(ctx, unpinned, &doc); err != nil {
		return err
	}

	if err = f.docs.Save(ctx, unpinned); err != nil {
		return err
	}

	f.notifier.Publish(Event{DocumentID: id, Change: ChangeUpdated})

	return nil
}

func (f *documentFacade) QueryByTier(ctx context.Context, t models.Tier) ([]models.LocalDocument, error) {
	return f.docs.ListByTier(ctx, t)
}

func (f *documentFacade) QuotaStatus() models.QuotaStatus {
	return f.quota.Status()
}

func (f *documentFacade) ResolveConflict(ctx context.Context, id string, payload json.RawMessage) (models.LocalDocument, error) {
	if len(payload) == 0 {
		return models.LocalDocument{}, ErrInvalidDataProvided
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.docs.Get(ctx, id)
	if err != nil {
		return models.LocalDocument{}, err
	}
	if !doc.Conflicted() {
		return models.LocalDocument{}, fmt.Errorf("document %s: %w", id, ErrDocumentNotConflicted)
	}

	rev, err := revision.Parse(doc.RevisionID)
	if err != nil {
		return models.LocalDocument{}, err
	}

	now := f.now().UTC()
	base := doc.RevisionID
	resolved := doc
	resolved.Payload = payload
	resolved.SizeBytes = int64(len(payload))
	resolved.ConflictRevisions = nil
	resolved.RevisionID = revision.New(rev.Seq+1, payload, now).String()
	resolved.UpdatedAt = now
	resolved.LastAccessedAt = now
	resolved.Tier = tier.Classify(resolved, f.session.Context(now))

	if err = f.admit(ctx, resolved, &doc); err != nil {
		return models.LocalDocument{}, err
	}

	if err = f.docs.Save(ctx, resolved); err != nil {
		return models.LocalDocument{}, err
	}

	// The resolution travels as a regular update so every device
	// converges on the chosen payload.
	_, err = f.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: id,
		Operation:        models.OpUpdate,
		Payload:          payload,
		BaseRevisionID:   base,
		WrittenAt:        now,
	})
	if err != nil {
		// Same rule as Put: a resolution that cannot be queued must not
		// hold the local head.
		f.quota.Release(resolved)
		f.quota.Commit(doc, nil)
		if rbErr := f.docs.Save(ctx, doc); rbErr != nil {
			logger.FromContext(ctx).Err(rbErr).
				Str("func", "documentFacade.ResolveConflict").
				Str("document_id", id).
				Msg("failed to restore document after enqueue failure")
		}
		return models.LocalDocument{}, err
	}

	f.notifier.Publish(Event{DocumentID: id, Change: ChangeUpdated})

	return resolved, nil
}

func (f *documentFacade) Subscribe() (<-chan Event, func()) {
	return f.notifier.Subscribe()
}

// admit runs quota admission for doc. When the write replaces an
// existing document, the prior usage is released first and restored on
// rejection, so a failed write leaves the ledger untouched.
func (f *documentFacade) admit(ctx context.Context, doc models.LocalDocument, existing *models.LocalDocument) error {
	log := logger.FromContext(ctx)

	if existing != nil {
		f.quota.Release(*existing)
	}
	restore := func() {
		if existing != nil {
			f.quota.Commit(*existing, nil)
		}
	}

	candidates, err := f.docs.EvictionCandidates(ctx)
	if err != nil {
		restore()
		return err
	}
	// The document being replaced must not evict itself.
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.ID != doc.ID {
			filtered = append(filtered, c)
		}
	}

	decision := f.quota.Admit(doc, filtered)
	if decision.Kind == quota.Reject {
		restore()
		return fmt.Errorf("document %s (tier %s): %w", doc.ID, doc.Tier, ErrQuotaExceeded)
	}

	for _, victim := range decision.Victims {
		if err = f.docs.Delete(ctx, victim.ID); err != nil {
			restore()
			return fmt.Errorf("evict document %s: %w", victim.ID, err)
		}
		f.notifier.Publish(Event{DocumentID: victim.ID, Change: ChangeRemoved})
	}

	f.quota.Commit(doc, decision.Victims)

	if decision.Warning == models.QuotaCritical {
		log.Warn().
			Str("func", "documentFacade.admit").
			Str("document_id", doc.ID).
			Msg("device storage critically full")
	}

	return nil
}

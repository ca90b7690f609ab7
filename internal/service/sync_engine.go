// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mpetrenko/fieldstore/internal/adapter"
	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/queue"
	"github.com/mpetrenko/fieldstore/internal/quota"
	"github.com/mpetrenko/fieldstore/internal/revision"
	"github.com/mpetrenko/fieldstore/internal/store"
	"github.com/mpetrenko/fieldstore/internal/tier"
	"github.com/mpetrenko/fieldstore/models"
)

// syncEngine implements [SyncEngine]: pull the remote changes feed,
// reconcile each revision against the local cache, then push queued
// mutations and apply the per-entry outcomes. A cycle is interruptible
// between batches; progress already checkpointed is never repeated.
type syncEngine struct {
	remote   adapter.RemoteStore
	docs     store.LocalDocumentStore
	queue    queue.MutationQueue
	quota    *quota.Manager
	session  *UserSession
	notifier *Notifier
	cfg      config.Sync

	running sync.Mutex

	stateMu sync.RWMutex
	state   SyncState

	now func() time.Time

	logger *logger.Logger
}

// NewSyncEngine constructs a [SyncEngine] over the given remote
// adapter and local stores.
func NewSyncEngine(
	remote adapter.RemoteStore,
	docs store.LocalDocumentStore,
	q queue.MutationQueue,
	qm *quota.Manager,
	session *UserSession,
	notifier *Notifier,
	cfg config.Sync,
	log *logger.Logger,
) SyncEngine {
	return &syncEngine{
		remote:   remote,
		docs:     docs,
		queue:    q,
		quota:    qm,
		session:  session,
		notifier: notifier,
		cfg:      cfg,
		state:    SyncIdle,
		now:      time.Now,
		logger:   log,
	}
}

func (e *syncEngine) State() SyncState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

func (e *syncEngine) setState(s SyncState) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

func (e *syncEngine) RunCycle(ctx context.Context) error {
	if !e.running.TryLock() {
		return ErrSyncInProgress
	}
	defer e.running.Unlock()

	log := logger.FromContext(ctx)

	if err := e.pull(ctx); err != nil {
		e.setState(SyncErrored)
		log.Err(err).Str("func", "syncEngine.RunCycle").Msg("pull phase failed")
		return err
	}

	if err := e.push(ctx); err != nil {
		e.setState(SyncErrored)
		log.Err(err).Str("func", "syncEngine.RunCycle").Msg("push phase failed")
		return err
	}

	e.setState(SyncIdle)
	return nil
}

// pull drains the remote changes feed batch by batch, reconciling each
// revision and checkpointing the cursor only after a batch has been
// fully applied. A cycle interrupted mid-feed resumes from the last
// durable checkpoint.
func (e *syncEngine) pull(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.setState(SyncPulling)

		since, err := e.docs.Checkpoint(ctx)
		if err != nil {
			return err
		}

		changes, err := e.remote.Changes(ctx, since, e.cfg.PullBatchSize)
		if err != nil {
			return fmt.Errorf("pull changes since %d: %w", since, err)
		}
		if len(changes.Documents) == 0 {
			return nil
		}

		e.setState(SyncReconciling)

		for _, incoming := range changes.Documents {
			if err = e.applyRemote(ctx, incoming); err != nil {
				return err
			}
		}

		if err = e.docs.SetCheckpoint(ctx, changes.NextCursor); err != nil {
			return err
		}

		if len(changes.Documents) < e.cfg.PullBatchSize {
			return nil
		}
	}
}

// applyRemote reconciles one remote revision with the local cache.
// Re-delivery of a known revision is a no-op, so an interrupted batch
// can safely be replayed.
func (e *syncEngine) applyRemote(ctx context.Context, incoming models.RemoteDocument) error {
	log := logger.FromContext(ctx)

	local, err := e.docs.Get(ctx, incoming.ID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return e.admitNew(ctx, incoming)
	}
	if err != nil {
		return err
	}

	base, dirty, err := e.queue.DirtyBase(ctx, incoming.ID)
	if err != nil {
		return err
	}

	if incoming.Deleted {
		return e.applyRemoteDelete(ctx, local, incoming, dirty)
	}

	outcome, err := revision.Resolve(local, incoming, dirty, base)
	if err != nil {
		// An undecodable token is an integrity failure for this
		// document; surfacing it beats silently overwriting data.
		return err
	}

	switch outcome.Kind {
	case revision.Noop:
		return nil

	case revision.Clean:
		return e.fastForward(ctx, local, incoming)

	case revision.Conflict:
		return e.recordConflict(ctx, local, incoming, outcome)

	default:
		log.Error().
			Str("func", "syncEngine.applyRemote").
			Str("document_id", incoming.ID).
			Msg("unreachable resolution outcome")
		return nil
	}
}

// admitNew caches a document seen for the first time, if its tier
// retains it and the quota admits it. A rejected document simply stays
// remote-only.
func (e *syncEngine) admitNew(ctx context.Context, incoming models.RemoteDocument) error {
	if incoming.Deleted {
		return nil
	}

	now := e.now().UTC()
	doc := models.LocalDocument{
		ID:             incoming.ID,
		RevisionID:     incoming.RevisionID,
		SizeBytes:      int64(len(incoming.Payload)),
		LastAccessedAt: now,
		OwnerID:        incoming.OwnerID,
		Kind:           incoming.Kind,
		State:          incoming.State,
		DueAt:          incoming.DueAt,
		Payload:        incoming.Payload,
		UpdatedAt:      incoming.UpdatedAt,
	}
	doc.Tier = tier.Classify(doc, e.session.Context(now))
	if !doc.Tier.Retained() {
		return nil
	}

	candidates, err := e.docs.EvictionCandidates(ctx)
	if err != nil {
		return err
	}

	decision := e.quota.Admit(doc, candidates)
	if decision.Kind == quota.Reject {
		// No room: the document stays remote-only until demand pulls
		// it in again.
		return nil
	}

	for _, victim := range decision.Victims {
		if err = e.docs.Delete(ctx, victim.ID); err != nil {
			return fmt.Errorf("evict document %s: %w", victim.ID, err)
		}
		e.notifier.Publish(Event{DocumentID: victim.ID, Change: ChangeRemoved})
	}
	e.quota.Commit(doc, decision.Victims)

	if err = e.docs.Save(ctx, doc); err != nil {
		return err
	}

	e.notifier.Publish(Event{DocumentID: doc.ID, Change: ChangeUpdated})
	return nil
}

// applyRemoteDelete handles a deletion arriving on the changes feed. A
// clean local copy is dropped; a locally edited one becomes a conflict
// for the user to settle.
func (e *syncEngine) applyRemoteDelete(ctx context.Context, local models.LocalDocument, incoming models.RemoteDocument, dirty bool) error {
	if dirty && !local.Deleted {
		// Remote deleted what we edited: never silently discard the
		// local write.
		if local.HasConflictRevision(incoming.RevisionID) {
			return nil
		}
		if err := e.docs.SetConflicts(ctx, local.ID, append(local.ConflictRevisions, incoming.RevisionID)); err != nil {
			return err
		}
		e.notifier.Publish(Event{DocumentID: local.ID, Change: ChangeConflicted})
		return nil
	}

	if err := e.docs.Delete(ctx, local.ID); err != nil {
		return err
	}
	e.quota.Release(local)
	e.notifier.Publish(Event{DocumentID: local.ID, Change: ChangeRemoved})
	return nil
}

// fastForward replaces the local copy with a direct descendant.
func (e *syncEngine) fastForward(ctx context.Context, local models.LocalDocument, incoming models.RemoteDocument) error {
	now := e.now().UTC()

	updated := local
	updated.RevisionID = incoming.RevisionID
	updated.Kind = incoming.Kind
	updated.State = incoming.State
	updated.DueAt = incoming.DueAt
	updated.Payload = incoming.Payload
	updated.SizeBytes = int64(len(incoming.Payload))
	updated.UpdatedAt = incoming.UpdatedAt
	updated.Tier = tier.Classify(updated, e.session.Context(now))

	if !updated.Tier.Retained() {
		if err := e.docs.Delete(ctx, local.ID); err != nil {
			return err
		}
		e.quota.Release(local)
		e.notifier.Publish(Event{DocumentID: local.ID, Change: ChangeRemoved})
		return nil
	}

	if updated.Tier != local.Tier {
		e.quota.Reclassify(local, local.Tier, updated.Tier)
	}
	e.quota.Resize(updated.Tier, local.SizeBytes, updated.SizeBytes)

	if err := e.docs.Save(ctx, updated); err != nil {
		return err
	}

	e.notifier.Publish(Event{DocumentID: updated.ID, Change: ChangeUpdated})
	return nil
}

// recordConflict applies the most-recent-write-wins outcome: the
// winning payload becomes the head, the losing revision token joins the
// sibling set, and nothing is discarded.
func (e *syncEngine) recordConflict(ctx context.Context, local models.LocalDocument, incoming models.RemoteDocument, outcome revision.Outcome) error {
	updated := local
	updated.ConflictRevisions = append(updated.ConflictRevisions, outcome.Siblings...)

	if outcome.RemoteWins {
		updated.RevisionID = incoming.RevisionID
		updated.Kind = incoming.Kind
		updated.State = incoming.State
		updated.DueAt = incoming.DueAt
		updated.Payload = incoming.Payload
		updated.SizeBytes = int64(len(incoming.Payload))
		updated.UpdatedAt = incoming.UpdatedAt

		e.quota.Resize(local.Tier, local.SizeBytes, updated.SizeBytes)
	}

	if err := e.docs.Save(ctx, updated); err != nil {
		return err
	}

	e.notifier.Publish(Event{DocumentID: updated.ID, Change: ChangeConflicted})
	return nil
}

// push drains the mutation queue batch by batch and applies the
// per-entry outcomes. Transport failures mark the whole batch for
// retry; they never drop entries.
func (e *syncEngine) push(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.setState(SyncPushing)

		batch, err := e.queue.NextBatch(ctx, e.cfg.PushBatchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		req, err := e.buildPushRequest(ctx, batch)
		if err != nil {
			return err
		}

		resp, err := e.remote.Push(ctx, req)
		if err != nil {
			// Transport failure: every entry returns to pending with
			// backoff and will be retransmitted.
			for _, entry := range batch {
				if markErr := e.queue.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
					return markErr
				}
			}
			return fmt.Errorf("push batch: %w", err)
		}

		if err = e.applyPushResults(ctx, batch, resp); err != nil {
			return err
		}

		if len(batch) < e.cfg.PushBatchSize {
			return nil
		}
	}
}

func (e *syncEngine) buildPushRequest(ctx context.Context, batch []models.MutationQueueEntry) (models.PushRequest, error) {
	entries := make([]models.PushEntry, 0, len(batch))

	for _, entry := range batch {
		doc, err := e.docs.Get(ctx, entry.TargetDocumentID)
		if err != nil {
			return models.PushRequest{}, fmt.Errorf("load document for entry %s: %w", entry.ID, err)
		}

		entries = append(entries, models.PushEntry{
			EntryID:        entry.ID,
			DocumentID:     entry.TargetDocumentID,
			Operation:      entry.Operation,
			Payload:        entry.Payload,
			BaseRevisionID: entry.BaseRevisionID,
			Kind:           doc.Kind,
			State:          doc.State,
			DueAt:          doc.DueAt,
			// The entry's own write timestamp, not the document head's:
			// the remote derives the revision token from it, and later
			// queued writes have already moved the head past this entry.
			WrittenAt: entry.WrittenAt,
		})
	}

	return models.PushRequest{Entries: entries}, nil
}

func (e *syncEngine) applyPushResults(ctx context.Context, batch []models.MutationQueueEntry, resp models.PushResponse) error {
	log := logger.FromContext(ctx)

	byID := make(map[string]models.MutationQueueEntry, len(batch))
	for _, entry := range batch {
		byID[entry.ID] = entry
	}

	for _, result := range resp.Results {
		entry, ok := byID[result.EntryID]
		if !ok {
			log.Warn().
				Str("func", "syncEngine.applyPushResults").
				Str("entry_id", result.EntryID).
				Msg("push result references unknown entry")
			continue
		}

		switch result.Status {
		case models.PushApplied:
			if err := e.confirmApplied(ctx, entry, result); err != nil {
				return err
			}

		case models.PushConflict:
			if err := e.confirmConflict(ctx, entry, result); err != nil {
				return err
			}

		default:
			if err := e.queue.MarkFailed(ctx, entry.ID, result.Error); err != nil {
				return err
			}
		}
	}

	return nil
}

// confirmApplied acknowledges a transmitted entry and settles the local
// copy: tombstones are purged, revisions adopt the server-assigned
// token.
func (e *syncEngine) confirmApplied(ctx context.Context, entry models.MutationQueueEntry, result models.PushResult) error {
	if err := e.queue.Ack(ctx, entry.ID); err != nil {
		return err
	}

	if entry.Operation == models.OpDelete {
		doc, err := e.docs.Get(ctx, entry.TargetDocumentID)
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = e.docs.Delete(ctx, doc.ID); err != nil {
			return err
		}
		e.quota.Release(doc)
		return nil
	}

	doc, err := e.docs.Get(ctx, entry.TargetDocumentID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// With later writes still queued the local head is already ahead of
	// the acked entry; adopting the server token here would rewind it.
	_, dirty, err := e.queue.DirtyBase(ctx, entry.TargetDocumentID)
	if err != nil {
		return err
	}
	if !dirty && result.RevisionID != "" && doc.RevisionID != result.RevisionID {
		doc.RevisionID = result.RevisionID
		if err = e.docs.Save(ctx, doc); err != nil {
			return err
		}
	}

	return nil
}

// confirmConflict records a push rejection: the entry becomes terminal
// conflicted and the remote head's revision joins the document's
// sibling set for explicit resolution.
func (e *syncEngine) confirmConflict(ctx context.Context, entry models.MutationQueueEntry, result models.PushResult) error {
	siblings := make([]string, 0, 1)
	if result.Current != nil {
		siblings = append(siblings, result.Current.RevisionID)
	}

	if err := e.queue.MarkConflicted(ctx, entry.ID, siblings); err != nil {
		return err
	}

	doc, err := e.docs.Get(ctx, entry.TargetDocumentID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	for _, sibling := range siblings {
		if !doc.HasConflictRevision(sibling) {
			doc.ConflictRevisions = append(doc.ConflictRevisions, sibling)
			changed = true
		}
	}
	if changed {
		if err = e.docs.SetConflicts(ctx, doc.ID, doc.ConflictRevisions); err != nil {
			return err
		}
	}

	e.notifier.Publish(Event{DocumentID: doc.ID, Change: ChangeConflicted})
	return nil
}

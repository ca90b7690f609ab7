// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/mpetrenko/fieldstore/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalDocumentStore is the low-level repository over the agent's
// on-device document cache. It persists documents together with their
// cache metadata (tier, pin flag, access time, conflict siblings) and
// the sync checkpoint, and knows nothing about quota or classification
// policy.
type LocalDocumentStore interface {
	// Save upserts a document with all of its cache metadata.
	Save(ctx context.Context, doc models.LocalDocument) error

	// Get returns a single document by id, tombstones included.
	// Returns [ErrDocumentNotFound] when no row matches.
	Get(ctx context.Context, id string) (models.LocalDocument, error)

	// Delete removes a document row entirely. Used for eviction and for
	// purging tombstones once the remote confirmed the deletion.
	Delete(ctx context.Context, id string) error

	// Touch records an access: bumps last_accessed_at to at.
	Touch(ctx context.Context, id string, at time.Time) error

	// SetTier rewrites the stored tier after reclassification.
	SetTier(ctx context.Context, id string, tier models.Tier) error

	// SetPinned flips the user-controlled pin flag.
	SetPinned(ctx context.Context, id string, pinned bool) error

	// SetConflicts replaces the document's sibling revision set. An
	// empty slice clears the conflicted state.
	SetConflicts(ctx context.Context, id string, revisions []string) error

	// ListByTier returns live (non-tombstone) documents in a tier,
	// most recently accessed first.
	ListByTier(ctx context.Context, tier models.Tier) ([]models.LocalDocument, error)

	// ListAll returns every stored document, tombstones included.
	ListAll(ctx context.Context) ([]models.LocalDocument, error)

	// EvictionCandidates returns live recent-tier documents that are
	// neither pinned nor conflicted, least recently accessed first.
	EvictionCandidates(ctx context.Context) ([]models.LocalDocument, error)

	// UsageByTier returns the stored byte total per tier, used to seed
	// the quota ledger at startup.
	UsageByTier(ctx context.Context) (map[models.Tier]int64, error)

	// Checkpoint returns the last fully processed remote change cursor,
	// zero when no pull has completed yet.
	Checkpoint(ctx context.Context) (int64, error)

	// SetCheckpoint durably advances the remote change cursor.
	SetCheckpoint(ctx context.Context, seq int64) error
}

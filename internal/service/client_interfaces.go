// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"

	"github.com/mpetrenko/fieldstore/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// DocumentFacade is the single entry point application code uses to
// read and write cached documents. Every operation goes through
// classification, quota admission and mutation queueing in one place,
// so callers can never bypass the offline bookkeeping.
type DocumentFacade interface {
	// Get returns a cached document, records the access, and
	// re-evaluates its tier. Tombstones read as not found.
	Get(ctx context.Context, id string) (models.LocalDocument, error)

	// Put writes a document locally and enqueues the change for
	// transmission. A zero ID creates a new document. Completes
	// entirely offline; returns the stored document with its new
	// revision. Conflicted documents reject writes with
	// [ErrDocumentConflicted]; quota rejections surface as
	// [ErrQuotaExceeded].
	Put(ctx context.Context, doc models.LocalDocument) (models.LocalDocument, error)

	// Remove tombstones a document locally and enqueues the deletion.
	// The tombstone survives until the remote confirms.
	Remove(ctx context.Context, id string) error

	// Pin moves a document into the pinned tier, exempting it from
	// automatic eviction. Rejected with [ErrQuotaExceeded] at the
	// pinned ceiling.
	Pin(ctx context.Context, id string) error

	// Unpin returns a pinned document to automatic classification.
	Unpin(ctx context.Context, id string) error

	// QueryByTier lists live documents currently held in a tier.
	QueryByTier(ctx context.Context, tier models.Tier) ([]models.LocalDocument, error)

	// QuotaStatus reports current usage against the configured
	// ceilings.
	QuotaStatus() models.QuotaStatus

	// ResolveConflict replaces a conflicted document's content with the
	// caller's chosen payload, clears the sibling set and enqueues the
	// resolution as a regular update so every device converges.
	ResolveConflict(ctx context.Context, id string, payload json.RawMessage) (models.LocalDocument, error)

	// Subscribe registers for document change events. The returned
	// cancel func releases the subscription.
	Subscribe() (<-chan Event, func())
}

// SyncState is the engine's externally visible phase.
type SyncState string

const (
	SyncIdle        SyncState = "idle"
	SyncPulling     SyncState = "pulling"
	SyncReconciling SyncState = "reconciling"
	SyncPushing     SyncState = "pushing"
	SyncErrored     SyncState = "errored"
)

// SyncEngine drives the pull-reconcile-push cycle against the remote
// store.
type SyncEngine interface {
	// RunCycle executes one full sync cycle. Cycles never overlap; a
	// concurrent call fails fast with [ErrSyncInProgress]. Returns nil
	// when the cycle completed, including cycles that recorded
	// conflicts or terminal entries.
	RunCycle(ctx context.Context) error

	// State reports the engine's current phase.
	State() SyncState
}

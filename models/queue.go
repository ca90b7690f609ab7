// SPDX-License-Identifier: Apache-2.0

package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of pending local change recorded in the
// mutation queue.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// EntryStatus is the lifecycle state of a mutation queue entry.
type EntryStatus string

const (
	// EntryPending entries await transmission (or a retry slot after a
	// transient failure).
	EntryPending EntryStatus = "pending"

	// EntryInFlight entries are part of the push batch currently being
	// transmitted. An in-flight entry blocks later entries for the same
	// document.
	EntryInFlight EntryStatus = "in_flight"

	// EntryConflicted is terminal: the remote rejected the entry because
	// its base revision diverged. The entry is retained for manual
	// handling, never dropped.
	EntryConflicted EntryStatus = "conflicted"

	// EntryFailed is terminal: the retry bound was exhausted. The entry
	// surfaces as a fatal item requiring attention.
	EntryFailed EntryStatus = "failed"
)

// Terminal reports whether the status is one the sync engine will never
// transition out of on its own.
func (s EntryStatus) Terminal() bool {
	return s == EntryConflicted || s == EntryFailed
}

// MutationQueueEntry is one pending local change awaiting transmission
// to the remote store.
type MutationQueueEntry struct {
	ID               string          `json:"id"`
	TargetDocumentID string          `json:"target_document_id"`
	Operation        Operation       `json:"operation"`
	Payload          json.RawMessage `json:"payload,omitempty"`

	// BaseRevisionID is the revision the edit was made against. The
	// remote applies the entry only if its current revision still
	// matches.
	BaseRevisionID string `json:"base_revision_id"`

	// WrittenAt is the wall clock of the local write that produced the
	// entry. The remote derives the resulting revision token from it, so
	// it is carried per entry rather than read off the document at push
	// time.
	WrittenAt time.Time `json:"written_at"`

	EnqueuedAt time.Time   `json:"enqueued_at"`
	Status     EntryStatus `json:"status"`

	// Attempts counts transmission attempts; NextAttemptAt is the
	// earliest time a pending retry becomes eligible again.
	Attempts      int       `json:"attempts"`
	NextAttemptAt time.Time `json:"next_attempt_at"`

	// Siblings records the divergent revisions reported by the remote
	// when the entry was marked conflicted.
	Siblings []string `json:"siblings,omitempty"`

	LastError string `json:"last_error,omitempty"`
}

func (e MutationQueueEntry) TableName() string {
	return "mutation_queue"
}

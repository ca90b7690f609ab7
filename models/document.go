// SPDX-License-Identifier: Apache-2.0

package models

import (
	"encoding/json"
	"time"
)

// DocumentState is the business lifecycle state of the entity a cached
// document represents. The tier classifier treats open/active records
// owned by the current user as essential.
type DocumentState string

const (
	StateOpen   DocumentState = "open"
	StateActive DocumentState = "active"
	StateClosed DocumentState = "closed"
)

// LocalDocument is a cached copy of a remote entity held in the device's
// local store.
type LocalDocument struct {
	// ID is the stable identifier, unique across the local store.
	ID string `json:"id"`

	// RevisionID is the opaque token identifying the specific version
	// fetched or written, in "<seq>-<digest>" form. Monotonic per
	// document lineage.
	RevisionID string `json:"revision_id"`

	// ConflictRevisions holds sibling revision tokens observed when a
	// write would overwrite a revision the client did not last read.
	// Empty in the non-conflicted state. A document with a non-empty
	// set is never auto-evicted and never silently overwritten; it
	// requires explicit resolution.
	ConflictRevisions []string `json:"conflict_revisions,omitempty"`

	// Tier is assigned at write time and re-evaluated on every access.
	Tier Tier `json:"tier"`

	// Pinned is set explicitly by the user and overrides automatic
	// eviction regardless of the computed tier.
	Pinned bool `json:"pinned"`

	// SizeBytes is the serialized payload size used for quota accounting.
	SizeBytes int64 `json:"size_bytes"`

	// LastAccessedAt drives the recent tier's LRU eviction.
	LastAccessedAt time.Time `json:"last_accessed_at"`

	// Deleted marks a tombstone: the document is retained as a minimal
	// marker until sync confirms remote deletion, then purged.
	Deleted bool `json:"deleted"`

	// OwnerID, Kind, State and DueAt are the entity attributes the tier
	// classifier reads. They mirror fields of the remote record.
	OwnerID int64         `json:"owner_id"`
	Kind    string        `json:"kind"`
	State   DocumentState `json:"state"`
	DueAt   *time.Time    `json:"due_at,omitempty"`

	Payload   json.RawMessage `json:"payload,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Conflicted reports whether the document carries unresolved sibling
// revisions.
func (d LocalDocument) Conflicted() bool {
	return len(d.ConflictRevisions) > 0
}

// HasConflictRevision reports whether rev is one of the document's
// recorded sibling revisions.
func (d LocalDocument) HasConflictRevision(rev string) bool {
	for _, r := range d.ConflictRevisions {
		if r == rev {
			return true
		}
	}
	return false
}

func (d LocalDocument) TableName() string {
	return "documents"
}

// RemoteDocument is one entry of the server's changes feed: the remote
// side of a document at a specific point in its history.
type RemoteDocument struct {
	ID         string          `json:"id"`
	RevisionID string          `json:"revision_id"`
	OwnerID    int64           `json:"owner_id"`
	Kind       string          `json:"kind"`
	State      DocumentState   `json:"state"`
	DueAt      *time.Time      `json:"due_at,omitempty"`
	Deleted    bool            `json:"deleted"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Seq is the server-side change cursor position of this revision.
	Seq int64 `json:"seq"`
}

// UserContext carries the current-user attributes the tier classifier
// evaluates against. Now is injected so classification stays
// deterministic under test.
type UserContext struct {
	UserID            int64
	ProfileDocumentID string
	Now               time.Time
	RecencyWindow     time.Duration
}

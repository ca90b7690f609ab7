// SPDX-License-Identifier: Apache-2.0

package models

import (
	"encoding/json"
	"time"
)

// ChangesResponse is the server's answer to a changes-feed pull: every
// document revision with a cursor position greater than the requested
// one, plus the cursor the client should checkpoint after durably
// applying the batch.
type ChangesResponse struct {
	Documents []RemoteDocument `json:"documents"`

	// NextCursor is the highest Seq included in Documents, or the
	// requested cursor when the feed is drained.
	NextCursor int64 `json:"next_cursor"`

	// Length is the total number of entries in Documents.
	Length int `json:"length"`
}

// PushEntry is one queued local mutation as transmitted to the remote
// store.
type PushEntry struct {
	EntryID        string          `json:"entry_id"`
	DocumentID     string          `json:"document_id"`
	Operation      Operation       `json:"operation"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	BaseRevisionID string          `json:"base_revision_id"`
	Kind           string          `json:"kind,omitempty"`
	State          DocumentState   `json:"state,omitempty"`
	DueAt          *time.Time      `json:"due_at,omitempty"`

	// WrittenAt is the client wall-clock of the local edit; it becomes
	// the write timestamp embedded in the resulting revision metadata.
	WrittenAt time.Time `json:"written_at"`
}

// PushRequest carries a batch of queued mutations. Entries for distinct
// documents are independent; the batch never contains two entries for
// the same document.
type PushRequest struct {
	Entries []PushEntry `json:"entries"`
	Length  int         `json:"length"`
}

// PushResultStatus classifies the per-entry outcome of a push.
type PushResultStatus string

const (
	PushApplied  PushResultStatus = "applied"
	PushConflict PushResultStatus = "conflict"
	PushError    PushResultStatus = "error"
)

// PushResult is the remote outcome for a single pushed entry.
type PushResult struct {
	EntryID    string           `json:"entry_id"`
	DocumentID string           `json:"document_id"`
	Status     PushResultStatus `json:"status"`

	// RevisionID is the revision the remote assigned when Status is
	// PushApplied.
	RevisionID string `json:"revision_id,omitempty"`

	// Current describes the remote's current head when Status is
	// PushConflict, so the client can resolve against it.
	Current *RemoteDocument `json:"current,omitempty"`

	Error string `json:"error,omitempty"`
}

// PushResponse is the server's answer to a push batch, one result per
// submitted entry, in submission order.
type PushResponse struct {
	Results []PushResult `json:"results"`
	Length  int          `json:"length"`
}

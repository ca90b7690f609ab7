// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/mpetrenko/fieldstore/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_store_mock.go -package=mock

// UserRepository manages server-side user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// DocumentRepository manages the server's authoritative document set
// and its monotonic change cursor.
type DocumentRepository interface {
	// Changes returns documents visible to the user whose cursor is
	// strictly greater than since, oldest first, at most limit rows.
	Changes(ctx context.Context, userID int64, since int64, limit int) ([]models.RemoteDocument, error)

	// Get returns the current state of a document, deletions included.
	// Returns [ErrDocumentNotFound] when no row matches.
	Get(ctx context.Context, id string) (models.RemoteDocument, error)

	// Insert creates a document that must not exist yet. A duplicate id
	// is reported as [ErrRevisionConflict]: somebody already created it.
	Insert(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error)

	// Update applies a new document state guarded by an optimistic
	// revision check: the row is written only while its stored revision
	// still equals baseRevision. A stale base is reported as
	// [ErrRevisionConflict], a missing row as [ErrDocumentNotFound].
	Update(ctx context.Context, doc models.RemoteDocument, baseRevision string) (models.RemoteDocument, error)
}

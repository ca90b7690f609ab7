// SPDX-License-Identifier: Apache-2.0

// Package adapter provides transport-layer abstractions for
// communicating with the fieldstore remote store.
//
// The primary abstraction is [RemoteStore], which decouples the sync
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteStore]).
//
// Error values defined in errors.go are mapped from HTTP status codes
// by mapHTTPError so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/mpetrenko/fieldstore/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the remote
// store. Implementations are responsible for serialisation, bearer
// token management, and mapping transport-level errors to the sentinel
// values defined in this package.
type RemoteStore interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Called after a successful Register or
	// Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter,
	// or an empty string if none has been set yet.
	Token() string

	// Register creates an account on the remote store. On success it
	// stores the returned bearer token via SetToken.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates against the remote store with the account's
	// derived password hash. On success it stores the returned bearer
	// token via SetToken.
	Login(ctx context.Context, user models.User) (models.User, error)

	// Changes pulls the changes feed: every document revision past the
	// since cursor, at most limit entries, oldest first.
	Changes(ctx context.Context, since int64, limit int) (models.ChangesResponse, error)

	// Push transmits a batch of queued mutations and returns the
	// per-entry outcomes in submission order. Conflicts are reported in
	// the response body, not as a transport error: the batch as a whole
	// succeeds even when individual entries are rejected.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)
}

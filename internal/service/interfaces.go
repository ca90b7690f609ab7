// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"

	"github.com/mpetrenko/fieldstore/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_service_mock.go -package=mock

// AuthService handles account registration, credential verification and
// the JWT token lifecycle on the server side.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// DocumentService is the server-side sync surface: the changes feed and
// the push endpoint applying batched client mutations.
type DocumentService interface {
	// Changes returns every document revision of the user past the
	// since cursor, at most limit entries, oldest first.
	Changes(ctx context.Context, userID int64, since int64, limit int) (models.ChangesResponse, error)

	// Push applies a batch of queued client mutations and reports a
	// per-entry outcome. A revision-guard miss yields a conflict result
	// carrying the current remote head; it never fails the batch.
	Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error)
}

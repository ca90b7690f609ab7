// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/models"
)

// userRepository is the PostgreSQL-backed implementation of
// [UserRepository]. It handles account creation and lookup against the
// "users" table.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the
// provided database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account and returns it with the
// server-assigned fields (UserID, CreatedAt) populated.
//
// A PostgreSQL unique_violation (23505) maps to [ErrLoginAlreadyExists];
// any other driver-level error is wrapped as an unexpected DB error.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Login, user.PasswordHash, user.Name)

	err := row.Scan(&user.UserID, &user.Login, &user.PasswordHash, &user.Name, &user.CreatedAt)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrLoginAlreadyExists
		}
		log.Err(err).Str("func", "userRepository.CreateUser").Str("login", user.Login).
			Msg("failed to insert user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", r.db.classify(err))
	}

	return user, nil
}

// FindUserByLogin retrieves the account whose login matches exactly.
// An empty result maps to [ErrNoUserWasFound].
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	row := r.db.QueryRowContext(ctx, findUserByLogin, login)

	err := row.Scan(&user.UserID, &user.Login, &user.PasswordHash, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", "userRepository.FindUserByLogin").Str("login", login).
			Msg("failed to query user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", r.db.classify(err))
	}

	return user, nil
}

// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sync"
	"time"

	"github.com/mpetrenko/fieldstore/models"
)

// UserSession holds the authenticated user's attributes shared between
// the document facade and the sync engine. Tier classification reads it
// on every access, so it is safe for concurrent use.
type UserSession struct {
	mu sync.RWMutex

	userID            int64
	profileDocumentID string
	recencyWindow     time.Duration
}

// NewUserSession constructs an unauthenticated session with the given
// recency window policy.
func NewUserSession(recencyWindow time.Duration) *UserSession {
	return &UserSession{recencyWindow: recencyWindow}
}

// Set records the authenticated user. Called after login.
func (s *UserSession) Set(userID int64, profileDocumentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.profileDocumentID = profileDocumentID
}

// UserID returns the authenticated user id, zero before login.
func (s *UserSession) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Context materialises a [models.UserContext] snapshot at now.
func (s *UserSession) Context(now time.Time) models.UserContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.UserContext{
		UserID:            s.userID,
		ProfileDocumentID: s.profileDocumentID,
		Now:               now,
		RecencyWindow:     s.recencyWindow,
	}
}

// SPDX-License-Identifier: Apache-2.0

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrDocumentConflicted rejects writes to a document carrying
	// unresolved sibling revisions. Conflicted documents accept no
	// writes except explicit resolution.
	ErrDocumentConflicted = errors.New("document has unresolved conflict")

	// ErrDocumentNotConflicted rejects a resolution attempt on a
	// document with no recorded siblings.
	ErrDocumentNotConflicted = errors.New("document has no conflict to resolve")

	// ErrQuotaExceeded rejects a write that would exceed a hard byte
	// ceiling with nothing evictable. Always surfaced synchronously.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrSyncInProgress reports that a sync cycle is already running;
	// cycles never overlap.
	ErrSyncInProgress = errors.New("sync cycle already in progress")
)

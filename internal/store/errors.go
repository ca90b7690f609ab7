// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new
	// account fails because a user with the same login already exists.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at
	// least one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrDocumentNotFound is returned when a query or update targets a
	// document that does not exist in the store.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrRevisionConflict is returned when an optimistic revision check
	// fails: the base revision supplied by the client does not match the
	// revision currently stored, meaning another device has modified the
	// record since the client last synchronized.
	ErrRevisionConflict = errors.New("document revision conflict occurred")

	// ErrRetryable wraps driver-level failures classified as transient
	// (connection loss, deadlock rollback). The caller may retry the
	// operation; everything else should be treated as permanent.
	ErrRetryable = errors.New("retryable database error")
)

// Low-level database operation errors. These are returned (or wrapped)
// by repository methods when a SQL-level operation fails before any
// domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a
	// single result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan document row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan document rows")
)

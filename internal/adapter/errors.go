// SPDX-License-Identifier: Apache-2.0

package adapter

import "errors"

// Transport-agnostic sentinel errors mapped from HTTP status codes by
// mapHTTPError. Callers match with [errors.Is].
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("revision conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)

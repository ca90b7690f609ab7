// SPDX-License-Identifier: Apache-2.0

// Package revision implements per-document revision tokens and the
// resolver that detects divergent histories between the local cache and
// the remote store.
//
// A revision token has the form "<seq>-<digest>": a generation counter
// monotonic per document lineage, and a blake2b digest of the payload
// salted with the write timestamp. Two writes on top of the same base
// produce tokens with equal seq but different digests — that is the
// divergence the resolver detects.
package revision

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ErrMalformedRevision is returned when a revision token cannot be
// parsed. Malformed revision metadata is a data-integrity error: it is
// never resolved silently and must be surfaced by the sync engine.
var ErrMalformedRevision = errors.New("malformed revision token")

// digestLen is the truncated digest size carried inside a token.
const digestLen = 16

// Revision is the parsed form of a revision token.
type Revision struct {
	// Seq is the generation counter, monotonic per document lineage.
	Seq int64
	// Digest identifies the specific write at this generation.
	Digest string
}

func (r Revision) String() string {
	return strconv.FormatInt(r.Seq, 10) + "-" + r.Digest
}

// New derives the revision token for a write of payload on top of
// generation seq-1. The write timestamp salts the digest so two
// concurrent writes of identical payloads still diverge.
func New(seq int64, payload []byte, writtenAt time.Time) Revision {
	h, _ := blake2b.New256(nil)
	h.Write(payload)
	h.Write([]byte(writtenAt.UTC().Format(time.RFC3339Nano)))
	sum := h.Sum(nil)

	return Revision{
		Seq:    seq,
		Digest: hex.EncodeToString(sum[:digestLen]),
	}
}

// Parse validates and decodes a revision token. Returns
// [ErrMalformedRevision] (wrapped with the offending token) when the
// token is not of "<seq>-<digest>" form.
func Parse(token string) (Revision, error) {
	seqStr, digest, ok := strings.Cut(token, "-")
	if !ok || digest == "" {
		return Revision{}, fmt.Errorf("%w: %q", ErrMalformedRevision, token)
	}

	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil || seq < 1 {
		return Revision{}, fmt.Errorf("%w: %q", ErrMalformedRevision, token)
	}

	if _, err = hex.DecodeString(digest); err != nil {
		return Revision{}, fmt.Errorf("%w: %q", ErrMalformedRevision, token)
	}

	return Revision{Seq: seq, Digest: digest}, nil
}

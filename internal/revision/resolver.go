// SPDX-License-Identifier: Apache-2.0

package revision

import (
	"fmt"

	"github.com/mpetrenko/fieldstore/models"
)

// OutcomeKind tags the result of resolving an incoming revision against
// the local document. It is an explicit tagged union so every call site
// must handle all three cases; divergent histories never raise.
type OutcomeKind int

const (
	// Clean: the incoming revision is a direct descendant of the local
	// one. Replace the payload, advance the revision.
	Clean OutcomeKind = iota

	// Conflict: local and incoming diverged from a shared base. The
	// winner is chosen by most-recent-write-wins; the loser is retained
	// in the conflict set for audit/undo, never discarded.
	Conflict

	// Noop: the incoming revision is already known (idempotent
	// re-delivery).
	Noop
)

func (k OutcomeKind) String() string {
	switch k {
	case Clean:
		return "clean"
	case Conflict:
		return "conflict"
	case Noop:
		return "noop"
	default:
		return "unknown"
	}
}

// Outcome is the deterministic result of a resolution.
type Outcome struct {
	Kind OutcomeKind

	// RemoteWins is meaningful for Conflict: true when the incoming
	// revision's write timestamp is newer and its payload should become
	// the document head.
	RemoteWins bool

	// Siblings are the losing revision tokens to record in the
	// document's conflict set.
	Siblings []string
}

// Resolve compares the local document's revision with an incoming
// remote revision and classifies the relationship.
//
// localDirty reports whether the local head carries an unsynced write
// (a non-terminal mutation queue entry references the document), and
// localBase is the base revision of the oldest such write: the last
// revision both sides agreed on. A dirty local head has moved past that
// base on its own, so generations above the base belong to the unsynced
// chain and cannot be compared against the incoming head directly. Only
// the base itself, or revisions below it, are known ancestors; anything
// else the remote delivers while dirty is a true divergence.
//
// Resolution never fails for divergent histories; the only error is
// [ErrMalformedRevision] on undecodable tokens, which the caller must
// treat as fatal for the affected document.
func Resolve(local models.LocalDocument, incoming models.RemoteDocument, localDirty bool, localBase string) (Outcome, error) {
	if incoming.RevisionID == local.RevisionID || local.HasConflictRevision(incoming.RevisionID) {
		return Outcome{Kind: Noop}, nil
	}

	localRev, err := Parse(local.RevisionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("local revision of %s: %w", local.ID, err)
	}
	incomingRev, err := Parse(incoming.RevisionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("incoming revision of %s: %w", incoming.ID, err)
	}

	if !localDirty {
		// An incoming revision at a lower generation than the local head
		// is an ancestor redelivered by an overlapping changes batch.
		if incomingRev.Seq < localRev.Seq {
			return Outcome{Kind: Noop}, nil
		}
		if incomingRev.Seq > localRev.Seq {
			// Remote moved forward, local never diverged: fast-forward.
			return Outcome{Kind: Clean}, nil
		}
		// Equal generation, different digest: two writes on the same
		// base reached the server and this cache independently.
		return conflictOutcome(local, incoming), nil
	}

	// Dirty: the generations between the base and the local head are
	// occupied by the unsynced chain, so only the agreed base (or an
	// ancestor of it) can pass as a redelivery.
	if localBase != "" {
		if incoming.RevisionID == localBase {
			return Outcome{Kind: Noop}, nil
		}
		if baseRev, baseErr := Parse(localBase); baseErr == nil && incomingRev.Seq < baseRev.Seq {
			return Outcome{Kind: Noop}, nil
		}
	}

	return conflictOutcome(local, incoming), nil
}

// conflictOutcome applies the default most-recent-write-wins policy by
// the wall-clock timestamp embedded in the revision metadata. Ties go
// to the remote so every device converges on the same head.
func conflictOutcome(local models.LocalDocument, incoming models.RemoteDocument) Outcome {
	if incoming.UpdatedAt.Before(local.UpdatedAt) {
		// Local edit is newer: keep it, record the remote revision as
		// the losing sibling.
		return Outcome{
			Kind:       Conflict,
			RemoteWins: false,
			Siblings:   []string{incoming.RevisionID},
		}
	}

	return Outcome{
		Kind:       Conflict,
		RemoteWins: true,
		Siblings:   []string{local.RevisionID},
	}
}

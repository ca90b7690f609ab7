// SPDX-License-Identifier: Apache-2.0

// Package tier implements the classifier that assigns every cached
// document to a retention priority class. Classification is a pure
// function of the document and the current-user context; it is
// re-invoked whenever a document is written or accessed, so a document
// can migrate tiers over time (an opportunity closing moves from
// essential to recent).
package tier

import (
	"time"

	"github.com/mpetrenko/fieldstore/models"
)

// Classify maps a document plus the current-user context to a tier.
// Rules are evaluated in priority order, first match wins:
//
//  1. explicitly pinned by the user → pinned (sticky: reclassification
//     never removes a pin, only an explicit unpin does);
//  2. the current user's own profile record → essential;
//  3. records the user owns that are in an active/open business state → essential;
//  4. records dated today or tomorrow → essential;
//  5. anything accessed within the rolling recency window → recent;
//  6. otherwise → unclassified (not retained offline).
//
// Deterministic and side-effect-free; uc.Now is the only clock read.
func Classify(doc models.LocalDocument, uc models.UserContext) models.Tier {
	if doc.Pinned {
		return models.TierPinned
	}

	if doc.ID == uc.ProfileDocumentID && uc.ProfileDocumentID != "" {
		return models.TierEssential
	}

	if doc.OwnerID == uc.UserID && actionable(doc.State) {
		return models.TierEssential
	}

	if doc.DueAt != nil && dueSoon(*doc.DueAt, uc.Now) {
		return models.TierEssential
	}

	if uc.RecencyWindow > 0 && !doc.LastAccessedAt.IsZero() &&
		uc.Now.Sub(doc.LastAccessedAt) <= uc.RecencyWindow {
		return models.TierRecent
	}

	return models.TierUnclassified
}

func actionable(state models.DocumentState) bool {
	return state == models.StateOpen || state == models.StateActive
}

// dueSoon reports whether due falls on the current or the next calendar
// day, in the clock's location.
func dueSoon(due, now time.Time) bool {
	due = due.In(now.Location())
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfTomorrow := startOfToday.AddDate(0, 0, 2)

	return !due.Before(startOfToday) && due.Before(endOfTomorrow)
}

package models

// Tier is the priority class that governs retention and eviction of a
// locally cached document.
type Tier string

const (
	// TierEssential documents are never auto-evicted: the user's own
	// profile, records the user must act on, and records dated today or
	// tomorrow.
	TierEssential Tier = "essential"

	// TierRecent documents are kept while they fall inside the rolling
	// recency window and are the only candidates for LRU eviction.
	TierRecent Tier = "recent"

	// TierPinned documents were pinned explicitly by the user. Pins are
	// sticky: reclassification never removes them, only Unpin does.
	TierPinned Tier = "pinned"

	// TierUnclassified documents are not retained offline; they are
	// fetched on demand only.
	TierUnclassified Tier = "unclassified"
)

func (t Tier) String() string {
	return string(t)
}

// Retained reports whether documents of this tier are kept in the local
// cache at all.
func (t Tier) Retained() bool {
	return t == TierEssential || t == TierRecent || t == TierPinned
}

// SPDX-License-Identifier: Apache-2.0

// Package quota enforces the per-tier and device-wide byte ceilings of
// the local document cache. Admission is split into a pure decision
// (victim selection against a candidate snapshot) and a separate,
// auditable commit that updates the usage counters — so the eviction
// policy is testable without a storage backend.
package quota

import (
	"sync"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/models"
)

// DecisionKind tags the admission outcome for a write.
type DecisionKind int

const (
	// Accept admits the document without evicting anything.
	Accept DecisionKind = iota

	// AcceptAfterEviction admits the document once the listed victims
	// are removed.
	AcceptAfterEviction

	// Reject refuses the write: a hard ceiling would be exceeded and no
	// evictable victims can free enough space. Surfaced synchronously
	// to the caller, never silent.
	Reject
)

// Decision is the outcome of an admission check.
type Decision struct {
	Kind DecisionKind

	// Victims are the documents to remove before admitting, oldest
	// access first. Only populated for AcceptAfterEviction.
	Victims []models.LocalDocument

	// Warning carries the post-admission pressure level. An essential
	// document overflowing its ceiling is admitted with QuotaCritical
	// rather than rejected, because essential data must not be silently
	// dropped.
	Warning models.QuotaState
}

// Referencer reports whether a document is referenced by outstanding
// local work (a pending or in-flight mutation queue entry). Referenced
// documents are never selected as eviction victims.
type Referencer interface {
	References(docID string) bool
}

// Manager tracks byte usage per tier against the configured ceilings
// and decides admit/evict/reject for every write. Usage counters are
// updated incrementally under a mutex on every commit — the common
// admission path is O(1) in the cache size.
type Manager struct {
	limits config.Quota
	refs   Referencer

	mu    sync.Mutex
	used  map[models.Tier]int64
	total int64
}

// NewManager constructs a Manager with zeroed counters. refs guards
// eviction against discarding documents with outstanding queued work;
// it may be nil when no queue exists (tests).
func NewManager(limits config.Quota, refs Referencer) *Manager {
	return &Manager{
		limits: limits,
		refs:   refs,
		used:   make(map[models.Tier]int64, 3),
	}
}

// Seed initialises the counters from a persisted cache scanned at
// startup. Replaces any prior state.
func (m *Manager) Seed(usage map[models.Tier]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used = make(map[models.Tier]int64, 3)
	m.total = 0
	for tier, bytes := range usage {
		m.used[tier] = bytes
		m.total += bytes
	}
}

// Admit decides whether doc may enter the cache at its assigned tier.
// candidates is a snapshot of the current recent-tier documents,
// consulted only when LRU eviction is needed. Admit never mutates the
// counters; the caller applies the decision's effects and then calls
// [Manager.Commit].
func (m *Manager) Admit(doc models.LocalDocument, candidates []models.LocalDocument) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch doc.Tier {
	case models.TierEssential:
		return m.admitEssential(doc)
	case models.TierPinned:
		return m.admitPinned(doc)
	case models.TierRecent:
		return m.admitRecent(doc, candidates)
	default:
		// Unclassified documents are not retained offline.
		return Decision{Kind: Reject, Warning: m.stateLocked(0)}
	}
}

// admitEssential never rejects and never evicts: overflowing the
// essential ceiling raises a critical-status warning instead, because
// essential data must not be silently dropped.
func (m *Manager) admitEssential(doc models.LocalDocument) Decision {
	warning := m.stateLocked(doc.SizeBytes)
	over := m.used[models.TierEssential]+doc.SizeBytes > m.limits.EssentialBytes ||
		m.total+doc.SizeBytes > m.limits.DeviceBytes
	if over {
		warning = models.QuotaCritical
	}

	return Decision{Kind: Accept, Warning: warning}
}

// admitPinned rejects once the pinned ceiling is reached: the pinned
// tier is user-capacity-bounded, with no automatic eviction. The
// rejection surfaces to the caller so the UI can prompt for unpinning.
func (m *Manager) admitPinned(doc models.LocalDocument) Decision {
	if m.used[models.TierPinned]+doc.SizeBytes > m.limits.PinnedBytes ||
		m.total+doc.SizeBytes > m.limits.DeviceBytes {
		return Decision{Kind: Reject, Warning: m.stateLocked(0)}
	}

	return Decision{Kind: Accept, Warning: m.stateLocked(doc.SizeBytes)}
}

// admitRecent evicts oldest-accessed, non-pinned, non-conflicted,
// non-referenced recent documents until the document fits under both
// the tier ceiling and the device ceiling.
func (m *Manager) admitRecent(doc models.LocalDocument, candidates []models.LocalDocument) Decision {
	needTier := m.used[models.TierRecent] + doc.SizeBytes - m.limits.RecentBytes
	needDevice := m.total + doc.SizeBytes - m.limits.DeviceBytes
	need := needTier
	if needDevice > need {
		need = needDevice
	}

	if need <= 0 {
		return Decision{Kind: Accept, Warning: m.stateLocked(doc.SizeBytes)}
	}

	victims, freed := selectVictims(candidates, need, m.evictable)
	if freed < need {
		return Decision{Kind: Reject, Warning: m.stateLocked(0)}
	}

	return Decision{
		Kind:    AcceptAfterEviction,
		Victims: victims,
		Warning: m.stateLocked(doc.SizeBytes - freed),
	}
}

// evictable applies the hard exclusions: pinned documents, documents
// with unresolved conflict revisions, and documents referenced by
// outstanding queued work are never discarded.
func (m *Manager) evictable(doc models.LocalDocument) bool {
	if doc.Pinned || doc.Conflicted() {
		return false
	}
	if m.refs != nil && m.refs.References(doc.ID) {
		return false
	}
	return true
}

// Commit applies the counter effects of an admitted document and its
// evicted victims in one atomic step, avoiding lost updates between
// concurrent admissions.
func (m *Manager) Commit(doc models.LocalDocument, victims []models.LocalDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range victims {
		m.used[v.Tier] -= v.SizeBytes
		m.total -= v.SizeBytes
	}
	m.used[doc.Tier] += doc.SizeBytes
	m.total += doc.SizeBytes
}

// Release subtracts a removed document (purged tombstone, confirmed
// remote delete) from the counters.
func (m *Manager) Release(doc models.LocalDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used[doc.Tier] -= doc.SizeBytes
	m.total -= doc.SizeBytes
}

// Reclassify moves a document's accounted bytes between tiers when a
// re-evaluation migrates it (sizes unchanged).
func (m *Manager) Reclassify(doc models.LocalDocument, from, to models.Tier) {
	if from == to {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.used[from] -= doc.SizeBytes
	m.used[to] += doc.SizeBytes
}

// Resize adjusts the counters when an existing document is overwritten
// in place with a payload of a different size.
func (m *Manager) Resize(tier models.Tier, oldSize, newSize int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used[tier] += newSize - oldSize
	m.total += newSize - oldSize
}

// Status derives the current QuotaStatus snapshot.
func (m *Manager) Status() models.QuotaStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.QuotaStatus{
		TotalBytes: m.limits.DeviceBytes,
		UsedBytes:  m.total,
		Tiers: map[models.Tier]models.TierUsage{
			models.TierEssential: {UsedBytes: m.used[models.TierEssential], LimitBytes: m.limits.EssentialBytes},
			models.TierRecent:    {UsedBytes: m.used[models.TierRecent], LimitBytes: m.limits.RecentBytes},
			models.TierPinned:    {UsedBytes: m.used[models.TierPinned], LimitBytes: m.limits.PinnedBytes},
		},
		Status: m.stateLocked(0),
	}
}

// TierUsage returns the byte usage currently accounted to tier.
func (m *Manager) TierUsage(tier models.Tier) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.used[tier]
}

// stateLocked computes the pressure level as if extra bytes were
// already admitted. Callers must hold m.mu.
func (m *Manager) stateLocked(extra int64) models.QuotaState {
	if m.limits.DeviceBytes <= 0 {
		return models.QuotaOK
	}

	pct := (m.total + extra) * 100 / m.limits.DeviceBytes
	switch {
	case pct >= int64(m.limits.CriticalPercent):
		return models.QuotaCritical
	case pct >= int64(m.limits.WarnPercent):
		return models.QuotaWarning
	default:
		return models.QuotaOK
	}
}

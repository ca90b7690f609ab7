package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/models"
)

var testStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testLimits() config.Quota {
	return config.Quota{
		DeviceBytes:     100,
		EssentialBytes:  40,
		RecentBytes:     20,
		PinnedBytes:     30,
		WarnPercent:     80,
		CriticalPercent: 95,
	}
}

type stubReferencer struct{ ids map[string]bool }

func (s *stubReferencer) References(id string) bool { return s.ids[id] }

func recentDoc(id string, size int64, accessedAt time.Time) models.LocalDocument {
	return models.LocalDocument{
		ID:             id,
		Tier:           models.TierRecent,
		SizeBytes:      size,
		LastAccessedAt: accessedAt,
	}
}

func TestAdmit_RecentUnderLimit(t *testing.T) {
	m := NewManager(testLimits(), nil)

	d := m.Admit(recentDoc("a", 8, testStart), nil)
	assert.Equal(t, Accept, d.Kind)
	assert.Empty(t, d.Victims)
}

// Device ceiling 100, recent limit 20: three recent documents of size 8
// each overflow the tier (24 > 20), so the oldest-accessed one is
// evicted, leaving exactly two and tier usage 16.
func TestAdmit_RecentLRUEvictionScenario(t *testing.T) {
	m := NewManager(testLimits(), nil)

	a := recentDoc("a", 8, testStart)
	b := recentDoc("b", 8, testStart.Add(time.Minute))
	c := recentDoc("c", 8, testStart.Add(2*time.Minute))

	require.Equal(t, Accept, m.Admit(a, nil).Kind)
	m.Commit(a, nil)
	require.Equal(t, Accept, m.Admit(b, []models.LocalDocument{a}).Kind)
	m.Commit(b, nil)

	d := m.Admit(c, []models.LocalDocument{a, b})
	require.Equal(t, AcceptAfterEviction, d.Kind)
	require.Len(t, d.Victims, 1)
	assert.Equal(t, "a", d.Victims[0].ID, "oldest-accessed document is the victim")

	m.Commit(c, d.Victims)
	assert.Equal(t, int64(16), m.TierUsage(models.TierRecent))
}

func TestAdmit_EvictionSkipsPinned(t *testing.T) {
	m := NewManager(testLimits(), nil)

	pinned := recentDoc("pinned", 8, testStart)
	pinned.Pinned = true
	plain := recentDoc("plain", 8, testStart) // equal age and size

	for _, doc := range []models.LocalDocument{pinned, plain} {
		m.Commit(doc, nil)
	}

	d := m.Admit(recentDoc("new", 8, testStart.Add(time.Hour)), []models.LocalDocument{pinned, plain})
	require.Equal(t, AcceptAfterEviction, d.Kind)
	require.Len(t, d.Victims, 1)
	assert.Equal(t, "plain", d.Victims[0].ID, "only the non-pinned document may be evicted")
}

func TestAdmit_EvictionSkipsConflicted(t *testing.T) {
	m := NewManager(testLimits(), nil)

	conflicted := recentDoc("conflicted", 8, testStart)
	conflicted.ConflictRevisions = []string{"4-aa11"}
	plain := recentDoc("plain", 8, testStart.Add(time.Minute))

	for _, doc := range []models.LocalDocument{conflicted, plain} {
		m.Commit(doc, nil)
	}

	d := m.Admit(recentDoc("new", 8, testStart.Add(time.Hour)), []models.LocalDocument{conflicted, plain})
	require.Equal(t, AcceptAfterEviction, d.Kind)
	require.Len(t, d.Victims, 1)
	assert.Equal(t, "plain", d.Victims[0].ID)
}

func TestAdmit_EvictionSkipsQueueReferenced(t *testing.T) {
	refs := &stubReferencer{ids: map[string]bool{"queued": true}}
	m := NewManager(testLimits(), refs)

	queued := recentDoc("queued", 8, testStart)
	plain := recentDoc("plain", 8, testStart.Add(time.Minute))

	for _, doc := range []models.LocalDocument{queued, plain} {
		m.Commit(doc, nil)
	}

	d := m.Admit(recentDoc("new", 8, testStart.Add(time.Hour)), []models.LocalDocument{queued, plain})
	require.Equal(t, AcceptAfterEviction, d.Kind)
	require.Len(t, d.Victims, 1)
	assert.Equal(t, "plain", d.Victims[0].ID, "outstanding local work is never discarded")
}

func TestAdmit_RecentRejectWhenNothingEvictable(t *testing.T) {
	m := NewManager(testLimits(), nil)

	pinned := recentDoc("pinned", 18, testStart)
	pinned.Pinned = true
	m.Commit(pinned, nil)

	d := m.Admit(recentDoc("new", 8, testStart.Add(time.Hour)), []models.LocalDocument{pinned})
	assert.Equal(t, Reject, d.Kind)
}

func TestAdmit_EssentialNeverRejected(t *testing.T) {
	m := NewManager(testLimits(), nil)

	big := models.LocalDocument{ID: "e1", Tier: models.TierEssential, SizeBytes: 39}
	require.Equal(t, Accept, m.Admit(big, nil).Kind)
	m.Commit(big, nil)

	// Overflows the essential ceiling: still accepted, with a critical
	// warning instead of a rejection.
	over := models.LocalDocument{ID: "e2", Tier: models.TierEssential, SizeBytes: 10}
	d := m.Admit(over, nil)
	assert.Equal(t, Accept, d.Kind)
	assert.Equal(t, models.QuotaCritical, d.Warning)
}

func TestAdmit_PinnedRejectsAtCeiling(t *testing.T) {
	m := NewManager(testLimits(), nil)

	first := models.LocalDocument{ID: "p1", Tier: models.TierPinned, SizeBytes: 25}
	require.Equal(t, Accept, m.Admit(first, nil).Kind)
	m.Commit(first, nil)

	second := models.LocalDocument{ID: "p2", Tier: models.TierPinned, SizeBytes: 10}
	d := m.Admit(second, nil)
	assert.Equal(t, Reject, d.Kind, "pin quota exhaustion surfaces to the caller")
}

func TestAdmit_UnclassifiedNotRetained(t *testing.T) {
	m := NewManager(testLimits(), nil)

	d := m.Admit(models.LocalDocument{ID: "u", Tier: models.TierUnclassified, SizeBytes: 1}, nil)
	assert.Equal(t, Reject, d.Kind)
}

func TestStatus_Thresholds(t *testing.T) {
	m := NewManager(testLimits(), nil)

	assert.Equal(t, models.QuotaOK, m.Status().Status)

	m.Commit(models.LocalDocument{ID: "e", Tier: models.TierEssential, SizeBytes: 80}, nil)
	assert.Equal(t, models.QuotaWarning, m.Status().Status)

	m.Commit(models.LocalDocument{ID: "p", Tier: models.TierPinned, SizeBytes: 15}, nil)
	assert.Equal(t, models.QuotaCritical, m.Status().Status)

	st := m.Status()
	assert.Equal(t, int64(95), st.UsedBytes)
	assert.Equal(t, int64(100), st.TotalBytes)
	assert.Equal(t, int64(80), st.Tiers[models.TierEssential].UsedBytes)
}

func TestReleaseAndResize(t *testing.T) {
	m := NewManager(testLimits(), nil)

	doc := recentDoc("a", 8, testStart)
	m.Commit(doc, nil)
	require.Equal(t, int64(8), m.TierUsage(models.TierRecent))

	m.Resize(models.TierRecent, 8, 12)
	assert.Equal(t, int64(12), m.TierUsage(models.TierRecent))

	doc.SizeBytes = 12
	m.Release(doc)
	assert.Equal(t, int64(0), m.TierUsage(models.TierRecent))
	assert.Equal(t, int64(0), m.Status().UsedBytes)
}

func TestReclassify(t *testing.T) {
	m := NewManager(testLimits(), nil)

	doc := models.LocalDocument{ID: "a", Tier: models.TierEssential, SizeBytes: 8}
	m.Commit(doc, nil)

	m.Reclassify(doc, models.TierEssential, models.TierRecent)
	assert.Equal(t, int64(0), m.TierUsage(models.TierEssential))
	assert.Equal(t, int64(8), m.TierUsage(models.TierRecent))
	assert.Equal(t, int64(8), m.Status().UsedBytes)
}

func TestSeed(t *testing.T) {
	m := NewManager(testLimits(), nil)

	m.Seed(map[models.Tier]int64{
		models.TierEssential: 10,
		models.TierRecent:    5,
	})

	st := m.Status()
	assert.Equal(t, int64(15), st.UsedBytes)
	assert.Equal(t, int64(10), st.Tiers[models.TierEssential].UsedBytes)
}

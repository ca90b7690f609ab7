// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/queue"
	"github.com/mpetrenko/fieldstore/internal/quota"
	"github.com/mpetrenko/fieldstore/internal/revision"
	"github.com/mpetrenko/fieldstore/internal/store"
	"github.com/mpetrenko/fieldstore/models"
)

type facadeHarness struct {
	facade *documentFacade
	docs   store.LocalDocumentStore
	queue  queue.MutationQueue
	quota  *quota.Manager
	now    time.Time
}

func newFacadeHarness(t *testing.T, limits config.Quota) *facadeHarness {
	t.Helper()

	log := logger.Nop()
	conn, err := store.NewConnectSQLite(context.Background(), config.Local{Path: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	docs := store.NewLocalDocumentStore(conn, log)

	q, err := queue.New(conn, config.Sync{
		PullBatchSize: 100,
		PushBatchSize: 50,
		MaxAttempts:   3,
		BackoffMin:    time.Second,
		BackoffMax:    time.Minute,
	}, log)
	require.NoError(t, err)

	qm := quota.NewManager(limits, q)

	session := NewUserSession(72 * time.Hour)
	session.Set(42, "doc-profile")

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f := NewDocumentFacade(docs, q, qm, session, NewNotifier(), log).(*documentFacade)
	f.now = func() time.Time { return now }

	return &facadeHarness{facade: f, docs: docs, queue: q, quota: qm, now: now}
}

func roomyQuota() config.Quota {
	return config.Quota{
		DeviceBytes:     100_000,
		EssentialBytes:  40_000,
		RecentBytes:     40_000,
		PinnedBytes:     40_000,
		WarnPercent:     80,
		CriticalPercent: 95,
	}
}

func TestDocumentFacade_PutCreatesAndQueues(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	doc, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42,
		Kind:    "visit",
		State:   models.StateOpen,
		Payload: []byte(`{"customer":"acme"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, models.TierEssential, doc.Tier)
	assert.Equal(t, revision.New(1, doc.Payload, h.now).String(), doc.RevisionID)

	pending, err := h.queue.ListByStatus(ctx, models.EntryPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpCreate, pending[0].Operation)
	assert.Equal(t, doc.ID, pending[0].TargetDocumentID)
	assert.Empty(t, pending[0].BaseRevisionID)
}

func TestDocumentFacade_PutRequiresPayload(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())

	_, err := h.facade.Put(context.Background(), models.LocalDocument{OwnerID: 42})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestDocumentFacade_PutUpdateCarriesBaseRevision(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, Kind: "visit", State: models.StateOpen,
		Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)

	updated, err := h.facade.Put(ctx, models.LocalDocument{
		ID:      created.ID,
		OwnerID: 42, Kind: "visit", State: models.StateOpen,
		Payload: []byte(`{"v":2}`),
	})
	require.NoError(t, err)
	assert.Equal(t, revision.New(2, updated.Payload, h.now).String(), updated.RevisionID)

	pending, err := h.queue.ListByStatus(ctx, models.EntryPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.OpUpdate, pending[1].Operation)
	assert.Equal(t, created.RevisionID, pending[1].BaseRevisionID)
}

func TestDocumentFacade_PutRefusesConflictedDocument(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	require.NoError(t, h.docs.SetConflicts(ctx, created.ID, []string{"9-ff99"}))

	_, err = h.facade.Put(ctx, models.LocalDocument{
		ID: created.ID, OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":2}`),
	})
	assert.ErrorIs(t, err, ErrDocumentConflicted)
}

func TestDocumentFacade_PutPreservesPin(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	require.NoError(t, h.facade.Pin(ctx, created.ID))

	updated, err := h.facade.Put(ctx, models.LocalDocument{
		ID: created.ID, OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":2}`),
	})
	require.NoError(t, err)
	assert.True(t, updated.Pinned)
	assert.Equal(t, models.TierPinned, updated.Tier)
}

func TestDocumentFacade_GetHidesTombstones(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	require.NoError(t, h.facade.Remove(ctx, created.ID))

	_, err = h.facade.Get(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentFacade_GetTouchesAccessTime(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)

	later := h.now.Add(2 * time.Hour)
	h.facade.now = func() time.Time { return later }

	got, err := h.facade.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, later, got.LastAccessedAt)

	stored, err := h.docs.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, later, stored.LastAccessedAt)
}

func TestDocumentFacade_RemoveQueuesDeleteAndReleasesQuota(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	require.NotZero(t, h.quota.TierUsage(models.TierEssential))

	require.NoError(t, h.facade.Remove(ctx, created.ID))
	assert.Zero(t, h.quota.TierUsage(models.TierEssential))

	pending, err := h.queue.ListByStatus(ctx, models.EntryPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.OpDelete, pending[1].Operation)
	assert.Equal(t, created.RevisionID, pending[1].BaseRevisionID)

	// the tombstone row survives until sync acknowledges the delete
	stored, err := h.docs.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
	assert.Empty(t, stored.Payload)
}

func TestDocumentFacade_RemoveRefusesConflictedDocument(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	require.NoError(t, h.docs.SetConflicts(ctx, created.ID, []string{"9-ff99"}))

	assert.ErrorIs(t, h.facade.Remove(ctx, created.ID), ErrDocumentConflicted)
}

func TestDocumentFacade_RecentWriteEvictsLeastRecentlyUsed(t *testing.T) {
	limits := roomyQuota()
	limits.RecentBytes = 1_000
	h := newFacadeHarness(t, limits)
	ctx := context.Background()

	// two clean cached documents fill the recent tier; neither has
	// queued work, so both are legitimate eviction candidates
	seed := func(id string, accessed time.Time) {
		require.NoError(t, h.docs.Save(ctx, models.LocalDocument{
			ID:             id,
			RevisionID:     revision.New(1, []byte(`{}`), accessed).String(),
			Tier:           models.TierRecent,
			SizeBytes:      400,
			LastAccessedAt: accessed,
			OwnerID:        7,
			State:          models.StateClosed,
			Payload:        []byte(`{}`),
			UpdatedAt:      accessed,
		}))
	}
	seed("doc-old", h.now.Add(-2*time.Hour))
	seed("doc-newer", h.now.Add(-time.Hour))
	h.quota.Seed(map[models.Tier]int64{models.TierRecent: 800})

	written, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 7,
		State:   models.StateClosed,
		Payload: []byte(`{"pad":"` + strings.Repeat("x", 380) + `"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TierRecent, written.Tier)

	_, err = h.docs.Get(ctx, "doc-old")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	_, err = h.docs.Get(ctx, "doc-newer")
	assert.NoError(t, err)
}

func TestDocumentFacade_PinRejectedAtCeiling(t *testing.T) {
	limits := roomyQuota()
	limits.PinnedBytes = 100
	h := newFacadeHarness(t, limits)
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen,
		Payload: []byte(`{"pad":"` + strings.Repeat("x", 200) + `"}`),
	})
	require.NoError(t, err)

	err = h.facade.Pin(ctx, created.ID)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// the document stays cached at its previous tier
	stored, getErr := h.docs.Get(ctx, created.ID)
	require.NoError(t, getErr)
	assert.False(t, stored.Pinned)
	assert.Equal(t, models.TierEssential, stored.Tier)
}

func TestDocumentFacade_PinAndUnpinMoveQuotaAccounting(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	size := created.SizeBytes

	require.NoError(t, h.facade.Pin(ctx, created.ID))
	assert.Equal(t, size, h.quota.TierUsage(models.TierPinned))
	assert.Zero(t, h.quota.TierUsage(models.TierEssential))

	require.NoError(t, h.facade.Unpin(ctx, created.ID))
	assert.Zero(t, h.quota.TierUsage(models.TierPinned))
	assert.Equal(t, size, h.quota.TierUsage(models.TierEssential))
}

func TestDocumentFacade_ResolveConflict(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)
	require.NoError(t, h.docs.SetConflicts(ctx, created.ID, []string{"9-ff99"}))

	resolved, err := h.facade.ResolveConflict(ctx, created.ID, []byte(`{"v":"merged"}`))
	require.NoError(t, err)
	assert.False(t, resolved.Conflicted())
	assert.Equal(t, revision.New(2, resolved.Payload, h.now).String(), resolved.RevisionID)

	pending, err := h.queue.ListByStatus(ctx, models.EntryPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.OpUpdate, pending[1].Operation)
	assert.Equal(t, created.RevisionID, pending[1].BaseRevisionID)
}

func TestDocumentFacade_ResolveConflictRequiresConflict(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)

	_, err = h.facade.ResolveConflict(ctx, created.ID, []byte(`{"v":2}`))
	assert.ErrorIs(t, err, ErrDocumentNotConflicted)
}

func TestDocumentFacade_QuotaStatusReflectsUsage(t *testing.T) {
	h := newFacadeHarness(t, roomyQuota())
	ctx := context.Background()

	created, err := h.facade.Put(ctx, models.LocalDocument{
		OwnerID: 42, State: models.StateOpen, Payload: []byte(`{"v":1}`),
	})
	require.NoError(t, err)

	status := h.facade.QuotaStatus()
	assert.Equal(t, created.SizeBytes, status.UsedBytes)
	assert.Equal(t, created.SizeBytes, status.Tiers[models.TierEssential].UsedBytes)
	assert.Equal(t, models.QuotaOK, status.Status)
}

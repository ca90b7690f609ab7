// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
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

// fakeRemoteStore is a scriptable in-memory remote for exercising the
// sync engine without a network.
type fakeRemoteStore struct {
	token string

	changes    []models.ChangesResponse
	changesErr error
	pullCalls  []int64

	pushFn    func(req models.PushRequest) (models.PushResponse, error)
	pushed    []models.PushRequest
	pushErr   error
}

func (f *fakeRemoteStore) SetToken(token string) { f.token = token }
func (f *fakeRemoteStore) Token() string         { return f.token }

func (f *fakeRemoteStore) Register(_ context.Context, user models.User) (models.User, error) {
	return user, nil
}

func (f *fakeRemoteStore) Login(_ context.Context, user models.User) (models.User, error) {
	return user, nil
}

func (f *fakeRemoteStore) Changes(_ context.Context, since int64, _ int) (models.ChangesResponse, error) {
	f.pullCalls = append(f.pullCalls, since)
	if f.changesErr != nil {
		return models.ChangesResponse{}, f.changesErr
	}
	if len(f.changes) == 0 {
		return models.ChangesResponse{NextCursor: since}, nil
	}
	next := f.changes[0]
	f.changes = f.changes[1:]
	return next, nil
}

func (f *fakeRemoteStore) Push(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
	f.pushed = append(f.pushed, req)
	if f.pushErr != nil {
		return models.PushResponse{}, f.pushErr
	}
	if f.pushFn != nil {
		return f.pushFn(req)
	}

	results := make([]models.PushResult, 0, len(req.Entries))
	for _, entry := range req.Entries {
		results = append(results, models.PushResult{
			EntryID:    entry.EntryID,
			DocumentID: entry.DocumentID,
			Status:     models.PushApplied,
			RevisionID: entry.BaseRevisionID,
		})
	}
	return models.PushResponse{Results: results, Length: len(results)}, nil
}

type engineHarness struct {
	engine  *syncEngine
	remote  *fakeRemoteStore
	docs    store.LocalDocumentStore
	queue   queue.MutationQueue
	quota   *quota.Manager
	session *UserSession
	now     time.Time
}

func newEngineHarness(t *testing.T) *engineHarness {
	t.Helper()

	log := logger.Nop()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	conn, err := store.NewConnectSQLite(context.Background(), config.Local{Path: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	docs := store.NewLocalDocumentStore(conn, log)

	syncCfg := config.Sync{
		PullBatchSize: 2,
		PushBatchSize: 2,
		MaxAttempts:   3,
		BackoffMin:    time.Second,
		BackoffMax:    time.Minute,
	}

	q, err := queue.New(conn, syncCfg, log)
	require.NoError(t, err)

	qm := quota.NewManager(config.Quota{
		DeviceBytes:     10_000,
		EssentialBytes:  4_000,
		RecentBytes:     4_000,
		PinnedBytes:     4_000,
		WarnPercent:     80,
		CriticalPercent: 95,
	}, q)

	session := NewUserSession(72 * time.Hour)
	session.Set(42, "doc-profile")

	remote := &fakeRemoteStore{}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	engine := NewSyncEngine(remote, docs, q, qm, session, NewNotifier(), syncCfg, log).(*syncEngine)
	engine.now = func() time.Time { return now }

	return &engineHarness{
		engine:  engine,
		remote:  remote,
		docs:    docs,
		queue:   q,
		quota:   qm,
		session: session,
		now:     now,
	}
}

func remoteDoc(id string, seq int64, payload string, updatedAt time.Time) models.RemoteDocument {
	return models.RemoteDocument{
		ID:         id,
		RevisionID: revision.New(seq, []byte(payload), updatedAt).String(),
		OwnerID:    42,
		Kind:       "visit",
		State:      models.StateOpen,
		Payload:    []byte(payload),
		UpdatedAt:  updatedAt,
		Seq:        seq,
	}
}

func TestSyncEngine_PullCachesNewDocuments(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	doc := remoteDoc("doc-1", 1, `{"customer":"acme"}`, h.now.Add(-time.Hour))
	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{doc}, NextCursor: 1, Length: 1},
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.RevisionID, got.RevisionID)
	assert.Equal(t, models.TierEssential, got.Tier)
	assert.Equal(t, doc.Payload, got.Payload)

	cursor, err := h.docs.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cursor)
}

func TestSyncEngine_PullDrainsFeedInBatches(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	when := h.now.Add(-time.Hour)
	h.remote.changes = []models.ChangesResponse{
		{
			Documents: []models.RemoteDocument{
				remoteDoc("doc-1", 1, `{"n":1}`, when),
				remoteDoc("doc-2", 2, `{"n":2}`, when),
			},
			NextCursor: 2,
			Length:     2,
		},
		{
			Documents: []models.RemoteDocument{
				remoteDoc("doc-3", 3, `{"n":3}`, when),
			},
			NextCursor: 3,
			Length:     1,
		},
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	// the second pull resumes from the checkpoint written by the first
	assert.Equal(t, []int64{0, 2}, h.remote.pullCalls)

	cursor, err := h.docs.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cursor)

	_, err = h.docs.Get(ctx, "doc-3")
	require.NoError(t, err)
}

func TestSyncEngine_PullSkipsUnretainedDocuments(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	// closed, not owned, not due: classifies unclassified
	doc := remoteDoc("doc-cold", 1, `{"archived":true}`, h.now.Add(-30*24*time.Hour))
	doc.OwnerID = 7
	doc.State = models.StateClosed
	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{doc}, NextCursor: 1, Length: 1},
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	_, err := h.docs.Get(ctx, "doc-cold")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	// the cursor still advances past skipped entries
	cursor, err := h.docs.Checkpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cursor)
}

func TestSyncEngine_PullFastForwardsCleanLocal(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	when := h.now.Add(-time.Hour)
	oldRev := revision.New(1, []byte(`{"v":1}`), when)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     oldRev.String(),
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: when,
		OwnerID:        42,
		Kind:           "visit",
		State:          models.StateOpen,
		Payload:        []byte(`{"v":1}`),
		UpdatedAt:      when,
	}
	require.NoError(t, h.docs.Save(ctx, local))
	h.quota.Seed(map[models.Tier]int64{models.TierEssential: 7})

	incoming := remoteDoc("doc-1", 2, `{"v":2}`, h.now.Add(-time.Minute))
	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{incoming}, NextCursor: 2, Length: 1},
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, incoming.RevisionID, got.RevisionID)
	assert.Equal(t, []byte(`{"v":2}`), []byte(got.Payload))
	assert.False(t, got.Conflicted())
}

func TestSyncEngine_PullRedeliveryIsNoop(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	when := h.now.Add(-time.Hour)
	incoming := remoteDoc("doc-1", 1, `{"v":1}`, when)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     incoming.RevisionID,
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: when,
		OwnerID:        42,
		State:          models.StateOpen,
		Payload:        []byte(`{"v":1}`),
		UpdatedAt:      when,
	}
	require.NoError(t, h.docs.Save(ctx, local))

	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{incoming}, NextCursor: 1, Length: 1},
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, incoming.RevisionID, got.RevisionID)
	assert.False(t, got.Conflicted())
}

func TestSyncEngine_PullDivergenceRecordsConflict(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-2 * time.Hour)
	localRev := revision.New(2, []byte(`{"local":true}`), base.Add(time.Minute))
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     localRev.String(),
		Tier:           models.TierEssential,
		SizeBytes:      14,
		LastAccessedAt: base,
		OwnerID:        42,
		State:          models.StateOpen,
		Payload:        []byte(`{"local":true}`),
		UpdatedAt:      base.Add(time.Minute),
	}
	require.NoError(t, h.docs.Save(ctx, local))

	// queued local edit makes the document dirty
	_, err := h.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: "doc-1",
		Operation:        models.OpUpdate,
		Payload:          local.Payload,
		BaseRevisionID:   "1-aa11",
	})
	require.NoError(t, err)

	// remote wrote later at the same sequence: most recent write wins
	incoming := remoteDoc("doc-1", 2, `{"remote":true}`, base.Add(time.Hour))
	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{incoming}, NextCursor: 2, Length: 1},
	}

	// stop before the push phase touches the queued entry
	h.remote.pushErr = errors.New("remote unavailable")

	err = h.engine.RunCycle(ctx)
	require.Error(t, err)

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, incoming.RevisionID, got.RevisionID)
	assert.Equal(t, []byte(`{"remote":true}`), []byte(got.Payload))
	assert.True(t, got.Conflicted())
	assert.Contains(t, got.ConflictRevisions, localRev.String())
}

func TestSyncEngine_RemoteDeleteOfDirtyLocalConflicts(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-time.Hour)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     revision.New(2, []byte(`{"v":2}`), base).String(),
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: base,
		OwnerID:        42,
		State:          models.StateOpen,
		Payload:        []byte(`{"v":2}`),
		UpdatedAt:      base,
	}
	require.NoError(t, h.docs.Save(ctx, local))

	_, err := h.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: "doc-1",
		Operation:        models.OpUpdate,
		Payload:          local.Payload,
		BaseRevisionID:   "1-aa11",
	})
	require.NoError(t, err)

	tombstone := remoteDoc("doc-1", 3, "", base.Add(time.Minute))
	tombstone.Deleted = true
	tombstone.Payload = nil
	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{tombstone}, NextCursor: 3, Length: 1},
	}
	h.remote.pushErr = errors.New("remote unavailable")

	_ = h.engine.RunCycle(ctx)

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, got.Conflicted())
	assert.Contains(t, got.ConflictRevisions, tombstone.RevisionID)
}

func TestSyncEngine_RemoteDeleteOfCleanLocalDrops(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-time.Hour)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     revision.New(2, []byte(`{"v":2}`), base).String(),
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: base,
		OwnerID:        42,
		State:          models.StateOpen,
		Payload:        []byte(`{"v":2}`),
		UpdatedAt:      base,
	}
	require.NoError(t, h.docs.Save(ctx, local))
	h.quota.Seed(map[models.Tier]int64{models.TierEssential: 7})

	tombstone := remoteDoc("doc-1", 3, "", base.Add(time.Minute))
	tombstone.Deleted = true
	tombstone.Payload = nil
	h.remote.changes = []models.ChangesResponse{
		{Documents: []models.RemoteDocument{tombstone}, NextCursor: 3, Length: 1},
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	_, err := h.docs.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
	assert.Zero(t, h.quota.TierUsage(models.TierEssential))
}

func TestSyncEngine_PushAppliesAndAcks(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-time.Hour)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     revision.New(1, []byte(`{"v":1}`), base).String(),
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: base,
		OwnerID:        42,
		Kind:           "visit",
		State:          models.StateOpen,
		Payload:        []byte(`{"v":1}`),
		UpdatedAt:      base,
	}
	require.NoError(t, h.docs.Save(ctx, local))

	entryID, err := h.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: "doc-1",
		Operation:        models.OpCreate,
		Payload:          local.Payload,
		WrittenAt:        base,
	})
	require.NoError(t, err)

	require.NoError(t, h.engine.RunCycle(ctx))

	require.Len(t, h.remote.pushed, 1)
	require.Len(t, h.remote.pushed[0].Entries, 1)
	sent := h.remote.pushed[0].Entries[0]
	assert.Equal(t, entryID, sent.EntryID)
	assert.Equal(t, models.OpCreate, sent.Operation)
	// The transmitted timestamp is the entry's own, not the head's.
	assert.Equal(t, base, sent.WrittenAt)

	_, err = h.queue.Get(ctx, entryID)
	assert.ErrorIs(t, err, queue.ErrEntryNotFound)
}

func TestSyncEngine_PushDeleteAckPurgesTombstone(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-time.Hour)
	tombstone := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     revision.New(2, nil, base).String(),
		Tier:           models.TierEssential,
		LastAccessedAt: base,
		OwnerID:        42,
		State:          models.StateOpen,
		Deleted:        true,
		UpdatedAt:      base,
	}
	require.NoError(t, h.docs.Save(ctx, tombstone))

	_, err := h.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: "doc-1",
		Operation:        models.OpDelete,
		BaseRevisionID:   "1-aa11",
	})
	require.NoError(t, err)

	require.NoError(t, h.engine.RunCycle(ctx))

	_, err = h.docs.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestSyncEngine_PushConflictMarksEntryAndDocument(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-time.Hour)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     revision.New(2, []byte(`{"v":2}`), base).String(),
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: base,
		OwnerID:        42,
		State:          models.StateOpen,
		Payload:        []byte(`{"v":2}`),
		UpdatedAt:      base,
	}
	require.NoError(t, h.docs.Save(ctx, local))

	entryID, err := h.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: "doc-1",
		Operation:        models.OpUpdate,
		Payload:          local.Payload,
		BaseRevisionID:   "1-aa11",
	})
	require.NoError(t, err)

	head := remoteDoc("doc-1", 3, `{"remote":true}`, base.Add(time.Minute))
	h.remote.pushFn = func(req models.PushRequest) (models.PushResponse, error) {
		results := make([]models.PushResult, 0, len(req.Entries))
		for _, e := range req.Entries {
			results = append(results, models.PushResult{
				EntryID:    e.EntryID,
				DocumentID: e.DocumentID,
				Status:     models.PushConflict,
				Current:    &head,
			})
		}
		return models.PushResponse{Results: results, Length: len(results)}, nil
	}

	require.NoError(t, h.engine.RunCycle(ctx))

	entry, err := h.queue.Get(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryConflicted, entry.Status)
	assert.Equal(t, []string{head.RevisionID}, entry.Siblings)

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, got.Conflicted())
	assert.Contains(t, got.ConflictRevisions, head.RevisionID)
}

func TestSyncEngine_PushTransportFailureRetriesBatch(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	base := h.now.Add(-time.Hour)
	local := models.LocalDocument{
		ID:             "doc-1",
		RevisionID:     revision.New(1, []byte(`{"v":1}`), base).String(),
		Tier:           models.TierEssential,
		SizeBytes:      7,
		LastAccessedAt: base,
		OwnerID:        42,
		State:          models.StateOpen,
		Payload:        []byte(`{"v":1}`),
		UpdatedAt:      base,
	}
	require.NoError(t, h.docs.Save(ctx, local))

	entryID, err := h.queue.Enqueue(ctx, models.MutationQueueEntry{
		TargetDocumentID: "doc-1",
		Operation:        models.OpUpdate,
		Payload:          local.Payload,
		BaseRevisionID:   local.RevisionID,
	})
	require.NoError(t, err)

	h.remote.pushErr = errors.New("connection refused")

	err = h.engine.RunCycle(ctx)
	require.Error(t, err)
	assert.Equal(t, SyncErrored, h.engine.State())

	entry, err := h.queue.Get(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryPending, entry.Status)
	assert.Equal(t, 1, entry.Attempts)
	assert.Equal(t, "connection refused", entry.LastError)
}

func TestSyncEngine_ConcurrentCycleFailsFast(t *testing.T) {
	h := newEngineHarness(t)

	release := make(chan struct{})
	started := make(chan struct{})
	h.remote.pushFn = nil
	h.engine.remote = &blockingRemote{fake: h.remote, started: started, release: release}

	done := make(chan error, 1)
	go func() { done <- h.engine.RunCycle(context.Background()) }()

	<-started
	err := h.engine.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, SyncIdle, h.engine.State())
}

// statefulRemote mirrors the remote store's push semantics: a create
// derives the first revision from the entry payload and write time, a
// mutation guards the base revision and derives the successor. The
// tokens it hands back are exactly what the real server computes.
type statefulRemote struct {
	token string
	docs  map[string]models.RemoteDocument
	seq   int64
}

func newStatefulRemote() *statefulRemote {
	return &statefulRemote{docs: make(map[string]models.RemoteDocument)}
}

func (s *statefulRemote) SetToken(token string) { s.token = token }
func (s *statefulRemote) Token() string         { return s.token }

func (s *statefulRemote) Register(_ context.Context, user models.User) (models.User, error) {
	return user, nil
}

func (s *statefulRemote) Login(_ context.Context, user models.User) (models.User, error) {
	return user, nil
}

func (s *statefulRemote) Changes(_ context.Context, since int64, _ int) (models.ChangesResponse, error) {
	resp := models.ChangesResponse{NextCursor: since}
	for _, doc := range s.docs {
		if doc.Seq <= since {
			continue
		}
		resp.Documents = append(resp.Documents, doc)
		if doc.Seq > resp.NextCursor {
			resp.NextCursor = doc.Seq
		}
	}
	resp.Length = len(resp.Documents)
	return resp, nil
}

func (s *statefulRemote) Push(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
	results := make([]models.PushResult, 0, len(req.Entries))
	for _, entry := range req.Entries {
		results = append(results, s.apply(entry))
	}
	return models.PushResponse{Results: results, Length: len(results)}, nil
}

func (s *statefulRemote) apply(entry models.PushEntry) models.PushResult {
	result := models.PushResult{EntryID: entry.EntryID, DocumentID: entry.DocumentID}

	cur, exists := s.docs[entry.DocumentID]

	if entry.Operation == models.OpCreate {
		if exists {
			head := cur
			result.Status = models.PushConflict
			result.Current = &head
			return result
		}
		s.seq++
		doc := models.RemoteDocument{
			ID:         entry.DocumentID,
			RevisionID: revision.New(1, entry.Payload, entry.WrittenAt).String(),
			OwnerID:    42,
			Kind:       entry.Kind,
			State:      entry.State,
			DueAt:      entry.DueAt,
			Payload:    entry.Payload,
			UpdatedAt:  entry.WrittenAt,
			Seq:        s.seq,
		}
		s.docs[doc.ID] = doc
		result.Status = models.PushApplied
		result.RevisionID = doc.RevisionID
		return result
	}

	if !exists || cur.RevisionID != entry.BaseRevisionID {
		result.Status = models.PushConflict
		if exists {
			head := cur
			result.Current = &head
		}
		return result
	}

	base, err := revision.Parse(cur.RevisionID)
	if err != nil {
		result.Status = models.PushError
		result.Error = err.Error()
		return result
	}

	s.seq++
	cur.Seq = s.seq
	cur.UpdatedAt = entry.WrittenAt
	if entry.Operation == models.OpDelete {
		cur.Deleted = true
		cur.Payload = nil
		cur.RevisionID = revision.New(base.Seq+1, nil, entry.WrittenAt).String()
	} else {
		cur.Kind = entry.Kind
		cur.State = entry.State
		cur.DueAt = entry.DueAt
		cur.Payload = entry.Payload
		cur.RevisionID = revision.New(base.Seq+1, entry.Payload, entry.WrittenAt).String()
	}
	s.docs[cur.ID] = cur

	result.Status = models.PushApplied
	result.RevisionID = cur.RevisionID
	return result
}

// Three queued edits to one document must travel one at a time, each
// accepted by a remote that verifies the base revision, with the local
// head untouched until the whole chain has been acknowledged.
func TestSyncEngine_SequentialUpdatesDrainInOrder(t *testing.T) {
	h := newEngineHarness(t)
	ctx := context.Background()

	remote := newStatefulRemote()
	h.engine.remote = remote

	facade := NewDocumentFacade(h.docs, h.queue, h.quota, h.session, NewNotifier(), logger.Nop()).(*documentFacade)

	// Each edit carries its own wall clock; the remote derives the
	// revision tokens from them, one per generation.
	writeTimes := []time.Time{
		h.now.Add(-3 * time.Minute),
		h.now.Add(-2 * time.Minute),
		h.now.Add(-time.Minute),
	}
	step := 0
	facade.now = func() time.Time { w := writeTimes[step]; step++; return w }

	var head string
	for i, payload := range []string{`{"v":1}`, `{"v":2}`, `{"v":3}`} {
		doc, err := facade.Put(ctx, models.LocalDocument{
			ID:      "doc-1",
			OwnerID: 42,
			Kind:    "visit",
			State:   models.StateOpen,
			Payload: []byte(payload),
		})
		require.NoError(t, err, "put %d", i+1)
		head = doc.RevisionID
	}

	// FIFO per document: one entry travels per cycle.
	require.NoError(t, h.engine.RunCycle(ctx))

	got, err := h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, head, got.RevisionID, "acking an older entry must not rewind the head")
	assert.False(t, got.Conflicted())

	require.NoError(t, h.engine.RunCycle(ctx))

	got, err = h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, head, got.RevisionID)
	assert.False(t, got.Conflicted())

	require.NoError(t, h.engine.RunCycle(ctx))
	require.NoError(t, h.engine.RunCycle(ctx))

	// All three edits landed, in order, without a manufactured conflict.
	srv := remote.docs["doc-1"]
	assert.Equal(t, []byte(`{"v":3}`), []byte(srv.Payload))
	assert.Equal(t, head, srv.RevisionID, "remote head converges on the local chain")

	got, err = h.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, head, got.RevisionID)
	assert.False(t, got.Conflicted())
	assert.Empty(t, got.ConflictRevisions)

	for _, status := range []models.EntryStatus{
		models.EntryPending, models.EntryInFlight, models.EntryConflicted, models.EntryFailed,
	} {
		entries, err := h.queue.ListByStatus(ctx, status)
		require.NoError(t, err)
		assert.Empty(t, entries, "queue drained, no %s entries", status)
	}
}

// blockingRemote parks the first Changes call until released so a test
// can observe an in-progress cycle.
type blockingRemote struct {
	fake    *fakeRemoteStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingRemote) SetToken(token string) { b.fake.SetToken(token) }
func (b *blockingRemote) Token() string         { return b.fake.Token() }

func (b *blockingRemote) Register(ctx context.Context, user models.User) (models.User, error) {
	return b.fake.Register(ctx, user)
}

func (b *blockingRemote) Login(ctx context.Context, user models.User) (models.User, error) {
	return b.fake.Login(ctx, user)
}

func (b *blockingRemote) Changes(ctx context.Context, since int64, limit int) (models.ChangesResponse, error) {
	b.once.Do(func() {
		close(b.started)
		<-b.release
	})
	return b.fake.Changes(ctx, since, limit)
}

func (b *blockingRemote) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	return b.fake.Push(ctx, req)
}

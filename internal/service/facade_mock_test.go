// SPDX-License-Identifier: Apache-2.0

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/mock"
	"github.com/mpetrenko/fieldstore/internal/quota"
	"github.com/mpetrenko/fieldstore/internal/revision"
	"github.com/mpetrenko/fieldstore/internal/service"
	"github.com/mpetrenko/fieldstore/internal/store"
	"github.com/mpetrenko/fieldstore/models"
)

// Storage failure paths are awkward to provoke with a real sqlite
// connection, so these tests drive the facade against generated mocks.

func newMockedFacade(t *testing.T) (service.DocumentFacade, *mock.MockLocalDocumentStore, *mock.MockMutationQueue) {
	t.Helper()

	ctrl := gomock.NewController(t)
	docs := mock.NewMockLocalDocumentStore(ctrl)
	q := mock.NewMockMutationQueue(ctrl)

	qm := quota.NewManager(config.Quota{
		DeviceBytes:    10_000,
		EssentialBytes: 4_000,
		RecentBytes:    4_000,
		PinnedBytes:    4_000,
	}, q)

	session := service.NewUserSession(72 * time.Hour)
	session.Set(42, "doc-profile")

	f := service.NewDocumentFacade(docs, q, qm, session, service.NewNotifier(), logger.Nop())

	return f, docs, q
}

func TestDocumentFacade_GetPropagatesStorageFailure(t *testing.T) {
	f, docs, _ := newMockedFacade(t)

	storageErr := errors.New("database is locked")
	docs.EXPECT().Get(gomock.Any(), "doc-1").Return(models.LocalDocument{}, storageErr)

	_, err := f.Get(context.Background(), "doc-1")
	require.ErrorIs(t, err, storageErr)
}

func TestDocumentFacade_GetDoesNotTouchTombstones(t *testing.T) {
	f, docs, _ := newMockedFacade(t)

	// No Touch expectation: recording an access on a tombstone would
	// fail the controller.
	docs.EXPECT().Get(gomock.Any(), "doc-gone").Return(models.LocalDocument{
		ID:      "doc-gone",
		Deleted: true,
	}, nil)

	_, err := f.Get(context.Background(), "doc-gone")
	require.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentFacade_GetPropagatesTouchFailure(t *testing.T) {
	f, docs, _ := newMockedFacade(t)

	touchErr := errors.New("disk I/O error")
	docs.EXPECT().Get(gomock.Any(), "doc-1").Return(models.LocalDocument{
		ID:         "doc-1",
		OwnerID:    42,
		State:      models.StateOpen,
		Tier:       models.TierEssential,
		RevisionID: revision.New(1, []byte(`{}`), time.Now()).String(),
	}, nil)
	docs.EXPECT().Touch(gomock.Any(), "doc-1", gomock.Any()).Return(touchErr)

	_, err := f.Get(context.Background(), "doc-1")
	require.ErrorIs(t, err, touchErr)
}

func TestDocumentFacade_PutSaveFailureEnqueuesNothing(t *testing.T) {
	f, docs, _ := newMockedFacade(t)

	saveErr := errors.New("disk full")
	docs.EXPECT().EvictionCandidates(gomock.Any()).Return(nil, nil)
	// No Enqueue expectation: a failed persist must never queue the
	// mutation for transmission.
	docs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)

	_, err := f.Put(context.Background(), models.LocalDocument{
		OwnerID: 42,
		Kind:    "visit",
		State:   models.StateOpen,
		Payload: []byte(`{"customer":"acme"}`),
	})
	require.ErrorIs(t, err, saveErr)
}

func TestDocumentFacade_PutEnqueueFailureRollsBackSave(t *testing.T) {
	f, docs, q := newMockedFacade(t)

	enqueueErr := errors.New("database is locked")
	docs.EXPECT().EvictionCandidates(gomock.Any()).Return(nil, nil)
	docs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	q.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return("", enqueueErr)
	// A saved document with no queue entry would never be transmitted,
	// so the save is undone.
	docs.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.Put(context.Background(), models.LocalDocument{
		OwnerID: 42,
		Kind:    "visit",
		State:   models.StateOpen,
		Payload: []byte(`{"customer":"acme"}`),
	})
	require.ErrorIs(t, err, enqueueErr)
	assert.Zero(t, f.QuotaStatus().UsedBytes, "rolled-back write leaves the ledger untouched")
}

func TestDocumentFacade_PutEnqueueFailureRestoresExisting(t *testing.T) {
	f, docs, q := newMockedFacade(t)

	existing := models.LocalDocument{
		ID:         "doc-1",
		RevisionID: revision.New(1, []byte(`{"v":1}`), time.Now()).String(),
		Tier:       models.TierEssential,
		SizeBytes:  7,
		OwnerID:    42,
		Kind:       "visit",
		State:      models.StateOpen,
		Payload:    []byte(`{"v":1}`),
	}

	enqueueErr := errors.New("database is locked")
	docs.EXPECT().Get(gomock.Any(), "doc-1").Return(existing, nil)
	docs.EXPECT().EvictionCandidates(gomock.Any()).Return(nil, nil)
	q.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return("", enqueueErr)
	gomock.InOrder(
		docs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		docs.EXPECT().Save(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, d models.LocalDocument) {
				assert.Equal(t, existing.RevisionID, d.RevisionID, "prior head restored")
				assert.Equal(t, existing.Payload, d.Payload)
			}).Return(nil),
	)

	_, err := f.Put(context.Background(), models.LocalDocument{
		ID:      "doc-1",
		OwnerID: 42,
		Kind:    "visit",
		State:   models.StateOpen,
		Payload: []byte(`{"v":2}`),
	})
	require.ErrorIs(t, err, enqueueErr)
}

func TestDocumentFacade_RemoveEnqueueFailureRestoresDocument(t *testing.T) {
	f, docs, q := newMockedFacade(t)

	doc := models.LocalDocument{
		ID:         "doc-1",
		RevisionID: revision.New(2, []byte(`{"v":2}`), time.Now()).String(),
		Tier:       models.TierEssential,
		SizeBytes:  7,
		OwnerID:    42,
		State:      models.StateOpen,
		Payload:    []byte(`{"v":2}`),
	}

	enqueueErr := errors.New("database is locked")
	docs.EXPECT().Get(gomock.Any(), "doc-1").Return(doc, nil)
	q.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return("", enqueueErr)
	gomock.InOrder(
		docs.EXPECT().Save(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, d models.LocalDocument) {
				assert.True(t, d.Deleted)
			}).Return(nil),
		// An unqueued tombstone is undone so the deletion fails loudly.
		docs.EXPECT().Save(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, d models.LocalDocument) {
				assert.False(t, d.Deleted)
				assert.Equal(t, doc.RevisionID, d.RevisionID)
			}).Return(nil),
	)

	err := f.Remove(context.Background(), "doc-1")
	require.ErrorIs(t, err, enqueueErr)
}

func TestDocumentFacade_RemovePropagatesLookupFailure(t *testing.T) {
	f, docs, _ := newMockedFacade(t)

	lookupErr := errors.New("database is locked")
	docs.EXPECT().Get(gomock.Any(), "doc-1").Return(models.LocalDocument{}, lookupErr)

	err := f.Remove(context.Background(), "doc-1")
	assert.ErrorIs(t, err, lookupErr)
}

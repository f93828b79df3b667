package materials

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/search/opensearch"
	"github.com/turtacn/MatForge/internal/testutil"
)

type mockBulkIndexer struct{ mock.Mock }

func (m *mockBulkIndexer) BulkIndex(ctx context.Context, ms []material.Material, source string) (*opensearch.BulkResult, error) {
	args := m.Called(ctx, ms, source)
	res, _ := args.Get(0).(*opensearch.BulkResult)
	return res, args.Error(1)
}

type mockLocker struct{ mock.Mock }

func (m *mockLocker) TryLock(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) Unlock(ctx context.Context) error { return m.Called(ctx).Error(0) }

func seedLibrary(t *testing.T, n int) *testutil.MemoryMaterialRepo {
	t.Helper()
	repo := testutil.NewMemoryMaterialRepo()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m, err := material.NewMaterial(material.Draft{
			Composition: composition.Composition{"Fe": 100},
			Properties:  &material.Properties{},
		}, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Insert(context.Background(), m))
	}
	return repo
}

func TestReindexer_Run(t *testing.T) {
	catalog := material.Materials()
	idx := new(mockBulkIndexer)
	idx.On("BulkIndex", mock.Anything, mock.Anything, opensearch.SourceCatalog).
		Return(&opensearch.BulkResult{Succeeded: len(catalog.All())}, nil).Once()
	idx.On("BulkIndex", mock.Anything, mock.MatchedBy(func(ms []material.Material) bool { return len(ms) == 2 }), opensearch.SourceLibrary).
		Return(&opensearch.BulkResult{Succeeded: 2}, nil).Twice()
	idx.On("BulkIndex", mock.Anything, mock.MatchedBy(func(ms []material.Material) bool { return len(ms) == 1 }), opensearch.SourceLibrary).
		Return(&opensearch.BulkResult{Succeeded: 0, Failed: 1, Errors: []opensearch.BulkItemError{{DocID: "x", Reason: "bad"}}}, nil).Once()

	lock := new(mockLocker)
	lock.On("TryLock", mock.Anything).Return(true, nil)
	lock.On("Unlock", mock.Anything).Return(nil)

	metrics := &fakeMetrics{}
	logger := testutil.NewMockLogger()
	r := NewReindexer(catalog, seedLibrary(t, 5), idx, lock, metrics, logger)
	r.pageSize = 2

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, map[string]int{"catalog": len(catalog.All()), "library": 4}, metrics.reindex)
	assert.True(t, logger.HasMessage("warn", "document not indexed"))
	idx.AssertExpectations(t)
	lock.AssertExpectations(t)
}

func TestReindexer_LockHeldElsewhere(t *testing.T) {
	idx := new(mockBulkIndexer)
	lock := new(mockLocker)
	lock.On("TryLock", mock.Anything).Return(false, nil)

	r := NewReindexer(nil, nil, idx, lock, nil, nil)
	require.NoError(t, r.Run(context.Background()))
	idx.AssertNotCalled(t, "BulkIndex", mock.Anything, mock.Anything, mock.Anything)
	lock.AssertNotCalled(t, "Unlock", mock.Anything)
}

func TestReindexer_IndexFailureReleasesLock(t *testing.T) {
	idx := new(mockBulkIndexer)
	idx.On("BulkIndex", mock.Anything, mock.Anything, opensearch.SourceCatalog).Return(nil, stderrors.New("cluster red"))
	lock := new(mockLocker)
	lock.On("TryLock", mock.Anything).Return(true, nil)
	lock.On("Unlock", mock.Anything).Return(nil).Once()

	metrics := &fakeMetrics{}
	r := NewReindexer(nil, nil, idx, lock, metrics, nil)
	assert.Error(t, r.Run(context.Background()))
	assert.Equal(t, 1, metrics.failed)
	lock.AssertExpectations(t)
}

func TestReindexer_NoLock(t *testing.T) {
	idx := new(mockBulkIndexer)
	idx.On("BulkIndex", mock.Anything, mock.Anything, opensearch.SourceCatalog).Return(&opensearch.BulkResult{Succeeded: 10}, nil)

	r := NewReindexer(nil, nil, idx, nil, nil, nil)
	assert.NoError(t, r.Run(context.Background()))
}

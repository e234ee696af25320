package listings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

type countingRepository struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (r *countingRepository) Load(ctx context.Context) (*types.Dataset, error) {
	n := r.calls.Add(1)
	time.Sleep(r.delay)
	if r.err != nil {
		return nil, r.err
	}
	return &types.Dataset{City: fmt.Sprintf("load-%d", n)}, nil
}

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Save(ctx context.Context, ds *types.Dataset) (uuid.UUID, error) {
	args := m.Called(ctx, ds)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSnapshotStore) Latest(ctx context.Context) (*types.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Dataset), args.Error(1)
}

func TestHTTPRepositoryLoad(t *testing.T) {
	csv, err := os.ReadFile("testdata/listings.csv")
	require.NoError(t, err)
	geo, err := os.ReadFile("testdata/neighbourhoods.geojson")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/listings.csv", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(csv) })
	mux.HandleFunc("/neighbourhoods.geojson", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(geo) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f, client := newTestFetcher(1)
	defer client.CloseIdleConnections()
	repo := NewHTTPRepository(f, Source{
		City:          "Paris",
		ListingsURL:   srv.URL + "/listings.csv",
		BoundariesURL: srv.URL + "/neighbourhoods.geojson",
	}, discardLogger())
	fixed := time.Date(2024, 9, 6, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	ds, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Paris", ds.City)
	assert.Equal(t, srv.URL+"/listings.csv", ds.SourceURL)
	assert.Equal(t, fixed, ds.FetchedAt)
	assert.NotEqual(t, uuid.Nil, ds.SnapshotID)
	assert.Len(t, ds.Listings, 3)
	assert.Len(t, ds.Boundaries, 2)
	assert.Contains(t, ds.Columns, "license")

	t.Run("missing boundaries file fails the load", func(t *testing.T) {
		broken := NewHTTPRepository(f, Source{
			City:          "Paris",
			ListingsURL:   srv.URL + "/listings.csv",
			BoundariesURL: srv.URL + "/missing.geojson",
		}, discardLogger())
		_, err := broken.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
	})
}

func TestCachedRepository(t *testing.T) {
	next := &countingRepository{}
	repo := NewCachedRepository(next, "paris", time.Minute, discardLogger())
	ctx := context.Background()

	first, err := repo.Load(ctx)
	require.NoError(t, err)
	second, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), next.calls.Load())

	repo.Invalidate()
	third, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "load-2", third.City)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedRepositoryCollapsesConcurrentMisses(t *testing.T) {
	next := &countingRepository{delay: 20 * time.Millisecond}
	repo := NewCachedRepository(next, "paris", time.Minute, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Load(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCachedRepositoryDoesNotCacheErrors(t *testing.T) {
	next := &countingRepository{err: errors.New("boom")}
	repo := NewCachedRepository(next, "paris", time.Minute, discardLogger())

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	_, err = repo.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestFallbackRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("saves successful loads", func(t *testing.T) {
		store := new(MockSnapshotStore)
		store.On("Save", mock.Anything, mock.AnythingOfType("*types.Dataset")).Return(uuid.New(), nil)

		repo := NewFallbackRepository(&countingRepository{}, store, discardLogger())
		ds, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "load-1", ds.City)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Latest", mock.Anything)
	})

	t.Run("a failed save still serves the dataset", func(t *testing.T) {
		store := new(MockSnapshotStore)
		store.On("Save", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("db down"))

		repo := NewFallbackRepository(&countingRepository{}, store, discardLogger())
		_, err := repo.Load(ctx)
		require.NoError(t, err)
	})

	t.Run("replays the latest snapshot on failure", func(t *testing.T) {
		snap := &types.Dataset{SnapshotID: uuid.New(), City: "Paris"}
		store := new(MockSnapshotStore)
		store.On("Latest", mock.Anything).Return(snap, nil)

		repo := NewFallbackRepository(&countingRepository{err: ErrFetch}, store, discardLogger())
		ds, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Same(t, snap, ds)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("both failing returns both errors", func(t *testing.T) {
		store := new(MockSnapshotStore)
		store.On("Latest", mock.Anything).Return(nil, ErrNoSnapshot)

		repo := NewFallbackRepository(&countingRepository{err: ErrFetch}, store, discardLogger())
		_, err := repo.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})
}

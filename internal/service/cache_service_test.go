package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
)

type fakeCacheRepo struct {
	entries map[string][]byte
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func TestCacheServiceMissThenHit(t *testing.T) {
	repo := newFakeCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	var out []string
	hit, err := svc.Get(context.Background(), "key", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "key", []string{"a", "b"}, 0))
	hit, err = svc.Get(context.Background(), "key", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newFakeCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	require.NoError(t, svc.Set(context.Background(), "key", "value", 0))
	var out string
	hit, err := svc.Get(context.Background(), "key", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.entries)
}

func TestReportServiceRecapCacheRoundTrip(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	repo := &fakeReportRepo{summaries: []models.BatchSummary{
		{BatchID: "batch-1", BatchFound: true, Level: "N5", Title: "N5 Morning", Total: 3, Pending: 3},
	}}
	svc := NewReportService(repo, cacheSvc, zap.NewNop())

	_, err := svc.Summaries(context.Background())
	require.NoError(t, err)
	_, err = svc.Summaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryHits, "second read must come from cache")

	svc.InvalidateRecap(context.Background())
	_, err = svc.Summaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryHits, "invalidation must force recomputation")
}

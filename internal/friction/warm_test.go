package friction_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/friction"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/observability"
)

// --- mocks ---

type mockProvider struct {
	mu    sync.Mutex
	calls int
	obs   domain.Observation
	err   error
	// failFor reports an error only for these buckets.
	failFor map[domain.Bucket]error
}

func (m *mockProvider) Current(_ context.Context, lat, lon float64) (domain.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failFor != nil {
		if err, ok := m.failFor[domain.BucketFor(lat, lon)]; ok {
			return domain.Observation{}, err
		}
	}
	return m.obs, m.err
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestWarmer(cache *friction.Cache, provider domain.WeatherProvider) *friction.Warmer {
	return friction.NewWarmer(cache, provider, 2*time.Second, 4, testLogger(), observability.NewMetricsForTesting())
}

func TestWarmUpDeduplicatesBuckets(t *testing.T) {
	cache := friction.NewCache(10*time.Minute, clockwork.NewFakeClock())
	provider := &mockProvider{obs: domain.Observation{Condition: domain.ConditionClear, TempC: 24}}
	warmer := newTestWarmer(cache, provider)

	// Four coordinates, two distinct buckets.
	warmer.WarmUp(context.Background(), []friction.Coord{
		{Lat: 33.91, Lon: 35.55},
		{Lat: 33.94, Lon: 35.52},
		{Lat: 34.006, Lon: 36.204},
		{Lat: 33.944, Lon: 35.542},
	})

	assert.Equal(t, 2, provider.callCount())

	entry, ok := cache.Get(domain.BucketFor(33.91, 35.55))
	require.True(t, ok)
	assert.Equal(t, domain.SourceAPI, entry.Source)
	require.NotNil(t, entry.Observation)
	assert.Equal(t, domain.ConditionClear, entry.Observation.Condition)
}

func TestWarmUpSkipsFreshBuckets(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := friction.NewCache(10*time.Minute, clock)
	provider := &mockProvider{obs: domain.Observation{Condition: domain.ConditionClear, TempC: 24}}
	warmer := newTestWarmer(cache, provider)

	coords := []friction.Coord{{Lat: 33.91, Lon: 35.55}}
	warmer.WarmUp(context.Background(), coords)
	require.Equal(t, 1, provider.callCount())

	// Within the staleness window nothing is refetched.
	clock.Advance(5 * time.Minute)
	warmer.WarmUp(context.Background(), coords)
	assert.Equal(t, 1, provider.callCount())

	// Past the window the bucket becomes a target again.
	clock.Advance(6 * time.Minute)
	warmer.WarmUp(context.Background(), coords)
	assert.Equal(t, 2, provider.callCount())
}

func TestWarmUpFailureDegradesToSimulation(t *testing.T) {
	cache := friction.NewCache(10*time.Minute, clockwork.NewFakeClock())
	failing := domain.BucketFor(34.006, 36.204)
	provider := &mockProvider{
		obs:     domain.Observation{Condition: domain.ConditionClear, TempC: 24},
		failFor: map[domain.Bucket]error{failing: errors.New("upstream 503")},
	}
	warmer := newTestWarmer(cache, provider)

	warmer.WarmUp(context.Background(), []friction.Coord{
		{Lat: 33.91, Lon: 35.55},
		{Lat: 34.006, Lon: 36.204},
	})

	good, ok := cache.Get(domain.BucketFor(33.91, 35.55))
	require.True(t, ok)
	assert.Equal(t, domain.SourceAPI, good.Source)

	bad, ok := cache.Get(failing)
	require.True(t, ok, "a failed bucket still gets a cache entry")
	assert.Equal(t, domain.SourceSimulated, bad.Source)
	assert.Nil(t, bad.Observation)
}

func TestWarmUpNilProviderMarksSimulated(t *testing.T) {
	cache := friction.NewCache(10*time.Minute, clockwork.NewFakeClock())
	warmer := newTestWarmer(cache, nil)

	warmer.WarmUp(context.Background(), []friction.Coord{{Lat: 33.91, Lon: 35.55}})

	entry, ok := cache.Get(domain.BucketFor(33.91, 35.55))
	require.True(t, ok)
	assert.Equal(t, domain.SourceSimulated, entry.Source)
	assert.Nil(t, entry.Observation)
}

func TestWarmUpEmptyBatchIsNoop(t *testing.T) {
	cache := friction.NewCache(10*time.Minute, clockwork.NewFakeClock())
	provider := &mockProvider{}
	warmer := newTestWarmer(cache, provider)

	warmer.WarmUp(context.Background(), nil)
	assert.Equal(t, 0, provider.callCount())
}

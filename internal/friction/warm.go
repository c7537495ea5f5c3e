package friction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/observability"
)

// Coord is a raw candidate coordinate pair.
type Coord struct {
	Lat float64
	Lon float64
}

// Warmer populates the weather cache for a batch of coordinates before
// scoring begins, so per-candidate friction lookups never perform their
// own network I/O.
type Warmer struct {
	cache       *Cache
	provider    domain.WeatherProvider // nil when no credential is configured
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewWarmer creates a warmer with a bounded fetch pool. A nil provider
// puts the warmer in permanent simulation mode: buckets are marked
// simulated without any network calls.
func NewWarmer(cache *Cache, provider domain.WeatherProvider, timeout time.Duration, concurrency int, logger *slog.Logger, metrics *observability.Metrics) *Warmer {
	return &Warmer{
		cache:       cache,
		provider:    provider,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

// fetchOutcome is the explicit per-bucket result of one provider call.
type fetchOutcome struct {
	bucket domain.Bucket
	obs    domain.Observation
	err    error
}

// WarmUp deduplicates the coordinates into buckets, skips buckets that
// are still fresh, and fetches the rest in parallel with one call and one
// timeout per bucket. Every failure, of any kind, degrades its bucket to
// a simulated entry. WarmUp never returns an error: when it completes,
// each requested bucket has a cache entry.
func (w *Warmer) WarmUp(ctx context.Context, coords []Coord) {
	targets := w.staleBuckets(coords)
	if len(targets) == 0 {
		return
	}

	if w.provider == nil {
		for bucket := range targets {
			w.cache.Put(bucket, nil, domain.SourceSimulated)
			w.metrics.WeatherFetches.WithLabelValues("simulated").Inc()
		}
		return
	}

	type job struct {
		bucket domain.Bucket
		coord  Coord
	}
	jobs := make(chan job)
	results := make(chan fetchOutcome)

	workers := w.concurrency
	if workers > len(targets) {
		workers = len(targets)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- w.fetchOne(ctx, j.bucket, j.coord)
			}
		}()
	}

	go func() {
		for bucket, coord := range targets {
			jobs <- job{bucket: bucket, coord: coord}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for out := range results {
		if out.err != nil {
			w.logger.Warn("weather fetch failed, degrading bucket to simulation",
				"bucket", string(out.bucket),
				"error", out.err,
			)
			w.metrics.WeatherFetches.WithLabelValues("error").Inc()
			w.cache.Put(out.bucket, nil, domain.SourceSimulated)
			continue
		}
		obs := out.obs
		w.cache.Put(out.bucket, &obs, domain.SourceAPI)
		w.metrics.WeatherFetches.WithLabelValues("success").Inc()
	}
}

// fetchOne performs a single provider call with its own timeout. A slow
// or failing bucket never blocks the others; the abandoned call is not
// retried within this warm-up.
func (w *Warmer) fetchOne(ctx context.Context, bucket domain.Bucket, coord Coord) fetchOutcome {
	fetchCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	obs, err := w.provider.Current(fetchCtx, coord.Lat, coord.Lon)
	return fetchOutcome{bucket: bucket, obs: obs, err: err}
}

// staleBuckets maps each bucket needing a fetch to the first coordinate
// that hit it, skipping buckets whose cache entry is still fresh.
func (w *Warmer) staleBuckets(coords []Coord) map[domain.Bucket]Coord {
	targets := make(map[domain.Bucket]Coord, len(coords))
	for _, coord := range coords {
		bucket := domain.BucketFor(coord.Lat, coord.Lon)
		if _, seen := targets[bucket]; seen {
			continue
		}
		if entry, ok := w.cache.Get(bucket); ok && w.cache.Fresh(entry) {
			w.metrics.WeatherFetches.WithLabelValues("skipped_fresh").Inc()
			continue
		}
		targets[bucket] = coord
	}
	return targets
}

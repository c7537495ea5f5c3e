package domain

import "context"

// WeatherProvider returns current conditions at a coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (Observation, error)
}

// Embedder converts free text into a fixed-length vector. Implementations
// must be deterministic for identical input text and embed the user
// profile and POI descriptions into the same vector space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Ping verifies the backend is loaded and answering. A failed ping at
	// startup is fatal; per-request failures are handled by the engine.
	Ping(ctx context.Context) error
}

// OverrideStore exposes manual per-region suppression injected by
// operators. Lookup returns the operator's reason and whether an override
// is active for the region.
type OverrideStore interface {
	Lookup(ctx context.Context, region string) (reason string, ok bool, err error)
}

// RankingAudit summarizes one completed ranking call for downstream
// analytics consumers.
type RankingAudit struct {
	UserHash   string
	Candidates int
	// Degraded is true when any candidate fell back to simulated weather.
	Degraded bool
	TopPOI   int64
	TopScore float64
}

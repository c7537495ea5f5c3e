// Package domain models the friction-adjusted recommendation core.
//
// # Scoring model
//
// Each candidate POI receives a final score:
//
//	final_score = match_rate × μ
//
// where match_rate is the cosine similarity between the user's interest
// profile and the POI description (clamped to [0, 1]), and μ is the
// friction multiplier derived from weather and road conditions at the
// POI's coordinates. μ is bounded to [0.1, 1.0]: environmental factors
// alone can discount a POI but never fully suppress it. Only an explicit
// operator override (a crisis injected for a region) pins μ below the
// automatic policy's range.
//
// # Coordinate buckets
//
// External weather lookups are keyed by coordinates rounded to one
// decimal place (~11 km cells). Two POIs whose coordinates round to the
// same pair always share one cache entry and at most one provider call
// per warm-up, which caps fan-out for dense candidate batches.
//
// # Graceful degradation
//
// When the weather provider is unreachable, misconfigured, or returns
// garbage, the affected bucket is recorded as "simulated" and friction is
// derived from a deterministic regional climate table instead. The cache
// entry marks "we tried and have no real data", so the same bucket is not
// retried inside the staleness window. Degradation is visible to the
// caller through the safety factor list, never silent.
package domain

package friction

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/observability"
)

// The penalty table is fixed policy, not configuration. Exactly one
// condition penalty applies per observation (first match wins), the
// temperature penalty is independent, and the road factor only carries
// its own penalty when the condition doesn't already imply hazardous
// roads.
const (
	penaltyThunderstorm = 0.50
	penaltySnow         = 0.40
	penaltyRain         = 0.25
	penaltyFog          = 0.15
	penaltyClouds       = 0.05
	penaltyTempExtreme  = 0.10
	penaltyTrafficHeavy = 0.15
	penaltyTrafficBusy  = 0.05

	tempColdC = 5.0
	tempHotC  = 35.0
)

const (
	// MinMultiplier guarantees a POI is never fully suppressed by
	// environmental factors alone; low-friction POIs stay visible with
	// their reasons attached.
	MinMultiplier = 0.1
	// MaxMultiplier is the ceiling: no combination of positive signals
	// exceeds certainty.
	MaxMultiplier = 1.0

	// CrisisMultiplier is pinned when an operator injects a manual
	// override for a region. The override path sits outside the
	// automatic policy and its clamp.
	CrisisMultiplier = 0.25
)

// Community correction: when the automatic multiplier is reduced but at
// least communityCheckInThreshold recent check-ins confirm people are
// actually at the POI, part of the penalty is restored.
const (
	communityCheckInThreshold = 3
	communityCorrection       = 0.2
)

// Calculator turns cached or simulated weather into a bounded
// accessibility multiplier with an ordered, human-readable factor list.
// It is purely computational: once the cache is warmed it never blocks
// on network I/O (the override lookup hits Redis, which is local and
// optional).
type Calculator struct {
	cache     *Cache
	overrides domain.OverrideStore // nil disables manual overrides
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewCalculator creates a calculator reading the shared weather cache.
func NewCalculator(cache *Cache, overrides domain.OverrideStore, logger *slog.Logger, metrics *observability.Metrics) *Calculator {
	return &Calculator{
		cache:     cache,
		overrides: overrides,
		logger:    logger,
		metrics:   metrics,
	}
}

// Calculate produces the friction multiplier and factor list for a
// coordinate. Factor order is fixed: condition, temperature,
// road/traffic, then any informational trailers.
func (c *Calculator) Calculate(ctx context.Context, lat, lon float64, region string) domain.FrictionResult {
	if result, ok := c.manualOverride(ctx, region); ok {
		c.metrics.OverridesApplied.Inc()
		c.metrics.FrictionMultiplier.Observe(result.Multiplier)
		return result
	}

	obs, source := c.observe(lat, lon, region)

	mu := MaxMultiplier
	factors := make([]domain.Factor, 0, 4)

	mu, factors = applyCondition(mu, factors, obs.Condition)
	mu, factors = applyTemperature(mu, factors, obs.TempC)
	mu, factors = applyRoads(mu, factors, obs.Condition, lat, lon)

	if source == domain.SourceSimulated {
		factors = append(factors, domain.Factor{
			Tag:   "offline",
			Label: "Live weather unavailable, using regional climate model",
		})
	}

	mu = math.Min(math.Max(mu, MinMultiplier), MaxMultiplier)
	mu = round2(mu)
	c.metrics.FrictionMultiplier.Observe(mu)

	return domain.FrictionResult{
		Multiplier: mu,
		Factors:    factors,
		Source:     source,
	}
}

// manualOverride consults the operator override store. A store error is
// logged and ignored: the override is an enhancement, never a blocker for
// the automatic policy.
func (c *Calculator) manualOverride(ctx context.Context, region string) (domain.FrictionResult, bool) {
	if c.overrides == nil {
		return domain.FrictionResult{}, false
	}
	reason, ok, err := c.overrides.Lookup(ctx, region)
	if err != nil {
		c.logger.Warn("override lookup failed, continuing with automatic policy",
			"region", region, "error", err)
		return domain.FrictionResult{}, false
	}
	if !ok {
		return domain.FrictionResult{}, false
	}
	return domain.FrictionResult{
		Multiplier: CrisisMultiplier,
		Factors:    []domain.Factor{{Tag: "crisis", Label: "CRISIS: " + reason}},
		Source:     domain.SourceOverride,
	}, true
}

// observe returns the fresh API observation for the coordinate's bucket
// when one exists, otherwise the deterministic simulation.
func (c *Calculator) observe(lat, lon float64, region string) (domain.Observation, domain.Source) {
	bucket := domain.BucketFor(lat, lon)
	if entry, ok := c.cache.Get(bucket); ok &&
		c.cache.Fresh(entry) &&
		entry.Source == domain.SourceAPI &&
		entry.Observation != nil {
		return *entry.Observation, domain.SourceAPI
	}
	return Simulate(lat, lon, region), domain.SourceSimulated
}

func applyCondition(mu float64, factors []domain.Factor, cond domain.Condition) (float64, []domain.Factor) {
	switch cond {
	case domain.ConditionThunderstorm:
		return mu - penaltyThunderstorm, append(factors, domain.Factor{Tag: "storm", Label: "Thunderstorm in the area"})
	case domain.ConditionSnow:
		return mu - penaltySnow, append(factors, domain.Factor{Tag: "snow", Label: "Snowfall in the area"})
	case domain.ConditionRain, domain.ConditionDrizzle:
		return mu - penaltyRain, append(factors, domain.Factor{Tag: "rain", Label: "Rain in the area"})
	case domain.ConditionFog, domain.ConditionMist, domain.ConditionHaze:
		return mu - penaltyFog, append(factors, domain.Factor{Tag: "fog", Label: "Reduced visibility"})
	case domain.ConditionClouds:
		return mu - penaltyClouds, append(factors, domain.Factor{Tag: "clouds", Label: "Overcast"})
	case domain.ConditionClear:
		return mu, append(factors, domain.Factor{Tag: "clear", Label: "Clear skies"})
	default:
		// Unknown conditions pass through informationally, no penalty.
		return mu, append(factors, domain.Factor{Tag: "condition", Label: fmt.Sprintf("Conditions: %s", cond)})
	}
}

func applyTemperature(mu float64, factors []domain.Factor, tempC float64) (float64, []domain.Factor) {
	switch {
	case tempC < tempColdC:
		return mu - penaltyTempExtreme, append(factors, domain.Factor{Tag: "cold", Label: fmt.Sprintf("Cold: %.1f°C", tempC)})
	case tempC > tempHotC:
		return mu - penaltyTempExtreme, append(factors, domain.Factor{Tag: "heat", Label: fmt.Sprintf("Extreme heat: %.1f°C", tempC)})
	default:
		return mu, append(factors, domain.Factor{Tag: "temp", Label: fmt.Sprintf("Temperature %.1f°C", tempC)})
	}
}

// applyRoads emits the road/traffic factor. Condition-driven hazards
// supersede the simulated traffic signal so a single weather cause is
// not penalized twice.
func applyRoads(mu float64, factors []domain.Factor, cond domain.Condition, lat, lon float64) (float64, []domain.Factor) {
	switch cond {
	case domain.ConditionSnow:
		return mu, append(factors, domain.Factor{Tag: "roads", Label: "Icy roads likely"})
	case domain.ConditionRain, domain.ConditionDrizzle, domain.ConditionThunderstorm:
		return mu, append(factors, domain.Factor{Tag: "roads", Label: "Wet roads"})
	}

	switch trafficClassFor(lat, lon) {
	case trafficHeavy:
		return mu - penaltyTrafficHeavy, append(factors, domain.Factor{Tag: "traffic", Label: "Heavy traffic expected"})
	case trafficBusy:
		return mu - penaltyTrafficBusy, append(factors, domain.Factor{Tag: "traffic", Label: "Busy roads"})
	default:
		return mu, append(factors, domain.Factor{Tag: "roads", Label: "Roads clear"})
	}
}

type trafficClass int

const (
	trafficHeavy trafficClass = iota
	trafficBusy
	trafficClear
)

// trafficClassFor derives a deterministic congestion class from the
// coordinates. Not a real signal: it stands in for a traffic provider
// while keeping repeated calls for the same coordinate reproducible.
func trafficClassFor(lat, lon float64) trafficClass {
	n := int(math.Floor((lat+lon)*10)) % 3
	if n < 0 {
		n += 3
	}
	return trafficClass(n)
}

// ApplyCommunityCorrection restores part of a reduced multiplier when
// recent check-ins confirm people are actually at the POI. Manual crisis
// overrides are never corrected: explicit operator suppression wins.
func ApplyCommunityCorrection(result domain.FrictionResult, checkIns int) domain.FrictionResult {
	if result.Source == domain.SourceOverride {
		return result
	}
	if result.Multiplier >= MaxMultiplier || checkIns < communityCheckInThreshold {
		return result
	}

	corrected := result
	corrected.Multiplier = round2(math.Min(MaxMultiplier, result.Multiplier+communityCorrection))
	corrected.Factors = append(append([]domain.Factor(nil), result.Factors...), domain.Factor{
		Tag:   "community",
		Label: "Community verified: recent check-ins confirm access",
	})
	return corrected
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package domain

import "fmt"

// Condition is the weather condition group reported by the provider.
// Values mirror the OpenWeatherMap "main" field; unrecognized values are
// carried through unchanged and treated as informational.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionFog          Condition = "Fog"
	ConditionMist         Condition = "Mist"
	ConditionHaze         Condition = "Haze"
)

// Observation is a single weather reading at a coordinate.
type Observation struct {
	Condition   Condition `json:"condition"`
	TempC       float64   `json:"temp_c"`
	WindSpeedMS float64   `json:"wind_speed_ms,omitempty"`
}

// Source records where friction input data came from.
type Source string

const (
	// SourceAPI marks a live provider observation.
	SourceAPI Source = "api"
	// SourceSimulated marks a deterministic fallback, either because no
	// credential is configured or because a fetch failed.
	SourceSimulated Source = "simulated"
	// SourceOverride marks a manual operator suppression; no observation
	// is involved at all.
	SourceOverride Source = "override"
)

// Bucket groups nearby coordinates so a batch of candidates in the same
// area shares a single provider call and cache entry.
type Bucket string

// BucketFor rounds a coordinate pair to one decimal place (~11 km cells).
// Two coordinates that round to the same pair always map to the same bucket.
func BucketFor(lat, lon float64) Bucket {
	return Bucket(fmt.Sprintf("%.1f,%.1f", lat, lon))
}

// Factor is one human-readable contribution to a friction multiplier,
// penalizing or informational.
type Factor struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// FrictionResult is the bounded accessibility multiplier for a coordinate
// together with the ordered factor list explaining it. Produced fresh per
// request; only the underlying observation is cached.
type FrictionResult struct {
	Multiplier float64
	Factors    []Factor
	Source     Source
}

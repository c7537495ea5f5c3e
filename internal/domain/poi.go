package domain

import (
	"encoding/json"
	"fmt"
)

// defaultPopularity is assumed when the gateway omits the opaque
// popularity scalar for a candidate.
const defaultPopularity = 0.5

// Candidate is a POI supplied by the gateway for re-ranking. The engine
// treats it as read-only input: results carry an enriched copy, never the
// caller's value.
type Candidate struct {
	ID          int64
	Name        string
	Description string
	Region      string
	Lat         float64
	Lon         float64

	// Popularity is an opaque scalar in [0, 1] computed upstream.
	Popularity float64

	// CheckIns counts recent community check-ins at the POI, used for the
	// community friction correction.
	CheckIns int

	// Extra holds fields this service does not interpret (image_url,
	// category, ...). They are carried to the ranked output byte-identical.
	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the known candidate fields and preserves every
// unknown field in Extra.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("parse candidate: %w", err)
	}

	c.Popularity = defaultPopularity
	for key, raw := range fields {
		var err error
		switch key {
		case "id":
			err = json.Unmarshal(raw, &c.ID)
		case "name":
			err = json.Unmarshal(raw, &c.Name)
		case "description":
			err = json.Unmarshal(raw, &c.Description)
		case "region":
			err = json.Unmarshal(raw, &c.Region)
		case "lat":
			err = json.Unmarshal(raw, &c.Lat)
		case "lon":
			err = json.Unmarshal(raw, &c.Lon)
		case "base_popularity":
			err = json.Unmarshal(raw, &c.Popularity)
		case "check_ins":
			err = json.Unmarshal(raw, &c.CheckIns)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = raw
		}
		if err != nil {
			return fmt.Errorf("parse candidate field %q: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON emits the known fields plus every preserved Extra field.
func (c Candidate) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+8)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["id"] = c.ID
	out["name"] = c.Name
	out["description"] = c.Description
	out["region"] = c.Region
	out["lat"] = c.Lat
	out["lon"] = c.Lon
	out["base_popularity"] = c.Popularity
	out["check_ins"] = c.CheckIns
	return json.Marshal(out)
}

// Clone returns a deep copy. The Extra map is duplicated so a result
// never aliases caller-owned memory.
func (c Candidate) Clone() Candidate {
	out := c
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// RankedResult is a candidate enriched with the scoring outcome. Each
// result is newly constructed per call; results share no mutable state.
type RankedResult struct {
	Candidate

	FinalScore    float64  `json:"final_score"`
	MatchRate     float64  `json:"match_rate"`
	FrictionIndex float64  `json:"friction_index"`
	SafetyFactors []Factor `json:"safety_factors"`
	Explanation   string   `json:"explanation"`
}

// MarshalJSON flattens the candidate fields (including passthrough ones)
// and the score fields into a single object.
func (r RankedResult) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(r.Candidate)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}

	add := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal result field %q: %w", key, err)
		}
		out[key] = raw
		return nil
	}
	if err := add("final_score", r.FinalScore); err != nil {
		return nil, err
	}
	if err := add("match_rate", r.MatchRate); err != nil {
		return nil, err
	}
	if err := add("friction_index", r.FrictionIndex); err != nil {
		return nil, err
	}
	if err := add("safety_factors", r.SafetyFactors); err != nil {
		return nil, err
	}
	if err := add("explanation", r.Explanation); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

package friction

import (
	"math"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

// climateProfile is the deterministic fallback used when no fresh API
// observation exists for a bucket.
type climateProfile struct {
	condition domain.Condition
	baseTempC float64
}

// regionProfiles reflects typical conditions for the regions in the POI
// dataset. High Mount Lebanon regions default to cold and snow, coastal
// cities to mild and clear, the Bekaa plateau to dry heat.
var regionProfiles = map[string]climateProfile{
	"Beirut":   {domain.ConditionClear, 24},
	"Jbeil":    {domain.ConditionClear, 23},
	"Batroun":  {domain.ConditionClear, 22},
	"Keserwan": {domain.ConditionClouds, 19},
	"Bcharre":  {domain.ConditionSnow, 2},
	"Baalbek":  {domain.ConditionClear, 27},
	"Zahle":    {domain.ConditionClouds, 21},
	"Anjar":    {domain.ConditionClear, 25},
	"Saida":    {domain.ConditionClear, 25},
	"Tyr":      {domain.ConditionClear, 26},
}

var defaultProfile = climateProfile{domain.ConditionClear, 23}

// Simulate derives a deterministic observation for a coordinate from its
// region's climate profile. The temperature is perturbed by a fixed
// function of the coordinates, not randomness, so two POIs in the same
// region still differ while repeated calls for the same input are
// bit-identical.
func Simulate(lat, lon float64, region string) domain.Observation {
	profile, ok := regionProfiles[region]
	if !ok {
		profile = defaultProfile
	}

	// ±2°C swing derived from the coordinate fraction.
	swing := math.Mod(math.Abs(lat*7.3+lon*3.1), 4.0) - 2.0

	return domain.Observation{
		Condition: profile.condition,
		TempC:     math.Round((profile.baseTempC+swing)*10) / 10,
	}
}

package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

// penaltyTags are the factor tags that actually reduced the multiplier.
// Informational tags (roads, clear, temp, offline, community, ...) never
// justify a warning sentence.
var penaltyTags = map[string]bool{
	"crisis":  true,
	"storm":   true,
	"snow":    true,
	"rain":    true,
	"fog":     true,
	"clouds":  true,
	"cold":    true,
	"heat":    true,
	"traffic": true,
}

// explain renders the one-paragraph human explanation for a ranked
// result: the match sentence, then either a warning naming the dominant
// friction cause or an all-clear sentence.
func explain(matchRate float64, fr domain.FrictionResult, embedFailed bool) string {
	var b strings.Builder
	if embedFailed {
		b.WriteString("Profile match unavailable for this place.")
	} else {
		fmt.Fprintf(&b, "This matches %d%% of your profile.", int(math.Round(matchRate*100)))
	}

	if reason, ok := dominantReason(fr); ok {
		fmt.Fprintf(&b, " Warning: visibility reduced due to %s.", reason)
	} else {
		b.WriteString(" Area is currently stable and accessible.")
	}
	return b.String()
}

// dominantReason returns the label of the first penalizing factor.
// Factor order is fixed by the calculator, so the first penalty is the
// condition-level cause when one exists.
func dominantReason(fr domain.FrictionResult) (string, bool) {
	if fr.Multiplier >= 1 {
		return "", false
	}
	for _, f := range fr.Factors {
		if penaltyTags[f.Tag] {
			return f.Label, true
		}
	}
	return "", false
}

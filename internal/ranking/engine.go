package ranking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/friction"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/observability"
)

// Auditor receives a summary of each completed ranking call. Delivery is
// best effort; implementations must not block the request path on broker
// availability.
type Auditor interface {
	RankingComputed(ctx context.Context, audit domain.RankingAudit)
}

// Engine re-ranks POI candidates against a user interest profile. It
// embeds the profile once, warms the weather cache for every distinct
// coordinate bucket in the batch, then scores each candidate as
// match rate times friction multiplier.
type Engine struct {
	embedder   domain.Embedder
	warmer     *friction.Warmer
	calculator *friction.Calculator
	auditor    Auditor // nil disables auditing
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewEngine wires the scoring pipeline.
func NewEngine(embedder domain.Embedder, warmer *friction.Warmer, calculator *friction.Calculator, auditor Auditor, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		embedder:   embedder,
		warmer:     warmer,
		calculator: calculator,
		auditor:    auditor,
		logger:     logger,
		metrics:    metrics,
	}
}

// Recommend scores and sorts the candidate batch. The returned slice is
// ordered by descending final score; ties keep the caller's order. Every
// candidate comes back exactly once, including ones whose embedding
// failed. A failure to embed the interest profile itself fails the whole
// call since no candidate can be matched without it.
func (e *Engine) Recommend(ctx context.Context, interestProfile string, candidates []domain.Candidate) ([]domain.RankedResult, error) {
	timer := prometheus.NewTimer(e.metrics.RecommendDuration)
	defer timer.ObserveDuration()

	if len(candidates) == 0 {
		return []domain.RankedResult{}, nil
	}

	profileVec, err := e.embedder.Embed(ctx, interestProfile)
	if err != nil {
		e.metrics.EmbedErrors.Inc()
		return nil, fmt.Errorf("embed interest profile: %w", err)
	}

	coords := make([]friction.Coord, 0, len(candidates))
	for _, cand := range candidates {
		coords = append(coords, friction.Coord{Lat: cand.Lat, Lon: cand.Lon})
	}
	e.warmer.WarmUp(ctx, coords)

	results := make([]domain.RankedResult, 0, len(candidates))
	degraded := false
	for _, cand := range candidates {
		result, source := e.scoreCandidate(ctx, profileVec, cand)
		if source == domain.SourceSimulated {
			degraded = true
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	e.metrics.CandidatesRanked.Add(float64(len(results)))

	if e.auditor != nil {
		e.auditor.RankingComputed(ctx, domain.RankingAudit{
			UserHash:   hashProfile(interestProfile),
			Candidates: len(results),
			Degraded:   degraded,
			TopPOI:     results[0].ID,
			TopScore:   results[0].FinalScore,
		})
	}
	return results, nil
}

// scoreCandidate scores one candidate. An embedding failure for the
// candidate text degrades that candidate to a zero match rate instead of
// dropping it; the batch still succeeds.
func (e *Engine) scoreCandidate(ctx context.Context, profileVec []float32, cand domain.Candidate) (domain.RankedResult, domain.Source) {
	text := cand.Description
	if text == "" {
		text = cand.Name
	}

	matchRate := 0.0
	embedFailed := false
	candVec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		embedFailed = true
		e.metrics.EmbedErrors.Inc()
		e.logger.Warn("candidate embedding failed, scoring without profile match",
			"poi_id", cand.ID, "error", err)
	} else {
		matchRate = clamp01(Similarity(profileVec, candVec))
	}

	fr := e.calculator.Calculate(ctx, cand.Lat, cand.Lon, cand.Region)
	fr = friction.ApplyCommunityCorrection(fr, cand.CheckIns)

	return domain.RankedResult{
		Candidate:     cand.Clone(),
		FinalScore:    round4(matchRate * fr.Multiplier),
		MatchRate:     round4(matchRate),
		FrictionIndex: fr.Multiplier,
		SafetyFactors: fr.Factors,
		Explanation:   explain(matchRate, fr, embedFailed),
	}, fr.Source
}

// hashProfile derives a stable anonymous identifier from the interest
// text so audit events never carry the raw profile.
func hashProfile(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

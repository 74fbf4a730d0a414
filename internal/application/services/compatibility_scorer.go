package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// SubScores are the six [0,100] components the compatibility scorer
// combines into an overallScore (§4.3).
type SubScores struct {
	Location  float64
	Age       float64
	Interests float64
	Education float64
	Lifestyle float64
	Activity  float64
}

// CompatibilityScorerOption configures scorer construction.
type CompatibilityScorerOption func(*CompatibilityScorer)

// WithConstantActivity switches the activity sub-score to the legacy
// constant-75 fallback instead of the exponential-decay form. §9's open
// question says the decay form is how the strategies actually use
// activity and the constant should be flagged as a fallback — this option
// exists only so that fallback stays reachable and testable, never as the
// default.
func WithConstantActivity() CompatibilityScorerOption {
	return func(s *CompatibilityScorer) { s.useConstantActivity = true }
}

// ActivityScoreConstantFallback is the legacy constant activity score; see
// WithConstantActivity.
const ActivityScoreConstantFallback = 75.0

// CompatibilityScorer computes a requester-weighted overallScore for an
// ordered (requester, target) pair, upserting and read-through-caching the
// result in PrecomputedScore (§4.3).
type CompatibilityScorer struct {
	scores              repositories.PrecomputedScoreRepository
	cfg                 func() config.ScoringConfig
	useConstantActivity bool
}

// NewCompatibilityScorer builds a scorer. cfg is read on every call, so the
// penalty, cache-TTL and activity half-life knobs are taken from whatever
// ScoringConfig it returns at that moment. The scorer does not read the
// minimum-threshold knob.
func NewCompatibilityScorer(scores repositories.PrecomputedScoreRepository, cfg func() config.ScoringConfig, opts ...CompatibilityScorerOption) *CompatibilityScorer {
	s := &CompatibilityScorer{scores: scores, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the overallScore and sub-scores for (requester, target),
// honoring the read-through cache: a fresh valid PrecomputedScore row is
// returned verbatim without recomputation (§8 testable property).
func (s *CompatibilityScorer) Score(ctx context.Context, requester, target *entities.Profile) (float64, SubScores, error) {
	cfg := s.cfg()
	ttl := time.Duration(cfg.ScoreCacheHours) * time.Hour

	if cached, err := s.scores.GetFresh(ctx, requester.UserID, target.UserID, ttl, time.Now().UTC()); err == nil && cached != nil {
		return cached.OverallScore, SubScores{
			Location:  cached.LocationScore,
			Age:       cached.AgeScore,
			Interests: cached.InterestsScore,
			Education: cached.EducationScore,
			Lifestyle: cached.LifestyleScore,
			Activity:  cached.ActivityScore,
		}, nil
	}

	sub := s.computeSubScores(requester, target, cfg)
	overall := s.combine(requester, sub, cfg)

	row := &entities.PrecomputedScore{
		UserID:         requester.UserID,
		TargetUserID:   target.UserID,
		OverallScore:   overall,
		LocationScore:  sub.Location,
		AgeScore:       sub.Age,
		InterestsScore: sub.Interests,
		EducationScore: sub.Education,
		LifestyleScore: sub.Lifestyle,
		ActivityScore:  sub.Activity,
		CalculatedAt:   time.Now().UTC(),
		IsValid:        true,
	}
	if err := s.scores.Upsert(ctx, row); err != nil {
		logger.Warnf("compatibility scorer: failed to cache score for user %d -> %d: %v", requester.UserID, target.UserID, err)
	}

	return overall, sub, nil
}

func (s *CompatibilityScorer) computeSubScores(requester, target *entities.Profile, cfg config.ScoringConfig) SubScores {
	return SubScores{
		Location:  locationScore(requester, target),
		Age:       ageScore(requester, target),
		Interests: interestsScore(requester, target),
		Education: educationScore(requester, target),
		Lifestyle: lifestyleScore(requester, target, cfg),
		Activity:  s.activityScore(target, cfg),
	}
}

func (s *CompatibilityScorer) combine(requester *entities.Profile, sub SubScores, cfg config.ScoringConfig) float64 {
	const activityWeight = 0.5

	weighted := requester.LocationWeight*sub.Location +
		requester.AgeWeight*sub.Age +
		requester.InterestsWeight*sub.Interests +
		requester.EducationWeight*sub.Education +
		requester.LifestyleWeight*sub.Lifestyle +
		activityWeight*sub.Activity

	totalWeight := requester.LocationWeight + requester.AgeWeight + requester.InterestsWeight +
		requester.EducationWeight + requester.LifestyleWeight + activityWeight

	if totalWeight <= 0 {
		return 0
	}

	overall := weighted / totalWeight
	return clamp(round1(overall), 0, 100)
}

// locationScore: haversine distance; 0 beyond requester.maxDistanceKm, else
// linear falloff to it.
func locationScore(requester, target *entities.Profile) float64 {
	if requester.MaxDistanceKm <= 0 {
		return 0
	}
	d := haversineKm(requester.Latitude, requester.Longitude, target.Latitude, target.Longitude)
	if d > requester.MaxDistanceKm {
		return 0
	}
	return 100 * (1 - d/requester.MaxDistanceKm)
}

// haversineKm is the great-circle distance in kilometers, used by the
// scorer's Location sub-score. The filter pipeline's Distance filter uses a
// bounding box instead — it must stay store-pushdown, which this formula's
// trigonometry cannot.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func ageScore(requester, target *entities.Profile) float64 {
	if target.Age < requester.MinAge || target.Age > requester.MaxAge {
		return 0
	}
	midpoint := float64(requester.MinAge+requester.MaxAge) / 2
	halfRange := float64(requester.MaxAge-requester.MinAge) / 2
	if halfRange <= 0 {
		return 100
	}
	return 100 - (math.Abs(float64(target.Age)-midpoint)/halfRange)*50
}

func interestsScore(requester, target *entities.Profile) float64 {
	a := normalizeInterests(requester.Interests)
	b := normalizeInterests(target.Interests)
	if len(a) == 0 || len(b) == 0 {
		return 50
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 50
	}
	return float64(intersection) / float64(union) * 100
}

func normalizeInterests(interests []string) map[string]bool {
	set := make(map[string]bool, len(interests))
	for _, i := range interests {
		set[strings.ToLower(strings.TrimSpace(i))] = true
	}
	return set
}

func educationScore(requester, target *entities.Profile) float64 {
	a, okA := requester.Education.Ordinal()
	b, okB := target.Education.Ordinal()
	if !okA || !okB {
		return 70
	}
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	return math.Max(50, 100-15*float64(delta))
}

func lifestyleScore(requester, target *entities.Profile, cfg config.ScoringConfig) float64 {
	score := 100.0

	if requester.WantsChildren != nil && target.WantsChildren != nil && *requester.WantsChildren != *target.WantsChildren {
		score -= cfg.WantsChildrenMismatchPenalty
	}

	if requester.HasChildren != nil && target.HasChildren != nil && *requester.HasChildren != *target.HasChildren {
		if *requester.HasChildren || *target.HasChildren {
			score -= cfg.HasChildrenMismatchPenalty
		}
	}

	if aOrd, aOk := requester.SmokingStatus.Ordinal(); aOk {
		if bOrd, bOk := target.SmokingStatus.Ordinal(); bOk {
			score -= cfg.SmokingMismatchPenalty * math.Abs(float64(aOrd-bOrd)) / 2
		}
	}

	if aOrd, aOk := requester.DrinkingStatus.Ordinal(); aOk {
		if bOrd, bOk := target.DrinkingStatus.Ordinal(); bOk {
			score -= cfg.DrinkingMismatchPenalty * math.Abs(float64(aOrd-bOrd)) / 2
		}
	}

	if requester.Religion != "" && target.Religion != "" && !strings.EqualFold(requester.Religion, target.Religion) {
		score -= cfg.ReligionMismatchPenalty
	}

	return math.Max(0, score)
}

// activityScore implements §4.3's exponential decay
// 100·exp(-ln2·Δdays/halfLifeDays), clamped to [0,100]. The legacy constant
// fallback is reachable only via WithConstantActivity.
func (s *CompatibilityScorer) activityScore(target *entities.Profile, cfg config.ScoringConfig) float64 {
	if s.useConstantActivity {
		return ActivityScoreConstantFallback
	}
	return ExponentialActivityDecay(target.LastActiveAt, time.Now().UTC(), cfg.ActivityScoreHalfLifeDays)
}

// ExponentialActivityDecay is the standalone activity-score formula shared
// by the scorer and the Live strategy's own activity computation (§4.4
// step 5), so both always agree on what "activity" means.
func ExponentialActivityDecay(lastActiveAt, now time.Time, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		halfLifeDays = 7
	}
	deltaDays := now.Sub(lastActiveAt).Hours() / 24
	if deltaDays < 0 {
		deltaDays = 0
	}
	score := 100 * math.Exp(-math.Ln2*deltaDays/halfLifeDays)
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

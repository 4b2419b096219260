package ranking

import (
	"sort"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain/geo"
)

// Config holds the ranking weights. Semantic similarity dominates; distance
// and locale only reorder documents of comparable relevance.
type Config struct {
	SemanticWeight float64
	DistanceWeight float64
	LocaleBonus    float64
	DecayKm        float64 // distance at which the distance factor halves
	Epsilon        float64 // combined scores closer than this count as tied
}

// DefaultConfig returns the production weights.
func DefaultConfig() Config {
	return Config{
		SemanticWeight: 0.7,
		DistanceWeight: 0.3,
		LocaleBonus:    0.15,
		DecayKm:        15,
		Epsilon:        1e-9,
	}
}

// Ranker folds geographic signals into semantic candidates.
type Ranker struct {
	cfg Config
}

// New creates a ranker with the given config.
func New(cfg Config) *Ranker {
	if cfg.DecayKm <= 0 {
		cfg.DecayKm = DefaultConfig().DecayKm
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultConfig().Epsilon
	}
	return &Ranker{cfg: cfg}
}

// Rank scores and orders candidates. Pure: no I/O, no mutation of input.
// The reference point for distance is the user location when reported,
// else the resolved locale centroid, else none (all distances unknown).
func (r *Ranker) Rank(
	candidates []domain.Candidate,
	locale *domain.Locale,
	userLocation *domain.UserLocation,
) []domain.RankedCandidate {
	ref := referencePoint(locale, userLocation)

	ranked := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rc := domain.RankedCandidate{
			Document:      c.Document,
			SemanticScore: c.SemanticScore,
		}

		if ref != nil && c.Document.Coordinates != nil {
			d := geo.HaversineKm(ref.Lat, ref.Lng, c.Document.Coordinates.Lat, c.Document.Coordinates.Lng)
			rc.DistanceKm = &d
		}
		if locale != nil && c.Document.Municipality == locale.LocalName {
			rc.LocaleMatch = true
		}

		rc.CombinedScore = r.combine(rc)
		ranked = append(ranked, rc)
	}

	r.sortRanked(ranked)
	return ranked
}

// combine computes the final score. Unknown distance is neutral: a document
// without coordinates gets the full distance factor, never a penalty.
func (r *Ranker) combine(rc domain.RankedCandidate) float64 {
	factor := 1.0
	if rc.DistanceKm != nil {
		factor = 1.0 / (1.0 + *rc.DistanceKm/r.cfg.DecayKm)
	}

	score := r.cfg.SemanticWeight*rc.SemanticScore + r.cfg.DistanceWeight*factor
	if rc.LocaleMatch {
		score += r.cfg.LocaleBonus
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// sortRanked orders by combined score descending. Scores within epsilon are
// tied and break by higher rating, then lexical document ID.
func (r *Ranker) sortRanked(ranked []domain.RankedCandidate) {
	eps := r.cfg.Epsilon
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		diff := a.CombinedScore - b.CombinedScore
		if diff > eps {
			return true
		}
		if diff < -eps {
			return false
		}
		if a.Document.Rating != b.Document.Rating {
			return a.Document.Rating > b.Document.Rating
		}
		return a.Document.ID < b.Document.ID
	})
}

func referencePoint(locale *domain.Locale, userLocation *domain.UserLocation) *domain.Coordinates {
	if userLocation != nil {
		p := userLocation.Point()
		return &p
	}
	if locale != nil && locale.Centroid != nil {
		return locale.Centroid
	}
	return nil
}

package scoring

import (
	"math"

	"github.com/roomiapp/roomi-engine/internal/db"
)

// Weights control how much each compatibility factor contributes.
// They are expected to sum to 1.
type Weights struct {
	Budget    float64
	Location  float64
	Lifestyle float64
	Lease     float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Budget:    0.35,
		Location:  0.25,
		Lifestyle: 0.30,
		Lease:     0.10,
	}
}

// Scorer computes compatibility scores between two profiles.
type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score computes the compatibility of candidate for requester as an
// integer 0..100. Pure and deterministic: same inputs, same output.
//
// Note the lifestyle factor iterates the requester's preference keys
// only, so Score(a, b) and Score(b, a) can differ.
func (s *Scorer) Score(requester, candidate *db.Profile) int {
	sum := s.weights.Budget*budgetScore(requester.Budget, candidate.Budget) +
		s.weights.Location*locationScore(requester.Location, candidate.Location) +
		s.weights.Lifestyle*lifestyleScore(requester.Lifestyle, candidate.Lifestyle) +
		s.weights.Lease*leaseScore(requester.LeaseDuration, candidate.LeaseDuration)

	return int(math.Round(100 * sum))
}

// budgetScore rewards closeness of the two monthly budgets. A missing
// budget counts as 0; the max(.., 1) floor keeps the division defined
// when both are 0.
func budgetScore(r, c float64) float64 {
	denom := math.Max(math.Max(r, c), 1)
	return 1 - math.Min(math.Abs(r-c)/denom, 1)
}

// locationScore is 1 only when both locations are set and exactly equal
// (case-sensitive free-text labels, no normalization).
func locationScore(r, c string) float64 {
	if r != "" && r == c {
		return 1
	}
	return 0
}

// lifestyleScore is the fraction of the requester's preference keys the
// candidate answers identically. 0 when the requester has no keys.
func lifestyleScore(r, c map[string]string) float64 {
	if len(r) == 0 {
		return 0
	}
	matched := 0
	for k, v := range r {
		if cv, ok := c[k]; ok && cv == v {
			matched++
		}
	}
	return float64(matched) / float64(len(r))
}

// leaseScore is 1 only when both lease durations are set and equal.
func leaseScore(r, c string) float64 {
	if r != "" && r == c {
		return 1
	}
	return 0
}

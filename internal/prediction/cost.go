package prediction

import "math/rand"

// CostEstimator produces a repair cost estimate within a component's range.
// Predictions are deterministic apart from this estimate, so it lives behind
// an interface that tests can pin.
type CostEstimator interface {
	Estimate(component string, min, max float64) float64
}

// MidpointCostEstimator returns the midpoint of the range. This is the
// default: fully deterministic.
type MidpointCostEstimator struct{}

func (MidpointCostEstimator) Estimate(component string, min, max float64) float64 {
	return (min + max) / 2
}

// RandomCostEstimator draws uniformly from the range using an injected
// source, which keeps seeded runs reproducible.
type RandomCostEstimator struct {
	rng *rand.Rand
}

// NewRandomCostEstimator creates an estimator from a seeded source
func NewRandomCostEstimator(src rand.Source) *RandomCostEstimator {
	return &RandomCostEstimator{rng: rand.New(src)}
}

func (e *RandomCostEstimator) Estimate(component string, min, max float64) float64 {
	return min + e.rng.Float64()*(max-min)
}

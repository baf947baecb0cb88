package humanproof

import "math"

const (
	// Interactions faster than plausible human reaction time are treated as
	// definitively automated; no further signal is consulted.
	minHumanReactionMS = 500
	// Interactions slower than this are weakly human-correlated deliberation.
	deliberationMS     = 1500
	deliberationPoints = 30

	// Below this many samples the trajectory carries too little spatial data;
	// timing alone must suffice. This is a degraded path, not an error.
	minTrajectorySamples = 15
	richTrajectorySize   = 40

	// Sub-10ms sample deltas are measurement noise and excluded from velocity
	// statistics, though still counted in total path length.
	velocityNoiseFloorMS = 10

	complexityThreshold = 1.2
	complexityPoints    = 20
	richSamplePoints    = 20

	velocityVarianceThreshold = 0.05
	velocityVariancePoints    = 30
)

// trustScore turns a recorded pointer trajectory and the elapsed interaction
// time into a human-likelihood score. Pure function of its inputs; malformed
// or missing signal degrades the score instead of failing. The default rule
// set tops out at 100, but callers must treat any value above the acceptance
// threshold as a pass rather than assume a hard ceiling.
func trustScore(trajectory []PointerSample, interactionTimeMS int64) int {
	if interactionTimeMS < minHumanReactionMS {
		return 0
	}

	score := 0
	if interactionTimeMS > deliberationMS {
		score += deliberationPoints
	}

	if len(trajectory) < minTrajectorySamples {
		return score
	}

	var totalPath float64
	velocities := make([]float64, 0, len(trajectory)-1)
	for i := 1; i < len(trajectory); i++ {
		prev, cur := trajectory[i-1], trajectory[i]
		dist := math.Hypot(cur.X-prev.X, cur.Y-prev.Y)
		totalPath += dist

		dt := cur.T - prev.T
		if dt > velocityNoiseFloorMS {
			velocities = append(velocities, dist/float64(dt))
		}
	}

	first, last := trajectory[0], trajectory[len(trajectory)-1]
	straight := math.Hypot(last.X-first.X, last.Y-first.Y)
	if straight == 0 {
		// A stationary start/end point must not produce an undefined ratio.
		straight = 1
	}
	complexity := totalPath / straight

	if complexity > complexityThreshold {
		score += complexityPoints
	}
	if len(trajectory) > richTrajectorySize {
		score += richSamplePoints
	}
	if populationVariance(velocities) > velocityVarianceThreshold {
		score += velocityVariancePoints
	}

	return score
}

// populationVariance returns 0 for an empty list.
func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

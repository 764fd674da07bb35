package engine

import (
	"time"

	"github.com/jsundin/esett-proxy/internal/dataset"
)

// DefaultThreshold is the fraction of expected samples a stored range must
// reach to count as cached. Upstream datasets have small natural gaps, so
// requiring every sample would re-fetch ranges that are already materially
// complete. The constant is a heuristic, tunable via configuration.
const DefaultThreshold = 0.9

// ExpectedSamples returns how many records a fully populated range would
// hold at the given sampling interval. Non-positive for degenerate ranges.
func ExpectedSamples(rng dataset.Range, interval time.Duration) float64 {
	return rng.Duration().Seconds() / interval.Seconds()
}

// Complete decides whether a stored count suffices to skip the upstream
// fetch. Degenerate and empty ranges are never complete.
func Complete(stored int64, rng dataset.Range, interval time.Duration, threshold float64) bool {
	expected := ExpectedSamples(rng, interval)
	if expected <= 0 {
		return false
	}
	return float64(stored) >= threshold*expected
}

package allocator

import (
	"math"

	"github.com/montanaflynn/stats"

	"allogator/internal/domain"
)

// drift below a basis point is display noise, not a real imbalance
const driftEpsilon = 0.01

// Summary describes how far the post-allocation portfolio sits from its
// targets, for display next to the per-asset results.
type Summary struct {
	MaxDrift     float64 `json:"maxDrift"`
	MeanAbsDrift float64 `json:"meanAbsDrift"`
	DriftStdev   float64 `json:"driftStdev"`
	Overweight   int     `json:"overweight"`
	Underweight  int     `json:"underweight"`
}

func Summarize(results []domain.AllocationResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	absDrifts := make([]float64, 0, len(results))
	drifts := make([]float64, 0, len(results))
	s := Summary{}
	for _, r := range results {
		drifts = append(drifts, r.Difference)
		absDrifts = append(absDrifts, math.Abs(r.Difference))
		if r.Difference > driftEpsilon {
			s.Overweight++
		} else if r.Difference < -driftEpsilon {
			s.Underweight++
		}
	}

	// stats only errors on empty input, excluded above
	s.MaxDrift, _ = stats.Max(absDrifts)
	s.MeanAbsDrift, _ = stats.Mean(absDrifts)
	if len(drifts) > 1 {
		s.DriftStdev, _ = stats.StandardDeviationSample(drifts)
	}
	return s
}

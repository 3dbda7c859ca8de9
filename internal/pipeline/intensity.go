package pipeline

import (
	"math"

	"github.com/theirongolddev/cashcal/internal/model"
)

// Normalize maps value onto [0,1] relative to max. A non-positive or
// non-finite max, or a non-finite value, yields 0.
func Normalize(value, max float64) float64 {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		return 0
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	r := value / max
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// MaxValue returns the largest aggregate among buckets, or 0 when there are none.
func MaxValue(buckets []model.Bucket) float64 {
	max := 0.0
	for _, b := range buckets {
		if b.Aggregate > max {
			max = b.Aggregate
		}
	}
	return max
}

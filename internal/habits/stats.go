// Package habits computes the water-usage pattern analyses: hourly peaks,
// weekday/weekend comparison, time-of-day aggregation, per-building
// divergence, day-shape clustering and the pump schedule derived from them.
// Every stage is a pure function over the combined dataset.
package habits

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the descriptive-statistics row produced by the grouped stages.
type Summary struct {
	Mean   float64
	Std    float64 // sample std (n-1)
	Median float64
	Max    float64
	Sum    float64
	Count  int
}

func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(xs)}
	max := xs[0]
	for _, v := range xs {
		s.Sum += v
		if v > max {
			max = v
		}
	}
	s.Max = max
	s.Mean = s.Sum / float64(len(xs))
	if len(xs) > 1 {
		s.Std = stat.StdDev(xs, nil)
	}
	s.Median = median(xs)
	return s
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

// peakHours applies the shared threshold rule: hours whose mean exceeds the
// mean of the hourly means plus their population std. A flat series has zero
// std, so no hour exceeds the threshold and the peak set is empty.
func peakHours(hourlyMeans [24]float64) (peaks []int, threshold float64) {
	means := hourlyMeans[:]
	threshold = stat.Mean(means, nil) + stat.PopStdDev(means, nil)
	for h, m := range hourlyMeans {
		if m > threshold {
			peaks = append(peaks, h)
		}
	}
	return peaks, threshold
}

package habits

import (
	"errors"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

// defaultK is used when there are too few distinct dates to search over.
const defaultK = 3

// maxClusterSearch caps the k search range.
const maxClusterSearch = 8

// ClusterEnvelope summarizes one cluster of day shapes.
type ClusterEnvelope struct {
	Days int
	Mean [24]float64
	Min  [24]float64
	Max  [24]float64
}

// ClusterResult labels each calendar date with its day-shape cluster.
type ClusterResult struct {
	K         int
	Dates     []time.Time
	Labels    []int // parallel to Dates; empty when the input degenerates
	Envelopes []ClusterEnvelope
	Inertia   float64
}

// AnalyzeClusters pivots the dataset to one 24-value vector per calendar
// date and partitions the dates by day shape. k is chosen by the minimum
// within-cluster sum of squares over k in [2, min(8, nDates)); the plain
// minimum (no elbow penalty) is kept for compatibility with the upstream
// behavior even though it is biased toward the largest candidate k.
func AnalyzeClusters(c *dataset.Combined) (*ClusterResult, error) {
	if c.Empty() {
		return nil, errors.New("empty dataset")
	}
	profiles := dayProfiles(c)
	dates := make([]time.Time, 0, len(profiles))
	for d := range profiles {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if len(dates) < 2 {
		// Not enough days to partition.
		return &ClusterResult{K: defaultK, Dates: dates}, nil
	}

	points := mat.NewDense(len(dates), 24, nil)
	for i, d := range dates {
		points.SetRow(i, profiles[d][:])
	}

	bestK, bestFit := chooseK(points, len(dates))
	res := &ClusterResult{
		K:       bestK,
		Dates:   dates,
		Labels:  bestFit.labels,
		Inertia: bestFit.inertia,
	}
	res.Envelopes = envelopes(points, bestFit.labels, bestK)
	return res, nil
}

func chooseK(points *mat.Dense, nDates int) (int, kmeansResult) {
	upper := maxClusterSearch
	if nDates < upper {
		upper = nDates
	}
	bestK := -1
	var best kmeansResult
	for k := 2; k < upper; k++ {
		fit := kmeans(points, k)
		if bestK == -1 || fit.inertia < best.inertia {
			bestK, best = k, fit
		}
	}
	if bestK == -1 {
		// nDates == 2: only k=2 makes sense, range was empty.
		bestK = 2
		best = kmeans(points, 2)
	}
	return bestK, best
}

func dayProfiles(c *dataset.Combined) map[time.Time]*[24]float64 {
	profiles := map[time.Time]*[24]float64{}
	for _, o := range c.Rows {
		p := profiles[o.Date]
		if p == nil {
			p = &[24]float64{}
			profiles[o.Date] = p
		}
		p[o.Hour] += o.Usage
	}
	return profiles
}

func envelopes(points *mat.Dense, labels []int, k int) []ClusterEnvelope {
	out := make([]ClusterEnvelope, k)
	first := make([]bool, k)
	for i, c := range labels {
		row := points.RawRowView(i)
		env := &out[c]
		env.Days++
		for h := 0; h < 24; h++ {
			env.Mean[h] += row[h]
			if !first[c] || row[h] < env.Min[h] {
				env.Min[h] = row[h]
			}
			if !first[c] || row[h] > env.Max[h] {
				env.Max[h] = row[h]
			}
		}
		first[c] = true
	}
	for c := range out {
		if out[c].Days == 0 {
			continue
		}
		for h := 0; h < 24; h++ {
			out[c].Mean[h] /= float64(out[c].Days)
		}
	}
	return out
}

package habits

import (
	"errors"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

// BuildingResult holds the per-building aggregation and each building's own
// peak-hour set.
type BuildingResult struct {
	Buildings []string // load order
	Stats     map[string]Summary
	// Peaks is computed against each building's own mean+std threshold, not
	// the global one: a building that is flat relative to itself has no
	// peaks even when the campus as a whole does.
	Peaks map[string][]int
	// HourMeans feeds the building×hour heatmap.
	HourMeans map[string][24]float64
	// Usage keeps each building's raw readings for the distribution boxes.
	Usage map[string][]float64
}

// AnalyzeBuildings groups usage by building and recomputes peak hours within
// each building's subset.
func AnalyzeBuildings(c *dataset.Combined) (*BuildingResult, error) {
	if c.Empty() {
		return nil, errors.New("empty dataset")
	}
	res := &BuildingResult{
		Buildings: append([]string(nil), c.Buildings...),
		Stats:     map[string]Summary{},
		Peaks:     map[string][]int{},
		HourMeans: map[string][24]float64{},
		Usage:     map[string][]float64{},
	}
	byHour := map[string][][]float64{}
	for _, o := range c.Rows {
		res.Usage[o.Building] = append(res.Usage[o.Building], o.Usage)
		g := byHour[o.Building]
		if g == nil {
			g = make([][]float64, 24)
		}
		g[o.Hour] = append(g[o.Hour], o.Usage)
		byHour[o.Building] = g
	}
	for _, b := range res.Buildings {
		res.Stats[b] = summarize(res.Usage[b])
		var means [24]float64
		for h, vs := range byHour[b] {
			if len(vs) > 0 {
				var sum float64
				for _, v := range vs {
					sum += v
				}
				means[h] = sum / float64(len(vs))
			}
		}
		res.HourMeans[b] = means
		res.Peaks[b], _ = peakHours(means)
	}
	return res, nil
}

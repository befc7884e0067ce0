package habits

import (
	"errors"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

// HourlyResult is the per-hour aggregation plus the detected global peaks.
type HourlyResult struct {
	Stats     [24]Summary
	Peaks     []int
	Threshold float64
}

// PeakSet reports membership of an hour in the peak set.
func (r *HourlyResult) PeakSet() map[int]bool {
	set := make(map[int]bool, len(r.Peaks))
	for _, h := range r.Peaks {
		set[h] = true
	}
	return set
}

// PeakVsOffPeak returns the mean of the peak-hour means and of the remaining
// hourly means. With an empty peak set the peak mean is zero.
func (r *HourlyResult) PeakVsOffPeak() (peakMean, offPeakMean float64) {
	set := r.PeakSet()
	var ps, pn, os, on float64
	for h, s := range r.Stats {
		if set[h] {
			ps += s.Mean
			pn++
		} else {
			os += s.Mean
			on++
		}
	}
	if pn > 0 {
		peakMean = ps / pn
	}
	if on > 0 {
		offPeakMean = os / on
	}
	return peakMean, offPeakMean
}

// AnalyzeHourly groups usage by hour of day and detects peak hours.
func AnalyzeHourly(c *dataset.Combined) (*HourlyResult, error) {
	if c.Empty() {
		return nil, errors.New("empty dataset")
	}
	byHour := make([][]float64, 24)
	for _, o := range c.Rows {
		byHour[o.Hour] = append(byHour[o.Hour], o.Usage)
	}
	res := &HourlyResult{}
	var means [24]float64
	for h := 0; h < 24; h++ {
		res.Stats[h] = summarize(byHour[h])
		means[h] = res.Stats[h].Mean
	}
	res.Peaks, res.Threshold = peakHours(means)
	return res, nil
}

package habits

import (
	"errors"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

// PeriodResult aggregates by the four day segments and cross-tabulates each
// segment against the weekend flag.
type PeriodResult struct {
	Stats map[dataset.Period]Summary
	// WeekdayMean/WeekendMean hold the segment×weekend cross-tab.
	WeekdayMean map[dataset.Period]float64
	WeekendMean map[dataset.Period]float64
}

// AnalyzePeriods groups usage by time-of-day segment.
func AnalyzePeriods(c *dataset.Combined) (*PeriodResult, error) {
	if c.Empty() {
		return nil, errors.New("empty dataset")
	}
	byPeriod := map[dataset.Period][]float64{}
	wkSum := map[dataset.Period]float64{}
	wkN := map[dataset.Period]int{}
	weSum := map[dataset.Period]float64{}
	weN := map[dataset.Period]int{}
	for _, o := range c.Rows {
		byPeriod[o.Period] = append(byPeriod[o.Period], o.Usage)
		if o.IsWeekend {
			weSum[o.Period] += o.Usage
			weN[o.Period]++
		} else {
			wkSum[o.Period] += o.Usage
			wkN[o.Period]++
		}
	}
	res := &PeriodResult{
		Stats:       map[dataset.Period]Summary{},
		WeekdayMean: map[dataset.Period]float64{},
		WeekendMean: map[dataset.Period]float64{},
	}
	for _, p := range dataset.Periods {
		res.Stats[p] = summarize(byPeriod[p])
		if wkN[p] > 0 {
			res.WeekdayMean[p] = wkSum[p] / float64(wkN[p])
		}
		if weN[p] > 0 {
			res.WeekendMean[p] = weSum[p] / float64(weN[p])
		}
	}
	return res, nil
}

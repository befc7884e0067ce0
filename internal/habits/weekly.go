package habits

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

// SignificanceLevel is the fixed p-value threshold for the weekday/weekend
// difference test.
const SignificanceLevel = 0.05

// WeeklyResult compares weekday and weekend usage.
type WeeklyResult struct {
	DayStats     [8]Summary // indexed 1..7 (Mon..Sun); 0 unused
	WeekdayStats Summary
	WeekendStats Summary
	TStat        float64
	PValue       float64
	DF           float64
	Significant  bool
}

// AnalyzeWeekly aggregates by weekday and runs Welch's two-sample t-test
// between the weekday (Mon-Fri) and weekend (Sat-Sun) usage populations.
func AnalyzeWeekly(c *dataset.Combined) (*WeeklyResult, error) {
	if c.Empty() {
		return nil, errors.New("empty dataset")
	}
	byDay := make([][]float64, 8)
	var weekday, weekend []float64
	for _, o := range c.Rows {
		byDay[o.Weekday] = append(byDay[o.Weekday], o.Usage)
		if o.IsWeekend {
			weekend = append(weekend, o.Usage)
		} else {
			weekday = append(weekday, o.Usage)
		}
	}
	res := &WeeklyResult{
		WeekdayStats: summarize(weekday),
		WeekendStats: summarize(weekend),
	}
	for d := 1; d <= 7; d++ {
		res.DayStats[d] = summarize(byDay[d])
	}
	if len(weekday) < 2 || len(weekend) < 2 {
		return res, errors.New("too few observations for weekday/weekend test")
	}
	res.TStat, res.PValue, res.DF = welchTTest(weekday, weekend)
	res.Significant = res.PValue < SignificanceLevel
	return res, nil
}

// welchTTest is the unequal-variance two-sample t-test with the
// Welch-Satterthwaite degrees of freedom. gonum's stat package carries no
// two-sample test, so the statistic is computed directly and the p-value
// taken from the Student's t distribution in distuv.
func welchTTest(a, b []float64) (t, p, df float64) {
	ma, va := stat.MeanVariance(a, nil)
	mb, vb := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	sea, seb := va/na, vb/nb
	se := math.Sqrt(sea + seb)
	if se == 0 {
		if ma == mb {
			return 0, 1, na + nb - 2
		}
		return math.Inf(sign(ma - mb)), 0, na + nb - 2
	}
	t = (ma - mb) / se
	df = (sea + seb) * (sea + seb) / (sea*sea/(na-1) + seb*seb/(nb-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return t, p, df
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

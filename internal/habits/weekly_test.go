package habits

import (
	"math"
	"testing"
	"time"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

func TestAnalyzeWeeklySignificantDifference(t *testing.T) {
	// Weekdays around 2.0 with small spread, weekends around 1.0.
	c := weekOf("西13栋", func(weekday, hour int) float64 {
		jitter := 0.01 * float64(hour%3)
		if weekday >= 6 {
			return 1.0 + jitter
		}
		return 2.0 + jitter
	})
	res, err := AnalyzeWeekly(c)
	if err != nil {
		t.Fatalf("AnalyzeWeekly: %v", err)
	}
	if !res.Significant {
		t.Fatalf("difference not significant: t=%v p=%v", res.TStat, res.PValue)
	}
	if res.TStat <= 0 {
		t.Errorf("t = %v, want positive (weekday mean above weekend mean)", res.TStat)
	}
	if res.PValue >= SignificanceLevel {
		t.Errorf("p = %v, want < %v", res.PValue, SignificanceLevel)
	}
	if res.WeekdayStats.Count != 5*24 || res.WeekendStats.Count != 2*24 {
		t.Errorf("subset sizes wrong: %d/%d", res.WeekdayStats.Count, res.WeekendStats.Count)
	}
	if res.DayStats[6].Mean >= res.DayStats[1].Mean {
		t.Errorf("Saturday mean %v should be below Monday mean %v",
			res.DayStats[6].Mean, res.DayStats[1].Mean)
	}
}

func TestAnalyzeWeeklyIdenticalDistributions(t *testing.T) {
	c := weekOf("西13栋", func(_, hour int) float64 { return 1.0 + 0.1*float64(hour%2) })
	res, err := AnalyzeWeekly(c)
	if err != nil {
		t.Fatalf("AnalyzeWeekly: %v", err)
	}
	if res.Significant {
		t.Fatalf("identical distributions flagged significant: t=%v p=%v", res.TStat, res.PValue)
	}
	if math.Abs(res.TStat) > 1e-9 {
		t.Errorf("t = %v, want ~0", res.TStat)
	}
	if res.PValue < 0.99 {
		t.Errorf("p = %v, want ~1", res.PValue)
	}
}

func TestAnalyzeWeeklyTooFewObservations(t *testing.T) {
	// Weekday rows only: the aggregation still comes back, the test does not.
	c := &dataset.Combined{Buildings: []string{"西13栋"}}
	base := c.Buildings[0]
	for h := 0; h < 4; h++ {
		c.Rows = append(c.Rows, makeObs(base, dayMonday(), 1, h, 1.0))
	}
	res, err := AnalyzeWeekly(c)
	if err == nil {
		t.Fatal("expected error with no weekend observations")
	}
	if res == nil || res.WeekdayStats.Count != 4 {
		t.Fatalf("partial result missing: %+v", res)
	}
}

func dayMonday() time.Time {
	return time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
}

func TestWelchTTestZeroVariance(t *testing.T) {
	// Equal constant samples: no evidence of difference.
	tStat, p, _ := welchTTest([]float64{1, 1, 1}, []float64{1, 1})
	if tStat != 0 || p != 1 {
		t.Errorf("got t=%v p=%v, want 0, 1", tStat, p)
	}
	// Distinct constant samples: unbounded evidence.
	tStat, p, _ = welchTTest([]float64{2, 2, 2}, []float64{1, 1})
	if !math.IsInf(tStat, 1) || p != 0 {
		t.Errorf("got t=%v p=%v, want +Inf, 0", tStat, p)
	}
}

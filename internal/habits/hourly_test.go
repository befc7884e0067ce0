package habits

import (
	"testing"
	"time"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

// makeObs builds one observation with the derived fields populated the way
// the loader would.
func makeObs(building string, date time.Time, weekday, hour int, usage float64) dataset.Observation {
	return dataset.Observation{
		Building:      building,
		Date:          date,
		Weekday:       weekday,
		Hour:          hour,
		Usage:         usage,
		PrevDayUsage:  usage,
		PrevWeekUsage: usage,
		Timestamp:     date.Add(time.Duration(hour) * time.Hour),
		Month:         int(date.Month()),
		Day:           date.Day(),
		IsWeekend:     weekday == 6 || weekday == 7,
		Period:        dataset.PeriodOf(hour),
	}
}

// weekOf generates seven full days for one building, with usage given by fn.
func weekOf(building string, fn func(weekday, hour int) float64) *dataset.Combined {
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local) // a Monday
	c := &dataset.Combined{Buildings: []string{building}}
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			c.Rows = append(c.Rows, makeObs(building, base.AddDate(0, 0, d), d+1, h, fn(d+1, h)))
		}
	}
	return c
}

func TestAnalyzeHourlyDetectsEveningPeaks(t *testing.T) {
	c := weekOf("西13栋", func(_, hour int) float64 {
		if hour >= 18 && hour <= 21 {
			return 5.0
		}
		return 0.5
	})
	res, err := AnalyzeHourly(c)
	if err != nil {
		t.Fatalf("AnalyzeHourly: %v", err)
	}
	want := []int{18, 19, 20, 21}
	if len(res.Peaks) != len(want) {
		t.Fatalf("peaks = %v, want %v (threshold %.4f)", res.Peaks, want, res.Threshold)
	}
	for i, h := range want {
		if res.Peaks[i] != h {
			t.Fatalf("peaks = %v, want %v", res.Peaks, want)
		}
	}
	if res.Stats[18].Mean != 5.0 || res.Stats[0].Mean != 0.5 {
		t.Errorf("hourly means wrong: %+v %+v", res.Stats[18], res.Stats[0])
	}
	peak, off := res.PeakVsOffPeak()
	if peak != 5.0 || off != 0.5 {
		t.Errorf("peak/off means = %v/%v, want 5.0/0.5", peak, off)
	}
}

func TestAnalyzeHourlyFlatSeriesHasNoPeaks(t *testing.T) {
	c := weekOf("西13栋", func(_, _ int) float64 { return 1.0 })
	res, err := AnalyzeHourly(c)
	if err != nil {
		t.Fatalf("AnalyzeHourly: %v", err)
	}
	if len(res.Peaks) != 0 {
		t.Fatalf("flat series produced peaks %v", res.Peaks)
	}
	// Threshold degenerates to the common mean; no hour strictly exceeds it.
	if res.Threshold != 1.0 {
		t.Errorf("threshold = %v, want 1.0", res.Threshold)
	}
}

func TestAnalyzeHourlyEmpty(t *testing.T) {
	if _, err := AnalyzeHourly(&dataset.Combined{}); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestSummarize(t *testing.T) {
	s := summarize([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Median != 2.5 || s.Max != 4 || s.Sum != 10 || s.Count != 4 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Std < 1.29 || s.Std > 1.30 { // sample std of 1..4 is ~1.2910
		t.Errorf("std = %v, want ~1.291", s.Std)
	}
	if z := summarize(nil); z != (Summary{}) {
		t.Errorf("empty summary = %+v, want zero value", z)
	}
}

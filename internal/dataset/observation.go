package dataset

import "time"

// Period is one of the four fixed day segments used for coarse-grained
// temporal aggregation.
type Period int

const (
	PeriodNight     Period = iota // 0-5
	PeriodMorning                 // 6-11
	PeriodAfternoon               // 12-17
	PeriodEvening                 // 18-23
)

// Periods lists all segments in report display order
// (上午, 下午, 晚上, 深夜).
var Periods = []Period{PeriodMorning, PeriodAfternoon, PeriodEvening, PeriodNight}

func (p Period) String() string {
	switch p {
	case PeriodMorning:
		return "上午"
	case PeriodAfternoon:
		return "下午"
	case PeriodEvening:
		return "晚上"
	default:
		return "深夜"
	}
}

// PeriodOf maps an hour of day to its segment.
func PeriodOf(hour int) Period {
	switch {
	case hour >= 6 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 18:
		return PeriodAfternoon
	case hour >= 18 && hour < 24:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// Observation is one hourly meter reading for one building, with the lag
// features attached at extraction time.
type Observation struct {
	Building      string
	Date          time.Time // midnight, local
	Weekday       int       // 1=Mon .. 7=Sun
	Hour          int       // 0..23
	Usage         float64   // T/hour
	PrevDayUsage  float64
	PrevWeekUsage float64

	// Derived at load time.
	Timestamp time.Time
	Month     int
	Day       int
	IsWeekend bool
	Period    Period
}

// Combined is the in-memory union of all loaded building series. It is owned
// by a single analysis run and never shared across runs.
type Combined struct {
	Rows      []Observation
	Buildings []string // load order, deduplicated
}

// Empty reports whether no observations were loaded.
func (c *Combined) Empty() bool { return c == nil || len(c.Rows) == 0 }

// Usages returns the usage column.
func (c *Combined) Usages() []float64 {
	out := make([]float64, len(c.Rows))
	for i, r := range c.Rows {
		out[i] = r.Usage
	}
	return out
}

// DateRange returns the earliest and latest observation dates.
func (c *Combined) DateRange() (time.Time, time.Time) {
	if c.Empty() {
		return time.Time{}, time.Time{}
	}
	min, max := c.Rows[0].Date, c.Rows[0].Date
	for _, r := range c.Rows[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max
}

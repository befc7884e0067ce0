package habits

// PumpPlan is the booster-pump schedule derived from the global peak-hour
// set. Pure arithmetic over the hourly stage, no new statistics.
type PumpPlan struct {
	RunningHours      []int
	OffHours          []int
	DailyRunningTime  int
	EnergySavingRatio float64
}

// DerivePumpPlan builds the run/off schedule. An empty peak set means zero
// running hours, not an error: downstream rendering reports "no peaks".
func DerivePumpPlan(hourly *HourlyResult) *PumpPlan {
	plan := &PumpPlan{}
	set := map[int]bool{}
	if hourly != nil {
		plan.RunningHours = append(plan.RunningHours, hourly.Peaks...)
		set = hourly.PeakSet()
	}
	for h := 0; h < 24; h++ {
		if !set[h] {
			plan.OffHours = append(plan.OffHours, h)
		}
	}
	plan.DailyRunningTime = len(plan.RunningHours)
	plan.EnergySavingRatio = float64(24-plan.DailyRunningTime) / 24
	return plan
}

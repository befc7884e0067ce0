package habits

// Results accumulates the stage outputs of one analysis run. A nil stage
// pointer means that stage failed or was skipped; its Err keeps the reason
// so the report can say why a section is unavailable.
type Results struct {
	Hourly   *HourlyResult
	Weekly   *WeeklyResult
	Period   *PeriodResult
	Building *BuildingResult
	Cluster  *ClusterResult
	Pump     *PumpPlan

	StageErrs map[string]error
}

func NewResults() *Results {
	return &Results{StageErrs: map[string]error{}}
}

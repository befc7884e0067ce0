package habits

import (
	"testing"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
)

func TestAnalyzeBuildings(t *testing.T) {
	peaky := weekOf("西13栋", func(_, hour int) float64 {
		if hour >= 6 && hour <= 8 {
			return 6.0
		}
		return 0.5
	})
	flat := weekOf("校外1", func(_, _ int) float64 { return 1.0 })

	c := &dataset.Combined{
		Buildings: []string{"西13栋", "校外1"},
		Rows:      append(peaky.Rows, flat.Rows...),
	}
	res, err := AnalyzeBuildings(c)
	if err != nil {
		t.Fatalf("AnalyzeBuildings: %v", err)
	}
	if len(res.Buildings) != 2 || res.Buildings[0] != "西13栋" {
		t.Fatalf("buildings = %v", res.Buildings)
	}
	// Each building is measured against its own threshold.
	if got := res.Peaks["西13栋"]; len(got) != 3 || got[0] != 6 || got[2] != 8 {
		t.Errorf("西13栋 peaks = %v, want [6 7 8]", got)
	}
	if got := res.Peaks["校外1"]; len(got) != 0 {
		t.Errorf("flat building has peaks %v", got)
	}
	if s := res.Stats["校外1"]; s.Mean != 1.0 || s.Count != 7*24 {
		t.Errorf("校外1 stats wrong: %+v", s)
	}
	if hm := res.HourMeans["西13栋"]; hm[7] != 6.0 || hm[0] != 0.5 {
		t.Errorf("hour means wrong: %v", hm)
	}
	if len(res.Usage["西13栋"]) != 7*24 {
		t.Errorf("usage series length = %d", len(res.Usage["西13栋"]))
	}
}

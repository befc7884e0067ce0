package charts

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/habits"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	s := DefaultStyle()
	s.DPI = 72 // keep test artifacts small
	r, err := NewRenderer(s)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func checkPNG(t *testing.T, b []byte, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Fatalf("output is not a PNG (%d bytes)", len(b))
	}
	if _, err := png.Decode(bytes.NewReader(b)); err != nil {
		t.Fatalf("decode rendered PNG: %v", err)
	}
}

func hourlyFixture() *habits.HourlyResult {
	h := &habits.HourlyResult{Peaks: []int{18, 19}, Threshold: 2.0}
	for i := range h.Stats {
		h.Stats[i] = habits.Summary{Mean: 0.5, Count: 10}
	}
	h.Stats[18].Mean = 5
	h.Stats[19].Mean = 4
	return h
}

func buildingFixture() *habits.BuildingResult {
	b := &habits.BuildingResult{
		Buildings: []string{"西13栋", "校外1"},
		Stats:     map[string]habits.Summary{},
		Peaks:     map[string][]int{},
		HourMeans: map[string][24]float64{},
		Usage:     map[string][]float64{},
	}
	for _, name := range b.Buildings {
		var hm [24]float64
		for h := range hm {
			hm[h] = float64(h) * 0.1
		}
		b.HourMeans[name] = hm
		b.Usage[name] = []float64{0.1, 0.5, 1.2, 3.0, 0.8, 0.4}
		b.Stats[name] = habits.Summary{Mean: 1.0, Count: 6}
	}
	return b
}

func TestRenderHourly(t *testing.T) {
	r := testRenderer(t)
	b, err := r.Hourly(hourlyFixture(), buildingFixture())
	checkPNG(t, b, err)

	// Without building data the chart degrades to the bar panel alone.
	b, err = r.Hourly(hourlyFixture(), nil)
	checkPNG(t, b, err)
}

func TestRenderWeekly(t *testing.T) {
	w := &habits.WeeklyResult{}
	for d := 1; d <= 7; d++ {
		w.DayStats[d] = habits.Summary{Mean: float64(d) * 0.3}
	}
	b, err := testRenderer(t).Weekly(w)
	checkPNG(t, b, err)
}

func TestRenderPeriods(t *testing.T) {
	res := &habits.PeriodResult{Stats: map[dataset.Period]habits.Summary{
		dataset.PeriodMorning:   {Sum: 10},
		dataset.PeriodAfternoon: {Sum: 5},
		dataset.PeriodEvening:   {Sum: 25},
		dataset.PeriodNight:     {Sum: 2},
	}}
	b, err := testRenderer(t).Periods(res)
	checkPNG(t, b, err)

	if _, err := testRenderer(t).Periods(&habits.PeriodResult{Stats: map[dataset.Period]habits.Summary{}}); err == nil {
		t.Fatal("expected error with zero total usage")
	}
}

func TestRenderBuildings(t *testing.T) {
	b, err := testRenderer(t).Buildings(buildingFixture())
	checkPNG(t, b, err)
}

func TestRenderClusters(t *testing.T) {
	c := &habits.ClusterResult{K: 2, Labels: []int{0, 1, 0}}
	var a, b habits.ClusterEnvelope
	a.Days, b.Days = 2, 1
	for h := 0; h < 24; h++ {
		a.Mean[h], a.Min[h], a.Max[h] = 1.0, 0.5, 1.5
		b.Mean[h], b.Min[h], b.Max[h] = 3.0, 2.5, 3.5
	}
	c.Envelopes = []habits.ClusterEnvelope{a, b}
	out, err := testRenderer(t).Clusters(c)
	checkPNG(t, out, err)

	if _, err := testRenderer(t).Clusters(&habits.ClusterResult{K: 3}); err == nil {
		t.Fatal("expected error when no days were clustered")
	}
}

func TestPlaceholder(t *testing.T) {
	b := testRenderer(t).Placeholder("hourly_pattern.png", errors.New("stage failed"))
	checkPNG(t, b, nil)
}

func TestNewRendererRejectsBadStyle(t *testing.T) {
	if _, err := NewRenderer(Style{}); err == nil {
		t.Fatal("expected error for zero-size style")
	}
	s := DefaultStyle()
	s.FontPath = "/definitely/not/a/font.ttf"
	if _, err := NewRenderer(s); err == nil {
		t.Fatal("expected error for missing font file")
	}
}

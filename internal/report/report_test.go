package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/habits"
)

func sampleCombined() *dataset.Combined {
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	c := &dataset.Combined{Buildings: []string{"西13栋"}}
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			usage := 0.5
			if h >= 18 && h <= 21 {
				usage = 5.0
			}
			c.Rows = append(c.Rows, dataset.Observation{
				Building: "西13栋", Date: base.AddDate(0, 0, d),
				Weekday: d + 1, Hour: h, Usage: usage,
				IsWeekend: d >= 5, Period: dataset.PeriodOf(h),
			})
		}
	}
	return c
}

func fullResults(t *testing.T, c *dataset.Combined) *habits.Results {
	t.Helper()
	res := habits.NewResults()
	var err error
	if res.Hourly, err = habits.AnalyzeHourly(c); err != nil {
		t.Fatal(err)
	}
	if res.Weekly, err = habits.AnalyzeWeekly(c); err != nil {
		t.Fatal(err)
	}
	if res.Period, err = habits.AnalyzePeriods(c); err != nil {
		t.Fatal(err)
	}
	if res.Building, err = habits.AnalyzeBuildings(c); err != nil {
		t.Fatal(err)
	}
	if res.Cluster, err = habits.AnalyzeClusters(c); err != nil {
		t.Fatal(err)
	}
	res.Pump = habits.DerivePumpPlan(res.Hourly)
	return res
}

func TestGenerateFullReport(t *testing.T) {
	c := sampleCombined()
	now := time.Date(2024, 4, 1, 10, 30, 0, 0, time.Local)
	md := Generate(c, fullResults(t, c), now)

	for _, want := range []string{
		"# 用水习惯分析报告",
		"## 1. 分析概述",
		"## 2. 每小时用水模式分析",
		"## 3. 每周用水模式分析",
		"## 4. 分时段用水模式分析",
		"## 5. 楼栋差异分析",
		"## 6. 典型日用水模式（聚类分析）",
		"## 7. 增压泵控制建议",
		"## 8. 主要发现与结论",
		"**用水高峰时段**: 18, 19, 20, 21时",
		"**建议运行时段**: 18, 19, 20, 21时",
		"- **每日运行时间**: 4 小时",
		"2024-03-04 至 2024-03-10",
		"*报告生成时间: 2024-04-01 10:30:00*",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
	// Means carry four decimals, percentages one.
	if !strings.Contains(md, "| 18 | 5.0000 |") {
		t.Errorf("hourly table not 4-decimal formatted:\n%s", md)
	}
	if !strings.Contains(md, "%") {
		t.Error("no percentage rendered")
	}
	if strings.Contains(md, "数据不可用") {
		t.Error("complete results should not render the unavailable marker")
	}
}

func TestGenerateDegradedSections(t *testing.T) {
	c := sampleCombined()
	res := habits.NewResults() // every stage missing
	res.StageErrs["weekly"] = errors.New("boom")
	md := Generate(c, res, time.Now())

	if got := strings.Count(md, "数据不可用"); got < 5 {
		t.Errorf("expected unavailable markers in every stage section, found %d", got)
	}
	if !strings.Contains(md, "以下分析阶段未能完成") || !strings.Contains(md, "weekly: boom") {
		t.Error("stage failure list missing")
	}
	// Section skeleton survives even with nothing to report.
	if !strings.Contains(md, "## 7. 增压泵控制建议") {
		t.Error("pump section header missing")
	}
}

func TestGenerateEmptyDataset(t *testing.T) {
	md := Generate(&dataset.Combined{}, habits.NewResults(), time.Now())
	if !strings.Contains(md, "未加载任何有效数据") {
		t.Error("empty dataset note missing")
	}
	if !strings.Contains(md, "## 8. 主要发现与结论") {
		t.Error("trailing sections missing on empty dataset")
	}
}

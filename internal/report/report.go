// Package report renders the analysis results into the fixed-section
// markdown document consumed by the report/PDF packaging side.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/habits"
)

// unavailable is the explicit marker for sections whose upstream stage
// failed; sections are never silently blank.
const unavailable = "数据不可用"

var dayNames = [8]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// Generate renders the full markdown report. It tolerates any subset of
// missing stage results.
func Generate(c *dataset.Combined, res *habits.Results, now time.Time) string {
	var b strings.Builder
	b.WriteString("# 用水习惯分析报告\n\n")
	writeOverview(&b, c)
	writeHourly(&b, res.Hourly)
	writeWeekly(&b, res.Weekly)
	writePeriods(&b, res.Period)
	writeBuildings(&b, res.Building)
	writeClusters(&b, res.Cluster)
	writePump(&b, res.Pump)
	writeFindings(&b, res)
	fmt.Fprintf(&b, "\n---\n*报告生成时间: %s*\n*分析程序: 用水习惯分析器 v1.0*\n",
		now.Format("2006-01-02 15:04:05"))
	return b.String()
}

func writeOverview(b *strings.Builder, c *dataset.Combined) {
	b.WriteString("## 1. 分析概述\n\n")
	if c.Empty() {
		b.WriteString(unavailable + "：未加载任何有效数据。\n\n")
		return
	}
	min, max := c.DateRange()
	var sum, maxU float64
	zeros := 0
	for _, o := range c.Rows {
		sum += o.Usage
		if o.Usage > maxU {
			maxU = o.Usage
		}
		if o.Usage == 0 {
			zeros++
		}
	}
	n := float64(len(c.Rows))
	fmt.Fprintf(b, "本报告基于 %d 个楼栋的用水数据，分析时间范围为 %s 至 %s，总计分析了 %d 条用水记录。\n\n",
		len(c.Buildings), min.Format("2006-01-02"), max.Format("2006-01-02"), len(c.Rows))
	b.WriteString("### 1.1 数据概况\n")
	fmt.Fprintf(b, "- **楼栋数量**: %d 个\n", len(c.Buildings))
	fmt.Fprintf(b, "- **数据记录**: %d 条\n", len(c.Rows))
	fmt.Fprintf(b, "- **平均用水量**: %.4f T/小时\n", sum/n)
	fmt.Fprintf(b, "- **最大用水量**: %.4f T/小时\n", maxU)
	fmt.Fprintf(b, "- **零用水量比例**: %.1f%%\n\n", float64(zeros)*100/n)
}

func writeHourly(b *strings.Builder, h *habits.HourlyResult) {
	b.WriteString("## 2. 每小时用水模式分析\n\n")
	if h == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}
	b.WriteString("### 2.1 用水高峰时段识别\n")
	if len(h.Peaks) == 0 {
		b.WriteString("未识别出用水高峰时段（各小时用水量接近平稳）。\n\n")
	} else {
		fmt.Fprintf(b, "**用水高峰时段**: %s时\n\n", joinHours(h.Peaks))
		peak, off := h.PeakVsOffPeak()
		fmt.Fprintf(b, "高峰时段特征：\n- 高峰阈值: %.4f T/小时\n- 高峰期平均用水量: %.4f T/小时\n- 非高峰期平均用水量: %.4f T/小时\n",
			h.Threshold, peak, off)
		if off > 0 {
			fmt.Fprintf(b, "- 高峰期用水量是非高峰期的 %.1f 倍\n", peak/off)
		}
		b.WriteString("\n")
	}
	b.WriteString("### 2.2 每小时用水统计\n\n")
	b.WriteString("| 小时 | 平均值 | 标准差 | 中位数 | 最大值 |\n|---|---|---|---|---|\n")
	for hour, s := range h.Stats {
		fmt.Fprintf(b, "| %d | %.4f | %.4f | %.4f | %.4f |\n", hour, s.Mean, s.Std, s.Median, s.Max)
	}
	b.WriteString("\n")
}

func writeWeekly(b *strings.Builder, w *habits.WeeklyResult) {
	b.WriteString("## 3. 每周用水模式分析\n\n")
	if w == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}
	b.WriteString("### 3.1 工作日vs周末差异\n\n")
	fmt.Fprintf(b, "**工作日用水特征**:\n- 平均用水量: %.4f T/小时\n- 标准差: %.4f T/小时\n- 最大用水量: %.4f T/小时\n\n",
		w.WeekdayStats.Mean, w.WeekdayStats.Std, w.WeekdayStats.Max)
	fmt.Fprintf(b, "**周末用水特征**:\n- 平均用水量: %.4f T/小时\n- 标准差: %.4f T/小时\n- 最大用水量: %.4f T/小时\n\n",
		w.WeekendStats.Mean, w.WeekendStats.Std, w.WeekendStats.Max)
	cmp := "低"
	if w.WeekdayStats.Mean > w.WeekendStats.Mean {
		cmp = "高"
	}
	diff := w.WeekdayStats.Mean - w.WeekendStats.Mean
	if diff < 0 {
		diff = -diff
	}
	fmt.Fprintf(b, "**差异分析**:\n- 工作日平均用水量比周末%s %.4f T/小时\n- t统计量: %.4f，p值: %.4f\n- 差异显著性: %s\n\n",
		cmp, diff, w.TStat, w.PValue, significance(w.Significant))
	b.WriteString("### 3.2 每天用水统计\n\n")
	b.WriteString("| 星期 | 平均值 | 标准差 | 中位数 | 总量 | 记录数 |\n|---|---|---|---|---|---|\n")
	for d := 1; d <= 7; d++ {
		s := w.DayStats[d]
		fmt.Fprintf(b, "| %s | %.4f | %.4f | %.4f | %.4f | %d |\n",
			dayNames[d], s.Mean, s.Std, s.Median, s.Sum, s.Count)
	}
	b.WriteString("\n")
}

func writePeriods(b *strings.Builder, p *habits.PeriodResult) {
	b.WriteString("## 4. 分时段用水模式分析\n\n")
	if p == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}
	b.WriteString("| 时间段 | 平均值 | 标准差 | 中位数 | 总量 | 记录数 |\n|---|---|---|---|---|---|\n")
	for _, per := range dataset.Periods {
		s := p.Stats[per]
		fmt.Fprintf(b, "| %s | %.4f | %.4f | %.4f | %.4f | %d |\n",
			per, s.Mean, s.Std, s.Median, s.Sum, s.Count)
	}
	b.WriteString("\n各时间段工作日vs周末对比 (平均 T/小时):\n\n")
	b.WriteString("| 时间段 | 工作日 | 周末 |\n|---|---|---|\n")
	for _, per := range dataset.Periods {
		fmt.Fprintf(b, "| %s | %.4f | %.4f |\n", per, p.WeekdayMean[per], p.WeekendMean[per])
	}
	b.WriteString("\n")
}

func writeBuildings(b *strings.Builder, r *habits.BuildingResult) {
	b.WriteString("## 5. 楼栋差异分析\n\n")
	if r == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}
	b.WriteString("### 5.1 各楼栋用水统计\n\n")
	b.WriteString("| 楼栋 | 平均值 | 标准差 | 中位数 | 最大值 | 总量 | 记录数 |\n|---|---|---|---|---|---|---|\n")
	for _, name := range r.Buildings {
		s := r.Stats[name]
		fmt.Fprintf(b, "| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %d |\n",
			name, s.Mean, s.Std, s.Median, s.Max, s.Sum, s.Count)
	}
	b.WriteString("\n### 5.2 各楼栋高峰时段\n")
	for _, name := range r.Buildings {
		if len(r.Peaks[name]) == 0 {
			fmt.Fprintf(b, "- %s: 无高峰时段\n", name)
		} else {
			fmt.Fprintf(b, "- %s: %s时\n", name, joinHours(r.Peaks[name]))
		}
	}
	b.WriteString("\n")
}

func writeClusters(b *strings.Builder, c *habits.ClusterResult) {
	b.WriteString("## 6. 典型日用水模式（聚类分析）\n\n")
	if c == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}
	if len(c.Labels) == 0 {
		b.WriteString("有效天数不足，未进行聚类。\n\n")
		return
	}
	fmt.Fprintf(b, "通过聚类将 %d 个用水日分成了 %d 种典型模式。\n\n", len(c.Dates), c.K)
	for i, env := range c.Envelopes {
		fmt.Fprintf(b, "- 模式 %d: 共出现 %d 天，占总天数的 %.1f%%\n",
			i+1, env.Days, float64(env.Days)*100/float64(len(c.Dates)))
	}
	b.WriteString("\n")
}

func writePump(b *strings.Builder, p *habits.PumpPlan) {
	b.WriteString("## 7. 增压泵控制建议\n\n")
	if p == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}
	b.WriteString("### 7.1 运行时间建议\n")
	if len(p.RunningHours) == 0 {
		b.WriteString("- 未识别出高峰时段，暂无定时启停建议\n")
	} else {
		fmt.Fprintf(b, "- **建议运行时段**: %s时\n", joinHours(p.RunningHours))
		fmt.Fprintf(b, "- **建议关闭时段**: %s时\n", joinHours(p.OffHours))
	}
	fmt.Fprintf(b, "- **每日运行时间**: %d 小时\n", p.DailyRunningTime)
	fmt.Fprintf(b, "- **节能比例**: %.1f%%\n\n", p.EnergySavingRatio*100)
	b.WriteString("### 7.2 控制策略建议\n")
	b.WriteString("1. **时间控制**: 根据用水高峰期自动启停增压泵\n")
	b.WriteString("2. **压力控制**: 实时监测管网压力，低于设定值时启动\n")
	b.WriteString("3. **变频调速**: 根据用水量需求调节泵转速\n")
	b.WriteString("4. **智能预测**: 结合用水量预测提前调整运行状态\n\n")
}

func writeFindings(b *strings.Builder, res *habits.Results) {
	b.WriteString("## 8. 主要发现与结论\n\n")
	if res.Hourly != nil && len(res.Hourly.Peaks) > 0 {
		fmt.Fprintf(b, "1. **用水高峰集中**: 用水主要集中在 %s 时段\n", joinHours(res.Hourly.Peaks))
	} else {
		b.WriteString("1. **用水高峰**: 未发现明显的集中高峰时段\n")
	}
	if res.Weekly != nil {
		fmt.Fprintf(b, "2. **工作日周末差异**: 工作日与周末用水模式存在%s差异\n", significance(res.Weekly.Significant))
	} else {
		b.WriteString("2. **工作日周末差异**: " + unavailable + "\n")
	}
	b.WriteString("3. **楼栋差异明显**: 不同楼栋的用水习惯存在差异\n")
	b.WriteString("4. **节能潜力**: 通过智能控制可实现显著节能效果\n")
	if len(res.StageErrs) > 0 {
		stages := make([]string, 0, len(res.StageErrs))
		for s := range res.StageErrs {
			stages = append(stages, s)
		}
		sort.Strings(stages)
		b.WriteString("\n以下分析阶段未能完成：\n")
		for _, stage := range stages {
			fmt.Fprintf(b, "- %s: %v\n", stage, res.StageErrs[stage])
		}
	}
}

func significance(sig bool) string {
	if sig {
		return "显著"
	}
	return "不显著"
}

func joinHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%d", h)
	}
	return strings.Join(parts, ", ")
}

// Package extract turns raw water-meter workbook exports into the
// per-building CSV series consumed by the analysis pipeline. The workbooks
// mix three row kinds per sheet: a date header (which also names the
// building columns), 合计 summary rows, and HH:MM-HH:MM data rows.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoData is returned when a whole workbook yields no parseable rows.
var ErrNoData = errors.New("no data rows extracted from workbook")

var (
	headerRe  = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})\(星期([一二三四五六日1234567])`)
	dataRowRe = regexp.MustCompile(`^(\d{2}):\d{2}-\d{2}:\d{2}`)
)

// usageOffsets is the ordered fallback search for the usage reading relative
// to a building's header column. Column alignment between monetary and
// volumetric readings drifts across sheet layouts, so the first offset whose
// cell parses to a non-zero float wins; when the header column itself is
// empty, the column to its left is read as the monetary amount.
var usageOffsets = []int{0, 1, 2}

var weekdayMap = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "日": 7,
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
}

// headerContext carries the date and building-column mapping established by
// the most recent header row. It is replaced wholesale on every header row
// (an explicit fold, not shared mutable state) and is nil before the first
// header row of a sheet.
type headerContext struct {
	date    time.Time
	weekday int
	columns []buildingColumn
}

type buildingColumn struct {
	index    int
	building string
}

// Row is one raw extracted reading before lag features are attached.
type Row struct {
	Building string
	Date     time.Time
	Weekday  int
	Hour     int
	Amount   float64
	Usage    float64
}

// Observation is a Row with its 24h/168h lag features. It is the unit
// persisted to the boundary artifact.
type Observation struct {
	Row
	PrevDayUsage  float64
	PrevWeekUsage float64
}

// Extractor parses workbooks into per-building hourly observations.
type Extractor struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

// ExtractFile opens a workbook and extracts all sheets. It fails only when
// the workbook cannot be opened or produces zero rows; individual malformed
// rows are logged and skipped.
func (e *Extractor) ExtractFile(path string) ([]Observation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var all []Row
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			e.log.Warn("skipping unreadable sheet", "sheet", sheet, "error", err)
			continue
		}
		got := e.extractSheet(sheet, rows)
		e.log.Info("sheet processed", "sheet", sheet, "rows", len(got))
		all = append(all, got...)
	}
	if len(all) == 0 {
		return nil, ErrNoData
	}
	return withLagFeatures(all), nil
}

// extractSheet folds a headerContext over the sheet's rows.
func (e *Extractor) extractSheet(sheet string, rows [][]string) []Row {
	var out []Row
	var ctx *headerContext
	for i, cells := range rows {
		if len(cells) == 0 {
			continue
		}
		first := strings.TrimSpace(cells[0])
		switch {
		case headerRe.MatchString(first):
			next, err := parseHeaderRow(first, cells)
			if err != nil {
				e.log.Warn("bad header row", "sheet", sheet, "row", i, "error", err)
				continue
			}
			ctx = next
			if len(ctx.columns) == 0 {
				e.log.Warn("header row names no buildings", "sheet", sheet, "row", i,
					"date", ctx.date.Format("2006-01-02"))
			}
		case strings.Contains(first, "合计"):
			// summary row
		case dataRowRe.MatchString(first):
			if ctx == nil || len(ctx.columns) == 0 {
				e.log.Warn("data row before header context, skipped", "sheet", sheet, "row", i)
				continue
			}
			parsed, err := parseDataRow(first, cells, ctx)
			if err != nil {
				e.log.Warn("bad data row, skipped", "sheet", sheet, "row", i, "error", err)
				continue
			}
			out = append(out, parsed...)
		}
	}
	return out
}

func parseHeaderRow(first string, cells []string) (*headerContext, error) {
	m := headerRe.FindStringSubmatch(first)
	if m == nil {
		return nil, errors.New("header pattern mismatch")
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	wd, ok := weekdayMap[m[4]]
	if !ok {
		return nil, fmt.Errorf("unknown weekday marker %q", m[4])
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Year() != year || int(date.Month()) != month {
		return nil, fmt.Errorf("invalid date %s", m[0])
	}
	return &headerContext{date: date, weekday: wd, columns: scanBuildingColumns(cells)}, nil
}

func parseDataRow(first string, cells []string, ctx *headerContext) ([]Row, error) {
	hour, err := strconv.Atoi(dataRowRe.FindStringSubmatch(first)[1])
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("bad hour in %q", first)
	}
	out := make([]Row, 0, len(ctx.columns))
	for _, bc := range ctx.columns {
		amount, usage := readUsage(cells, bc.index, bc.building)
		out = append(out, Row{
			Building: bc.building,
			Date:     ctx.date,
			Weekday:  ctx.weekday,
			Hour:     hour,
			Amount:   round3(amount),
			Usage:    round3(usage),
		})
	}
	return out, nil
}

// readUsage walks usageOffsets for the first non-zero parseable value. When
// the mapped column itself has nothing, the column to its left is taken as
// the monetary amount.
func readUsage(cells []string, col int, building string) (amount, usage float64) {
	for _, off := range usageOffsets {
		usage = cellFloat(cells, col+off, building)
		if usage != 0 {
			if off != 0 && col > 0 {
				amount = cellFloat(cells, col-1, building)
			}
			return amount, usage
		}
	}
	if col > 0 {
		amount = cellFloat(cells, col-1, building)
	}
	return amount, 0
}

func cellFloat(cells []string, idx int, building string) float64 {
	if idx < 0 || idx >= len(cells) {
		return 0
	}
	s := strings.TrimSpace(cells[idx])
	if s == "" || s == building {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// withLagFeatures sorts each building group by (date, hour) and attaches the
// 24-row and 168-row lagged usage. Missing lags default to the row's own
// usage rather than zero, to avoid spurious spikes at series boundaries.
func withLagFeatures(rows []Row) []Observation {
	groups := map[string][]Row{}
	var order []string
	for _, r := range rows {
		if _, ok := groups[r.Building]; !ok {
			order = append(order, r.Building)
		}
		groups[r.Building] = append(groups[r.Building], r)
	}
	sort.Strings(order)

	var out []Observation
	for _, b := range order {
		g := groups[b]
		sort.SliceStable(g, func(i, j int) bool {
			if !g[i].Date.Equal(g[j].Date) {
				return g[i].Date.Before(g[j].Date)
			}
			return g[i].Hour < g[j].Hour
		})
		for i, r := range g {
			obs := Observation{Row: r, PrevDayUsage: r.Usage, PrevWeekUsage: r.Usage}
			if i >= 24 {
				obs.PrevDayUsage = g[i-24].Usage
			}
			if i >= 24*7 {
				obs.PrevWeekUsage = g[i-24*7].Usage
			}
			out = append(out, obs)
		}
	}
	return out
}

func round3(v float64) float64 {
	return float64(int64(v*1000+copysignHalf(v))) / 1000
}

func copysignHalf(v float64) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

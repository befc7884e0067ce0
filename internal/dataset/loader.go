package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Column layout of the per-building boundary artifact written by the
// extractor. Header names are checked loosely: files produced by older
// exports use 水流量 instead of 用水量 for the usage column.
const (
	colDate = iota
	colWeekday
	colHour
	colUsage
	colPrevDay
	colPrevWeek
)

// nameSuffixes are stripped from a file base name to obtain the building
// identity.
var nameSuffixes = []string{"_水流量数据", "_analysis", "_data"}

// BuildingName derives the building identity from a file path.
func BuildingName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, s := range nameSuffixes {
		name = strings.TrimSuffix(name, s)
	}
	return name
}

// Load reads the given per-building CSV files and unions them into one
// Combined table. Unreadable files are logged and skipped; Load only fails
// when it cannot produce a table at all (the caller treats an empty table as
// a degraded, not fatal, outcome).
func Load(paths []string, log *slog.Logger) (*Combined, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Combined{}
	seen := map[string]bool{}
	for _, p := range paths {
		building := BuildingName(p)
		rows, err := loadFile(p, building)
		if err != nil {
			log.Warn("skipping unreadable data file", "path", p, "error", err)
			continue
		}
		if !seen[building] {
			seen[building] = true
			c.Buildings = append(c.Buildings, building)
		}
		logFileSummary(log, building, rows)
		c.Rows = append(c.Rows, rows...)
	}
	return c, nil
}

func loadFile(path, building string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}

	var out []Observation
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		obs, err := parseRecord(rec, building)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, obs)
	}
	if len(out) == 0 {
		return nil, errors.New("no data rows")
	}
	return out, nil
}

func parseRecord(rec []string, building string) (Observation, error) {
	var o Observation
	if len(rec) < 4 {
		return o, fmt.Errorf("short record (%d fields)", len(rec))
	}
	date, err := ParseDate(strings.TrimSpace(rec[colDate]))
	if err != nil {
		return o, err
	}
	weekday, err := strconv.Atoi(strings.TrimSpace(rec[colWeekday]))
	if err != nil || weekday < 1 || weekday > 7 {
		return o, fmt.Errorf("bad weekday %q", rec[colWeekday])
	}
	hour, err := strconv.Atoi(strings.TrimSpace(rec[colHour]))
	if err != nil || hour < 0 || hour > 23 {
		return o, fmt.Errorf("bad hour %q", rec[colHour])
	}
	usage, err := strconv.ParseFloat(strings.TrimSpace(rec[colUsage]), 64)
	if err != nil {
		return o, fmt.Errorf("bad usage %q", rec[colUsage])
	}
	prevDay, prevWeek := usage, usage
	if len(rec) > colPrevDay {
		if v, err := strconv.ParseFloat(strings.TrimSpace(rec[colPrevDay]), 64); err == nil {
			prevDay = v
		}
	}
	if len(rec) > colPrevWeek {
		if v, err := strconv.ParseFloat(strings.TrimSpace(rec[colPrevWeek]), 64); err == nil {
			prevWeek = v
		}
	}

	o = Observation{
		Building:      building,
		Date:          date,
		Weekday:       weekday,
		Hour:          hour,
		Usage:         usage,
		PrevDayUsage:  prevDay,
		PrevWeekUsage: prevWeek,
		Timestamp:     date.Add(time.Duration(hour) * time.Hour),
		Month:         int(date.Month()),
		Day:           date.Day(),
		IsWeekend:     weekday == 6 || weekday == 7,
		Period:        PeriodOf(hour),
	}
	return o, nil
}

// ParseDate accepts the 8-digit YYYYMMDD form used by the boundary artifact.
func ParseDate(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("bad date %q", s)
	}
	t, err := time.ParseInLocation("20060102", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

func logFileSummary(log *slog.Logger, building string, rows []Observation) {
	var sum, max float64
	zeros := 0
	minDate, maxDate := rows[0].Date, rows[0].Date
	for _, r := range rows {
		sum += r.Usage
		if r.Usage > max {
			max = r.Usage
		}
		if r.Usage == 0 {
			zeros++
		}
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	log.Info("loaded building data",
		"building", building,
		"records", len(rows),
		"from", minDate.Format("2006-01-02"),
		"to", maxDate.Format("2006-01-02"),
		"mean_usage", fmt.Sprintf("%.3f", sum/float64(len(rows))),
		"max_usage", fmt.Sprintf("%.3f", max),
		"zero_ratio", fmt.Sprintf("%.1f%%", float64(zeros)*100/float64(len(rows))),
	)
}

package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// csvHeader is the boundary-artifact column contract shared with the loader.
var csvHeader = []string{"date", "weekday", "hour", "usage", "prev_day_usage", "prev_week_usage"}

// WriteCSVs partitions observations by building and writes one CSV per
// building into dir. It returns the written paths in building order.
func WriteCSVs(obs []Observation, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output dir: %w", err)
	}
	groups := map[string][]Observation{}
	for _, o := range obs {
		groups[o.Building] = append(groups[o.Building], o)
	}
	buildings := make([]string, 0, len(groups))
	for b := range groups {
		buildings = append(buildings, b)
	}
	sort.Strings(buildings)

	var paths []string
	for _, b := range buildings {
		path := filepath.Join(dir, b+".csv")
		if err := writeBuilding(path, groups[b]); err != nil {
			return nil, fmt.Errorf("write %s: %w", b, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeBuilding(path string, obs []Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range obs {
		rec := []string{
			o.Date.Format("20060102"),
			strconv.Itoa(o.Weekday),
			strconv.Itoa(o.Hour),
			strconv.FormatFloat(o.Usage, 'f', 3, 64),
			strconv.FormatFloat(o.PrevDayUsage, 'f', 3, 64),
			strconv.FormatFloat(o.PrevWeekUsage, 'f', 3, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

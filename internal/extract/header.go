package extract

import (
	"regexp"
	"strings"
)

var (
	numberedBuildingRe = regexp.MustCompile(`\d+栋`)
	offCampusRe        = regexp.MustCompile(`校外\d+`)
)

// scanBuildingColumns finds the building-identifying cells of a header row
// and returns the column→building mapping in column order.
//
// Two passes: a strict pass accepting cells that already carry the 栋 or
// 校外 marker text, then, only when the strict pass finds nothing, a lenient
// pass accepting any cell matching digits+marker (spreadsheet auto-conversion
// strips the text from numeric-typed cells). The lenient pass never runs when
// the strict pass matched, so the two passes cannot produce a mixed column
// set; which pass *should* win on sheets where both would match different
// columns is undefined upstream and deliberately not guessed at here.
func scanBuildingColumns(cells []string) []buildingColumn {
	var cols []buildingColumn
	for i, raw := range cells {
		cell := strings.TrimSpace(raw)
		if cell == "" || strings.HasPrefix(cell, "合计") {
			continue
		}
		switch {
		case strings.Contains(cell, "栋"):
			if looksNumeric(cell) {
				if m := numberedBuildingRe.FindString(cell); m != "" {
					cols = append(cols, buildingColumn{index: i, building: "校内" + m})
				}
			} else {
				cols = append(cols, buildingColumn{index: i, building: cell})
			}
		case strings.Contains(cell, "校外"):
			if m := offCampusRe.FindString(cell); m != "" && looksNumeric(cell) {
				cols = append(cols, buildingColumn{index: i, building: m})
			} else {
				cols = append(cols, buildingColumn{index: i, building: cell})
			}
		}
	}
	if len(cols) > 0 {
		return cols
	}
	// Lenient pass: accept bare digits+marker patterns.
	for i, raw := range cells {
		cell := strings.TrimSpace(raw)
		if cell == "" {
			continue
		}
		if m := numberedBuildingRe.FindString(cell); m != "" {
			name := cell
			if looksNumeric(cell) {
				name = "校内" + m
			}
			cols = append(cols, buildingColumn{index: i, building: name})
		} else if m := offCampusRe.FindString(cell); m != "" {
			cols = append(cols, buildingColumn{index: i, building: m})
		}
	}
	return cols
}

// looksNumeric reports whether the cell body is digits once the marker
// tokens are removed, i.e. it was probably numeric-typed before the
// spreadsheet stringified it.
func looksNumeric(cell string) bool {
	s := strings.NewReplacer("栋", "", "校外", "", ".", "", "-", "").Replace(cell)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package pipeline orchestrates one analysis run: load the per-building
// CSVs, run every analysis stage, render the report and the charts, and
// write all artifacts under a fresh run directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/charts"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/dataset"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/habits"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/report"
)

// AnalysisKind enumerates the analysis stages in execution order.
type AnalysisKind int

const (
	KindHourly AnalysisKind = iota
	KindWeekly
	KindPeriod
	KindBuilding
	KindCluster
	KindPump
)

var kindNames = map[AnalysisKind]string{
	KindHourly:   "hourly",
	KindWeekly:   "weekly",
	KindPeriod:   "period",
	KindBuilding: "building",
	KindCluster:  "cluster",
	KindPump:     "pump",
}

func (k AnalysisKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("AnalysisKind(%d)", int(k))
}

// Stages lists every stage in the order the pipeline runs them.
var Stages = []AnalysisKind{KindHourly, KindWeekly, KindPeriod, KindBuilding, KindCluster, KindPump}

// Options configures one run.
type Options struct {
	// OutputDir is the parent under which the run directory is created.
	OutputDir string
	Style     charts.Style
	Log       *slog.Logger
}

// ChartArtifact is one rendered PNG, already written to Path.
type ChartArtifact struct {
	Name string
	Path string
	PNG  []byte
}

// Result describes a finished run.
type Result struct {
	RunID      string
	Dir        string
	Report     string
	ReportPath string
	Charts     []ChartArtifact
	// Degraded is set when no usable data was loaded; the run still
	// produced a (minimal) report but no charts.
	Degraded bool
}

// Run executes the full analysis over the given per-building CSV paths.
// Stage failures degrade the report instead of aborting the run; only
// artifact I/O and a fully empty dataset short of a report are fatal.
func Run(ctx context.Context, csvPaths []string, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	combined, err := dataset.Load(csvPaths, log)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	res := habits.NewResults()
	if combined.Empty() {
		log.Warn("no usable observations loaded, producing degraded report")
	} else {
		for _, kind := range Stages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runStage(kind, combined, res, log)
		}
	}

	runID := uuid.NewString()
	dir := filepath.Join(opts.OutputDir, "run-"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir run dir: %w", err)
	}

	md := report.Generate(combined, res, time.Now())
	reportPath := filepath.Join(dir, "analysis_report.md")
	if err := os.WriteFile(reportPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	log.Info("report written", "path", reportPath)

	out := &Result{
		RunID:      runID,
		Dir:        dir,
		Report:     md,
		ReportPath: reportPath,
		Degraded:   combined.Empty(),
	}
	if combined.Empty() {
		return out, nil
	}

	arts, err := renderCharts(res, dir, opts.Style, log)
	if err != nil {
		return nil, err
	}
	out.Charts = arts
	return out, nil
}

// runStage dispatches one stage. A failing stage records its error for the
// report and logs a warning; later stages still run.
func runStage(kind AnalysisKind, c *dataset.Combined, res *habits.Results, log *slog.Logger) {
	var err error
	switch kind {
	case KindHourly:
		res.Hourly, err = habits.AnalyzeHourly(c)
	case KindWeekly:
		res.Weekly, err = habits.AnalyzeWeekly(c)
	case KindPeriod:
		res.Period, err = habits.AnalyzePeriods(c)
	case KindBuilding:
		res.Building, err = habits.AnalyzeBuildings(c)
	case KindCluster:
		res.Cluster, err = habits.AnalyzeClusters(c)
	case KindPump:
		res.Pump = habits.DerivePumpPlan(res.Hourly)
	default:
		err = fmt.Errorf("unknown stage %v", kind)
	}
	if err != nil {
		log.Warn("analysis stage failed", "stage", kind.String(), "error", err)
		res.StageErrs[kind.String()] = err
	}
}

// renderCharts produces one PNG per chart-bearing stage. A render failure is
// replaced with a placeholder image so the artifact count stays fixed.
func renderCharts(res *habits.Results, dir string, style charts.Style, log *slog.Logger) ([]ChartArtifact, error) {
	r, err := charts.NewRenderer(style)
	if err != nil {
		return nil, fmt.Errorf("chart renderer: %w", err)
	}

	specs := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"hourly_pattern.png", func() ([]byte, error) {
			if res.Hourly == nil {
				return nil, fmt.Errorf("hourly analysis unavailable")
			}
			return r.Hourly(res.Hourly, res.Building)
		}},
		{"weekly_pattern.png", func() ([]byte, error) {
			if res.Weekly == nil {
				return nil, fmt.Errorf("weekly analysis unavailable")
			}
			return r.Weekly(res.Weekly)
		}},
		{"period_pattern.png", func() ([]byte, error) {
			if res.Period == nil {
				return nil, fmt.Errorf("period analysis unavailable")
			}
			return r.Periods(res.Period)
		}},
		{"building_comparison.png", func() ([]byte, error) {
			if res.Building == nil {
				return nil, fmt.Errorf("building analysis unavailable")
			}
			return r.Buildings(res.Building)
		}},
		{"clustering_analysis.png", func() ([]byte, error) {
			if res.Cluster == nil {
				return nil, fmt.Errorf("cluster analysis unavailable")
			}
			return r.Clusters(res.Cluster)
		}},
	}

	arts := make([]ChartArtifact, 0, len(specs))
	for _, s := range specs {
		png, renderErr := s.render()
		if renderErr != nil {
			log.Warn("chart render failed, writing placeholder", "chart", s.name, "error", renderErr)
			png = r.Placeholder(s.name, renderErr)
		}
		path := filepath.Join(dir, s.name)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return nil, fmt.Errorf("write chart %s: %w", s.name, err)
		}
		arts = append(arts, ChartArtifact{Name: s.name, Path: path, PNG: png})
	}
	return arts, nil
}

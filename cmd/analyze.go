package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/charts"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/pipeline"
)

var anaDataDir string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [building.csv...]",
	Short: "Analyze per-building hourly CSVs and produce a report and charts",
	Long: `Analyze loads the per-building hourly CSVs produced by extract, runs the
habit analyses (hourly peaks, weekday/weekend comparison, periods of day,
building differences, day-shape clustering, pump schedule) and writes a
markdown report plus one chart per analysis into a fresh run directory.

With no arguments it scans the configured data directory for *.csv files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			dir := cfg.DataDir
			if anaDataDir != "" {
				dir = anaDataDir
			}
			found, err := filepath.Glob(filepath.Join(dir, "*.csv"))
			if err != nil {
				return fmt.Errorf("scan data dir: %w", err)
			}
			if len(found) == 0 {
				return fmt.Errorf("no CSV files found in %s", dir)
			}
			sort.Strings(found)
			paths = found
		}

		style := charts.DefaultStyle()
		style.Width = vg.Length(cfg.ChartWidthIn) * vg.Inch
		style.Height = vg.Length(cfg.ChartHeightIn) * vg.Inch
		style.DPI = cfg.ChartDPI
		if cfg.ChartFont != "" {
			style.FontPath = cfg.ChartFont
			style.Typeface = "Report"
		}

		res, err := pipeline.Run(cmd.Context(), paths, pipeline.Options{
			OutputDir: cfg.OutputDir,
			Style:     style,
			Log:       logger,
		})
		if err != nil {
			return err
		}
		if res.Degraded {
			fmt.Printf("⚠ No usable data loaded; degraded report at %s\n", res.ReportPath)
			return nil
		}
		fmt.Printf("✓ Report: %s\n", res.ReportPath)
		for _, a := range res.Charts {
			fmt.Printf("✓ Chart:  %s\n", a.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaDataDir, "data-dir", "", "directory to scan for per-building CSVs (overrides config)")
}

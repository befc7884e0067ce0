package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Aiting-for-you/hot-water-analysis-system/internal/config"
	"github.com/Aiting-for-you/hot-water-analysis-system/internal/logging"
)

var (
	// Global flags (wired to config at init time)
	cfgFile string
	debug   bool
	// Output/chart flags (override config if set)
	flagOutputDir string
	flagChartDPI  int
	flagChartFont string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process-wide logger, built from config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "waterhabit",
	Short: "waterhabit: campus hot-water usage extraction and habit analysis",
	Long:  `waterhabit extracts per-building hourly usage from raw flow-meter workbook exports and analyzes the combined dataset for usage habits, producing a markdown report and charts.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.waterhabit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output", "o", "", "output directory for artifacts (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagChartDPI, "chart-dpi", 0, "chart DPI (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagChartFont, "chart-font", "", "TTF font file for chart labels (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands can still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{OutputDir: "analysis_results", ChartWidthIn: 12, ChartHeightIn: 8, ChartDPI: 200, LogLevel: "info"}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("output") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if f.Changed("chart-dpi") && flagChartDPI > 0 {
		cfg.ChartDPI = flagChartDPI
	}
	if f.Changed("chart-font") && flagChartFont != "" {
		cfg.ChartFont = flagChartFont
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	logger, logCloser, err = logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to set up logging: %v\n", err)
		logger = slog.Default()
	}
}

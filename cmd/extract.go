package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aiting-for-you/hot-water-analysis-system/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <workbook.xlsx> [more.xlsx...]",
	Short: "Extract per-building hourly CSVs from raw flow-meter workbooks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := extract.New(logger)
		var all []extract.Observation
		for _, path := range args {
			obs, err := ex.ExtractFile(path)
			if err != nil {
				if errors.Is(err, extract.ErrNoData) {
					logger.Warn("workbook yielded no data", "path", path)
					continue
				}
				return fmt.Errorf("extract %s: %w", path, err)
			}
			all = append(all, obs...)
		}
		if len(all) == 0 {
			return extract.ErrNoData
		}
		paths, err := extract.WriteCSVs(all, cfg.OutputDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("✓ Wrote %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

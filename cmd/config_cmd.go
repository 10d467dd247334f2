package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	source := "defaults (no config file)"
	if config.Exists() {
		source = config.Path()
	}

	limit := "all"
	if cfg.Ranking.Limit > 0 {
		limit = strconv.Itoa(cfg.Ranking.Limit)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("OUTFIT CONFIG"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Loaded from " + source,
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"general.db_path", dbPath()},
			{"---"},
			{"ranking.mode", cfg.Ranking.Mode},
			{"ranking.limit", limit},
			{"ranking.verbose", strconv.FormatBool(cfg.Ranking.Verbose)},
			{"---"},
			{"compare.chart", cfg.Compare.Chart},
			{"compare.numeric_sort", strconv.FormatBool(cfg.Compare.NumericSort)},
			{"compare.headless_dir", orDash(cfg.Compare.HeadlessDir)},
			{"---"},
			{"appearance.theme", cfg.Appearance.Theme},
			{"log.level", cfg.Log.Level},
			{"log.file", orDash(cfg.Log.File)},
		},
	}))
	fmt.Println()
	fmt.Println("  Run `outfit setup` to reconfigure.")
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package cmd

import (
	"fmt"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/tracker"

	"github.com/spf13/cobra"
)

var (
	flagBestMode    string
	flagBestScore   string
	flagBestLimit   int
	flagBestVerbose bool
)

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Rank experiments by a score",
	Example: `  outfit best --score acc --mode max -n 5
  outfit best --score loss --mode min --verbose`,
	RunE: runBest,
}

func init() {
	f := bestCmd.Flags()
	f.StringVar(&flagBestMode, "mode", "", "Ranking mode: min or max (default from config)")
	f.StringVar(&flagBestScore, "score", "", "Score type to rank by (required)")
	f.IntVarP(&flagBestLimit, "limit", "n", 0, "Number of experiments, 0 for all (default from config)")
	f.BoolVar(&flagBestVerbose, "verbose", false, "Print the full record of every ranked experiment")
	_ = bestCmd.MarkFlagRequired("score")
	rootCmd.AddCommand(bestCmd)
}

func runBest(cmd *cobra.Command, _ []string) error {
	mode := cfg.Ranking.Mode
	if flagBestMode != "" {
		mode = flagBestMode
	}
	order, err := tracker.ParseOrder(mode)
	if err != nil {
		return err
	}
	limit := cfg.Ranking.Limit
	if cmd.Flags().Changed("limit") {
		limit = flagBestLimit
	}
	verbose := cfg.Ranking.Verbose || flagBestVerbose

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var report tracker.Reporter
	if verbose {
		report = func(rec model.Record) error {
			_, err := fmt.Println(cli.RenderRecord(rec.Rank, rec))
			return err
		}
	}

	seq, err := tracker.NewRanker(s).BestScores(commandContext(cmd), order, flagBestScore, limit, report)
	if err != nil {
		return err
	}

	var rows [][]string
	for rec, err := range seq {
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.Rank),
			rec.Experiment.Name,
			fmt.Sprintf("%d", rec.Experiment.ID),
			cli.FormatDate(rec.Experiment.Date),
			cli.FormatScore(rec.Value),
		})
	}

	if len(rows) == 0 {
		fmt.Printf("\n  No experiments have a %q score.\n", flagBestScore)
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Best %s (%s)", flagBestScore, order),
		Headers: []string{"Rank", "Name", "ID", "Date", flagBestScore},
		Rows:    rows,
	}))
	return nil
}

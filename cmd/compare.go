package cmd

import (
	"fmt"

	"github.com/theirongolddev/outfit/internal/plot"
	"github.com/theirongolddev/outfit/internal/tracker"

	"github.com/spf13/cobra"
)

var (
	flagCmpVary     string
	flagCmpScore    string
	flagCmpKind     string
	flagCmpHeadless string
	flagCmpNumeric  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Plot a score against one parameter, one chart per cohort",
	Long: `Groups experiments into cohorts that share every parameter except --vary,
and plots --score against the varying parameter for each cohort with at
least two distinct values.`,
	Example: `  outfit compare --vary lr --score acc
  outfit compare --vary depth --score loss --kind line --headless ./plots`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&flagCmpVary, "vary", "", "Parameter that varies within a cohort (required)")
	f.StringVar(&flagCmpScore, "score", "", "Score type to plot (required)")
	f.StringVar(&flagCmpKind, "kind", "", "Chart kind: bar or line (default from config)")
	f.StringVar(&flagCmpHeadless, "headless", "", "Write charts as text files into DIR instead of printing")
	f.BoolVar(&flagCmpNumeric, "numeric-sort", false, "Order x values numerically when all parse as numbers")
	_ = compareCmd.MarkFlagRequired("vary")
	_ = compareCmd.MarkFlagRequired("score")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	kindName := cfg.Compare.Chart
	if flagCmpKind != "" {
		kindName = flagCmpKind
	}
	kind, err := plot.ParseKind(kindName)
	if err != nil {
		return err
	}

	opts := plot.Options{Kind: kind, Mode: plot.Show}
	dir := cfg.Compare.HeadlessDir
	if flagCmpHeadless != "" {
		dir = flagCmpHeadless
	}
	if dir != "" {
		opts.Mode = plot.Headless
		opts.Dir = dir
	}
	p, err := plot.NewTerminal(opts)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sum := tracker.SummaryOptions{NumericSort: cfg.Compare.NumericSort || flagCmpNumeric}
	n, err := tracker.Compare(commandContext(cmd), tracker.NewCohortBuilder(s), flagCmpVary, flagCmpScore, sum, p)
	if err != nil {
		return err
	}

	switch {
	case n == 0:
		fmt.Printf("\n  No cohort has two or more values of %q with a %q score.\n", flagCmpVary, flagCmpScore)
	case opts.Mode == plot.Headless:
		status("Wrote %d charts to %s", n, dir)
		for _, f := range p.Files() {
			fmt.Println(f)
		}
	default:
		status("Plotted %d cohorts", n)
	}
	return nil
}

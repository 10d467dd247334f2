package cmd

import (
	"fmt"

	"github.com/theirongolddev/outfit/internal/cli"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded experiments",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	exps, err := s.Experiments(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(exps) == 0 {
		fmt.Println("\n  No experiments recorded yet.")
		fmt.Println("  Use `outfit record` to add one.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderExperiments(exps))
	return nil
}

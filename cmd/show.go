package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/tracker"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one experiment with its parameters, outputs and scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q", args[0])
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := tracker.NewRanker(s).Record(commandContext(cmd), id)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderRecord(0, rec))
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagImportForce     bool
	flagImportNoTracker bool
)

var importCmd = &cobra.Command{
	Use:   "import PATH...",
	Short: "Import experiments from JSONL logs",
	Long: `Reads every *.jsonl file under each PATH, one experiment per line:

  {"name":"resnet","date":"2024-03-01","parameters":{"lr":0.1},"outputs":{"model":"/runs/r.pt"},"scores":{"acc":0.91}}

Files already imported are skipped unless they changed. A file that grew
resumes after the entries imported before.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Re-import files even if unchanged")
	importCmd.Flags().BoolVar(&flagImportNoTracker, "no-tracker", false, "Do not remember imported files")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var ledger pipeline.Ledger = s
	if flagImportNoTracker {
		ledger = nil
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	total := 0
	for _, root := range args {
		res, err := pipeline.Import(commandContext(cmd), root, s, ledger, pipeline.Options{
			Force:    flagImportForce,
			Progress: progressFn,
		})
		if res != nil && res.TotalFiles > res.Unchanged && !flagQuiet {
			fmt.Fprintln(os.Stderr)
		}
		if err != nil {
			return err
		}
		total += res.Imported
		status("%s: %s experiments from %d files (%d unchanged, %d unreadable, %d bad lines)",
			root, cli.FormatNumber(int64(res.Imported)), res.ParsedFiles,
			res.Unchanged, res.FileErrors, res.ParseErrors)
	}

	fmt.Printf("  Imported %s experiments\n", cli.FormatNumber(int64(total)))
	return nil
}

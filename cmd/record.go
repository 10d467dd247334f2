package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/tracker"

	"github.com/spf13/cobra"
)

var (
	flagRecName    string
	flagRecComment string
	flagRecDate    string
	flagRecParams  []string
	flagRecOutputs []string
	flagRecScores  []string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one experiment with its parameters, outputs and scores",
	Example: `  outfit record --name resnet --param lr=0.1 --param depth=18 \
    --output model=/runs/resnet.pt --score acc=0.91 --score loss=0.32`,
	RunE: runRecord,
}

func init() {
	f := recordCmd.Flags()
	f.StringVar(&flagRecName, "name", "", "Experiment name (required)")
	f.StringVar(&flagRecComment, "comment", "", "Free-form comment")
	f.StringVar(&flagRecDate, "date", "", "Experiment date, YYYY-MM-DD")
	f.StringArrayVar(&flagRecParams, "param", nil, "Parameter NAME=VALUE (repeatable)")
	f.StringArrayVar(&flagRecOutputs, "output", nil, "Output TYPE=PATH (repeatable)")
	f.StringArrayVar(&flagRecScores, "score", nil, "Score TYPE=NUMBER (repeatable)")
	_ = recordCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, _ []string) error {
	var date time.Time
	if flagRecDate != "" {
		d, err := time.Parse("2006-01-02", flagRecDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", flagRecDate, err)
		}
		date = d
	}

	params, err := parsePairs("param", flagRecParams)
	if err != nil {
		return err
	}
	outputs, err := parsePairs("output", flagRecOutputs)
	if err != nil {
		return err
	}
	scorePairs, err := parsePairs("score", flagRecScores)
	if err != nil {
		return err
	}
	scores := make([]model.KV[float64], 0, len(scorePairs))
	for _, kv := range scorePairs {
		v, err := strconv.ParseFloat(kv.Value, 64)
		if err != nil {
			return fmt.Errorf("invalid --score %s=%s: not a number", kv.Key, kv.Value)
		}
		scores = append(scores, model.KV[float64]{Key: kv.Key, Value: v})
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rec := tracker.NewRecorder(s)
	if err := rec.Begin(flagRecName, flagRecComment, date); err != nil {
		return err
	}
	anyParams := make([]model.KV[any], len(params))
	for i, kv := range params {
		anyParams[i] = model.KV[any]{Key: kv.Key, Value: kv.Value}
	}
	if err := rec.AddParameters(anyParams); err != nil {
		return err
	}
	if err := rec.AddOutputs(outputs); err != nil {
		return err
	}
	if err := rec.AddScores(scores); err != nil {
		return err
	}

	id, err := rec.Commit(commandContext(cmd))
	if err != nil {
		return err
	}
	status("Recorded experiment %q (%d parameters, %d outputs, %d scores)",
		flagRecName, len(params), len(outputs), len(scores))
	fmt.Println(id)
	return nil
}

// parsePairs splits repeated KEY=VALUE flag values. Order is preserved.
func parsePairs(flag string, raw []string) ([]model.KV[string], error) {
	out := make([]model.KV[string], 0, len(raw))
	for _, r := range raw {
		k, v, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --%s %q: want KEY=VALUE", flag, r)
		}
		out = append(out, model.KV[string]{Key: strings.TrimSpace(k), Value: v})
	}
	return out, nil
}

package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/outfit/internal/config"
	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	DBPath      string
	Mode        string
	Chart       string
	NumericSort bool
	Theme       string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		DBPath:      cfg.General.DBPath,
		Mode:        cfg.Ranking.Mode,
		Chart:       cfg.Compare.Chart,
		NumericSort: cfg.Compare.NumericSort,
		Theme:       cfg.Appearance.Theme,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.DBPath = strings.TrimSpace(v.DBPath)
	cfg.Ranking.Mode = v.Mode
	cfg.Compare.Chart = v.Chart
	cfg.Compare.NumericSort = v.NumericSort
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the configuration wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to outfit").
				Description(fmt.Sprintf("Settings are saved to %s", config.Path())),
			huh.NewInput().
				Title("Database path").
				Description("Leave empty for " + config.DefaultDBPath()).
				Value(&vals.DBPath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default ranking").
				Options(
					huh.NewOption("max (higher score is better)", "max"),
					huh.NewOption("min (lower score is better)", "min"),
				).
				Value(&vals.Mode),
			huh.NewSelect[string]().
				Title("Chart kind").
				Options(
					huh.NewOption("bar", "bar"),
					huh.NewOption("line", "line"),
				).
				Value(&vals.Chart),
			huh.NewConfirm().
				Title("Sort numeric parameter values as numbers?").
				Value(&vals.NumericSort),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

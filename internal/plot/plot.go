// Package plot renders score-vs-parameter series as terminal charts, either
// on screen or into plain text files.
package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/tui/components"
	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Kind selects the chart type.
type Kind string

const (
	Bar  Kind = "bar"
	Line Kind = "line"
)

// Mode selects where charts go.
type Mode string

const (
	// Show writes styled charts to the output writer.
	Show Mode = "show"
	// Headless writes unstyled charts to one file per plot.
	Headless Mode = "headless"
)

const (
	defaultWidth  = 72
	defaultHeight = 12
)

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case Bar, Line:
		return k, nil
	}
	return "", fmt.Errorf("unknown chart kind %q (want bar or line)", s)
}

// Options configures a Terminal plotter.
type Options struct {
	Kind   Kind
	Mode   Mode
	Out    io.Writer // Show mode
	Dir    string    // Headless mode
	Width  int
	Height int
	// Renderer overrides the renderer used in Show mode, e.g. to share the
	// color profile of a running dashboard.
	Renderer *lipgloss.Renderer
}

// Terminal is a plotter drawing charts with lipgloss.
type Terminal struct {
	opts     Options
	renderer *lipgloss.Renderer
	files    []string
}

// NewTerminal validates opts and returns a plotter.
func NewTerminal(opts Options) (*Terminal, error) {
	if opts.Kind == "" {
		opts.Kind = Bar
	}
	if _, err := ParseKind(string(opts.Kind)); err != nil {
		return nil, err
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	p := &Terminal{opts: opts}
	switch opts.Mode {
	case Show, "":
		p.opts.Mode = Show
		if opts.Out == nil {
			p.opts.Out = os.Stdout
		}
		p.renderer = opts.Renderer
		if p.renderer == nil {
			p.renderer = lipgloss.NewRenderer(p.opts.Out)
		}
	case Headless:
		if opts.Dir == "" {
			return nil, fmt.Errorf("headless plotting needs an output directory")
		}
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating plot dir: %w", err)
		}
		p.renderer = lipgloss.NewRenderer(io.Discard)
		p.renderer.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("unknown plot mode %q (want show or headless)", opts.Mode)
	}
	return p, nil
}

// Plot renders one series under title.
func (p *Terminal) Plot(s model.Series, title string) error {
	chart := p.Render(s, title)

	if p.opts.Mode == Show {
		_, err := fmt.Fprintln(p.opts.Out, chart)
		return err
	}

	name := fmt.Sprintf("%02d-%s.txt", len(p.files)+1, slug(s.YLabel+" "+s.XLabel+" "+title))
	path := filepath.Join(p.opts.Dir, name)
	if err := os.WriteFile(path, []byte(chart), 0o600); err != nil {
		return fmt.Errorf("writing plot: %w", err)
	}
	p.files = append(p.files, path)
	return nil
}

// Render returns the chart text without writing it anywhere.
func (p *Terminal) Render(s model.Series, title string) string {
	t := theme.Active
	titleStyle := p.renderer.NewStyle().Foreground(t.Accent).Bold(true)
	axisStyle := p.renderer.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	for _, line := range strings.Split(title, "\n") {
		if line == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(titleStyle.Render(line))
		b.WriteString("\n")
	}
	if s.YLabel != "" || s.XLabel != "" {
		b.WriteString("  ")
		b.WriteString(axisStyle.Render(fmt.Sprintf("%s by %s", s.YLabel, s.XLabel)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch p.opts.Kind {
	case Line:
		b.WriteString(components.LineChart(p.renderer, s.Values(), s.Labels(), t.Blue, p.opts.Width, p.opts.Height))
	default:
		b.WriteString(components.BarChart(p.renderer, s.Values(), s.Labels(), t.Blue, p.opts.Width, p.opts.Height))
	}
	return b.String()
}

// Files returns the paths written in headless mode, in order.
func (p *Terminal) Files() []string {
	return p.files
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "cohort"
	}
	if len(out) > 80 {
		out = out[:80]
	}
	return out
}

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/outfit/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Errorf("Joined height = %d, want %d", got, tallLines)
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {80, 4}, {7, 2}, {10, 1}} {
		widths := LayoutRow(tc.total, tc.n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if len(widths) != tc.n || sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) = %v, want %d widths summing to %d", tc.total, tc.n, widths, tc.n, tc.total)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(10, 0) should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("terminal")
	defer theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Experiments", Value: "12"},
		{Label: "Scores", Value: "3", Hint: "acc, loss, f1"},
	}, 60)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line %d width = %d, want 60", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('c'); got != 1 {
		t.Fatalf("TabIdxByKey('c') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestMetricCardHighlight(t *testing.T) {
	theme.SetActive("flexoki-dark")

	m := Metric{Label: "Best", Value: "0.93"}
	plain := MetricCard(m, 20)
	m.Highlight = true
	if got := MetricCard(m, 20); got == plain {
		t.Fatal("highlighted card renders like a plain one")
	}
}

func TestStatusBarKeepsPathTail(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := RenderStatusBar(40, "q quit", "12 experiments", "/very/long/path/to/some/dir/outfit.db")
	if w := lipgloss.Width(out); w != 40 {
		t.Fatalf("width = %d, want 40", w)
	}
	if !strings.Contains(out, "…") || !strings.Contains(out, "outfit.db") {
		t.Fatalf("path not trimmed from the left: %q", out)
	}

	out = RenderStatusBar(80, "q quit", "", "outfit.db")
	if strings.Contains(out, "…") || strings.Contains(out, " · ") {
		t.Fatalf("short bar altered: %q", out)
	}
	if w := lipgloss.Width(out); w != 80 {
		t.Fatalf("width = %d, want 80", w)
	}
}

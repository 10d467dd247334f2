package plot

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/theirongolddev/outfit/internal/model"
)

func series() model.Series {
	return model.Series{
		XLabel: "lr",
		YLabel: "acc",
		Points: []model.Point{{Label: "lr_0.1", Value: 0.85}, {Label: "lr_0.2", Value: 0.7}},
	}
}

func TestShowWritesChart(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewTerminal(Options{Mode: Show, Out: &buf})
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	if err := p.Plot(series(), "depth=3, opt=sgd"); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"depth=3, opt=sgd", "acc by lr", "lr_0.1", "lr_0.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHeadlessWritesOneFilePerPlot(t *testing.T) {
	dir := t.TempDir()
	p, err := NewTerminal(Options{Mode: Headless, Dir: dir, Kind: Line})
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	for _, title := range []string{"depth=3", "depth=4"} {
		if err := p.Plot(series(), title); err != nil {
			t.Fatalf("Plot: %v", err)
		}
	}

	files := p.Files()
	if len(files) != 2 {
		t.Fatalf("files = %v, want 2", files)
	}
	if !strings.HasSuffix(files[0], "01-acc-lr-depth-3.txt") {
		t.Fatalf("first file = %s, want 01-acc-lr-depth-3.txt", files[0])
	}
	data, err := os.ReadFile(files[1])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if bytes.Contains(data, []byte("\x1b[")) {
		t.Fatal("headless plot contains ANSI escape codes")
	}
	if !bytes.Contains(data, []byte("depth=4")) || !bytes.Contains(data, []byte("●")) {
		t.Fatalf("headless plot content unexpected:\n%s", data)
	}
}

func TestOptionValidation(t *testing.T) {
	if _, err := NewTerminal(Options{Mode: Headless}); err == nil {
		t.Error("headless without dir accepted")
	}
	if _, err := NewTerminal(Options{Mode: "print"}); err == nil {
		t.Error("unknown mode accepted")
	}
	if _, err := NewTerminal(Options{Kind: "pie"}); err == nil {
		t.Error("unknown kind accepted")
	}
	if _, err := ParseKind("LINE"); err != nil {
		t.Errorf("ParseKind(LINE): %v", err)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"acc lr depth=3, opt=sgd", "acc-lr-depth-3-opt-sgd"},
		{"  ", "cohort"},
		{"lr_0.1", "lr_0.1"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

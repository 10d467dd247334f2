package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Ranking.Mode != "max" || cfg.Ranking.Limit != 10 {
		t.Fatalf("ranking = %+v, want max/10", cfg.Ranking)
	}
	if cfg.Compare.Chart != "bar" {
		t.Fatalf("chart = %q, want bar", cfg.Compare.Chart)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DBPath = "/data/runs.db"
	cfg.Ranking.Mode = "min"
	cfg.Compare.NumericSort = true
	cfg.Log.File = "/tmp/outfit.log"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ranking]\nlimit = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Ranking.Limit != 3 || cfg.Ranking.Mode != "max" || cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ranking\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile accepted malformed TOML")
	}
}

func TestDBPathPrecedence(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	t.Setenv("OUTFIT_DB", "")
	cfg := DefaultConfig()

	if got := DBPath(cfg); got != filepath.Join("/xdg", "outfit", "outfit.db") {
		t.Fatalf("default DBPath = %q", got)
	}
	cfg.General.DBPath = "/cfg.db"
	if got := DBPath(cfg); got != "/cfg.db" {
		t.Fatalf("config DBPath = %q, want /cfg.db", got)
	}
	t.Setenv("OUTFIT_DB", "/env.db")
	if got := DBPath(cfg); got != "/env.db" {
		t.Fatalf("env DBPath = %q, want /env.db", got)
	}
}

func TestDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/conf")
	if got := Path(); got != filepath.Join("/conf", "outfit", "config.toml") {
		t.Fatalf("Path = %q", got)
	}
}

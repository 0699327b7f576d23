package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"route", "graph", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,pdf,json", []string{"svg", "pdf", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "board.json", "board"},
		{"out.svg", "board.json", "out"},
		{"plots/board", "board.json", "plots/board"},
		{"out.tar", "board.json", "out.tar"}, // unknown extension kept
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"svg": []byte("<svg/>"),
		"dot": []byte("graph {}"),
	}

	input := filepath.Join(dir, "board.json")
	if err := writeArtifacts(artifacts, []string{"svg", "dot"}, input, ""); err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	for _, name := range []string{"board.svg", "board.dot"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	// A single format with an explicit output path goes to that exact path.
	out := filepath.Join(dir, "exact.svg")
	if err := writeArtifacts(artifacts, []string{"svg"}, input, out); err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected %s to exist: %v", out, err)
	}
}

func TestLoadConfigSeedOverride(t *testing.T) {
	cfg, err := loadConfig("", 99)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}

	// -1 keeps the config's seed.
	cfg, err = loadConfig("", -1)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Seed != 1 {
		t.Errorf("Seed = %d, want default 1", cfg.Seed)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("seed = 7\ncross_penalty = 25.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, -1)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Seed != 7 || cfg.CrossPenalty != 25.0 {
		t.Errorf("cfg = %+v", cfg)
	}

	// Flag override beats the file.
	cfg, err = loadConfig(path, 3)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Seed != 3 {
		t.Errorf("Seed = %d, want 3", cfg.Seed)
	}
}

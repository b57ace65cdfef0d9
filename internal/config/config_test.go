package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kobzarvs/elastictabs/internal/width"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("ETABS_CONFIG_HOME", "/tmp/etabs-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/etabs-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/etabs-config")
	}

	t.Setenv("ETABS_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/etabs" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/etabs")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("ETABS_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Elastic.Debounce() != time.Second {
		t.Fatalf("Debounce = %v, want 1s", cfg.Elastic.Debounce())
	}
	if cfg.Elastic.Table() != width.Default() {
		t.Fatalf("Table = %+v, want default", cfg.Elastic.Table())
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ETABS_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[elastic]
debounce-ms = 350
wide-width = 3
classifier = "terminal"

[editor]
show-tabs = false

[[file-type]]
name = "tsv"
extensions = ["tsv", ".tab"]
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Elastic.Debounce() != 350*time.Millisecond {
		t.Fatalf("Debounce = %v, want 350ms", cfg.Elastic.Debounce())
	}
	tab := cfg.Elastic.Table()
	if tab.Wide != 3 || tab.Ambiguous != 1 || tab.Classifier != width.Terminal {
		t.Fatalf("Table = %+v, want wide 3 ambiguous 1 terminal", tab)
	}
	if cfg.Editor.ShowTabs {
		t.Fatalf("ShowTabs = true, want false")
	}
	if cfg.Editor.Foreground != "#B3B1AD" {
		t.Fatalf("Foreground = %q, want default", cfg.Editor.Foreground)
	}
	if len(cfg.FileTypes) != 1 || cfg.FileTypes[0].Name != "tsv" {
		t.Fatalf("FileTypes = %+v", cfg.FileTypes)
	}
}

func TestDebounceClamped(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{-50, 200 * time.Millisecond},
		{0, 200 * time.Millisecond},
		{199, 200 * time.Millisecond},
		{200, 200 * time.Millisecond},
		{1500, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		o := ElasticOptions{DebounceMS: tt.ms}
		if got := o.Debounce(); got != tt.want {
			t.Fatalf("Debounce(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}

	dir := t.TempDir()
	t.Setenv("ETABS_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[elastic]\ndebounce-ms = -10\nwide-width = 0\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Elastic.DebounceMS != MinDebounceMS {
		t.Fatalf("DebounceMS = %d, want %d", cfg.Elastic.DebounceMS, MinDebounceMS)
	}
	if cfg.Elastic.WideWidth != 2 {
		t.Fatalf("WideWidth = %d, want 2", cfg.Elastic.WideWidth)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ETABS_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[elastic\n")
	if _, err := Load(); err == nil {
		t.Fatalf("Load error = nil, want parse error")
	}

	writeFile(t, filepath.Join(dir, "config.toml"), "[elastic]\nclassifier = \"cjk\"\n")
	if _, err := Load(); err == nil {
		t.Fatalf("Load error = nil, want classifier error")
	}
}

func TestLoadKeymapMerges(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ETABS_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[keymap]
"ctrl+x" = "quit"
"ctrl+z" = "redo"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.Keymap["ctrl+x"]; got != "quit" {
		t.Fatalf("ctrl+x = %q, want quit", got)
	}
	if got := cfg.Keymap["ctrl+z"]; got != "redo" {
		t.Fatalf("ctrl+z = %q, want redo", got)
	}
	if got := cfg.Keymap["alt+left"]; got != "prev_cell" {
		t.Fatalf("alt+left = %q, want default prev_cell", got)
	}
}

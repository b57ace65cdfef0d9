package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/elastictabs/internal/width"
)

const (
	DefaultDebounceMS = 1000
	MinDebounceMS     = 200
)

type ElasticOptions struct {
	DebounceMS     int    `toml:"debounce-ms"`
	WideWidth      int    `toml:"wide-width"`
	AmbiguousWidth int    `toml:"ambiguous-width"`
	Classifier     string `toml:"classifier"`
}

type EditorOptions struct {
	ShowTabs   bool   `toml:"show-tabs"`
	TabMarker  string `toml:"tab-marker"`
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Statusline string `toml:"statusline-background"`
}

// Keymap maps key names such as "ctrl+z" or "alt+left" to editor actions.
type Keymap map[string]string

type Config struct {
	Elastic   ElasticOptions `toml:"elastic"`
	Editor    EditorOptions  `toml:"editor"`
	Keymap    Keymap         `toml:"keymap"`
	FileTypes FileTypes      `toml:"file-type"`
}

func DefaultKeymap() Keymap {
	return Keymap{
		"left":        "move_left",
		"right":       "move_right",
		"up":          "move_up",
		"down":        "move_down",
		"home":        "line_start",
		"end":         "line_end",
		"shift+left":  "select_left",
		"shift+right": "select_right",
		"shift+up":    "select_up",
		"shift+down":  "select_down",
		"alt+left":    "prev_cell",
		"alt+right":   "next_cell",
		"ctrl+d":      "add_caret_below",
		"esc":         "single_caret",
		"backspace":   "backspace",
		"del":         "delete_char",
		"enter":       "newline",
		"tab":         "insert_tab",
		"ctrl+z":      "undo",
		"ctrl+y":      "redo",
		"ctrl+s":      "save",
		"ctrl+r":      "reformat",
		"ctrl+q":      "quit",
	}
}

func Default() Config {
	return Config{
		Elastic: ElasticOptions{
			DebounceMS:     DefaultDebounceMS,
			WideWidth:      2,
			AmbiguousWidth: 1,
			Classifier:     width.EastAsian.String(),
		},
		Editor: EditorOptions{
			ShowTabs:   true,
			TabMarker:  "→",
			Foreground: "#B3B1AD",
			Background: "#0A0E14",
			Statusline: "#0F1419",
		},
		Keymap: DefaultKeymap(),
	}
}

// Debounce returns the quiescence window before a realignment. Values
// below the floor, including negative ones, are raised to it.
func (o ElasticOptions) Debounce() time.Duration {
	ms := o.DebounceMS
	if ms < MinDebounceMS {
		ms = MinDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Table returns the wide-character width table described by the options.
func (o ElasticOptions) Table() width.Table {
	t := width.Default()
	if o.WideWidth > 0 {
		t.Wide = o.WideWidth
	}
	if o.AmbiguousWidth > 0 {
		t.Ambiguous = o.AmbiguousWidth
	}
	if c, ok := width.ParseClassifier(o.Classifier); ok {
		t.Classifier = c
	}
	return t
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	// Keys missing from the file keep their defaults.
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Elastic.DebounceMS < MinDebounceMS {
		cfg.Elastic.DebounceMS = MinDebounceMS
	}
	if cfg.Elastic.WideWidth < 1 {
		cfg.Elastic.WideWidth = 2
	}
	if cfg.Elastic.AmbiguousWidth < 1 {
		cfg.Elastic.AmbiguousWidth = 1
	}
	if _, ok := width.ParseClassifier(cfg.Elastic.Classifier); !ok {
		return Default(), fmt.Errorf("parse %s: unknown classifier %q", path, cfg.Elastic.Classifier)
	}
	for k, v := range DefaultKeymap() {
		if _, ok := cfg.Keymap[k]; !ok {
			cfg.Keymap[k] = v
		}
	}
	if cfg.Editor.TabMarker == "" {
		cfg.Editor.TabMarker = " "
	}
	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("ETABS_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "etabs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "etabs"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

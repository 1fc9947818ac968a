// Package config reads practicetool.toml: settings, the ordered command list the menu is built
// from, and the gamepad radial menu.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"practicetool/hotkey"
	"practicetool/input"
	"practicetool/logging"

	"github.com/BurntSushi/toml"
)

const FileName = "practicetool.toml"

var log = logging.New("config")

type IndicatorKind int

const (
	IndicatorGameVersion IndicatorKind = iota
	IndicatorPosition
	IndicatorPositionChange
	IndicatorIGT
	IndicatorFPS
	IndicatorAnimation
	IndicatorFrameCount
	IndicatorImguiDebug
	indicatorCount
)

var indicatorNames = [indicatorCount]string{
	"game_version", "position", "position_change", "igt", "fps", "animation", "frame_count", "imgui_debug",
}

func (k IndicatorKind) String() string {
	if k < 0 || k >= indicatorCount {
		return fmt.Sprintf("IndicatorKind(%d)", int(k))
	}
	return indicatorNames[k]
}

func (k *IndicatorKind) UnmarshalText(text []byte) error {
	for i, n := range indicatorNames {
		if n == string(text) {
			*k = IndicatorKind(i)
			return nil
		}
	}
	return fmt.Errorf("%q is not a valid indicator (want one of %s)", text, strings.Join(indicatorNames[:], ", "))
}

func (k IndicatorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type Indicator struct {
	Kind    IndicatorKind `toml:"indicator"`
	Enabled bool          `toml:"enabled"`
}

// DefaultIndicators is used when the settings carry no indicator list
func DefaultIndicators() []Indicator {
	return []Indicator{
		{IndicatorGameVersion, true},
		{IndicatorPosition, false},
		{IndicatorPositionChange, false},
		{IndicatorIGT, true},
		{IndicatorFPS, true},
		{IndicatorAnimation, false},
		{IndicatorFrameCount, false},
		{IndicatorImguiDebug, false},
	}
}

type Settings struct {
	LogLevel    logging.Level `toml:"log_level"`
	Display     hotkey.Hotkey `toml:"display"`
	ShowConsole bool          `toml:"show_console"`
	Indicators  []Indicator   `toml:"indicators"`
}

type RadialEntry struct {
	Label string        `toml:"label"`
	Key   hotkey.Hotkey `toml:"key"`
}

type Config struct {
	Settings   Settings
	Commands   []Command
	RadialMenu []RadialEntry
}

type file struct {
	Settings   Settings         `toml:"settings"`
	Commands   []toml.Primitive `toml:"commands"`
	RadialMenu []RadialEntry    `toml:"radial_menu"`
}

// Default is the configuration used when the file is missing or broken
func Default() *Config {
	return &Config{
		Settings: Settings{
			LogLevel:   logging.LevelDebug,
			Display:    hotkey.MustParse("0"),
			Indicators: DefaultIndicators(),
		},
	}
}

// Parse decodes a configuration. Every error names the offending key.
func Parse(text string) (*Config, error) {
	var f file
	md, err := toml.Decode(text, &f)
	if err != nil {
		return nil, fmt.Errorf("TOML configuration parse error: %w", err)
	}
	for _, key := range []string{"log_level", "display"} {
		if !md.IsDefined("settings", key) {
			return nil, fmt.Errorf("TOML configuration parse error: missing settings.%s", key)
		}
	}

	cfg := &Config{Settings: f.Settings, RadialMenu: f.RadialMenu}
	if !md.IsDefined("settings", "indicators") {
		cfg.Settings.Indicators = DefaultIndicators()
	}
	cfg.Commands, err = decodeCommands(&md, f.Commands, "commands")
	if err != nil {
		return nil, fmt.Errorf("TOML configuration parse error: %w", err)
	}
	for i, e := range cfg.RadialMenu {
		if e.Key.IsZero() {
			return nil, fmt.Errorf("TOML configuration parse error: radial_menu[%d] (%q) has no key", i, e.Label)
		}
	}
	return cfg, nil
}

// Load reads and parses path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// LoadOrDefault never fails: a missing or invalid file is logged and replaced by Default
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warnf("%s not found, using the default configuration", path)
		return Default()
	case err != nil:
		log.Errorf("%v", err)
		log.Warnf("using the default configuration")
		return Default()
	}
	return cfg
}

// RadialItems converts the radial menu entries for the input router
func (c *Config) RadialItems() []input.RadialItem {
	items := make([]input.RadialItem, len(c.RadialMenu))
	for i, e := range c.RadialMenu {
		items[i] = input.RadialItem{Label: e.Label, Hotkey: e.Key}
	}
	return items
}

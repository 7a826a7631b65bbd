// Package config loads game settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/alleycats/engine/state"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ALLEYCATS_"

// UI modes.
const (
	UITUI   = "tui"
	UIPlain = "plain"
)

// Config is the full set of knobs for one game.
type Config struct {
	Players []string `yaml:"players" env:"PLAYERS" envSeparator:","`
	Seed    int64    `yaml:"seed" env:"SEED"` // 0 picks a random seed

	// Content is a directory of *.lua and *.json content files. Cards and
	// Agendas, when both set, name individual files instead.
	Content string `yaml:"content" env:"CONTENT"`
	Cards   string `yaml:"cards" env:"CARDS"`
	Agendas string `yaml:"agendas" env:"AGENDAS"`
	Map     string `yaml:"map" env:"MAP"`

	WinTrust    int `yaml:"win_trust" env:"WIN_TRUST"`
	InitialFood int `yaml:"initial_food" env:"INITIAL_FOOD"`
	InitialHand int `yaml:"initial_hand" env:"INITIAL_HAND"`
	MaxTurns    int `yaml:"max_turns" env:"MAX_TURNS"`

	UI  string    `yaml:"ui" env:"UI"`
	Log LogConfig `yaml:"log" envPrefix:"LOG_"`
}

// LogConfig selects the structured logger's shape.
type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	File        string `yaml:"file" env:"FILE"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

// Default returns a two-player game over the bundled content.
func Default() Config {
	s := state.DefaultSettings()
	return Config{
		Players:     []string{"Tom", "Felix"},
		Content:     "content",
		Map:         "content/map.txt",
		WinTrust:    s.WinTrust,
		InitialFood: s.InitialFood,
		InitialHand: s.InitialHand,
		MaxTurns:    s.MaxTurns,
		UI:          UITUI,
		Log:         LogConfig{Level: "info"},
	}
}

// Load starts from Default, overlays the YAML file at path (if path is not
// empty), then applies ALLEYCATS_* environment variables. The result is
// validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.Players) < 2 {
		errs = append(errs, fmt.Errorf("need at least 2 players, got %d", len(c.Players)))
	}
	seen := map[string]bool{}
	for _, name := range c.Players {
		if name == "" {
			errs = append(errs, errors.New("player name is empty"))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("duplicate player name %q", name))
		}
		seen[name] = true
	}
	if c.WinTrust <= 0 {
		errs = append(errs, fmt.Errorf("win_trust must be positive, got %d", c.WinTrust))
	}
	if c.InitialFood < 0 || c.InitialHand < 0 || c.MaxTurns < 0 {
		errs = append(errs, errors.New("initial_food, initial_hand and max_turns must not be negative"))
	}
	if c.Map == "" {
		errs = append(errs, errors.New("no map file configured"))
	}
	if c.Content == "" && (c.Cards == "" || c.Agendas == "") {
		errs = append(errs, errors.New("no content configured: set content, or both cards and agendas"))
	}
	switch c.UI {
	case UITUI, UIPlain:
	default:
		errs = append(errs, fmt.Errorf("unknown ui mode %q", c.UI))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Settings extracts the numeric game rules.
func (c Config) Settings() state.Settings {
	return state.Settings{
		WinTrust:    c.WinTrust,
		InitialFood: c.InitialFood,
		InitialHand: c.InitialHand,
		MaxTurns:    c.MaxTurns,
	}
}

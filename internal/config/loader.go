package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HOLSTERCOACH_CONFIG is set
//  3. env (prefix HOLSTERCOACH_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HOLSTERCOACH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: HOLSTERCOACH_ADDR, HOLSTERCOACH_CAMERA_ID, ...
	// Env keys map to the flat koanf tags on the struct, underscores kept.
	envProvider := env.Provider("HOLSTERCOACH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "holstercoach_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. The draw
// margins must stay distinct thresholds on opposite sides of the hip line:
// collapsing them to a single crossing point makes draw-time measurements
// oscillate on landmark jitter.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if c.FeedbackIntervalMs <= 0 {
		return errors.New("feedback_interval_ms must be positive")
	}
	if c.DrawArmMargin <= 0 || c.DrawCompleteMargin <= 0 {
		return errors.New("draw margins must be positive")
	}
	switch c.DefaultModule {
	case "stance", "grip", "draw", "full":
	default:
		return errors.New("default_module must be one of stance, grip, draw, full")
	}
	return nil
}

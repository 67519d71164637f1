// Package config is the enumerated solver-option bag. Every recognized
// option is a named field; unrecognized keys in a config file are
// construction errors, never silently forwarded.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odelab/internal/diffeq"
)

const (
	DefaultDt      = 0.01
	DefaultAbsTol  = 1e-8
	DefaultRelTol  = 1e-6
	DefaultStepper = "rk4"
)

type Config struct {
	Problem  string  `yaml:"problem"`
	Stepper  string  `yaml:"stepper"`
	Strategy string  `yaml:"strategy"`
	Dt       float64 `yaml:"dt"`
	Adaptive bool    `yaml:"adaptive"`
	AbsTol   float64 `yaml:"abs_tol"`
	RelTol   float64 `yaml:"rel_tol"`
	Seed     int64   `yaml:"seed"`

	// Alias is the shorthand that forces all five aliasing flags; the
	// individual flags below win only when it is unset.
	Alias       *bool `yaml:"alias"`
	AliasP      *bool `yaml:"alias_p"`
	AliasF      *bool `yaml:"alias_f"`
	AliasU0     *bool `yaml:"alias_u0"`
	AliasTstops *bool `yaml:"alias_tstops"`
	AliasJumps  *bool `yaml:"alias_jumps"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:  "pendulum",
		Stepper:  DefaultStepper,
		Strategy: "check",
		Dt:       DefaultDt,
		AbsTol:   DefaultAbsTol,
		RelTol:   DefaultRelTol,
	}
}

// Load reads a yaml config. Decoding is strict: a key outside the
// recognized set fails rather than being accepted and forwarded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AliasSpec resolves the shorthand and individual flags into an
// AliasSpecifier. A set shorthand overrides all five fields uniformly.
func (c *Config) AliasSpec() diffeq.AliasSpecifier {
	if c.Alias != nil {
		return diffeq.AliasAll(*c.Alias)
	}
	return diffeq.AliasSpecifier{
		P:      c.AliasP,
		F:      c.AliasF,
		U0:     c.AliasU0,
		TStops: c.AliasTstops,
		Jumps:  c.AliasJumps,
	}
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.AbsTol < 0 || c.RelTol < 0 {
		return fmt.Errorf("config: tolerances must be nonnegative")
	}
	switch c.Strategy {
	case "skip", "check", "override":
	default:
		return fmt.Errorf("config: unknown strategy %q", c.Strategy)
	}
	switch c.Stepper {
	case "euler", "rk4", "rk45":
	default:
		return fmt.Errorf("config: unknown stepper %q", c.Stepper)
	}
	return nil
}

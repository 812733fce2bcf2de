// SPDX-License-Identifier: EPL-2.0

// Package config loads the polysynth CLI settings from YAML with
// github.com/spf13/viper. Every key has a default, the file is optional
// and POLYSYNTH_* environment variables override both; nested keys use an
// underscore, so instrument.type becomes POLYSYNTH_INSTRUMENT_TYPE.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const EnvPrefix = "POLYSYNTH"

// Instrument types.
const (
	InstrumentSine    = "sine"
	InstrumentSampler = "sampler"
)

type Instrument struct {
	Type    string `mapstructure:"type" yaml:"type"`
	Channel int    `mapstructure:"channel" yaml:"channel"` // 0 means every channel
	// Sample is the file the sampler plays. Ignored for sine.
	Sample    string  `mapstructure:"sample" yaml:"sample"`
	RootNote  int     `mapstructure:"root_note" yaml:"root_note"`
	NoteLow   int     `mapstructure:"note_low" yaml:"note_low"`
	NoteHigh  int     `mapstructure:"note_high" yaml:"note_high"`
	Attack    float64 `mapstructure:"attack" yaml:"attack"`
	Release   float64 `mapstructure:"release" yaml:"release"`
	MaxLength float64 `mapstructure:"max_length" yaml:"max_length"`
	// TailOff lets sine notes decay after note-off. The sampler uses Release.
	TailOff bool `mapstructure:"tail_off" yaml:"tail_off"`
}

type Config struct {
	SampleRate   int        `mapstructure:"sample_rate" yaml:"sample_rate"`
	OutputRate   int        `mapstructure:"output_rate" yaml:"output_rate"`
	BlockSize    int        `mapstructure:"block_size" yaml:"block_size"`
	Voices       int        `mapstructure:"voices" yaml:"voices"`
	NoteStealing bool       `mapstructure:"note_stealing" yaml:"note_stealing"`
	Channels     int        `mapstructure:"channels" yaml:"channels"`
	TailSeconds  float64    `mapstructure:"tail_seconds" yaml:"tail_seconds"`
	LogLevel     string     `mapstructure:"log_level" yaml:"log_level"`
	Instrument   Instrument `mapstructure:"instrument" yaml:"instrument"`
}

func Defaults() Config {
	return Config{
		SampleRate:   48000,
		OutputRate:   0,
		BlockSize:    512,
		Voices:       16,
		NoteStealing: true,
		Channels:     2,
		TailSeconds:  2,
		LogLevel:     "info",
		Instrument: Instrument{
			Type:     InstrumentSine,
			RootNote: 60,
			NoteLow:  0,
			NoteHigh: 127,
			Release:  0.1,
			TailOff:  true,
		},
	}
}

// Load reads path, which may be empty to use defaults and environment
// only. A relative instrument.sample is resolved against the config file's
// directory.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if path != "" && cfg.Instrument.Sample != "" && !filepath.IsAbs(cfg.Instrument.Sample) {
		cfg.Instrument.Sample = filepath.Join(filepath.Dir(path), cfg.Instrument.Sample)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("output_rate", d.OutputRate)
	v.SetDefault("block_size", d.BlockSize)
	v.SetDefault("voices", d.Voices)
	v.SetDefault("note_stealing", d.NoteStealing)
	v.SetDefault("channels", d.Channels)
	v.SetDefault("tail_seconds", d.TailSeconds)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("instrument.type", d.Instrument.Type)
	v.SetDefault("instrument.channel", d.Instrument.Channel)
	v.SetDefault("instrument.sample", d.Instrument.Sample)
	v.SetDefault("instrument.root_note", d.Instrument.RootNote)
	v.SetDefault("instrument.note_low", d.Instrument.NoteLow)
	v.SetDefault("instrument.note_high", d.Instrument.NoteHigh)
	v.SetDefault("instrument.attack", d.Instrument.Attack)
	v.SetDefault("instrument.release", d.Instrument.Release)
	v.SetDefault("instrument.max_length", d.Instrument.MaxLength)
	v.SetDefault("instrument.tail_off", d.Instrument.TailOff)
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return invalid("sample_rate", "must be positive, got %d", c.SampleRate)
	case c.OutputRate < 0:
		return invalid("output_rate", "must not be negative, got %d", c.OutputRate)
	case c.BlockSize <= 0:
		return invalid("block_size", "must be positive, got %d", c.BlockSize)
	case c.Voices <= 0:
		return invalid("voices", "must be positive, got %d", c.Voices)
	case c.Channels <= 0:
		return invalid("channels", "must be positive, got %d", c.Channels)
	case c.TailSeconds < 0:
		return invalid("tail_seconds", "must not be negative, got %v", c.TailSeconds)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	in := c.Instrument
	switch in.Type {
	case InstrumentSine:
	case InstrumentSampler:
		if in.Sample == "" {
			return invalid("instrument.sample", "required for the sampler")
		}
	default:
		return invalid("instrument.type", "unknown instrument %q", in.Type)
	}

	switch {
	case in.Channel < 0 || in.Channel > 16:
		return invalid("instrument.channel", "must be 0..16, got %d", in.Channel)
	case in.NoteLow < 0 || in.NoteHigh > 127 || in.NoteLow > in.NoteHigh:
		return invalid("instrument.note_low", "range %d..%d is not within 0..127", in.NoteLow, in.NoteHigh)
	case in.RootNote < 0 || in.RootNote > 127:
		return invalid("instrument.root_note", "must be 0..127, got %d", in.RootNote)
	case in.Attack < 0 || in.Release < 0 || in.MaxLength < 0:
		return invalid("instrument", "attack, release and max_length must not be negative")
	}

	return nil
}

// ParseLevel maps a log_level setting to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, invalid("log_level", "%q is not one of debug, info, warn, error", s)
	}
	return l, nil
}

// WriteDefault writes the default configuration as YAML, creating parent
// directories. An existing file is never overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

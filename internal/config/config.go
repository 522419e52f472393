// Package config holds the settings shared by the fiveplay binaries.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/engine"
)

// Duration is a time.Duration written as a string ("5s") in JSON.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the server and engine configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr"`

	// DataDir holds the database; empty selects the platform data directory.
	DataDir string `json:"data_dir"`

	Difficulty engine.Difficulty `json:"-"`
	// DifficultyName is the JSON form of Difficulty.
	DifficultyName string `json:"difficulty"`

	BoardSize int `json:"board_size"`

	// Workers bounds concurrent engine decisions.
	Workers int `json:"workers"`

	// DecisionTimeout bounds the wait for a free worker.
	DecisionTimeout Duration `json:"decision_timeout"`

	// EvalCacheEntries sizes the per-decision evaluation cache; 0 disables it.
	EvalCacheEntries int `json:"eval_cache_entries"`

	// PingInterval is the websocket heartbeat period.
	PingInterval Duration `json:"ping_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		Difficulty:       engine.Medium,
		DifficultyName:   engine.Medium.String(),
		BoardSize:        board.DefaultSize,
		Workers:          4,
		DecisionTimeout:  Duration(10 * time.Second),
		EvalCacheEntries: engine.DefaultEvalCacheEntries,
		PingInterval:     Duration(30 * time.Second),
	}
}

// Load reads a JSON config file over the defaults. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration and resolves Difficulty from its name.
func (c *Config) Validate() error {
	d, err := engine.ParseDifficulty(c.DifficultyName)
	if err != nil {
		return err
	}
	c.Difficulty = d

	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.BoardSize < board.MinSize || c.BoardSize > board.MaxSize {
		return fmt.Errorf("board_size %d outside %d..%d", c.BoardSize, board.MinSize, board.MaxSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.DecisionTimeout <= 0 {
		return errors.New("decision_timeout must be positive")
	}
	if c.EvalCacheEntries < 0 {
		return fmt.Errorf("eval_cache_entries must not be negative, got %d", c.EvalCacheEntries)
	}
	if c.PingInterval <= 0 {
		return errors.New("ping_interval must be positive")
	}
	return nil
}

// EngineOptions returns the engine options for this configuration.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.EvalCacheEntries = c.EvalCacheEntries
	return opts
}

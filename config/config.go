// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the engine settings from a YAML file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/log"
)

// Backend names a key/value store implementation.
type Backend string

const (
	BackendLevelDB Backend = "leveldb"
	BackendBolt    Backend = "bolt"
	BackendMemory  Backend = "memory"
)

type Reward struct {
	DailyRate     uint64 `yaml:"daily_rate"`
	SecondsPerDay uint64 `yaml:"seconds_per_day"`
	Decimals      uint8  `yaml:"decimals"`
}

// Engine returns the reward engine of the configured rate.
func (r Reward) Engine() reward.Engine {
	return reward.Engine{DailyRate: r.DailyRate, SecondsPerDay: r.SecondsPerDay}
}

type Storage struct {
	Backend Backend `yaml:"backend"`
	Path    string  `yaml:"path"`
	// CacheSize is the number of storage slots kept in the read cache.
	CacheSize int `yaml:"cache_size"`
}

type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

type Log struct {
	Format    log.Format `yaml:"format"`
	Verbosity int        `yaml:"verbosity"`
	Color     bool       `yaml:"color"`
}

type Config struct {
	Reward  Reward  `yaml:"reward"`
	Storage Storage `yaml:"storage"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Reward: Reward{
			DailyRate:     reward.DefaultDailyRate,
			SecondsPerDay: reward.DefaultSecondsPerDay,
		},
		Storage: Storage{
			Backend:   BackendMemory,
			CacheSize: 4096,
		},
		Log: Log{
			Format:    log.FormatTerminal,
			Verbosity: 3,
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.Reward.SecondsPerDay == 0 {
		return errors.New("reward.seconds_per_day must be positive")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendLevelDB, BackendBolt:
		if c.Storage.Path == "" {
			return errors.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	default:
		return errors.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Storage.CacheSize < 0 {
		return errors.New("storage.cache_size must not be negative")
	}
	switch c.Log.Format {
	case log.FormatTerminal, log.FormatJSON, log.FormatLogfmt:
	default:
		return errors.Errorf("unknown log.format %q", c.Log.Format)
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return errors.Errorf("log.verbosity %d out of range [0, 5]", c.Log.Verbosity)
	}
	return nil
}

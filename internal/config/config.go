// Package config loads service configuration from an optional YAML
// file, falling back to defaults.
package config

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type CacheConfig struct {
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	Addr   string      `yaml:"addr"`
	DBPath string      `yaml:"db_path"`
	Cache  CacheConfig `yaml:"cache"`
}

func Default() Config {
	return Config{
		Addr:   ":8080",
		DBPath: "recon.db",
		Cache: CacheConfig{
			Capacity: 64,
			TTL:      time.Hour,
		},
	}
}

// Load reads the config file at path. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, eris.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "parse config %s", path)
	}

	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = Default().Cache.Capacity
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = Default().Cache.TTL
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = Default().DBPath
	}
	return cfg, nil
}

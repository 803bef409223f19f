package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oriumgames/blockmap"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// config is the optional YAML configuration of the tool. Flags override it.
type config struct {
	// Resources is the directory holding the block state resource and id map.
	Resources string `yaml:"resources"`
	// Placeholder is the legacy id of the fallback block.
	Placeholder uint32 `yaml:"placeholder"`
	// Seed pins the permutation seed. If unset, the process id is used.
	Seed *uint64 `yaml:"seed"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Resources:   "resources",
		Placeholder: blockmap.InfoUpdateID,
		LogLevel:    "info",
	}
}

// loadConfig reads the configuration at path. A missing file yields the
// defaults unless required is set.
func loadConfig(path string, required bool) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return c, nil
		}
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, nil
}

// tableConfig converts c to the options of a blockmap.Table.
func (c config) tableConfig(log *logrus.Logger) (blockmap.Config, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return blockmap.Config{}, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)

	conf := blockmap.Config{Placeholder: c.Placeholder, Log: log}
	if c.Seed != nil {
		seed := *c.Seed
		conf.Seed = func() uint64 { return seed }
	}
	return conf, nil
}

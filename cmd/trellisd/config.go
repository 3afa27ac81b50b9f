// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	"io/ioutil"
)

// Config is the contents of the global YAML configuration file.
type Config struct {
	// Partitions maps partition names to their base URLs.  An
	// empty base URL is derived from each request.
	Partitions map[string]string

	// Users maps user names to passwords for HTTP Basic
	// authentication.
	Users map[string]string

	// Admins are user names that act as the administrator agent.
	Admins []string

	Challenges []string

	// WebAC turns on access control checks.  It defaults to on
	// when users are configured.
	WebAC *bool `mapstructure:"webac"`

	// MaxBodySize is a human-readable size like "64MiB".
	MaxBodySize string `mapstructure:"max_body_size"`

	// BinaryDir stores binary content on disk; if empty it is
	// kept in memory.
	BinaryDir string `mapstructure:"binary_dir"`

	SpoolDir string `mapstructure:"spool_dir"`

	// CacheSize is the number of resources cached in front of the
	// backend; negative disables the cache.
	CacheSize int `mapstructure:"cache_size"`

	LogLevel string `mapstructure:"log_level"`
}

// defaultConfig serves a single partition "repo" with a base URL
// derived from requests.
func defaultConfig() Config {
	return Config{
		Partitions:  map[string]string{"repo": ""},
		MaxBodySize: "64MiB",
	}
}

func loadConfigYaml(filename string) (map[string]interface{}, error) {
	var result map[string]interface{}
	bytes, err := ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

// decodeConfig fills in config from a parsed YAML map.  Keys not
// mentioned in the map keep their defaults; a partitions map, if
// given, replaces the default partition.
func decodeConfig(raw map[string]interface{}, config *Config) error {
	if _, ok := raw["partitions"]; ok {
		config.Partitions = nil
	}
	return mapstructure.Decode(raw, config)
}

func (c Config) maxBodySize() (int64, error) {
	if c.MaxBodySize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.MaxBodySize)
	return int64(n), err
}

func (c Config) webac() bool {
	if c.WebAC == nil {
		return len(c.Users) > 0
	}
	return *c.WebAC
}

func (c Config) logLevel() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(c.LogLevel)
}

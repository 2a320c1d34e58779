package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

const (
	defaultHost        = "localhost"
	defaultPort        = "8092"
	defaultBaseURL     = "https://v2.api.noroff.dev"
	defaultTimeout     = 15 * time.Second
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second
	defaultStorePath   = "./var/holidaze-store.json"
	defaultRedisPrefix = "holidaze:"
	defaultFeatured    = 6
)

type Config struct {
	Listen   ListenConfig   `yaml:"listen"`
	API      APIConfig      `yaml:"api"`
	Store    StoreConfig    `yaml:"store"`
	Calendar CalendarConfig `yaml:"calendar"`
	Logging  LoggingConfig  `yaml:"logging"`
	Home     HomeConfig     `yaml:"home"`
}

type ListenConfig struct {
	Host              string        `yaml:"host"`
	Port              string        `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Key     string        `yaml:"key"`
	Timeout time.Duration `yaml:"timeout"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig controls the circuit breaker around remote calls.
// MaxFailures is the number of consecutive failures that opens it.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

type StoreConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type CalendarConfig struct {
	// Timezone is the IANA zone whose calendar days bookings are expanded in.
	// Empty means the process local zone.
	Timezone string `yaml:"timezone"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HomeConfig struct {
	Featured int `yaml:"featured"`
}

func Default() *Config {
	cfg := &Config{} //nolint:exhaustruct
	cfg.Normalize()

	return cfg
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.Listen.Host == "" {
		c.Listen.Host = defaultHost
	}

	if c.Listen.Port == "" {
		c.Listen.Port = defaultPort
	}

	if c.Listen.ReadHeaderTimeout <= 0 {
		c.Listen.ReadHeaderTimeout = 20 * time.Second //nolint:gomnd
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}

	if c.API.Timeout <= 0 {
		c.API.Timeout = defaultTimeout
	}

	if c.API.Breaker.MaxFailures == 0 {
		c.API.Breaker.MaxFailures = defaultMaxFailures
	}

	if c.API.Breaker.OpenTimeout <= 0 {
		c.API.Breaker.OpenTimeout = defaultOpenTimeout
	}

	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		c.Store.Driver = DriverFile
	}

	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath
	}

	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = defaultRedisPrefix
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Home.Featured <= 0 {
		c.Home.Featured = defaultFeatured
	}
}

// Location resolves Calendar.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Calendar.Timezone, err)
	}

	return loc, nil
}

// Load reads an optional .env file, then the YAML file at path with ${VAR}
// references expanded. A missing YAML file yields the defaults.
// HOLIDAZE_API_KEY overrides api.key.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{} //nolint:exhaustruct

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if key := os.Getenv("HOLIDAZE_API_KEY"); key != "" {
		cfg.API.Key = key
	}

	cfg.Normalize()

	return cfg, nil
}

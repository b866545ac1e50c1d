// Package config loads the stationflow TOML configuration.
//
// Config file locations (priority order):
//  1. $STATIONFLOW_CONFIG
//  2. ./stationflow.toml
//  3. $XDG_CONFIG_HOME/stationflow/config.toml
//  4. ~/.config/stationflow/config.toml
//
// A missing file is not an error: [Load] returns [DefaultConfig].
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stationflow/pkg/arrange"
	"github.com/matzehuels/stationflow/pkg/cache"
	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "STATIONFLOW_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory.
	ConfigFileName = "stationflow.toml"
	// AppName names the XDG config and cache directories.
	AppName = "stationflow"
)

// Config is the root of the configuration file.
type Config struct {
	Arrange ArrangeConfig `toml:"arrange"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// ArrangeConfig holds the auto-arranger defaults.
type ArrangeConfig struct {
	Mode          string `toml:"mode"`
	Grid          int    `toml:"grid"`
	ColumnSpacing int    `toml:"column_spacing"`
	RowSpacing    int    `toml:"row_spacing"`
	// Offsets and start coordinates are pointers so an explicit 0 is
	// kept rather than replaced by the default.
	VertexOffsetX *int `toml:"vertex_offset_x"`
	VertexOffsetY *int `toml:"vertex_offset_y"`
	StartX        *int `toml:"start_x"`
	StartY        *int `toml:"start_y"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // none, file, redis or mongo
	Dir     string      `toml:"dir"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo cache backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load finds and loads the config file, or returns defaults if none found.
// The returned path is empty when defaults are used.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadFromPath(path string) (*Config, string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return nil, path, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, path, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

func (c *Config) applyDefaults() {
	d := arrange.DefaultOptions()
	if c.Arrange.Mode == "" {
		c.Arrange.Mode = "full"
	}
	if c.Arrange.Grid == 0 {
		c.Arrange.Grid = d.Grid
	}
	if c.Arrange.ColumnSpacing == 0 {
		c.Arrange.ColumnSpacing = d.ColumnSpacing
	}
	if c.Arrange.RowSpacing == 0 {
		c.Arrange.RowSpacing = d.RowSpacing
	}
	setDefault(&c.Arrange.VertexOffsetX, d.VertexOffset.X)
	setDefault(&c.Arrange.VertexOffsetY, d.VertexOffset.Y)
	setDefault(&c.Arrange.StartX, 50)
	setDefault(&c.Arrange.StartY, 50)

	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir()
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = cache.TTLPlan
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = AppName + ":"
	}
	if c.Cache.Mongo.URI == "" {
		c.Cache.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Cache.Mongo.Database == "" {
		c.Cache.Mongo.Database = AppName
	}
	if c.Cache.Mongo.Collection == "" {
		c.Cache.Mongo.Collection = "results"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func setDefault(p **int, v int) {
	if *p == nil {
		*p = &v
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if err := errors.ValidateOneOf("arrange.mode", c.Arrange.Mode, "grid", "full"); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "arrange.mode")
	}
	if c.Arrange.Grid < 0 || c.Arrange.ColumnSpacing < 0 || c.Arrange.RowSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "arrange spacings must not be negative")
	}
	backends := []string{cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.backend %q (allowed: %v)", c.Cache.Backend, backends)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LayoutOptions returns the arranger options.
func (c *Config) LayoutOptions() arrange.Options {
	return arrange.Options{
		Grid:          c.Arrange.Grid,
		ColumnSpacing: c.Arrange.ColumnSpacing,
		RowSpacing:    c.Arrange.RowSpacing,
		VertexOffset:  &model.Point{X: deref(c.Arrange.VertexOffsetX), Y: deref(c.Arrange.VertexOffsetY)},
	}
}

// Start returns the top-left corner for full arrangements.
func (c *Config) Start() model.Point {
	return model.Point{X: deref(c.Arrange.StartX), Y: deref(c.Arrange.StartY)}
}

// CacheOptions returns the cache backend configuration.
func (c *Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Cache.Mongo.URI,
			Database:   c.Cache.Mongo.Database,
			Collection: c.Cache.Mongo.Collection,
		},
	}
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// String summarizes the effective configuration for debug logs.
func (c *Config) String() string {
	return fmt.Sprintf("mode=%s grid=%d cache=%s server=%s log=%s",
		c.Arrange.Mode, c.Arrange.Grid, c.Cache.Backend, c.Server.Addr, c.Log.Level)
}

// FindConfigPath searches for a config file in priority order and returns
// an empty string if none exists.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, AppName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", AppName, "config.toml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DefaultCacheDir returns the XDG cache directory (~/.cache/stationflow/).
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

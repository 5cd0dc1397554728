// Package config loads graphtext settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/graphtext/config.toml unless
// GRAPHTEXT_CONFIG or the --config flag names another path. A missing file
// means defaults; command-line flags override whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "GRAPHTEXT_CONFIG"

// Config holds graphtext configuration.
type Config struct {
	Draw   DrawConfig   `toml:"draw"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Store  StoreConfig  `toml:"store"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// DrawConfig holds the defaults for a draw.
type DrawConfig struct {
	Directed  bool     `toml:"directed"`
	IndexBase int      `toml:"index_base" validate:"oneof=0 1"`
	Engine    string   `toml:"engine" validate:"oneof=fdp neato sfdp dot circo"`
	Formats   []string `toml:"formats" validate:"min=1,dive,oneof=svg png pdf dot json html txt"`
	Width     float64  `toml:"width" validate:"gte=0"`
	Height    float64  `toml:"height" validate:"gte=0"`
	MaxNodes  int      `toml:"max_nodes" validate:"gte=0"` // 0 means the built-in limit
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string   `toml:"addr" validate:"required"`
	ReadTimeout     Duration `toml:"read_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64    `toml:"max_body_bytes" validate:"gt=0"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend" validate:"oneof=file redis none"`
	Dir     string   `toml:"dir"` // empty means the XDG cache directory
	TTL     Duration `toml:"ttl"`
	Prefix  string   `toml:"prefix"`
}

// RedisConfig locates the Redis server for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
}

// StoreConfig selects the snippet store backend.
type StoreConfig struct {
	Backend string `toml:"backend" validate:"oneof=memory mongo"`
	Limit   int    `toml:"limit" validate:"gte=0"` // memory backend only; 0 is unbounded
}

// MongoConfig locates the MongoDB collection for the mongo store backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a string such as "10s" in TOML.
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

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Draw: DrawConfig{
			Engine:   "fdp",
			Formats:  []string{"svg"},
			Width:    800,
			Height:   800,
			MaxNodes: 10000,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			ShutdownTimeout: Duration{5 * time.Second},
			MaxBodyBytes:    apperrors.MaxTextBytes,
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     Duration{24 * time.Hour},
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Store: StoreConfig{Backend: "memory", Limit: 10000},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "graphtext",
			Collection: "snippets",
		},
	}
}

// ConfigDir returns the graphtext config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "graphtext")
}

// DefaultPath returns $GRAPHTEXT_CONFIG, or config.toml in ConfigDir.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path (DefaultPath when empty) over the defaults.
// A missing file yields the defaults. Malformed TOML, unknown keys and
// invalid values are errors.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path (DefaultPath when empty).
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values and the backend-specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid config")
	}
	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid config: cache backend redis needs redis.addr")
	}
	if c.Store.Backend == "mongo" && (c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "") {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid config: store backend mongo needs mongo.uri, database and collection")
	}
	return nil
}

// Package config loads archscape.toml.
//
// The file is optional. Every setting has a default, so a missing file
// yields [Default]:
//
//	[workspace]
//	name        = "Coding Contest"
//	description = "Architecture of the Coding Contest Platform"
//
//	[output]
//	dir      = "out"
//	formats  = ["svg", "png"]
//	hcl      = true
//
//	[cache]
//	backend = "redis"               # file, redis or none
//	url     = "redis://localhost:6379/0"
//
//	themes = ["themes/extra.toml", "https://example.com/theme.toml"]
//
//	[publish.api]
//	url = "https://api.structurizr.com"
//	id  = 12345
//	key = "..."                     # or ARCHSCAPE_API_KEY
//	secret = "..."                  # or ARCHSCAPE_API_SECRET
//
//	[publish.mongo]
//	uri = "mongodb://localhost:27017" # or ARCHSCAPE_MONGO_URI
//
//	[log]
//	level = "debug"
//	file  = "archscape.log"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/render"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "archscape.toml"

// Environment variables that override secrets in the file.
const (
	EnvAPIKey    = "ARCHSCAPE_API_KEY"
	EnvAPISecret = "ARCHSCAPE_API_SECRET"
	EnvMongoURI  = "ARCHSCAPE_MONGO_URI"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Workspace Workspace `toml:"workspace"`
	Output    Output    `toml:"output"`
	Cache     Cache     `toml:"cache"`
	Themes    []string  `toml:"themes"`
	Publish   Publish   `toml:"publish"`
	Log       Log       `toml:"log"`
	Server    Server    `toml:"server"`
}

type Workspace struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type Output struct {
	Dir     string   `toml:"dir"`
	Formats []string `toml:"formats"`
	HCL     bool     `toml:"hcl"`
	// Detailed adds descriptions to rendered labels.
	Detailed bool   `toml:"detailed"`
	Font     string `toml:"font"`
}

type Cache struct {
	Backend string `toml:"backend"`
	// Dir is the file cache directory. Empty means ~/.cache/archscape.
	Dir string `toml:"dir"`
	// URL is the redis connection URL.
	URL    string `toml:"url"`
	Prefix string `toml:"prefix"`
}

type Publish struct {
	API   *API   `toml:"api"`
	Mongo *Mongo `toml:"mongo"`
}

type API struct {
	URL    string `toml:"url"`
	ID     int64  `toml:"id"`
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Log configures the optional log file. The file is rotated by size.
type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"` // megabytes
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"` // days
	Compress   bool   `toml:"compress"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Workspace: Workspace{Name: "Coding Contest"},
		Output:    Output{Dir: "out", Formats: []string{string(render.FormatSVG)}},
		Cache:     Cache{Backend: CacheFile, Prefix: "archscape:"},
		Log:       Log{Level: "info", MaxSize: 10, MaxBackups: 3, MaxAge: 28},
		Server:    Server{Addr: ":8080"},
	}
}

// Load reads the file at path. An empty path reads [DefaultFile] and
// falls back to [Default] when it does not exist; an explicit path must
// exist. Relative theme paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolveThemes(filepath.Dir(path))
	return cfg, nil
}

// Decode parses TOML over [Default], applies environment overrides and
// validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys %s", strings.Join(names, ", "))
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" && c.Publish.API != nil {
		c.Publish.API.Key = v
	}
	if v := os.Getenv(EnvAPISecret); v != "" && c.Publish.API != nil {
		c.Publish.API.Secret = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		if c.Publish.Mongo == nil {
			c.Publish.Mongo = &Mongo{}
		}
		c.Publish.Mongo.URI = v
	}
}

func (c *Config) resolveThemes(base string) {
	for i, t := range c.Themes {
		if isURL(t) || filepath.IsAbs(t) {
			continue
		}
		c.Themes[i] = filepath.Join(base, t)
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if err := errors.ValidateName(c.Workspace.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "workspace.name")
	}
	if _, err := c.Formats(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.formats")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if api := c.Publish.API; api != nil {
		if err := errors.ValidateURL(api.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "publish.api.url")
		}
		if api.ID <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "publish.api.id must be positive")
		}
	}
	if m := c.Publish.Mongo; m != nil && m.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "publish.mongo.uri is required (or set %s)", EnvMongoURI)
	}
	return nil
}

// Formats returns the parsed output formats.
func (c *Config) Formats() ([]render.Format, error) {
	out := make([]render.Format, 0, len(c.Output.Formats))
	for _, s := range c.Output.Formats {
		f, err := render.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// RenderOptions returns the DOT generation settings.
func (c *Config) RenderOptions() render.Options {
	return render.Options{Detailed: c.Output.Detailed, FontName: c.Output.Font}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Package config loads shapeboard settings from a TOML file and
// SHAPEBOARD_* environment variables.
//
// Lookup order, lowest precedence first: built-in defaults, the config
// file, environment variables. The file lives at
// $XDG_CONFIG_HOME/shapeboard/config.toml unless SHAPEBOARD_CONFIG names
// another path. Environment keys are the upper-cased dotted keys with
// dots replaced by underscores, e.g. SHAPEBOARD_CANVAS_WIDTH.
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
	"github.com/spf13/viper"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/export"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

const (
	appName   = "shapeboard"
	envPrefix = "SHAPEBOARD"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds application configuration.
type Config struct {
	Canvas  CanvasConfig  `mapstructure:"canvas" toml:"canvas"`
	Icons   IconsConfig   `mapstructure:"icons" toml:"icons"`
	Colors  ColorsConfig  `mapstructure:"colors" toml:"colors"`
	Export  ExportConfig  `mapstructure:"export" toml:"export"`
	Cache   CacheConfig   `mapstructure:"cache" toml:"cache"`
	Archive ArchiveConfig `mapstructure:"archive" toml:"archive"`
	Server  ServerConfig  `mapstructure:"server" toml:"server"`
}

// CanvasConfig sizes the drawing surface.
type CanvasConfig struct {
	Width      float64 `mapstructure:"width" toml:"width"`
	Height     float64 `mapstructure:"height" toml:"height"`
	ShapeRatio float64 `mapstructure:"shape_ratio" toml:"shape_ratio"`
}

// IconsConfig controls icon loading and placement.
type IconsConfig struct {
	Source          string  `mapstructure:"source" toml:"source"` // "builtin", a directory or an http(s) URL
	Scale           float64 `mapstructure:"scale" toml:"scale"`
	Jitter          float64 `mapstructure:"jitter" toml:"jitter"`
	DuplicateOffset float64 `mapstructure:"duplicate_offset" toml:"duplicate_offset"`
}

// ColorsConfig holds the initial color picker values.
type ColorsConfig struct {
	Shape string `mapstructure:"shape" toml:"shape"`
	Icon  string `mapstructure:"icon" toml:"icon"`
}

// ExportConfig controls exported files.
type ExportConfig struct {
	Filename   string  `mapstructure:"filename" toml:"filename"`
	Dir        string  `mapstructure:"dir" toml:"dir"`
	MaxScale   float64 `mapstructure:"max_scale" toml:"max_scale"`
	Background string  `mapstructure:"background" toml:"background"`
}

// CacheConfig selects the asset and artifact cache.
type CacheConfig struct {
	Backend   string `mapstructure:"backend" toml:"backend"`
	Dir       string `mapstructure:"dir" toml:"dir"` // empty: user cache dir
	RedisAddr string `mapstructure:"redis_addr" toml:"redis_addr"`
	TTL       string `mapstructure:"ttl" toml:"ttl"` // Go duration; empty uses per-type defaults
}

// ArchiveConfig enables archiving exports to MongoDB.
type ArchiveConfig struct {
	MongoURI   string `mapstructure:"mongo_uri" toml:"mongo_uri"`
	Database   string `mapstructure:"database" toml:"database"`
	Collection string `mapstructure:"collection" toml:"collection"`
}

// ServerConfig configures `shapeboard serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      scene.DefaultWidth,
			Height:     scene.DefaultHeight,
			ShapeRatio: scene.DefaultShapeRatio,
		},
		Icons: IconsConfig{
			Source:          "builtin",
			Scale:           scene.DefaultIconScale,
			Jitter:          scene.DefaultJitter,
			DuplicateOffset: scene.DefaultDuplicateOffset,
		},
		Colors: ColorsConfig{Shape: "#ffcc00", Icon: "#000000"},
		Export: ExportConfig{
			Filename: export.DefaultFilename,
			Dir:      ".",
			MaxScale: export.DefaultMaxScale,
		},
		Cache:   CacheConfig{Backend: CacheFile, RedisAddr: "localhost:6379"},
		Archive: ArchiveConfig{Database: appName, Collection: "exports"},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the config file location: SHAPEBOARD_CONFIG if set,
// otherwise config.toml in the user config directory.
func Path() (string, error) {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads configuration from path (or [Path] when empty) and the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read config %s", path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("canvas.width", d.Canvas.Width)
	v.SetDefault("canvas.height", d.Canvas.Height)
	v.SetDefault("canvas.shape_ratio", d.Canvas.ShapeRatio)
	v.SetDefault("icons.source", d.Icons.Source)
	v.SetDefault("icons.scale", d.Icons.Scale)
	v.SetDefault("icons.jitter", d.Icons.Jitter)
	v.SetDefault("icons.duplicate_offset", d.Icons.DuplicateOffset)
	v.SetDefault("colors.shape", d.Colors.Shape)
	v.SetDefault("colors.icon", d.Colors.Icon)
	v.SetDefault("export.filename", d.Export.Filename)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.max_scale", d.Export.MaxScale)
	v.SetDefault("export.background", d.Export.Background)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("archive.mongo_uri", d.Archive.MongoURI)
	v.SetDefault("archive.database", d.Archive.Database)
	v.SetDefault("archive.collection", d.Archive.Collection)
	v.SetDefault("server.addr", d.Server.Addr)
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if !(c.Canvas.Width > 0) || !(c.Canvas.Height > 0) {
		return apperr.New(apperr.ErrCodeInvalidInput, "canvas size must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	if !(c.Canvas.ShapeRatio > 0 && c.Canvas.ShapeRatio <= 1) {
		return apperr.New(apperr.ErrCodeInvalidInput, "canvas.shape_ratio must be in (0, 1], got %v", c.Canvas.ShapeRatio)
	}
	if !(c.Icons.Scale > 0) {
		return apperr.New(apperr.ErrCodeInvalidInput, "icons.scale must be positive, got %v", c.Icons.Scale)
	}
	if c.Icons.Jitter < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "icons.jitter cannot be negative")
	}
	if _, err := scene.ParseColor(c.Colors.Shape); err != nil {
		return err
	}
	if _, err := scene.ParseColor(c.Colors.Icon); err != nil {
		return err
	}
	if c.Export.Background != "" {
		if _, err := scene.ParseColor(c.Export.Background); err != nil {
			return err
		}
	}
	if err := apperr.ValidateFilename(c.Export.Filename); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return apperr.New(apperr.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "server.addr cannot be empty")
	}
	return nil
}

// TTLDuration parses TTL. Zero means "use the per-type default".
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "cache.ttl %q is not a valid duration", c.TTL)
	}
	return d, nil
}

// CacheDir returns the file cache directory.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// SceneOptions converts the config into controller options. A zero
// icons.jitter disables jitter. Call only on a validated Config.
func (c Config) SceneOptions() scene.Options {
	jitter := c.Icons.Jitter
	if jitter == 0 {
		jitter = scene.NoJitter
	}
	return scene.Options{
		Width:           c.Canvas.Width,
		Height:          c.Canvas.Height,
		ShapeRatio:      c.Canvas.ShapeRatio,
		IconScale:       c.Icons.Scale,
		Jitter:          jitter,
		DuplicateOffset: c.Icons.DuplicateOffset,
		ShapeColor:      scene.MustParseColor(c.Colors.Shape),
		IconColor:       scene.MustParseColor(c.Colors.Icon),
	}
}

// ExportOptions converts the config into exporter options. Call only on a
// validated Config.
func (c Config) ExportOptions() export.Options {
	opts := export.Options{Filename: c.Export.Filename, MaxScale: c.Export.MaxScale}
	if c.Export.Background != "" {
		opts.Background = scene.MustParseColor(c.Export.Background)
	}
	return opts
}

// Write encodes cfg as TOML at path, creating parent directories. It
// refuses to replace an existing file unless overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return apperr.New(apperr.ErrCodeInvalidPath, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Encode returns cfg as TOML text.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[canvas]
width = 1024
height = 768

[icons]
scale = 5
source = "https://cdn.example.com"

[cache]
backend = "none"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHAPEBOARD_CANVAS_HEIGHT", "900")
	t.Setenv("SHAPEBOARD_COLORS_ICON", "tomato")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file width", cfg.Canvas.Width, 1024.0},
		{"env beats file", cfg.Canvas.Height, 900.0},
		{"file scale", cfg.Icons.Scale, 5.0},
		{"file source", cfg.Icons.Source, "https://cdn.example.com"},
		{"env color", cfg.Colors.Icon, "tomato"},
		{"default kept", cfg.Icons.Jitter, 50.0},
		{"backend", cfg.Cache.Backend, CacheNone},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	opts := cfg.SceneOptions()
	if opts.IconColor != scene.MustParseColor("tomato") || opts.IconScale != 5 {
		t.Errorf("SceneOptions() = %+v", opts)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[canvas\nwidth ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("SHAPEBOARD_CONFIG", "/tmp/custom.toml")
	p, err := Path()
	if err != nil || p != "/tmp/custom.toml" {
		t.Errorf("Path() = %q, %v", p, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }},
		{"ratio above one", func(c *Config) { c.Canvas.ShapeRatio = 1.5 }},
		{"zero icon scale", func(c *Config) { c.Icons.Scale = 0 }},
		{"negative jitter", func(c *Config) { c.Icons.Jitter = -1 }},
		{"bad shape color", func(c *Config) { c.Colors.Shape = "nope" }},
		{"bad background", func(c *Config) { c.Export.Background = "#12" }},
		{"filename with slash", func(c *Config) { c.Export.Filename = "a/b" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "soon" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !apperr.IsInvalid(err) {
				t.Errorf("error code = %s, want an INVALID_* code", apperr.GetCode(err))
			}
		})
	}
}

func TestTTLDuration(t *testing.T) {
	d, err := CacheConfig{TTL: "90m"}.TTLDuration()
	if err != nil || d != 90*time.Minute {
		t.Errorf("TTLDuration() = %v, %v", d, err)
	}
	if d, _ := (CacheConfig{}).TTLDuration(); d != 0 {
		t.Errorf("empty TTL = %v, want 0", d)
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Canvas.Width = 640
	cfg.Export.Background = "#ffffff"

	if err := Write(path, cfg, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := Write(path, cfg, false); err == nil {
		t.Error("Write() should refuse to overwrite")
	}
	if err := Write(path, cfg, true); err != nil {
		t.Errorf("Write(overwrite) error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != cfg {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestEncode(t *testing.T) {
	out, err := Encode(Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[canvas]", "shape_ratio = 0.8", "[archive]", `addr = "127.0.0.1:8080"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Encode() missing %q", want)
		}
	}
}

func TestSceneOptionsZeroJitter(t *testing.T) {
	cfg := Default()
	cfg.Icons.Jitter = 0
	if got := cfg.SceneOptions().Jitter; got != scene.NoJitter {
		t.Errorf("Jitter = %v, want NoJitter", got)
	}
	cfg.Icons.Jitter = 20
	if got := cfg.SceneOptions().Jitter; got != 20 {
		t.Errorf("Jitter = %v, want 20", got)
	}
}

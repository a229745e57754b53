package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapeboard/pkg/assets"
	"github.com/matzehuels/shapeboard/pkg/buildinfo"
	"github.com/matzehuels/shapeboard/pkg/cache"
	"github.com/matzehuels/shapeboard/pkg/config"
	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/export"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories, cache key
	// prefixes and display.
	appName = "shapeboard"

	// cacheSchema scopes cache keys; bump it when cached payloads change shape.
	cacheSchema = "v1"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Shapeboard composes a background shape and vector icons into PNG or SVG",
		Long: `Shapeboard is a small canvas editor. Pick a background shape, stack star,
umbrella and triangle icons on top of it, recolor, move and resize them, and
export the board as PNG or SVG from the terminal, a browser or a script.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shapeboard/config.toml)")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Session Factory
// =============================================================================

// session bundles what every scene-producing command needs.
type session struct {
	cfg      config.Config
	cache    cache.Cache
	loader   *assets.CachedLoader
	exporter *export.Exporter
	logger   *log.Logger
}

// newSession loads the config and wires cache, icon loader and exporter.
func (c *CLI) newSession(ctx context.Context, logger *log.Logger, noCache bool) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheSchema)

	loader, err := assets.Open(cfg.Icons.Source, cc, keyer, logger)
	if err != nil {
		cc.Close()
		return nil, err
	}
	exporter, err := export.NewExporter(cfg.ExportOptions(), cc, keyer, logger)
	if err != nil {
		cc.Close()
		return nil, err
	}
	logger.Debug("session ready", "icons", loader.Source(), "cache", cfg.Cache.Backend, "no_cache", noCache)
	return &session{cfg: cfg, cache: cc, loader: loader, exporter: exporter, logger: logger}, nil
}

// controller creates an empty scene. A zero seed picks a random one.
func (s *session) controller(seed uint64) *scene.Controller {
	opts := s.cfg.SceneOptions()
	opts.Seed = seed
	return scene.NewController(opts, s.loader, s.logger)
}

func (s *session) Close() error {
	return s.cache.Close()
}

// newCache opens the configured cache backend. A file cache that cannot
// locate its directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		return nil, err
	}

	var cc cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, Prefix: appName + ":"})
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "connect to cache")
		}
		cc = rc
	default:
		dir, err := cfg.Cache.CacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		cc = fc
	}

	if ttl > 0 {
		cc = cache.WithTTL(cc, ttl)
	}
	return cc, nil
}

// newArchive connects to the configured MongoDB export archive.
func newArchive(ctx context.Context, cfg config.Config) (*export.MongoDownloader, error) {
	if cfg.Archive.MongoURI == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "archive.mongo_uri is not set (SHAPEBOARD_ARCHIVE_MONGO_URI)")
	}
	return export.NewMongoDownloader(ctx, cfg.Archive.MongoURI, cfg.Archive.Database, cfg.Archive.Collection)
}

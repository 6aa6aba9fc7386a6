package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/moodmagic/moodmagic/internal/config"
	"github.com/moodmagic/moodmagic/pkg/buildinfo"
	"github.com/moodmagic/moodmagic/pkg/cache"
	"github.com/moodmagic/moodmagic/pkg/export"
	"github.com/moodmagic/moodmagic/pkg/httputil"
	"github.com/moodmagic/moodmagic/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "moodmagic"

	// redisPrefix scopes server cache keys in a shared Redis instance.
	redisPrefix = appName + ":"
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
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read before a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "moodmagic turns a vibe into a printable moodboard",
		Long: `moodmagic sends a short description and a few style tags to a generation
backend and renders the returned moodboard (palette, font pairing, imagery)
into an A4 PDF. Fonts are fetched from Google Fonts and cached locally.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/moodmagic/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the asset cache")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.noCache {
		cfg.Cache.Disabled = true
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Pipeline Factory
// =============================================================================

// newController wires a pipeline controller from the loaded configuration.
// The returned cleanup closes the controller and its cache.
func (c *CLI) newController(ctx context.Context, saver export.Saver) (*pipeline.Controller, func(), error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}

	pc := c.pipelineConfig(store)
	pc.Saver = saver
	ctrl := pipeline.New(pc)

	return ctrl, func() {
		ctrl.Close()
		_ = store.Close()
	}, nil
}

func (c *CLI) pipelineConfig(store cache.Cache) pipeline.Config {
	pc := c.Config.Pipeline()
	pc.Cache = store
	pc.Keyer = c.keyer()
	pc.HTTP = httputil.NewClient(store,
		httputil.WithHTTPClient(&http.Client{Timeout: c.Config.API.Timeout.Duration}))
	pc.Logger = c.Logger
	return pc
}

// newCache returns the configured cache: nothing when disabled, Redis when
// an address is set, otherwise the file cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.Config.Cache
	if cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// keyer returns the key builder matching the configured cache.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.Cache.RedisAddr != "" {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisPrefix)
	}
	return cache.NewDefaultKeyer()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/moodmagic/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Package cli implements the archscape command-line interface.
//
// Running archscape without a subcommand builds the Coding Contest workspace,
// renders every view, writes the output directory and publishes to the
// configured targets. Subcommands inspect the workspace (views, browse),
// serve it over HTTP (serve) and manage the local cache (cache).
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. A log file
// rotated by size can be configured in archscape.toml:
//
//	[log]
//	file     = "archscape.log"
//	max_size = 10
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archscape/internal/codingcontest"
	"github.com/matzehuels/archscape/pkg/buildinfo"
	"github.com/matzehuels/archscape/pkg/cache"
	"github.com/matzehuels/archscape/pkg/config"
	"github.com/matzehuels/archscape/pkg/pipeline"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// appName is the application name used for directories and display.
const appName = "archscape"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	logFile    io.Closer
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile != nil {
		return c.logFile.Close()
	}
	return nil
}

// loadConfig reads the configuration and applies its log settings.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := c.configureLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildWorkspace builds the Coding Contest workspace with the configured
// name, description and extra themes.
func (c *CLI) buildWorkspace(ctx context.Context, cfg *config.Config) (*workspace.Workspace, error) {
	themes, err := cfg.LoadThemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}
	prog := newProgress(c.Logger)
	ws, err := codingcontest.Build(ctx, cfg.Workspace.Name, cfg.Workspace.Description, c.Logger, themes...)
	if err != nil {
		return nil, fmt.Errorf("build workspace: %w", err)
	}
	prog.done(fmt.Sprintf("Built workspace %q", ws.Name))
	return ws, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		var err error
		if store, err = cfg.OpenCache(ctx); err != nil {
			c.Logger.Warn("cache unavailable, continuing without it", "error", err)
			store = cache.NewNullCache()
		}
	}
	return pipeline.NewRunner(store, cache.NewScopedKeyer(nil, buildinfo.Version), c.Logger), nil
}

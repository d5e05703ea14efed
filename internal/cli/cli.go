// Package cli implements the wordcloud command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "wordcloud"

	// envRedisAddr selects a Redis layout cache for the serve command.
	envRedisAddr = "WORDCLOUD_REDIS_ADDR"
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
		Use:          appName,
		Short:        "Wordcloud lays out weighted words as clouds",
		Long:         `Wordcloud computes word cloud layouts from word lists, cloud files or plain text, renders them to SVG, and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newServerCache prefers a shared Redis cache when WORDCLOUD_REDIS_ADDR is set.
func (c *CLI) newServerCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	addr := os.Getenv(envRedisAddr)
	if noCache || addr == "" {
		return newCache(noCache)
	}
	rc, err := cache.NewRedisCache(ctx, addr)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", addr)
	return rc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/wordcloud/).
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

// outputPath derives an output file name from input when output is empty.
func outputPath(input, output, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// layoutFlags holds layout flags; zero values leave cloud file settings alone.
type layoutFlags struct {
	width, height float64
	spiral        string
	font          string
	fontScale     string
	rotation      string
	seed          uint64
	maxWords      int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default 800)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default 600)")
	cmd.Flags().StringVar(&f.spiral, "spiral", "", "spiral: archimedean (default), rectangular")
	cmd.Flags().StringVar(&f.font, "font", "", "font family (default Impact)")
	cmd.Flags().StringVar(&f.fontScale, "font-scale", "", "font size scale: sqrt (default), linear, log")
	cmd.Flags().StringVar(&f.rotation, "rotation", "", "rotation: random (default), none, orthogonal")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default 42)")
	cmd.Flags().IntVar(&f.maxWords, "max-words", 0, "maximum words counted from text (default 150)")
}

// apply overrides opts with every flag that was set.
func (f *layoutFlags) apply(opts *pipeline.Options) {
	if f.width != 0 {
		opts.Width = f.width
	}
	if f.height != 0 {
		opts.Height = f.height
	}
	if f.spiral != "" {
		opts.Spiral = f.spiral
	}
	if f.font != "" {
		opts.Font = f.font
	}
	if f.fontScale != "" {
		opts.FontScale = f.fontScale
	}
	if f.rotation != "" {
		opts.Rotation = f.rotation
	}
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	if f.maxWords != 0 {
		opts.MaxWords = f.maxWords
	}
}

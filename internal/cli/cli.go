// Package cli implements the pinroute command-line interface.
//
// This package provides commands for routing board designs, rendering the
// results as visualizations, inspecting net lists, serving the routing
// pipeline over HTTP, and managing the result cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - route: Route a design against a component catalog and write artifacts
//   - graph: Generate a net connectivity diagram without routing
//   - inspect: Browse a design's nets interactively
//   - serve: Run the routing pipeline as an HTTP service
//   - cache: Manage the result cache
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/buildinfo"
	"github.com/matzehuels/pinroute/pkg/cache"
	"github.com/matzehuels/pinroute/pkg/pipeline"
	"github.com/matzehuels/pinroute/pkg/route"
)

// appName is the application name used for directories and display.
const appName = "pinroute"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Short:        "Pinroute routes nets on single-layer board designs",
		Long:         `Pinroute is a CLI tool for routing point-to-point nets on single-layer board designs, using obstacle-avoiding search with rip-up and reroute when nets contend for space.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
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

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pinroute/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// loadConfig builds the routing configuration from the --config file and
// flag overrides. A seed of -1 means "not set on the command line".
func loadConfig(path string, seed int64) (*route.Config, error) {
	cfg := route.DefaultConfig()
	if path != "" {
		loaded, err := route.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if seed >= 0 {
		cfg.Seed = seed
	}
	return &cfg, nil
}

// loadDesign reads and validates a design and catalog pair from disk.
func loadDesign(designPath, catalogPath string) (*board.Design, *board.Catalog, error) {
	catalog, err := board.ReadCatalogFile(catalogPath)
	if err != nil {
		return nil, nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, nil, err
	}
	design, err := board.ReadDesignFile(designPath)
	if err != nil {
		return nil, nil, err
	}
	if err := design.Validate(catalog); err != nil {
		return nil, nil, err
	}
	return design, catalog, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// =============================================================================
// Artifact Output
// =============================================================================

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output carries
// a known format extension, that extension is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes rendered artifacts to disk, one file per format.
// With a single format and an explicit output path the artifact goes to
// that exact path; otherwise paths are derived as base.format.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := basePath(output, input)
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// Package pipeline provides the core routing pipeline for Pinroute.
//
// This package implements the complete load → route → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate the design and component catalog
//  2. Route: Run the routing search (cached by input content hash)
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DesignPath:  "board.json",
//	    CatalogPath: "catalog.json",
//	    Formats:     []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/route"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the default board plot scale in pixels per world unit.
	DefaultScale = 16.0

	// DefaultTraceWidth is the default trace stroke width in world units.
	DefaultTraceWidth = 0.3
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the routing pipeline.
// This struct supports JSON serialization for API requests: API clients
// send the design and catalog inline, the CLI loads them from paths.
type Options struct {
	// Load options. Inline documents win over paths.
	DesignPath  string         `json:"design_path,omitempty"`
	CatalogPath string         `json:"catalog_path,omitempty"`
	Design      *board.Design  `json:"design,omitempty"`
	Catalog     *board.Catalog `json:"catalog,omitempty"`

	// Route options. A nil Config uses route.DefaultConfig.
	Config  *route.Config `json:"config,omitempty"`
	Refresh bool          `json:"refresh,omitempty"` // bypass the result cache

	// Render options.
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`       // board plot pixels per world unit
	TraceWidth float64  `json:"trace_width,omitempty"` // trace stroke width in world units
	Labels     bool     `json:"labels,omitempty"`      // draw instance ids on the plot
	Detailed   bool     `json:"detailed,omitempty"`    // pin labels on DOT edges

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Design and Catalog are the loaded, validated inputs.
	Design  *board.Design
	Catalog *board.Catalog

	// Config is the effective routing configuration.
	Config route.Config

	// Route is the routing outcome.
	Route *route.Result

	// InputHash is the content hash of design+catalog, used as the cache
	// identity of this run's inputs.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NetCount   int
	FailedNets int
	LoadTime   time.Duration
	RouteTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RouteHit  bool // Whether the routing result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent - calling it multiple times
// has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading the inputs.
func (o *Options) ValidateForLoad() error {
	if o.Design == nil && o.DesignPath == "" {
		return fmt.Errorf("design or design_path is required")
	}
	if o.Catalog == nil && o.CatalogPath == "" {
		return fmt.Errorf("catalog or catalog_path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.TraceWidth == 0 {
		o.TraceWidth = DefaultTraceWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// EffectiveConfig returns the routing configuration to use: the explicit
// one when set, the defaults otherwise.
func (o *Options) EffectiveConfig() route.Config {
	if o.Config != nil {
		return *o.Config
	}
	return route.DefaultConfig()
}

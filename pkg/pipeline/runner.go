package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/cache"
	"github.com/matzehuels/pinroute/pkg/observability"
	"github.com/matzehuels/pinroute/pkg/render"
	"github.com/matzehuels/pinroute/pkg/render/boardsvg"
	"github.com/matzehuels/pinroute/pkg/render/netgraph"
	"github.com/matzehuels/pinroute/pkg/route"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → route → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	design, catalog, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Design = design
	result.Catalog = catalog
	result.Config = opts.EffectiveConfig()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NetCount = len(design.Nets)

	inputHash, err := hashInputs(design, catalog)
	if err != nil {
		return nil, fmt.Errorf("hash inputs: %w", err)
	}
	result.InputHash = inputHash

	r.Logger.Info("loaded design",
		"name", design.Name,
		"nets", len(design.Nets),
		"components", len(design.Placements),
		"duration", result.Stats.LoadTime)

	// Stage 2: Route
	routeStart := time.Now()
	observability.Pipeline().OnRouteStart(ctx, design.Name, len(design.Nets))
	routed, routeHit, err := r.RouteWithCacheInfo(ctx, design, catalog, result.Config, inputHash, opts)
	observability.Pipeline().OnRouteComplete(ctx, design.Name, time.Since(routeStart), err)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.Route = routed
	result.Stats.RouteTime = time.Since(routeStart)
	result.Stats.FailedNets = len(routed.FailedNets)
	result.CacheInfo.RouteHit = routeHit

	r.Logger.Info("routed nets",
		"status", routed.Status,
		"traces", len(routed.Traces),
		"failed", len(routed.FailedNets),
		"orderings", routed.Orderings,
		"ripped_up", routed.RippedUp,
		"duration", result.Stats.RouteTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, design, catalog, routed, inputHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the design and catalog, preferring inline
// documents over file paths.
func (r *Runner) Load(ctx context.Context, opts Options) (*board.Design, *board.Catalog, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}

	observability.Pipeline().OnLoadStart(ctx, opts.DesignPath)
	start := time.Now()

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		catalog, err = board.ReadCatalogFile(opts.CatalogPath)
		if err != nil {
			observability.Pipeline().OnLoadComplete(ctx, opts.DesignPath, 0, time.Since(start), err)
			return nil, nil, err
		}
	}
	design := opts.Design
	if design == nil {
		var err error
		design, err = board.ReadDesignFile(opts.DesignPath)
		if err != nil {
			observability.Pipeline().OnLoadComplete(ctx, opts.DesignPath, 0, time.Since(start), err)
			return nil, nil, err
		}
	}

	if err := catalog.Validate(); err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.DesignPath, 0, time.Since(start), err)
		return nil, nil, err
	}
	if err := design.Validate(catalog); err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.DesignPath, 0, time.Since(start), err)
		return nil, nil, err
	}

	observability.Pipeline().OnLoadComplete(ctx, opts.DesignPath, len(design.Nets), time.Since(start), nil)
	return design, catalog, nil
}

// RouteWithCacheInfo runs the routing search with caching and returns
// cache hit info. Identical inputs with the same configuration and seed
// always produce the same result, so a hit is exact, not approximate.
func (r *Runner) RouteWithCacheInfo(ctx context.Context, design *board.Design, catalog *board.Catalog, cfg route.Config, inputHash string, opts Options) (*route.Result, bool, error) {
	cfgHash, err := hashConfig(cfg)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.ResultKey(inputHash, cache.ResultKeyOpts{
		ConfigHash: cfgHash,
		Seed:       cfg.Seed,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached route.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return &cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	router, err := route.New(design, catalog, cfg)
	if err != nil {
		return nil, false, err
	}
	routed, err := router.Route(ctx)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(routed); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLResult); err == nil {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}
	return routed, false, nil
}

// Route is a convenience wrapper that loads, hashes, and routes in one
// call, discarding cache hit info.
func (r *Runner) Route(ctx context.Context, opts Options) (*route.Result, error) {
	design, catalog, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	inputHash, err := hashInputs(design, catalog)
	if err != nil {
		return nil, err
	}
	routed, _, err := r.RouteWithCacheInfo(ctx, design, catalog, opts.EffectiveConfig(), inputHash, opts)
	return routed, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, design *board.Design, catalog *board.Catalog, routed *route.Result, inputHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	resultData, err := json.Marshal(routed)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(append([]byte(inputHash), resultData...))

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(resultHash, renderKeyOpts(opts, format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	rendered, err := r.renderFormats(design, catalog, routed, resultData, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(resultHash, renderKeyOpts(opts, format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRender)
	}
	return rendered, false, nil
}

// renderFormats produces every requested artifact. PNG and PDF are
// conversions of the board SVG, so it is rendered once and reused.
func (r *Runner) renderFormats(design *board.Design, catalog *board.Catalog, routed *route.Result, resultData []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var boardSVG []byte
	plot := func() []byte {
		if boardSVG == nil {
			plotOpts := []boardsvg.RenderOption{
				boardsvg.WithScale(opts.Scale),
				boardsvg.WithTraceWidth(opts.TraceWidth),
			}
			if opts.Labels {
				plotOpts = append(plotOpts, boardsvg.WithLabels())
			}
			boardSVG = boardsvg.Render(design, catalog, routed, plotOpts...)
		}
		return boardSVG
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = plot()
		case FormatPNG:
			png, err := render.ToPNG(plot(), 2.0)
			if err != nil {
				return nil, err
			}
			artifacts[format] = png
		case FormatPDF:
			pdf, err := render.ToPDF(plot())
			if err != nil {
				return nil, err
			}
			artifacts[format] = pdf
		case FormatDOT:
			artifacts[format] = []byte(netgraph.ToDOT(design, netgraph.Options{Detailed: opts.Detailed}))
		case FormatJSON:
			artifacts[format] = resultData
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func renderKeyOpts(opts Options, format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:     format,
		Width:      int(opts.Scale),
		Labels:     opts.Labels,
		TraceWidth: opts.TraceWidth,
	}
}

// hashInputs produces the cache identity of a design+catalog pair.
func hashInputs(design *board.Design, catalog *board.Catalog) (string, error) {
	d, err := json.Marshal(design)
	if err != nil {
		return "", err
	}
	c, err := json.Marshal(catalog)
	if err != nil {
		return "", err
	}
	return cache.Hash(append(d, c...)), nil
}

func hashConfig(cfg route.Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

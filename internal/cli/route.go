package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/pipeline"
	"github.com/matzehuels/pinroute/pkg/route"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	catalog    string // component catalog path
	configPath string // TOML routing config path
	seed       int64  // ordering seed override (-1 = use config)
	output     string // output file (single format) or base path
	resolved   string // write the design with allocations applied here
	labels     bool   // draw instance ids on the board plot
	detailed   bool   // pin labels on DOT edges
	scale      float64
	traceWidth float64
	noCache    bool
	refresh    bool
}

// routeCommand creates the route command, the main entry point of the CLI.
func (c *CLI) routeCommand() *cobra.Command {
	var formatsStr string
	opts := routeOpts{seed: -1, scale: pipeline.DefaultScale, traceWidth: pipeline.DefaultTraceWidth}

	cmd := &cobra.Command{
		Use:   "route [design.json]",
		Short: "Route a design and render the result",
		Long: `Route a design against a component catalog.

The route command runs the full pipeline: it loads and validates the design
and catalog, routes every net, and renders the outcome in the requested
formats. Routing results are cached by input content, so repeated runs on
an unchanged design are instant; use --refresh to force a re-route.

A routing run can end in two ways: success, where every net is connected,
or exhaustion, where some nets stay unrouted after the search budget is
spent. Exhaustion still produces artifacts with the unrouted nets listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRoute(cmd.Context(), args[0], formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.catalog, "catalog", "c", "catalog.json", "component catalog file")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "routing config file (TOML)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "ordering seed (overrides config)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.resolved, "resolved", "", "also write the design with group references resolved to allocated pins")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw instance ids on the board plot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show pin labels on the net diagram")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "board plot scale in pixels per world unit")
	cmd.Flags().Float64Var(&opts.traceWidth, "trace-width", opts.traceWidth, "trace stroke width on the board plot in world units")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the result cache and re-route")

	return cmd
}

// runRoute executes the pipeline and writes the artifacts.
func (c *CLI) runRoute(ctx context.Context, designPath string, formats []string, opts *routeOpts) error {
	cfg, err := loadConfig(opts.configPath, opts.seed)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Routing...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		DesignPath:  designPath,
		CatalogPath: opts.catalog,
		Config:      cfg,
		Refresh:     opts.refresh,
		Formats:     formats,
		Scale:       opts.scale,
		TraceWidth:  opts.traceWidth,
		Labels:      opts.labels,
		Detailed:    opts.detailed,
		Logger:      c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Routing failed")
		return err
	}
	spinner.Stop()

	printRouteSummary(result)
	if err := writeArtifacts(result.Artifacts, formats, designPath, opts.output); err != nil {
		return err
	}
	if opts.resolved != "" {
		if err := board.WriteDesignFile(result.Route.ResolvedDesign(result.Design), opts.resolved); err != nil {
			return fmt.Errorf("write resolved design: %w", err)
		}
		printFile(opts.resolved)
	}

	if result.Route.Status == route.StatusExhausted {
		printNextStep("Try a different seed", fmt.Sprintf("%s route %s --seed %d --refresh", appName, designPath, cfg.Seed+1))
	}
	return nil
}

// printRouteSummary prints the outcome line and per-run statistics.
func printRouteSummary(result *pipeline.Result) {
	routed := result.Stats.NetCount - result.Stats.FailedNets
	switch result.Route.Status {
	case route.StatusSuccess:
		printSuccess("Routed %d/%d nets", routed, result.Stats.NetCount)
	default:
		printWarning("Routed %d/%d nets, %d unrouted", routed, result.Stats.NetCount, result.Stats.FailedNets)
		printDetail("Unrouted: %s", strings.Join(result.Route.FailedNets, ", "))
	}
	printStats(result.Stats.NetCount, result.Route.Orderings, result.CacheInfo.RouteHit)
}

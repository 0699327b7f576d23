package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinroute/pkg/pipeline"
	"github.com/matzehuels/pinroute/pkg/render/netgraph"
)

// graphCommand creates the graph command for net connectivity diagrams.
// Unlike route, this never runs the router: it only shows which instances
// each net ties together, which is useful before a design is routable.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		catalog  string
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [design.json]",
		Short: "Generate a net connectivity diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			return c.runGraph(args[0], catalog, format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&catalog, "catalog", "c", "catalog.json", "component catalog file")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot (default), svg, pdf, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show pin labels on edges")

	return cmd
}

func (c *CLI) runGraph(designPath, catalogPath, format, output string, detailed bool) error {
	design, _, err := loadDesign(designPath, catalogPath)
	if err != nil {
		return err
	}

	dot := netgraph.ToDOT(design, netgraph.Options{Detailed: detailed})

	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = netgraph.RenderSVG(dot)
	case pipeline.FormatPDF:
		data, err = netgraph.RenderPDF(dot)
	case pipeline.FormatPNG:
		data, err = netgraph.RenderPNG(dot, 2.0)
	default:
		return fmt.Errorf("format %q has no net diagram rendering", format)
	}
	if err != nil {
		return err
	}

	printInfo("Net diagram for %s (%d nets)", design.Name, len(design.Nets))
	return writeArtifacts(map[string][]byte{format: data}, []string{format}, designPath, output)
}

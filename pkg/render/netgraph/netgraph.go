// Package netgraph renders net connectivity as a bipartite Graphviz graph.
//
// Component instances appear as boxes and nets as ellipses, with one edge
// per pin reference. The diagram shows what must be connected without any
// board geometry, which makes it useful for reviewing a net list before
// routing or for diagnosing an exhausted run.
//
//	dot := netgraph.ToDOT(design, netgraph.Options{Detailed: true})
//	svg, err := netgraph.RenderSVG(dot)
package netgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/render"
)

// Options configures connectivity diagram rendering.
type Options struct {
	// Detailed labels each edge with the referenced pin or group.
	// When false, edges are unlabeled.
	Detailed bool
}

// ToDOT converts a design's net list to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF],
// or [RenderPNG].
//
// Only instances referenced by at least one net appear; unconnected
// mechanical parts would just clutter the diagram.
func ToDOT(design *board.Design, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph nets {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	referenced := make(map[string]bool)
	for _, n := range design.Nets {
		for _, ref := range n.Pins {
			referenced[ref.Instance] = true
		}
	}
	for _, p := range design.Placements {
		if referenced[p.ID] {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", "inst:"+p.ID, p.ID)
		}
	}

	buf.WriteString("\n")
	for _, n := range design.Nets {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightyellow, fontsize=12];\n",
			"net:"+n.ID, n.ID)
		for _, ref := range n.Pins {
			if opts.Detailed {
				fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=10];\n",
					"inst:"+ref.Instance, "net:"+n.ID, ref.Pin)
			} else {
				fmt.Fprintf(&buf, "  %q -- %q;\n", "inst:"+ref.Instance, "net:"+n.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

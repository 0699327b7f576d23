// Package render provides visual output for routed designs.
//
// # Overview
//
// This package contains the rendering layer that turns routing results
// into reviewable artifacts. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Board plots (in [boardsvg] subpackage)
//   - Net connectivity diagrams (in [netgraph] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// renderers.
//
//	svg, err := boardsvg.Render(design, catalog, result, boardsvg.Options{})
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Board Plots
//
// The [boardsvg] subpackage draws the board itself: outline, component
// footprints, pins, and the committed traces color-coded per net. Failed
// nets are listed in a caption so an exhausted run is visible at a glance.
//
// # Net Connectivity Diagrams
//
// The [netgraph] subpackage renders the net list as a bipartite graph
// using Graphviz: component instances as boxes, nets as ellipses, one
// edge per pin reference. Useful for reviewing connectivity before or
// independently of routing.
//
//	dot := netgraph.ToDOT(design, netgraph.Options{})
//	svg, err := netgraph.RenderSVG(dot)
//
// [boardsvg]: github.com/matzehuels/pinroute/pkg/render/boardsvg
// [netgraph]: github.com/matzehuels/pinroute/pkg/render/netgraph
package render

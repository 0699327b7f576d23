// Package boardsvg draws routed boards as standalone SVG documents.
//
// The plot shows the outline, component footprints with their pins, and
// the committed traces color-coded per net. When a run ends exhausted,
// the failed nets are listed in a caption under the board so the gap is
// visible without reading the result JSON.
//
//	svg := boardsvg.Render(design, catalog, result,
//	    boardsvg.WithScale(20),
//	    boardsvg.WithLabels())
package boardsvg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/route"
)

// netPalette cycles across nets in net-list order. Colors are spaced for
// adjacent distinguishability rather than aesthetics.
var netPalette = []string{
	"#1f77b4", "#d62728", "#2ca02c", "#9467bd", "#ff7f0e",
	"#17becf", "#e377c2", "#8c564b", "#bcbd22", "#7f7f7f",
}

const captionHeight = 24.0

// RenderOption configures a board plot.
type RenderOption func(*renderer)

type renderer struct {
	scale      float64
	traceWidth float64
	labels     bool
	padding    float64
	gridStep   float64 // 0 = no overlay
}

// WithScale sets pixels per world unit. The default is 16.
func WithScale(s float64) RenderOption { return func(r *renderer) { r.scale = s } }

// WithTraceWidth sets the trace stroke width in world units. The default
// is 0.3.
func WithTraceWidth(w float64) RenderOption { return func(r *renderer) { r.traceWidth = w } }

// WithLabels draws instance ids on component bodies.
func WithLabels() RenderOption { return func(r *renderer) { r.labels = true } }

// WithGridOverlay draws routing grid lines at the given cell size in
// world units, which helps when debugging why a trace takes a detour.
func WithGridOverlay(cellSize float64) RenderOption {
	return func(r *renderer) { r.gridStep = cellSize }
}

// Render draws the design and routing result as a complete SVG document.
// A nil result plots the bare board, which is useful before routing.
func Render(design *board.Design, catalog *board.Catalog, result *route.Result, opts ...RenderOption) []byte {
	r := renderer{scale: 16, traceWidth: 0.3, padding: 1}
	for _, opt := range opts {
		opt(&r)
	}

	bounds := board.BoundingBox(design.Outline)
	bounds = bounds.Expand(r.padding)
	width := (bounds.MaxX - bounds.MinX) * r.scale
	height := (bounds.MaxY - bounds.MinY) * r.scale

	totalHeight := height
	if result != nil && len(result.FailedNets) > 0 {
		totalHeight += captionHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, totalHeight, width, totalHeight)
	fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="#fcfcf8"/>`+"\n", width, totalHeight)

	r.renderOutline(&buf, design, bounds)
	r.renderGrid(&buf, bounds)
	r.renderPlacements(&buf, design, catalog, bounds)
	if result != nil {
		r.renderTraces(&buf, design, result, bounds)
		r.renderCaption(&buf, result, height, width)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// x and y map world coordinates to SVG space. The board's Y axis points
// up, SVG's points down, so Y is flipped against the bounding box.
func (r *renderer) x(b board.Rect, wx float64) float64 { return (wx - b.MinX) * r.scale }
func (r *renderer) y(b board.Rect, wy float64) float64 { return (b.MaxY - wy) * r.scale }

func (r *renderer) renderOutline(buf *bytes.Buffer, design *board.Design, bounds board.Rect) {
	pts := make([]string, len(design.Outline))
	for i, p := range design.Outline {
		pts[i] = fmt.Sprintf("%.2f,%.2f", r.x(bounds, p.X), r.y(bounds, p.Y))
	}
	fmt.Fprintf(buf, `<polygon points="%s" fill="#e8f0e0" stroke="#556b2f" stroke-width="2"/>`+"\n",
		strings.Join(pts, " "))
}

// renderGrid draws faint cell boundaries across the bounding box. Lines
// are anchored at integer multiples of the step so they line up with the
// grid the router actually searched.
func (r *renderer) renderGrid(buf *bytes.Buffer, bounds board.Rect) {
	if r.gridStep <= 0 {
		return
	}
	buf.WriteString(`<g stroke="#c0c8b8" stroke-width="0.5">` + "\n")
	for wx := bounds.MinX; wx <= bounds.MaxX; wx += r.gridStep {
		fmt.Fprintf(buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			r.x(bounds, wx), r.y(bounds, bounds.MaxY), r.x(bounds, wx), r.y(bounds, bounds.MinY))
	}
	for wy := bounds.MinY; wy <= bounds.MaxY; wy += r.gridStep {
		fmt.Fprintf(buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			r.x(bounds, bounds.MinX), r.y(bounds, wy), r.x(bounds, bounds.MaxX), r.y(bounds, wy))
	}
	buf.WriteString("</g>\n")
}

func (r *renderer) renderPlacements(buf *bytes.Buffer, design *board.Design, catalog *board.Catalog, bounds board.Rect) {
	for _, place := range design.Placements {
		def, ok := catalog.Component(place.Catalog)
		if !ok {
			continue
		}
		body := place.BodyRect(def)
		fill := "#ffffff"
		if def.BlocksRouting {
			fill = "#d8d8d8"
		}
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#444" stroke-width="1" rx="2"/>`+"\n",
			r.x(bounds, body.MinX), r.y(bounds, body.MaxY),
			(body.MaxX-body.MinX)*r.scale, (body.MaxY-body.MinY)*r.scale, fill)

		for _, pin := range def.Pins {
			pos := place.PinPosition(pin)
			fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#b8860b" stroke="#444" stroke-width="0.5"/>`+"\n",
				r.x(bounds, pos.X), r.y(bounds, pos.Y), 0.25*r.scale)
		}

		if r.labels {
			fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-size="%.1f" font-family="monospace" text-anchor="middle">%s</text>`+"\n",
				r.x(bounds, place.X), r.y(bounds, body.MaxY)-2, 0.6*r.scale, place.ID)
		}
	}
}

func (r *renderer) renderTraces(buf *bytes.Buffer, design *board.Design, result *route.Result, bounds board.Rect) {
	colors := make(map[string]string, len(design.Nets))
	for i, n := range design.Nets {
		colors[n.ID] = netPalette[i%len(netPalette)]
	}

	for _, trace := range result.Traces {
		pts := make([]string, len(trace.Waypoints))
		for i, p := range trace.Waypoints {
			pts[i] = fmt.Sprintf("%.2f,%.2f", r.x(bounds, p.X), r.y(bounds, p.Y))
		}
		fmt.Fprintf(buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"><title>%s</title></polyline>`+"\n",
			strings.Join(pts, " "), colors[trace.Net], r.traceWidth*r.scale, trace.Net)
	}
}

func (r *renderer) renderCaption(buf *bytes.Buffer, result *route.Result, boardHeight, width float64) {
	if len(result.FailedNets) == 0 {
		return
	}
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="14" font-family="monospace" fill="#b22222" text-anchor="middle">unrouted: %s</text>`+"\n",
		width/2, boardHeight+captionHeight-8, strings.Join(result.FailedNets, ", "))
}

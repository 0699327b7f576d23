package boardsvg

import (
	"strings"
	"testing"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/route"
)

func fixture() (*board.Design, *board.Catalog) {
	catalog := &board.Catalog{Components: []board.ComponentDef{
		{
			ID:   "pad",
			Body: board.Body{Width: 1, Height: 1},
			Pins: []board.Pin{{ID: "p"}},
		},
		{
			ID:            "ic",
			Body:          board.Body{Width: 4, Height: 4},
			BlocksRouting: true,
			Pins:          []board.Pin{{ID: "1", X: -2}},
		},
	}}
	design := &board.Design{
		Name:    "fixture",
		Outline: []board.Point{{X: 0, Y: 0}, {X: 0, Y: 12}, {X: 20, Y: 12}, {X: 20, Y: 0}},
		Placements: []board.Placement{
			{ID: "a", Catalog: "pad", X: 4, Y: 6},
			{ID: "u1", Catalog: "ic", X: 14, Y: 6},
		},
		Nets: []board.Net{
			{ID: "sig", Pins: []board.PinRef{
				{Instance: "a", Pin: "p"},
				{Instance: "u1", Pin: "1"},
			}},
		},
	}
	return design, catalog
}

func TestRenderBareBoard(t *testing.T) {
	design, catalog := fixture()
	svg := string(Render(design, catalog, nil))

	if !strings.HasPrefix(svg, "<svg xmlns=") {
		t.Fatalf("not an SVG document:\n%.100s", svg)
	}
	if !strings.Contains(svg, "<polygon") {
		t.Error("missing outline polygon")
	}
	if strings.Count(svg, "<rect") < 3 { // background + two bodies
		t.Error("missing component body rects")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("missing pin markers")
	}
	if strings.Contains(svg, "<polyline") {
		t.Error("bare board should have no traces")
	}
}

func TestRenderTracesAndCaption(t *testing.T) {
	design, catalog := fixture()
	result := &route.Result{
		Status: route.StatusExhausted,
		Traces: []route.Trace{
			{Net: "sig", Waypoints: []board.Point{{X: 4, Y: 6}, {X: 12, Y: 6}}},
		},
		FailedNets: []string{"net_gnd"},
	}
	svg := string(Render(design, catalog, result))

	if !strings.Contains(svg, "<polyline") {
		t.Error("missing trace polyline")
	}
	if !strings.Contains(svg, "<title>sig</title>") {
		t.Error("trace should carry its net id as a tooltip")
	}
	if !strings.Contains(svg, "unrouted: net_gnd") {
		t.Error("missing failed-net caption")
	}
}

func TestRenderLabels(t *testing.T) {
	design, catalog := fixture()

	plain := string(Render(design, catalog, nil))
	if strings.Contains(plain, ">u1<") {
		t.Error("labels should be off by default")
	}
	labeled := string(Render(design, catalog, nil, WithLabels()))
	if !strings.Contains(labeled, ">u1<") {
		t.Error("WithLabels should draw instance ids")
	}
}

func TestRenderGridOverlay(t *testing.T) {
	design, catalog := fixture()

	plain := string(Render(design, catalog, nil))
	if strings.Contains(plain, "<line") {
		t.Error("grid overlay should be off by default")
	}
	gridded := string(Render(design, catalog, nil, WithGridOverlay(1.0)))
	// Bounds are 22x14 after padding: 23 vertical + 15 horizontal lines.
	if got := strings.Count(gridded, "<line"); got != 38 {
		t.Errorf("grid line count = %d, want 38", got)
	}
}

func TestRenderYAxisFlip(t *testing.T) {
	design, catalog := fixture()
	// With padding 1 and scale 16, world (4,6) maps to ((4+1)*16, (13-6)*16).
	svg := string(Render(design, catalog, &route.Result{
		Status: route.StatusSuccess,
		Traces: []route.Trace{{Net: "sig", Waypoints: []board.Point{{X: 4, Y: 6}, {X: 12, Y: 6}}}},
	}))
	if !strings.Contains(svg, `points="80.00,112.00 208.00,112.00"`) {
		t.Errorf("trace coordinates not mapped as expected:\n%s", svg)
	}
}

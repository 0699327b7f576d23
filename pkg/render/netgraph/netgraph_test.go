package netgraph

import (
	"strings"
	"testing"

	"github.com/matzehuels/pinroute/pkg/board"
)

func testDesign() *board.Design {
	return &board.Design{
		Outline: []board.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}},
		Placements: []board.Placement{
			{ID: "mcu_1", Catalog: "mcu", X: 3, Y: 3},
			{ID: "led_1", Catalog: "led", X: 7, Y: 7},
			{ID: "hole_1", Catalog: "hole", X: 1, Y: 1}, // mechanical, no nets
		},
		Nets: []board.Net{
			{ID: "sig", Pins: []board.PinRef{
				{Instance: "mcu_1", Pin: "PD2"},
				{Instance: "led_1", Pin: "a"},
			}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDesign(), Options{})

	for _, want := range []string{
		`"inst:mcu_1"`,
		`"inst:led_1"`,
		`"net:sig"`,
		`"inst:mcu_1" -- "net:sig"`,
		`"inst:led_1" -- "net:sig"`,
		"graph nets {",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Instances without net references stay out of the diagram.
	if strings.Contains(dot, "hole_1") {
		t.Error("unreferenced instance should not appear in DOT")
	}
	// Undirected edges only.
	if strings.Contains(dot, "->") {
		t.Error("connectivity graph should use undirected edges")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testDesign(), Options{Detailed: true})
	if !strings.Contains(dot, `label="PD2"`) {
		t.Errorf("detailed DOT should label edges with pins:\n%s", dot)
	}

	plain := ToDOT(testDesign(), Options{})
	if strings.Contains(plain, `label="PD2"`) {
		t.Error("plain DOT should not label edges")
	}
}

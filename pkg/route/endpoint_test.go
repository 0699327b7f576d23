package route

import (
	"reflect"
	"testing"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/errors"
)

func resolverFixture() (*board.Design, *board.Catalog) {
	catalog := &board.Catalog{Components: []board.ComponentDef{
		{
			ID:   "pad",
			Body: board.Body{Width: 1, Height: 1},
			Pins: []board.Pin{{ID: "p"}},
		},
		{
			ID:   "hdr4",
			Body: board.Body{Width: 4, Height: 1},
			Pins: []board.Pin{
				{ID: "1", X: -1.5},
				{ID: "2", X: -0.5},
				{ID: "3", X: 0.5},
				{ID: "4", X: 1.5},
			},
			Groups: []board.PinGroup{
				{ID: "gpio", Pins: []string{"1", "2", "3"}, Allocatable: true},
				{ID: "gnd", Pins: []string{"4"}, FixedNet: "net_gnd"},
				{ID: "locked", Pins: []string{"2"}, Allocatable: false},
			},
		},
	}}
	design := &board.Design{
		Outline: []board.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}},
		Placements: []board.Placement{
			{ID: "h", Catalog: "hdr4", X: 5, Y: 5},
			{ID: "t", Catalog: "pad", X: 8, Y: 8},
		},
	}
	return design, catalog
}

func TestResolveConcretePin(t *testing.T) {
	design, catalog := resolverFixture()
	r := NewResolver(design, catalog)

	ep, err := r.Resolve(board.PinRef{Instance: "h", Pin: "1"}, "net_a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ep.Kind != KindResolved {
		t.Fatalf("Kind = %v, want KindResolved", ep.Kind)
	}
	if want := (board.Point{X: 3.5, Y: 5}); ep.Point != want {
		t.Errorf("Point = %v, want %v", ep.Point, want)
	}

	// Same pin from another net is rejected; from the same net it is fine.
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "1"}, "net_b"); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("cross-net reuse: err = %v, want INVALID_REFERENCE", err)
	}
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "1"}, "net_a"); err != nil {
		t.Errorf("same-net reuse: err = %v, want nil", err)
	}
}

func TestResolveGroupCandidates(t *testing.T) {
	design, catalog := resolverFixture()
	r := NewResolver(design, catalog)

	// Consuming pin 2 concretely shrinks the group's candidate pool.
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "2"}, "net_x"); err != nil {
		t.Fatalf("Resolve concrete: %v", err)
	}

	ep, err := r.Resolve(board.PinRef{Instance: "h", Pin: "gpio"}, "net_a")
	if err != nil {
		t.Fatalf("Resolve group: %v", err)
	}
	if ep.Kind != KindPending {
		t.Fatalf("Kind = %v, want KindPending", ep.Kind)
	}
	var pins []string
	for _, c := range ep.Candidates {
		pins = append(pins, c.Pin)
	}
	if want := []string{"1", "3"}; !reflect.DeepEqual(pins, want) {
		t.Errorf("candidates = %v, want %v", pins, want)
	}
}

func TestResolveFixedNetGroup(t *testing.T) {
	design, catalog := resolverFixture()
	r := NewResolver(design, catalog)

	// The bound net may use the group and the member pin.
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "gnd"}, "net_gnd"); err != nil {
		t.Errorf("bound net via group: %v", err)
	}
	// Other nets may not, via the group or the member directly.
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "gnd"}, "net_a"); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("foreign net via group: err = %v, want INVALID_REFERENCE", err)
	}
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "4"}, "net_a"); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("foreign net via member pin: err = %v, want INVALID_REFERENCE", err)
	}
}

func TestResolveNonAllocatableGroup(t *testing.T) {
	design, catalog := resolverFixture()
	r := NewResolver(design, catalog)

	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "locked"}, "net_a"); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("err = %v, want INVALID_REFERENCE", err)
	}
}

func TestResolveUnknownTargets(t *testing.T) {
	design, catalog := resolverFixture()
	r := NewResolver(design, catalog)

	if _, err := r.Resolve(board.PinRef{Instance: "ghost", Pin: "p"}, "n"); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("unknown instance: err = %v, want INVALID_REFERENCE", err)
	}
	if _, err := r.Resolve(board.PinRef{Instance: "h", Pin: "nope"}, "n"); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("unknown pin: err = %v, want INVALID_REFERENCE", err)
	}
}

func TestCommitAndReleaseNet(t *testing.T) {
	design, catalog := resolverFixture()
	r := NewResolver(design, catalog)

	ep, err := r.Resolve(board.PinRef{Instance: "h", Pin: "gpio"}, "net_a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	r.Commit(&ep, ep.Candidates[0], "net_a")
	if ep.Kind != KindResolved || ep.Pin != "1" {
		t.Fatalf("after Commit: kind=%v pin=%q, want resolved pin 1", ep.Kind, ep.Pin)
	}

	// The committed pin left the pool.
	ep2, _ := r.Resolve(board.PinRef{Instance: "h", Pin: "gpio"}, "net_b")
	if len(ep2.Candidates) != 2 {
		t.Fatalf("pool after commit = %d candidates, want 2", len(ep2.Candidates))
	}

	// Ripping up net_a returns its pin; net_b's consumption survives.
	r.Commit(&ep2, ep2.Candidates[0], "net_b")
	r.ReleaseNet("net_a")
	ep3, _ := r.Resolve(board.PinRef{Instance: "h", Pin: "gpio"}, "net_c")
	var pins []string
	for _, c := range ep3.Candidates {
		pins = append(pins, c.Pin)
	}
	if want := []string{"1", "3"}; !reflect.DeepEqual(pins, want) {
		t.Errorf("pool after ReleaseNet = %v, want %v", pins, want)
	}
}

func TestResolverCloneIsIndependent(t *testing.T) {
	design, catalog := resolverFixture()
	base := NewResolver(design, catalog)

	clone := base.Clone()
	if _, err := clone.Resolve(board.PinRef{Instance: "h", Pin: "1"}, "net_a"); err != nil {
		t.Fatalf("Resolve on clone: %v", err)
	}

	// The base pool is untouched.
	ep, _ := base.Resolve(board.PinRef{Instance: "h", Pin: "gpio"}, "net_b")
	if len(ep.Candidates) != 3 {
		t.Errorf("base pool = %d candidates after clone consumed one, want 3", len(ep.Candidates))
	}
}

func TestEndpointEstimate(t *testing.T) {
	resolved := Endpoint{Kind: KindResolved, Point: board.Point{X: 2, Y: 3}}
	if got := resolved.Estimate(); got != (board.Point{X: 2, Y: 3}) {
		t.Errorf("resolved Estimate = %v", got)
	}

	pending := Endpoint{Kind: KindPending, Candidates: []Candidate{
		{Pin: "1", Point: board.Point{X: 0, Y: 0}},
		{Pin: "2", Point: board.Point{X: 4, Y: 2}},
	}}
	if got := pending.Estimate(); got != (board.Point{X: 2, Y: 1}) {
		t.Errorf("pending Estimate = %v, want centroid (2,1)", got)
	}
}

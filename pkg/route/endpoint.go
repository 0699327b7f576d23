package route

import (
	"sort"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/errors"
)

// EndpointKind distinguishes resolved endpoints from those awaiting
// dynamic pin allocation.
type EndpointKind int

const (
	// KindResolved means the endpoint has a concrete world coordinate.
	KindResolved EndpointKind = iota
	// KindPending means the endpoint references a pin group; a concrete
	// member is chosen by the allocator when the connection is attempted.
	KindPending
)

// Candidate is one allocatable member of a pending endpoint's group.
type Candidate struct {
	Pin   string // concrete pin id
	Point board.Point
}

// Endpoint is one side of a connection task: a tagged variant over
// resolved and pending pin references. Only the allocator transitions
// Pending to Resolved.
type Endpoint struct {
	Kind EndpointKind
	Ref  board.PinRef

	// Resolved state.
	Pin   string
	Point board.Point

	// Pending state.
	Candidates []Candidate
}

// Estimate returns the endpoint's position for distance estimation:
// the resolved point, or the centroid of the remaining candidates.
func (e Endpoint) Estimate() board.Point {
	if e.Kind == KindResolved || len(e.Candidates) == 0 {
		return e.Point
	}
	var sx, sy float64
	for _, c := range e.Candidates {
		sx += c.Point.X
		sy += c.Point.Y
	}
	n := float64(len(e.Candidates))
	return board.Point{X: sx / n, Y: sy / n}
}

// Resolver converts pin references into endpoints and enforces the
// one-net-per-pin invariant. It tracks which concrete pins have been
// consumed (by concrete references, fixed-net bindings, or allocations)
// over the course of one routing attempt.
type Resolver struct {
	design  *board.Design
	catalog *board.Catalog

	consumed map[string]string // "inst:pin" -> consuming net
	reserved map[string]string // "inst:pin" -> net a fixed-net group binds it to
}

// NewResolver builds a resolver for the design. Pins belonging to
// fixed-net groups are reserved up front: only the bound net may use
// them, whether referenced concretely or through the group.
func NewResolver(design *board.Design, catalog *board.Catalog) *Resolver {
	r := &Resolver{
		design:   design,
		catalog:  catalog,
		consumed: make(map[string]string),
		reserved: make(map[string]string),
	}
	for _, place := range design.Placements {
		def, ok := catalog.Component(place.Catalog)
		if !ok {
			continue // design validation rejects this before routing
		}
		for _, g := range def.Groups {
			if g.FixedNet == "" {
				continue
			}
			for _, pin := range g.Pins {
				r.reserved[place.ID+":"+pin] = g.FixedNet
			}
		}
	}
	return r
}

// Clone returns an independent copy for a fresh routing attempt.
func (r *Resolver) Clone() *Resolver {
	c := &Resolver{
		design:   r.design,
		catalog:  r.catalog,
		consumed: make(map[string]string, len(r.consumed)),
		reserved: r.reserved, // immutable after construction
	}
	for k, v := range r.consumed {
		c.consumed[k] = v
	}
	return c
}

// Resolve converts a pin reference into an endpoint for the given net.
//
// A concrete reference is consumed immediately. A group reference
// returns a pending endpoint carrying the group's free members; an empty
// candidate set is returned as-is and surfaces later as an exhausted
// pool when the connection is attempted.
func (r *Resolver) Resolve(ref board.PinRef, netID string) (Endpoint, error) {
	place, ok := r.design.Placement(ref.Instance)
	if !ok {
		return Endpoint{}, errors.New(errors.ErrCodeInvalidReference, "unknown instance: %s", ref.Instance)
	}
	def, ok := r.catalog.Component(place.Catalog)
	if !ok {
		return Endpoint{}, errors.New(errors.ErrCodeComponentNotFound, "unknown catalog component: %s", place.Catalog)
	}

	if pin, isPin := def.Pin(ref.Pin); isPin {
		key := ref.String()
		if net, taken := r.consumed[key]; taken && net != netID {
			return Endpoint{}, errors.New(errors.ErrCodeInvalidReference, "pin %s already consumed by net %s", key, net)
		}
		if net, bound := r.reserved[key]; bound && net != netID {
			return Endpoint{}, errors.New(errors.ErrCodeInvalidReference, "pin %s is bound to net %s", key, net)
		}
		r.consumed[key] = netID
		return Endpoint{
			Kind:  KindResolved,
			Ref:   ref,
			Pin:   ref.Pin,
			Point: place.PinPosition(pin),
		}, nil
	}

	group, isGroup := def.Group(ref.Pin)
	if !isGroup {
		return Endpoint{}, errors.New(errors.ErrCodeInvalidReference, "component %s has no pin or group %q", place.Catalog, ref.Pin)
	}
	if group.FixedNet != "" && group.FixedNet != netID {
		return Endpoint{}, errors.New(errors.ErrCodeInvalidReference, "group %s:%s is bound to net %s", ref.Instance, ref.Pin, group.FixedNet)
	}
	if group.FixedNet == "" && !group.Allocatable {
		return Endpoint{}, errors.New(errors.ErrCodeInvalidReference, "group %s:%s is not allocatable", ref.Instance, ref.Pin)
	}

	var candidates []Candidate
	for _, member := range group.Pins {
		key := ref.Instance + ":" + member
		if _, taken := r.consumed[key]; taken {
			continue
		}
		if net, bound := r.reserved[key]; bound && net != netID {
			continue
		}
		pin, _ := def.Pin(member)
		candidates = append(candidates, Candidate{Pin: member, Point: place.PinPosition(pin)})
	}
	// Stable candidate order keeps allocation ties deterministic.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Pin < candidates[j].Pin })

	return Endpoint{Kind: KindPending, Ref: ref, Candidates: candidates}, nil
}

// ReleaseNet returns every pin consumed by the net to the pool, e.g.
// after the net is ripped up. Fixed-net reservations are untouched.
func (r *Resolver) ReleaseNet(netID string) {
	for key, net := range r.consumed {
		if net == netID {
			delete(r.consumed, key)
		}
	}
}

// Commit finalizes an allocation: the pin leaves the pool for the rest
// of the attempt and the endpoint becomes resolved.
func (r *Resolver) Commit(e *Endpoint, c Candidate, netID string) {
	r.consumed[e.Ref.Instance+":"+c.Pin] = netID
	e.Kind = KindResolved
	e.Pin = c.Pin
	e.Point = c.Point
	e.Candidates = nil
}

package route

import (
	"github.com/matzehuels/pinroute/pkg/board"
)

// Status is the terminal state of a routing run.
type Status string

const (
	// StatusSuccess means every net routed.
	StatusSuccess Status = "success"
	// StatusExhausted means the budgets were spent (or the run was
	// cancelled) before every net routed; the result holds the best
	// attempt found.
	StatusExhausted Status = "exhausted"
)

// Trace is one committed Manhattan polyline of a net, stored as its
// direction-change corner waypoints in world coordinates. Multi-pin nets
// produce one trace per connection task.
type Trace struct {
	Net       string        `json:"net" bson:"net"`
	Waypoints []board.Point `json:"waypoints" bson:"waypoints"`
}

// Assignment records the concrete pin a group reference resolved to.
// Keys are net-qualified because two nets may reference the same group.
type Assignment struct {
	Net string `json:"net" bson:"net"`
	Ref string `json:"ref" bson:"ref"` // e.g. "mcu_1:gpio"
	Pin string `json:"pin" bson:"pin"` // e.g. "mcu_1:PD2"
}

// Result is the immutable outcome of one routing run.
type Result struct {
	Status      Status       `json:"status" bson:"status"`
	Traces      []Trace      `json:"traces" bson:"traces"`
	Assignments []Assignment `json:"assignments,omitempty" bson:"assignments,omitempty"`
	FailedNets  []string     `json:"failed_nets,omitempty" bson:"failed_nets,omitempty"`

	// Orderings is the number of net orderings simulated, including the
	// seed ordering. Memo-skipped orderings are not counted.
	Orderings int `json:"orderings" bson:"orderings"`
	// RippedUp is the total number of rip-up events across the run.
	RippedUp int `json:"ripped_up" bson:"ripped_up"`
}

// Routed reports whether every net routed.
func (r *Result) Routed() bool {
	return len(r.FailedNets) == 0
}

// AssignmentMap returns the reference-to-pin mapping in its plain string
// form ("mcu_1:gpio" -> "mcu_1:PD2"). When several nets reference the
// same group the last one wins; use Assignments for the net-qualified
// records.
func (r *Result) AssignmentMap() map[string]string {
	m := make(map[string]string, len(r.Assignments))
	for _, a := range r.Assignments {
		m[a.Ref] = a.Pin
	}
	return m
}

// ResolvedDesign returns a copy of the design with every allocated
// group reference rewritten to its assigned concrete pin, suitable for
// re-routing without the allocator. References of failed nets keep
// their group form. The input design is not modified.
func (r *Result) ResolvedDesign(d *board.Design) *board.Design {
	assigned := make(map[string]board.PinRef, len(r.Assignments))
	for _, a := range r.Assignments {
		groupRef, err := board.ParsePinRef(a.Ref)
		if err != nil {
			continue
		}
		pinRef, err := board.ParsePinRef(a.Pin)
		if err != nil {
			continue
		}
		assigned[board.RefKey(a.Net, groupRef)] = pinRef
	}

	out := *d
	out.Nets = make([]board.Net, len(d.Nets))
	for i, n := range d.Nets {
		resolved := n
		resolved.Pins = make([]board.PinRef, len(n.Pins))
		for j, ref := range n.Pins {
			if pin, ok := assigned[board.RefKey(n.ID, ref)]; ok {
				resolved.Pins[j] = pin
			} else {
				resolved.Pins[j] = ref
			}
		}
		out.Nets[i] = resolved
	}
	return &out
}

// NetTraces returns the traces belonging to one net.
func (r *Result) NetTraces(netID string) []Trace {
	var out []Trace
	for _, t := range r.Traces {
		if t.Net == netID {
			out = append(out, t)
		}
	}
	return out
}

package board

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/pinroute/pkg/errors"
)

// PinRef addresses a pin (or pin group) on a placed component instance.
// The canonical string form is "<instance>:<pin_or_group>".
type PinRef struct {
	Instance string
	Pin      string
}

// ParsePinRef parses the "<instance>:<pin_or_group>" string form.
func ParsePinRef(s string) (PinRef, error) {
	idx := strings.IndexByte(s, ':')
	if idx <= 0 || idx == len(s)-1 {
		return PinRef{}, errors.New(errors.ErrCodeInvalidReference, "pin reference must be \"<instance>:<pin>\": %q", s)
	}
	ref := PinRef{Instance: s[:idx], Pin: s[idx+1:]}
	if err := errors.ValidateIdentifier("instance", ref.Instance); err != nil {
		return PinRef{}, err
	}
	if err := errors.ValidateIdentifier("pin", ref.Pin); err != nil {
		return PinRef{}, err
	}
	return ref, nil
}

// String returns the canonical "<instance>:<pin_or_group>" form.
func (r PinRef) String() string {
	return r.Instance + ":" + r.Pin
}

// MarshalJSON encodes the reference in its canonical string form.
func (r PinRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the canonical string form.
func (r *PinRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ref, err := ParsePinRef(s)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// Net is a set of pins that must be electrically connected.
type Net struct {
	ID   string   `json:"id" bson:"id"`
	Pins []PinRef `json:"pins" bson:"pins"`
}

// Placement is one component instance placed inside the outline.
// Rotation is a counter-clockwise 90° multiple.
type Placement struct {
	ID       string  `json:"id" bson:"id"`
	Catalog  string  `json:"catalog" bson:"catalog"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Rotation int     `json:"rotation,omitempty" bson:"rotation,omitempty"`
}

// Position returns the placed position as a Point.
func (p Placement) Position() Point {
	return Point{X: p.X, Y: p.Y}
}

// PinPosition returns the world coordinate of a pin's local offset under
// this placement's rotation and translation.
func (p Placement) PinPosition(pin Pin) Point {
	dx, dy := RotateOffset(pin.X, pin.Y, p.Rotation)
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// BodyRect returns the world-space footprint of the body under this
// placement. Rotations of 90/270 swap the body dimensions.
func (p Placement) BodyRect(def *ComponentDef) Rect {
	w, h := def.Body.Width, def.Body.Height
	switch normalizeRotation(p.Rotation) {
	case 90, 270:
		w, h = h, w
	}
	return Rect{
		MinX: p.X - w/2, MinY: p.Y - h/2,
		MaxX: p.X + w/2, MaxY: p.Y + h/2,
	}
}

// Design is the routing input: outline polygon, placed components, and
// the net list. Outline vertices are ordered clockwise.
type Design struct {
	Name       string      `json:"name,omitempty" bson:"name,omitempty"`
	Outline    []Point     `json:"outline" bson:"outline"`
	Placements []Placement `json:"components" bson:"components"`
	Nets       []Net       `json:"nets" bson:"nets"`
}

// Placement returns the placement with the given instance id, or false
// if the design has no such instance.
func (d *Design) Placement(id string) (Placement, bool) {
	for _, p := range d.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Validate cross-checks the design against the catalog. The router
// assumes validated input, so everything the router would treat as a
// precondition violation is rejected here: unknown catalog ids, invalid
// rotations, undersized nets, and references to pins or groups the named
// component does not have.
func (d *Design) Validate(catalog *Catalog) error {
	if len(d.Outline) < 3 {
		return errors.New(errors.ErrCodeInvalidDesign, "outline must have at least 3 vertices, got %d", len(d.Outline))
	}

	instances := make(map[string]Placement, len(d.Placements))
	for _, p := range d.Placements {
		if err := errors.ValidateIdentifier("instance", p.ID); err != nil {
			return err
		}
		if _, dup := instances[p.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDesign, "duplicate instance id: %s", p.ID)
		}
		if _, ok := catalog.Component(p.Catalog); !ok {
			return errors.New(errors.ErrCodeComponentNotFound, "instance %s references unknown catalog component: %s", p.ID, p.Catalog)
		}
		switch normalizeRotation(p.Rotation) {
		case 0, 90, 180, 270:
		default:
			return errors.New(errors.ErrCodeInvalidDesign, "instance %s: rotation must be a 90° multiple, got %d", p.ID, p.Rotation)
		}
		instances[p.ID] = p
	}

	netIDs := make(map[string]bool, len(d.Nets))
	for _, n := range d.Nets {
		if err := errors.ValidateIdentifier("net", n.ID); err != nil {
			return err
		}
		if netIDs[n.ID] {
			return errors.New(errors.ErrCodeInvalidDesign, "duplicate net id: %s", n.ID)
		}
		netIDs[n.ID] = true

		if len(n.Pins) < 2 {
			return errors.New(errors.ErrCodeInvalidDesign, "net %s must reference at least 2 pins, got %d", n.ID, len(n.Pins))
		}
		for _, ref := range n.Pins {
			place, ok := instances[ref.Instance]
			if !ok {
				return errors.New(errors.ErrCodeInvalidReference, "net %s references unknown instance: %s", n.ID, ref.Instance)
			}
			def, _ := catalog.Component(place.Catalog)
			if _, isPin := def.Pin(ref.Pin); isPin {
				continue
			}
			if _, isGroup := def.Group(ref.Pin); isGroup {
				continue
			}
			return errors.New(errors.ErrCodeInvalidReference, "net %s: component %s has no pin or group %q", n.ID, place.Catalog, ref.Pin)
		}
	}
	return nil
}

// RefKey builds the qualified key used in assignment maps when one group
// is referenced by multiple nets: "<net>/<instance>:<group>".
func RefKey(netID string, ref PinRef) string {
	return fmt.Sprintf("%s/%s", netID, ref)
}

package board

import (
	"github.com/matzehuels/pinroute/pkg/errors"
)

// Pin is a physical connection point on a component, positioned relative
// to the component's center in unrotated local coordinates.
type Pin struct {
	ID    string  `json:"id" bson:"id"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Drill float64 `json:"drill,omitempty" bson:"drill,omitempty"` // Hole diameter
}

// PinGroup is a named pool of interchangeable pins on one component.
// A net may reference the group instead of a concrete pin; the router
// allocates one free member at routing time. Groups with a FixedNet are
// pre-bound: their members only satisfy references from that net.
type PinGroup struct {
	ID          string   `json:"id" bson:"id"`
	Pins        []string `json:"pins" bson:"pins"`
	Allocatable bool     `json:"allocatable" bson:"allocatable"`
	FixedNet    string   `json:"fixed_net,omitempty" bson:"fixed_net,omitempty"`
}

// Body is a component's rectangular footprint, centered on the placed
// position in unrotated local coordinates.
type Body struct {
	Width  float64 `json:"w" bson:"w"`
	Height float64 `json:"h" bson:"h"`
}

// ComponentDef describes one catalog component type.
type ComponentDef struct {
	ID            string     `json:"id" bson:"id"`
	Body          Body       `json:"body" bson:"body"`
	BlocksRouting bool       `json:"blocks_routing,omitempty" bson:"blocks_routing,omitempty"`
	Keepout       float64    `json:"keepout,omitempty" bson:"keepout,omitempty"` // Margin around the body, world units
	Pins          []Pin      `json:"pins" bson:"pins"`
	Groups        []PinGroup `json:"groups,omitempty" bson:"groups,omitempty"`
}

// Pin returns the pin with the given id, or false if the component has
// no such pin.
func (c *ComponentDef) Pin(id string) (Pin, bool) {
	for _, p := range c.Pins {
		if p.ID == id {
			return p, true
		}
	}
	return Pin{}, false
}

// Group returns the pin group with the given id, or false if the
// component has no such group.
func (c *ComponentDef) Group(id string) (PinGroup, bool) {
	for _, g := range c.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return PinGroup{}, false
}

// Catalog holds the component definitions available to a design.
type Catalog struct {
	Components []ComponentDef `json:"components" bson:"components"`

	byID map[string]*ComponentDef
}

// Component returns the definition for the given catalog id, or false if
// the catalog has no such component. The lookup index is built lazily on
// first use.
func (c *Catalog) Component(id string) (*ComponentDef, bool) {
	if c.byID == nil {
		c.byID = make(map[string]*ComponentDef, len(c.Components))
		for i := range c.Components {
			c.byID[c.Components[i].ID] = &c.Components[i]
		}
	}
	def, ok := c.byID[id]
	return def, ok
}

// Validate checks catalog-internal consistency: identifiers are
// well-formed and unique, bodies are non-degenerate, keepouts are
// non-negative, and every group member names an existing pin.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Components))
	for i := range c.Components {
		def := &c.Components[i]
		if err := errors.ValidateIdentifier("component", def.ID); err != nil {
			return err
		}
		if seen[def.ID] {
			return errors.New(errors.ErrCodeInvalidCatalog, "duplicate component id: %s", def.ID)
		}
		seen[def.ID] = true

		if def.Body.Width <= 0 || def.Body.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidCatalog, "component %s: body must have positive dimensions", def.ID)
		}
		if def.Keepout < 0 {
			return errors.New(errors.ErrCodeInvalidCatalog, "component %s: keepout must be non-negative", def.ID)
		}

		pinIDs := make(map[string]bool, len(def.Pins))
		for _, p := range def.Pins {
			if err := errors.ValidateIdentifier("pin", p.ID); err != nil {
				return err
			}
			if pinIDs[p.ID] {
				return errors.New(errors.ErrCodeInvalidCatalog, "component %s: duplicate pin id: %s", def.ID, p.ID)
			}
			pinIDs[p.ID] = true
		}

		for _, g := range def.Groups {
			if err := errors.ValidateIdentifier("group", g.ID); err != nil {
				return err
			}
			if pinIDs[g.ID] {
				return errors.New(errors.ErrCodeInvalidCatalog, "component %s: group id collides with pin id: %s", def.ID, g.ID)
			}
			for _, member := range g.Pins {
				if !pinIDs[member] {
					return errors.New(errors.ErrCodeInvalidCatalog, "component %s: group %s references unknown pin: %s", def.ID, g.ID, member)
				}
			}
		}
	}
	return nil
}

// Package board defines the input data model for routing: the device
// outline, the component catalog, component placements, and the net list.
//
// # Overview
//
// A routing run consumes three inputs produced by upstream collaborators:
//
//   - Catalog: per component type, the body footprint, keepout margin,
//     blocks-routing flag, pins, and pin groups
//   - Design: the outline polygon, placed component instances, and nets
//     referencing pins as "<instance>:<pin_or_group>"
//
// The package also provides the 2-D geometry helpers the router needs
// (point-in-polygon tests, Manhattan distance, rotation of local pin
// offsets) and JSON readers/writers for design and catalog files.
//
// # Coordinate System
//
// All world coordinates are in outline units (typically millimetres) with
// the origin at the outline's coordinate origin. Rotations are restricted
// to 90° multiples, so pin offsets rotate exactly with integer axis
// swap/negate and no floating-point drift.
//
// # Validation
//
// [Design.Validate] cross-checks a design against a catalog: every placed
// instance must name a known catalog component, every net must have at
// least two pin references, and every reference must resolve to a pin or
// group on the named instance. Validation failures use structured codes
// from [github.com/matzehuels/pinroute/pkg/errors].
package board

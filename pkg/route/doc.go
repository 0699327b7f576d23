// Package route implements the routing orchestrator: the search that
// turns a validated design into a set of Manhattan traces and concrete
// pin assignments.
//
// # Overview
//
// Routing proceeds through explicit phases:
//
//  1. Seed: nets are ordered by ascending estimated span, shortest first.
//  2. Attempt order: nets are routed one at a time in obstacle-avoiding
//     mode; failures are deferred rather than aborting the ordering.
//  3. Deferred rip-up: deferred nets are routed in minimum-crossing mode;
//     the one with the fewest crossings is committed, the nets it crosses
//     are ripped up and deferred, and the deferred set is reshuffled and
//     re-attempted. Bounded by the rip-up budget.
//  4. On rip-up exhaustion the stably committed ordering prefix is
//     memoized so future orderings sharing it are skipped, and a fresh
//     random ordering is tried. Bounded by the ordering budget.
//
// The orchestrator always terminates with a well-formed [Result]: nets
// that never found a path are reported in FailedNets, never as an error.
//
// # Flexible pins
//
// A net may reference a pin group ("mcu_1:gpio") instead of a concrete
// pin. Such references resolve to a pending endpoint carrying the group's
// free members; the allocator picks the member with the cheapest path to
// the connection's other endpoint at the moment the connection is
// attempted. Chosen pins leave the pool for the rest of the attempt.
//
// # Ownership
//
// The occupancy grid is mutable state exclusively owned by the Router
// for the duration of a run. Path search and allocation only read it;
// every occupancy change goes through the Router's occupy/release calls.
// Routers are single-use and not safe for concurrent use.
package route

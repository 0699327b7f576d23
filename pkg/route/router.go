package route

import (
	"context"
	"math/rand"
	"sort"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/observability"
	"github.com/matzehuels/pinroute/pkg/route/grid"
	"github.com/matzehuels/pinroute/pkg/route/path"
)

// Router runs the routing search for one design. A Router is single-use:
// create with [New], call [Router.Route] once. The occupancy grid is
// owned exclusively by the Router between those two calls.
type Router struct {
	design  *board.Design
	catalog *board.Catalog
	cfg     Config

	grid *grid.Grid
	base *Resolver
	rng  *rand.Rand
	memo *prefixMemo

	netByID map[string]board.Net
}

// New validates the inputs, builds the occupancy grid, and prepares a
// router. Validation failures and grid construction failures are the
// only errors; routing failures are reported through the [Result].
func New(design *board.Design, catalog *board.Catalog, cfg Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if err := design.Validate(catalog); err != nil {
		return nil, err
	}

	g, err := grid.Build(design, catalog, cfg.CellSize, cfg.EdgeClearance)
	if err != nil {
		return nil, err
	}

	nets := make(map[string]board.Net, len(design.Nets))
	for _, n := range design.Nets {
		nets[n.ID] = n
	}

	return &Router{
		design:  design,
		catalog: catalog,
		cfg:     cfg,
		grid:    g,
		base:    NewResolver(design, catalog),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		memo:    newPrefixMemo(),
		netByID: nets,
	}, nil
}

// Grid exposes the occupancy grid, e.g. for rendering the final state.
// Callers must not mutate it while Route is running.
func (r *Router) Grid() *grid.Grid { return r.grid }

// Route runs the full ordering search and returns a well-formed result.
// Cancellation is honored between ordering attempts and rip-up
// iterations; a cancelled run returns the best attempt so far with
// [StatusExhausted]. The only errors are precondition violations such as
// malformed pin references.
func (r *Router) Route(ctx context.Context) (*Result, error) {
	seedOrder, err := r.seedOrdering()
	if err != nil {
		return nil, err
	}

	var best *attempt
	orderings, rippedUp := 0, 0

	for i := 0; i < r.cfg.OrderingBudget; i++ {
		if ctx.Err() != nil {
			break
		}

		ordering := seedOrder
		if i > 0 {
			ordering = append([]string(nil), seedOrder...)
			r.rng.Shuffle(len(ordering), func(a, b int) {
				ordering[a], ordering[b] = ordering[b], ordering[a]
			})
		}
		if r.memo.matches(ordering) {
			continue
		}

		orderings++
		observability.Router().OnOrderingStart(ctx, i, ordering)

		a, err := r.attemptOrdering(ctx, ordering)
		if err != nil {
			return nil, err
		}
		rippedUp += a.rippedUp

		if best == nil || len(a.deferred) < len(best.deferred) {
			best = a
		}
		if len(a.deferred) == 0 {
			res := r.finalize(best, StatusSuccess, orderings, rippedUp)
			observability.Router().OnComplete(ctx, string(res.Status), res.FailedNets)
			return res, nil
		}

		// The attempt is abandoned: memoize the stably committed prefix
		// so orderings repeating it are not simulated again.
		r.memo.insert(stablePrefix(ordering, a))
	}

	if best == nil {
		// Budget spent entirely on memo skips or immediate cancellation.
		best = newAttempt(r)
		for _, n := range r.design.Nets {
			best.deferred = append(best.deferred, n.ID)
		}
	}
	res := r.finalize(best, StatusExhausted, orderings, rippedUp)
	observability.Router().OnComplete(ctx, string(res.Status), res.FailedNets)
	return res, nil
}

// seedOrdering orders nets by ascending estimated span. Estimation uses
// a throwaway resolver so consumption state does not leak into attempts;
// malformed references surface here and fail the run before any search.
func (r *Router) seedOrdering() ([]string, error) {
	type entry struct {
		id   string
		span float64
	}
	est := r.base.Clone()
	entries := make([]entry, 0, len(r.design.Nets))
	for _, n := range r.design.Nets {
		endpoints := make([]*Endpoint, len(n.Pins))
		for i, ref := range n.Pins {
			ep, err := est.Resolve(ref, n.ID)
			if err != nil {
				return nil, err
			}
			endpoints[i] = &ep
		}
		entries = append(entries, entry{id: n.ID, span: estimatedSpan(decompose(n.ID, endpoints))})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].span != entries[j].span {
			return entries[i].span < entries[j].span
		}
		return entries[i].id < entries[j].id
	})
	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.id
	}
	return order, nil
}

// attempt is the mutable state of one ordering attempt.
type attempt struct {
	r        *Router
	resolver *Resolver

	traces    map[string][]Trace
	assigns   map[string][]Assignment
	committed []string
	deferred  []string
	rippedUp  int
}

func newAttempt(r *Router) *attempt {
	return &attempt{
		r:        r,
		resolver: r.base.Clone(),
		traces:   make(map[string][]Trace),
		assigns:  make(map[string][]Assignment),
	}
}

// attemptOrdering routes nets in the given order, deferring failures,
// then runs the rip-up loop if anything was deferred.
func (r *Router) attemptOrdering(ctx context.Context, ordering []string) (*attempt, error) {
	r.grid.Reset()
	a := newAttempt(r)

	for _, netID := range ordering {
		plan, ok, err := a.planNet(netID, a.obstacleOpts(netID))
		if err != nil {
			return nil, err
		}
		if !ok {
			a.deferred = append(a.deferred, netID)
			observability.Router().OnNetDeferred(ctx, netID)
			continue
		}
		a.commit(plan)
		observability.Router().OnNetRouted(ctx, netID)
	}

	if len(a.deferred) > 0 {
		if err := a.ripupLoop(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ripupLoop drives the deferred set: plan minimum-crossing routes for
// every deferred net, commit the one crossing the fewest nets, rip up
// the nets it crosses, then reshuffle and re-attempt the rest in
// obstacle-avoiding mode. Bounded by the rip-up budget; exits early on
// an empty deferred set or when no deferred net has even a crossing path.
func (a *attempt) ripupLoop(ctx context.Context) error {
	for iter := 0; iter < a.r.cfg.RipupBudget && len(a.deferred) > 0; iter++ {
		if ctx.Err() != nil {
			return nil
		}

		var bestPlan *netPlan
		for _, netID := range a.deferred {
			plan, ok, err := a.planNet(netID, a.crossingOpts(netID))
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if bestPlan == nil || len(plan.crossed) < len(bestPlan.crossed) {
				bestPlan = plan
			}
		}
		if bestPlan == nil {
			return nil // even crossing mode finds nothing; give up on this ordering
		}

		for _, victim := range bestPlan.crossed {
			a.ripup(victim)
			a.rippedUp++
			observability.Router().OnRipUp(ctx, victim, bestPlan.netID)
		}
		a.removeDeferred(bestPlan.netID)
		a.commit(bestPlan)

		a.r.rng.Shuffle(len(a.deferred), func(i, j int) {
			a.deferred[i], a.deferred[j] = a.deferred[j], a.deferred[i]
		})
		var still []string
		for _, netID := range a.deferred {
			plan, ok, err := a.planNet(netID, a.obstacleOpts(netID))
			if err != nil {
				return err
			}
			if !ok {
				still = append(still, netID)
				continue
			}
			a.commit(plan)
			observability.Router().OnNetRouted(ctx, netID)
		}
		a.deferred = still
	}
	return nil
}

func (a *attempt) obstacleOpts(netID string) path.Options {
	return path.Options{SelfNet: netID}
}

func (a *attempt) crossingOpts(netID string) path.Options {
	return path.Options{SelfNet: netID, CrossPenalty: a.r.cfg.CrossPenalty}
}

// netPlan is a fully resolved, not-yet-committed routing of one net.
type netPlan struct {
	netID    string
	resolver *Resolver
	cells    []grid.Cell
	traces   []Trace
	assigns  []Assignment
	crossed  []string
}

// planNet resolves, allocates, and routes every connection task of a
// net against the current grid without mutating it. Returns ok=false
// when any task has no path or no allocatable candidate; returns an
// error only for malformed references.
func (a *attempt) planNet(netID string, opts path.Options) (*netPlan, bool, error) {
	net := a.r.netByID[netID]
	res := a.resolver.Clone()

	endpoints := make([]*Endpoint, len(net.Pins))
	for i, ref := range net.Pins {
		ep, err := res.Resolve(ref, netID)
		if err != nil {
			return nil, false, err
		}
		endpoints[i] = &ep
	}

	plan := &netPlan{netID: netID, resolver: res}
	seen := make(map[grid.Cell]bool)
	crossedSeen := make(map[string]bool)

	for _, task := range decompose(netID, endpoints) {
		if !a.allocate(task, res, opts) {
			return nil, false, nil
		}
		found, ok := a.findTaskPath(task, opts)
		if !ok {
			return nil, false, nil
		}

		for _, c := range found.Cells {
			// Foreign occupied cells become ours only after their
			// owners are ripped up; own and free cells are claimed.
			if owner, occupied := a.r.grid.Owner(c); occupied && owner != netID {
				if !crossedSeen[owner] {
					crossedSeen[owner] = true
					plan.crossed = append(plan.crossed, owner)
				}
			}
			if !seen[c] {
				seen[c] = true
				plan.cells = append(plan.cells, c)
			}
		}
		plan.traces = append(plan.traces, Trace{Net: netID, Waypoints: a.waypoints(found.Cells)})
	}

	for _, ep := range endpoints {
		if ep.Ref.Pin != ep.Pin { // group reference that got allocated
			plan.assigns = append(plan.assigns, Assignment{
				Net: netID,
				Ref: ep.Ref.String(),
				Pin: ep.Ref.Instance + ":" + ep.Pin,
			})
		}
	}
	return plan, true, nil
}

// allocate transitions the task's pending endpoints to resolved pins,
// choosing the candidate (or candidate pair) with the cheapest path in
// the active search mode. Returns false on an exhausted pool or when no
// candidate can reach the other endpoint.
func (a *attempt) allocate(task Task, res *Resolver, opts path.Options) bool {
	aPending := task.A.Kind == KindPending
	bPending := task.B.Kind == KindPending

	switch {
	case !aPending && !bPending:
		return true

	case aPending != bPending:
		pending, fixed := task.A, task.B
		if bPending {
			pending, fixed = task.B, task.A
		}
		fixedCell, ok := a.cellFor(fixed.Point)
		if !ok {
			return false
		}
		best, bestCost := -1, 0.0
		for i, cand := range pending.Candidates {
			cell, ok := a.cellFor(cand.Point)
			if !ok {
				continue
			}
			if found, ok := path.Find(a.r.grid, cell, fixedCell, opts); ok {
				if best == -1 || found.Cost < bestCost {
					best, bestCost = i, found.Cost
				}
			}
		}
		if best == -1 {
			return false
		}
		res.Commit(pending, pending.Candidates[best], task.Net)
		return true

	default: // both pending: group sizes are small, try all pairs
		bestA, bestB, bestCost := -1, -1, 0.0
		for i, ca := range task.A.Candidates {
			cellA, ok := a.cellFor(ca.Point)
			if !ok {
				continue
			}
			for j, cb := range task.B.Candidates {
				if task.A.Ref.Instance == task.B.Ref.Instance && ca.Pin == cb.Pin {
					continue
				}
				cellB, ok := a.cellFor(cb.Point)
				if !ok {
					continue
				}
				if found, ok := path.Find(a.r.grid, cellA, cellB, opts); ok {
					if bestA == -1 || found.Cost < bestCost {
						bestA, bestB, bestCost = i, j, found.Cost
					}
				}
			}
		}
		if bestA == -1 {
			return false
		}
		res.Commit(task.A, task.A.Candidates[bestA], task.Net)
		res.Commit(task.B, task.B.Candidates[bestB], task.Net)
		return true
	}
}

// findTaskPath routes one task between its resolved endpoints.
func (a *attempt) findTaskPath(task Task, opts path.Options) (path.Result, bool) {
	cellA, ok := a.cellFor(task.A.Point)
	if !ok {
		return path.Result{}, false
	}
	cellB, ok := a.cellFor(task.B.Point)
	if !ok {
		return path.Result{}, false
	}
	return path.Find(a.r.grid, cellA, cellB, opts)
}

// cellFor maps a world point to a routable cell, snapping to the
// nearest free cell within the configured radius when the pin's own
// cell is blocked (e.g. inside its component's keepout). A pin with no
// reachable cell makes its net unroutable, never a crash.
func (a *attempt) cellFor(p board.Point) (grid.Cell, bool) {
	c, ok := a.r.grid.CellAt(p)
	if !ok {
		return grid.Cell{}, false
	}
	if a.r.grid.IsFree(c) {
		return c, true
	}
	if _, occupied := a.r.grid.Owner(c); occupied {
		return c, true // occupied cells stay legal endpoints; modes decide passability
	}
	return a.r.grid.NearestFree(c, a.r.cfg.SnapRadius)
}

// waypoints converts a cell path to simplified world-coordinate corners.
func (a *attempt) waypoints(cells []grid.Cell) []board.Point {
	simplified := path.Simplify(cells)
	pts := make([]board.Point, len(simplified))
	for i, c := range simplified {
		pts[i] = a.r.grid.Center(c)
	}
	return pts
}

// commit applies a plan: cells are occupied, the plan's resolver state
// (with its allocations) becomes the attempt's, traces and assignments
// are recorded.
func (a *attempt) commit(plan *netPlan) {
	if err := a.r.grid.Occupy(plan.cells, plan.netID); err != nil {
		// Plans are always committed against the grid they were planned
		// on, with crossed nets ripped up first; this is unreachable
		// unless that contract is broken.
		panic("route: committing an invalid plan: " + err.Error())
	}
	a.resolver = plan.resolver
	a.traces[plan.netID] = plan.traces
	a.assigns[plan.netID] = plan.assigns
	a.committed = append(a.committed, plan.netID)
}

// ripup destroys a committed net: its cells are released, its traces
// and assignments dropped, its allocated pins returned to their pools,
// and the net moves to the deferred set.
func (a *attempt) ripup(netID string) {
	a.r.grid.Release(netID)
	delete(a.traces, netID)
	delete(a.assigns, netID)
	a.resolver.ReleaseNet(netID)
	for i, id := range a.committed {
		if id == netID {
			a.committed = append(a.committed[:i], a.committed[i+1:]...)
			break
		}
	}
	a.deferred = append(a.deferred, netID)
}

func (a *attempt) removeDeferred(netID string) {
	for i, id := range a.deferred {
		if id == netID {
			a.deferred = append(a.deferred[:i], a.deferred[i+1:]...)
			return
		}
	}
}

// stablePrefix returns the longest prefix of the ordering whose nets
// all survived the attempt (still committed at exhaustion). This is the
// fingerprint recorded in the failure memo.
func stablePrefix(ordering []string, a *attempt) []string {
	committed := make(map[string]bool, len(a.committed))
	for _, id := range a.committed {
		committed[id] = true
	}
	for i, id := range ordering {
		if !committed[id] {
			return ordering[:i]
		}
	}
	return ordering
}

// finalize freezes an attempt into an immutable result. Traces follow
// commit order; failed nets are sorted for stable output.
func (r *Router) finalize(a *attempt, status Status, orderings, rippedUp int) *Result {
	res := &Result{
		Status:    status,
		Orderings: orderings,
		RippedUp:  rippedUp,
	}
	for _, netID := range a.committed {
		res.Traces = append(res.Traces, a.traces[netID]...)
		res.Assignments = append(res.Assignments, a.assigns[netID]...)
	}
	res.FailedNets = append(res.FailedNets, a.deferred...)
	sort.Strings(res.FailedNets)
	return res
}

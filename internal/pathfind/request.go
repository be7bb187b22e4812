package pathfind

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/heap"

	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

// Result is the state of a path request after a step.
type Result uint8

const (
	// Continuing means the request ran out of budget and must be stepped
	// again.
	Continuing Result = iota
	NoPath
	PartialPath
	Path
)

func (r Result) String() string {
	switch r {
	case Continuing:
		return "continuing"
	case NoPath:
		return "no_path"
	case PartialPath:
		return "partial_path"
	case Path:
		return "path"
	}
	return "unknown"
}

// PathArgs describes one polygon path query.
type PathArgs struct {
	Start navmesh.Coordinates
	End   navmesh.Coordinates

	Flags Flags

	// Range lets the search stop at any polygon whose center is within
	// this distance of the end. Zero means the end polygon itself.
	Range float32

	Layer uint32
	Mask  uint32

	// NodeLimit caps expansions over the request's lifetime.
	NodeLimit int

	// NoPartial returns NoPath instead of the path to the closest explored
	// polygon when the node limit is hit or the frontier runs dry.
	NoPartial bool

	// exact disables the node limit and partial results.
	exact bool
}

// Waypoint is a value snapshot of one polygon on a finished path.
type Waypoint struct {
	Coordinates navmesh.Coordinates
	Box         geom.Box2
	Data        navmesh.Data
}

type frontierNode struct {
	poly *navmesh.PathPoly
	g    float32
	f    float32
}

// PathRequest is one in-flight or finished query. The search state lives
// here between ticks and is dropped once the result is final.
type PathRequest struct {
	ID   uuid.UUID
	Args PathArgs

	ctx context.Context

	started   bool
	startPoly *navmesh.PathPoly
	endPoly   *navmesh.PathPoly
	goal      navmesh.Coordinates

	// exits are the centers of goal-grid polygons with a portal to another
	// grid, and detour the cheapest way back from any of them to the goal.
	exits  []geom.Vec2
	detour float32

	frontier  *heap.Heap[frontierNode]
	costSoFar map[*navmesh.PathPoly]float32
	cameFrom  map[*navmesh.PathPoly]*navmesh.PathPoly

	best      *navmesh.PathPoly
	bestScore float32
	expanded  int
	elapsed   time.Duration

	result Result
	path   []Waypoint
	cost   float32
	done   chan struct{}
}

// NewRequest creates a request. A nil ctx never cancels.
func NewRequest(ctx context.Context, args PathArgs) *PathRequest {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PathRequest{
		ID:   uuid.New(),
		Args: args,
		ctx:  ctx,
		done: make(chan struct{}),
	}
}

// Result returns Continuing until the request is finished.
func (r *PathRequest) Result() Result { return r.result }

// Finished reports a final result.
func (r *PathRequest) Finished() bool { return r.result != Continuing }

// Done is closed when the request finishes.
func (r *PathRequest) Done() <-chan struct{} { return r.done }

// Path returns the simplified waypoints of a Path or PartialPath result.
func (r *PathRequest) Path() []Waypoint { return r.path }

// Cost is the search cost of the returned path.
func (r *PathRequest) Cost() float32 { return r.cost }

// Expanded is the number of polygons expanded so far.
func (r *PathRequest) Expanded() int { return r.expanded }

// Elapsed is the search time spent on the request across ticks.
func (r *PathRequest) Elapsed() time.Duration { return r.elapsed }

func (r *PathRequest) init(start, end *navmesh.PathPoly, exits []*navmesh.PathPoly) {
	r.started = true
	r.startPoly = start
	r.endPoly = end
	r.goal = end.Coordinates()
	r.setExits(exits)
	r.frontier = heap.New[frontierNode](func(a, b frontierNode) bool { return a.f < b.f })
	r.costSoFar = map[*navmesh.PathPoly]float32{start: 0}
	r.cameFrom = make(map[*navmesh.PathPoly]*navmesh.PathPoly)
	r.best = start
	r.bestScore = r.heuristic(start)
	r.frontier.Push(frontierNode{poly: start, f: r.bestScore})
}

// setExits records the goal grid's portal polygons for the heuristic.
func (r *PathRequest) setExits(portals []*navmesh.PathPoly) {
	r.exits = r.exits[:0]
	r.detour = 0
	for i, p := range portals {
		c := p.Box.Center()
		r.exits = append(r.exits, c)
		if d := geom.OctileDistance(c, r.goal.Pos); i == 0 || d < r.detour {
			r.detour = d
		}
	}
}

// heuristic is a lower bound on the cost from p to the goal polygon. Off
// the goal grid it is 0. On it, a route either stays on the grid or leaves
// through an exit and comes back through another, crossing at least two
// portal edges.
func (r *PathRequest) heuristic(p *navmesh.PathPoly) float32 {
	if p.Grid != r.goal.Grid {
		return 0
	}
	c := p.Box.Center()
	h := geom.OctileDistance(c, r.goal.Pos)
	for _, e := range r.exits {
		if via := geom.OctileDistance(c, e) + 2*portalCost + r.detour; via < h {
			h = via
		}
	}
	return h * heuristicBias
}

func (r *PathRequest) isGoal(p *navmesh.PathPoly) bool {
	if p == r.endPoly {
		return true
	}
	if r.Args.Range <= 0 || p.Grid != r.Args.End.Grid {
		return false
	}
	return geom.EuclideanDistance(p.Box.Center(), r.Args.End.Pos) <= r.Args.Range
}

func (r *PathRequest) reconstruct(last *navmesh.PathPoly) []Waypoint {
	var polys []*navmesh.PathPoly
	for p := last; p != nil; p = r.cameFrom[p] {
		polys = append(polys, p)
	}
	out := make([]Waypoint, len(polys))
	for i, p := range polys {
		out[len(polys)-1-i] = Waypoint{
			Coordinates: p.Coordinates(),
			Box:         p.Box,
			Data:        p.Data,
		}
	}
	return out
}

// finish stores the result and drops every polygon reference.
func (r *PathRequest) finish(res Result, last *navmesh.PathPoly) Result {
	if last != nil {
		r.cost = r.costSoFar[last]
		r.path = SimplifyPath(r.reconstruct(last))
	}
	r.result = res
	r.startPoly, r.endPoly, r.best = nil, nil, nil
	r.exits = nil
	r.frontier = nil
	r.costSoFar = nil
	r.cameFrom = nil
	close(r.done)
	return res
}

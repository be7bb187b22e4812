package pathfind

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/navgrid/internal/navmesh"
)

// Graph resolves coordinates to polygons.
type Graph interface {
	GetPoly(at navmesh.Coordinates) *navmesh.PathPoly
}

// PortalGraph is implemented by graphs with portals between grids. The
// searcher uses it to keep its estimate a lower bound across portals.
type PortalGraph interface {
	PortalPolys(grid navmesh.GridID) []*navmesh.PathPoly
}

// Defaults for a Searcher.
const (
	DefaultNodeLimit     = 2000
	DefaultCheckInterval = 20
)

// SearchOptions configures a Searcher.
type SearchOptions struct {
	// NodeLimit applies to requests that do not set their own.
	NodeLimit int

	// CheckInterval is how many expansions run between clock samples.
	CheckInterval int

	Clock func() time.Time
	Log   *zap.Logger
}

// Searcher runs A* over the polygon graph, one budgeted step at a time.
type Searcher struct {
	graph         Graph
	nodeLimit     int
	checkInterval int
	clock         func() time.Time
	log           *zap.Logger
}

func NewSearcher(graph Graph, opts SearchOptions) *Searcher {
	s := &Searcher{
		graph:         graph,
		nodeLimit:     opts.NodeLimit,
		checkInterval: opts.CheckInterval,
		clock:         opts.Clock,
		log:           opts.Log,
	}
	if s.nodeLimit <= 0 {
		s.nodeLimit = DefaultNodeLimit
	}
	if s.checkInterval <= 0 {
		s.checkInterval = DefaultCheckInterval
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// FindPath starts an exact A* search: no node limit and no partial result.
// The returned request may be Continuing if the budget ran out, in which
// case the caller steps it again.
func (s *Searcher) FindPath(req *PathRequest, budget time.Duration) Result {
	req.Args.exact = true
	return s.Step(req, budget)
}

// FindPathNow runs an exact search to completion.
func (s *Searcher) FindPathNow(req *PathRequest) Result {
	req.Args.exact = true
	for {
		if res := s.Step(req, time.Hour); res != Continuing {
			return res
		}
	}
}

// Step advances a request for at most budget. State is kept in the request
// so the next Step continues where this one stopped. When the node limit is
// hit or the frontier runs dry it returns PartialPath to the closest
// explored polygon, unless the request set NoPartial or never left its
// start polygon.
func (s *Searcher) Step(req *PathRequest, budget time.Duration) Result {
	if req.Finished() {
		s.log.DPanic("path request stepped after finishing",
			zap.String("request", req.ID.String()),
			zap.Stringer("result", req.result),
		)
		return req.result
	}
	if req.ctx.Err() != nil {
		return req.finish(NoPath, nil)
	}

	start := s.clock()
	defer func() {
		req.elapsed += s.clock().Sub(start)
	}()

	if !req.started {
		startPoly := s.graph.GetPoly(req.Args.Start)
		endPoly := s.graph.GetPoly(req.Args.End)
		if startPoly == nil || endPoly == nil {
			return req.finish(NoPath, nil)
		}
		req.init(startPoly, endPoly, s.portalPolys(endPoly.Grid))
	} else {
		if !s.validate(req) {
			s.log.Debug("path request invalidated by rebuild",
				zap.String("request", req.ID.String()),
			)
			return req.finish(NoPath, nil)
		}
		// Portals may have been linked or dropped since the last step.
		req.setExits(s.portalPolys(req.goal.Grid))
	}

	limit := req.Args.NodeLimit
	if limit <= 0 {
		limit = s.nodeLimit
	}

	count := 0
	for req.frontier.Size() > 0 {
		node, _ := req.frontier.Pop()
		cur := node.poly
		if g, ok := req.costSoFar[cur]; ok && node.g > g {
			continue
		}
		if !cur.IsValid() {
			continue
		}
		if req.isGoal(cur) {
			return req.finish(Path, cur)
		}

		req.expanded++
		if !req.Args.exact && req.expanded > limit {
			break
		}

		s.expand(req, cur, node.g)

		count++
		if count%s.checkInterval == 0 {
			if req.ctx.Err() != nil {
				return req.finish(NoPath, nil)
			}
			if s.clock().Sub(start) >= budget {
				return Continuing
			}
		}
	}

	if req.Args.exact || req.Args.NoPartial || req.best == req.startPoly {
		return req.finish(NoPath, nil)
	}
	return req.finish(PartialPath, req.best)
}

func (s *Searcher) portalPolys(grid navmesh.GridID) []*navmesh.PathPoly {
	if pg, ok := s.graph.(PortalGraph); ok {
		return pg.PortalPolys(grid)
	}
	return nil
}

func (s *Searcher) expand(req *PathRequest, cur *navmesh.PathPoly, g float32) {
	cur.Neighbors.Each(func(next *navmesh.PathPoly) {
		if !next.IsValid() {
			return
		}
		cost := TileCost(req.Args.Flags, req.Args.Layer, req.Args.Mask, cur, next)
		if cost <= 0 {
			return
		}
		ng := g + cost
		if old, ok := req.costSoFar[next]; ok && ng >= old {
			return
		}
		req.costSoFar[next] = ng
		req.cameFrom[next] = cur

		h := req.heuristic(next)
		if h < req.bestScore {
			req.best = next
			req.bestScore = h
		}
		req.frontier.Push(frontierNode{poly: next, g: ng, f: ng + h})
	})
}

// validate checks the goal and the best frontier node with its parent chain
// against rebuilds that happened since the last step.
func (s *Searcher) validate(req *PathRequest) bool {
	if !req.endPoly.IsValid() {
		return false
	}
	top, ok := req.frontier.Peek()
	if !ok {
		return true
	}
	for p := top.poly; p != nil; p = req.cameFrom[p] {
		if !p.IsValid() {
			return false
		}
	}
	return true
}

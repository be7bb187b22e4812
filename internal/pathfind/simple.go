package pathfind

import (
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"github.com/l1jgo/navgrid/internal/geom"
)

// DefaultSimpleLimit caps expansions of the tile searches.
const DefaultSimpleLimit = 10000

// TileCostFunc returns the cost multiplier of entering a tile. Zero or less
// is impassable.
type TileCostFunc func(tile geom.Vec2i) float32

// SimplePathArgs describes a search directly over tile coordinates.
type SimplePathArgs struct {
	Start geom.Vec2i
	End   geom.Vec2i

	// Diagonals enables 8-connected expansion.
	Diagonals bool

	Limit int
	Cost  TileCostFunc
}

var (
	cardinalSteps = []geom.Vec2i{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	allSteps      = []geom.Vec2i{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1},
		{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
	}
)

type tileNode struct {
	tile geom.Vec2i
	g    float32
	f    float32
}

type tileSearch struct {
	diagonals bool
	limit     int
	cost      TileCostFunc
	heuristic func(geom.Vec2i) float32
	isGoal    func(geom.Vec2i) bool
}

// GetSimplePath runs grid A* between two tiles. It returns the tile path
// including both ends, or false when no path was found within the limit.
func GetSimplePath(args SimplePathArgs) ([]geom.Vec2i, bool) {
	dist := geom.ManhattanDistance
	if args.Diagonals {
		dist = geom.OctileDistanceI
	}
	s := tileSearch{
		diagonals: args.Diagonals,
		limit:     args.Limit,
		cost:      args.Cost,
		heuristic: func(t geom.Vec2i) float32 { return dist(t, args.End) },
		isGoal:    func(t geom.Vec2i) bool { return t == args.End },
	}
	return s.run([]geom.Vec2i{args.Start})
}

// BreadthPathArgs describes a multi-target search: the first target reached
// from any start wins.
type BreadthPathArgs struct {
	Start []geom.Vec2i
	Ends  []geom.Vec2i

	Diagonals bool
	Limit     int
	Cost      TileCostFunc
}

// GetBreadthPath finds the cheapest path to the nearest of several targets.
func GetBreadthPath(args BreadthPathArgs) ([]geom.Vec2i, bool) {
	targets := mapset.New[geom.Vec2i]()
	for _, t := range args.Ends {
		targets.Put(t)
	}
	if targets.Size() == 0 || len(args.Start) == 0 {
		return nil, false
	}
	s := tileSearch{
		diagonals: args.Diagonals,
		limit:     args.Limit,
		cost:      args.Cost,
		heuristic: func(geom.Vec2i) float32 { return 0 },
		isGoal:    targets.Has,
	}
	return s.run(args.Start)
}

func (s tileSearch) run(starts []geom.Vec2i) ([]geom.Vec2i, bool) {
	limit := s.limit
	if limit <= 0 {
		limit = DefaultSimpleLimit
	}
	steps := cardinalSteps
	if s.diagonals {
		steps = allSteps
	}

	frontier := heap.New[tileNode](func(a, b tileNode) bool { return a.f < b.f })
	costSoFar := make(map[geom.Vec2i]float32)
	cameFrom := make(map[geom.Vec2i]geom.Vec2i)
	for _, st := range starts {
		costSoFar[st] = 0
		frontier.Push(tileNode{tile: st, f: s.heuristic(st)})
	}

	expanded := 0
	for frontier.Size() > 0 {
		node, _ := frontier.Pop()
		if node.g > costSoFar[node.tile] {
			continue
		}
		if s.isGoal(node.tile) {
			return tracePath(cameFrom, node.tile), true
		}

		expanded++
		if expanded > limit {
			break
		}

		for _, d := range steps {
			next := node.tile.Add(d)
			stepCost := float32(1)
			if d.X != 0 && d.Y != 0 {
				// No corner cutting past blocked tiles.
				if s.tileCost(node.tile.Add(geom.Vec2i{X: d.X})) <= 0 ||
					s.tileCost(node.tile.Add(geom.Vec2i{Y: d.Y})) <= 0 {
					continue
				}
				stepCost = geom.Sqrt2
			}
			mod := s.tileCost(next)
			if mod <= 0 {
				continue
			}
			ng := node.g + stepCost*mod
			if old, ok := costSoFar[next]; ok && ng >= old {
				continue
			}
			costSoFar[next] = ng
			cameFrom[next] = node.tile
			frontier.Push(tileNode{tile: next, g: ng, f: ng + s.heuristic(next)})
		}
	}
	return nil, false
}

func (s tileSearch) tileCost(t geom.Vec2i) float32 {
	if s.cost == nil {
		return 1
	}
	return s.cost(t)
}

func tracePath(cameFrom map[geom.Vec2i]geom.Vec2i, end geom.Vec2i) []geom.Vec2i {
	path := []geom.Vec2i{end}
	for cur, ok := cameFrom[end]; ok; cur, ok = cameFrom[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

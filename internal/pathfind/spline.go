package pathfind

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/navgrid/internal/geom"
)

// SplinePathArgs describes an organic path: the straight segment is
// displaced recursively, then grid A* joins the control points.
type SplinePathArgs struct {
	Args SimplePathArgs

	// MaxRatio bounds the perpendicular offset relative to segment length.
	MaxRatio float32

	// Distance is the segment length below which subdivision stops.
	Distance float32

	Rand *rand.Rand
}

// SplinePath is the result of GetSplinePath.
type SplinePath struct {
	Points []geom.Vec2i
	Path   []geom.Vec2i
}

const (
	defaultSplineRatio    = 0.25
	defaultSplineDistance = 8
	maxSplineDepth        = 12
)

// GetSplinePath builds a wandering path from Args.Start to Args.End.
func GetSplinePath(args SplinePathArgs) (SplinePath, bool) {
	if args.MaxRatio <= 0 {
		args.MaxRatio = defaultSplineRatio
	}
	if args.Distance <= 0 {
		args.Distance = defaultSplineDistance
	}
	if args.Rand == nil {
		args.Rand = rand.New(rand.NewSource(1))
	}

	points := []geom.Vec2i{args.Args.Start}
	points = subdivide(args, args.Args.Start, args.Args.End, 0, points)
	points = append(points, args.Args.End)

	var path []geom.Vec2i
	for i := 1; i < len(points); i++ {
		seg := args.Args
		seg.Start, seg.End = points[i-1], points[i]
		part, ok := GetSimplePath(seg)
		if !ok {
			return SplinePath{Points: points}, false
		}
		if len(path) > 0 {
			part = part[1:]
		}
		path = append(path, part...)
	}
	return SplinePath{Points: points, Path: path}, true
}

// subdivide appends the interior control points between a and b.
func subdivide(args SplinePathArgs, a, b geom.Vec2i, depth int, out []geom.Vec2i) []geom.Vec2i {
	av, bv := a.Center(), b.Center()
	seg := bv.Sub(av)
	length := seg.Len()
	if length <= args.Distance || depth >= maxSplineDepth {
		return out
	}

	mid := av.Add(seg.Mul(0.5))
	perp := mgl32.Vec2{-seg[1], seg[0]}.Normalize()
	offset := (args.Rand.Float32()*2 - 1) * args.MaxRatio * length
	point := geom.Floor(mid.Add(perp.Mul(offset)))

	if !passable(args.Args.Cost, point) {
		point = geom.Floor(mid)
		if !passable(args.Args.Cost, point) {
			return out
		}
	}
	if point == a || point == b {
		return out
	}

	out = subdivide(args, a, point, depth+1, out)
	out = append(out, point)
	return subdivide(args, point, b, depth+1, out)
}

func passable(cost TileCostFunc, t geom.Vec2i) bool {
	return cost == nil || cost(t) > 0
}

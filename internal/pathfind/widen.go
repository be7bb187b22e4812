package pathfind

import (
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/l1jgo/navgrid/internal/geom"
)

// WidenArgs describes how a tile path is inflated into a corridor.
type WidenArgs struct {
	Path []geom.Vec2i

	// Every is the sampling stride along the path.
	Every int

	MinRadius float32
	MaxRadius float32

	// Square inflates squares instead of discs.
	Square bool

	Rand *rand.Rand
}

// WidenPath unions a disc or square of slowly varying radius around every
// Nth tile of the path. The path tiles are always part of the corridor.
func WidenPath(args WidenArgs) mapset.Set[geom.Vec2i] {
	corridor := mapset.New[geom.Vec2i]()
	for _, t := range args.Path {
		corridor.Put(t)
	}
	if len(args.Path) == 0 {
		return corridor
	}

	every := max(args.Every, 1)
	minR := max(args.MinRadius, 0)
	maxR := max(args.MaxRadius, minR)
	rng := args.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	radius := (minR + maxR) / 2
	step := (maxR - minR) / 4

	for i := 0; i < len(args.Path); i += every {
		radius += (rng.Float32()*2 - 1) * step
		radius = min(max(radius, minR), maxR)
		inflate(corridor, args.Path[i], radius, args.Square)
	}
	return corridor
}

func inflate(set mapset.Set[geom.Vec2i], center geom.Vec2i, radius float32, square bool) {
	r := int(math.Ceil(float64(radius)))
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			if !square && float32(x*x+y*y) > radius*radius {
				continue
			}
			if square && (float32(abs(x)) > radius || float32(abs(y)) > radius) {
				continue
			}
			set.Put(center.Add(geom.Vec2i{X: x, Y: y}))
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package pathfind

import (
	"github.com/l1jgo/navgrid/internal/geom"
)

// simplifyTolerance is the signed-area slack for collinear points.
const simplifyTolerance = 0.001

// SimplifyPath drops interior waypoints that lie on a straight run of
// identical traversal data.
func SimplifyPath(path []Waypoint) []Waypoint {
	return geom.Simplify(path,
		func(w Waypoint) geom.Vec2 { return w.Coordinates.Pos },
		func(a, b Waypoint) bool {
			return a.Coordinates.Grid == b.Coordinates.Grid && a.Data.Equal(b.Data)
		},
		simplifyTolerance,
	)
}

// PathDistance sums the octile length of a path. Steps across grids count
// as one tile.
func PathDistance(path []Waypoint) float32 {
	var total float32
	for i := 1; i < len(path); i++ {
		a, b := path[i-1].Coordinates, path[i].Coordinates
		if a.Grid != b.Grid {
			total += portalCost
			continue
		}
		total += geom.OctileDistance(a.Pos, b.Pos)
	}
	return total
}

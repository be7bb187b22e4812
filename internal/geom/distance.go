package geom

import "math"

// Sqrt2 is the diagonal step cost used by octile distance.
const Sqrt2 = 1.41421356

// OctileDistance allows 8-directional movement with diagonal cost sqrt(2).
func OctileDistance(a, b Vec2) float32 {
	dx := float32(math.Abs(float64(a[0] - b[0])))
	dy := float32(math.Abs(float64(a[1] - b[1])))
	if dx > dy {
		return (dx - dy) + Sqrt2*dy
	}
	return (dy - dx) + Sqrt2*dx
}

// OctileDistanceI is OctileDistance on tile coordinates.
func OctileDistanceI(a, b Vec2i) float32 {
	return OctileDistance(a.ToVec2(), b.ToVec2())
}

func ManhattanDistance(a, b Vec2i) float32 {
	return float32(abs(a.X-b.X) + abs(a.Y-b.Y))
}

func EuclideanDistance(a, b Vec2) float32 {
	return a.Sub(b).Len()
}

package geom

import "math"

// Simplify drops interior points that sit on the line between their
// neighbours (signed triangle area within tolerance) and carry the same data
// as both neighbours. The first and last points are always kept.
func Simplify[T any](points []T, pos func(T) Vec2, same func(a, b T) bool, tolerance float32) []T {
	if len(points) <= 2 {
		return append([]T(nil), points...)
	}

	out := make([]T, 0, len(points))
	out = append(out, points[0])

	for i := 1; i < len(points)-1; i++ {
		prev := out[len(out)-1]
		cur := points[i]
		next := points[i+1]

		if same(prev, cur) && same(cur, next) && Collinear(pos(prev), pos(cur), pos(next), tolerance) {
			continue
		}
		out = append(out, cur)
	}

	return append(out, points[len(points)-1])
}

// SimplifyTiles is Simplify for plain tile paths.
func SimplifyTiles(tiles []Vec2i) []Vec2i {
	return Simplify(tiles, Vec2i.ToVec2, func(_, _ Vec2i) bool { return true }, 0.0001)
}

// Collinear checks the signed area of the triangle abc.
func Collinear(a, b, c Vec2, tolerance float32) bool {
	area := (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
	return float32(math.Abs(float64(area))) <= tolerance
}

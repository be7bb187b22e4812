package geom

// GridCast walks every tile on the Bresenham line from start to end,
// inclusive of both. fn returns false to stop early; GridCast reports
// whether the walk reached end.
func GridCast(start, end Vec2i, fn func(Vec2i) bool) bool {
	dx := end.X - start.X
	dy := end.Y - start.Y

	// Perfect diagonal, no error term needed.
	if dx != 0 && abs(dx) == abs(dy) {
		sx, sy := sign(dx), sign(dy)
		for i := 0; i <= abs(dx); i++ {
			if !fn(Vec2i{start.X + sx*i, start.Y + sy*i}) {
				return false
			}
		}
		return true
	}

	adx, ady := abs(dx), -abs(dy)
	sx, sy := sign(dx), sign(dy)
	err := adx + ady
	x, y := start.X, start.Y

	for {
		if !fn(Vec2i{x, y}) {
			return false
		}
		if x == end.X && y == end.Y {
			return true
		}
		e2 := 2 * err
		if e2 >= ady {
			err += ady
			x += sx
		}
		if e2 <= adx {
			err += adx
			y += sy
		}
	}
}

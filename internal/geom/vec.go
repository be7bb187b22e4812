package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is a grid-local float position. Tile (x, y) spans [x, x+1) on each axis.
type Vec2 = mgl32.Vec2

// Vec2i is an integer tile or sub-cell coordinate.
type Vec2i struct {
	X, Y int
}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{v.X + o.X, v.Y + o.Y} }
func (v Vec2i) Sub(o Vec2i) Vec2i { return Vec2i{v.X - o.X, v.Y - o.Y} }
func (v Vec2i) Mul(n int) Vec2i   { return Vec2i{v.X * n, v.Y * n} }

// Center returns the float center of the tile at v.
func (v Vec2i) Center() Vec2 {
	return Vec2{float32(v.X) + 0.5, float32(v.Y) + 0.5}
}

// ToVec2 converts without offset.
func (v Vec2i) ToVec2() Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}

// Floor returns the tile containing p.
func Floor(p Vec2) Vec2i {
	return Vec2i{int(math.Floor(float64(p[0]))), int(math.Floor(float64(p[1])))}
}

// FloorDiv divides rounding toward negative infinity, so -1/8 == -1.
func FloorDiv(v, d int) int {
	q := v / d
	if (v%d != 0) && ((v < 0) != (d < 0)) {
		q--
	}
	return q
}

// FloorMod is the non-negative remainder matching FloorDiv.
func FloorMod(v, d int) int {
	m := v % d
	if m < 0 {
		m += d
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

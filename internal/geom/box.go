package geom

// Box2 is an axis-aligned float rectangle in grid-local space.
type Box2 struct {
	Left, Bottom, Right, Top float32
}

func NewBox2(bottomLeft, topRight Vec2) Box2 {
	return Box2{Left: bottomLeft[0], Bottom: bottomLeft[1], Right: topRight[0], Top: topRight[1]}
}

func (b Box2) Width() float32  { return b.Right - b.Left }
func (b Box2) Height() float32 { return b.Top - b.Bottom }

func (b Box2) Center() Vec2 {
	return Vec2{(b.Left + b.Right) / 2, (b.Bottom + b.Top) / 2}
}

// Enlarged grows every side by d.
func (b Box2) Enlarged(d float32) Box2 {
	return Box2{Left: b.Left - d, Bottom: b.Bottom - d, Right: b.Right + d, Top: b.Top + d}
}

// Intersect returns the overlap of two boxes. A disjoint result has
// Right < Left or Top < Bottom and zero Area.
func (b Box2) Intersect(o Box2) Box2 {
	return Box2{
		Left:   max(b.Left, o.Left),
		Bottom: max(b.Bottom, o.Bottom),
		Right:  min(b.Right, o.Right),
		Top:    min(b.Top, o.Top),
	}
}

func (b Box2) Intersects(o Box2) bool {
	return b.Left < o.Right && o.Left < b.Right && b.Bottom < o.Top && o.Bottom < b.Top
}

// Area is zero for empty or inverted boxes.
func (b Box2) Area() float32 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Contains is half-open so a point on a shared edge belongs to exactly one box.
func (b Box2) Contains(p Vec2) bool {
	return p[0] >= b.Left && p[0] < b.Right && p[1] >= b.Bottom && p[1] < b.Top
}

// Box2i is an integer rectangle with inclusive bounds, used for sub-cell runs.
type Box2i struct {
	Left, Bottom, Right, Top int
}

func (b Box2i) Width() int  { return b.Right - b.Left + 1 }
func (b Box2i) Height() int { return b.Top - b.Bottom + 1 }

func (b Box2i) Contains(p Vec2i) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

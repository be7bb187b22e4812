package navmesh

import "github.com/l1jgo/navgrid/internal/geom"

// Shape is a collider's footprint in grid-local space.
type Shape interface {
	Bounds() geom.Box2
	TestPoint(p geom.Vec2) bool
}

// Rect is an axis-aligned box shape.
type Rect struct {
	Box geom.Box2
}

func (r Rect) Bounds() geom.Box2            { return r.Box }
func (r Rect) TestPoint(p geom.Vec2) bool { return r.Box.Contains(p) }

// Circle is a round shape, e.g. a pillar or a barrel.
type Circle struct {
	Center geom.Vec2
	Radius float32
}

func (c Circle) Bounds() geom.Box2 {
	return geom.Box2{
		Left:   c.Center[0] - c.Radius,
		Bottom: c.Center[1] - c.Radius,
		Right:  c.Center[0] + c.Radius,
		Top:    c.Center[1] + c.Radius,
	}
}

func (c Circle) TestPoint(p geom.Vec2) bool {
	d := p.Sub(c.Center)
	return d.Dot(d) <= c.Radius*c.Radius
}

// Collider is a fixture anchored to a tile as seen by the sampler.
type Collider struct {
	Hard   bool
	Static bool
	Layer  uint32
	Mask   uint32
	Shape  Shape

	Door   bool
	Access bool

	// DestroyedAt is the damage needed to destroy the collider's owner.
	// Zero for indestructible colliders.
	DestroyedAt float32
}

// TileSource supplies raw tile and static collider data for one grid. It is
// owned by the physics/transform collaborator.
type TileSource interface {
	// Bounds returns the inclusive tile bounds of the grid, or ok=false for
	// a grid without tiles.
	Bounds() (b geom.Box2i, ok bool)

	// NewQuery returns a query object for one build task. Queries are never
	// shared between goroutines.
	NewQuery() (TileQuery, error)
}

// TileQuery reads tile state during a chunk build. Callers must not mutate
// the source while a rebuild is running.
type TileQuery interface {
	IsEmpty(tile geom.Vec2i) bool

	// Anchored appends the colliders anchored on tile to buf.
	Anchored(tile geom.Vec2i, buf []Collider) []Collider
}

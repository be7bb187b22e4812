package event

import (
	"github.com/l1jgo/navgrid/internal/core/handle"
	"github.com/l1jgo/navgrid/internal/geom"
)

// Events supplied by the physics/transform collaborator. Positions are
// grid-local.

// ColliderChanged fires when a static hard collider is added or removed, or
// a door toggles its collision.
type ColliderChanged struct {
	Grid handle.ID
	Pos  geom.Vec2
	Body Body
}

// Body carries the collision properties the navmesh filters on.
type Body struct {
	Hard  bool
	Layer uint32
	Mask  uint32
}

// ColliderMoved fires when a static collider moves, possibly across grids.
// A zero grid on either side means "not on a grid".
type ColliderMoved struct {
	OldGrid handle.ID
	OldPos  geom.Vec2
	NewGrid handle.ID
	NewPos  geom.Vec2
	Body    Body
}

// BodyTypeChanged fires when a body becomes static (or stops being static).
type BodyTypeChanged struct {
	Grid   handle.ID
	Pos    geom.Vec2
	Static bool
	Body   Body
}

// TileChanged fires when a tile is placed or removed.
type TileChanged struct {
	Grid     handle.ID
	Tile     geom.Vec2i
	WasEmpty bool
	IsEmpty  bool
}

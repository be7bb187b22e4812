package navmesh

import "github.com/l1jgo/navgrid/internal/geom"

// BreadcrumbFlag describes special traversal properties of a breadcrumb.
type BreadcrumbFlag uint16

const FlagNone BreadcrumbFlag = 0

const (
	// FlagSpace marks a sub-cell over an empty tile.
	FlagSpace BreadcrumbFlag = 1 << iota

	// FlagExternalBorder marks sub-cells on the outer ring of a chunk. It is
	// a sampling marker used for cross-chunk stitching, never traversal data.
	FlagExternalBorder

	// FlagDoor marks a door.
	FlagDoor

	// FlagAccess marks something that needs access to pass.
	FlagAccess

	// FlagInvalid is set on polygons that were replaced by a rebuild so
	// anyone still holding a reference can tell.
	FlagInvalid
)

// Data is the traversal snapshot shared by breadcrumbs and polygons.
type Data struct {
	Flags          BreadcrumbFlag
	CollisionLayer uint32
	CollisionMask  uint32

	// Damage is the summed destruction threshold of destructible colliders
	// in the area. Zero when nothing can be smashed.
	Damage float32
}

// IsFreeSpace reports plain walkable floor.
func (d Data) IsFreeSpace() bool {
	return d.CollisionLayer == 0 && d.CollisionMask == 0 &&
		d.Flags&(FlagSpace|FlagInvalid|FlagDoor|FlagAccess) == 0
}

// Traversal strips sampling-only flags.
func (d Data) Traversal() Data {
	d.Flags &^= FlagExternalBorder
	return d
}

func (d Data) Equal(o Data) bool {
	return d == o
}

// IsEquivalent ignores damage and invalidation, which change without the
// shape of the walkable area changing.
func (d Data) IsEquivalent(o Data) bool {
	const ignore = FlagInvalid | FlagExternalBorder
	return d.Flags&^ignore == o.Flags&^ignore &&
		d.CollisionLayer == o.CollisionLayer &&
		d.CollisionMask == o.CollisionMask
}

// Breadcrumb is one sampled sub-cell. Coordinates are chunk-local
// breadcrumb indices in [0, CrumbsPerSide).
type Breadcrumb struct {
	Coordinates geom.Vec2i
	Data        Data
}

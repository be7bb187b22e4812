package navmesh

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/l1jgo/navgrid/internal/core/handle"
	"github.com/l1jgo/navgrid/internal/geom"
)

// GridID identifies a grid inside a Navmesh.
type GridID = handle.ID

// Coordinates is a grid-local position on a specific grid.
type Coordinates struct {
	Grid GridID
	Pos  geom.Vec2
}

// PathPoly is a merged rectangle of uniform traversal data and a node of the
// navigation graph. Polygons are immutable after publication apart from the
// Invalid flag and their neighbor set, which only the rebuild pass touches.
type PathPoly struct {
	Grid        GridID
	ChunkOrigin geom.Vec2i

	// TileIndex is the chunk-local tile of the polygon's bottom-left corner.
	TileIndex byte

	// Box is in grid-local tile space.
	Box  geom.Box2
	Data Data

	// Border is set when the polygon touches the chunk's outer ring and so
	// may have neighbors in adjacent chunks.
	Border bool

	Neighbors mapset.Set[*PathPoly]
}

func newPathPoly(grid GridID, origin geom.Vec2i, index byte, box geom.Box2, data Data, border bool) *PathPoly {
	return &PathPoly{
		Grid:        grid,
		ChunkOrigin: origin,
		TileIndex:   index,
		Box:         box,
		Data:        data,
		Border:      border,
		Neighbors:   mapset.New[*PathPoly](),
	}
}

// Coordinates returns the polygon center on its grid.
func (p *PathPoly) Coordinates() Coordinates {
	return Coordinates{Grid: p.Grid, Pos: p.Box.Center()}
}

func (p *PathPoly) IsValid() bool {
	return p.Data.Flags&FlagInvalid == 0
}

// Equals is true for the same slot with identical content.
func (p *PathPoly) Equals(o *PathPoly) bool {
	if o == nil {
		return false
	}
	return p.sameSlot(o) && p.Data.Equal(o.Data)
}

// IsEquivalent is true for the same slot even when one side is a stale,
// invalidated or re-damaged copy of the other.
func (p *PathPoly) IsEquivalent(o *PathPoly) bool {
	if o == nil {
		return false
	}
	return p.sameSlot(o) && p.Data.IsEquivalent(o.Data)
}

func (p *PathPoly) sameSlot(o *PathPoly) bool {
	return p.Grid == o.Grid &&
		p.ChunkOrigin == o.ChunkOrigin &&
		p.TileIndex == o.TileIndex &&
		p.Box == o.Box
}

// IsNeighbor reports an edge between p and o.
func (p *PathPoly) IsNeighbor(o *PathPoly) bool {
	return p.Neighbors.Has(o)
}

// NeighborList returns a snapshot of the neighbor set.
func (p *PathPoly) NeighborList() []*PathPoly {
	out := make([]*PathPoly, 0, p.Neighbors.Size())
	p.Neighbors.Each(func(n *PathPoly) {
		out = append(out, n)
	})
	return out
}

// geometricNeighbors applies the enlarged-overlap adjacency test. Polygons on
// different grids are never geometric neighbors.
func geometricNeighbors(a, b *PathPoly) bool {
	if a.Grid != b.Grid {
		return false
	}
	ea := a.Box.Enlarged(StepOffset)
	eb := b.Box.Enlarged(StepOffset)
	if !ea.Intersects(eb) {
		return false
	}
	return ea.Intersect(eb).Area() > minNeighborOverlap
}

func addNeighbors(a, b *PathPoly) {
	if a == b {
		return
	}
	a.Neighbors.Put(b)
	b.Neighbors.Put(a)
}

func removeNeighbors(a, b *PathPoly) {
	a.Neighbors.Remove(b)
	b.Neighbors.Remove(a)
}

// clearPoly detaches a polygon from the graph and marks it invalid so stale
// references held by in-flight requests or steering see it.
func clearPoly(p *PathPoly) {
	p.Neighbors.Each(func(n *PathPoly) {
		n.Neighbors.Remove(p)
	})
	p.Data.Flags |= FlagInvalid
	p.Neighbors = mapset.New[*PathPoly]()
}

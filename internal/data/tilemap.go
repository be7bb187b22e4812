package data

import (
	"fmt"

	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

// TileMap is a mutable in-memory grid that serves as a navmesh tile source.
// It must not be mutated while a navmesh rebuild is running.
type TileMap struct {
	Name string

	floor     map[geom.Vec2i]bool
	colliders map[geom.Vec2i][]navmesh.Collider
}

func NewTileMap(name string) *TileMap {
	return &TileMap{
		Name:      name,
		floor:     make(map[geom.Vec2i]bool),
		colliders: make(map[geom.Vec2i][]navmesh.Collider),
	}
}

// ParseTileMap builds a map from text rows, top row first, with the bottom
// row at origin.Y.
func ParseTileMap(name string, origin geom.Vec2i, rows []string, legend map[string]TileDef) (*TileMap, error) {
	tm := NewTileMap(name)
	for i, row := range rows {
		y := origin.Y + len(rows) - 1 - i
		for x, ch := range []rune(row) {
			def, ok := legend[string(ch)]
			if !ok {
				return nil, fmt.Errorf("row %d: unknown tile %q", i+1, ch)
			}
			tile := geom.Vec2i{X: origin.X + x, Y: y}
			if def.Floor {
				tm.floor[tile] = true
			}
			if c, ok := def.collider(tile); ok {
				tm.colliders[tile] = append(tm.colliders[tile], c)
			}
		}
	}
	return tm, nil
}

// SetFloor places or removes the floor of a tile and reports the emptiness
// before and after.
func (m *TileMap) SetFloor(tile geom.Vec2i, floor bool) (wasEmpty, isEmpty bool) {
	wasEmpty = !m.floor[tile]
	if floor {
		m.floor[tile] = true
	} else {
		delete(m.floor, tile)
	}
	return wasEmpty, !floor
}

// AddCollider anchors a collider on a tile.
func (m *TileMap) AddCollider(tile geom.Vec2i, c navmesh.Collider) {
	m.colliders[tile] = append(m.colliders[tile], c)
}

// ClearColliders removes every collider anchored on a tile and returns how
// many there were.
func (m *TileMap) ClearColliders(tile geom.Vec2i) int {
	n := len(m.colliders[tile])
	delete(m.colliders, tile)
	return n
}

// TileCost is a simple tile cost: 1 on open floor, 0 on empty or solid
// tiles.
func (m *TileMap) TileCost(tile geom.Vec2i) float32 {
	if !m.floor[tile] || len(m.colliders[tile]) > 0 {
		return 0
	}
	return 1
}

func (m *TileMap) Bounds() (geom.Box2i, bool) {
	first := true
	var b geom.Box2i
	for t := range m.floor {
		if first {
			b = geom.Box2i{Left: t.X, Bottom: t.Y, Right: t.X, Top: t.Y}
			first = false
			continue
		}
		b.Left = min(b.Left, t.X)
		b.Bottom = min(b.Bottom, t.Y)
		b.Right = max(b.Right, t.X)
		b.Top = max(b.Top, t.Y)
	}
	return b, !first
}

// NewQuery returns the map itself; reads are safe to share while nothing
// mutates the map.
func (m *TileMap) NewQuery() (navmesh.TileQuery, error) {
	return m, nil
}

func (m *TileMap) IsEmpty(tile geom.Vec2i) bool {
	return !m.floor[tile]
}

func (m *TileMap) Anchored(tile geom.Vec2i, buf []navmesh.Collider) []navmesh.Collider {
	return append(buf, m.colliders[tile]...)
}

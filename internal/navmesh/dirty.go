package navmesh

import (
	"github.com/l1jgo/navgrid/internal/core/event"
	"github.com/l1jgo/navgrid/internal/geom"
)

// MarkDirty schedules the chunk containing pos for a rebuild. The grid's
// cooldown only starts when no rebuild is already scheduled, so a burst of
// marks coalesces into one rebuild.
func (m *Navmesh) MarkDirty(grid GridID, pos geom.Vec2) bool {
	g, ok := m.grids.Get(grid)
	if !ok {
		return false
	}
	now := m.clock()
	if g.nextUpdate.Before(now) {
		g.nextUpdate = now.Add(m.cooldown)
	}
	g.dirty.Put(ChunkOrigin(pos))
	return true
}

func (m *Navmesh) relevantBody(b event.Body) bool {
	return m.isRelevant(b.Hard, true, b.Layer, b.Mask)
}

func (m *Navmesh) OnColliderChanged(ev event.ColliderChanged) {
	if !m.relevantBody(ev.Body) {
		return
	}
	m.MarkDirty(ev.Grid, ev.Pos)
}

// OnColliderMoved dirties the chunk left behind and the chunk entered.
// Moving within one chunk of one grid marks it once.
func (m *Navmesh) OnColliderMoved(ev event.ColliderMoved) {
	if !m.relevantBody(ev.Body) {
		return
	}
	if !ev.OldGrid.IsZero() {
		m.MarkDirty(ev.OldGrid, ev.OldPos)
	}
	if ev.NewGrid.IsZero() {
		return
	}
	if ev.NewGrid == ev.OldGrid && ChunkOrigin(ev.NewPos) == ChunkOrigin(ev.OldPos) {
		return
	}
	m.MarkDirty(ev.NewGrid, ev.NewPos)
}

// OnBodyTypeChanged handles bodies becoming static or dynamic.
func (m *Navmesh) OnBodyTypeChanged(ev event.BodyTypeChanged) {
	if !m.relevantBody(ev.Body) {
		return
	}
	m.MarkDirty(ev.Grid, ev.Pos)
}

// OnTileChanged only cares about a tile flipping between empty and
// non-empty; swapping one floor for another does not change traversal.
func (m *Navmesh) OnTileChanged(ev event.TileChanged) {
	if ev.WasEmpty == ev.IsEmpty {
		return
	}
	m.MarkDirty(ev.Grid, ev.Tile.Center())
}

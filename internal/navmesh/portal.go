package navmesh

import (
	"go.uber.org/zap"

	"github.com/l1jgo/navgrid/internal/core/handle"
)

// PortalID identifies a registered portal.
type PortalID = handle.ID

// Portal is an explicit edge between the polygons under two coordinates,
// typically on different grids.
type Portal struct {
	ID   PortalID
	A, B Coordinates

	polyA, polyB *PathPoly
}

// Linked reports whether the portal currently joins two polygons.
func (p *Portal) Linked() bool {
	return p.polyA != nil && p.polyB != nil
}

// RegisterPortal records a portal and links it right away when both ends
// already have polygons. Otherwise it is linked after a later rebuild.
func (m *Navmesh) RegisterPortal(a, b Coordinates) PortalID {
	p := &Portal{A: a, B: b}
	id := m.portals.Add(p)
	p.ID = id

	for _, end := range [2]Coordinates{a, b} {
		if g, ok := m.grids.Get(end.Grid); ok {
			c := g.chunk(ChunkOrigin(end.Pos))
			c.portals = append(c.portals, id)
		}
	}

	if !m.linkPortal(p) && !m.orphaned(p) {
		m.pending.Put(id)
	}
	m.log.Debug("portal registered",
		zap.Uint64("portal", uint64(id)),
		zap.Bool("linked", p.Linked()),
	)
	return id
}

// UnregisterPortal removes the portal and its edge.
func (m *Navmesh) UnregisterPortal(id PortalID) error {
	p, ok := m.portals.Get(id)
	if !ok {
		return ErrUnknownPortal
	}
	m.unlinkPortal(p)
	m.pending.Remove(id)

	for _, end := range [2]Coordinates{p.A, p.B} {
		g, ok := m.grids.Get(end.Grid)
		if !ok {
			continue
		}
		if c, ok := g.chunks[ChunkOrigin(end.Pos)]; ok {
			c.portals = removePortalID(c.portals, id)
		}
	}
	m.portals.Remove(id)
	return nil
}

// GetPortal returns a copy of a registered portal.
func (m *Navmesh) GetPortal(id PortalID) (Portal, bool) {
	p, ok := m.portals.Get(id)
	if !ok {
		return Portal{}, false
	}
	return *p, true
}

// linkPortal joins the polygons under both ends. It fails when either end
// has no polygon yet.
func (m *Navmesh) linkPortal(p *Portal) bool {
	a := m.GetPoly(p.A)
	b := m.GetPoly(p.B)
	if a == nil || b == nil {
		return false
	}
	ca, _ := m.GetChunk(a.Grid, a.ChunkOrigin)
	cb, _ := m.GetChunk(b.Grid, b.ChunkOrigin)
	ca.portalPolys[p.ID] = a
	cb.portalPolys[p.ID] = b

	p.polyA, p.polyB = a, b
	m.links[polyPair{a, b}]++
	addNeighbors(a, b)
	return true
}

// unlinkPortal drops the portal's edge unless the polygons are still
// neighbors for another reason.
func (m *Navmesh) unlinkPortal(p *Portal) {
	a, b := p.polyA, p.polyB
	p.polyA, p.polyB = nil, nil
	if a == nil || b == nil {
		return
	}
	if ca, ok := m.GetChunk(a.Grid, a.ChunkOrigin); ok {
		delete(ca.portalPolys, p.ID)
	}
	if cb, ok := m.GetChunk(b.Grid, b.ChunkOrigin); ok {
		delete(cb.portalPolys, p.ID)
	}

	key := polyPair{a, b}
	if m.links[key]--; m.links[key] <= 0 {
		delete(m.links, key)
	}

	if geometricNeighbors(a, b) || m.sharedPortal(a, b) {
		return
	}
	removeNeighbors(a, b)
}

// polyPair keys the linked-portal count between two polygons, in the
// order the portal linked them.
type polyPair struct{ a, b *PathPoly }

// sharedPortal reports another linked portal between the same polygons.
func (m *Navmesh) sharedPortal(a, b *PathPoly) bool {
	return m.links[polyPair{a, b}] > 0 || m.links[polyPair{b, a}] > 0
}

// orphaned reports a portal with an end on a grid that no longer exists.
// Grid ids are never reused, so it can never link again.
func (m *Navmesh) orphaned(p *Portal) bool {
	return !m.grids.Has(p.A.Grid) || !m.grids.Has(p.B.Grid)
}

// linkPending retries every pending portal and drops orphaned ones.
func (m *Navmesh) linkPending() {
	if m.pending.Size() == 0 {
		return
	}
	var done []PortalID
	m.pending.Each(func(id PortalID) {
		p, ok := m.portals.Get(id)
		if !ok || p.Linked() || m.orphaned(p) || m.linkPortal(p) {
			done = append(done, id)
		}
	})
	for _, id := range done {
		m.pending.Remove(id)
	}
}

// PendingPortals is the number of portals waiting for polygons.
func (m *Navmesh) PendingPortals() int { return m.pending.Size() }

// PortalPolys returns the polygons on grid that a linked portal joins to a
// polygon on another grid.
func (m *Navmesh) PortalPolys(grid GridID) []*PathPoly {
	g, ok := m.grids.Get(grid)
	if !ok {
		return nil
	}
	var out []*PathPoly
	for _, c := range g.chunks {
		for id, poly := range c.portalPolys {
			p, ok := m.portals.Get(id)
			if !ok || p.polyA == nil || p.polyB == nil || p.polyA.Grid == p.polyB.Grid {
				continue
			}
			out = append(out, poly)
		}
	}
	return out
}

func removePortalID(ids []PortalID, id PortalID) []PortalID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

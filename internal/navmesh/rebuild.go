package navmesh

import (
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/navgrid/internal/geom"
)

// Update rebuilds every unpaused grid whose cooldown has elapsed and returns
// the number of chunks rebuilt.
func (m *Navmesh) Update() int {
	if m.paused {
		return 0
	}
	now := m.clock()
	total := 0
	m.grids.Each(func(_ GridID, g *Grid) {
		if g.paused || g.dirty.Size() == 0 || now.Before(g.nextUpdate) {
			return
		}
		total += m.rebuildGrid(g)
	})
	m.linkPending()
	return total
}

// Flush rebuilds every dirty chunk immediately, ignoring cooldowns and
// pauses. Used at startup and by tools.
func (m *Navmesh) Flush() int {
	total := 0
	m.grids.Each(func(_ GridID, g *Grid) {
		if g.dirty.Size() > 0 {
			total += m.rebuildGrid(g)
		}
	})
	m.linkPending()
	return total
}

type buildResult struct {
	chunk *Chunk
	err   error
}

// rebuildGrid runs one full rebuild of a grid's dirty chunks:
// detach portals, sample and build in parallel, then diff, publish and link
// on the calling goroutine.
func (m *Navmesh) rebuildGrid(g *Grid) int {
	start := time.Now()
	origins := g.takeDirty()

	results := make([]buildResult, len(origins))
	dirtyPortals := mapset.New[PortalID]()
	for i, o := range origins {
		c := g.chunk(o)
		results[i].chunk = c

		for id := range c.portalPolys {
			if p, ok := m.portals.Get(id); ok {
				m.unlinkPortal(p)
				dirtyPortals.Put(id)
			}
		}
		for _, id := range c.portals {
			dirtyPortals.Put(id)
		}
	}

	var eg errgroup.Group
	eg.SetLimit(m.workers)
	for i := range results {
		r := &results[i]
		eg.Go(func() error {
			q, err := g.source.NewQuery()
			if err != nil {
				r.err = err
				return nil
			}
			m.sampleChunk(r.chunk, q)
			r.chunk.buffer = buildPolys(g.ID, r.chunk)
			return nil
		})
	}
	_ = eg.Wait()

	built := make([]*Chunk, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			m.log.Warn("navmesh chunk build failed",
				zap.Uint64("grid", uint64(g.ID)),
				zap.Int("chunk_x", r.chunk.Origin.X),
				zap.Int("chunk_y", r.chunk.Origin.Y),
				zap.Error(r.err),
			)
			g.dirty.Put(r.chunk.Origin)
			continue
		}
		applyChunk(r.chunk)
		built = append(built, r.chunk)
	}

	for _, c := range built {
		linkChunk(g, c)
	}

	dirtyPortals.Each(func(id PortalID) {
		p, ok := m.portals.Get(id)
		if !ok || p.Linked() {
			return
		}
		switch {
		case m.linkPortal(p):
			m.pending.Remove(id)
		case m.orphaned(p):
			m.pending.Remove(id)
		default:
			m.pending.Put(id)
		}
	})

	elapsed := time.Since(start)
	if len(built) > 0 {
		ev := ChunksRebuilt{Grid: g.ID, Chunks: make([]ChunkPolys, 0, len(built)), Elapsed: elapsed}
		for _, c := range built {
			ev.Chunks = append(ev.Chunks, ChunkPolys{Origin: c.Origin, Polygons: c.Polygons()})
		}
		m.rebuilt.Emit(ev)
	}
	if g.dirty.Size() > 0 {
		g.nextUpdate = m.clock().Add(m.cooldown)
	}

	m.log.Debug("navmesh grid rebuilt",
		zap.Uint64("grid", uint64(g.ID)),
		zap.Int("chunks", len(built)),
		zap.Int("failed", len(results)-len(built)),
		zap.Duration("elapsed", elapsed),
	)
	return len(built)
}

type polyKey struct {
	index byte
	box   geom.Box2
}

// applyChunk diffs the freshly built buffer against the published polygons.
// An old polygon identical to a new one is kept, with its edges, so stale
// references stay valid; every other old polygon is invalidated.
func applyChunk(c *Chunk) {
	old := make(map[polyKey]*PathPoly, len(c.polys))
	for _, p := range c.polys {
		old[polyKey{p.TileIndex, p.Box}] = p
	}

	out := make([]*PathPoly, len(c.buffer))
	kept := make(map[*PathPoly]struct{}, len(c.polys))
	for i, np := range c.buffer {
		if op, ok := old[polyKey{np.TileIndex, np.Box}]; ok && op.Equals(np) {
			out[i] = op
			kept[op] = struct{}{}
			continue
		}
		out[i] = np
	}

	for _, op := range c.polys {
		if _, ok := kept[op]; !ok {
			clearPoly(op)
		}
	}

	c.buffer = nil
	c.publish(out)
}

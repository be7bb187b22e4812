package navmesh

import (
	"errors"
	"runtime"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/l1jgo/navgrid/internal/core/event"
	"github.com/l1jgo/navgrid/internal/core/handle"
	"github.com/l1jgo/navgrid/internal/geom"
)

var (
	ErrUnknownGrid   = errors.New("navmesh: unknown grid")
	ErrUnknownPortal = errors.New("navmesh: unknown portal")
)

// DefaultCooldown is how long a grid waits after the first dirty mark before
// rebuilding, so bursts of changes coalesce into one rebuild.
const DefaultCooldown = 450 * time.Millisecond

// Options configures a Navmesh. Zero values fall back to defaults.
type Options struct {
	Cooldown time.Duration

	// Workers bounds the parallel chunk builds of one grid rebuild.
	Workers int

	// Layer and Mask are the collision bits a mob is assumed to have;
	// colliders matching neither are ignored by the sampler.
	Layer uint32
	Mask  uint32

	Clock func() time.Time
	Log   *zap.Logger
}

// ChunkPolys is one rebuilt chunk in a ChunksRebuilt notification.
type ChunkPolys struct {
	Origin   geom.Vec2i
	Polygons []*PathPoly
}

// ChunksRebuilt is published after each grid rebuild.
type ChunksRebuilt struct {
	Grid    GridID
	Chunks  []ChunkPolys
	Elapsed time.Duration
}

// Navmesh owns every grid's chunks, polygons and portals. All methods must
// be called from the tick goroutine.
type Navmesh struct {
	grids   *handle.Store[Grid]
	portals *handle.Store[Portal]

	// pending holds portals waiting for one of their polygons to exist.
	pending mapset.Set[PortalID]

	// links counts linked portals per polygon pair.
	links map[polyPair]int

	rebuilt *event.Topic[ChunksRebuilt]

	cooldown time.Duration
	workers  int
	layer    uint32
	mask     uint32
	clock    func() time.Time
	log      *zap.Logger

	paused   bool
	pausedAt time.Time
}

func New(opts Options) *Navmesh {
	m := &Navmesh{
		grids:    handle.NewStore[Grid](),
		portals:  handle.NewStore[Portal](),
		pending:  mapset.New[PortalID](),
		links:    make(map[polyPair]int),
		rebuilt:  event.NewTopic[ChunksRebuilt](),
		cooldown: opts.Cooldown,
		workers:  opts.Workers,
		layer:    opts.Layer,
		mask:     opts.Mask,
		clock:    opts.Clock,
		log:      opts.Log,
	}
	if m.cooldown <= 0 {
		m.cooldown = DefaultCooldown
	}
	if m.workers <= 0 {
		m.workers = runtime.GOMAXPROCS(0)
	}
	if m.layer == 0 && m.mask == 0 {
		m.layer, m.mask = ^uint32(0), ^uint32(0)
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m
}

// Rebuilt is the topic ChunksRebuilt notifications are emitted on.
func (m *Navmesh) Rebuilt() *event.Topic[ChunksRebuilt] { return m.rebuilt }

// AddGrid registers a grid and marks every chunk inside its bounds dirty.
func (m *Navmesh) AddGrid(src TileSource) GridID {
	g := newGrid(src)
	id := m.grids.Add(g)
	g.ID = id

	if b, ok := src.Bounds(); ok {
		lo := TileChunk(geom.Vec2i{X: b.Left, Y: b.Bottom})
		hi := TileChunk(geom.Vec2i{X: b.Right, Y: b.Top})
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				g.dirty.Put(geom.Vec2i{X: x, Y: y})
			}
		}
		g.nextUpdate = m.clock().Add(m.cooldown)
	}

	m.log.Info("navmesh grid added",
		zap.Uint64("grid", uint64(id)),
		zap.Int("dirty_chunks", g.dirty.Size()),
	)
	return id
}

// RemoveGrid drops a grid. Its polygons are invalidated so in-flight
// requests notice. Portals touching it are unlinked and never retried; they
// stay registered until unregistered.
func (m *Navmesh) RemoveGrid(id GridID) error {
	g, ok := m.grids.Get(id)
	if !ok {
		return ErrUnknownGrid
	}

	m.portals.Each(func(pid PortalID, p *Portal) {
		if p.A.Grid != id && p.B.Grid != id {
			return
		}
		m.unlinkPortal(p)
		m.pending.Remove(pid)
	})
	for _, c := range g.chunks {
		c.clearAll()
	}
	m.grids.Remove(id)

	m.log.Info("navmesh grid removed", zap.Uint64("grid", uint64(id)))
	return nil
}

func (m *Navmesh) Grid(id GridID) (*Grid, bool) {
	return m.grids.Get(id)
}

// Grids lists registered grids in id order.
func (m *Navmesh) Grids() []GridID {
	out := make([]GridID, 0, m.grids.Len())
	m.grids.Each(func(id GridID, _ *Grid) {
		out = append(out, id)
	})
	return out
}

// HasGraph reports whether the grid has at least one built chunk.
func (m *Navmesh) HasGraph(id GridID) bool {
	g, ok := m.grids.Get(id)
	if !ok {
		return false
	}
	for _, c := range g.chunks {
		if c.built {
			return true
		}
	}
	return false
}

// GetPoly returns the valid polygon containing the coordinates, or nil.
func (m *Navmesh) GetPoly(at Coordinates) *PathPoly {
	g, ok := m.grids.Get(at.Grid)
	if !ok {
		return nil
	}
	tile := geom.Floor(at.Pos)
	c := g.builtChunk(TileChunk(tile))
	if c == nil {
		return nil
	}
	local := tile.Sub(c.GridOrigin())
	for _, p := range c.TilePolygons(local.X, local.Y) {
		if p.IsValid() && p.Box.Contains(at.Pos) {
			return p
		}
	}
	return nil
}

// GetChunk returns a built chunk.
func (m *Navmesh) GetChunk(id GridID, origin geom.Vec2i) (*Chunk, bool) {
	g, ok := m.grids.Get(id)
	if !ok {
		return nil, false
	}
	c := g.builtChunk(origin)
	return c, c != nil
}

// GetChunkPolygons returns a snapshot of a chunk's polygons.
func (m *Navmesh) GetChunkPolygons(id GridID, origin geom.Vec2i) ([]*PathPoly, error) {
	g, ok := m.grids.Get(id)
	if !ok {
		return nil, ErrUnknownGrid
	}
	c := g.builtChunk(origin)
	if c == nil {
		return nil, nil
	}
	return c.Polygons(), nil
}

// Pause stops all rebuilds until Unpause.
func (m *Navmesh) Pause() {
	if m.paused {
		return
	}
	m.paused = true
	m.pausedAt = m.clock()
}

// Unpause resumes rebuilds and pushes every pending deadline back by the
// time spent paused.
func (m *Navmesh) Unpause() {
	if !m.paused {
		return
	}
	m.paused = false
	d := m.clock().Sub(m.pausedAt)
	m.grids.Each(func(_ GridID, g *Grid) {
		if !g.nextUpdate.IsZero() {
			g.nextUpdate = g.nextUpdate.Add(d)
		}
	})
}

func (m *Navmesh) Paused() bool { return m.paused }

// PauseGrid stops rebuilds for one grid.
func (m *Navmesh) PauseGrid(id GridID) error {
	g, ok := m.grids.Get(id)
	if !ok {
		return ErrUnknownGrid
	}
	if !g.paused {
		g.paused = true
		g.pausedAt = m.clock()
	}
	return nil
}

func (m *Navmesh) UnpauseGrid(id GridID) error {
	g, ok := m.grids.Get(id)
	if !ok {
		return ErrUnknownGrid
	}
	if g.paused {
		g.paused = false
		if !g.nextUpdate.IsZero() {
			g.nextUpdate = g.nextUpdate.Add(m.clock().Sub(g.pausedAt))
		}
	}
	return nil
}

package navmesh

import (
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/l1jgo/navgrid/internal/geom"
)

// Grid is the per-grid navmesh state.
type Grid struct {
	ID     GridID
	source TileSource

	chunks map[geom.Vec2i]*Chunk
	dirty  mapset.Set[geom.Vec2i]

	// nextUpdate is when the dirty set becomes eligible for a rebuild.
	nextUpdate time.Time

	paused   bool
	pausedAt time.Time
}

func newGrid(src TileSource) *Grid {
	return &Grid{
		source: src,
		chunks: make(map[geom.Vec2i]*Chunk),
		dirty:  mapset.New[geom.Vec2i](),
	}
}

// chunk returns the chunk at origin, creating an unbuilt one if needed.
func (g *Grid) chunk(origin geom.Vec2i) *Chunk {
	c, ok := g.chunks[origin]
	if !ok {
		c = newChunk(origin)
		g.chunks[origin] = c
	}
	return c
}

// builtChunk returns the chunk at origin only if it has been built.
func (g *Grid) builtChunk(origin geom.Vec2i) *Chunk {
	c, ok := g.chunks[origin]
	if !ok || !c.built {
		return nil
	}
	return c
}

// takeDirty empties the dirty set and returns its origins in a stable order.
func (g *Grid) takeDirty() []geom.Vec2i {
	out := make([]geom.Vec2i, 0, g.dirty.Size())
	g.dirty.Each(func(o geom.Vec2i) {
		out = append(out, o)
	})
	g.dirty = mapset.New[geom.Vec2i]()
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// NextUpdate reports when the grid's pending rebuild becomes due.
func (g *Grid) NextUpdate() time.Time { return g.nextUpdate }

// DirtyCount reports the number of chunks waiting for a rebuild.
func (g *Grid) DirtyCount() int { return g.dirty.Size() }

func (g *Grid) Paused() bool { return g.paused }

// ChunkOrigin returns the chunk origin containing a grid-local position.
func ChunkOrigin(pos geom.Vec2) geom.Vec2i {
	return TileChunk(geom.Floor(pos))
}

// TileChunk returns the chunk origin containing a tile.
func TileChunk(tile geom.Vec2i) geom.Vec2i {
	return geom.Vec2i{
		X: geom.FloorDiv(tile.X, ChunkSize),
		Y: geom.FloorDiv(tile.Y, ChunkSize),
	}
}

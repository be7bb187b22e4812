package navmesh

import (
	"math"

	"github.com/l1jgo/navgrid/internal/geom"
)

// Chunk is a ChunkSize x ChunkSize tile block of one grid and the unit of
// rebuild. Only the rebuild pass writes to a chunk.
type Chunk struct {
	Origin geom.Vec2i

	crumbs [CrumbsPerSide * CrumbsPerSide]Breadcrumb

	// tiles lists, per chunk-local tile, every published polygon covering
	// that tile. A merged polygon appears in several tiles.
	tiles [ChunkSize * ChunkSize][]*PathPoly
	polys []*PathPoly

	// buffer receives the freshly built polygons before they are diffed
	// against polys.
	buffer []*PathPoly

	portalPolys map[PortalID]*PathPoly
	portals     []PortalID

	built bool
}

func newChunk(origin geom.Vec2i) *Chunk {
	return &Chunk{
		Origin:      origin,
		portalPolys: make(map[PortalID]*PathPoly),
	}
}

func crumbIndex(x, y int) int {
	return x*CrumbsPerSide + y
}

func tileIndex(x, y int) byte {
	return byte(x*ChunkSize + y)
}

// Crumb returns the breadcrumb at chunk-local breadcrumb coordinates.
func (c *Chunk) Crumb(x, y int) Breadcrumb {
	return c.crumbs[crumbIndex(x, y)]
}

// Polygons returns a copy of the published polygon list.
func (c *Chunk) Polygons() []*PathPoly {
	return append([]*PathPoly(nil), c.polys...)
}

// TilePolygons returns the polygons covering a chunk-local tile.
func (c *Chunk) TilePolygons(x, y int) []*PathPoly {
	if x < 0 || y < 0 || x >= ChunkSize || y >= ChunkSize {
		return nil
	}
	return c.tiles[tileIndex(x, y)]
}

// GridOrigin is the grid tile of the chunk's bottom-left corner.
func (c *Chunk) GridOrigin() geom.Vec2i {
	return c.Origin.Mul(ChunkSize)
}

// publish swaps in fresh per-tile lists. Slices handed out by TilePolygons
// keep the previous build.
func (c *Chunk) publish(polys []*PathPoly) {
	for i := range c.tiles {
		c.tiles[i] = nil
	}
	gridOrigin := c.GridOrigin()
	for _, p := range polys {
		minX := floorInt(p.Box.Left) - gridOrigin.X
		minY := floorInt(p.Box.Bottom) - gridOrigin.Y
		maxX := ceilInt(p.Box.Right) - gridOrigin.X - 1
		maxY := ceilInt(p.Box.Top) - gridOrigin.Y - 1
		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				idx := tileIndex(x, y)
				c.tiles[idx] = append(c.tiles[idx], p)
			}
		}
	}
	c.polys = polys
	c.built = true
}

func (c *Chunk) clearAll() {
	for _, p := range c.polys {
		clearPoly(p)
	}
	for i := range c.tiles {
		c.tiles[i] = nil
	}
	c.polys = nil
	c.buffer = nil
}

func floorInt(v float32) int { return int(math.Floor(float64(v))) }
func ceilInt(v float32) int  { return int(math.Ceil(float64(v))) }

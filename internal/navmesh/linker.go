package navmesh

import "github.com/l1jgo/navgrid/internal/geom"

var cardinals = [4]geom.Vec2i{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// linkChunk adds the neighbor edges of a freshly published chunk. Pairs
// inside the chunk are tested once each; border polygons are additionally
// tested against the border polygons of the four adjacent chunks.
func linkChunk(g *Grid, c *Chunk) {
	var adjacent [4]*Chunk
	for i, d := range cardinals {
		adjacent[i] = g.builtChunk(c.Origin.Add(d))
	}

	for i, p := range c.polys {
		for _, q := range c.polys[i+1:] {
			if geometricNeighbors(p, q) {
				addNeighbors(p, q)
			}
		}

		if !p.Border {
			continue
		}
		for _, nc := range adjacent {
			if nc == nil {
				continue
			}
			for _, q := range nc.polys {
				if q.Border && geometricNeighbors(p, q) {
					addNeighbors(p, q)
				}
			}
		}
	}
}

package navmesh

import "github.com/l1jgo/navgrid/internal/geom"

// subRect is a chunk-local breadcrumb rectangle of uniform data.
type subRect struct {
	box  geom.Box2i
	data Data
}

// buildPolys turns the chunk's breadcrumbs into polygons. Each tile is first
// run-length encoded and merged on its own, then the tile rectangles are
// merged across the chunk, so the polygon count follows the number of
// distinct traversal regions rather than the breadcrumb count.
func buildPolys(grid GridID, c *Chunk) []*PathPoly {
	rects := make([]subRect, 0, ChunkSize*ChunkSize)
	var tileRects []subRect

	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			tileRects = tileRuns(c, x, y, tileRects[:0])
			tileRects = mergeRects(tileRects)
			rects = append(rects, tileRects...)
		}
	}

	rects = mergeRects(rects)

	gridOrigin := c.GridOrigin().ToVec2()
	polys := make([]*PathPoly, 0, len(rects))
	for _, r := range rects {
		box := geom.Box2{
			Left:   gridOrigin[0] + float32(r.box.Left)/SubStep,
			Bottom: gridOrigin[1] + float32(r.box.Bottom)/SubStep,
			Right:  gridOrigin[0] + float32(r.box.Right+1)/SubStep,
			Top:    gridOrigin[1] + float32(r.box.Top+1)/SubStep,
		}
		index := tileIndex(r.box.Left/SubStep, r.box.Bottom/SubStep)
		polys = append(polys, newPathPoly(grid, c.Origin, index, box, r.data, rectOnBorder(c, r.box)))
	}
	return polys
}

// tileRuns scans a tile's breadcrumbs column by column and emits a run each
// time the data changes or the column ends.
func tileRuns(c *Chunk, x, y int, out []subRect) []subRect {
	baseX, baseY := x*SubStep, y*SubStep
	data := c.crumbs[crumbIndex(baseX, baseY)].Data.Traversal()
	startX, startY := 0, 0

	for i := 0; i < SubStep*SubStep; i++ {
		ix, iy := i/SubStep, i%SubStep
		nextX, nextY := (i+1)/SubStep, (i+1)%SubStep

		if iy == SubStep-1 ||
			c.crumbs[crumbIndex(baseX+nextX, baseY+nextY)].Data.Traversal() != data {
			out = append(out, subRect{
				box:  geom.Box2i{Left: baseX + startX, Bottom: baseY + startY, Right: baseX + ix, Top: baseY + iy},
				data: data,
			})

			if i < SubStep*SubStep-1 {
				startX, startY = nextX, nextY
				data = c.crumbs[crumbIndex(baseX+nextX, baseY+nextY)].Data.Traversal()
			}
		}
	}
	return out
}

// mergeRects repeatedly combines rectangles that share a full edge and have
// equal data until nothing changes.
func mergeRects(rects []subRect) []subRect {
	for anyCombined := true; anyCombined; {
		anyCombined = false

		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				merged, ok := tryMerge(rects[i], rects[j])
				if !ok {
					continue
				}
				rects[i] = merged
				rects = append(rects[:j], rects[j+1:]...)
				j = i
				anyCombined = true
			}
		}
	}
	return rects
}

func tryMerge(a, b subRect) (subRect, bool) {
	if a.data != b.data {
		return subRect{}, false
	}
	ab, bb := a.box, b.box

	if ab.Bottom == bb.Bottom && ab.Top == bb.Top {
		switch {
		case ab.Right+1 == bb.Left:
			return subRect{box: geom.Box2i{Left: ab.Left, Bottom: ab.Bottom, Right: bb.Right, Top: ab.Top}, data: a.data}, true
		case bb.Right+1 == ab.Left:
			return subRect{box: geom.Box2i{Left: bb.Left, Bottom: ab.Bottom, Right: ab.Right, Top: ab.Top}, data: a.data}, true
		}
	}

	if ab.Left == bb.Left && ab.Right == bb.Right {
		switch {
		case ab.Top+1 == bb.Bottom:
			return subRect{box: geom.Box2i{Left: ab.Left, Bottom: ab.Bottom, Right: ab.Right, Top: bb.Top}, data: a.data}, true
		case bb.Top+1 == ab.Bottom:
			return subRect{box: geom.Box2i{Left: ab.Left, Bottom: bb.Bottom, Right: ab.Right, Top: ab.Top}, data: a.data}, true
		}
	}

	return subRect{}, false
}

// rectOnBorder checks the rectangle's corner breadcrumbs for the border
// marker. A rectangle touching the outer ring has a corner on it.
func rectOnBorder(c *Chunk, b geom.Box2i) bool {
	corners := [4]geom.Vec2i{
		{X: b.Left, Y: b.Bottom}, {X: b.Right, Y: b.Bottom},
		{X: b.Left, Y: b.Top}, {X: b.Right, Y: b.Top},
	}
	for _, p := range corners {
		if c.crumbs[crumbIndex(p.X, p.Y)].Data.Flags&FlagExternalBorder != 0 {
			return true
		}
	}
	return false
}

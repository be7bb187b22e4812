package navmesh

import "github.com/l1jgo/navgrid/internal/geom"

// isRelevant filters colliders down to the ones pathfinding cares about.
// Chairs and the like collide but not with mobs.
func (m *Navmesh) isRelevant(hard, static bool, layer, mask uint32) bool {
	if !hard || !static {
		return false
	}
	return mask&m.layer != 0 || layer&m.mask != 0
}

// sampleChunk overwrites every breadcrumb of the chunk from the tile query.
// There is no partial update; a dirty chunk is always resampled in full.
func (m *Navmesh) sampleChunk(c *Chunk, q TileQuery) {
	gridOrigin := c.GridOrigin()
	var anchored, relevant []Collider

	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			tile := geom.Vec2i{X: x, Y: y}.Add(gridOrigin)

			base := FlagNone
			if q.IsEmpty(tile) {
				base = FlagSpace
			}

			anchored = q.Anchored(tile, anchored[:0])
			relevant = relevant[:0]
			for _, col := range anchored {
				if col.Shape == nil || !m.isRelevant(col.Hard, col.Static, col.Layer, col.Mask) {
					continue
				}
				relevant = append(relevant, col)
			}

			for subX := 0; subX < SubStep; subX++ {
				for subY := 0; subY < SubStep; subY++ {
					cx := x*SubStep + subX
					cy := y*SubStep + subY

					pos := geom.Vec2{
						StepOffset + float32(tile.X) + float32(subX)/SubStep,
						StepOffset + float32(tile.Y) + float32(subY)/SubStep,
					}
					data := Data{Flags: base}

					for _, col := range relevant {
						// Broad bounds first, then the exact shape.
						if !containsClosed(col.Shape.Bounds(), pos) || !col.Shape.TestPoint(pos) {
							continue
						}
						data.CollisionLayer |= col.Layer
						data.CollisionMask |= col.Mask
						if col.Door {
							data.Flags |= FlagDoor
						}
						if col.Access {
							data.Flags |= FlagAccess
						}
						data.Damage += col.DestroyedAt
					}

					if cx == 0 || cy == 0 || cx == CrumbsPerSide-1 || cy == CrumbsPerSide-1 {
						data.Flags |= FlagExternalBorder
					}

					c.crumbs[crumbIndex(cx, cy)] = Breadcrumb{
						Coordinates: geom.Vec2i{X: cx, Y: cy},
						Data:        data,
					}
				}
			}
		}
	}
}

func containsClosed(b geom.Box2, p geom.Vec2) bool {
	return p[0] >= b.Left && p[0] <= b.Right && p[1] >= b.Bottom && p[1] <= b.Top
}

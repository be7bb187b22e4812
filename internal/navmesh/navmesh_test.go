package navmesh

import (
	"testing"

	"github.com/l1jgo/navgrid/internal/core/event"
	"github.com/l1jgo/navgrid/internal/geom"
)

func TestUniformChunkCollapses(t *testing.T) {
	m, _ := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(8, 8))
	if n := m.Flush(); n != 1 {
		t.Fatalf("rebuilt %d chunks, want 1", n)
	}

	polys := mustChunkPolys(t, m, id, geom.Vec2i{})
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	p := polys[0]
	want := geom.Box2{Left: 0, Bottom: 0, Right: 8, Top: 8}
	if p.Box != want {
		t.Fatalf("box %+v, want %+v", p.Box, want)
	}
	if !p.Border {
		t.Fatal("chunk-sized polygon should be a border polygon")
	}
	if p.Data.Flags&FlagExternalBorder != 0 {
		t.Fatal("border marker leaked into polygon data")
	}
	c, _ := m.GetChunk(id, geom.Vec2i{})
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			if got := c.TilePolygons(x, y); len(got) != 1 || got[0] != p {
				t.Fatalf("tile (%d,%d) lists %v", x, y, got)
			}
		}
	}
}

func TestCheckerboardChunk(t *testing.T) {
	m, _ := newTestNavmesh(t)
	src := newMemSource(8, 8)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if (x+y)%2 == 1 {
				src.wall(x, y)
			}
		}
	}
	id := m.AddGrid(src)
	m.Flush()

	polys := mustChunkPolys(t, m, id, geom.Vec2i{})
	if len(polys) != 64 {
		t.Fatalf("got %d polygons, want 64", len(polys))
	}
	for _, p := range polys {
		if p.Box.Width() != 1 || p.Box.Height() != 1 {
			t.Fatalf("polygon %+v is not one tile", p.Box)
		}
		// Checkerboard cells only touch same-data cells at corners.
		p.Neighbors.Each(func(n *PathPoly) {
			if n.Data == p.Data {
				t.Fatalf("%+v linked to same-data corner cell %+v", p.Box, n.Box)
			}
		})
	}
}

func TestPolygonsPartitionChunk(t *testing.T) {
	m, _ := newTestNavmesh(t)
	src := newMemSource(8, 8)
	src.wall(3, 3)
	src.wall(3, 4)
	src.wall(5, 1)
	delete(src.floor, geom.Vec2i{X: 7, Y: 7})
	id := m.AddGrid(src)
	m.Flush()

	c, _ := m.GetChunk(id, geom.Vec2i{})
	var area float32
	for _, p := range c.Polygons() {
		area += p.Box.Area()
	}
	if area != 64 {
		t.Fatalf("polygon area %v, want 64", area)
	}

	// Every breadcrumb center lies in exactly one polygon whose data
	// matches the breadcrumb.
	for cx := 0; cx < CrumbsPerSide; cx++ {
		for cy := 0; cy < CrumbsPerSide; cy++ {
			pos := geom.Vec2{StepOffset + float32(cx)/SubStep, StepOffset + float32(cy)/SubStep}
			hits := 0
			for _, p := range c.Polygons() {
				if p.Box.Contains(pos) {
					hits++
					if p.Data != c.Crumb(cx, cy).Data.Traversal() {
						t.Fatalf("crumb (%d,%d) data mismatch", cx, cy)
					}
				}
			}
			if hits != 1 {
				t.Fatalf("crumb (%d,%d) covered %d times", cx, cy, hits)
			}
		}
	}

	if p := m.GetPoly(coords(id, 7.5, 7.5)); p == nil || p.Data.Flags&FlagSpace == 0 {
		t.Fatalf("missing tile should be a space polygon, got %+v", p)
	}
	if p := m.GetPoly(coords(id, 3.5, 3.5)); p == nil || p.Data.CollisionLayer != 1 {
		t.Fatalf("wall tile should carry its layer, got %+v", p)
	}
}

func TestNeighborSymmetry(t *testing.T) {
	m, _ := newTestNavmesh(t)
	src := newMemSource(24, 16)
	for y := 0; y < 12; y++ {
		src.wall(9, y)
	}
	src.wall(17, 3)
	m.AddGrid(src)
	m.Flush()

	for _, gid := range m.Grids() {
		g, _ := m.Grid(gid)
		for _, c := range g.chunks {
			for _, p := range c.polys {
				if p.IsNeighbor(p) {
					t.Fatalf("%+v is its own neighbor", p.Box)
				}
				p.Neighbors.Each(func(n *PathPoly) {
					if !n.IsNeighbor(p) {
						t.Fatalf("edge %+v -> %+v is one-way", p.Box, n.Box)
					}
					if !n.IsValid() {
						t.Fatalf("edge to invalid polygon %+v", n.Box)
					}
				})
			}
		}
	}
}

func TestCrossChunkStitching(t *testing.T) {
	m, _ := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(16, 16))
	m.Flush()

	a := m.GetPoly(coords(id, 1, 1))
	right := m.GetPoly(coords(id, 9, 1))
	up := m.GetPoly(coords(id, 1, 9))
	diag := m.GetPoly(coords(id, 9, 9))
	if a == nil || right == nil || up == nil || diag == nil {
		t.Fatal("missing polygons")
	}
	if !a.IsNeighbor(right) || !a.IsNeighbor(up) {
		t.Fatal("cardinal chunks not stitched")
	}
	if a.IsNeighbor(diag) {
		t.Fatal("diagonal chunks linked through a corner")
	}
}

func TestGeometricNeighborThreshold(t *testing.T) {
	poly := func(l, b, r, tp float32) *PathPoly {
		return newPathPoly(1, geom.Vec2i{}, 0, geom.Box2{Left: l, Bottom: b, Right: r, Top: tp}, Data{}, false)
	}
	base := poly(0, 0, 1, 1)

	tests := []struct {
		name  string
		other *PathPoly
		want  bool
	}{
		{"full edge", poly(1, 0, 2, 1), true},
		{"two crumbs", poly(1, 0.5, 2, 2), true},
		{"one crumb", poly(1, 0.75, 2, 2), false},
		{"corner", poly(1, 1, 2, 2), false},
		{"gap", poly(1.25, 0, 2, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geometricNeighbors(base, tt.other); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}

	other := newPathPoly(2, geom.Vec2i{}, 0, geom.Box2{Left: 1, Bottom: 0, Right: 2, Top: 1}, Data{}, false)
	if geometricNeighbors(base, other) {
		t.Fatal("polygons on different grids are never geometric neighbors")
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	m, _ := newTestNavmesh(t)
	src := newMemSource(16, 8)
	src.wall(4, 4)
	id := m.AddGrid(src)
	m.Flush()

	before := mustChunkPolys(t, m, id, geom.Vec2i{})
	m.MarkDirty(id, geom.Vec2{1, 1})
	m.MarkDirty(id, geom.Vec2{9, 1})
	if n := m.Flush(); n != 2 {
		t.Fatalf("rebuilt %d chunks, want 2", n)
	}
	after := mustChunkPolys(t, m, id, geom.Vec2i{})

	if len(before) != len(after) {
		t.Fatalf("polygon count changed %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("polygon %d replaced on identical rebuild", i)
		}
		if !after[i].IsValid() {
			t.Fatalf("polygon %d invalidated on identical rebuild", i)
		}
	}
	if p := m.GetPoly(coords(id, 7.5, 1)); !p.IsNeighbor(m.GetPoly(coords(id, 8.5, 1))) {
		t.Fatal("cross-chunk edge lost on rebuild")
	}
}

func TestRebuildInvalidatesReplacedPolygons(t *testing.T) {
	m, _ := newTestNavmesh(t)
	src := newMemSource(16, 8)
	id := m.AddGrid(src)
	m.Flush()

	old := m.GetPoly(coords(id, 1, 1))
	east := m.GetPoly(coords(id, 9, 1))
	if !old.IsNeighbor(east) {
		t.Fatal("expected initial stitching")
	}

	src.wall(2, 2)
	m.MarkDirty(id, geom.Vec2{2.5, 2.5})
	m.Flush()

	if old.IsValid() {
		t.Fatal("replaced polygon still valid")
	}
	if old.Neighbors.Size() != 0 {
		t.Fatal("replaced polygon kept its edges")
	}
	if east.IsNeighbor(old) {
		t.Fatal("neighbor still links the replaced polygon")
	}
	if !east.IsValid() {
		t.Fatal("untouched chunk was invalidated")
	}

	fresh := m.GetPoly(coords(id, 7.5, 1))
	if fresh == nil || fresh == old || !fresh.IsNeighbor(east) {
		t.Fatal("rebuilt chunk not stitched to its neighbor")
	}
	if old.Equals(fresh) {
		t.Fatal("replaced polygon equals its replacement")
	}
}

func TestCooldownCoalescesMarks(t *testing.T) {
	m, clock := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(16, 16))
	m.Flush()
	clock.Advance(1e9)

	m.MarkDirty(id, geom.Vec2{1, 1})
	clock.Advance(200e6)
	m.MarkDirty(id, geom.Vec2{9, 9})
	if n := m.Update(); n != 0 {
		t.Fatalf("rebuilt %d chunks inside the cooldown", n)
	}

	clock.Advance(300e6)
	if n := m.Update(); n != 2 {
		t.Fatalf("rebuilt %d chunks, want 2", n)
	}
	if n := m.Update(); n != 0 {
		t.Fatalf("rebuilt %d chunks with nothing dirty", n)
	}
}

func TestPauseDefersRebuild(t *testing.T) {
	m, clock := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(8, 8))
	m.Flush()
	clock.Advance(1e9)

	m.MarkDirty(id, geom.Vec2{1, 1})
	m.Pause()
	clock.Advance(1e9)
	if n := m.Update(); n != 0 {
		t.Fatal("rebuilt while paused")
	}
	m.Unpause()
	// The pause shifted the deadline by the paused second.
	if n := m.Update(); n != 0 {
		t.Fatal("rebuilt before the shifted deadline")
	}
	clock.Advance(500e6)
	if n := m.Update(); n != 1 {
		t.Fatalf("rebuilt %d chunks, want 1", n)
	}

	m.MarkDirty(id, geom.Vec2{1, 1})
	if err := m.PauseGrid(id); err != nil {
		t.Fatal(err)
	}
	clock.Advance(1e9)
	if n := m.Update(); n != 0 {
		t.Fatal("rebuilt a paused grid")
	}
	if err := m.UnpauseGrid(id); err != nil {
		t.Fatal(err)
	}
	clock.Advance(500e6)
	if n := m.Update(); n != 1 {
		t.Fatalf("rebuilt %d chunks after grid unpause, want 1", n)
	}
}

func TestFailedChunkIsRetried(t *testing.T) {
	m, clock := newTestNavmesh(t)
	src := newMemSource(8, 8)
	src.failures.Store(1)
	id := m.AddGrid(src)

	if n := m.Flush(); n != 0 {
		t.Fatalf("rebuilt %d chunks with a failing query", n)
	}
	g, _ := m.Grid(id)
	if g.DirtyCount() != 1 {
		t.Fatal("failed chunk not re-marked dirty")
	}
	clock.Advance(m.cooldown)
	if n := m.Update(); n != 1 {
		t.Fatalf("retry rebuilt %d chunks, want 1", n)
	}
	if !m.HasGraph(id) {
		t.Fatal("grid has no graph after retry")
	}
}

func TestRebuildNotification(t *testing.T) {
	m, _ := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(16, 8))

	var got []ChunksRebuilt
	m.Rebuilt().Subscribe(func(ev ChunksRebuilt) { got = append(got, ev) })
	m.Flush()
	m.Rebuilt().Swap()
	m.Rebuilt().Dispatch()

	if len(got) != 1 || got[0].Grid != id || len(got[0].Chunks) != 2 {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestEventHandlersMarkDirty(t *testing.T) {
	m, _ := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(16, 16))
	m.Flush()
	g, _ := m.Grid(id)
	hard := event.Body{Hard: true, Layer: 1, Mask: 1}

	m.OnColliderChanged(event.ColliderChanged{Grid: id, Pos: geom.Vec2{1, 1}, Body: event.Body{Layer: 1}})
	if g.DirtyCount() != 0 {
		t.Fatal("soft collider dirtied the grid")
	}

	m.OnTileChanged(event.TileChanged{Grid: id, Tile: geom.Vec2i{X: 1, Y: 1}, WasEmpty: false, IsEmpty: false})
	if g.DirtyCount() != 0 {
		t.Fatal("floor swap dirtied the grid")
	}

	m.OnColliderMoved(event.ColliderMoved{OldGrid: id, OldPos: geom.Vec2{1, 1}, NewGrid: id, NewPos: geom.Vec2{9, 9}, Body: hard})
	if g.DirtyCount() != 2 {
		t.Fatalf("move dirtied %d chunks, want 2", g.DirtyCount())
	}

	m.OnTileChanged(event.TileChanged{Grid: id, Tile: geom.Vec2i{X: 1, Y: 9}, WasEmpty: false, IsEmpty: true})
	m.OnBodyTypeChanged(event.BodyTypeChanged{Grid: id, Pos: geom.Vec2{9, 1}, Static: true, Body: hard})
	if g.DirtyCount() != 4 {
		t.Fatalf("dirty %d chunks, want 4", g.DirtyCount())
	}
}

func TestRemoveGridInvalidatesPolygons(t *testing.T) {
	m, _ := newTestNavmesh(t)
	id := m.AddGrid(newMemSource(8, 8))
	m.Flush()
	p := m.GetPoly(coords(id, 1, 1))

	if err := m.RemoveGrid(id); err != nil {
		t.Fatal(err)
	}
	if p.IsValid() {
		t.Fatal("polygon of removed grid still valid")
	}
	if m.HasGraph(id) || m.GetPoly(coords(id, 1, 1)) != nil {
		t.Fatal("removed grid still queryable")
	}
	if err := m.RemoveGrid(id); err != ErrUnknownGrid {
		t.Fatalf("second remove: %v", err)
	}
}

func TestRebuildLeavesOldTileListsIntact(t *testing.T) {
	m, _ := newTestNavmesh(t)
	src := newMemSource(8, 8)
	id := m.AddGrid(src)
	m.Flush()

	c, _ := m.GetChunk(id, geom.Vec2i{})
	before := c.TilePolygons(0, 0)
	if len(before) != 1 {
		t.Fatalf("tile (0,0) has %d polygons, want 1", len(before))
	}
	whole := before[0]

	src.wall(0, 0)
	m.MarkDirty(id, geom.Vec2{0.5, 0.5})
	m.Flush()

	if len(before) != 1 || before[0] != whole {
		t.Fatal("tile list returned before the rebuild was overwritten")
	}
	after := c.TilePolygons(0, 0)
	if len(after) == 0 || after[0] == whole {
		t.Fatal("rebuild did not publish a fresh tile list")
	}
}

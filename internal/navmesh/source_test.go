package navmesh

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/navgrid/internal/geom"
)

// memSource is an in-memory tile source for tests.
type memSource struct {
	floor     map[geom.Vec2i]bool
	colliders map[geom.Vec2i][]Collider
	failures  atomic.Int32
}

func newMemSource(w, h int) *memSource {
	s := &memSource{
		floor:     make(map[geom.Vec2i]bool),
		colliders: make(map[geom.Vec2i][]Collider),
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			s.floor[geom.Vec2i{X: x, Y: y}] = true
		}
	}
	return s
}

func (s *memSource) wall(x, y int) {
	t := geom.Vec2i{X: x, Y: y}
	s.colliders[t] = append(s.colliders[t], Collider{
		Hard: true, Static: true, Layer: 1, Mask: 1,
		Shape: Rect{Box: geom.Box2{Left: float32(x), Bottom: float32(y), Right: float32(x + 1), Top: float32(y + 1)}},
	})
}

func (s *memSource) Bounds() (geom.Box2i, bool) {
	if len(s.floor) == 0 {
		return geom.Box2i{}, false
	}
	first := true
	var b geom.Box2i
	for t := range s.floor {
		if first {
			b = geom.Box2i{Left: t.X, Bottom: t.Y, Right: t.X, Top: t.Y}
			first = false
			continue
		}
		b.Left = min(b.Left, t.X)
		b.Bottom = min(b.Bottom, t.Y)
		b.Right = max(b.Right, t.X)
		b.Top = max(b.Top, t.Y)
	}
	return b, true
}

func (s *memSource) NewQuery() (TileQuery, error) {
	if s.failures.Load() > 0 && s.failures.Add(-1) >= 0 {
		return nil, errors.New("query unavailable")
	}
	return s, nil
}

func (s *memSource) IsEmpty(tile geom.Vec2i) bool { return !s.floor[tile] }

func (s *memSource) Anchored(tile geom.Vec2i, buf []Collider) []Collider {
	return append(buf, s.colliders[tile]...)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestNavmesh(t *testing.T) (*Navmesh, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	m := New(Options{
		Cooldown: 450 * time.Millisecond,
		Workers:  2,
		Clock:    clock.Now,
		Log:      zaptest.NewLogger(t),
	})
	return m, clock
}

func mustChunkPolys(t *testing.T, m *Navmesh, id GridID, origin geom.Vec2i) []*PathPoly {
	t.Helper()
	polys, err := m.GetChunkPolygons(id, origin)
	if err != nil {
		t.Fatalf("GetChunkPolygons: %v", err)
	}
	return polys
}

func coords(id GridID, x, y float32) Coordinates {
	return Coordinates{Grid: id, Pos: geom.Vec2{x, y}}
}

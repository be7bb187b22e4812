package pathfind

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/navgrid/internal/data"
	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

type world struct {
	nav  *navmesh.Navmesh
	grid navmesh.GridID
	tm   *data.TileMap
}

// buildWorld parses rows (top row first) into a single built grid.
func buildWorld(t *testing.T, rows []string) *world {
	t.Helper()
	tm, err := data.ParseTileMap("test", geom.Vec2i{}, rows, data.DefaultLegend)
	if err != nil {
		t.Fatalf("ParseTileMap: %v", err)
	}
	nav := navmesh.New(navmesh.Options{Log: zaptest.NewLogger(t)})
	id := nav.AddGrid(tm)
	nav.Flush()
	return &world{nav: nav, grid: id, tm: tm}
}

func (w *world) at(x, y float32) navmesh.Coordinates {
	return navmesh.Coordinates{Grid: w.grid, Pos: geom.Vec2{x, y}}
}

func (w *world) searcher(t *testing.T) *Searcher {
	t.Helper()
	return NewSearcher(w.nav, SearchOptions{Log: zaptest.NewLogger(t)})
}

// rowsOf builds a w x h map of '.' and applies fn to place other tiles.
func rowsOf(w, h int, fn func(x, y int) byte) []string {
	rows := make([]string, h)
	for i := range rows {
		y := h - 1 - i
		var b strings.Builder
		for x := 0; x < w; x++ {
			ch := byte('.')
			if fn != nil {
				if c := fn(x, y); c != 0 {
					ch = c
				}
			}
			b.WriteByte(ch)
		}
		rows[i] = b.String()
	}
	return rows
}

// wallAt returns a solid tile collider for TileMap.AddCollider.
func wallAt(x, y int) (geom.Vec2i, navmesh.Collider) {
	return geom.Vec2i{X: x, Y: y}, navmesh.Collider{
		Hard: true, Static: true, Layer: 1, Mask: 1,
		Shape: navmesh.Rect{Box: geom.Box2{
			Left: float32(x), Bottom: float32(y), Right: float32(x + 1), Top: float32(y + 1),
		}},
	}
}

// tickClock advances by step every time it is read.
type tickClock struct {
	now  time.Time
	step time.Duration
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

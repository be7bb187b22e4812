package pathfind

import (
	"math/rand"
	"testing"

	"github.com/l1jgo/navgrid/internal/data"
	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

func tileMap(t *testing.T, rows []string) *data.TileMap {
	t.Helper()
	tm, err := data.ParseTileMap("tiles", geom.Vec2i{}, rows, data.DefaultLegend)
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

func assertConnected(t *testing.T, path []geom.Vec2i, diagonals bool) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		d := path[i].Sub(path[i-1])
		dx, dy := abs(d.X), abs(d.Y)
		if dx > 1 || dy > 1 || (dx == 0 && dy == 0) || (!diagonals && dx+dy != 1) {
			t.Fatalf("step %v -> %v is not a valid move", path[i-1], path[i])
		}
	}
}

func TestSimplePathStraight(t *testing.T) {
	tm := tileMap(t, rowsOf(10, 3, nil))
	path, ok := GetSimplePath(SimplePathArgs{
		Start: geom.Vec2i{X: 0, Y: 1},
		End:   geom.Vec2i{X: 9, Y: 1},
		Cost:  tm.TileCost,
	})
	if !ok {
		t.Fatal("no path")
	}
	if len(path) != 10 {
		t.Fatalf("path length %d, want 10", len(path))
	}
	assertConnected(t, path, false)
	if got := geom.SimplifyTiles(path); len(got) != 2 {
		t.Fatalf("straight path simplified to %d points", len(got))
	}
}

func TestSimplePathAroundWall(t *testing.T) {
	rows := rowsOf(9, 9, func(x, y int) byte {
		if x == 4 && y < 8 {
			return '#'
		}
		return 0
	})
	tm := tileMap(t, rows)

	for _, diagonals := range []bool{false, true} {
		path, ok := GetSimplePath(SimplePathArgs{
			Start:     geom.Vec2i{X: 0, Y: 0},
			End:       geom.Vec2i{X: 8, Y: 0},
			Diagonals: diagonals,
			Cost:      tm.TileCost,
		})
		if !ok {
			t.Fatalf("diagonals=%v: no path", diagonals)
		}
		assertConnected(t, path, diagonals)
		for _, p := range path {
			if tm.TileCost(p) <= 0 {
				t.Fatalf("path enters blocked tile %v", p)
			}
		}
		if path[0] != (geom.Vec2i{}) || path[len(path)-1] != (geom.Vec2i{X: 8}) {
			t.Fatalf("endpoints %v %v", path[0], path[len(path)-1])
		}
	}
}

func TestSimplePathLimit(t *testing.T) {
	_, ok := GetSimplePath(SimplePathArgs{
		Start: geom.Vec2i{},
		End:   geom.Vec2i{X: 50, Y: 50},
		Limit: 10,
	})
	if ok {
		t.Fatal("path found beyond the node limit")
	}

	tm := tileMap(t, []string{".#."})
	if _, ok := GetSimplePath(SimplePathArgs{Start: geom.Vec2i{}, End: geom.Vec2i{X: 2}, Cost: tm.TileCost}); ok {
		t.Fatal("path through a wall")
	}
}

func TestBreadthPathNearestTarget(t *testing.T) {
	tm := tileMap(t, rowsOf(20, 1, nil))
	path, ok := GetBreadthPath(BreadthPathArgs{
		Start: []geom.Vec2i{{X: 10}},
		Ends:  []geom.Vec2i{{X: 0}, {X: 16}, {X: 19}},
		Cost:  tm.TileCost,
	})
	if !ok {
		t.Fatal("no path")
	}
	if end := path[len(path)-1]; end != (geom.Vec2i{X: 16}) {
		t.Fatalf("reached %v, want the nearest target", end)
	}

	if _, ok := GetBreadthPath(BreadthPathArgs{Start: []geom.Vec2i{{}}}); ok {
		t.Fatal("search without targets succeeded")
	}
}

func TestSplinePath(t *testing.T) {
	tm := tileMap(t, rowsOf(48, 48, nil))
	sp, ok := GetSplinePath(SplinePathArgs{
		Args: SimplePathArgs{
			Start:     geom.Vec2i{X: 2, Y: 2},
			End:       geom.Vec2i{X: 45, Y: 45},
			Diagonals: true,
			Cost:      tm.TileCost,
		},
		MaxRatio: 0.2,
		Distance: 6,
		Rand:     rand.New(rand.NewSource(7)),
	})
	if !ok {
		t.Fatal("no spline path")
	}
	if len(sp.Points) < 3 {
		t.Fatalf("only %d control points", len(sp.Points))
	}
	if sp.Path[0] != sp.Points[0] || sp.Path[len(sp.Path)-1] != sp.Points[len(sp.Points)-1] {
		t.Fatal("spline path does not join start and end")
	}
	assertConnected(t, sp.Path, true)
}

func TestWidenPath(t *testing.T) {
	path := []geom.Vec2i{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 5}}

	narrow := WidenPath(WidenArgs{Path: path})
	if narrow.Size() != len(path) {
		t.Fatalf("zero radius corridor has %d tiles", narrow.Size())
	}

	for _, square := range []bool{false, true} {
		corridor := WidenPath(WidenArgs{
			Path:      path,
			Every:     2,
			MinRadius: 1,
			MaxRadius: 2,
			Square:    square,
			Rand:      rand.New(rand.NewSource(3)),
		})
		for _, p := range path {
			if !corridor.Has(p) {
				t.Fatalf("corridor misses path tile %v", p)
			}
		}
		if !corridor.Has(geom.Vec2i{X: 0, Y: 1}) {
			t.Fatal("corridor not widened")
		}
		corridor.Each(func(c geom.Vec2i) {
			if abs(c.Y) > 2 || c.X < -2 || c.X > 7 {
				t.Fatalf("tile %v outside max radius", c)
			}
		})
	}
}

func TestSimplifyPathKeepsDataChanges(t *testing.T) {
	w := buildWorld(t, rowsOf(8, 8, nil))
	wp := func(x float32, door bool) Waypoint {
		p := Waypoint{Coordinates: w.at(x, 0.5)}
		if door {
			p.Data.Flags = navmesh.FlagDoor
		}
		return p
	}
	path := []Waypoint{wp(0.5, false), wp(1.5, false), wp(2.5, false), wp(3.5, true), wp(4.5, false)}
	got := SimplifyPath(path)
	if len(got) != 4 {
		t.Fatalf("simplified to %d points, want 4", len(got))
	}
	if got[0] != path[0] || got[len(got)-1] != path[len(path)-1] {
		t.Fatal("endpoints changed")
	}
	if d := PathDistance(got); !approx(d, 4, 0.0001) {
		t.Fatalf("distance %v", d)
	}
}

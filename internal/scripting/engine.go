package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

// Engine wraps a single gopher-lua VM for traversal cost hooks.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("CHUNK_SIZE", lua.LNumber(navmesh.ChunkSize))

	e := &Engine{vm: vm, log: log}

	// Core scripts define shared constants for the hooks.
	for _, sub := range []string{"core", "cost"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromSource creates an engine from a single chunk of Lua source.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("CHUNK_SIZE", lua.LNumber(navmesh.ChunkSize))
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	return &Engine{vm: vm, log: log}, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// TileContext is what the tile_cost hook sees of a tile.
type TileContext struct {
	X, Y   int
	Floor  bool
	Solid  bool
	Door   bool
	Access bool
	Damage float32
}

// DescribeTile collects a tile's context from a navmesh tile query. It
// returns the collider buffer for reuse by the next call.
func DescribeTile(q navmesh.TileQuery, tile geom.Vec2i, buf []navmesh.Collider) (TileContext, []navmesh.Collider) {
	ctx := TileContext{X: tile.X, Y: tile.Y, Floor: !q.IsEmpty(tile)}
	buf = q.Anchored(tile, buf[:0])
	for _, c := range buf {
		if !c.Hard {
			continue
		}
		if c.Door {
			ctx.Door = true
		} else {
			ctx.Solid = true
		}
		if c.Access {
			ctx.Access = true
		}
		ctx.Damage += c.DestroyedAt
	}
	return ctx, buf
}

// TileCost calls the Lua tile_cost function. A missing hook costs 1; a
// failing hook blocks the tile.
func (e *Engine) TileCost(ctx TileContext) float32 {
	fn := e.vm.GetGlobal("tile_cost")
	if fn == lua.LNil {
		return 1
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("floor", lua.LBool(ctx.Floor))
	t.RawSetString("solid", lua.LBool(ctx.Solid))
	t.RawSetString("door", lua.LBool(ctx.Door))
	t.RawSetString("access", lua.LBool(ctx.Access))
	t.RawSetString("damage", lua.LNumber(ctx.Damage))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua tile_cost error", zap.Error(err))
		return 0
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua tile_cost returned non-number",
			zap.String("type", result.Type().String()),
		)
		return 0
	}
	return float32(n)
}

// TileCostFunc adapts the hook to a tile query, for grid searches.
func (e *Engine) TileCostFunc(q navmesh.TileQuery) func(geom.Vec2i) float32 {
	var buf []navmesh.Collider
	return func(tile geom.Vec2i) float32 {
		var ctx TileContext
		ctx, buf = DescribeTile(q, tile, buf)
		return e.TileCost(ctx)
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

package data

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

// TileDef describes what one legend character places on a tile.
type TileDef struct {
	Floor       bool    `yaml:"floor"`
	Solid       bool    `yaml:"solid"`
	Door        bool    `yaml:"door"`
	Access      bool    `yaml:"access"`
	Layer       uint32  `yaml:"layer"`
	Mask        uint32  `yaml:"mask"`
	DestroyedAt float32 `yaml:"destroyed_at"`
}

// collider returns the tile-filling collider for the definition, if any.
func (d TileDef) collider(tile geom.Vec2i) (navmesh.Collider, bool) {
	if !d.Solid && !d.Door {
		return navmesh.Collider{}, false
	}
	layer, mask := d.Layer, d.Mask
	if layer == 0 && mask == 0 {
		layer, mask = 1, 1
	}
	return navmesh.Collider{
		Hard:   true,
		Static: true,
		Layer:  layer,
		Mask:   mask,
		Shape: navmesh.Rect{Box: geom.Box2{
			Left: float32(tile.X), Bottom: float32(tile.Y),
			Right: float32(tile.X + 1), Top: float32(tile.Y + 1),
		}},
		Door:        d.Door,
		Access:      d.Access,
		DestroyedAt: d.DestroyedAt,
	}, true
}

// DefaultLegend is used for characters a grid list does not define.
var DefaultLegend = map[string]TileDef{
	" ": {},
	".": {Floor: true},
	"#": {Floor: true, Solid: true},
	"D": {Floor: true, Door: true},
	"A": {Floor: true, Door: true, Access: true},
	"X": {Floor: true, Solid: true, DestroyedAt: 100},
}

// GridInfo holds metadata for one grid, loaded from grid_list.yaml.
type GridInfo struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	OriginX int    `yaml:"origin_x"`
	OriginY int    `yaml:"origin_y"`
}

type gridListFile struct {
	Legend map[string]TileDef `yaml:"legend"`
	Grids  []GridInfo         `yaml:"grids"`
}

// GridTable holds every loaded grid by name.
type GridTable struct {
	grids map[string]*TileMap
	order []string
}

// LoadGridTable loads grid metadata from YAML and tile rows from text files.
// yamlPath: path to grid_list.yaml
// tileDir: directory containing the tile files, {name}.txt by default
func LoadGridTable(yamlPath, tileDir string) (*GridTable, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read grid list %s: %w", yamlPath, err)
	}
	var file gridListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse grid list: %w", err)
	}

	legend := make(map[string]TileDef, len(DefaultLegend)+len(file.Legend))
	for k, v := range DefaultLegend {
		legend[k] = v
	}
	for k, v := range file.Legend {
		legend[k] = v
	}

	table := &GridTable{grids: make(map[string]*TileMap, len(file.Grids))}
	for _, info := range file.Grids {
		if info.Name == "" {
			return nil, fmt.Errorf("grid list: grid without name")
		}
		name := info.File
		if name == "" {
			name = info.Name + ".txt"
		}
		rows, err := loadTileFile(filepath.Join(tileDir, name))
		if err != nil {
			return nil, fmt.Errorf("grid %s: %w", info.Name, err)
		}
		tm, err := ParseTileMap(info.Name, geom.Vec2i{X: info.OriginX, Y: info.OriginY}, rows, legend)
		if err != nil {
			return nil, fmt.Errorf("grid %s: %w", info.Name, err)
		}
		table.grids[info.Name] = tm
		table.order = append(table.order, info.Name)
	}
	return table, nil
}

// Get returns a grid by name, or nil.
func (t *GridTable) Get(name string) *TileMap {
	return t.grids[name]
}

// Names lists grids in file order.
func (t *GridTable) Names() []string {
	return append([]string(nil), t.order...)
}

func (t *GridTable) Count() int {
	return len(t.grids)
}

// loadTileFile reads tile rows, top row first. Lines starting with "//" are
// comments; spaces are empty tiles so lines are not trimmed.
func loadTileFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		rows = append(rows, line)
	}
	return rows, scanner.Err()
}

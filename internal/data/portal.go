package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PortalEnd is one end of a portal: a grid name and a grid-local position.
type PortalEnd struct {
	Grid string  `yaml:"grid"`
	X    float32 `yaml:"x"`
	Y    float32 `yaml:"y"`
}

// PortalEntry defines a bidirectional link between two grid positions, e.g.
// a pair of docked airlocks.
type PortalEntry struct {
	Name string    `yaml:"name"`
	A    PortalEnd `yaml:"a"`
	B    PortalEnd `yaml:"b"`
	Note string    `yaml:"note"`
}

// PortalTable holds portal definitions in file order.
type PortalTable struct {
	portals []PortalEntry
	byName  map[string]*PortalEntry
}

// LoadPortalTable loads portal_list.yaml.
func LoadPortalTable(path string) (*PortalTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portal list: %w", err)
	}
	var entries []PortalEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse portal list: %w", err)
	}
	return NewPortalTable(entries)
}

// NewPortalTable indexes entries by name. Names must be unique.
func NewPortalTable(entries []PortalEntry) (*PortalTable, error) {
	t := &PortalTable{
		portals: entries,
		byName:  make(map[string]*PortalEntry, len(entries)),
	}
	for i := range t.portals {
		e := &t.portals[i]
		if e.Name == "" {
			return nil, fmt.Errorf("portal %d: missing name", i)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, fmt.Errorf("portal %s: duplicate name", e.Name)
		}
		t.byName[e.Name] = e
	}
	return t, nil
}

// Get returns the portal with the given name, or nil if none.
func (t *PortalTable) Get(name string) *PortalEntry {
	return t.byName[name]
}

// All returns the entries in file order.
func (t *PortalTable) All() []PortalEntry {
	return t.portals
}

// Count returns the total number of portals loaded.
func (t *PortalTable) Count() int {
	return len(t.portals)
}

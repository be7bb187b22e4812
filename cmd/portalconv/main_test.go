package main

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/navgrid/internal/data"
)

const dump = `--
-- Data for Name: nav_portals
--
INSERT INTO public.nav_portals VALUES ('zeta', 'station', 7.5, 4.5, 'shuttle', 0.5, 4.5, 'aft hatch', false);
INSERT INTO public.nav_portals VALUES ('alpha', 'station', '-1.5', '2', 'tug', '0.5', '0.5', 'crew''s airlock');
INSERT INTO public.nav_portals VALUES (broken);
INSERT INTO public.other VALUES ('x', 'y');
`

func TestParseDump(t *testing.T) {
	entries, skipped, err := parse(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(entries) != 2 || entries[0].Name != "alpha" || entries[1].Name != "zeta" {
		t.Fatalf("entries = %+v", entries)
	}
	a := entries[0]
	if a.A.Grid != "station" || a.A.X != -1.5 || a.A.Y != 2 || a.B.Grid != "tug" {
		t.Fatalf("alpha = %+v", a)
	}
	if a.Note != "crew's airlock" {
		t.Fatalf("note = %q", a.Note)
	}
}

func TestWriteLoadsBack(t *testing.T) {
	entries, _, err := parse(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	if err := write(&buf, entries); err != nil {
		t.Fatalf("write: %v", err)
	}

	var back []data.PortalEntry
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	table, err := data.NewPortalTable(back)
	if err != nil {
		t.Fatalf("NewPortalTable: %v", err)
	}
	if z := table.Get("zeta"); z == nil || z.B.X != 0.5 || z.Note != "aft hatch" {
		t.Fatalf("zeta = %+v", z)
	}
}

// portalconv converts nav_portals INSERT statements (e.g. from
// pg_dump --inserts) to portal_list.yaml.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/navgrid/internal/data"
)

// Pattern: INSERT INTO nav_portals VALUES ('dock', 'station', 7.5, 4.5, 'shuttle', 0.5, 4.5, 'note');
// Numeric columns may be quoted. Trailing columns are ignored.
var insertRe = regexp.MustCompile(`VALUES\s*\(\s*'([^']+)'\s*,\s*'([^']+)'\s*,\s*'?(-?[\d.]+)'?\s*,\s*'?(-?[\d.]+)'?\s*,\s*'([^']+)'\s*,\s*'?(-?[\d.]+)'?\s*,\s*'?(-?[\d.]+)'?\s*,\s*'((?:[^']|'')*)'(?:\s*,[^)]*)?\s*\)`)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: portalconv <nav_portals.sql> <output.yaml>")
		os.Exit(1)
	}

	in, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer in.Close()

	entries, skipped, err := parse(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Rejects duplicate names.
	if _, err := data.NewPortalTable(entries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := os.Create(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := write(out, entries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d portal entries to %s (%d lines skipped)\n", len(entries), os.Args[2], skipped)
}

// parse extracts portal rows, sorted by name. Lines that look like inserts
// but do not match are counted as skipped.
func parse(r io.Reader) ([]data.PortalEntry, int, error) {
	var entries []data.PortalEntry
	skipped := 0

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, len(buf))

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "INSERT INTO") || !strings.Contains(line, "nav_portals") {
			continue
		}
		m := insertRe.FindStringSubmatch(line)
		if m == nil {
			skipped++
			continue
		}
		coords := make([]float32, 4)
		for i, s := range []string{m[3], m[4], m[6], m[7]} {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, 0, fmt.Errorf("portal %s: %w", m[1], err)
			}
			coords[i] = float32(v)
		}
		entries = append(entries, data.PortalEntry{
			Name: m[1],
			A:    data.PortalEnd{Grid: m[2], X: coords[0], Y: coords[1]},
			B:    data.PortalEnd{Grid: m[5], X: coords[2], Y: coords[3]},
			Note: strings.ReplaceAll(m[8], "''", "'"),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, skipped, nil
}

func write(w io.Writer, entries []data.PortalEntry) error {
	fmt.Fprintf(w, "# Portal list, generated by portalconv (%d entries)\n", len(entries))
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}

package persist

import (
	"context"
	"fmt"

	"github.com/l1jgo/navgrid/internal/data"
)

// PortalRepo stores portal definitions so door logic can change them at
// runtime without editing portal_list.yaml.
type PortalRepo struct {
	db *DB
}

func NewPortalRepo(db *DB) *PortalRepo {
	return &PortalRepo{db: db}
}

// LoadAll loads every portal. Called at startup after the YAML list.
func (r *PortalRepo) LoadAll(ctx context.Context) ([]data.PortalEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, a_grid, a_x, a_y, b_grid, b_x, b_y, note
		 FROM nav_portals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query portals: %w", err)
	}
	defer rows.Close()

	var out []data.PortalEntry
	for rows.Next() {
		var e data.PortalEntry
		if err := rows.Scan(
			&e.Name, &e.A.Grid, &e.A.X, &e.A.Y, &e.B.Grid, &e.B.X, &e.B.Y, &e.Note,
		); err != nil {
			return nil, fmt.Errorf("scan portal: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save inserts or replaces a portal by name.
func (r *PortalRepo) Save(ctx context.Context, e data.PortalEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO nav_portals (name, a_grid, a_x, a_y, b_grid, b_x, b_y, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
		   a_grid = EXCLUDED.a_grid, a_x = EXCLUDED.a_x, a_y = EXCLUDED.a_y,
		   b_grid = EXCLUDED.b_grid, b_x = EXCLUDED.b_x, b_y = EXCLUDED.b_y,
		   note = EXCLUDED.note, updated_at = now()`,
		e.Name, e.A.Grid, e.A.X, e.A.Y, e.B.Grid, e.B.X, e.B.Y, e.Note,
	)
	if err != nil {
		return fmt.Errorf("save portal %s: %w", e.Name, err)
	}
	return nil
}

// Delete removes a portal. Deleting a missing portal is not an error.
func (r *PortalRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM nav_portals WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete portal %s: %w", name, err)
	}
	return nil
}

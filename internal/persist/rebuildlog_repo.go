package persist

import (
	"context"
	"fmt"
)

// RebuildEntry is one rebuilt chunk in the rebuild log.
type RebuildEntry struct {
	Grid      string
	ChunkX    int32
	ChunkY    int32
	Polygons  int32
	ElapsedUS int64
}

// RebuildLogRepo appends navmesh rebuild statistics.
type RebuildLogRepo struct {
	db *DB
}

func NewRebuildLogRepo(db *DB) *RebuildLogRepo {
	return &RebuildLogRepo{db: db}
}

// WriteBatch writes a batch of entries in a single transaction.
func (r *RebuildLogRepo) WriteBatch(ctx context.Context, entries []RebuildEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("rebuild log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO nav_rebuild_log (grid, chunk_x, chunk_y, polygons, elapsed_us)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.Grid, e.ChunkX, e.ChunkY, e.Polygons, e.ElapsedUS,
		); err != nil {
			return fmt.Errorf("rebuild log insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// MarkProcessed marks all entries as processed (called by reporting jobs).
func (r *RebuildLogRepo) MarkProcessed(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE nav_rebuild_log SET processed = TRUE WHERE processed = FALSE`,
	)
	return err
}

package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/navgrid/internal/core/system"
	"github.com/l1jgo/navgrid/internal/navmesh"
	"github.com/l1jgo/navgrid/internal/persist"
	"github.com/l1jgo/navgrid/internal/world"
)

// RebuildLogWriter is satisfied by persist.RebuildLogRepo.
type RebuildLogWriter interface {
	WriteBatch(ctx context.Context, entries []persist.RebuildEntry) error
}

// maxBufferedEntries bounds the buffer while the database is unreachable.
const maxBufferedEntries = 10000

// PersistenceSystem batches rebuild statistics and writes them every
// interval ticks. Phase 4 (Persist).
type PersistenceSystem struct {
	world     *world.State
	repo      RebuildLogWriter
	log       *zap.Logger
	buf       []persist.RebuildEntry
	tickCount int
	interval  int
}

func NewPersistenceSystem(ws *world.State, repo RebuildLogWriter, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	s := &PersistenceSystem{
		world:    ws,
		repo:     repo,
		log:      log,
		interval: intervalTicks,
	}
	ws.OnChunksRebuilt(s.record)
	return s
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Buffered is the number of entries waiting for the next flush.
func (s *PersistenceSystem) Buffered() int { return len(s.buf) }

// Flush writes every buffered entry now. Also called on shutdown.
func (s *PersistenceSystem) Flush() {
	if len(s.buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.WriteBatch(ctx, s.buf); err != nil {
		s.log.Error("rebuild log write failed",
			zap.Int("entries", len(s.buf)), zap.Error(err))
		if len(s.buf) > maxBufferedEntries {
			dropped := len(s.buf) - maxBufferedEntries
			s.buf = append(s.buf[:0], s.buf[dropped:]...)
			s.log.Warn("rebuild log entries dropped", zap.Int("dropped", dropped))
		}
		return
	}
	s.buf = s.buf[:0]
}

func (s *PersistenceSystem) record(ev navmesh.ChunksRebuilt) {
	name := s.world.GridName(ev.Grid)
	us := ev.Elapsed.Microseconds()
	for _, c := range ev.Chunks {
		s.buf = append(s.buf, persist.RebuildEntry{
			Grid:      name,
			ChunkX:    int32(c.Origin.X),
			ChunkY:    int32(c.Origin.Y),
			Polygons:  int32(len(c.Polygons)),
			ElapsedUS: us,
		})
	}
}

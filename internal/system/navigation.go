package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/navgrid/internal/core/system"
	"github.com/l1jgo/navgrid/internal/world"
)

// EventSystem delivers the collider and tile events emitted during the
// previous tick. Phase 0 (Events).
type EventSystem struct {
	world *world.State
}

func NewEventSystem(ws *world.State) *EventSystem {
	return &EventSystem{world: ws}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	s.world.DispatchEvents()
}

// RebuildSystem rebuilds the dirty chunks of every grid whose cooldown has
// elapsed. Phase 1 (Rebuild).
type RebuildSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewRebuildSystem(ws *world.State, log *zap.Logger) *RebuildSystem {
	return &RebuildSystem{world: ws, log: log}
}

func (s *RebuildSystem) Phase() coresys.Phase { return coresys.PhaseRebuild }

func (s *RebuildSystem) Update(_ time.Duration) {
	if n := s.world.UpdateNavmesh(); n > 0 {
		s.log.Debug("navmesh updated", zap.Int("chunks", n))
	}
}

// PathSystem spends the tick's search budget on queued path requests.
// Phase 2 (Search).
type PathSystem struct {
	world  *world.State
	budget time.Duration
}

// NewPathSystem creates a PathSystem. A zero budget uses the tick interval.
func NewPathSystem(ws *world.State, budget time.Duration) *PathSystem {
	return &PathSystem{world: ws, budget: budget}
}

func (s *PathSystem) Phase() coresys.Phase { return coresys.PhaseSearch }

func (s *PathSystem) Update(dt time.Duration) {
	budget := s.budget
	if budget <= 0 {
		budget = dt
	}
	s.world.StepRequests(budget)
}

// NotifySystem delivers this tick's ChunksRebuilt notifications.
// Phase 3 (Notify).
type NotifySystem struct {
	world *world.State
}

func NewNotifySystem(ws *world.State) *NotifySystem {
	return &NotifySystem{world: ws}
}

func (s *NotifySystem) Phase() coresys.Phase { return coresys.PhaseNotify }

func (s *NotifySystem) Update(_ time.Duration) {
	s.world.DispatchRebuilt()
}

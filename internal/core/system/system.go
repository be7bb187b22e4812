package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents  Phase = iota // 0: deliver last tick's world events
	PhaseRebuild              // 1: rebuild due navmesh chunks
	PhaseSearch               // 2: step path requests
	PhaseNotify               // 3: rebuilt-chunk and finished-path callbacks
	PhasePersist              // 4: flush batched statistics
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseRebuild:
		return "rebuild"
	case PhaseSearch:
		return "search"
	case PhaseNotify:
		return "notify"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

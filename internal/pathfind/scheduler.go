package pathfind

import (
	"time"

	"go.uber.org/zap"
)

// DefaultRequestSlice is the per-request share of a tick budget.
const DefaultRequestSlice = 2 * time.Millisecond

// Scheduler steps queued requests round-robin in arrival order. A request
// that runs out of its slice goes to the back of the queue.
type Scheduler struct {
	searcher *Searcher
	slice    time.Duration
	clock    func() time.Time
	log      *zap.Logger

	queue []*PathRequest
}

func NewScheduler(searcher *Searcher, slice time.Duration) *Scheduler {
	if slice <= 0 {
		slice = DefaultRequestSlice
	}
	return &Scheduler{
		searcher: searcher,
		slice:    slice,
		clock:    searcher.clock,
		log:      searcher.log,
	}
}

// Enqueue adds a request to the back of the queue.
func (s *Scheduler) Enqueue(req *PathRequest) {
	s.queue = append(s.queue, req)
}

// Pending is the number of unfinished requests.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Tick steps requests until the budget is spent or every queued request
// has had one turn. It returns the requests finished during the tick.
func (s *Scheduler) Tick(budget time.Duration) []*PathRequest {
	start := s.clock()
	var finished []*PathRequest

	turns := len(s.queue)
	for i := 0; i < turns && len(s.queue) > 0; i++ {
		remaining := budget - s.clock().Sub(start)
		if remaining <= 0 {
			break
		}

		req := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]

		res := s.searcher.Step(req, min(s.slice, remaining))
		if res == Continuing {
			s.queue = append(s.queue, req)
			continue
		}
		finished = append(finished, req)
	}

	if len(finished) > 0 {
		s.log.Debug("path requests finished",
			zap.Int("finished", len(finished)),
			zap.Int("pending", len(s.queue)),
			zap.Duration("elapsed", s.clock().Sub(start)),
		)
	}
	return finished
}

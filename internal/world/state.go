package world

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/navgrid/internal/core/event"
	"github.com/l1jgo/navgrid/internal/data"
	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
	"github.com/l1jgo/navgrid/internal/pathfind"
)

// Options configures a State.
type Options struct {
	Navmesh navmesh.Options
	Search  pathfind.SearchOptions

	// RequestSlice is one request's share of a tick budget.
	RequestSlice time.Duration

	// DisablePartial makes every request fail with NoPath instead of
	// returning a partial path.
	DisablePartial bool

	Log *zap.Logger
}

// State owns every grid, the navmesh and all path requests.
// Single-goroutine access only (tick loop).
type State struct {
	Nav *navmesh.Navmesh

	searcher  *pathfind.Searcher
	sched     *pathfind.Scheduler
	noPartial bool

	colliderChanged *event.Topic[event.ColliderChanged]
	colliderMoved   *event.Topic[event.ColliderMoved]
	bodyTypeChanged *event.Topic[event.BodyTypeChanged]
	tileChanged     *event.Topic[event.TileChanged]

	pathFinished []func(*pathfind.PathRequest)

	gridNames map[string]navmesh.GridID
	names     map[navmesh.GridID]string
	portals   map[string]navmesh.PortalID

	log *zap.Logger
}

func NewState(opts Options) *State {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Navmesh.Log == nil {
		opts.Navmesh.Log = log.Named("navmesh")
	}
	if opts.Search.Log == nil {
		opts.Search.Log = log.Named("pathfind")
	}

	nav := navmesh.New(opts.Navmesh)
	searcher := pathfind.NewSearcher(nav, opts.Search)

	s := &State{
		Nav:             nav,
		searcher:        searcher,
		sched:           pathfind.NewScheduler(searcher, opts.RequestSlice),
		noPartial:       opts.DisablePartial,
		colliderChanged: event.NewTopic[event.ColliderChanged](),
		colliderMoved:   event.NewTopic[event.ColliderMoved](),
		bodyTypeChanged: event.NewTopic[event.BodyTypeChanged](),
		tileChanged:     event.NewTopic[event.TileChanged](),
		gridNames:       make(map[string]navmesh.GridID),
		names:           make(map[navmesh.GridID]string),
		portals:         make(map[string]navmesh.PortalID),
		log:             log,
	}
	s.colliderChanged.Subscribe(nav.OnColliderChanged)
	s.colliderMoved.Subscribe(nav.OnColliderMoved)
	s.bodyTypeChanged.Subscribe(nav.OnBodyTypeChanged)
	s.tileChanged.Subscribe(nav.OnTileChanged)
	return s
}

// ── Grids ──

// AddGrid registers a named grid. Names must be unique.
func (s *State) AddGrid(name string, src navmesh.TileSource) (navmesh.GridID, error) {
	if _, dup := s.gridNames[name]; dup {
		return 0, fmt.Errorf("grid %s already registered", name)
	}
	id := s.Nav.AddGrid(src)
	s.gridNames[name] = id
	s.names[id] = name
	return id, nil
}

// RemoveGrid drops a grid and its polygons.
func (s *State) RemoveGrid(id navmesh.GridID) error {
	if err := s.Nav.RemoveGrid(id); err != nil {
		return err
	}
	delete(s.gridNames, s.names[id])
	delete(s.names, id)
	return nil
}

// GridByName returns the id of a named grid.
func (s *State) GridByName(name string) (navmesh.GridID, bool) {
	id, ok := s.gridNames[name]
	return id, ok
}

// GridName returns the name a grid was registered with.
func (s *State) GridName(id navmesh.GridID) string {
	return s.names[id]
}

// LoadGrids registers every grid of a table in file order.
func (s *State) LoadGrids(table *data.GridTable) error {
	for _, name := range table.Names() {
		if _, err := s.AddGrid(name, table.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

// ── World events, delivered on the next DispatchEvents ──

func (s *State) ColliderChanged(ev event.ColliderChanged) { s.colliderChanged.Emit(ev) }
func (s *State) ColliderMoved(ev event.ColliderMoved)     { s.colliderMoved.Emit(ev) }
func (s *State) BodyTypeChanged(ev event.BodyTypeChanged) { s.bodyTypeChanged.Emit(ev) }
func (s *State) TileChanged(ev event.TileChanged)         { s.tileChanged.Emit(ev) }

// MarkDirty schedules the chunk at pos for a rebuild right away.
func (s *State) MarkDirty(grid navmesh.GridID, pos geom.Vec2) bool {
	return s.Nav.MarkDirty(grid, pos)
}

// ── Portals ──

func (s *State) RegisterPortal(a, b navmesh.Coordinates) navmesh.PortalID {
	return s.Nav.RegisterPortal(a, b)
}

func (s *State) UnregisterPortal(id navmesh.PortalID) error {
	return s.Nav.UnregisterPortal(id)
}

// RegisterNamedPortal resolves a portal entry's grid names and registers
// it, replacing an earlier portal of the same name.
func (s *State) RegisterNamedPortal(e data.PortalEntry) (navmesh.PortalID, error) {
	a, ok := s.gridNames[e.A.Grid]
	if !ok {
		return 0, fmt.Errorf("portal %s: unknown grid %s", e.Name, e.A.Grid)
	}
	b, ok := s.gridNames[e.B.Grid]
	if !ok {
		return 0, fmt.Errorf("portal %s: unknown grid %s", e.Name, e.B.Grid)
	}
	if old, ok := s.portals[e.Name]; ok {
		if err := s.Nav.UnregisterPortal(old); err != nil {
			return 0, err
		}
	}
	id := s.Nav.RegisterPortal(
		navmesh.Coordinates{Grid: a, Pos: geom.Vec2{e.A.X, e.A.Y}},
		navmesh.Coordinates{Grid: b, Pos: geom.Vec2{e.B.X, e.B.Y}},
	)
	s.portals[e.Name] = id
	return id, nil
}

// UnregisterNamedPortal removes a portal registered by name.
func (s *State) UnregisterNamedPortal(name string) error {
	id, ok := s.portals[name]
	if !ok {
		return navmesh.ErrUnknownPortal
	}
	delete(s.portals, name)
	return s.Nav.UnregisterPortal(id)
}

// ── Queries ──

func (s *State) HasGraph(grid navmesh.GridID) bool {
	return s.Nav.HasGraph(grid)
}

func (s *State) GetPolygon(at navmesh.Coordinates) *navmesh.PathPoly {
	return s.Nav.GetPoly(at)
}

func (s *State) GetChunkPolygons(grid navmesh.GridID, origin geom.Vec2i) ([]*navmesh.PathPoly, error) {
	return s.Nav.GetChunkPolygons(grid, origin)
}

// OnChunksRebuilt subscribes to rebuild notifications.
func (s *State) OnChunksRebuilt(fn func(navmesh.ChunksRebuilt)) {
	s.Nav.Rebuilt().Subscribe(fn)
}

// OnPathFinished subscribes to finished path requests.
func (s *State) OnPathFinished(fn func(*pathfind.PathRequest)) {
	s.pathFinished = append(s.pathFinished, fn)
}

// ── Path requests ──

// RequestPath queues a polygon path request. The result is available once
// the request's Done channel closes.
func (s *State) RequestPath(ctx context.Context, args pathfind.PathArgs) *pathfind.PathRequest {
	if s.noPartial {
		args.NoPartial = true
	}
	req := pathfind.NewRequest(ctx, args)
	s.sched.Enqueue(req)
	return req
}

// FindPathNow runs an exact search to completion outside the scheduler.
func (s *State) FindPathNow(ctx context.Context, args pathfind.PathArgs) *pathfind.PathRequest {
	req := pathfind.NewRequest(ctx, args)
	s.searcher.FindPathNow(req)
	return req
}

// PendingRequests is the number of queued requests.
func (s *State) PendingRequests() int {
	return s.sched.Pending()
}

// ── Tick steps ──

// DispatchEvents delivers the world events emitted since the last call.
func (s *State) DispatchEvents() int {
	n := 0
	s.colliderChanged.Swap()
	n += s.colliderChanged.Dispatch()
	s.colliderMoved.Swap()
	n += s.colliderMoved.Dispatch()
	s.bodyTypeChanged.Swap()
	n += s.bodyTypeChanged.Dispatch()
	s.tileChanged.Swap()
	n += s.tileChanged.Dispatch()
	return n
}

// UpdateNavmesh rebuilds every grid whose cooldown has elapsed.
func (s *State) UpdateNavmesh() int {
	return s.Nav.Update()
}

// StepRequests spends up to budget on queued requests.
func (s *State) StepRequests(budget time.Duration) []*pathfind.PathRequest {
	finished := s.sched.Tick(budget)
	for _, req := range finished {
		for _, fn := range s.pathFinished {
			fn(req)
		}
	}
	return finished
}

// DispatchRebuilt delivers rebuild notifications emitted this tick.
func (s *State) DispatchRebuilt() int {
	s.Nav.Rebuilt().Swap()
	return s.Nav.Rebuilt().Dispatch()
}

// Tick advances events, due rebuilds and path requests by one tick.
func (s *State) Tick(budget time.Duration) []*pathfind.PathRequest {
	s.DispatchEvents()
	s.UpdateNavmesh()
	s.DispatchRebuilt()
	return s.StepRequests(budget)
}

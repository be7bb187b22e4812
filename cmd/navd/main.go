package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/navgrid/internal/config"
	coresys "github.com/l1jgo/navgrid/internal/core/system"
	"github.com/l1jgo/navgrid/internal/data"
	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
	"github.com/l1jgo/navgrid/internal/pathfind"
	"github.com/l1jgo/navgrid/internal/persist"
	"github.com/l1jgo/navgrid/internal/scripting"
	"github.com/l1jgo/navgrid/internal/system"
	"github.com/l1jgo/navgrid/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Daemon ─────────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/navd.toml"
	if p := os.Getenv("NAVGRID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("\n  \033[1m%s\033[0m\n\n", cfg.Server.Name)

	// 3. World state
	ws := world.NewState(world.Options{
		Navmesh: navmesh.Options{
			Cooldown: cfg.Navmesh.RebuildCooldown,
			Workers:  cfg.Navmesh.BuildWorkers,
			Layer:    cfg.Navmesh.PathfindingLayer,
			Mask:     cfg.Navmesh.PathfindingMask,
		},
		Search: pathfind.SearchOptions{
			NodeLimit:     cfg.Search.NodeLimit,
			CheckInterval: cfg.Search.CheckInterval,
		},
		RequestSlice:   cfg.Search.RequestSlice,
		DisablePartial: cfg.Search.DisablePartial,
		Log:            log,
	})

	// 4. Static data
	printSection("data")

	grids, err := data.LoadGridTable(cfg.Data.GridList, cfg.Data.TileDir)
	if err != nil {
		return fmt.Errorf("load grids: %w", err)
	}
	if err := ws.LoadGrids(grids); err != nil {
		return fmt.Errorf("register grids: %w", err)
	}
	printStat("grids", grids.Count())

	portals, err := data.LoadPortalTable(cfg.Data.PortalList)
	if err != nil {
		return fmt.Errorf("load portals: %w", err)
	}
	entries := portals.All()

	// 5. Optional database: migrations, runtime portals, rebuild log
	var rebuildLog *persist.RebuildLogRepo
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (version %d)", version))

		stored, err := persist.NewPortalRepo(db).LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load stored portals: %w", err)
		}
		entries = append(entries, stored...)
		printStat("stored portals", len(stored))
		rebuildLog = persist.NewRebuildLogRepo(db)
	}

	for _, e := range entries {
		if _, err := ws.RegisterNamedPortal(e); err != nil {
			return fmt.Errorf("register portal: %w", err)
		}
	}
	printStat("portals", len(entries))

	// 6. Initial build, skipping the cooldown
	start := time.Now()
	chunks := ws.Nav.Flush()
	ws.DispatchRebuilt()
	printStat("chunks built", chunks)
	log.Info("initial navmesh built", zap.Int("chunks", chunks), zap.Duration("elapsed", time.Since(start)))

	// 7. Scripted portal audit
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		auditPortals(ws, grids, entries, engine, log)
		engine.Close()
	}
	fmt.Println()

	// 8. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(ws))
	runner.Register(system.NewRebuildSystem(ws, log))
	runner.Register(system.NewPathSystem(ws, cfg.Search.TickBudget))
	runner.Register(system.NewNotifySystem(ws))
	var persistSys *system.PersistenceSystem
	if rebuildLog != nil {
		persistSys = system.NewPersistenceSystem(ws, rebuildLog, log, int(time.Minute/cfg.Server.TickRate))
		runner.Register(persistSys)
	}

	// 9. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.TickRate)
	defer ticker.Stop()

	log.Info("navd running", zap.Duration("tick", cfg.Server.TickRate))
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Server.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			if persistSys != nil {
				persistSys.Flush()
			}
			log.Info("navd stopped")
			return nil
		}
	}
}

// auditPortals checks with the scripted tile cost that every pair of
// portal ends sharing a grid can reach each other, and warns otherwise.
func auditPortals(ws *world.State, grids *data.GridTable, entries []data.PortalEntry, engine *scripting.Engine, log *zap.Logger) {
	ends := make(map[string][]data.PortalEnd)
	for _, e := range entries {
		ends[e.A.Grid] = append(ends[e.A.Grid], e.A)
		ends[e.B.Grid] = append(ends[e.B.Grid], e.B)
	}
	for name, list := range ends {
		tm := grids.Get(name)
		if tm == nil || len(list) < 2 {
			continue
		}
		cost := engine.TileCostFunc(tm)
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a := tileOf(list[i])
				b := tileOf(list[j])
				if _, ok := pathfind.GetSimplePath(pathfind.SimplePathArgs{
					Start: a, End: b, Diagonals: true, Cost: cost,
				}); !ok {
					log.Warn("portal ends not connected",
						zap.String("grid", name),
						zap.Int("ax", a.X), zap.Int("ay", a.Y),
						zap.Int("bx", b.X), zap.Int("by", b.Y))
				}
			}
		}
		if id, ok := ws.GridByName(name); ok && !ws.HasGraph(id) {
			log.Warn("portal grid has no polygons", zap.String("grid", name))
		}
	}
}

func tileOf(e data.PortalEnd) geom.Vec2i {
	return geom.Floor(geom.Vec2{e.X, e.Y})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	// Production config in both formats: DPanic logs instead of panicking.
	zapCfg := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"gridrush/internal/api"
	"gridrush/internal/config"
	"gridrush/internal/game"
	"gridrush/internal/store"

	"github.com/joho/godotenv"
)

const respawnDelay = 3 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  GRIDRUSH - ARENA SERVER")
	log.Println("🎮 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server
	storeCfg := appConfig.Store

	// Wall grid: PNG map when configured, generated arena otherwise
	var grid *game.Grid
	var err error
	if simCfg.MapPath != "" {
		grid, err = game.LoadGridPNG(simCfg.MapPath)
		if err != nil {
			log.Fatalf("❌ Failed to load map %s: %v", simCfg.MapPath, err)
		}
		log.Printf("🗺️ Loaded map %s: %dx%d, %d open cells", simCfg.MapPath, grid.Width(), grid.Height(), grid.OpenCells())
	} else {
		grid, err = game.GenerateArena(simCfg.GridWidth, simCfg.GridHeight, simCfg.Seed)
		if err != nil {
			log.Fatalf("❌ Failed to generate arena: %v", err)
		}
		log.Printf("🗺️ Generated arena: %dx%d, %d open cells", grid.Width(), grid.Height(), grid.OpenCells())
	}

	engine, err := game.NewEngine(grid, game.Config{
		TickRate:       simCfg.TickRate,
		Wanderers:      simCfg.Wanderers,
		BounceBudget:   simCfg.BounceBudget,
		MaxProjectiles: simCfg.MaxProjectiles,
		Seed:           simCfg.Seed,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create engine: %v", err)
	}

	// Run history store
	var runs *store.Store
	if storeCfg.Enabled {
		runs, err = store.Open(storeCfg.Path)
		if err != nil {
			log.Printf("⚠️ Run history disabled: %v", err)
		} else {
			defer runs.Close()
			log.Printf("💾 Run history: %s", storeCfg.Path)
		}
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = "127.0.0.1:" + strconv.Itoa(serverCfg.DebugPort)
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// API server
	routerCfg := api.RouterConfig{
		Engine:    engine,
		RunsLimit: storeCfg.Keep,
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: serverCfg.RateLimit,
			Burst:             serverCfg.RateBurst,
			CleanupInterval:   5 * time.Minute,
		},
	}
	if runs != nil {
		routerCfg.Runs = runs
	}
	broadcastEvery := time.Duration(serverCfg.SnapshotEvery) * time.Second / time.Duration(simCfg.TickRate)
	server := api.NewServer(routerCfg, api.ServerOptions{BroadcastInterval: broadcastEvery})

	tracker := newRunTracker(engine, runs, simCfg)
	engine.OnTick = api.RecordTick
	engine.OnEvent = func(ev game.Event) {
		api.RecordSimEvent(ev.Type.String())
		tracker.handle(ev)
	}

	if err := engine.Populate(); err != nil {
		log.Fatalf("❌ Failed to populate arena: %v", err)
	}
	tracker.start()

	engine.Start()

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	engine.Stop()
	tracker.finish()
	log.Println("👋 Goodbye!")
}

// runTracker turns the engine's event stream into run records: one run per
// player life. When the player dies it finishes the run, waits out the
// respawn delay, then spawns a fresh player and opens the next run.
type runTracker struct {
	engine *game.Engine
	runs   *store.Store
	cfg    config.SimConfig

	mu         sync.Mutex
	runID      string
	startTick  uint64
	startKills uint64
}

func newRunTracker(engine *game.Engine, runs *store.Store, cfg config.SimConfig) *runTracker {
	return &runTracker{engine: engine, runs: runs, cfg: cfg}
}

// start opens a run for the freshly spawned player.
func (t *runTracker) start() {
	if t.runs == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.engine.Grid()
	id, err := t.runs.StartRun(t.cfg.Wanderers, grid.Width(), grid.Height())
	if err != nil {
		log.Printf("⚠️ Failed to record run start: %v", err)
		return
	}
	stats := t.engine.Stats()
	t.runID = id
	t.startTick = stats.Tick
	t.startKills = stats.Kills
}

func (t *runTracker) handle(ev game.Event) {
	if ev.Type != game.EventActorDeath {
		return
	}
	stats := t.engine.Stats()

	switch ev.Kind {
	case game.KindWanderer:
		if stats.Wanderers > 0 {
			return
		}
		// Arena cleared: the run is over even though the player survives.
		log.Printf("🏆 Arena cleared at tick %d with %d kills", stats.Tick, stats.Kills)
		t.finish()
	case game.KindPlayer:
		log.Printf("💀 Player down at tick %d with %d kills", stats.Tick, stats.Kills)
		t.finish()

		go func() {
			time.Sleep(respawnDelay)
			if _, err := t.engine.SpawnPlayer(); err != nil {
				log.Printf("⚠️ Respawn failed: %v", err)
				return
			}
			log.Println("✨ Player respawned")
			t.start()
		}()
	}
}

// finish closes the current run, if one is open.
func (t *runTracker) finish() {
	if t.runs == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runID == "" {
		return
	}
	// Engine counters are cumulative across the process; runs record deltas.
	stats := t.engine.Stats()
	if err := t.runs.FinishRun(t.runID, stats.Tick-t.startTick, stats.Kills-t.startKills); err != nil {
		log.Printf("⚠️ Failed to record run end: %v", err)
	}
	t.runID = ""
}

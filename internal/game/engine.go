package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Config tunes one engine instance.
type Config struct {
	TickRate       int   // ticks per second for the ticker loop
	Wanderers      int   // autonomous actors spawned by Populate
	BounceBudget   int   // wall reflections per projectile
	MaxProjectiles int   // hard cap on live projectiles
	Seed           int64 // rng seed; 0 means time-based
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		TickRate:       60,
		Wanderers:      300,
		BounceBudget:   DefaultBounceBudget,
		MaxProjectiles: 64,
	}
}

// Engine owns the actor arena, the reservation registry, and the fixed
// five-stage tick pipeline: intents, motion, projection, collision, sweep.
// That order is the one invariant everything else leans on; collision before
// motion commits would read last tick's occupancy.
//
// All exported methods take the engine lock, so callers writing intents or
// spawning actors are serialized against the tick.
type Engine struct {
	mu sync.RWMutex

	cfg  Config
	grid *Grid
	res  *Reservations

	actors    map[ActorID]*Actor
	order     []*Actor // sorted by ID for deterministic iteration
	despawned map[ActorID]struct{}
	playerID  ActorID
	nextID    ActorID

	tick        uint64
	kills       uint64
	projectiles int

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
	rng      *rand.Rand

	events []Event

	// OnEvent, when set before Start, receives every event after the tick
	// that produced it, outside the engine lock.
	OnEvent func(Event)

	// OnTick, when set before Start, receives each tick's wall-clock cost.
	OnTick func(time.Duration)
}

// NewEngine creates an engine running on the given grid.
func NewEngine(grid *Grid, cfg Config) (*Engine, error) {
	if grid == nil {
		return nil, errors.New("engine: nil grid")
	}
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("engine: invalid tick rate %d", cfg.TickRate)
	}
	if cfg.MaxProjectiles <= 0 {
		cfg.MaxProjectiles = DefaultConfig().MaxProjectiles
	}
	if cfg.BounceBudget < 0 {
		cfg.BounceBudget = 0
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		cfg:       cfg,
		grid:      grid,
		res:       NewReservations(),
		actors:    make(map[ActorID]*Actor),
		despawned: make(map[ActorID]struct{}),
		stopChan:  make(chan struct{}),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// Grid returns the wall grid the engine runs on.
func (e *Engine) Grid() *Grid { return e.grid }

// Start runs the ticker loop until Stop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))
	dt := 1.0 / float64(e.cfg.TickRate)

	go func() {
		for {
			select {
			case <-e.ticker.C:
				start := time.Now()
				events := e.Step(dt)
				if e.OnTick != nil {
					e.OnTick(time.Since(start))
				}
				if e.OnEvent != nil {
					for _, ev := range events {
						e.OnEvent(ev)
					}
				}
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Engine started: %d TPS, %dx%d grid", e.cfg.TickRate, e.grid.Width(), e.grid.Height())
}

// Stop halts the ticker loop. Safe to call twice.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	e.stopOnce.Do(func() { close(e.stopChan) })
	log.Println("🛑 Engine stopped")
}

// Step advances the simulation by dt seconds and returns the events the tick
// produced. The returned slice is reused by the next Step; consume it before
// then. This is also the deterministic entry point for tests: no goroutines,
// no clock.
func (e *Engine) Step(dt float64) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	e.tick++
	e.events = e.events[:0]

	// Stage 1: intent collection. External input was written through
	// SetIntent before this tick; wanderer AI writes its share here.
	for _, a := range e.order {
		if a.AI != nil {
			a.AI.steer(a, e.grid, e.res)
		}
	}

	// Stage 2: motion. The only stage that mutates motion state or touches
	// reservations.
	for _, a := range e.order {
		if _, gone := e.despawned[a.ID]; gone {
			continue
		}
		if stepActor(a, dt, e.grid, e.res) {
			e.emit(Event{Type: EventProjectileExpired, Actor: a.ID, Kind: a.Kind, Pos: a.Pos})
			e.despawn(a)
		}
	}

	// Stage 3: world-position projection.
	for _, a := range e.order {
		a.project()
	}

	// Stage 4: collision, read-only against the registry.
	e.detectProjectileImpacts()
	e.detectAdjacency()

	// Stage 5: sweep reservations of everything despawned during 2-4, then
	// drop the actors themselves.
	if len(e.despawned) > 0 {
		e.res.Sweep(e.despawned)
		for id := range e.despawned {
			delete(e.actors, id)
			delete(e.despawned, id)
		}
		e.rebuildOrder()
	}

	return e.events
}

// despawn marks an actor for removal at the sweep stage. Until then its
// reservations stay visible, so other actors may be blocked by a ghost for
// the remainder of the tick.
func (e *Engine) despawn(a *Actor) {
	if _, gone := e.despawned[a.ID]; gone {
		return
	}
	e.despawned[a.ID] = struct{}{}
	if a.Kind == KindProjectile && e.projectiles > 0 {
		e.projectiles--
	}
}

// kill despawns a player or wanderer and reports its death.
func (e *Engine) kill(a *Actor) {
	if _, gone := e.despawned[a.ID]; gone {
		return
	}
	e.emit(Event{Type: EventActorDeath, Actor: a.ID, Kind: a.Kind, Pos: a.Pos})
	if a.Kind == KindWanderer {
		e.kills++
	}
	if a.ID == e.playerID {
		e.playerID = 0
	}
	e.despawn(a)
}

func (e *Engine) rebuildOrder() {
	e.order = e.order[:0]
	for _, a := range e.actors {
		e.order = append(e.order, a)
	}
	sort.Slice(e.order, func(i, j int) bool { return e.order[i].ID < e.order[j].ID })
}

func (e *Engine) addActor(a *Actor) {
	e.nextID++
	a.ID = e.nextID
	e.actors[a.ID] = a
	e.rebuildOrder()
}

// SpawnPlayer places the controlled actor on a random open cell and reserves
// it. There is at most one player per engine.
func (e *Engine) SpawnPlayer() (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playerID != 0 {
		return 0, errors.New("engine: player already spawned")
	}
	cell, err := e.openCell(func(c Cell) bool {
		_, held := e.res.Occupant(c)
		return !held
	})
	if err != nil {
		return 0, err
	}
	return e.spawnPlayerAt(cell), nil
}

// SpawnPlayerAt places the player on a specific cell, used by tests and
// scripted setups. The cell must be open and unreserved.
func (e *Engine) SpawnPlayerAt(cell Cell) (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playerID != 0 {
		return 0, errors.New("engine: player already spawned")
	}
	if e.grid.IsWall(cell) {
		return 0, fmt.Errorf("engine: player spawn %v is a wall", cell)
	}
	if occupant, held := e.res.Occupant(cell); held {
		return 0, fmt.Errorf("engine: player spawn %v held by actor %d", cell, occupant)
	}
	return e.spawnPlayerAt(cell), nil
}

func (e *Engine) spawnPlayerAt(cell Cell) ActorID {
	a := &Actor{
		Kind:     KindPlayer,
		Cell:     cell,
		Speed:    PlayerSpeed,
		Collider: Vec2{ColliderSize, ColliderSize},
	}
	e.addActor(a)
	e.res.Claim(cell, a.ID)
	e.playerID = a.ID
	a.project()
	return a.ID
}

// SpawnWanderer places an autonomous wanderer at a random open, unreserved
// cell far enough from the player, facing a viable cardinal direction.
func (e *Engine) SpawnWanderer(pref TurnPref) (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	playerCell := Cell{}
	hasPlayer := false
	if p, ok := e.actors[e.playerID]; ok {
		playerCell = p.Cell
		hasPlayer = true
	}

	var start Dir
	cell, err := e.openCell(func(c Cell) bool {
		if _, held := e.res.Occupant(c); held {
			return false
		}
		if hasPlayer && c.DistSq(playerCell) < MinSpawnDistance*MinSpawnDistance {
			return false
		}
		// Needs at least one open cardinal neighbour to head into.
		offset := e.rng.Intn(len(CardinalDirs))
		for i := range CardinalDirs {
			d := CardinalDirs[(offset+i)%len(CardinalDirs)]
			if !e.grid.IsWall(c.Add(d)) {
				start = d
				return true
			}
		}
		return false
	})
	if err != nil {
		return 0, err
	}

	a := &Actor{
		Kind:     KindWanderer,
		Cell:     cell,
		Speed:    WandererSpeed,
		Collider: Vec2{ColliderSize, ColliderSize},
		Intent:   start,
		AI:       &TurnerAI{Pref: pref, LastKnown: start},
	}
	e.addActor(a)
	e.res.Claim(cell, a.ID)
	a.project()
	return a.ID, nil
}

// SpawnWandererAt places a wanderer on a specific cell with a fixed heading,
// for tests and scripted setups.
func (e *Engine) SpawnWandererAt(cell Cell, heading Dir, pref TurnPref) (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grid.IsWall(cell) {
		return 0, fmt.Errorf("engine: wanderer spawn %v is a wall", cell)
	}
	if occupant, held := e.res.Occupant(cell); held {
		return 0, fmt.Errorf("engine: wanderer spawn %v held by actor %d", cell, occupant)
	}
	a := &Actor{
		Kind:     KindWanderer,
		Cell:     cell,
		Speed:    WandererSpeed,
		Collider: Vec2{ColliderSize, ColliderSize},
		Intent:   heading,
		AI:       &TurnerAI{Pref: pref, LastKnown: heading},
	}
	e.addActor(a)
	e.res.Claim(cell, a.ID)
	a.project()
	return a.ID, nil
}

// Populate spawns the player plus the configured number of wanderers, split
// evenly between left and right turners.
func (e *Engine) Populate() error {
	if _, err := e.SpawnPlayer(); err != nil {
		return err
	}
	for i := 0; i < e.cfg.Wanderers; i++ {
		pref := TurnLeft
		if i%2 == 1 {
			pref = TurnRight
		}
		if _, err := e.SpawnWanderer(pref); err != nil {
			return fmt.Errorf("engine: wanderer %d: %w", i, err)
		}
	}
	log.Printf("👾 Populated: 1 player, %d wanderers, %d open cells", e.cfg.Wanderers, e.grid.OpenCells())
	return nil
}

// SetIntent writes an actor's buffered direction. Input for the next tick
// must arrive before that tick runs; the engine lock provides the ordering.
func (e *Engine) SetIntent(id ActorID, d Dir) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.actors[id]; ok {
		a.Intent = d.Clamp()
	}
}

// SetPlayerIntent writes the controlled actor's buffered direction.
func (e *Engine) SetPlayerIntent(d Dir) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.actors[e.playerID]; ok {
		a.Intent = d.Clamp()
	}
}

// Fire launches a projectile one cell ahead of the player along its current
// intent. Nothing fires while the player is stationary with no intent, when
// the cell ahead is a wall, or at the projectile cap.
func (e *Engine) Fire() (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.actors[e.playerID]
	if !ok {
		return 0, errors.New("engine: no player")
	}
	dir := player.Intent
	if dir.IsZero() {
		return 0, errors.New("engine: cannot fire while aimless")
	}
	if e.projectiles >= e.cfg.MaxProjectiles {
		return 0, errors.New("engine: projectile cap reached")
	}
	spawn := player.Cell.Add(dir)
	if e.grid.IsWall(spawn) {
		return 0, errors.New("engine: muzzle cell is a wall")
	}

	a := &Actor{
		Kind:     KindProjectile,
		Cell:     spawn,
		Speed:    ProjectileSpeed,
		Collider: Vec2{ColliderSize, ColliderSize},
		Intent:   dir,
		Bounce:   &Bounce{Initial: e.cfg.BounceBudget, Remaining: e.cfg.BounceBudget},
		Owner:    player.ID,
	}
	e.addActor(a)
	e.projectiles++
	a.project()
	return a.ID, nil
}

// SpawnProjectileAt places an in-flight projectile with an explicit bounce
// budget, for tests and scripted setups. The cell must be open.
func (e *Engine) SpawnProjectileAt(cell Cell, d Dir, b Bounce) (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grid.IsWall(cell) {
		return 0, fmt.Errorf("engine: projectile spawn %v is a wall", cell)
	}
	if e.projectiles >= e.cfg.MaxProjectiles {
		return 0, errors.New("engine: projectile cap reached")
	}
	a := &Actor{
		Kind:     KindProjectile,
		Cell:     cell,
		Dir:      d,
		Speed:    ProjectileSpeed,
		Collider: Vec2{ColliderSize, ColliderSize},
		Intent:   d,
		Bounce:   &b,
	}
	e.addActor(a)
	e.projectiles++
	a.project()
	return a.ID, nil
}

// Despawn removes an actor externally (disconnects, scripted removals). The
// reservation lingers until the next tick's sweep.
func (e *Engine) Despawn(id ActorID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.actors[id]; ok {
		if a.ID == e.playerID {
			e.playerID = 0
		}
		e.despawn(a)
	}
}

// Actor returns a copy of an actor's current state.
func (e *Engine) Actor(id ActorID) (Actor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.actors[id]
	if !ok {
		return Actor{}, false
	}
	return *a, true
}

// PlayerID returns the controlled actor's id, zero when dead or unspawned.
func (e *Engine) PlayerID() ActorID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.playerID
}

// Reservation reports the holder of a cell, for tests and debugging.
func (e *Engine) Reservation(c Cell) (ActorID, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.res.Occupant(c)
}

// ReservationTable copies the registry, for invariant checks and debugging.
func (e *Engine) ReservationTable() map[Cell]ActorID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[Cell]ActorID, len(e.res.cells))
	for c, id := range e.res.cells {
		out[c] = id
	}
	return out
}

// openCell draws random cells until one passes the wall check and the given
// predicate. It gives up after a bounded number of attempts so a crowded
// grid fails loudly instead of spinning.
func (e *Engine) openCell(accept func(Cell) bool) (Cell, error) {
	const maxAttempts = 10000
	for i := 0; i < maxAttempts; i++ {
		c := Cell{e.rng.Intn(e.grid.Width()), e.rng.Intn(e.grid.Height())}
		if e.grid.IsWall(c) {
			continue
		}
		if accept == nil || accept(c) {
			return c, nil
		}
	}
	return Cell{}, errors.New("engine: no open cell found")
}

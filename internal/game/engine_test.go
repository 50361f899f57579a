package game

import (
	"testing"
)

func TestNewEngineValidation(t *testing.T) {
	g := openGrid(t, 8, 8)
	if _, err := NewEngine(nil, DefaultConfig()); err == nil {
		t.Error("nil grid accepted")
	}
	if _, err := NewEngine(g, Config{TickRate: 0}); err == nil {
		t.Error("zero tick rate accepted")
	}
	if _, err := NewEngine(g, DefaultConfig()); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}

func TestEngineStartStop(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 8, 8))
	e.Start()
	e.Stop()
	e.Stop() // double stop must not panic
}

func TestSpawnPlayerClaimsCell(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 8, 8))
	id, err := e.SpawnPlayerAt(Cell{3, 3})
	if err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	if occupant, held := e.Reservation(Cell{3, 3}); !held || occupant != id {
		t.Errorf("spawn cell not reserved: occupant=%d held=%v", occupant, held)
	}
	if _, err := e.SpawnPlayerAt(Cell{4, 4}); err == nil {
		t.Error("second player accepted")
	}
}

func TestSpawnRejectsWallsAndHeldCells(t *testing.T) {
	g := gridWithWalls(t, 8, 8, Cell{2, 2})
	e := newTestEngine(t, g)
	if _, err := e.SpawnPlayerAt(Cell{2, 2}); err == nil {
		t.Error("player spawn on wall accepted")
	}
	if _, err := e.SpawnWandererAt(Cell{2, 2}, Dir{1, 0}, TurnLeft); err == nil {
		t.Error("wanderer spawn on wall accepted")
	}
	if _, err := e.SpawnWandererAt(Cell{3, 3}, Dir{1, 0}, TurnLeft); err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}
	if _, err := e.SpawnWandererAt(Cell{3, 3}, Dir{1, 0}, TurnRight); err == nil {
		t.Error("spawn on a held cell accepted")
	}
}

func TestFire(t *testing.T) {
	g := gridWithWalls(t, 8, 8, Cell{4, 3})
	e := newTestEngine(t, g)
	if _, err := e.Fire(); err == nil {
		t.Error("fire without a player accepted")
	}
	if _, err := e.SpawnPlayerAt(Cell{3, 3}); err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	if _, err := e.Fire(); err == nil {
		t.Error("fire while aimless accepted")
	}

	e.SetPlayerIntent(Dir{1, 0})
	if _, err := e.Fire(); err == nil {
		t.Error("fire into a wall accepted")
	}

	e.SetPlayerIntent(Dir{0, 1})
	id, err := e.Fire()
	if err != nil {
		t.Fatalf("Fire: %v", err)
	}
	proj, ok := e.Actor(id)
	if !ok {
		t.Fatal("projectile missing")
	}
	if proj.Cell != (Cell{3, 4}) {
		t.Errorf("muzzle cell = %v, want one ahead of the player", proj.Cell)
	}
	if proj.Intent != (Dir{0, 1}) || !proj.Dir.IsZero() {
		t.Errorf("projectile starts with intent only: dir=%v intent=%v", proj.Dir, proj.Intent)
	}
	if proj.Bounce == nil || proj.Bounce.Remaining != 3 {
		t.Errorf("bounce budget = %+v, want 3", proj.Bounce)
	}
	if _, held := e.Reservation(Cell{3, 4}); held {
		t.Error("projectile spawn reserved its cell")
	}
}

func TestFireCap(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 8, 8)) // cap 16
	if _, err := e.SpawnPlayerAt(Cell{3, 3}); err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	e.SetPlayerIntent(Dir{0, 1})
	for i := 0; i < 16; i++ {
		if _, err := e.Fire(); err != nil {
			t.Fatalf("fire %d: %v", i, err)
		}
	}
	if _, err := e.Fire(); err == nil {
		t.Error("cap not enforced")
	}
}

func TestSweepFreesGhostAfterOneTick(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 8, 8))
	player, err := e.SpawnPlayerAt(Cell{3, 3})
	if err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	ghost, err := e.SpawnWandererAt(Cell{4, 3}, Dir{}, TurnLeft)
	if err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}

	e.Despawn(ghost)
	e.SetPlayerIntent(Dir{1, 0})

	// Tick 1: the dangling reservation still blocks the move.
	e.Step(0.001)
	p, _ := e.Actor(player)
	if !p.Dir.IsZero() {
		t.Fatalf("player moved through a ghost reservation, dir=%v", p.Dir)
	}

	// Tick 2: the sweep at the end of tick 1 freed the cell.
	e.Step(0.001)
	p, _ = e.Actor(player)
	if p.Dir != (Dir{1, 0}) {
		t.Fatalf("player still blocked after sweep, dir=%v", p.Dir)
	}
	if occupant, _ := e.Reservation(Cell{4, 3}); occupant != player {
		t.Errorf("freed cell claimed by %d, want player %d", occupant, player)
	}
}

// checkInvariants asserts the registry occupancy rules after a sweep: every
// live reserver holds its resting cell (idle) or both transit cells (moving),
// and every registry entry belongs to a live reserver and matches its cells.
func checkInvariants(t *testing.T, e *Engine, tick int) {
	t.Helper()
	table := e.ReservationTable()
	snap := e.Snapshot()

	actorsByID := make(map[ActorID]ActorSnapshot, len(snap.Actors))
	for _, a := range snap.Actors {
		actorsByID[a.ID] = a
	}

	for _, a := range snap.Actors {
		if !a.Kind.Reserves() {
			continue
		}
		if table[a.Cell] != a.ID {
			t.Fatalf("tick %d: reserver %d (%s) does not hold its cell %v (holder %d)",
				tick, a.ID, a.Kind, a.Cell, table[a.Cell])
		}
		if !a.Dir.IsZero() {
			dest := a.Cell.Add(a.Dir)
			if table[dest] != a.ID {
				t.Fatalf("tick %d: reserver %d in transit to %v without holding it (holder %d)",
					tick, a.ID, dest, table[dest])
			}
		}
	}

	for cell, id := range table {
		a, ok := actorsByID[id]
		if !ok {
			t.Fatalf("tick %d: reservation %v held by missing actor %d", tick, cell, id)
		}
		if !a.Kind.Reserves() {
			t.Fatalf("tick %d: non-reserver %d (%s) holds %v", tick, id, a.Kind, cell)
		}
		if cell != a.Cell && cell != a.Cell.Add(a.Dir) {
			t.Fatalf("tick %d: reservation %v unrelated to actor %d at %v dir %v",
				tick, cell, id, a.Cell, a.Dir)
		}
	}
}

func TestOccupancyInvariantUnderLoad(t *testing.T) {
	// Big enough that wanderer spawns can sit MinSpawnDistance from the player.
	grid, err := GenerateArena(81, 61, 7)
	if err != nil {
		t.Fatalf("GenerateArena: %v", err)
	}
	e, err := NewEngine(grid, Config{TickRate: 60, Wanderers: 16, BounceBudget: 3, MaxProjectiles: 16, Seed: 7})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := e.Populate(); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	headings := []Dir{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	dt := 1.0 / 60
	for tick := 0; tick < 400; tick++ {
		if e.PlayerID() != 0 {
			e.SetPlayerIntent(headings[(tick/30)%len(headings)])
			if tick%45 == 10 {
				e.Fire() // may legitimately fail against a wall
			}
		}
		e.Step(dt)
		checkInvariants(t, e, tick)

		for _, a := range e.Snapshot().Actors {
			if !a.Dir.IsZero() && (a.Progress < 0 || a.Progress >= 1) {
				t.Fatalf("tick %d: actor %d progress %v outside [0,1)", tick, a.ID, a.Progress)
			}
		}
	}
}

func TestEventsSliceReuse(t *testing.T) {
	// Step documents that the returned slice is only valid until the next
	// Step; make sure events actually arrive through it.
	e := newTestEngine(t, openGrid(t, 12, 12))
	if _, err := e.SpawnWandererAt(Cell{5, 5}, Dir{}, TurnLeft); err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}
	if _, err := e.SpawnProjectileAt(Cell{4, 5}, Dir{1, 0}, Bounce{Initial: 0, Remaining: 0}); err != nil {
		t.Fatalf("SpawnProjectileAt: %v", err)
	}

	events := e.Step(0.9 * TileSize / ProjectileSpeed)
	if len(events) == 0 {
		t.Fatal("no events from an impact tick")
	}
	if next := e.Step(0.001); len(next) != 0 {
		t.Errorf("quiet tick produced %d events", len(next))
	}
}

func TestStatsAndSnapshot(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 12, 12))
	if _, err := e.SpawnPlayerAt(Cell{2, 2}); err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	if _, err := e.SpawnWandererAt(Cell{8, 8}, Dir{1, 0}, TurnLeft); err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}

	stats := e.Stats()
	if stats.Actors != 2 || stats.Wanderers != 1 || !stats.PlayerAlive {
		t.Errorf("stats = %+v", stats)
	}

	snap := e.Snapshot()
	if snap.Width != 12 || snap.Height != 12 {
		t.Errorf("snapshot dims = %dx%d", snap.Width, snap.Height)
	}
	if len(snap.Actors) != 2 {
		t.Fatalf("snapshot actors = %d, want 2", len(snap.Actors))
	}
	// Snapshot must be detached from live state.
	e.Step(0.001)
	if snap.Tick == e.Snapshot().Tick {
		t.Error("tick did not advance")
	}
}

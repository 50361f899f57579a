package game

import "testing"

func TestAABBOverlap(t *testing.T) {
	size := Vec2{32, 32}
	tests := []struct {
		name string
		a, b Vec2
		want bool
	}{
		{"same center", Vec2{100, 100}, Vec2{100, 100}, true},
		{"partial overlap", Vec2{100, 100}, Vec2{120, 110}, true},
		{"touching edges", Vec2{100, 100}, Vec2{132, 100}, false},
		{"clear apart", Vec2{100, 100}, Vec2{200, 200}, false},
		{"overlap x only", Vec2{100, 100}, Vec2{110, 200}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aabbOverlap(tt.a, size, tt.b, size); got != tt.want {
				t.Errorf("aabbOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func newTestEngine(t *testing.T, g *Grid) *Engine {
	t.Helper()
	e, err := NewEngine(g, Config{TickRate: 60, MaxProjectiles: 16, BounceBudget: 3, Seed: 1})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestProjectileHitsWanderer(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 12, 12))
	victim, err := e.SpawnWandererAt(Cell{5, 5}, Dir{}, TurnLeft)
	if err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}
	proj, err := e.SpawnProjectileAt(Cell{4, 5}, Dir{1, 0}, Bounce{Initial: 3, Remaining: 3})
	if err != nil {
		t.Fatalf("SpawnProjectileAt: %v", err)
	}

	// Push the projectile to 90% of the step so the boxes overlap.
	dt := 0.9 * TileSize / ProjectileSpeed
	events := e.Step(dt)

	if got := countEvents(events, EventProjectileImpact); got != 1 {
		t.Fatalf("impact events = %d, want 1 (events: %v)", got, events)
	}
	if got := countEvents(events, EventActorDeath); got != 1 {
		t.Fatalf("death events = %d, want 1", got)
	}
	for _, ev := range events {
		if ev.Type == EventProjectileImpact {
			if ev.Actor != proj || ev.Target != victim {
				t.Errorf("impact = {proj %d victim %d}, want {%d %d}", ev.Actor, ev.Target, proj, victim)
			}
		}
	}
	if _, alive := e.Actor(proj); alive {
		t.Error("projectile survived its impact")
	}
	if _, alive := e.Actor(victim); alive {
		t.Error("victim survived the impact")
	}
}

func TestProjectileNoOverlapNoImpact(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 12, 12))
	if _, err := e.SpawnWandererAt(Cell{5, 5}, Dir{}, TurnLeft); err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}
	if _, err := e.SpawnProjectileAt(Cell{4, 5}, Dir{1, 0}, Bounce{Initial: 3, Remaining: 3}); err != nil {
		t.Fatalf("SpawnProjectileAt: %v", err)
	}

	// 10% progress: broad phase matches, boxes stay a tile apart.
	events := e.Step(0.1 * TileSize / ProjectileSpeed)

	if got := countEvents(events, EventProjectileImpact); got != 0 {
		t.Errorf("impact events = %d, want 0 at long range", got)
	}
}

func TestSelfFireImmunityFirstLeg(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 12, 12))
	if _, err := e.SpawnPlayerAt(Cell{5, 5}); err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	if _, err := e.SpawnProjectileAt(Cell{4, 5}, Dir{1, 0}, Bounce{Initial: 3, Remaining: 3}); err != nil {
		t.Fatalf("SpawnProjectileAt: %v", err)
	}

	events := e.Step(0.9 * TileSize / ProjectileSpeed)

	if got := countEvents(events, EventProjectileImpact); got != 0 {
		t.Errorf("unbounced projectile hit the player: %d impacts", got)
	}
	if e.PlayerID() == 0 {
		t.Error("player died to its own first-leg projectile")
	}
}

func TestSelfFireHitsAfterBounce(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 12, 12))
	player, err := e.SpawnPlayerAt(Cell{5, 5})
	if err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	// One bounce already consumed.
	proj, err := e.SpawnProjectileAt(Cell{4, 5}, Dir{1, 0}, Bounce{Initial: 3, Remaining: 2})
	if err != nil {
		t.Fatalf("SpawnProjectileAt: %v", err)
	}

	events := e.Step(0.9 * TileSize / ProjectileSpeed)

	if got := countEvents(events, EventProjectileImpact); got != 1 {
		t.Fatalf("impact events = %d, want 1 after a bounce", got)
	}
	for _, ev := range events {
		if ev.Type == EventProjectileImpact && (ev.Actor != proj || ev.Target != player) {
			t.Errorf("impact = {%d %d}, want {%d %d}", ev.Actor, ev.Target, proj, player)
		}
	}
	if e.PlayerID() != 0 {
		t.Error("player should be dead")
	}
}

func TestAdjacencyOneFatalPairPerTick(t *testing.T) {
	e := newTestEngine(t, openGrid(t, 12, 12))
	if _, err := e.SpawnPlayerAt(Cell{5, 5}); err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	// Two hostiles adjacent at once, east and west.
	east, err := e.SpawnWandererAt(Cell{6, 5}, Dir{}, TurnLeft)
	if err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}
	west, err := e.SpawnWandererAt(Cell{4, 5}, Dir{}, TurnRight)
	if err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}

	events := e.Step(0)

	if got := countEvents(events, EventActorDeath); got != 2 {
		t.Fatalf("death events = %d, want exactly one fatal pair (2 deaths)", got)
	}
	_, eastAlive := e.Actor(east)
	_, westAlive := e.Actor(west)
	if eastAlive == westAlive {
		t.Errorf("exactly one wanderer should die this tick: east=%v west=%v", eastAlive, westAlive)
	}
	if e.PlayerID() != 0 {
		t.Error("player should have died in the collision")
	}

	// The survivor is dealt with on a later tick only if still adjacent;
	// with the player gone it just keeps roaming.
	events = e.Step(0)
	if got := countEvents(events, EventActorDeath); got != 0 {
		t.Errorf("death events after player removal = %d, want 0", got)
	}
}

func TestAdjacencyUsesExpandedColliders(t *testing.T) {
	// Diagonal neighbours are sqrt2 tiles apart; plain colliders (32px)
	// would never touch across 64px, the 2.25x expansion reaches.
	e := newTestEngine(t, openGrid(t, 12, 12))
	if _, err := e.SpawnPlayerAt(Cell{5, 5}); err != nil {
		t.Fatalf("SpawnPlayerAt: %v", err)
	}
	if _, err := e.SpawnWandererAt(Cell{6, 6}, Dir{}, TurnLeft); err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}

	events := e.Step(0)

	if got := countEvents(events, EventActorDeath); got != 2 {
		t.Errorf("death events = %d, want 2 for diagonal contact", got)
	}
}

func TestGhostOccupantNoCollision(t *testing.T) {
	// A reservation whose holder despawned this tick is a ghost: the
	// detector must treat it as no collision, not panic or hit.
	e := newTestEngine(t, openGrid(t, 12, 12))
	victim, err := e.SpawnWandererAt(Cell{5, 5}, Dir{}, TurnLeft)
	if err != nil {
		t.Fatalf("SpawnWandererAt: %v", err)
	}
	if _, err := e.SpawnProjectileAt(Cell{4, 5}, Dir{1, 0}, Bounce{Initial: 3, Remaining: 3}); err != nil {
		t.Fatalf("SpawnProjectileAt: %v", err)
	}
	e.Despawn(victim)

	events := e.Step(0.9 * TileSize / ProjectileSpeed)

	if got := countEvents(events, EventProjectileImpact); got != 0 {
		t.Errorf("impact against a despawned occupant: %d events", got)
	}
}

package game

// EventType tags the events the tick pipeline emits.
type EventType uint8

const (
	EventUnknown EventType = iota
	// EventProjectileImpact is a confirmed projectile hit: Actor is the
	// projectile, Target the victim.
	EventProjectileImpact
	// EventActorDeath reports a despawned player or wanderer, with the
	// world position it died at.
	EventActorDeath
	// EventProjectileExpired reports a projectile destroyed against a wall
	// with its bounce budget spent.
	EventProjectileExpired
)

// String returns a human-readable event type.
func (t EventType) String() string {
	switch t {
	case EventProjectileImpact:
		return "projectile_impact"
	case EventActorDeath:
		return "actor_death"
	case EventProjectileExpired:
		return "projectile_expired"
	default:
		return "unknown"
	}
}

// Event is one entry of the per-tick output queue. The queue is returned
// from Step and must be consumed before the next tick; the engine reuses the
// backing array.
type Event struct {
	Type   EventType `json:"type" msgpack:"type"`
	Tick   uint64    `json:"tick" msgpack:"tick"`
	Actor  ActorID   `json:"actor" msgpack:"actor"`
	Kind   Kind      `json:"kind" msgpack:"kind"`
	Target ActorID   `json:"target,omitempty" msgpack:"target,omitempty"`
	Pos    Vec2      `json:"pos" msgpack:"pos"`
}

func (e *Engine) emit(ev Event) {
	ev.Tick = e.tick
	e.events = append(e.events, ev)
}

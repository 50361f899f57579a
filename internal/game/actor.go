package game

// Simulation constants, lifted from the original tuning: one tile is 64
// world units, the player crosses 1000 units per second, wanderers move at
// half that, projectiles at 1.5x.
const (
	TileSize = 64.0

	baseSpeed       = 50.0
	PlayerSpeed     = 20 * baseSpeed
	WandererSpeed   = 10 * baseSpeed
	ProjectileSpeed = 30 * baseSpeed

	// ColliderSize is the default axis-aligned box edge, half a tile.
	ColliderSize = TileSize * 0.5

	// AdjacencyExpansion widens both colliders in the player/wanderer
	// adjacency check so near-misses at close range still count.
	AdjacencyExpansion = 2.25

	// DefaultBounceBudget is how many wall reflections a projectile gets
	// before it dies on impact.
	DefaultBounceBudget = 3

	// MinSpawnDistance keeps wanderer spawns this many cells away from the
	// player (Euclidean).
	MinSpawnDistance = 32
)

// ActorID is an opaque stable identifier. IDs are never reused within an
// engine's lifetime.
type ActorID uint64

// Kind classifies an actor and fixes its capabilities.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindWanderer
	KindProjectile
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindWanderer:
		return "wanderer"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Reserves reports whether this kind participates in the cell registry.
// Projectiles only read it.
func (k Kind) Reserves() bool {
	return k != KindProjectile
}

// Bounce is the wall-reflection budget carried by projectiles.
type Bounce struct {
	Initial   int `json:"initial" msgpack:"initial"`
	Remaining int `json:"remaining" msgpack:"remaining"`
}

// Used returns how many bounces have been consumed.
func (b Bounce) Used() int {
	return b.Initial - b.Remaining
}

// Actor is one simulated entity: the controlled player, an autonomous
// wanderer, or a projectile. Motion state is mutated only by the engine's
// motion stage.
type Actor struct {
	ID   ActorID
	Kind Kind

	// Motion state. Cell is the grid cell the actor occupies or is
	// departing from; Dir zero means idle; Progress is the fraction of the
	// current one-cell step completed.
	Cell     Cell
	Dir      Dir
	Progress float64
	Speed    float64

	// Intent is the buffered desired direction, written by input or AI
	// before the motion stage runs.
	Intent Dir

	// Collider is the axis-aligned box size for the narrow phase.
	Collider Vec2

	// Bounce is nil for actors without a reflection budget.
	Bounce *Bounce

	// AI is nil for actors without autonomous steering.
	AI *TurnerAI

	// Owner is the actor that fired this projectile, zero otherwise.
	Owner ActorID

	// Pos is the interpolated world position, refreshed by the projection
	// stage each tick. Collision reads it; nothing else should.
	Pos Vec2
}

// InTransit reports whether the actor is between cells.
func (a *Actor) InTransit() bool {
	return !a.Dir.IsZero()
}

// project computes the interpolated world position from the committed grid
// state.
func (a *Actor) project() {
	a.Pos = Vec2{
		X: (float64(a.Cell.X) + float64(a.Dir.X)*a.Progress) * TileSize,
		Y: (float64(a.Cell.Y) + float64(a.Dir.Y)*a.Progress) * TileSize,
	}
}

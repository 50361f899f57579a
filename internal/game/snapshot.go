package game

// ActorSnapshot is one actor's state frozen for broadcast. Fields carry both
// json and msgpack tags: the HTTP API serves json, the websocket feed ships
// msgpack.
type ActorSnapshot struct {
	ID       ActorID `json:"id" msgpack:"id"`
	Kind     Kind    `json:"kind" msgpack:"kind"`
	Cell     Cell    `json:"cell" msgpack:"cell"`
	Dir      Dir     `json:"dir" msgpack:"dir"`
	Progress float64 `json:"progress" msgpack:"progress"`
	Pos      Vec2    `json:"pos" msgpack:"pos"`
	Bounce   *Bounce `json:"bounce,omitempty" msgpack:"bounce,omitempty"`
}

// Snapshot is an immutable copy of the world at a tick boundary. It shares
// nothing with live engine state, so consumers may hold it across ticks.
type Snapshot struct {
	Tick     uint64          `json:"tick" msgpack:"tick"`
	Width    int             `json:"width" msgpack:"width"`
	Height   int             `json:"height" msgpack:"height"`
	PlayerID ActorID         `json:"playerId" msgpack:"playerId"`
	Kills    uint64          `json:"kills" msgpack:"kills"`
	Actors   []ActorSnapshot `json:"actors" msgpack:"actors"`
}

// Stats summarizes engine state for metrics and the stats endpoint.
type Stats struct {
	Tick         uint64 `json:"tick"`
	Actors       int    `json:"actors"`
	Wanderers    int    `json:"wanderers"`
	Projectiles  int    `json:"projectiles"`
	Reservations int    `json:"reservations"`
	Conflicts    uint64 `json:"conflicts"`
	Kills        uint64 `json:"kills"`
	PlayerAlive  bool   `json:"playerAlive"`
}

// Snapshot copies the current world state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		Tick:     e.tick,
		Width:    e.grid.Width(),
		Height:   e.grid.Height(),
		PlayerID: e.playerID,
		Kills:    e.kills,
		Actors:   make([]ActorSnapshot, 0, len(e.order)),
	}
	for _, a := range e.order {
		as := ActorSnapshot{
			ID:       a.ID,
			Kind:     a.Kind,
			Cell:     a.Cell,
			Dir:      a.Dir,
			Progress: a.Progress,
			Pos:      a.Pos,
		}
		if a.Bounce != nil {
			b := *a.Bounce
			as.Bounce = &b
		}
		snap.Actors = append(snap.Actors, as)
	}
	return snap
}

// Stats returns engine counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	wanderers := 0
	for _, a := range e.order {
		if a.Kind == KindWanderer {
			wanderers++
		}
	}
	return Stats{
		Tick:         e.tick,
		Actors:       len(e.actors),
		Wanderers:    wanderers,
		Projectiles:  e.projectiles,
		Reservations: e.res.Len(),
		Conflicts:    e.res.Conflicts(),
		Kills:        e.kills,
		PlayerAlive:  e.playerID != 0,
	}
}

package game

// stepActor advances one actor's motion state by dt seconds. It is the only
// code that mutates motion state or claims/releases reservations, and it
// assumes intents for this tick have already been written.
//
// The return value is true when the actor destroyed itself this step (a
// projectile with no bounce budget hitting a wall).
func stepActor(a *Actor, dt float64, grid *Grid, res *Reservations) bool {
	if !a.InTransit() {
		startFromIdle(a, grid, res)
		return false
	}

	length := a.Dir.Len()
	if length == 0 {
		// Should be unreachable while in transit; skip rather than divide
		// by zero.
		return false
	}
	a.Progress += a.Speed * dt / (TileSize * length)
	if a.Progress < 1 {
		return false
	}
	return resolveArrival(a, grid, res)
}

// startFromIdle begins a transit when the buffered intent points at a
// reachable cell. Reservers must also win the destination claim; the claim
// holds for the whole transit, not just on arrival.
func startFromIdle(a *Actor, grid *Grid, res *Reservations) {
	if a.Intent.IsZero() {
		return
	}
	target := a.Cell.Add(a.Intent)
	if grid.IsWall(target) {
		return
	}
	if a.Kind.Reserves() && !res.TryClaim(target, a.ID) {
		return
	}
	a.Dir = a.Intent
	a.Progress = 0
}

// resolveArrival commits the finished step and decides what the actor does
// next: carry straight on, bounce, stop, or turn without an idle frame.
func resolveArrival(a *Actor, grid *Grid, res *Reservations) bool {
	old := a.Cell
	heading := a.Dir
	a.Cell = a.Cell.Add(heading)
	if a.Kind.Reserves() {
		res.Release(old, a.ID)
	}

	if a.Intent == heading {
		next := a.Cell.Add(heading)
		if !grid.IsWall(next) {
			if a.Kind.Reserves() && !res.TryClaim(next, a.ID) {
				// Another reserver holds the cell ahead; settle on the one
				// just committed and retry from idle next tick.
				a.Progress = 0
				a.Dir = Dir{}
				return false
			}
			// Carry the excess progress over so tile boundaries don't
			// stutter.
			a.Progress -= 1
			return false
		}
		return hitWall(a, heading, grid)
	}

	// Intent changed mid-transit. Adopt it immediately if its target is
	// reachable, otherwise go idle.
	a.Progress = 0
	if !a.Intent.IsZero() {
		target := a.Cell.Add(a.Intent)
		if !grid.IsWall(target) && (!a.Kind.Reserves() || res.TryClaim(target, a.ID)) {
			a.Dir = a.Intent
			return false
		}
	}
	a.Dir = Dir{}
	return false
}

// hitWall handles a wall directly ahead of a continuing actor: reflect if
// the bounce budget allows, otherwise stop. Projectiles that cannot bounce
// are destroyed.
func hitWall(a *Actor, heading Dir, grid *Grid) bool {
	if a.Bounce != nil && a.Bounce.Remaining > 0 {
		reflected := Reflect(heading, a.Cell, grid)
		a.Dir = reflected
		a.Intent = reflected
		a.Bounce.Remaining--

		// Rescale the leftover progress so linear speed is preserved when
		// the step length changes between diagonal and orthogonal.
		oldLen := heading.Len()
		newLen := reflected.Len()
		a.Progress -= 1
		if oldLen > 0 && newLen > 0 {
			a.Progress *= oldLen / newLen
		}
		return false
	}

	a.Progress = 0
	a.Dir = Dir{}
	a.Intent = Dir{}
	return a.Kind == KindProjectile
}

// Reflect computes the bounce direction for a wall impact at the given cell.
// It probes the cell one step horizontally and one step vertically from the
// impact point: an open horizontal neighbour reflects the vertical
// component, an open vertical neighbour reflects the horizontal one, and a
// corner with both blocked reflects the full direction. The horizontal
// probe wins ties; that order is visible on screen and must not change.
func Reflect(d Dir, impact Cell, grid *Grid) Dir {
	horizClear := !grid.IsWall(impact.Add(Dir{X: d.X}))
	vertClear := !grid.IsWall(impact.Add(Dir{Y: d.Y}))
	switch {
	case horizClear:
		return Dir{d.X, -d.Y}
	case vertClear:
		return Dir{-d.X, d.Y}
	default:
		return d.Neg()
	}
}

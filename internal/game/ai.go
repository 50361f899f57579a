package game

// TurnPref selects which way a wanderer prefers to turn when its path is
// blocked.
type TurnPref uint8

const (
	TurnLeft TurnPref = iota
	TurnRight
)

// String returns the preference name.
func (p TurnPref) String() string {
	if p == TurnRight {
		return "right"
	}
	return "left"
}

// TurnerAI is the wall-follower steering attached to wanderers. It only
// writes the actor's intent; the motion stage does everything else.
type TurnerAI struct {
	Pref      TurnPref
	LastKnown Dir
}

// steer updates one wanderer's intent. While the wanderer is moving it just
// remembers the heading; once it has been stopped (wall or reservation
// ahead) it picks a new direction: preferred side first, the other side
// second, and straight back as the last resort even if that cell is taken.
func (ai *TurnerAI) steer(a *Actor, grid *Grid, res *Reservations) {
	if !a.Intent.IsZero() {
		ai.LastKnown = a.Intent
		return
	}

	forward := ai.LastKnown
	if forward.IsZero() {
		return
	}

	first := forward.TurnLeft()
	second := forward.TurnRight()
	if ai.Pref == TurnRight {
		first, second = second, first
	}

	next := forward.Neg()
	if !blocked(a.Cell.Add(first), a.ID, grid, res) {
		next = first
	} else if !blocked(a.Cell.Add(second), a.ID, grid, res) {
		next = second
	}
	a.Intent = next
	ai.LastKnown = next
}

// blocked reports whether a cell is a wall or held by another actor.
func blocked(c Cell, self ActorID, grid *Grid, res *Reservations) bool {
	if grid.IsWall(c) {
		return true
	}
	if occupant, ok := res.Occupant(c); ok && occupant != self {
		return true
	}
	return false
}

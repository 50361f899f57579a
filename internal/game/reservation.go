package game

// Reservations maps grid cells to the actor currently holding them. A
// reserver holds its resting cell, and during a transit both the cell it is
// leaving and the one it is entering. The invariant is one holder per cell
// at every tick boundary; entries left behind by despawned actors survive at
// most one tick until Sweep runs.
//
// The registry does not start goroutines and is not safe for concurrent use;
// the engine serializes access, matching the single-writer-per-entry
// discipline of the tick pipeline.
type Reservations struct {
	cells     map[Cell]ActorID
	conflicts uint64
}

// NewReservations creates an empty registry.
func NewReservations() *Reservations {
	return &Reservations{cells: make(map[Cell]ActorID)}
}

// Claim records the cell as held by the actor, overwriting any previous
// holder. Callers must have verified the cell is free or already their own;
// use TryClaim for the checked variant.
func (r *Reservations) Claim(c Cell, id ActorID) {
	r.cells[c] = id
}

// TryClaim claims the cell if it is unheld or already held by the same
// actor. It returns false, leaving the registry untouched, when another
// actor holds the cell.
func (r *Reservations) TryClaim(c Cell, id ActorID) bool {
	if occupant, ok := r.cells[c]; ok && occupant != id {
		r.conflicts++
		return false
	}
	r.cells[c] = id
	return true
}

// Release removes the entry only if the actor still holds it. A stale
// release against a cell someone else has since claimed is silently ignored.
func (r *Reservations) Release(c Cell, id ActorID) {
	if occupant, ok := r.cells[c]; ok && occupant == id {
		delete(r.cells, c)
	}
}

// Occupant returns the holder of the cell, if any.
func (r *Reservations) Occupant(c Cell) (ActorID, bool) {
	id, ok := r.cells[c]
	return id, ok
}

// Sweep removes every entry held by an actor in the given set and returns
// the number of entries dropped. It must run after all motion and collision
// work in a tick; mid-tick it would free cells a still-moving actor owns.
func (r *Reservations) Sweep(gone map[ActorID]struct{}) int {
	if len(gone) == 0 {
		return 0
	}
	removed := 0
	for cell, id := range r.cells {
		if _, dead := gone[id]; dead {
			delete(r.cells, cell)
			removed++
		}
	}
	return removed
}

// Len returns the number of held cells.
func (r *Reservations) Len() int {
	return len(r.cells)
}

// Conflicts returns how many TryClaim calls were refused, exposed as a
// gauge of contention.
func (r *Reservations) Conflicts() uint64 {
	return r.conflicts
}

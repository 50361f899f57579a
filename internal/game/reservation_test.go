package game

import "testing"

func TestTryClaim(t *testing.T) {
	res := NewReservations()

	if !res.TryClaim(Cell{1, 1}, 1) {
		t.Fatal("claim on a free cell failed")
	}
	if !res.TryClaim(Cell{1, 1}, 1) {
		t.Error("re-claim by the holder must succeed")
	}
	if res.TryClaim(Cell{1, 1}, 2) {
		t.Error("claim on a foreign-held cell must fail")
	}
	if occupant, _ := res.Occupant(Cell{1, 1}); occupant != 1 {
		t.Errorf("occupant = %d, want 1", occupant)
	}
	if res.Conflicts() != 1 {
		t.Errorf("conflicts = %d, want 1", res.Conflicts())
	}
}

func TestReleaseGuardsAgainstStaleHolder(t *testing.T) {
	res := NewReservations()
	res.Claim(Cell{2, 2}, 1)

	// A release by someone who no longer holds the cell is ignored.
	res.Release(Cell{2, 2}, 7)
	if occupant, held := res.Occupant(Cell{2, 2}); !held || occupant != 1 {
		t.Fatalf("stale release evicted the holder: occupant=%d held=%v", occupant, held)
	}

	res.Release(Cell{2, 2}, 1)
	if _, held := res.Occupant(Cell{2, 2}); held {
		t.Error("holder's release did not clear the cell")
	}
}

func TestSweep(t *testing.T) {
	res := NewReservations()
	res.Claim(Cell{0, 0}, 1)
	res.Claim(Cell{1, 0}, 1) // mid-transit holders own two cells
	res.Claim(Cell{2, 0}, 2)
	res.Claim(Cell{3, 0}, 3)

	removed := res.Sweep(map[ActorID]struct{}{1: {}, 3: {}})

	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if res.Len() != 1 {
		t.Errorf("len = %d, want 1", res.Len())
	}
	if occupant, held := res.Occupant(Cell{2, 0}); !held || occupant != 2 {
		t.Errorf("survivor entry lost: occupant=%d held=%v", occupant, held)
	}
	if got := res.Sweep(nil); got != 0 {
		t.Errorf("empty sweep removed %d entries", got)
	}
}

package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)

	id, err := s.StartRun(300, 81, 61)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Finished {
		t.Fatalf("runs = %+v, want one unfinished run", runs)
	}

	if err := s.FinishRun(id, 1200, 7); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	runs, err = s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if !r.Finished || r.Ticks != 1200 || r.Kills != 7 || r.EndedAt.IsZero() {
		t.Errorf("finished run = %+v", r)
	}
}

func TestBestRun(t *testing.T) {
	s := openTestStore(t)

	best, err := s.BestRun()
	if err != nil {
		t.Fatalf("BestRun: %v", err)
	}
	if best != nil {
		t.Fatalf("best run on empty store = %+v", best)
	}

	for _, run := range []struct {
		ticks, kills uint64
	}{{500, 3}, {900, 12}, {400, 12}} {
		id, err := s.StartRun(300, 81, 61)
		if err != nil {
			t.Fatalf("StartRun: %v", err)
		}
		if err := s.FinishRun(id, run.ticks, run.kills); err != nil {
			t.Fatalf("FinishRun: %v", err)
		}
	}
	// One abandoned run must not win.
	if _, err := s.StartRun(300, 81, 61); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	best, err = s.BestRun()
	if err != nil {
		t.Fatalf("BestRun: %v", err)
	}
	if best == nil || best.Kills != 12 || best.Ticks != 400 {
		t.Errorf("best run = %+v, want 12 kills in 400 ticks", best)
	}
}

package main

import (
	"context"
	"flowdef/internal/data/history"
	"path/filepath"
	"testing"
	"time"
)

func TestPruneHistory_AfterCancellation(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		if err := store.SaveRun(context.Background(), history.Run{RunID: id, Timestamp: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatal(err)
		}
	}

	// Watch mode returns once the signal context is done.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if pruned := pruneHistory(ctx, store, 1); pruned != 2 {
		t.Fatalf("expected 2 pruned runs, got %d", pruned)
	}
	runs, err := store.LoadRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "r3" {
		t.Fatalf("expected r3 to survive, got %+v", runs)
	}
}

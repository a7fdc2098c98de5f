package simcore

import "testing"

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	grid := safeBackground(6, 6, 3)
	e := newEngineWithGrid(6, 6, 3, grid)
	e.state.Score = 120
	e.state.MoveCount = 3

	// advance the main RNG stream so restore must reproduce its exact state
	e.state.Seeds.Stream(DomainMain).Next(100)

	snap := e.Snapshot()

	restored := Restore(snap, e.cfg, Collaborators{
		SpawnModel: NewWeightedSpawnModel(e.cfg),
		Logger:     DefaultLogger(),
	})

	if restored.state.Score != 120 || restored.state.MoveCount != 3 {
		t.Fatalf("expected score/moveCount preserved, got score=%d moveCount=%d", restored.state.Score, restored.state.MoveCount)
	}
	if restored.tick != e.tick || restored.simTime != e.simTime {
		t.Fatal("expected tick/simTime preserved across restore")
	}

	wantNext := e.state.Seeds.Stream(DomainMain).Next(1000)
	gotNext := restored.state.Seeds.Stream(DomainMain).Next(1000)
	if wantNext != gotNext {
		t.Fatalf("expected restored RNG stream to continue identically, want %d got %d", wantNext, gotNext)
	}

	for i := range e.state.Tiles {
		if e.state.Tiles[i] != restored.state.Tiles[i] {
			t.Fatalf("expected tile %d preserved across snapshot/restore", i)
		}
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	grid := safeBackground(4, 4, 3)
	e := newEngineWithGrid(4, 4, 3, grid)

	snap := e.Snapshot()
	snap.Tiles[0] = Tile{ID: 9999, Color: 2}

	if e.state.Tiles[0] == snap.Tiles[0] {
		t.Fatal("expected mutating a snapshot's backing array to not affect the live engine")
	}
}

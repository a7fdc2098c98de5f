package simcore

import (
	"bytes"
	"io"
	"testing"
)

func TestGameRecordingSaveLoadRoundTrip(t *testing.T) {
	grid := safeBackground(6, 6, 3)
	e := newEngineWithGrid(6, 6, 3, grid)

	rec := NewRecorder(e, 7)
	rec.ApplyMove(Position{X: 0, Y: 0}, Position{X: 1, Y: 0})

	var buf bytes.Buffer
	if err := rec.Recording().Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadGameRecording(&buf)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.MasterSeed != 7 {
		t.Fatalf("expected masterSeed preserved, got %d", loaded.MasterSeed)
	}
	if len(loaded.Commands) != 1 {
		t.Fatalf("expected 1 recorded command, got %d", len(loaded.Commands))
	}
	if loaded.Commands[0].Kind != CommandSwap {
		t.Fatal("expected a recorded swap command")
	}
	if loaded.InitialSnapshot.Width != 6 || loaded.InitialSnapshot.Height != 6 {
		t.Fatal("expected initial snapshot dimensions preserved")
	}
}

func TestReplayerReproducesEventStream(t *testing.T) {
	grid := safeBackground(6, 6, 3)
	overlayRow(grid, 6, 0, []Color{0, 1, 0, 0, 1, 2})
	e := newEngineWithGrid(6, 6, 3, grid)

	rec := NewRecorder(e, 7)
	rec.ApplyMove(Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	e.Tick(0.25)
	liveEvents := e.DrainEvents()

	cfg := DefaultEngineConfig()
	collaborators := Collaborators{SpawnModel: NewWeightedSpawnModel(cfg), Logger: DefaultLogger()}
	replayer := NewReplayer(rec.Recording(), cfg, collaborators)

	replayedEvents, err := replayer.Step(0.25)
	if err != nil && err != io.EOF {
		t.Fatalf("unexpected replay error: %v", err)
	}

	if len(liveEvents) != len(replayedEvents) {
		t.Fatalf("expected replay to reproduce the same event count, live=%d replayed=%d", len(liveEvents), len(replayedEvents))
	}
	for i := range liveEvents {
		if liveEvents[i].Type != replayedEvents[i].Type {
			t.Fatalf("event %d type mismatch: live=%v replayed=%v", i, liveEvents[i].Type, replayedEvents[i].Type)
		}
	}
}

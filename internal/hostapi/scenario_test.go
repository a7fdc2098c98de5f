package hostapi

import (
	"os"
	"path/filepath"
	"testing"

	"match3sim/internal/simcore"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write scenario fixture: %v", err)
	}
	return path
}

func TestLoadScenarioHappyPath(t *testing.T) {
	path := writeScenario(t, `{
		"width": 2, "height": 2, "colorCount": 3, "moveLimit": 5,
		"masterSeed": 42,
		"grid": [0, 1, 2, 0],
		"bombs": ["none", "ufo", "", ""],
		"covers": ["cage", "", "", "bubble"],
		"coverHealths": [2, 0, 0, 1],
		"grounds": ["ice", "", "jelly", ""],
		"groundHealths": [0, 0, 0, 0],
		"objectives": [{"layer": "tile", "elementType": 0, "targetCount": 10}]
	}`)

	level, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level.Width != 2 || level.Height != 2 || level.ColorCount != 3 {
		t.Fatalf("unexpected dimensions: %+v", level)
	}
	if level.MasterSeed != 42 || level.MoveLimit != 5 {
		t.Fatalf("unexpected scalar fields: %+v", level)
	}
	if level.Bombs[1] != simcore.BombUFO {
		t.Fatalf("expected bombs[1] to parse as UFO, got %v", level.Bombs[1])
	}
	if level.Covers[0] != simcore.CoverCage || level.Covers[3] != simcore.CoverBubble {
		t.Fatalf("unexpected covers: %v", level.Covers)
	}
	if level.Grounds[0] != simcore.GroundIce || level.Grounds[2] != simcore.GroundJelly {
		t.Fatalf("unexpected grounds: %v", level.Grounds)
	}
	if len(level.Objectives) != 1 || level.Objectives[0].Layer != simcore.ObjectiveLayerTile || level.Objectives[0].TargetCount != 10 {
		t.Fatalf("unexpected objectives: %+v", level.Objectives)
	}

	// The loaded LevelConfig must actually construct an engine.
	cfg := simcore.DefaultEngineConfig()
	engine := simcore.NewSimEngine(level, cfg, simcore.DefaultCollaborators(cfg))
	if engine == nil {
		t.Fatal("expected a constructed engine")
	}
}

func TestLoadScenarioUnknownKind(t *testing.T) {
	path := writeScenario(t, `{
		"width": 1, "height": 1, "colorCount": 2,
		"grid": [0],
		"covers": ["not-a-real-cover"]
	}`)

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected an error for an unknown cover kind")
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing scenario file")
	}
}

package simcore

import "testing"

func newEngineWithGrid(width, height, colors int, grid []Color) *SimEngine {
	cfg := DefaultEngineConfig()
	level := LevelConfig{
		Width:      width,
		Height:     height,
		ColorCount: colors,
		MasterSeed: 7,
		Grid:       grid,
	}
	return NewSimEngine(level, cfg, Collaborators{
		SpawnModel: NewWeightedSpawnModel(cfg),
		Logger:     DefaultLogger(),
	})
}

// safeBackground fills width*height cells with a 3-cycle diagonal pattern
// that never forms a run of 3 along any row or column, so a test can
// overwrite a single row with a scripted scenario without the rest of the
// board interfering.
func safeBackground(width, height, colors int) []Color {
	grid := make([]Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid[y*width+x] = Color((x + y) % colors)
		}
	}
	return grid
}

func overlayRow(grid []Color, width, y int, row []Color) {
	for x, c := range row {
		grid[y*width+x] = c
	}
}

func TestEngineStraightThreeSwap(t *testing.T) {
	// Row 0: R G R R G B (colors 0,1,0,0,1,2); swap (0,0)<->(1,0) moves the
	// lone R next to the existing pair: the row becomes G R R R G B
	// ([1,0,0,0,1,2]), a run of three 0s at x=1,2,3.
	grid := safeBackground(6, 6, 3)
	overlayRow(grid, 6, 0, []Color{0, 1, 0, 0, 1, 2})
	e := newEngineWithGrid(6, 6, 3, grid)

	ok := e.ApplyMove(Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	if !ok {
		t.Fatal("expected swap to be accepted")
	}

	e.Tick(0.25)

	sawThreeMatch := false
	sawScore := false
	for _, ev := range e.DrainEvents() {
		if ev.Type == EventMatchDetected {
			if p := ev.Payload.(MatchDetectedPayload); len(p.Positions) == 3 {
				sawThreeMatch = true
			}
		}
		if ev.Type == EventScoreAdded {
			sawScore = true
		}
	}
	// Refill draws from a seeded RNG and may (rarely) spawn a second
	// cascade match; what this scenario guarantees is the initial 3-tile
	// match from the scripted swap itself.
	if !sawThreeMatch {
		t.Fatal("expected a match-detected event covering exactly 3 positions")
	}
	if !sawScore {
		t.Fatal("expected a score-added event")
	}
}

func TestEngineRevertOnNoMatch(t *testing.T) {
	grid := safeBackground(6, 6, 3)
	overlayRow(grid, 6, 0, []Color{0, 1, 2, 1, 0, 2})
	e := newEngineWithGrid(6, 6, 3, grid)

	ok := e.ApplyMove(Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	if !ok {
		t.Fatal("expected swap to be accepted")
	}
	moveCountBefore := e.state.MoveCount

	e.Tick(0.25)

	sawRevert := false
	for _, ev := range e.DrainEvents() {
		if ev.Type == EventTilesSwapped {
			p := ev.Payload.(TilesSwappedPayload)
			if p.Kind == SwapReverted {
				sawRevert = true
			}
		}
	}
	if !sawRevert {
		t.Fatal("expected a tiles-swapped(revert) event")
	}
	if e.state.MoveCount != moveCountBefore {
		t.Fatal("expected moveCount unchanged after a reverted swap")
	}
	if e.state.TileAt(Position{X: 0, Y: 0}).Color != 0 || e.state.TileAt(Position{X: 1, Y: 0}).Color != 1 {
		t.Fatal("expected board restored to pre-swap colors")
	}
}

func TestEngineBombCombo(t *testing.T) {
	grid := safeBackground(6, 6, 3)
	e := newEngineWithGrid(6, 6, 3, grid)
	e.state.Tiles[e.state.Idx(Position{X: 0, Y: 3})] = Tile{ID: 500, Color: 0, Bomb: BombHorizontalRocket}
	e.state.Tiles[e.state.Idx(Position{X: 1, Y: 3})] = Tile{ID: 501, Color: 1, Bomb: BombVerticalRocket}

	ok := e.ApplyMove(Position{X: 0, Y: 3}, Position{X: 1, Y: 3})
	if !ok {
		t.Fatal("expected bomb swap to be accepted")
	}

	e.Tick(0.01)

	sawCombo := false
	destroyed := 0
	for _, ev := range e.DrainEvents() {
		if ev.Type == EventBombCombo {
			sawCombo = true
		}
		if ev.Type == EventTileDestroyed {
			destroyed++
		}
	}
	if !sawCombo {
		t.Fatal("expected a bomb-combo event on the tick after a bomb-bomb swap")
	}
	// Row 3 (6 cells) union column 1 (6 cells) overlapping at (1,3): 11
	// distinct cells destroyed by the combo itself; cascading refill
	// matches could add more, never fewer.
	if destroyed < 11 {
		t.Fatalf("expected at least 11 tiles destroyed by the rocket+rocket combo, got %d", destroyed)
	}
}

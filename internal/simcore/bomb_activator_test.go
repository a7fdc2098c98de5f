package simcore

import "testing"

func newTestState(w, h, colors int) *GameState {
	s := NewGameState(w, h, colors, 42)
	id := uint64(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.Tiles[s.Idx(Position{X: x, Y: y})] = Tile{ID: id, Color: Color((x + y) % colors)}
			id++
		}
	}
	return s
}

func countNonEmpty(s *GameState) int {
	n := 0
	for _, t := range s.Tiles {
		if !t.Empty() {
			n++
		}
	}
	return n
}

func TestBombActivatorHorizontalRocketClearsRow(t *testing.T) {
	s := newTestState(6, 6, 5)
	origin := Position{X: 2, Y: 3}
	s.Tiles[s.Idx(origin)] = Tile{ID: 999, Color: 1, Bomb: BombHorizontalRocket}

	events := NewEventCollector()
	ba := NewBombActivator()
	ba.QueueSingle(origin)
	ba.Run(s, events, DefaultEngineConfig(), NewPRNG(1), 1, 0, 0)

	for x := 0; x < s.Width; x++ {
		if !s.TileAt(Position{X: x, Y: 3}).Empty() {
			t.Fatalf("expected row 3 cleared, cell (%d,3) still occupied", x)
		}
	}
	for y := 0; y < s.Height; y++ {
		if y == 3 {
			continue
		}
		if s.TileAt(Position{X: 2, Y: y}).Empty() {
			t.Fatalf("expected only row 3 cleared, (2,%d) was destroyed", y)
		}
	}
}

func TestBombActivatorAtMostOnce(t *testing.T) {
	s := newTestState(6, 6, 5)
	a := Position{X: 0, Y: 0}
	b := Position{X: 5, Y: 0}
	s.Tiles[s.Idx(a)] = Tile{ID: 100, Color: 1, Bomb: BombHorizontalRocket}
	s.Tiles[s.Idx(b)] = Tile{ID: 101, Color: 2, Bomb: BombHorizontalRocket}

	events := NewEventCollector()
	ba := NewBombActivator()
	// Both rockets share row 0: activating a catches b in its victim set
	// and queues it as a chain, but b was also queued directly. Either
	// path must activate b exactly once, never twice.
	ba.QueueSingle(a)
	ba.QueueSingle(b)
	ba.Run(s, events, DefaultEngineConfig(), NewPRNG(1), 1, 0, 0)

	activatedCount := 0
	for _, ev := range events.Drain() {
		if ev.Type == EventBombActivated {
			activatedCount++
		}
	}
	if activatedCount != 2 {
		t.Fatalf("expected exactly 2 bomb-activated events (a and b, each once), got %d", activatedCount)
	}
	if countNonEmpty(s) != s.Width*s.Height-s.Width {
		t.Fatalf("expected row 0 fully cleared and nothing else, got %d tiles remaining", countNonEmpty(s))
	}
}

func TestComboVictimsRocketRocket(t *testing.T) {
	s := newTestState(6, 6, 5)
	cfg := DefaultEngineConfig()
	a := bombSide{Pos: Position{X: 2, Y: 2}, Kind: BombHorizontalRocket}
	b := bombSide{Pos: Position{X: 4, Y: 4}, Kind: BombVerticalRocket}
	victims := comboVictims(cfg, s, NewPRNG(1), a, b)

	hasRow := false
	hasCol := false
	for _, p := range victims {
		if p.Y == 2 && p.X == 0 {
			hasRow = true
		}
		if p.X == 4 && p.Y == 0 {
			hasCol = true
		}
	}
	if !hasRow || !hasCol {
		t.Fatalf("expected combo victims to cover row 2 and column 4, got %v", victims)
	}
}

func TestComboVictimsAreaArea(t *testing.T) {
	s := newTestState(8, 8, 5)
	cfg := DefaultEngineConfig()
	a := bombSide{Pos: Position{X: 2, Y: 2}, Kind: BombArea}
	b := bombSide{Pos: Position{X: 3, Y: 2}, Kind: BombArea}
	victims := comboVictims(cfg, s, NewPRNG(1), a, b)

	// midpoint (2,2), 5x5 square spans x:0..4, y:0..4
	found := make(map[Position]bool)
	for _, p := range victims {
		found[p] = true
	}
	if !found[(Position{X: 0, Y: 0})] || !found[(Position{X: 4, Y: 4})] {
		t.Fatalf("expected area+area combo to span a 5x5 block around the midpoint, got %v", victims)
	}
}

func TestSingleVictimsColorBombUsesMostCommonColor(t *testing.T) {
	s := NewGameState(4, 4, 5, 7)
	id := uint64(1)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			s.Tiles[s.Idx(Position{X: x, Y: y})] = Tile{ID: id, Color: 0}
			id++
		}
	}
	origin := Position{X: 0, Y: 0}
	s.Tiles[s.Idx(origin)] = Tile{ID: id, Bomb: BombColor, Color: ColorNone}

	victims := singleVictims(DefaultEngineConfig(), s, NewPRNG(1), BombColor, origin, ColorNone)
	if len(victims) != countNonEmpty(s) {
		t.Fatalf("expected color bomb to target every tile of the dominant color plus itself, got %d victims for %d tiles", len(victims), countNonEmpty(s))
	}
}

package simcore

import "testing"

func buildRow(s *GameState, y int, colors []Color) {
	for x, c := range colors {
		s.Tiles[s.Idx(Position{X: x, Y: y})] = Tile{ID: uint64(y*1000 + x + 1), Color: c}
	}
}

func TestSwapCommitsThenReverts(t *testing.T) {
	s := NewGameState(6, 1, 3, 1)
	buildRow(s, 0, []Color{0, 1, 2, 1, 0, 2})

	events := NewEventCollector()
	pools := NewPools()
	finder := NewMatchFinder(pools)
	ba := NewBombActivator()
	ss := NewSwapSystem(DefaultEngineConfig(), finder, ba)

	ok := ss.Apply(s, events, 1, 0, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	if !ok {
		t.Fatal("expected swap to be accepted")
	}
	if !s.Pending.Active {
		t.Fatal("expected a pending move after a non-bomb swap")
	}

	resolved, _, _ := ss.Advance(s, events, 2, 0.1, 0.05)
	if resolved {
		t.Fatal("expected Advance to report not-yet-resolved before swapDuration elapses")
	}

	resolved, _, _ = ss.Advance(s, events, 3, 0.3, 1.0)
	if resolved {
		t.Fatal("expected a no-match swap to revert, not resolve")
	}
	if s.Pending.Active {
		t.Fatal("expected pending move cleared after revert")
	}
	if s.TileAt(Position{X: 0, Y: 0}).Color != 0 || s.TileAt(Position{X: 1, Y: 0}).Color != 1 {
		t.Fatal("expected board restored to pre-swap colors after revert")
	}
}

func TestSwapResolvesOnMatch(t *testing.T) {
	s := NewGameState(6, 1, 3, 1)
	// 0 0 1 0 2 2 -> swap (2,0)<->(3,0) -> 0 0 0 1 2 2: a run of three 0s
	// through the focus cell (2,0).
	buildRow(s, 0, []Color{0, 0, 1, 0, 2, 2})

	events := NewEventCollector()
	pools := NewPools()
	finder := NewMatchFinder(pools)
	ba := NewBombActivator()
	ss := NewSwapSystem(DefaultEngineConfig(), finder, ba)

	ok := ss.Apply(s, events, 1, 0, Position{X: 2, Y: 0}, Position{X: 3, Y: 0})
	if !ok {
		t.Fatal("expected swap to be accepted")
	}
	if !s.Pending.Active || !s.Pending.HadMatch {
		t.Fatalf("expected a pending move with hadMatch=true, got %+v", s.Pending)
	}

	moveCountBefore := s.MoveCount
	resolved, focusA, focusB := ss.Advance(s, events, 2, 1.0, 1.0)
	if !resolved {
		t.Fatal("expected Advance to resolve once swapDuration elapses for a matching swap")
	}
	if s.MoveCount != moveCountBefore+1 {
		t.Fatal("expected moveCount to increment on a resolved match")
	}
	if s.Pending.Active {
		t.Fatal("expected pending move cleared after resolution")
	}
	if focusA != (Position{X: 2, Y: 0}) || focusB != (Position{X: 3, Y: 0}) {
		t.Fatalf("expected Advance to return the resolved swap's focus positions, got %v %v", focusA, focusB)
	}
}

func TestSwapComboFastPath(t *testing.T) {
	s := NewGameState(6, 1, 3, 1)
	buildRow(s, 0, []Color{0, 1, 2, 1, 0, 2})
	s.Tiles[s.Idx(Position{X: 0, Y: 0})] = Tile{ID: 50, Color: 1, Bomb: BombHorizontalRocket}
	s.Tiles[s.Idx(Position{X: 1, Y: 0})] = Tile{ID: 51, Color: 2, Bomb: BombHorizontalRocket}

	events := NewEventCollector()
	pools := NewPools()
	finder := NewMatchFinder(pools)
	ba := NewBombActivator()
	ss := NewSwapSystem(DefaultEngineConfig(), finder, ba)

	ok := ss.Apply(s, events, 1, 0, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	if !ok {
		t.Fatal("expected bomb swap to be accepted")
	}
	if s.Pending.Active {
		t.Fatal("expected bomb-combo fast path to skip the pending-move FSM entirely")
	}
	if !ba.HasPending() {
		t.Fatal("expected the combo to be queued on the bomb activator")
	}
	if s.MoveCount != 1 {
		t.Fatalf("expected moveCount incremented immediately for the combo fast path, got %d", s.MoveCount)
	}
}

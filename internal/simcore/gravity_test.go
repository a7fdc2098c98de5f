package simcore

import "testing"

func TestGravityCompactsColumn(t *testing.T) {
	s := NewGameState(3, 4, 5, 1)
	// Column 1: tile at top (y=0), gap at y=1,2, tile at y=3.
	s.Tiles[s.Idx(Position{X: 1, Y: 0})] = Tile{ID: 1, Color: 2}
	s.Tiles[s.Idx(Position{X: 1, Y: 3})] = Tile{ID: 2, Color: 3}

	events := NewEventCollector()
	gs := NewGravitySystem()
	moved := gs.Apply(s, events, 1, 0)
	if !moved {
		t.Fatal("expected gravity to report movement")
	}

	if s.TileAt(Position{X: 1, Y: 3}).ID != 2 {
		t.Fatalf("expected original bottom tile to stay at y=3")
	}
	if s.TileAt(Position{X: 1, Y: 2}).ID != 1 {
		t.Fatalf("expected falling tile to land at y=2, got tile %+v", s.TileAt(Position{X: 1, Y: 2}))
	}
	if !s.TileAt(Position{X: 1, Y: 0}).Empty() {
		t.Fatal("expected vacated cell at y=0 to be empty")
	}
}

func TestGravityStopsAtStaticCover(t *testing.T) {
	s := NewGameState(1, 4, 5, 1)
	s.Tiles[s.Idx(Position{X: 0, Y: 0})] = Tile{ID: 1, Color: 1}
	s.Covers[s.Idx(Position{X: 0, Y: 2})] = Cover{Kind: CoverIce} // blocks gravity per rule table? verified below via MovableUnderGravity

	blocked := !s.MovableUnderGravity(Position{X: 0, Y: 2})

	events := NewEventCollector()
	gs := NewGravitySystem()
	gs.Apply(s, events, 1, 0)

	if blocked {
		if s.TileAt(Position{X: 0, Y: 1}).Empty() {
			t.Fatal("expected tile to stop directly above the gravity-blocking cover")
		}
	} else {
		if s.TileAt(Position{X: 0, Y: 3}).Empty() {
			t.Fatal("expected tile to fall to the bottom when nothing blocks gravity")
		}
	}
}

func TestGravityTransplantsDynamicCover(t *testing.T) {
	s := NewGameState(1, 3, 5, 1)
	s.Tiles[s.Idx(Position{X: 0, Y: 0})] = Tile{ID: 1, Color: 1}
	s.Covers[s.Idx(Position{X: 0, Y: 0})] = Cover{Kind: CoverBubble}
	s.CoverHP[s.Idx(Position{X: 0, Y: 0})] = 1

	dynamic := s.Covers[s.Idx(Position{X: 0, Y: 0})].Dynamic()

	events := NewEventCollector()
	gs := NewGravitySystem()
	gs.Apply(s, events, 1, 0)

	bottom := s.Idx(Position{X: 0, Y: 2})
	if dynamic {
		if s.Covers[bottom].Kind != CoverBubble {
			t.Fatalf("expected dynamic cover to follow its tile to the bottom, found %+v", s.Covers[bottom])
		}
	}
}

package simcore

import "testing"

func TestObjectiveTrackerCountsMatchingColorDestruction(t *testing.T) {
	s := NewGameState(4, 4, 5, 1)
	s.Objectives[0] = ObjectiveSlot{Active: true, Layer: ObjectiveLayerTile, ElementType: int(Color(2)), TargetCount: 2}

	events := NewEventCollector()
	ot := NewObjectiveTracker()
	batch := []GameEvent{
		{Type: EventTileDestroyed, Payload: TileDestroyedPayload{Color: 2}},
		{Type: EventTileDestroyed, Payload: TileDestroyedPayload{Color: 4}},
	}
	ot.Observe(s, events, batch, 1, 0)

	if s.Objectives[0].CurrentCount != 1 {
		t.Fatalf("expected only the matching color to increment, got %d", s.Objectives[0].CurrentCount)
	}
}

func TestObjectiveTrackerLatchesVictory(t *testing.T) {
	s := NewGameState(4, 4, 5, 1)
	s.Objectives[0] = ObjectiveSlot{Active: true, Layer: ObjectiveLayerTile, ElementType: int(Color(0)), TargetCount: 1, CurrentCount: 1}

	events := NewEventCollector()
	ot := NewObjectiveTracker()
	ot.EvaluateStatus(s, events, 5, 1, 0)

	if s.LevelStatus != StatusVictory {
		t.Fatalf("expected victory once all active objectives complete, got %v", s.LevelStatus)
	}

	// Status is terminal: a later call must not flip it even if conditions
	// would otherwise say defeat.
	ot.EvaluateStatus(s, events, 0, 2, 0)
	if s.LevelStatus != StatusVictory {
		t.Fatal("expected level status to stay latched at victory")
	}
}

func TestObjectiveTrackerDefeatOnMoveLimit(t *testing.T) {
	s := NewGameState(4, 4, 5, 1)
	s.MoveLimit = 10
	s.Objectives[0] = ObjectiveSlot{Active: true, Layer: ObjectiveLayerTile, ElementType: int(Color(0)), TargetCount: 5}

	events := NewEventCollector()
	ot := NewObjectiveTracker()
	ot.EvaluateStatus(s, events, 0, 1, 0)

	if s.LevelStatus != StatusDefeat {
		t.Fatalf("expected defeat when moves run out before objectives complete, got %v", s.LevelStatus)
	}
}

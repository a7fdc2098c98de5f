package simcore

// ObjectiveTracker advances the four objective slots in response to
// destruction events and decides when a level transitions to victory or
// defeat (spec §4.6). LevelStatus is terminal once set to anything other
// than StatusInProgress.
type ObjectiveTracker struct{}

// NewObjectiveTracker constructs a tracker. It holds no state of its own;
// all progress lives on GameState so it survives a snapshot/restore.
func NewObjectiveTracker() *ObjectiveTracker {
	return &ObjectiveTracker{}
}

// Observe scans a batch of events just emitted this tick and increments
// any objective slot they satisfy, emitting ObjectiveProgress for each
// slot that advances. SimEngine calls this once per tick, after chain
// resolution has settled the board and before the move-limit check.
func (ot *ObjectiveTracker) Observe(state *GameState, events *EventCollector, batch []GameEvent, tick uint64, simTime float64) {
	touched := make(map[int]bool)
	for _, ev := range batch {
		switch ev.Type {
		case EventTileDestroyed:
			p := ev.Payload.(TileDestroyedPayload)
			for i := range state.Objectives {
				slot := &state.Objectives[i]
				if slot.Active && slot.Layer == ObjectiveLayerTile && !slot.Completed() && Color(slot.ElementType) == p.Color {
					slot.CurrentCount++
					touched[i] = true
				}
			}
		case EventCoverDestroyed:
			p := ev.Payload.(CoverDestroyedPayload)
			for i := range state.Objectives {
				slot := &state.Objectives[i]
				if slot.Active && slot.Layer == ObjectiveLayerCover && !slot.Completed() && CoverKind(slot.ElementType) == p.Kind {
					slot.CurrentCount++
					touched[i] = true
				}
			}
		case EventGroundDestroyed:
			p := ev.Payload.(GroundDestroyedPayload)
			for i := range state.Objectives {
				slot := &state.Objectives[i]
				if slot.Active && slot.Layer == ObjectiveLayerGround && !slot.Completed() && GroundKind(slot.ElementType) == p.Kind {
					slot.CurrentCount++
					touched[i] = true
				}
			}
		}
	}

	for i := range state.Objectives {
		if touched[i] {
			slot := state.Objectives[i]
			if slot.CurrentCount > slot.TargetCount {
				slot.CurrentCount = slot.TargetCount
				state.Objectives[i] = slot
			}
			events.Emit(tick, simTime, EventObjectiveProgress, ObjectiveProgressPayload{
				Slot:         i,
				CurrentCount: state.Objectives[i].CurrentCount,
				TargetCount:  state.Objectives[i].TargetCount,
			})
		}
	}
}

// EvaluateStatus decides whether the level has been won or lost, and if
// so latches state.LevelStatus and emits LevelCompleted. It is a no-op if
// the level already reached a terminal status. movesRemaining should be
// computed by the caller from MoveLimit - MoveCount (0 if the level has
// no move limit).
func (ot *ObjectiveTracker) EvaluateStatus(state *GameState, events *EventCollector, movesRemaining int, tick uint64, simTime float64) {
	if state.LevelStatus != StatusInProgress {
		return
	}

	allDone := true
	anyActive := false
	for _, slot := range state.Objectives {
		if !slot.Active {
			continue
		}
		anyActive = true
		if !slot.Completed() {
			allDone = false
			break
		}
	}

	switch {
	case anyActive && allDone:
		state.LevelStatus = StatusVictory
		events.Emit(tick, simTime, EventLevelCompleted, LevelCompletedPayload{Status: StatusVictory})
	case state.MoveLimit > 0 && movesRemaining <= 0:
		state.LevelStatus = StatusDefeat
		events.Emit(tick, simTime, EventLevelCompleted, LevelCompletedPayload{Status: StatusDefeat})
	}
}

package simcore

// PendingMove tracks a committed swap waiting out its reveal animation
// before resolving or reverting (spec §4.6's `idle → committed →
// (resolving | reverting) → idle` FSM). AnimTime accumulates tick dt the
// same way the teacher's combat timers accumulate toward a threshold.
type PendingMove struct {
	Active   bool
	From, To Position
	HadMatch bool
	AnimTime float64
}

// SwapSystem validates and commits player swaps, and advances the
// PendingMove FSM once per tick.
type SwapSystem struct {
	cfg       EngineConfig
	finder    *MatchFinder
	activator *BombActivator
}

// NewSwapSystem constructs a swap system sharing the engine's finder and
// bomb activator, so foci-biased match detection and combo queuing stay
// consistent with the rest of the pipeline.
func NewSwapSystem(cfg EngineConfig, finder *MatchFinder, activator *BombActivator) *SwapSystem {
	return &SwapSystem{cfg: cfg, finder: finder, activator: activator}
}

// Apply validates and begins a swap between from and to. Returns false
// (and mutates nothing) on any user-input violation: out of bounds, not
// adjacent, blocked by cover, level already finished, or a move already
// pending.
func (ss *SwapSystem) Apply(state *GameState, events *EventCollector, tick uint64, simTime float64, from, to Position) bool {
	if state.LevelStatus != StatusInProgress {
		return false
	}
	if state.Pending.Active {
		return false
	}
	if !state.InBounds(from) || !state.InBounds(to) {
		return false
	}
	if !from.Adjacent(to) {
		return false
	}
	if !state.Swappable(from) || !state.Swappable(to) {
		return false
	}

	fromTile := state.TileAt(from)
	toTile := state.TileAt(to)
	if fromTile.Empty() || toTile.Empty() {
		return false
	}

	if fromTile.Bomb != BombNone || toTile.Bomb != BombNone {
		ss.swapCells(state, from, to)
		events.Emit(tick, simTime, EventTilesSwapped, TilesSwappedPayload{A: from, B: to, Kind: SwapCommitted})
		state.MoveCount++
		ss.activator.QueueCombo(from, to)
		return true
	}

	ss.swapCells(state, from, to)
	events.Emit(tick, simTime, EventTilesSwapped, TilesSwappedPayload{A: from, B: to, Kind: SwapCommitted})

	hadMatch := ss.hasFocusedMatch(state, from, to)

	state.Pending = PendingMove{Active: true, From: from, To: to, HadMatch: hadMatch, AnimTime: 0}
	return true
}

// hasFocusedMatch runs the match finder and reports whether any resulting
// component covers either focus cell.
func (ss *SwapSystem) hasFocusedMatch(state *GameState, from, to Position) bool {
	comps := ss.finder.Scan(state)
	for _, c := range comps {
		for _, p := range c.positions {
			if p == from || p == to {
				return true
			}
		}
	}
	return false
}

func (ss *SwapSystem) swapCells(state *GameState, from, to Position) {
	fi, ti := state.Idx(from), state.Idx(to)
	state.Tiles[fi], state.Tiles[ti] = state.Tiles[ti], state.Tiles[fi]
	state.Covers[fi], state.Covers[ti] = state.Covers[ti], state.Covers[fi]
	state.CoverHP[fi], state.CoverHP[ti] = state.CoverHP[ti], state.CoverHP[fi]
}

// Advance steps the PendingMove FSM by dt. Returns (true, from, to) if the
// move resolved into a match this call (the caller should proceed to
// chain resolution with foci={from,to}), or (false, _, _) otherwise
// (nothing pending, still animating, or just reverted).
func (ss *SwapSystem) Advance(state *GameState, events *EventCollector, tick uint64, simTime float64, dt float64) (bool, Position, Position) {
	if !state.Pending.Active {
		return false, Position{}, Position{}
	}
	state.Pending.AnimTime += dt
	if state.Pending.AnimTime < ss.cfg.SwapDuration {
		return false, Position{}, Position{}
	}

	from, to, hadMatch := state.Pending.From, state.Pending.To, state.Pending.HadMatch
	state.Pending = PendingMove{}

	if hadMatch {
		state.MoveCount++
		events.Emit(tick, simTime, EventMoveCompleted, MoveCompletedPayload{MoveCount: state.MoveCount})
		return true, from, to
	}

	ss.swapCells(state, from, to)
	events.Emit(tick, simTime, EventTilesSwapped, TilesSwappedPayload{A: from, B: to, Kind: SwapReverted})
	return false, Position{}, Position{}
}

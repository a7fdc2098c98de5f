package simcore

import "time"

// LevelConfig is the input to SimEngine initialization (spec §6). Flat
// arrays are row-major, length width*height, mirroring the board's own
// indexing convention.
type LevelConfig struct {
	Width, Height    int
	ColorCount       int
	MoveLimit        int
	TargetDifficulty float64
	MasterSeed       uint64

	Grid          []Color
	Bombs         []BombKind
	Covers        []CoverKind
	CoverHealths  []int
	Grounds       []GroundKind
	GroundHealths []int

	Objectives []ObjectiveSlot
}

// SimEngine is the single-threaded driver: owns GameState, the
// EventCollector, the tick counter and simTime, and runs the fixed
// pipeline order declared in spec §4.1. Grounded on the teacher's
// Engine.tick() method (lock, run sub-stages in fixed order, copy state,
// unlock), adapted to the synchronous, non-concurrent contract spec §5
// requires: no mutex, no goroutine, no ticker. tick(dt) is called
// directly by the host.
type SimEngine struct {
	cfg   EngineConfig
	state *GameState

	events *EventCollector
	pools  *Pools

	finder    *MatchFinder
	bombgen   *BombGenerator
	processor *MatchProcessor
	activator *BombActivator
	gravity   *GravitySystem
	refill    *RefillSystem
	objs      *ObjectiveTracker
	swaps     *SwapSystem

	collaborators Collaborators

	tick    uint64
	simTime float64

	// objsWatermark is the highest GameEvent.Sequence already handed to
	// ObjectiveTracker.Observe. Sequence numbers are monotonic for the
	// collector's lifetime regardless of how many times DrainEvents has
	// emptied the buffer in between (event.go never resets the counter),
	// so this lets evaluateObjectives see only events new since the last
	// tick even when a host ticks several times between drains.
	objsWatermark uint64
}

// NewSimEngine constructs an engine from a level configuration and the
// given collaborators (RNG is always seeded from the level's master seed;
// collaborators supply fill/spawn policy and logging).
func NewSimEngine(level LevelConfig, cfg EngineConfig, collaborators Collaborators) *SimEngine {
	state := NewGameState(level.Width, level.Height, level.ColorCount, level.MasterSeed)
	state.MoveLimit = level.MoveLimit
	state.TargetDiff = level.TargetDifficulty
	applyLevelLayout(state, level)

	pools := NewPools()
	finder := NewMatchFinder(pools)
	bombgen := NewBombGenerator()
	processor := NewMatchProcessor(cfg)
	activator := NewBombActivator()
	gravity := NewGravitySystem()
	refill := NewRefillSystem(collaborators.SpawnModel)
	objs := NewObjectiveTracker()
	swaps := NewSwapSystem(cfg, finder, activator)

	e := &SimEngine{
		cfg:           cfg,
		state:         state,
		events:        NewEventCollector(),
		pools:         pools,
		finder:        finder,
		bombgen:       bombgen,
		processor:     processor,
		activator:     activator,
		gravity:       gravity,
		refill:        refill,
		objs:          objs,
		swaps:         swaps,
		collaborators: collaborators,
	}

	if collaborators.FillGenerator != nil {
		collaborators.FillGenerator.Fill(state, finder, state.Seeds.Stream(DomainMain))
	}

	return e
}

func applyLevelLayout(state *GameState, level LevelConfig) {
	n := level.Width * level.Height
	for i := 0; i < n && i < len(level.Grid); i++ {
		color := level.Grid[i]
		bomb := BombNone
		if i < len(level.Bombs) {
			bomb = level.Bombs[i]
		}
		if color == ColorNone && bomb == BombNone {
			continue
		}
		state.Tiles[i] = Tile{ID: state.AllocateTileID(), Color: color, Bomb: bomb}
	}
	for i := 0; i < n && i < len(level.Covers); i++ {
		kind := level.Covers[i]
		if kind == CoverNone {
			continue
		}
		hp := 1
		if i < len(level.CoverHealths) {
			hp = level.CoverHealths[i]
		}
		state.Covers[i] = Cover{Kind: kind}
		state.CoverHP[i] = hp
	}
	for i := 0; i < n && i < len(level.Grounds); i++ {
		kind := level.Grounds[i]
		if kind == GroundNone {
			continue
		}
		hp := DefaultGroundHP(kind)
		if i < len(level.GroundHealths) && level.GroundHealths[i] > 0 {
			hp = level.GroundHealths[i]
		}
		state.Grounds[i] = Ground{Kind: kind, HP: hp}
	}

	for i, slot := range level.Objectives {
		if i >= ObjectiveSlotCount {
			break
		}
		slot.Active = true
		state.Objectives[i] = slot
	}
}

// ApplyMove validates and begins a player swap, per spec §6's
// `applyMove(from, to) -> bool`.
func (e *SimEngine) ApplyMove(from, to Position) bool {
	return e.swaps.Apply(e.state, e.events, e.tick, e.simTime, from, to)
}

// HandleTap processes a tap on a bomb tile, directly queuing its
// activation. Taps on non-bomb tiles are a no-op (the spec names tap only
// for bomb activation).
func (e *SimEngine) HandleTap(pos Position) {
	if e.state.LevelStatus != StatusInProgress {
		return
	}
	t := e.state.TileAt(pos)
	if t.Empty() || t.Bomb == BombNone {
		return
	}
	e.activator.QueueSingle(pos)
}

// Tick advances the engine by dt seconds, running the fixed pipeline
// order of spec §4.1.
func (e *SimEngine) Tick(dt float64) {
	start := time.Now()
	eventsBefore := e.events.Len()
	defer func() {
		RecordTick(time.Since(start))
		RecordActiveBombs(countActiveBombs(e.state))
		RecordEventsEmitted(e.events.Len() - eventsBefore)
	}()

	if e.state.LevelStatus != StatusInProgress {
		e.tick++
		e.simTime += dt
		return
	}

	resolved, from, to := e.swaps.Advance(e.state, e.events, e.tick, e.simTime, dt)
	switch {
	case resolved:
		e.resolveChains(0, []Position{from, to})
	case e.activator.HasPending():
		e.resolveChains(0, nil)
	}

	e.evaluateObjectives()

	e.tick++
	e.simTime += dt
}

// resolveChains runs resolution cycles until the board is stable,
// following spec §4.1 step 2: scan, process, activate, gravity+refill,
// repeat. cascadeDepth increments once per resolution cycle, feeding the
// score formula's cascade multiplier.
func (e *SimEngine) resolveChains(cascadeDepth int, foci []Position) {
	for {
		comps := e.finder.Scan(e.state)
		if len(comps) == 0 && !e.activator.HasPending() {
			RecordCascadeDepth(cascadeDepth)
			break
		}

		if len(comps) > 0 {
			var groups []MatchGroup
			for _, c := range comps {
				groups = append(groups, e.bombgen.Partition(c, foci)...)
			}
			foci = nil // only the first cycle after a swap carries a focus
			result := e.processor.Process(e.state, e.events, e.tick, e.simTime, groups, cascadeDepth)
			for _, p := range result.TriggeredBombs {
				e.activator.QueueSingle(p)
			}
		}

		e.activator.Run(e.state, e.events, e.cfg, e.state.Seeds.Stream(DomainBomb), e.tick, e.simTime, cascadeDepth)

		for e.gravity.Apply(e.state, e.events, e.tick, e.simTime) {
		}
		for e.refill.Apply(e.state, e.events, e.state.Seeds.Stream(DomainRefill), e.tick, e.simTime) {
		}

		e.clearFalling()

		cascadeDepth++
	}
}

// clearFalling marks every tile settled at the end of a resolution cycle,
// matching spec §4.4's headless fallback ("or, in headless operation, at
// the end of the resolution cycle").
func (e *SimEngine) clearFalling() {
	for i := range e.state.Tiles {
		e.state.Tiles[i].IsFalling = false
	}
}

func (e *SimEngine) evaluateObjectives() {
	// batch is only the events emitted since the last watermark (never
	// the whole undrained buffer), so a host that calls Tick several
	// times between DrainEvents calls never re-counts a destruction
	// already applied to an objective slot. Observe only reads it, so
	// later Emit calls (which may grow/reallocate the collector's
	// buffer) cannot invalidate the slice header captured here.
	buffer := e.events.buffer
	start := 0
	for start < len(buffer) && buffer[start].Sequence <= e.objsWatermark {
		start++
	}
	batch := buffer[start:]
	if len(batch) > 0 {
		e.objsWatermark = batch[len(batch)-1].Sequence
	}
	e.objs.Observe(e.state, e.events, batch, e.tick, e.simTime)
	movesRemaining := 0
	if e.state.MoveLimit > 0 {
		movesRemaining = e.state.MoveLimit - e.state.MoveCount
	}
	e.objs.EvaluateStatus(e.state, e.events, movesRemaining, e.tick, e.simTime)
}

// DrainEvents returns all buffered events and empties the buffer.
func (e *SimEngine) DrainEvents() []GameEvent {
	return e.events.Drain()
}

// IsStable reports whether the engine has nothing left to animate or
// resolve: no pending swap, no queued bomb activation, no falling tile,
// and the match finder reports nothing to destroy.
func (e *SimEngine) IsStable() bool {
	if e.state.Pending.Active || e.activator.HasPending() {
		return false
	}
	for _, t := range e.state.Tiles {
		if t.IsFalling {
			return false
		}
	}
	return len(e.finder.Scan(e.state)) == 0
}

// State returns a read-only view of the game state for renderers/AIs.
func (e *SimEngine) State() *GameState {
	return e.state
}

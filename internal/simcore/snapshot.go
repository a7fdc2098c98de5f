package simcore

// GameStateSnapshot is a flattened, self-contained copy of a GameState
// suitable for persistence or for handing to a renderer without aliasing
// the engine's live arrays. Grounded on the teacher's game_snapshot.go
// SnapshotPool, simplified to one freshly allocated snapshot per call:
// there is no concurrent renderer goroutine inside the core to hand a
// buffer off to (spec §5), so the triple-buffering the teacher needs for a
// render-thread/sim-thread split has no job to do here.
type GameStateSnapshot struct {
	Width, Height int
	ColorCount    int

	Tiles   []Tile
	Grounds []Ground
	Covers  []Cover
	CoverHP []int

	Score       int
	MoveCount   int
	MoveLimit   int
	NextTileID  uint64
	TargetDiff  float64
	LevelStatus LevelStatus

	Objectives [ObjectiveSlotCount]ObjectiveSlot

	SeedState SeedManagerState

	Tick    uint64
	SimTime float64
}

// Snapshot captures the engine's current state into a GameStateSnapshot.
// The returned value owns its own backing arrays; mutating it afterwards
// never affects the live engine.
func (e *SimEngine) Snapshot() GameStateSnapshot {
	s := e.state
	snap := GameStateSnapshot{
		Width:       s.Width,
		Height:      s.Height,
		ColorCount:  s.ColorCount,
		Tiles:       append([]Tile(nil), s.Tiles...),
		Grounds:     append([]Ground(nil), s.Grounds...),
		Covers:      append([]Cover(nil), s.Covers...),
		CoverHP:     append([]int(nil), s.CoverHP...),
		Score:       s.Score,
		MoveCount:   s.MoveCount,
		MoveLimit:   s.MoveLimit,
		NextTileID:  s.NextTileID,
		TargetDiff:  s.TargetDiff,
		LevelStatus: s.LevelStatus,
		Objectives:  s.Objectives,
		SeedState:   s.Seeds.CaptureState(),
		Tick:        e.tick,
		SimTime:     e.simTime,
	}
	return snap
}

// Restore rebuilds a SimEngine from a snapshot and the collaborators to
// run it with. The master seed is recovered from the snapshot's captured
// RNG state, so a restored engine continues the exact same RNG streams
// the snapshot was taken from (spec §6: `restore(snapshot, masterSeed) ->
// SimEngine`).
func Restore(snap GameStateSnapshot, cfg EngineConfig, collaborators Collaborators) *SimEngine {
	state := &GameState{
		Width:       snap.Width,
		Height:      snap.Height,
		ColorCount:  snap.ColorCount,
		Tiles:       append([]Tile(nil), snap.Tiles...),
		Grounds:     append([]Ground(nil), snap.Grounds...),
		Covers:      append([]Cover(nil), snap.Covers...),
		CoverHP:     append([]int(nil), snap.CoverHP...),
		Score:       snap.Score,
		MoveCount:   snap.MoveCount,
		MoveLimit:   snap.MoveLimit,
		NextTileID:  snap.NextTileID,
		TargetDiff:  snap.TargetDiff,
		LevelStatus: snap.LevelStatus,
		Objectives:  snap.Objectives,
		Seeds:       RestoreState(snap.SeedState),
	}

	pools := NewPools()
	finder := NewMatchFinder(pools)
	bombgen := NewBombGenerator()
	processor := NewMatchProcessor(cfg)
	activator := NewBombActivator()
	gravity := NewGravitySystem()
	refill := NewRefillSystem(collaborators.SpawnModel)
	objs := NewObjectiveTracker()
	swaps := NewSwapSystem(cfg, finder, activator)

	return &SimEngine{
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
		tick:          snap.Tick,
		simTime:       snap.SimTime,
	}
}

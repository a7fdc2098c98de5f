package simcore

// RefillSystem spawns fresh tiles at the top of any column with empty
// cells above its settled tiles, after gravity has compacted the board
// (spec §4.4). It draws from DomainRefill so refill randomness never
// perturbs the main or bomb domains' call sequences.
type RefillSystem struct {
	model SpawnModel
}

// NewRefillSystem constructs a refill system using model for color choice.
func NewRefillSystem(model SpawnModel) *RefillSystem {
	return &RefillSystem{model: model}
}

// Apply spawns one tile into every empty cell that carries no
// gravity-blocking cover, column by column, bottom to top, so a column
// never ends up with a gap beneath a freshly spawned tile. Empty cells
// below such a cover are filled as well. Returns true if anything spawned.
func (rs *RefillSystem) Apply(state *GameState, events *EventCollector, rng *PRNG, tick uint64, simTime float64) bool {
	spawned := false
	for x := 0; x < state.Width; x++ {
		for y := state.Height - 1; y >= 0; y-- {
			p := Position{X: x, Y: y}
			if !state.TileAt(p).Empty() {
				continue
			}
			if !state.MovableUnderGravity(p) {
				// A static cover occupies this empty cell; nothing spawns
				// here and nothing above it can fall through regardless.
				continue
			}
			color := rs.model.ChooseColor(state, x, rng)
			tile := Tile{ID: state.AllocateTileID(), Color: color, IsFalling: true}
			state.SetTile(p, tile)
			events.Emit(tick, simTime, EventTileSpawned, TileSpawnedPayload{TileID: tile.ID, Pos: p, Color: color, Bomb: BombNone, FromAbove: y + 1})
			spawned = true
		}
	}
	return spawned
}

package simcore

// GravitySystem compacts each column downward after destruction, carrying
// dynamic covers along with their tiles (spec §4.4).
type GravitySystem struct{}

// NewGravitySystem constructs a gravity system. It holds no state.
func NewGravitySystem() *GravitySystem {
	return &GravitySystem{}
}

// Apply walks every column bottom-up, sliding each movable tile down into
// the nearest empty cell beneath it. A tile blocked by a gravity-blocking
// cover (or resting on one) stops the column above it from settling past
// that point, per spec §4.5. Returns true if anything moved.
func (gs *GravitySystem) Apply(state *GameState, events *EventCollector, tick uint64, simTime float64) bool {
	moved := false
	for x := 0; x < state.Width; x++ {
		writeY := state.Height - 1
		for readY := state.Height - 1; readY >= 0; readY-- {
			from := Position{X: x, Y: readY}
			if !state.MovableUnderGravity(from) {
				// A gravity-blocking cover anchors this cell, whether or
				// not it currently holds a tile; nothing can pass through
				// this row, so the write cursor resets below it.
				writeY = readY - 1
				continue
			}
			if state.TileAt(from).Empty() {
				continue
			}
			to := Position{X: x, Y: writeY}
			if to != from {
				tile := state.TileAt(from)
				state.ClearTile(from)
				tile.IsFalling = true
				state.SetTile(to, tile)
				state.TransplantCover(from, to)
				events.Emit(tick, simTime, EventTileMoved, TileMovedPayload{TileID: tile.ID, From: from, To: to})
				moved = true
			}
			writeY--
		}
	}
	return moved
}

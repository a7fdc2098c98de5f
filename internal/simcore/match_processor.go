package simcore

// MatchProcessor consumes match groups from the BombGenerator: it destroys
// tiles, damages covers/ground, applies score, and spawns bombs at group
// anchors (spec §4.3).
type MatchProcessor struct {
	cfg EngineConfig
}

// NewMatchProcessor constructs a processor bound to the given tuning
// config.
func NewMatchProcessor(cfg EngineConfig) *MatchProcessor {
	return &MatchProcessor{cfg: cfg}
}

// ProcessResult reports what a Process call discovered so BombActivator can
// queue any bombs caught directly in the match.
type ProcessResult struct {
	TriggeredBombs []Position // pre-existing bomb tiles caught in this match, to activate
}

// Process destroys the cells named by groups, emitting events in
// scanline order within each group, applying score, and spawning bombs at
// anchors. cascadeDepth is the current resolution cycle's chain depth,
// used by the score formula.
func (mp *MatchProcessor) Process(state *GameState, events *EventCollector, tick uint64, simTime float64, groups []MatchGroup, cascadeDepth int) ProcessResult {
	var result ProcessResult

	for _, g := range groups {
		positions := append([]Position(nil), g.Positions...)
		sortScanline(positions)

		events.Emit(tick, simTime, EventMatchDetected, MatchDetectedPayload{
			Positions: positions,
			Color:     g.Color,
			Shape:     g.Shape,
		})

		destroyedCount := 0
		for _, p := range positions {
			idx := state.Idx(p)
			t := state.Tiles[idx]
			if t.Empty() {
				continue
			}

			if t.Bomb != BombNone {
				// A pre-existing bomb caught in the match (it still
				// carries a color, per invariant 2, so it matches like an
				// ordinary tile): it is destroyed by activating rather
				// than by plain removal. The anchor cell of this very
				// group cannot hold a bomb yet since the new bomb tile is
				// only placed after this loop completes.
				result.TriggeredBombs = append(result.TriggeredBombs, p)
				continue
			}

			cov := state.Covers[idx]
			if cov.Present() && cov.BlocksMatch() {
				if state.DamageCover(p) {
					events.Emit(tick, simTime, EventCoverDestroyed, CoverDestroyedPayload{Pos: p, Kind: cov.Kind})
				}
				continue
			}

			state.ClearTile(p)
			destroyedCount++
			events.Emit(tick, simTime, EventTileDestroyed, TileDestroyedPayload{
				TileID: int(t.ID),
				Pos:    p,
				Color:  t.Color,
				Reason: ReasonMatch,
			})
			if state.DamageGround(p) {
				events.Emit(tick, simTime, EventGroundDestroyed, GroundDestroyedPayload{Pos: p, Kind: state.Grounds[idx].Kind})
			}
		}

		if destroyedCount > 0 {
			amount := mp.cfg.MatchScore(destroyedCount, cascadeDepth)
			state.Score += amount
			events.Emit(tick, simTime, EventScoreAdded, ScoreAddedPayload{Amount: amount, Total: state.Score})
		}

		if g.SpawnBombKind != BombNone {
			anchorIdx := state.Idx(g.Anchor)
			color := g.Color
			if g.SpawnBombKind == BombColor {
				color = ColorNone
			}
			tile := Tile{
				ID:    state.AllocateTileID(),
				Color: color,
				Bomb:  g.SpawnBombKind,
			}
			state.Tiles[anchorIdx] = tile
			events.Emit(tick, simTime, EventBombCreated, BombCreatedPayload{Pos: g.Anchor, Kind: g.SpawnBombKind})
		}
	}

	return result
}

// sortScanline orders positions in row-major (scanline) order, the tie
// break spec §4.7 requires for events emitted within a single logical
// step.
func sortScanline(positions []Position) {
	// Insertion sort: groups are small (bounded by board size), and this
	// keeps the dependency surface to stdlib slices only.
	for i := 1; i < len(positions); i++ {
		j := i
		for j > 0 && scanlineLess(positions[j], positions[j-1]) {
			positions[j], positions[j-1] = positions[j-1], positions[j]
			j--
		}
	}
}

func scanlineLess(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

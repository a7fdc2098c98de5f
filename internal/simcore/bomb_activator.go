package simcore

// bombSide describes one endpoint of an activation: either a bomb tile
// (Kind != BombNone) or, for the color-bomb-plus-colored-tile combo, a
// plain colored tile (Kind == BombNone).
type bombSide struct {
	Pos   Position
	Kind  BombKind
	Color Color
}

// actRequest is one entry in the BombActivator's FIFO queue.
type actRequest struct {
	a       bombSide
	isCombo bool
	b       bombSide
}

// BombActivator expands bomb effects, enforcing the at-most-once-per-
// instance invariant and FIFO chain ordering (spec §4.3). Re-expressed as
// a tagged-kind switch plus a 2-bomb lookup, rather than an IBombEffect
// class hierarchy (spec §9).
type BombActivator struct {
	activated map[uint64]bool
	queue     []actRequest
}

// NewBombActivator constructs an empty activator. activated tracks every
// tile id that has triggered, for the session's lifetime, enforcing
// "at most once per bomb instance per session" even across ticks.
func NewBombActivator() *BombActivator {
	return &BombActivator{activated: make(map[uint64]bool)}
}

// QueueSingle enqueues a bomb at pos for activation (directly matched,
// tapped, or caught in another bomb's victim set).
func (ba *BombActivator) QueueSingle(pos Position) {
	ba.queue = append(ba.queue, actRequest{a: bombSide{Pos: pos}})
}

// QueueCombo enqueues the two-bomb (or bomb-plus-tile) combo fast path
// used when a swap directly exchanges two cells where at least one holds
// a bomb (spec §4.6).
func (ba *BombActivator) QueueCombo(a, b Position) {
	ba.queue = append(ba.queue, actRequest{a: bombSide{Pos: a}, isCombo: true, b: bombSide{Pos: b}})
}

// HasPending reports whether any activation is queued.
func (ba *BombActivator) HasPending() bool {
	return len(ba.queue) > 0
}

// Run drains the activation queue to completion, processing chain
// reactions in FIFO order. cascadeDepth feeds the score formula for tiles
// destroyed by bomb effects.
func (ba *BombActivator) Run(state *GameState, events *EventCollector, cfg EngineConfig, rng *PRNG, tick uint64, simTime float64, cascadeDepth int) {
	for len(ba.queue) > 0 {
		req := ba.queue[0]
		ba.queue = ba.queue[1:]

		if req.isCombo && state.TileAt(req.a.Pos).Bomb == BombNone && state.TileAt(req.b.Pos).Bomb != BombNone {
			// The swap that queued this combo may have left the bomb
			// sitting at either endpoint (swapCells runs before
			// QueueCombo); normalize so side A is the bomb the same way
			// comboVictims does, or the guard below would wrongly treat
			// a bomb-at-B combo as a no-op activation.
			req.a, req.b = req.b, req.a
		}

		tile := state.TileAt(req.a.Pos)
		if tile.Empty() || tile.Bomb == BombNone || ba.activated[tile.ID] {
			continue
		}
		ba.activated[tile.ID] = true

		var victims []Position
		if req.isCombo {
			tileB := state.TileAt(req.b.Pos)
			sideA := bombSide{Pos: req.a.Pos, Kind: tile.Bomb, Color: tile.Color}
			sideB := bombSide{Pos: req.b.Pos, Kind: tileB.Bomb, Color: tileB.Color}
			if tileB.Bomb != BombNone {
				ba.activated[tileB.ID] = true
			}
			victims = comboVictims(cfg, state, rng, sideA, sideB)
			events.Emit(tick, simTime, EventBombCombo, BombComboPayload{A: req.a.Pos, B: req.b.Pos, KindA: tile.Bomb, KindB: tileB.Bomb})
		} else {
			victims = singleVictims(cfg, state, rng, tile.Bomb, req.a.Pos, ColorNone)
		}

		sortScanline(victims)
		events.Emit(tick, simTime, EventBombActivated, BombActivatedPayload{Pos: req.a.Pos, Kind: tile.Bomb, Victims: victims})

		destroyedCount := 0
		for _, v := range victims {
			idx := state.Idx(v)
			vt := state.Tiles[idx]
			if vt.Empty() {
				continue
			}
			if vt.Bomb != BombNone && !ba.activated[vt.ID] {
				ba.QueueSingle(v)
				continue
			}
			cov := state.Covers[idx]
			if cov.Present() && cov.BlocksMatch() {
				if state.DamageCover(v) {
					events.Emit(tick, simTime, EventCoverDestroyed, CoverDestroyedPayload{Pos: v, Kind: cov.Kind})
				}
				continue
			}
			state.ClearTile(v)
			destroyedCount++
			events.Emit(tick, simTime, EventTileDestroyed, TileDestroyedPayload{TileID: int(vt.ID), Pos: v, Color: vt.Color, Reason: ReasonBomb})
			if state.DamageGround(v) {
				events.Emit(tick, simTime, EventGroundDestroyed, GroundDestroyedPayload{Pos: v, Kind: state.Grounds[idx].Kind})
			}
		}

		if destroyedCount > 0 {
			amount := cfg.MatchScore(destroyedCount, cascadeDepth)
			state.Score += amount
			events.Emit(tick, simTime, EventScoreAdded, ScoreAddedPayload{Amount: amount, Total: state.Score})
		}
	}
}

// singleVictims computes the effect set for one bomb activating alone,
// per the left column of spec §4.3's effect table. colorOverride, when
// not ColorNone, supplies the target color for a lone color-bomb; absent
// an override it falls back to the most-common-color resolution of spec
// §9. Every caller in this package passes ColorNone, so a lone color-bomb
// (matched, tapped or chained) always targets the most common color.
func singleVictims(cfg EngineConfig, state *GameState, rng *PRNG, kind BombKind, origin Position, colorOverride Color) []Position {
	switch kind {
	case BombHorizontalRocket:
		return fullRow(state, origin.Y)
	case BombVerticalRocket:
		return fullColumn(state, origin.X)
	case BombArea:
		return squareAround(state, origin, cfg.AreaBombRadius)
	case BombUFO:
		cross := ufoCross(state, origin)
		extra := ufoRandomTarget(state, rng, cross)
		return appendUnique(cross, extra...)
	case BombColor:
		target := colorOverride
		if target == ColorNone {
			target = state.MostCommonColor()
		}
		return appendUnique(colorVictims(state, target), origin)
	default:
		return nil
	}
}

// comboVictims computes the effect set when two bomb-carrying swap
// endpoints trigger together, per the right-hand rows of spec §4.3's
// effect table. This is the 2-bomb lookup table spec §9 calls for, in
// place of polymorphic combo dispatch.
func comboVictims(cfg EngineConfig, state *GameState, rng *PRNG, a, b bombSide) []Position {
	if a.Kind == BombNone {
		a, b = b, a
	}

	switch {
	case b.Kind == BombNone:
		// Color-bomb + colored tile, or any bomb swapped with a plain tile
		// (only reachable here for color-bomb per spec; other bomb kinds
		// do not define a "+plain tile" row and fall back to their lone
		// effect, which still clears the board around the swap).
		if a.Kind == BombColor {
			return appendUnique(colorVictims(state, b.Color), a.Pos, b.Pos)
		}
		return singleVictims(cfg, state, rng, a.Kind, a.Pos, ColorNone)

	case a.Kind == BombUFO || b.Kind == BombUFO:
		ufo, other := a, b
		if b.Kind == BombUFO {
			ufo, other = b, a
		}
		base := singleVictims(cfg, state, rng, other.Kind, other.Pos, ColorNone)
		cross := ufoCross(state, ufo.Pos)
		merged := appendUnique(base, cross...)
		extra := ufoRandomTarget(state, rng, merged)
		return appendUnique(merged, extra...)

	case a.Kind == BombColor && b.Kind == BombColor:
		return entireBoard(state)

	case isRocket(a.Kind) && isRocket(b.Kind):
		return appendUnique(fullLine(state, a), fullLine(state, b)...)

	case (a.Kind == BombArea && isRocket(b.Kind)) || (b.Kind == BombArea && isRocket(a.Kind)):
		area, rocket := a, b
		if b.Kind == BombArea {
			area, rocket = b, a
		}
		return band(state, cfg.AreaBombRadius, area.Pos, rocket.Kind)

	case a.Kind == BombArea && b.Kind == BombArea:
		mid := midpoint(a.Pos, b.Pos)
		return squareAround(state, mid, 2)

	default:
		return appendUnique(singleVictims(cfg, state, rng, a.Kind, a.Pos, ColorNone), singleVictims(cfg, state, rng, b.Kind, b.Pos, ColorNone)...)
	}
}

func isRocket(k BombKind) bool {
	return k == BombHorizontalRocket || k == BombVerticalRocket
}

func fullLine(state *GameState, side bombSide) []Position {
	if side.Kind == BombHorizontalRocket {
		return fullRow(state, side.Pos.Y)
	}
	return fullColumn(state, side.Pos.X)
}

func fullRow(state *GameState, y int) []Position {
	out := make([]Position, 0, state.Width)
	for x := 0; x < state.Width; x++ {
		out = append(out, Position{X: x, Y: y})
	}
	return out
}

func fullColumn(state *GameState, x int) []Position {
	out := make([]Position, 0, state.Height)
	for y := 0; y < state.Height; y++ {
		out = append(out, Position{X: x, Y: y})
	}
	return out
}

func squareAround(state *GameState, center Position, radius int) []Position {
	var out []Position
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			p := Position{X: x, Y: y}
			if state.InBounds(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// band returns a 3-wide row band (if rocketKind is horizontal) or 3-tall
// column band (if vertical), radius cells either side of center, per the
// area+rocket combo row.
func band(state *GameState, radius int, center Position, rocketKind BombKind) []Position {
	var out []Position
	if rocketKind == BombHorizontalRocket {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			if y < 0 || y >= state.Height {
				continue
			}
			out = append(out, fullRow(state, y)...)
		}
	} else {
		for x := center.X - radius; x <= center.X+radius; x++ {
			if x < 0 || x >= state.Width {
				continue
			}
			out = append(out, fullColumn(state, x)...)
		}
	}
	return out
}

func ufoCross(state *GameState, origin Position) []Position {
	offsets := []Position{{0, 0}, {0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	out := make([]Position, 0, 5)
	for _, off := range offsets {
		p := Position{X: origin.X + off.X, Y: origin.Y + off.Y}
		if state.InBounds(p) {
			out = append(out, p)
		}
	}
	return out
}

// ufoRandomTarget picks one additional non-empty, non-excluded cell
// uniformly at random. Returns nil (no-op) if no eligible cell remains,
// per spec §9's resolution of the single-remaining-cell edge case.
func ufoRandomTarget(state *GameState, rng *PRNG, excluded []Position) []Position {
	excludedSet := make(map[Position]bool, len(excluded))
	for _, p := range excluded {
		excludedSet[p] = true
	}
	var candidates []Position
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			p := Position{X: x, Y: y}
			if excludedSet[p] {
				continue
			}
			if !state.TileAt(p).Empty() {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return []Position{candidates[rng.Next(len(candidates))]}
}

func colorVictims(state *GameState, color Color) []Position {
	var out []Position
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			p := Position{X: x, Y: y}
			t := state.TileAt(p)
			if !t.Empty() && !IsColorBomb(t) && t.Color == color {
				out = append(out, p)
			}
		}
	}
	return out
}

func entireBoard(state *GameState) []Position {
	out := make([]Position, 0, state.Width*state.Height)
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			p := Position{X: x, Y: y}
			if !state.TileAt(p).Empty() {
				out = append(out, p)
			}
		}
	}
	return out
}

func midpoint(a, b Position) Position {
	return Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func appendUnique(base []Position, extra ...Position) []Position {
	seen := make(map[Position]bool, len(base)+len(extra))
	out := make([]Position, 0, len(base)+len(extra))
	for _, p := range base {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range extra {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

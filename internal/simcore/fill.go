package simcore

// SpawnModel chooses the color for a newly spawned tile. The default
// implementation biases away from colors already present in the column to
// avoid runaway monochromatic columns (spec §9); a level or AI difficulty
// setting may substitute a different model via the engine's collaborator
// hooks (spec §6).
type SpawnModel interface {
	ChooseColor(state *GameState, column int, rng *PRNG) Color
}

// WeightedSpawnModel is the default SpawnModel: each color starts with
// equal weight, then any color already present anywhere in the column has
// its weight reduced by cfg.RefillMonochromeGuard (floored at 0.05),
// mirroring the
// weighted-choice bias a column-local RNG stream uses to avoid an
// unbroken run of one color.
type WeightedSpawnModel struct {
	cfg EngineConfig
}

// NewWeightedSpawnModel constructs the default spawn model.
func NewWeightedSpawnModel(cfg EngineConfig) *WeightedSpawnModel {
	return &WeightedSpawnModel{cfg: cfg}
}

// ChooseColor picks a color for the given column, weighting down every
// color that appears at least once among the column's existing tiles.
func (m *WeightedSpawnModel) ChooseColor(state *GameState, column int, rng *PRNG) Color {
	counts := make([]int, state.ColorCount)
	for y := 0; y < state.Height; y++ {
		t := state.TileAt(Position{X: column, Y: y})
		if t.Empty() || IsColorBomb(t) {
			continue
		}
		if int(t.Color) < state.ColorCount {
			counts[t.Color]++
		}
	}

	weights := make([]float64, state.ColorCount)
	total := 0.0
	for c := 0; c < state.ColorCount; c++ {
		w := 1.0
		if counts[c] > 0 {
			w -= m.cfg.RefillMonochromeGuard
			if w < 0.05 {
				w = 0.05
			}
		}
		weights[c] = w
		total += w
	}

	target := rng.NextFloat() * total
	acc := 0.0
	for c := 0; c < state.ColorCount; c++ {
		acc += weights[c]
		if target < acc {
			return Color(c)
		}
	}
	return Color(state.ColorCount - 1)
}

// NonMatchingTileGenerator supplies the initial board fill, guaranteeing no
// pre-formed match exists at level start (spec §6 collaborator hook).
type NonMatchingTileGenerator interface {
	Fill(state *GameState, finder *MatchFinder, rng *PRNG)
}

// DefaultFillGenerator fills every empty cell with a spawn-model color,
// re-rolling a cell whenever the running board would already contain a
// 3-run through it. Grounded on the same weighted-retry approach as
// WeightedSpawnModel; bounded retries avoid pathological levels where
// ColorCount is too small to avoid a match (spec open question).
type DefaultFillGenerator struct {
	model      SpawnModel
	maxRetries int
}

// NewDefaultFillGenerator constructs a fill generator using model for color
// selection.
func NewDefaultFillGenerator(model SpawnModel) *DefaultFillGenerator {
	return &DefaultFillGenerator{model: model, maxRetries: 20}
}

// Fill populates every empty cell of state, left to right, top to bottom,
// re-rolling a cell (up to maxRetries times) while it completes a run of
// 3+ with the tiles to its left or above. If every attempt forms a run,
// the last roll stays; tiles already placed to the right or below are not
// checked.
func (g *DefaultFillGenerator) Fill(state *GameState, finder *MatchFinder, rng *PRNG) {
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			p := Position{X: x, Y: y}
			if !state.TileAt(p).Empty() {
				continue
			}
			for attempt := 0; attempt < g.maxRetries; attempt++ {
				color := g.model.ChooseColor(state, x, rng)
				state.SetTile(p, Tile{ID: state.AllocateTileID(), Color: color})
				if !formsRunThrough(state, p) {
					break
				}
			}
		}
	}
}

// formsRunThrough reports whether the tile at p completes a horizontal or
// vertical run of 3+ same-colored tiles ending at p (only looking left and
// up, since cells to the right/below are not yet filled during a left-to-
// right, top-to-bottom pass).
func formsRunThrough(state *GameState, p Position) bool {
	color := state.TileAt(p).Color
	run := 1
	for x := p.X - 1; x >= 0; x-- {
		q := Position{X: x, Y: p.Y}
		if state.TileAt(q).Empty() || state.TileAt(q).Color != color {
			break
		}
		run++
	}
	if run >= 3 {
		return true
	}
	run = 1
	for y := p.Y - 1; y >= 0; y-- {
		q := Position{X: p.X, Y: y}
		if state.TileAt(q).Empty() || state.TileAt(q).Color != color {
			break
		}
		run++
	}
	return run >= 3
}

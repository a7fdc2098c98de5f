package simcore

import "sort"

// ShapeKind classifies the sub-shape a BombGenerator carved out of a
// component, per the shape→bomb table in spec §4.2.
type ShapeKind int

const (
	ShapeScrap ShapeKind = iota
	ShapeStraight3
	ShapeStraight4H
	ShapeStraight4V
	ShapeStraight5
	ShapeSquare2x2
	ShapeLShapeOf5
)

// shapeBomb maps a shape to the bomb kind it spawns (spec §4.2 table 1).
func shapeBomb(shape ShapeKind) BombKind {
	switch shape {
	case ShapeStraight4H:
		return BombVerticalRocket
	case ShapeStraight4V:
		return BombHorizontalRocket
	case ShapeLShapeOf5:
		return BombArea
	case ShapeStraight5:
		return BombColor
	case ShapeSquare2x2:
		return BombUFO
	default:
		return BombNone
	}
}

// shapeScore ranks shapes for partition selection: color-bomb > area >
// rocket/UFO > none (spec §4.2 rule 4).
func shapeScore(shape ShapeKind) int {
	switch shape {
	case ShapeStraight5:
		return 5
	case ShapeLShapeOf5:
		return 4
	case ShapeStraight4H, ShapeStraight4V, ShapeSquare2x2:
		return 3
	case ShapeStraight3:
		return 1
	default:
		return 0
	}
}

// MatchGroup is a partitioned subset of a component with an assigned
// shape, anchor, and optional bomb to spawn.
type MatchGroup struct {
	Positions     []Position
	Color         Color
	Shape         ShapeKind
	Anchor        Position
	SpawnBombKind BombKind
}

// candidateShape is a shape found within a component before partition
// selection; candidates may overlap each other.
type candidateShape struct {
	cells     []Position
	shape     ShapeKind
	hasFocus  bool
	anchorKey Position // deterministic tiebreak key: lexicographically centermost cell
}

// BombGenerator partitions a single connected component into one or more
// match groups following the global-optimal partitioning policy of spec
// §4.2. Large components (beyond ~12 cells) use the same candidate-and-
// greedy-select search as small ones; spec §9 documents this tier as
// heuristic in the source, which this bounded greedy search reproduces.
type BombGenerator struct{}

// NewBombGenerator constructs a generator. It holds no state: every call is
// a pure function of its component and foci.
func NewBombGenerator() *BombGenerator {
	return &BombGenerator{}
}

// Partition carves comp into match groups. foci are the swap endpoints (or
// tap position) that bias anchor placement and partition tie-breaking;
// pass nil for a cascade match with no focus.
func (bg *BombGenerator) Partition(comp component, foci []Position) []MatchGroup {
	focusSet := make(map[Position]bool, len(foci))
	for _, f := range foci {
		focusSet[f] = true
	}

	cellSet := make(map[Position]bool, len(comp.positions))
	for _, p := range comp.positions {
		cellSet[p] = true
	}

	candidates := findCandidates(comp.positions, cellSet)
	for i := range candidates {
		for _, c := range candidates[i].cells {
			if focusSet[c] {
				candidates[i].hasFocus = true
				break
			}
		}
	}

	// Sort by score desc, then focus-containing first, then a fully
	// deterministic tiebreak on the anchor key so ties never depend on
	// map/slice iteration order.
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := shapeScore(candidates[i].shape), shapeScore(candidates[j].shape)
		if si != sj {
			return si > sj
		}
		if candidates[i].hasFocus != candidates[j].hasFocus {
			return candidates[i].hasFocus
		}
		ai, aj := candidates[i].anchorKey, candidates[j].anchorKey
		if ai.Y != aj.Y {
			return ai.Y < aj.Y
		}
		return ai.X < aj.X
	})

	covered := make(map[Position]bool, len(comp.positions))
	var groups []MatchGroup
	for _, cand := range candidates {
		if shapeOverlaps(cand.cells, covered) {
			continue
		}
		for _, c := range cand.cells {
			covered[c] = true
		}
		anchor := chooseAnchor(cand.cells, focusSet)
		groups = append(groups, MatchGroup{
			Positions:     append([]Position(nil), cand.cells...),
			Color:         comp.color,
			Shape:         cand.shape,
			Anchor:        anchor,
			SpawnBombKind: shapeBomb(cand.shape),
		})
	}

	// Scrap absorption: any component cells not covered by a chosen
	// sub-shape still die, but spawn nothing (spec §4.2 rule 5).
	var scrap []Position
	for _, p := range comp.positions {
		if !covered[p] {
			scrap = append(scrap, p)
		}
	}
	if len(scrap) > 0 {
		groups = append(groups, MatchGroup{
			Positions:     scrap,
			Color:         comp.color,
			Shape:         ShapeScrap,
			Anchor:        scrap[0],
			SpawnBombKind: BombNone,
		})
	}

	return groups
}

func shapeOverlaps(cells []Position, covered map[Position]bool) bool {
	for _, c := range cells {
		if covered[c] {
			return true
		}
	}
	return false
}

// chooseAnchor implements spec §4.2 rule 2: a focus inside the shape wins,
// else the deterministic interior (lexicographically centermost) cell.
func chooseAnchor(cells []Position, focusSet map[Position]bool) Position {
	for _, c := range cells {
		if focusSet[c] {
			return c
		}
	}
	return centermost(cells)
}

// centermost returns the cell minimizing squared distance to the
// centroid, tie-broken by (Y,X) ascending for full determinism.
func centermost(cells []Position) Position {
	var sumX, sumY float64
	for _, c := range cells {
		sumX += float64(c.X)
		sumY += float64(c.Y)
	}
	n := float64(len(cells))
	cx, cy := sumX/n, sumY/n

	best := cells[0]
	bestDist := -1.0
	for _, c := range cells {
		dx := float64(c.X) - cx
		dy := float64(c.Y) - cy
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist || (d == bestDist && (c.Y < best.Y || (c.Y == best.Y && c.X < best.X))) {
			bestDist = d
			best = c
		}
	}
	return best
}

// findCandidates enumerates every sub-shape spec §4.2 recognizes within a
// component: maximal straight runs of 3/4/5+, 2x2 squares, and L/T-of-5
// combinations of two perpendicular runs sharing exactly one cell.
func findCandidates(positions []Position, cellSet map[Position]bool) []candidateShape {
	var out []candidateShape

	hRuns := maximalRuns(positions, cellSet, true)
	vRuns := maximalRuns(positions, cellSet, false)

	for _, run := range hRuns {
		out = append(out, runCandidates(run, true)...)
	}
	for _, run := range vRuns {
		out = append(out, runCandidates(run, false)...)
	}

	// 2x2 squares.
	seen := make(map[Position]bool)
	for _, p := range positions {
		if seen[p] {
			continue
		}
		square := []Position{p, {X: p.X + 1, Y: p.Y}, {X: p.X, Y: p.Y + 1}, {X: p.X + 1, Y: p.Y + 1}}
		ok := true
		for _, s := range square {
			if !cellSet[s] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, candidateShape{cells: square, shape: ShapeSquare2x2, anchorKey: centermost(square)})
		}
	}
	_ = seen

	// L/T-of-5: a horizontal run and a vertical run (each >=3) sharing
	// exactly one cell whose union is exactly 5 cells.
	for _, h := range hRuns {
		for _, v := range vRuns {
			union, shared := unionIfSingleShared(h, v)
			if shared && len(union) == 5 {
				out = append(out, candidateShape{cells: union, shape: ShapeLShapeOf5, anchorKey: centermost(union)})
			}
		}
	}

	return out
}

// maximalRuns returns every maximal run of length >= 3 along the given
// axis (horizontal if horiz, vertical otherwise) within the component.
func maximalRuns(positions []Position, cellSet map[Position]bool, horiz bool) [][]Position {
	var runs [][]Position
	seenStart := make(map[Position]bool)
	for _, p := range positions {
		var pred, step Position
		if horiz {
			pred = Position{X: p.X - 1, Y: p.Y}
			step = Position{X: 1, Y: 0}
		} else {
			pred = Position{X: p.X, Y: p.Y - 1}
			step = Position{X: 0, Y: 1}
		}
		if cellSet[pred] {
			continue // not a run start
		}
		if seenStart[p] {
			continue
		}
		seenStart[p] = true
		var run []Position
		for q := p; cellSet[q]; q = (Position{X: q.X + step.X, Y: q.Y + step.Y}) {
			run = append(run, q)
		}
		if len(run) >= 3 {
			runs = append(runs, run)
		}
	}
	return runs
}

// runCandidates turns a maximal run into one or more shape candidates: an
// exact 3 or 4 run maps directly; a 5-run maps to a straight-5; a longer
// run is windowed down to a centered 5-cell straight-5 candidate, which is
// the documented heuristic for components larger than the shape table
// anticipates (spec §9).
func runCandidates(run []Position, horiz bool) []candidateShape {
	switch {
	case len(run) == 3:
		return []candidateShape{{cells: run, shape: ShapeStraight3, anchorKey: centermost(run)}}
	case len(run) == 4:
		shape := ShapeStraight4V
		if horiz {
			shape = ShapeStraight4H
		}
		return []candidateShape{{cells: run, shape: shape, anchorKey: centermost(run)}}
	case len(run) >= 5:
		start := (len(run) - 5) / 2
		window := append([]Position(nil), run[start:start+5]...)
		return []candidateShape{{cells: window, shape: ShapeStraight5, anchorKey: centermost(window)}}
	default:
		return nil
	}
}

// unionIfSingleShared returns the union of h and v and whether they share
// exactly one cell.
func unionIfSingleShared(h, v []Position) ([]Position, bool) {
	vSet := make(map[Position]bool, len(v))
	for _, p := range v {
		vSet[p] = true
	}
	shared := 0
	for _, p := range h {
		if vSet[p] {
			shared++
		}
	}
	if shared != 1 {
		return nil, false
	}
	union := make(map[Position]bool, len(h)+len(v))
	for _, p := range h {
		union[p] = true
	}
	for _, p := range v {
		union[p] = true
	}
	out := make([]Position, 0, len(union))
	for p := range union {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out, true
}

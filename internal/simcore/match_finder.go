package simcore

// component is a set of connected, same-colored, matchable cells found by
// MatchFinder.Scan, before BombGenerator partitions it into scored groups.
type component struct {
	positions []Position
	color     Color
}

// neighborOffsets is the 4-connectivity neighborhood used by the BFS scan.
var neighborOffsets = [4]Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// MatchFinder identifies connected components of matchable same-colored
// tiles via 4-connectivity BFS (spec §4.2).
type MatchFinder struct {
	pools *Pools
}

// NewMatchFinder constructs a finder backed by the given scratch pools.
func NewMatchFinder(pools *Pools) *MatchFinder {
	return &MatchFinder{pools: pools}
}

// Scan walks the board and returns every valid connected component: one
// containing at least one straight run of 3 along a row or column. Cells
// blocked by a matching cover, color-bomb tiles, and empty cells are
// excluded from the scan, per spec §4.2.
func (mf *MatchFinder) Scan(state *GameState) []component {
	n := state.Width * state.Height
	visited := mf.pools.RentVisited(n)
	defer mf.pools.ReturnVisited(visited)

	var comps []component
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			start := Position{X: x, Y: y}
			startIdx := state.Idx(start)
			if visited.isVisited(startIdx) {
				continue
			}
			if !state.Matchable(start) {
				visited.markVisited(startIdx)
				continue
			}
			comp := mf.floodFill(state, start, visited)
			if hasStraightRun(comp.positions) {
				comps = append(comps, comp)
			}
		}
	}
	return comps
}

// floodFill collects the connected component of same-color matchable cells
// starting at start, using a pooled queue to avoid per-call allocation.
func (mf *MatchFinder) floodFill(state *GameState, start Position, visited *visitedSet) component {
	color := state.TileAt(start).Color
	queue := mf.pools.RentQueue()
	defer mf.pools.ReturnQueue(queue)
	positions := mf.pools.RentPositions()

	queue = append(queue, state.Idx(start))
	visited.markVisited(state.Idx(start))

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		p := PosFromIdx(idx, state.Width)
		positions = append(positions, p)

		for _, off := range neighborOffsets {
			np := Position{X: p.X + off.X, Y: p.Y + off.Y}
			if !state.InBounds(np) {
				continue
			}
			nIdx := state.Idx(np)
			if visited.isVisited(nIdx) {
				continue
			}
			if !state.Matchable(np) || state.TileAt(np).Color != color {
				continue
			}
			visited.markVisited(nIdx)
			queue = append(queue, nIdx)
		}
	}

	out := make([]Position, len(positions))
	copy(out, positions)
	mf.pools.ReturnPositions(positions)
	return component{positions: out, color: color}
}

// hasStraightRun reports whether positions contains at least one maximal
// run of 3+ cells sharing a row or column with consecutive coordinates.
func hasStraightRun(positions []Position) bool {
	set := make(map[Position]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}
	for _, p := range positions {
		// Count a run as starting at p only if its predecessor along the
		// axis isn't in the set, so each run is counted once.
		if !set[Position{X: p.X - 1, Y: p.Y}] {
			run := 0
			for q := p; set[q]; q = (Position{X: q.X + 1, Y: q.Y}) {
				run++
			}
			if run >= 3 {
				return true
			}
		}
		if !set[Position{X: p.X, Y: p.Y - 1}] {
			run := 0
			for q := p; set[q]; q = (Position{X: q.X, Y: q.Y + 1}) {
				run++
			}
			if run >= 3 {
				return true
			}
		}
	}
	return false
}

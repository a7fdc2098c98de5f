package simcore

// Pools holds the per-engine scratch containers the pipeline stages rent
// and return within a single algorithm's scope. The core runs single
// threaded (spec §5), so a free-list of reusable slices is enough: there is
// no concurrent contention to amortize with sync.Pool, only repeated
// allocation pressure from running the same BFS/partition/activation loops
// every resolution cycle.
type Pools struct {
	positionLists [][]Position
	visitedSets   []visitedSet
	cellQueues    [][]int
}

// NewPools creates an empty set of arenas. Containers are allocated lazily
// on first rent and reused for the lifetime of the engine.
func NewPools() *Pools {
	return &Pools{}
}

// RentPositions returns a zero-length []Position with leftover capacity
// from a prior rental, or a fresh slice if the free-list is empty.
func (p *Pools) RentPositions() []Position {
	n := len(p.positionLists)
	if n == 0 {
		return make([]Position, 0, 32)
	}
	s := p.positionLists[n-1]
	p.positionLists = p.positionLists[:n-1]
	return s[:0]
}

// ReturnPositions releases a slice rented via RentPositions. Safe to call
// with a nil slice.
func (p *Pools) ReturnPositions(s []Position) {
	p.positionLists = append(p.positionLists, s)
}

// visitedSet is a reusable "is this cell index already visited" bitmap
// backed by a generation counter, so Clear is O(1) instead of O(n): rather
// than zeroing the whole backing array between rentals, each rental bumps
// the generation and a cell only reads as "visited" if its stamp matches
// the current generation.
type visitedSet struct {
	stamps     []uint32
	generation uint32
}

// RentVisited returns a visitedSet sized for at least n cells, with all
// cells considered unvisited.
func (p *Pools) RentVisited(n int) *visitedSet {
	var vs *visitedSet
	if m := len(p.visitedSets); m > 0 {
		vs = &p.visitedSets[m-1]
		p.visitedSets = p.visitedSets[:m-1]
	} else {
		vs = &visitedSet{}
	}
	if len(vs.stamps) < n {
		vs.stamps = make([]uint32, n)
		vs.generation = 0
	}
	vs.generation++
	return vs
}

// ReturnVisited releases a visitedSet rented via RentVisited.
func (p *Pools) ReturnVisited(vs *visitedSet) {
	if vs == nil {
		return
	}
	p.visitedSets = append(p.visitedSets, *vs)
}

func (vs *visitedSet) isVisited(idx int) bool {
	return vs.stamps[idx] == vs.generation
}

func (vs *visitedSet) markVisited(idx int) {
	vs.stamps[idx] = vs.generation
}

// RentQueue returns a zero-length []int scratch buffer for BFS/FIFO use.
func (p *Pools) RentQueue() []int {
	n := len(p.cellQueues)
	if n == 0 {
		return make([]int, 0, 64)
	}
	s := p.cellQueues[n-1]
	p.cellQueues = p.cellQueues[:n-1]
	return s[:0]
}

// ReturnQueue releases a slice rented via RentQueue.
func (p *Pools) ReturnQueue(s []int) {
	p.cellQueues = append(p.cellQueues, s)
}

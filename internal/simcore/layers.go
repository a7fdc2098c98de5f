package simcore

// GroundKind is the layer beneath a tile. Ground with KindNone is absent.
type GroundKind int

const (
	GroundNone GroundKind = iota
	GroundIce
	GroundJelly
	GroundHoney
)

// DefaultGroundHP returns the default hit points for a ground kind,
// per spec §4.5 (ice=1, jelly=2, honey=1).
func DefaultGroundHP(kind GroundKind) int {
	switch kind {
	case GroundIce:
		return 1
	case GroundJelly:
		return 2
	case GroundHoney:
		return 1
	default:
		return 0
	}
}

// Ground is the layer below a tile; it takes 1 damage whenever the tile
// above it is destroyed for any reason.
type Ground struct {
	Kind GroundKind
	HP   int
}

// Present reports whether this cell has a live ground element.
func (g Ground) Present() bool {
	return g.Kind != GroundNone && g.HP > 0
}

// CoverKind is the layer above a tile. Each kind's blocking behavior is a
// static rule per spec §4.5 — re-expressed as a lookup table rather than
// per-kind methods, so the rule set reads as data, not branching logic.
type CoverKind int

const (
	CoverNone CoverKind = iota
	CoverCage
	CoverChain
	CoverBubble
	CoverIce
)

// coverRule captures the static per-kind blocking behavior from spec §4.5's
// rule table.
type coverRule struct {
	blocksMatch   bool
	blocksSwap    bool
	blocksGravity bool
	dynamic       bool
}

var coverRules = map[CoverKind]coverRule{
	CoverNone:   {},
	CoverCage:   {blocksMatch: true, blocksSwap: true, blocksGravity: true, dynamic: false},
	CoverChain:  {blocksMatch: false, blocksSwap: true, blocksGravity: true, dynamic: false},
	CoverBubble: {blocksMatch: false, blocksSwap: true, blocksGravity: false, dynamic: true},
	CoverIce:    {blocksMatch: true, blocksSwap: true, blocksGravity: true, dynamic: false},
}

// Cover is the layer above a tile that intercepts damage/matching/swap.
type Cover struct {
	Kind CoverKind
}

// Present reports whether this cell has a live cover element. A cover's
// HP is tracked separately in GameState.CoverHP since covers sit alongside
// tiles in parallel arrays (spec §9: integer indices only, no back-pointer).
func (c Cover) Present() bool {
	return c.Kind != CoverNone
}

func (c Cover) rule() coverRule {
	return coverRules[c.Kind]
}

// BlocksMatch reports whether this cover prevents the tile beneath it from
// being matched/destroyed directly.
func (c Cover) BlocksMatch() bool { return c.rule().blocksMatch }

// BlocksSwap reports whether this cover prevents its cell from taking part
// in a swap.
func (c Cover) BlocksSwap() bool { return c.rule().blocksSwap }

// BlocksGravity reports whether this cover prevents the tile beneath it
// from moving under gravity.
func (c Cover) BlocksGravity() bool { return c.rule().blocksGravity }

// Dynamic reports whether this cover travels with its tile under gravity
// (true) or stays bound to the grid cell (false).
func (c Cover) Dynamic() bool { return c.rule().dynamic }

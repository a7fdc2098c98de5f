package simcore

// Color is an index into the palette of matchable colors. A color-bomb
// tile carries ColorNone since it matches no single color.
type Color int

const ColorNone Color = -1

// BombKind tags a tile with a special activation effect in place of
// ordinary matching. Re-expressed as a flat enum rather than an IBombEffect
// class hierarchy: combos are resolved by a 2-bomb lookup table keyed on
// (kindA, kindB) in bomb_activator.go, not polymorphic dispatch.
type BombKind int

const (
	BombNone BombKind = iota
	BombHorizontalRocket
	BombVerticalRocket
	BombArea
	BombColor
	BombUFO
)

// Vec2 is a float visual position, used only for animation interpolation on
// the host side. The core never reads or sets it; tile-moved and
// tiles-swapped events carry grid Positions, not Vec2 values.
type Vec2 struct {
	X, Y float64
}

// Tile is the interactive color cell occupying one grid index.
type Tile struct {
	ID        uint64
	Color     Color
	Bomb      BombKind
	VisualPos Vec2
	IsFalling bool
}

// Empty reports whether this cell holds no tile.
func (t Tile) Empty() bool {
	return t.ID == 0
}

// emptyTile is the zero-value sentinel used to clear a cell.
var emptyTile = Tile{}

// Position is a grid coordinate. Y grows downward; row-major indexing is
// idx = y*W + x, matching the convention used throughout the board.
type Position struct {
	X, Y int
}

// Idx converts a position to a row-major board index for the given width.
func (p Position) Idx(width int) int {
	return p.Y*width + p.X
}

// PosFromIdx converts a row-major index back to a position.
func PosFromIdx(idx, width int) Position {
	return Position{X: idx % width, Y: idx / width}
}

// Adjacent reports whether two positions are orthogonal neighbors.
func (p Position) Adjacent(q Position) bool {
	dx := p.X - q.X
	dy := p.Y - q.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

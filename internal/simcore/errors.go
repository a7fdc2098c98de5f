package simcore

import (
	"fmt"

	"github.com/pkg/errors"
)

// User-input violations never mutate state and never emit events. These
// sentinels name the violations; no function in this package returns
// them: SwapSystem.Apply (and so SimEngine.ApplyMove) reports each case
// as a false return and leaves the engine exactly as it was.
var (
	ErrOutOfBounds      = errors.New("simcore: position out of bounds")
	ErrNotAdjacent      = errors.New("simcore: positions are not adjacent")
	ErrCellNotSwappable = errors.New("simcore: cell is blocked from swapping")
	ErrCellEmpty        = errors.New("simcore: cell holds no tile")
	ErrMoveInProgress   = errors.New("simcore: a move is already pending resolution")
	ErrLevelFinished    = errors.New("simcore: level has already reached a terminal status")
)

// FatalError marks an invariant violation: a condition the engine's own
// bookkeeping should make impossible. Grounded on the teacher's
// `fmt.Errorf("...: %w", err)` wrapping style, with github.com/pkg/errors
// supplying the stack trace a panic-worthy internal bug deserves in a
// single fatal surface rather than a bare message.
type FatalError struct {
	cause error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("simcore: invariant violated: %v", e.cause)
}

func (e *FatalError) Unwrap() error {
	return e.cause
}

// Fatalf builds a FatalError carrying a stack trace captured at the call
// site, for panics on conditions the engine's own invariants should have
// already prevented (e.g. a bomb activating twice, a negative tile id).
func Fatalf(format string, args ...interface{}) *FatalError {
	return &FatalError{cause: errors.WithStack(fmt.Errorf(format, args...))}
}

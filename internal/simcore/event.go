package simcore

// EventType enumerates the categories of GameEvent, re-expressed as a plain
// tagged union (spec §9): downstream consumers switch on Type rather than
// double-dispatching through a visitor.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventTileMoved
	EventTileDestroyed
	EventTileSpawned
	EventTilesSwapped
	EventMatchDetected
	EventBombCreated
	EventBombActivated
	EventBombCombo
	EventScoreAdded
	EventComboChanged
	EventMoveCompleted
	EventCoverDestroyed
	EventGroundDestroyed
	EventObjectiveProgress
	EventLevelCompleted
)

func (t EventType) String() string {
	switch t {
	case EventTileMoved:
		return "tile-moved"
	case EventTileDestroyed:
		return "tile-destroyed"
	case EventTileSpawned:
		return "tile-spawned"
	case EventTilesSwapped:
		return "tiles-swapped"
	case EventMatchDetected:
		return "match-detected"
	case EventBombCreated:
		return "bomb-created"
	case EventBombActivated:
		return "bomb-activated"
	case EventBombCombo:
		return "bomb-combo"
	case EventScoreAdded:
		return "score-added"
	case EventComboChanged:
		return "combo-changed"
	case EventMoveCompleted:
		return "move-completed"
	case EventCoverDestroyed:
		return "cover-destroyed"
	case EventGroundDestroyed:
		return "ground-destroyed"
	case EventObjectiveProgress:
		return "objective-progress"
	case EventLevelCompleted:
		return "level-completed"
	default:
		return "unknown"
	}
}

// GameEvent is a single entry in the deterministic event log. Every event
// carries Tick and SimTime (spec §4.7); Sequence orders events emitted
// within the same tick, including ties broken by scanline order.
type GameEvent struct {
	Type     EventType
	Tick     uint64
	SimTime  float64
	Sequence uint64
	Payload  interface{}
}

// Typed payloads, one per EventType that carries data beyond the envelope.

type TileMovedPayload struct {
	TileID   uint64
	From, To Position
}

// DestroyReason identifies why a tile was destroyed.
type DestroyReason int

const (
	ReasonMatch DestroyReason = iota
	ReasonBomb
)

type TileDestroyedPayload struct {
	TileID int
	Pos    Position
	Color  Color
	Reason DestroyReason
}

type TileSpawnedPayload struct {
	TileID   uint64
	Pos      Position
	Color    Color
	Bomb     BombKind
	FromAbove int
}

type SwapKind int

const (
	SwapCommitted SwapKind = iota
	SwapReverted
)

type TilesSwappedPayload struct {
	A, B Position
	Kind SwapKind
}

type MatchDetectedPayload struct {
	Positions []Position
	Color     Color
	Shape     ShapeKind
}

type BombCreatedPayload struct {
	Pos  Position
	Kind BombKind
}

type BombActivatedPayload struct {
	Pos     Position
	Kind    BombKind
	Victims []Position
}

type BombComboPayload struct {
	A, B     Position
	KindA, KindB BombKind
}

type ScoreAddedPayload struct {
	Amount int
	Total  int
}

type ComboChangedPayload struct {
	CascadeDepth int
}

type MoveCompletedPayload struct {
	MoveCount int
}

type CoverDestroyedPayload struct {
	Pos  Position
	Kind CoverKind
}

type GroundDestroyedPayload struct {
	Pos  Position
	Kind GroundKind
}

type ObjectiveProgressPayload struct {
	Slot         int
	CurrentCount int
	TargetCount  int
}

type LevelCompletedPayload struct {
	Status LevelStatus
}

// EventCollector is a single in-memory append-only buffer. drainEvents
// returns the current buffer and empties it atomically; since the core is
// single-threaded (spec §5), "atomically" just means "within one call",
// with no concurrent writer to race against — unlike the teacher's
// EventLog, there is no rate limiter, async writer goroutine, or file I/O
// here, because nothing in this core runs off the caller's thread.
type EventCollector struct {
	buffer   []GameEvent
	sequence uint64
}

// NewEventCollector creates an empty collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{buffer: make([]GameEvent, 0, 64)}
}

// Emit appends an event, stamping it with the next sequence number. The
// counter is never reset (not per tick, not by Drain), so Sequence is
// monotonic for the collector's lifetime.
func (c *EventCollector) Emit(tick uint64, simTime float64, typ EventType, payload interface{}) {
	c.sequence++
	c.buffer = append(c.buffer, GameEvent{
		Type:     typ,
		Tick:     tick,
		SimTime:  simTime,
		Sequence: c.sequence,
		Payload:  payload,
	})
}

// Drain returns the buffered events and empties the buffer.
func (c *EventCollector) Drain() []GameEvent {
	out := c.buffer
	c.buffer = make([]GameEvent, 0, 64)
	return out
}

// Len reports the number of buffered, undrained events.
func (c *EventCollector) Len() int {
	return len(c.buffer)
}

package simcore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// recordingVersion is bumped whenever GameRecording's encoded shape
// changes incompatibly.
const recordingVersion = 1

// CommandKind distinguishes the two player input shapes a recording can
// replay (spec §6: "commands: ordered list of (tick, swap|tap)").
type CommandKind int

const (
	CommandSwap CommandKind = iota
	CommandTap
)

// RecordedCommand is one player input, tagged with the tick it was issued
// on so a Replayer can feed it back at the right point in the tick
// sequence.
type RecordedCommand struct {
	Tick uint64
	Kind CommandKind
	From Position // swap: first cell; tap: the tapped cell
	To   Position // swap: second cell; unused for tap
}

// GameRecording is a self-contained, replayable session: a starting
// snapshot plus every command issued afterwards (spec §6's
// `GameRecording`).
type GameRecording struct {
	Version         int
	MasterSeed      uint64
	InitialSnapshot GameStateSnapshot
	Commands        []RecordedCommand
}

// header mirrors the teacher's internal/ipc/protocol.go framing
// (version + payload length prefix) so a recording file can be
// length-delimited the same way the teacher frames IPC messages, despite
// replay files having nothing to do with interprocess transport.
type header struct {
	Version uint32
	Length  uint32
}

// Save gob-encodes the recording and writes it to w, framed with a
// fixed-size header carrying the format version and payload length.
func (r *GameRecording) Save(w io.Writer) error {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(r); err != nil {
		return errors.Wrap(err, "encode recording")
	}

	h := header{Version: recordingVersion, Length: uint32(body.Len())}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return errors.Wrap(err, "write recording header")
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return errors.Wrap(err, "write recording body")
	}
	return nil
}

// LoadGameRecording reads a recording previously written by Save.
func LoadGameRecording(r io.Reader) (*GameRecording, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errors.Wrap(err, "read recording header")
	}
	if h.Version != recordingVersion {
		return nil, errors.Errorf("unsupported recording version %d", h.Version)
	}

	body := make([]byte, h.Length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errors.Wrap(err, "read recording body")
	}

	var rec GameRecording
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "decode recording")
	}
	return &rec, nil
}

// Recorder wraps a SimEngine and appends every applied command to a
// GameRecording, so a live session can be saved as it is played rather
// than reconstructed after the fact.
type Recorder struct {
	engine *SimEngine
	rec    *GameRecording
}

// NewRecorder starts a recording from the engine's current state as the
// initial snapshot.
func NewRecorder(e *SimEngine, masterSeed uint64) *Recorder {
	return &Recorder{
		engine: e,
		rec: &GameRecording{
			Version:         recordingVersion,
			MasterSeed:      masterSeed,
			InitialSnapshot: e.Snapshot(),
		},
	}
}

// ApplyMove records and forwards a swap command.
func (r *Recorder) ApplyMove(from, to Position) bool {
	ok := r.engine.ApplyMove(from, to)
	if ok {
		r.rec.Commands = append(r.rec.Commands, RecordedCommand{Tick: r.engine.tick, Kind: CommandSwap, From: from, To: to})
	}
	return ok
}

// HandleTap records and forwards a tap command.
func (r *Recorder) HandleTap(pos Position) {
	r.engine.HandleTap(pos)
	r.rec.Commands = append(r.rec.Commands, RecordedCommand{Tick: r.engine.tick, Kind: CommandTap, From: pos})
}

// Recording returns the recording accumulated so far.
func (r *Recorder) Recording() *GameRecording {
	return r.rec
}

// Replayer re-runs a GameRecording's commands against a freshly restored
// engine, advancing one tick at a time and dispatching any command whose
// tick matches the current tick before advancing. This is the mechanism
// spec §8's determinism property is checked against: replaying a
// recording must reproduce the exact same event stream.
type Replayer struct {
	engine   *SimEngine
	rec      *GameRecording
	cmdIndex int
}

// NewReplayer restores an engine from the recording's initial snapshot
// and prepares to dispatch its commands in order.
func NewReplayer(rec *GameRecording, cfg EngineConfig, collaborators Collaborators) *Replayer {
	return &Replayer{
		engine: Restore(rec.InitialSnapshot, cfg, collaborators),
		rec:    rec,
	}
}

// Step advances the replay by one tick of duration dt, dispatching any
// commands scheduled for the tick about to run, and returns the events
// produced. Returns io.EOF once every command has been dispatched and the
// engine has gone stable, signaling the replay is finished.
func (rp *Replayer) Step(dt float64) ([]GameEvent, error) {
	currentTick := rp.engine.tick
	for rp.cmdIndex < len(rp.rec.Commands) && rp.rec.Commands[rp.cmdIndex].Tick == currentTick {
		cmd := rp.rec.Commands[rp.cmdIndex]
		switch cmd.Kind {
		case CommandSwap:
			rp.engine.ApplyMove(cmd.From, cmd.To)
		case CommandTap:
			rp.engine.HandleTap(cmd.From)
		}
		rp.cmdIndex++
	}

	rp.engine.Tick(dt)
	events := rp.engine.DrainEvents()

	if rp.cmdIndex >= len(rp.rec.Commands) && rp.engine.IsStable() {
		return events, io.EOF
	}
	return events, nil
}

// Engine exposes the replayer's underlying engine for inspection.
func (rp *Replayer) Engine() *SimEngine {
	return rp.engine
}

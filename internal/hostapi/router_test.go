package hostapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"match3sim/internal/simcore"
)

// fakeEngine is a scripted stand-in for *simcore.SimEngine, so router
// behavior can be tested without constructing a full board.
type fakeEngine struct {
	applyMoveResult bool
	lastFrom        simcore.Position
	lastTo          simcore.Position
	lastTap         simcore.Position
	ticked          float64
	events          []simcore.GameEvent
	stable          bool
}

func (f *fakeEngine) ApplyMove(from, to simcore.Position) bool {
	f.lastFrom, f.lastTo = from, to
	return f.applyMoveResult
}
func (f *fakeEngine) HandleTap(pos simcore.Position) { f.lastTap = pos }
func (f *fakeEngine) Tick(dt float64)                { f.ticked += dt }
func (f *fakeEngine) DrainEvents() []simcore.GameEvent {
	out := f.events
	f.events = nil
	return out
}
func (f *fakeEngine) IsStable() bool { return f.stable }
func (f *fakeEngine) Snapshot() simcore.GameStateSnapshot {
	return simcore.GameStateSnapshot{Width: 6, Height: 6}
}

func newTestRouter(engine Engine) *httptest.Server {
	r := NewRouter(RouterConfig{Engine: engine, DisableLogging: true})
	return httptest.NewServer(r)
}

func TestRouterHandleCommandSwap(t *testing.T) {
	fe := &fakeEngine{applyMoveResult: true}
	srv := newTestRouter(fe)
	defer srv.Close()

	body := `{"type":"swap","from":{"x":1,"y":2},"to":{"x":1,"y":3}}`
	resp, err := http.Post(srv.URL+"/api/commands", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out["accepted"] {
		t.Fatal("expected accepted=true")
	}
	if fe.lastFrom != (simcore.Position{X: 1, Y: 2}) || fe.lastTo != (simcore.Position{X: 1, Y: 3}) {
		t.Fatalf("unexpected positions forwarded: %+v %+v", fe.lastFrom, fe.lastTo)
	}
}

func TestRouterHandleCommandUnknownType(t *testing.T) {
	fe := &fakeEngine{}
	srv := newTestRouter(fe)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/commands", "application/json", bytes.NewBufferString(`{"type":"dance"}`))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRouterHandleTick(t *testing.T) {
	fe := &fakeEngine{stable: true}
	srv := newTestRouter(fe)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/tick", "application/json", bytes.NewBufferString(`{"dt":0.1}`))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		IsStable bool `json:"isStable"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out.IsStable {
		t.Fatal("expected isStable=true")
	}
	if fe.ticked != 0.1 {
		t.Fatalf("expected engine ticked by 0.1, got %v", fe.ticked)
	}
}

func TestRouterHandleSnapshot(t *testing.T) {
	fe := &fakeEngine{}
	srv := newTestRouter(fe)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()
	var snap simcore.GameStateSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if snap.Width != 6 || snap.Height != 6 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

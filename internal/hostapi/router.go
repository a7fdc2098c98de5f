package hostapi

import (
	"encoding/json"
	"net/http"
	"time"

	"match3sim/internal/simcore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Engine is the subset of simcore.SimEngine the host needs. Keeping this
// minimal (rather than depending on *simcore.SimEngine directly) enables
// mocking it in router tests without constructing a full engine.
type Engine interface {
	ApplyMove(from, to simcore.Position) bool
	HandleTap(pos simcore.Position)
	Tick(dt float64)
	DrainEvents() []simcore.GameEvent
	IsStable() bool
	Snapshot() simcore.GameStateSnapshot
}

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Engine Engine

	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	CORSOrigins []string

	DisableLogging bool
}

type tickRequest struct {
	Dt float64 `json:"dt"`
}

type handlers struct {
	engine Engine
}

// NewRouter builds the HTTP router. It opens no network listener, so it
// stays safe to exercise with httptest.NewServer in tests. When
// cfg.RateLimiter is nil it creates its own IPRateLimiter, whose cleanup
// goroutine starts here.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &handlers{engine: cfg.Engine}

	r.Route("/api", func(r chi.Router) {
		// Only the two routes that actually drive the single-threaded
		// engine (ApplyMove/HandleTap via handleCommand, Tick via
		// handleTick) sit behind the per-IP limiter; a misbehaving host
		// client flooding these could otherwise pile up unresolved
		// swaps/ticks faster than the engine can process them.
		// /snapshot is read-only and unthrottled, like /metrics below.
		r.With(rateLimiter.Middleware).Post("/commands", h.handleCommand)
		r.With(rateLimiter.Middleware).Post("/tick", h.handleTick)
		r.Get("/snapshot", h.handleSnapshot)
	})

	r.Get("/metrics", metricsHandler().ServeHTTP)

	return r
}

func (h *handlers) handleCommand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { recordRequest(r.Method, "/api/commands", http.StatusOK, time.Since(start).Seconds()) }()

	var body struct {
		Type string `json:"type"` // "swap" or "tap"
		From struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"from"`
		To struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch body.Type {
	case "swap":
		from := simcore.Position{X: body.From.X, Y: body.From.Y}
		to := simcore.Position{X: body.To.X, Y: body.To.Y}
		ok := h.engine.ApplyMove(from, to)
		writeJSON(w, map[string]bool{"accepted": ok})
	case "tap":
		h.engine.HandleTap(simcore.Position{X: body.From.X, Y: body.From.Y})
		writeJSON(w, map[string]bool{"accepted": true})
	default:
		http.Error(w, "unknown command type", http.StatusBadRequest)
	}
}

func (h *handlers) handleTick(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { recordRequest(r.Method, "/api/tick", http.StatusOK, time.Since(start).Seconds()) }()

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.engine.Tick(req.Dt)
	events := h.engine.DrainEvents()
	writeJSON(w, map[string]interface{}{
		"events":   events,
		"isStable": h.engine.IsStable(),
	})
}

func (h *handlers) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { recordRequest(r.Method, "/api/snapshot", http.StatusOK, time.Since(start).Seconds()) }()
	writeJSON(w, h.engine.Snapshot())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

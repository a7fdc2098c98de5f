package simcore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality: no per-tile, per-player, or per-board
// labels, following the teacher's observability.go rule of keeping label
// sets small and fixed. hostapi exposes these on /metrics; the core only
// records them.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simcore_tick_duration_seconds",
		Help:    "Time spent in SimEngine.Tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	})

	eventsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simcore_events_emitted_total",
		Help: "Total events appended to the event collector",
	})

	activeBombGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "simcore_active_bombs",
		Help: "Bomb tiles currently present on the board",
	})

	cascadeDepthHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simcore_cascade_depth",
		Help:    "Number of chained resolution cycles per resolved move",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	})
)

// RecordTick records the wall-clock duration of one Tick call.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordEventsEmitted adds n to the total events-emitted counter.
func RecordEventsEmitted(n int) {
	if n <= 0 {
		return
	}
	eventsEmittedTotal.Add(float64(n))
}

// RecordActiveBombs sets the current active-bomb gauge.
func RecordActiveBombs(n int) {
	activeBombGauge.Set(float64(n))
}

// RecordCascadeDepth observes the final cascade depth reached by a
// resolveChains run.
func RecordCascadeDepth(depth int) {
	cascadeDepthHistogram.Observe(float64(depth))
}

// countActiveBombs scans the board for live bomb tiles.
func countActiveBombs(state *GameState) int {
	n := 0
	for _, t := range state.Tiles {
		if !t.Empty() && t.Bomb != BombNone {
			n++
		}
	}
	return n
}

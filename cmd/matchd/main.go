// Command matchd is the reference debug host for the match-3 simulation
// core: it loads a scenario file into a simcore.SimEngine and exposes it
// over HTTP/WebSocket via internal/hostapi, purely so the engine can be
// driven and observed end to end. It is not part of the simulation core
// itself (spec §6: "no native CLI... is part of the core"). Grounded on
// the teacher's cmd/server/main.go wiring order: load config, construct
// engine, construct router, construct server, run, wait for shutdown
// signal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"match3sim/internal/hostapi"
	"match3sim/internal/simcore"
)

func main() {
	scenarioPath := flag.String("scenario", "scenarios/default.json", "path to a JSON level scenario")
	flag.Parse()

	cfg := hostapi.LoadConfig()

	level, err := hostapi.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("matchd: failed to load scenario: %v", err)
	}

	engineCfg := simcore.DefaultEngineConfig()
	collaborators := simcore.DefaultCollaborators(engineCfg)
	engine := simcore.NewSimEngine(level, engineCfg, collaborators)

	log.Printf("matchd: loaded scenario %s (%dx%d, %d colors, move limit %d)",
		*scenarioPath, level.Width, level.Height, level.ColorCount, level.MoveLimit)

	if cfg.DisableDebugServer {
		log.Println("matchd: debug server disabled (MATCHD_DISABLE_DEBUG_SERVER=true); running headless")
		runHeadless(engine)
		return
	}

	server := hostapi.NewServerWithConfig(engine, cfg)

	go func() {
		if err := server.Start(cfg.Addr); err != nil {
			log.Fatalf("matchd: server error: %v", err)
		}
	}()
	log.Printf("matchd: debug host listening on %s (tick rate %v)", cfg.Addr, cfg.TickRate)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("matchd: shutting down")
	server.Stop()
}

// runHeadless advances the engine on its own, off any HTTP surface, for
// operators who only want the deterministic core (e.g. scripted replay
// verification) without the debug host attached.
func runHeadless(engine *simcore.SimEngine) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	const dt = 1.0 / 30.0
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			engine.Tick(dt)
			_ = engine.DrainEvents()
		}
	}
}

package simcore

import "log"

// Logger is the minimal logging seam a host hands to SimEngine through
// Collaborators, grounded on the teacher's bare `log.Printf` usage (no
// third-party logging library appears anywhere in the retrieved pack, so
// this stays stdlib-backed by default; a host may substitute any
// implementation, including one wrapping a structured logger, since this
// is just an interface). The engine stores it but emits no log lines
// through it.
type Logger interface {
	Printf(format string, args ...interface{})
}

// stdLogger adapts the standard library's log package to Logger.
type stdLogger struct{}

func (stdLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// DefaultLogger returns the stdlib-backed Logger used when a host does
// not supply one.
func DefaultLogger() Logger {
	return stdLogger{}
}

// Collaborators bundles the external seams spec §6 names: everything a
// SimEngine needs from its host besides raw move/tap commands. A host
// supplies these at construction time. RNG is not among them: the engine
// derives its own PRNG streams from the level's master seed (SeedManager),
// and no RNG factory can be substituted.
type Collaborators struct {
	FillGenerator NonMatchingTileGenerator
	SpawnModel    SpawnModel
	Logger        Logger
}

// DefaultCollaborators builds the stock set: weighted spawn model, its
// matching fill generator, and the stdlib logger.
func DefaultCollaborators(cfg EngineConfig) Collaborators {
	model := NewWeightedSpawnModel(cfg)
	return Collaborators{
		FillGenerator: NewDefaultFillGenerator(model),
		SpawnModel:    model,
		Logger:        DefaultLogger(),
	}
}

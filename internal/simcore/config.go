package simcore

// EngineConfig holds tuning constants the pipeline consults. Grounded on
// the teacher's internal/config/config.go pattern of a single struct of
// named constants with a Default constructor, rather than scattering
// magic numbers through the pipeline stages.
type EngineConfig struct {
	SwapDuration float64 // seconds the PendingMove FSM waits before resolving
	TickRate     int     // ticks per second, informational for hosts

	BaseMatchScore     int     // base score per destroyed tile
	CascadeScoreFactor float64 // cascade-depth multiplier coefficient
	LengthBonusPerTile float64 // extra score fraction per tile beyond 3 in a group

	AreaBombRadius int // area bomb destroys a (2*radius+1)^2 square

	RefillMonochromeGuard float64 // weight penalty applied to a color already dominant in a column
}

// DefaultEngineConfig returns production-shaped defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SwapDuration:          0.2,
		TickRate:               30,
		BaseMatchScore:         10,
		CascadeScoreFactor:     0.5,
		LengthBonusPerTile:     0.1,
		AreaBombRadius:         1,
		RefillMonochromeGuard:  0.5,
	}
}

// MatchScore computes the score for a group of n destroyed tiles at the
// given cascade depth: BaseMatchScore × n × (1 + cascade-depth ×
// CascadeScoreFactor) × length-bonus, rounded to the nearest integer.
func (c EngineConfig) MatchScore(n, cascadeDepth int) int {
	lengthBonus := 1.0
	if n > 3 {
		lengthBonus += float64(n-3) * c.LengthBonusPerTile
	}
	score := float64(c.BaseMatchScore) * float64(n) * (1 + float64(cascadeDepth)*c.CascadeScoreFactor) * lengthBonus
	return int(score + 0.5)
}

package hostapi

import (
	"encoding/json"
	"fmt"
	"os"

	"match3sim/internal/simcore"
)

// ScenarioObjective mirrors simcore.ObjectiveSlot but with a string Layer
// name, so a level file reads as data an author would actually write
// rather than raw enum integers.
type ScenarioObjective struct {
	Layer       string `json:"layer"` // "tile", "cover", or "ground"
	ElementType int    `json:"elementType"`
	TargetCount int    `json:"targetCount"`
}

// Scenario is the on-disk shape of a level configuration (spec §6 "Level
// configuration"), loaded by cmd/matchd the way the teacher's
// `cmd/server/main.go` loads its centralized config before constructing
// the engine. Colors/bombs/covers/grounds are flat row-major arrays of
// length width*height, exactly as spec §6 specifies; bomb/cover/ground
// entries use short kind names instead of raw integers for readability.
type Scenario struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	ColorCount       int     `json:"colorCount"`
	MoveLimit        int     `json:"moveLimit"`
	TargetDifficulty float64 `json:"targetDifficulty"`
	MasterSeed       uint64  `json:"masterSeed"`

	Grid          []int    `json:"grid"`
	Bombs         []string `json:"bombs"`
	Covers        []string `json:"covers"`
	CoverHealths  []int    `json:"coverHealths"`
	Grounds       []string `json:"grounds"`
	GroundHealths []int    `json:"groundHealths"`

	Objectives []ScenarioObjective `json:"objectives"`
}

var bombKindNames = map[string]simcore.BombKind{
	"":        simcore.BombNone,
	"none":    simcore.BombNone,
	"hrocket": simcore.BombHorizontalRocket,
	"vrocket": simcore.BombVerticalRocket,
	"area":    simcore.BombArea,
	"color":   simcore.BombColor,
	"ufo":     simcore.BombUFO,
}

var coverKindNames = map[string]simcore.CoverKind{
	"":       simcore.CoverNone,
	"none":   simcore.CoverNone,
	"cage":   simcore.CoverCage,
	"chain":  simcore.CoverChain,
	"bubble": simcore.CoverBubble,
	"ice":    simcore.CoverIce,
}

var groundKindNames = map[string]simcore.GroundKind{
	"":      simcore.GroundNone,
	"none":  simcore.GroundNone,
	"ice":   simcore.GroundIce,
	"jelly": simcore.GroundJelly,
	"honey": simcore.GroundHoney,
}

var objectiveLayerNames = map[string]simcore.ObjectiveLayer{
	"tile":   simcore.ObjectiveLayerTile,
	"cover":  simcore.ObjectiveLayerCover,
	"ground": simcore.ObjectiveLayerGround,
}

// LoadScenario reads a JSON scenario file and converts it into a
// simcore.LevelConfig ready to hand to simcore.NewSimEngine.
func LoadScenario(path string) (simcore.LevelConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return simcore.LevelConfig{}, fmt.Errorf("hostapi: read scenario %q: %w", path, err)
	}
	var sc Scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return simcore.LevelConfig{}, fmt.Errorf("hostapi: parse scenario %q: %w", path, err)
	}
	return sc.toLevelConfig()
}

func (sc Scenario) toLevelConfig() (simcore.LevelConfig, error) {
	n := sc.Width * sc.Height
	if n <= 0 {
		return simcore.LevelConfig{}, fmt.Errorf("hostapi: scenario dimensions must be positive (got %dx%d)", sc.Width, sc.Height)
	}

	grid := make([]simcore.Color, len(sc.Grid))
	for i, c := range sc.Grid {
		grid[i] = simcore.Color(c)
	}

	bombs, err := mapKinds(sc.Bombs, bombKindNames, "bomb")
	if err != nil {
		return simcore.LevelConfig{}, err
	}
	covers, err := mapKinds(sc.Covers, coverKindNames, "cover")
	if err != nil {
		return simcore.LevelConfig{}, err
	}
	grounds, err := mapKinds(sc.Grounds, groundKindNames, "ground")
	if err != nil {
		return simcore.LevelConfig{}, err
	}

	objectives := make([]simcore.ObjectiveSlot, 0, len(sc.Objectives))
	for _, o := range sc.Objectives {
		layer, ok := objectiveLayerNames[o.Layer]
		if !ok {
			return simcore.LevelConfig{}, fmt.Errorf("hostapi: unknown objective layer %q", o.Layer)
		}
		objectives = append(objectives, simcore.ObjectiveSlot{
			Layer:       layer,
			ElementType: o.ElementType,
			TargetCount: o.TargetCount,
		})
	}

	return simcore.LevelConfig{
		Width:            sc.Width,
		Height:           sc.Height,
		ColorCount:       sc.ColorCount,
		MoveLimit:        sc.MoveLimit,
		TargetDifficulty: sc.TargetDifficulty,
		MasterSeed:       sc.MasterSeed,
		Grid:             grid,
		Bombs:            bombs,
		Covers:           covers,
		CoverHealths:     sc.CoverHealths,
		Grounds:          grounds,
		GroundHealths:    sc.GroundHealths,
		Objectives:       objectives,
	}, nil
}

func mapKinds[K comparable](names []string, table map[string]K, field string) ([]K, error) {
	out := make([]K, len(names))
	for i, name := range names {
		k, ok := table[name]
		if !ok {
			return nil, fmt.Errorf("hostapi: unknown %s kind %q", field, name)
		}
		out[i] = k
	}
	return out, nil
}

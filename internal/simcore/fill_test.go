package simcore

import "testing"

func TestDefaultFillGeneratorAvoidsPreformedMatches(t *testing.T) {
	s := NewGameState(8, 8, 3, 123)
	pools := NewPools()
	finder := NewMatchFinder(pools)
	rng := NewPRNG(123)

	gen := NewDefaultFillGenerator(NewWeightedSpawnModel(DefaultEngineConfig()))
	gen.Fill(s, finder, rng)

	for _, t2 := range s.Tiles {
		if t2.Empty() {
			t.Fatal("expected every cell to be filled")
		}
	}
	if comps := finder.Scan(s); len(comps) != 0 {
		t.Fatalf("expected no pre-formed matches after fill, found %d components", len(comps))
	}
}

package simcore

import (
	"crypto/sha256"
	"encoding/binary"
)

// Domain identifies one of the independent RNG streams a SeedManager derives.
// Keeping streams separate means consuming randomness in one domain (e.g.
// a UFO picking its random target) never perturbs another domain's call
// order (e.g. refill color choice), which is required for determinism
// across replays that only differ in which bombs happened to activate.
type Domain string

const (
	DomainMain   Domain = "main"
	DomainRefill Domain = "refill"
	DomainBomb   Domain = "bomb"
	DomainAI     Domain = "ai"
)

// PRNG is a 64-bit xorshift generator with an explicitly exported state,
// so a session can be snapshotted and restored bit-for-bit. math/rand's
// Source does not expose a portable state, which is why this is hand-rolled
// instead of wrapping it.
type PRNG struct {
	state uint64
}

// NewPRNG creates a stream seeded directly from a 64-bit value. A zero seed
// is remapped to a fixed non-zero constant since xorshift64 never advances
// from a zero state.
func NewPRNG(seed uint64) *PRNG {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &PRNG{state: seed}
}

// next advances the generator and returns the raw 64-bit output.
func (p *PRNG) next() uint64 {
	x := p.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	p.state = x
	return x
}

// Next returns a pseudo-random integer in [0, max). Returns 0 if max <= 0.
func (p *PRNG) Next(max int) int {
	if max <= 0 {
		return 0
	}
	return int(p.next() % uint64(max))
}

// NextRange returns a pseudo-random integer in [min, max). Returns min if
// max <= min.
func (p *PRNG) NextRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.Next(max-min)
}

// NextFloat returns a pseudo-random float64 in [0.0, 1.0).
func (p *PRNG) NextFloat() float64 {
	// Use the top 53 bits for a uniformly distributed float64 mantissa.
	return float64(p.next()>>11) / float64(1<<53)
}

// GetState returns the generator's full internal state for snapshotting.
func (p *PRNG) GetState() uint64 {
	return p.state
}

// SetState restores a previously captured state.
func (p *PRNG) SetState(state uint64) {
	if state == 0 {
		state = 0x9e3779b97f4a7c15
	}
	p.state = state
}

// SeedManager derives one independent PRNG per domain from a single master
// seed, so a whole session can be reproduced from (masterSeed, commands)
// alone. Each domain's sub-seed is derived via SHA-256 over the master seed
// and the domain name, following the same master-seed-plus-label derivation
// used for per-stage RNG isolation.
type SeedManager struct {
	masterSeed uint64
	streams    map[Domain]*PRNG
}

// NewSeedManager builds a SeedManager and eagerly derives the four
// well-known domains so their call order can never depend on lazy
// initialization order, which would otherwise be a determinism hazard.
func NewSeedManager(masterSeed uint64) *SeedManager {
	sm := &SeedManager{
		masterSeed: masterSeed,
		streams:    make(map[Domain]*PRNG, 4),
	}
	for _, d := range []Domain{DomainMain, DomainRefill, DomainBomb, DomainAI} {
		sm.streams[d] = NewPRNG(deriveSeed(masterSeed, d))
	}
	return sm
}

// deriveSeed combines the master seed and domain label via SHA-256 and
// takes the first 8 bytes as the sub-seed.
func deriveSeed(masterSeed uint64, domain Domain) uint64 {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(domain))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// Stream returns the PRNG for the given domain, creating it from a
// deterministic derivation if it has not been requested before (covers any
// future domain beyond the four well-known ones).
func (sm *SeedManager) Stream(domain Domain) *PRNG {
	if p, ok := sm.streams[domain]; ok {
		return p
	}
	p := NewPRNG(deriveSeed(sm.masterSeed, domain))
	sm.streams[domain] = p
	return p
}

// MasterSeed returns the seed this manager was constructed from.
func (sm *SeedManager) MasterSeed() uint64 {
	return sm.masterSeed
}

// SeedManagerState captures every domain stream's state for snapshotting.
type SeedManagerState struct {
	MasterSeed uint64
	States     map[Domain]uint64
}

// CaptureState returns the current state of every active domain stream.
func (sm *SeedManager) CaptureState() SeedManagerState {
	states := make(map[Domain]uint64, len(sm.streams))
	for d, p := range sm.streams {
		states[d] = p.GetState()
	}
	return SeedManagerState{MasterSeed: sm.masterSeed, States: states}
}

// RestoreState rebuilds a SeedManager from a previously captured state.
func RestoreState(s SeedManagerState) *SeedManager {
	sm := &SeedManager{
		masterSeed: s.MasterSeed,
		streams:    make(map[Domain]*PRNG, len(s.States)),
	}
	for d, state := range s.States {
		sm.streams[d] = NewPRNG(state)
	}
	return sm
}

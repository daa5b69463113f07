package sim

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/talgya/agent-metro/internal/tuning"
)

// Sim bundles the world store with the policy set, a seeded random source,
// and the clock. All subsystem passes and explicit operations hang off it.
//
// The rng is guarded by its own mutex so concurrent scheduler jobs draw from
// one deterministic stream; with a single-goroutine driver (tests) the draw
// order is fully reproducible.
type Sim struct {
	store *Store
	cfg   tuning.Tuning
	log   *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

// New creates a simulation over the given store, seeded for reproducibility.
func New(store *Store, cfg tuning.Tuning, log *slog.Logger, seed int64) *Sim {
	if log == nil {
		log = slog.Default()
	}
	return &Sim{
		store: store,
		cfg:   cfg,
		log:   log,
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now,
	}
}

// Store exposes the underlying world store for read paths (API handlers,
// persistence snapshots).
func (s *Sim) Store() *Store { return s.store }

// Tuning returns the active policy set.
func (s *Sim) Tuning() tuning.Tuning { return s.cfg }

func (s *Sim) float64() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

// chance rolls a probability in [0,1].
func (s *Sim) chance(p float64) bool {
	return s.float64() < p
}

// withRNG runs fn while holding the rng lock, for helpers that take *rand.Rand.
func (s *Sim) withRNG(fn func(*rand.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	fn(s.rng)
}

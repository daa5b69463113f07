package sim

import (
	"io"
	"log/slog"
	"time"

	"github.com/talgya/agent-metro/internal/tuning"
	"github.com/talgya/agent-metro/internal/world"
)

// fakeClock is a manually advanced clock for deterministic passes.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSim builds a Sim over an empty store with a fixed seed and clock.
func newTestSim(seed int64) (*Sim, *Store, *fakeClock) {
	return newTestSimCfg(seed, tuning.Defaults())
}

func newTestSimCfg(seed int64, cfg tuning.Tuning) (*Sim, *Store, *fakeClock) {
	store := NewStore()
	s := New(store, cfg, testLogger(), seed)
	clk := &fakeClock{t: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	s.now = clk.Now
	return s, store, clk
}

// seedAgent inserts a minimal online agent at the given position.
func seedAgent(s *Sim, store *Store, name string, x, y, energy float64) Agent {
	now := s.now()
	id := store.InsertAgent(Agent{
		Name:             name,
		AvatarColor:      "#ffffff",
		X:                x,
		Y:                y,
		Coins:            100,
		IsOnline:         true,
		LastSeen:         now,
		Archetype:        name,
		Energy:           energy,
		LastEnergyUpdate: now,
		LastWantedUpdate: now,
	})
	a, _ := store.Agent(id)
	return a
}

func seedGeography(store *Store) {
	store.SetLocations(world.Locations())
}

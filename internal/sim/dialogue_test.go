package sim

import (
	"testing"
	"time"

	"github.com/talgya/agent-metro/internal/personality"
	"github.com/talgya/agent-metro/internal/tuning"
)

func TestSayCreatesBubble(t *testing.T) {
	s, store, clk := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 700, 800, 100)

	if err := s.Say(a.ID, "test line", personality.ContextNearAgent); err != nil {
		t.Fatalf("say: %v", err)
	}
	bubbles := store.ActiveDialogue(clk.Now(), 10)
	if len(bubbles) != 1 {
		t.Fatalf("bubbles = %d, want 1", len(bubbles))
	}
	b := bubbles[0]
	if b.X != 700 || b.Y != 800 || b.AgentName != "KayaCan" {
		t.Fatalf("bubble anchored wrong: %+v", b)
	}
	if got := b.ExpiresAt.Sub(b.CreatedAt); got != 4*time.Second {
		t.Fatalf("bubble life = %v, want 4s", got)
	}
}

func TestNoteworthyDialogueHitsActivityFeed(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 700, 800, 100)

	s.Say(a.ID, "quiet", personality.ContextEnergyLow)
	s.Say(a.ID, "loud", personality.ContextDiscovery)

	count := 0
	for _, act := range store.RecentActivity(50) {
		if act.Type == ActivityDialogue {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("dialogue activity entries = %d, want only the noteworthy one", count)
	}
}

func TestCleanupDialogueIsIdempotent(t *testing.T) {
	s, store, clk := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 700, 800, 100)
	s.Say(a.ID, "fading", personality.ContextNearAgent)

	clk.Advance(5 * time.Second)
	s.CleanupDialogue()
	if n := len(store.ActiveDialogue(clk.Now(), 10)); n != 0 {
		t.Fatalf("bubbles after cleanup = %d", n)
	}
	// Second run over an empty set must not blow up or change anything.
	s.CleanupDialogue()
	if n := len(store.ExpiredDialogue(clk.Now())); n != 0 {
		t.Fatalf("expired bubbles remain = %d", n)
	}
}

func TestOpportunityPassRespectsCap(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Dialogue.LowEnergyChance = 1
	cfg.Dialogue.GreetingChance = 1
	s, store, clk := newTestSimCfg(1, cfg)
	seedGeography(store)
	// Six starving agents all standing together.
	for _, name := range []string{"KayaCan", "Friday", "Ledger", "Sage", "Extra", "Spare"} {
		seedAgent(s, store, name, 900, 900, 10)
	}

	s.CheckDialogueOpportunities()

	if n := len(store.ActiveDialogue(clk.Now(), 50)); n != 2 {
		t.Fatalf("bubbles = %d, want the per-pass cap of 2", n)
	}
}

func TestGreetingRequiresProximityAndIdleness(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Dialogue.GreetingChance = 1
	cfg.Dialogue.LowEnergyChance = 0
	s, store, clk := newTestSimCfg(1, cfg)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 900, 900, 100)
	seedAgent(s, store, "Friday", 2400, 2400, 100) // far away
	moving := seedAgent(s, store, "Sage", 910, 910, 100)
	store.UpdateAgent(moving.ID, func(live *Agent) { live.IsMoving = true })
	_ = a

	s.CheckDialogueOpportunities()

	if n := len(store.ActiveDialogue(clk.Now(), 50)); n != 0 {
		t.Fatalf("bubbles = %d, want 0 with no idle neighbor in range", n)
	}
}

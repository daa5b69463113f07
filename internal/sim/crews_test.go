package sim

import (
	"errors"
	"testing"

	"github.com/talgya/agent-metro/internal/tuning"
)

func TestCreateAndJoinCrew(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	leader := seedAgent(s, store, "Ledger", 500, 500, 100)
	member := seedAgent(s, store, "Friday", 510, 510, 100)

	crewID, err := s.CreateCrew(leader.ID, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	crew, _ := store.Crew(crewID)
	if crew.Name != "Ledger's Crew" {
		t.Fatalf("crew name = %q", crew.Name)
	}
	if crew.MemberCount != 1 || crew.TotalCoins != 100 {
		t.Fatalf("crew seeded wrong: %+v", crew)
	}

	if err := s.JoinCrew(member.ID, crewID); err != nil {
		t.Fatalf("join: %v", err)
	}
	crew, _ = store.Crew(crewID)
	if crew.MemberCount != 2 || crew.TotalCoins != 200 {
		t.Fatalf("crew totals after join: %+v", crew)
	}

	if _, err := s.CreateCrew(leader.ID, "Again"); !errors.Is(err, ErrAlreadyInCrew) {
		t.Fatalf("err = %v, want ErrAlreadyInCrew", err)
	}
	if err := s.JoinCrew(member.ID, crewID); !errors.Is(err, ErrAlreadyInCrew) {
		t.Fatalf("err = %v, want ErrAlreadyInCrew", err)
	}
}

func TestRecomputeCrewStatsMatchesMemberSums(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	leader := seedAgent(s, store, "Ledger", 500, 500, 100)
	member := seedAgent(s, store, "Friday", 510, 510, 100)

	crewID, _ := s.CreateCrew(leader.ID, "")
	s.JoinCrew(member.ID, crewID)

	// Earnings drift the cached totals until the next recompute.
	store.UpdateAgent(leader.ID, func(live *Agent) {
		live.Coins = 400
		live.Reputation = 30
	})
	store.UpdateAgent(member.ID, func(live *Agent) {
		live.Coins = 150
		live.Reputation = 20
	})

	if err := s.RecomputeCrewStats(crewID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	crew, _ := store.Crew(crewID)
	if crew.TotalCoins != 550 || crew.TotalReputation != 50 || crew.MemberCount != 2 {
		t.Fatalf("recomputed totals: %+v", crew)
	}
}

func TestFormCrewsEventuallyForms(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Crews.ProposalChance = 1
	s, store, _ := newTestSimCfg(11, cfg)
	seedGeography(store)
	seedAgent(s, store, "Ledger", 500, 500, 100)
	seedAgent(s, store, "Friday", 520, 520, 100)

	for i := 0; i < 50 && len(store.Crews()) == 0; i++ {
		s.FormCrews()
	}
	crews := store.Crews()
	if len(crews) != 1 {
		t.Fatalf("crews = %d, want 1", len(crews))
	}
	crew := crews[0]
	if crew.MemberCount != 2 {
		t.Fatalf("member count = %d, want leader plus recruit", crew.MemberCount)
	}
	for _, a := range store.Agents() {
		if a.CrewID != crew.ID {
			t.Fatalf("agent %s not in the crew", a.Name)
		}
	}
}

func TestFormCrewsIgnoresDistantAndAffiliated(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Crews.ProposalChance = 1
	s, store, _ := newTestSimCfg(2, cfg)
	seedGeography(store)
	seedAgent(s, store, "Ledger", 500, 500, 100)
	seedAgent(s, store, "Friday", 2000, 2000, 100) // out of range

	for i := 0; i < 20; i++ {
		s.FormCrews()
	}
	if n := len(store.Crews()); n != 0 {
		t.Fatalf("crews = %d, want 0 with no one in range", n)
	}
}

func TestFormCrewsRollsPerProspect(t *testing.T) {
	cfg := tuning.Defaults()
	cfg.Crews.ProposalChance = 0
	s, store, clk := newTestSimCfg(3, cfg)
	seedGeography(store)
	seedAgent(s, store, "Ledger", 500, 500, 100)
	seedAgent(s, store, "Friday", 510, 510, 100)
	seedAgent(s, store, "KayaCan", 520, 520, 100)

	for i := 0; i < 30; i++ {
		s.FormCrews()
	}
	if n := len(store.Crews()); n != 0 {
		t.Fatalf("crews = %d, want 0 when every pitch roll fails", n)
	}
	// The pitch roll gates each prospect individually, so a zero chance
	// means no invite bubble ever goes up.
	if n := len(store.ActiveDialogue(clk.Now(), 50)); n != 0 {
		t.Fatalf("%d dialogue bubbles, want none without a passing pitch roll", n)
	}
}

func TestFormCrewsPitchesMissionReward(t *testing.T) {
	// A recruiter working a fat job sways risk-takers. KayaCan accepts at
	// bare sociability 0.3, or 0.48 with a >50 coin pitch; over many seeded
	// worlds the rich pitch must land more recruits.
	trial := func(seed int64, reward int) bool {
		cfg := tuning.Defaults()
		cfg.Crews.ProposalChance = 1
		s, store, _ := newTestSimCfg(seed, cfg)
		seedGeography(store)
		leader := seedAgent(s, store, "Ledger", 500, 500, 100)
		recruit := seedAgent(s, store, "KayaCan", 510, 510, 100)

		if reward > 0 {
			id := store.InsertMission(Mission{Title: "Big Job", Type: "deliver", Reward: reward})
			store.UpdateMission(id, func(live *Mission) { live.AssignedTo = leader.ID })
			store.UpdateAgent(leader.ID, func(live *Agent) { live.CurrentMission = id })
		}
		s.FormCrews()
		got, _ := store.Agent(recruit.ID)
		return got.CrewID != ""
	}

	rich, broke := 0, 0
	for seed := int64(0); seed < 400; seed++ {
		if trial(seed, 100) {
			rich++
		}
		if trial(seed, 0) {
			broke++
		}
	}
	if rich <= broke {
		t.Fatalf("recruits joined %d/400 worlds with a 100-coin pitch vs %d/400 without", rich, broke)
	}
}

func TestCrewActivityRecorded(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	leader := seedAgent(s, store, "Ledger", 500, 500, 100)
	member := seedAgent(s, store, "Friday", 510, 510, 100)

	crewID, _ := s.CreateCrew(leader.ID, "")
	s.JoinCrew(member.ID, crewID)

	var formed, joined bool
	for _, act := range store.RecentActivity(50) {
		switch act.Type {
		case ActivityCrewFormed:
			formed = true
		case ActivityCrewJoined:
			joined = true
		}
	}
	if !formed || !joined {
		t.Fatalf("activity feed missing crew events: formed=%v joined=%v", formed, joined)
	}
}

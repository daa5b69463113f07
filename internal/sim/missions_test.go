package sim

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func seedMission(s *Sim, store *Store, title string, target *Vec, reward int) Mission {
	id := store.InsertMission(Mission{
		Title:            title,
		Description:      "test mission",
		Type:             MissionGoTo,
		Target:           target,
		Reward:           reward,
		ReputationReward: 10,
		CreatedAt:        s.now(),
	})
	m, _ := store.Mission(id)
	return m
}

func TestAuctionAssignsIdleAgent(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 500, 500, 100)
	m := seedMission(s, store, "Run the package", &Vec{X: 600, Y: 600}, 80)

	s.AssignMissions()

	gotA, _ := store.Agent(a.ID)
	gotM, _ := store.Mission(m.ID)
	if gotA.CurrentMission != m.ID {
		t.Fatalf("agent mission = %q, want %q", gotA.CurrentMission, m.ID)
	}
	if gotM.AssignedTo != a.ID {
		t.Fatalf("mission assignee = %q, want %q", gotM.AssignedTo, a.ID)
	}
	if gotA.Target == nil || gotA.Target.X != 600 || gotA.Target.Y != 600 {
		t.Fatalf("agent target = %+v, want mission coordinates", gotA.Target)
	}
}

func TestAuctionSingleAssignmentInvariant(t *testing.T) {
	s, store, _ := newTestSim(3)
	seedGeography(store)
	for _, name := range []string{"KayaCan", "Friday", "Ledger", "Sage"} {
		seedAgent(s, store, name, 500, 500, 100)
	}
	m := seedMission(s, store, "Contested job", &Vec{X: 520, Y: 520}, 100)

	s.AssignMissions()

	gotM, _ := store.Mission(m.ID)
	if gotM.AssignedTo == "" {
		t.Fatal("mission should have been claimed")
	}
	holders := 0
	for _, a := range store.Agents() {
		if a.CurrentMission == m.ID {
			holders++
			if a.ID != gotM.AssignedTo {
				t.Fatalf("agent %s holds mission assigned to %s", a.ID, gotM.AssignedTo)
			}
		}
	}
	if holders != 1 {
		t.Fatalf("mission held by %d agents, want exactly 1", holders)
	}
}

func TestAuctionSkipsTiredAndBusyAgents(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	tired := seedAgent(s, store, "KayaCan", 500, 500, 15)
	busy := seedAgent(s, store, "Ledger", 500, 500, 100)
	store.UpdateAgent(busy.ID, func(live *Agent) { live.CurrentMission = "held" })
	store.InsertMission(Mission{ID: "held", Title: "held", Type: MissionGoTo, AssignedTo: busy.ID, CreatedAt: s.now()})

	m := seedMission(s, store, "Open job", &Vec{X: 600, Y: 600}, 80)
	s.AssignMissions()

	gotM, _ := store.Mission(m.ID)
	if gotM.AssignedTo != "" {
		t.Fatalf("mission assigned to %s, want unassigned", gotM.AssignedTo)
	}
	gotTired, _ := store.Agent(tired.ID)
	if gotTired.CurrentMission != "" {
		t.Fatal("tired agent should not bid")
	}
}

func TestCompleteMissionOnArrival(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 600, 600, 100)
	m := seedMission(s, store, "Short walk", &Vec{X: 610, Y: 610}, 80)
	if err := s.AssignMissionTo(a.ID, m.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	s.CompleteMissions()

	gotM, _ := store.Mission(m.ID)
	if !gotM.IsCompleted || gotM.CompletedBy != a.ID {
		t.Fatalf("mission not completed: %+v", gotM)
	}
	gotA, _ := store.Agent(a.ID)
	if gotA.Coins != 180 {
		t.Fatalf("coins = %d, want 180", gotA.Coins)
	}
	if gotA.Reputation != 10 {
		t.Fatalf("reputation = %d, want 10", gotA.Reputation)
	}
	if gotA.CurrentMission != "" {
		t.Fatal("completion should free the agent")
	}

	found := false
	for _, act := range store.RecentActivity(50) {
		if act.Type == ActivityMissionCompleted && strings.Contains(act.Message, "Short walk") {
			found = true
		}
	}
	if !found {
		t.Fatal("no mission_completed activity recorded")
	}
}

func TestCoordinatelessMissionCompletesOnTimer(t *testing.T) {
	s, store, clk := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "Friday", 600, 600, 100)
	m := seedMission(s, store, "Paperwork", nil, 60)
	if err := s.AssignMissionTo(a.ID, m.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	s.CompleteMissions()
	if got, _ := store.Mission(m.ID); got.IsCompleted {
		t.Fatal("completed before the timer")
	}

	clk.Advance(31 * time.Second)
	s.CompleteMissions()
	if got, _ := store.Mission(m.ID); !got.IsCompleted {
		t.Fatal("should complete after the timer")
	}
}

func TestAssignMissionToRejections(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 500, 500, 100)
	b := seedAgent(s, store, "Sage", 500, 500, 100)
	m := seedMission(s, store, "One seat", &Vec{X: 700, Y: 700}, 80)

	if err := s.AssignMissionTo(a.ID, m.ID); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := s.AssignMissionTo(b.ID, m.ID); !errors.Is(err, ErrMissionAssigned) {
		t.Fatalf("err = %v, want ErrMissionAssigned", err)
	}

	if err := s.CompleteMissionFor(a.ID, m.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.AssignMissionTo(b.ID, m.ID); !errors.Is(err, ErrMissionCompleted) {
		t.Fatalf("err = %v, want ErrMissionCompleted", err)
	}

	if err := s.AssignMissionTo("missing", m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCompletedMissionsLeaveAuctionPool(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 600, 600, 100)
	m := seedMission(s, store, "Done deal", &Vec{X: 605, Y: 605}, 80)
	if err := s.AssignMissionTo(a.ID, m.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	s.CompleteMissions()

	for _, open := range store.OpenMissions() {
		if open.ID == m.ID {
			t.Fatal("completed mission still in the open pool")
		}
	}
}

package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/talgya/agent-metro/internal/sim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().Truncate(time.Millisecond)

	src := sim.NewStore()
	agentID := src.InsertAgent(sim.Agent{
		Name:             "KayaCan",
		AvatarColor:      "#3b82f6",
		X:                123.5,
		Y:                456.5,
		Target:           &sim.Vec{X: 700, Y: 800},
		IsMoving:         true,
		Coins:            321,
		Reputation:       12,
		IsOnline:         true,
		LastSeen:         now,
		Archetype:        "KayaCan",
		Energy:           77.5,
		LastEnergyUpdate: now,
		WantedLevel:      2.5,
		LastWantedUpdate: now,
	})
	missionID := src.InsertMission(sim.Mission{
		Title:            "Run the package",
		Description:      "deliver it",
		Type:             sim.MissionDeliver,
		Target:           &sim.Vec{X: 700, Y: 800},
		Reward:           80,
		ReputationReward: 15,
		AssignedTo:       agentID,
		CreatedAt:        now,
	})
	src.UpdateAgent(agentID, func(a *sim.Agent) { a.CurrentMission = missionID })
	crewID := src.InsertCrew(sim.Crew{
		Name:            "KayaCan's Crew",
		LeaderID:        agentID,
		MemberCount:     1,
		TotalCoins:      321,
		TotalReputation: 12,
		CreatedAt:       now,
	})
	src.InsertVehicle(sim.Vehicle{
		Type:          sim.VehicleSports,
		X:             1200,
		Y:             1300,
		Color:         "#ef4444",
		Speed:         3.0,
		IsAvailable:   true,
		SpawnDistrict: "Downtown",
	})

	if err := db.SaveSnapshot(src); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := sim.NewStore()
	restored, err := db.LoadSnapshot(dst)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !restored {
		t.Fatal("load reported an empty database")
	}

	a, ok := dst.Agent(agentID)
	if !ok {
		t.Fatal("agent missing after restore")
	}
	if a.Name != "KayaCan" || a.Coins != 321 || a.Energy != 77.5 || a.WantedLevel != 2.5 {
		t.Fatalf("agent fields lost: %+v", a)
	}
	if a.Target == nil || a.Target.X != 700 {
		t.Fatalf("agent target lost: %+v", a.Target)
	}
	if !a.LastSeen.Equal(now) {
		t.Fatalf("last seen = %v, want %v", a.LastSeen, now)
	}
	if a.CurrentMission != missionID {
		t.Fatalf("mission link lost: %q", a.CurrentMission)
	}

	m, ok := dst.Mission(missionID)
	if !ok || m.AssignedTo != agentID || m.Reward != 80 {
		t.Fatalf("mission restore: %+v", m)
	}
	if m.IsCompleted || !m.CompletedAt.IsZero() {
		t.Fatalf("uncompleted mission gained completion state: %+v", m)
	}

	c, ok := dst.Crew(crewID)
	if !ok || c.LeaderID != agentID || c.TotalCoins != 321 {
		t.Fatalf("crew restore: %+v", c)
	}

	vehicles := dst.Vehicles()
	if len(vehicles) != 1 || vehicles[0].Speed != 3.0 || !vehicles[0].IsAvailable {
		t.Fatalf("vehicle restore: %+v", vehicles)
	}
}

func TestLoadSnapshotEmptyDatabase(t *testing.T) {
	db := openTestDB(t)
	restored, err := db.LoadSnapshot(sim.NewStore())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored {
		t.Fatal("empty database reported as restored")
	}
}

func TestSnapshotIsFullReplace(t *testing.T) {
	db := openTestDB(t)

	first := sim.NewStore()
	stale := first.InsertAgent(sim.Agent{Name: "Stale", LastSeen: time.Now(),
		LastEnergyUpdate: time.Now(), LastWantedUpdate: time.Now()})
	if err := db.SaveSnapshot(first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := sim.NewStore()
	second.InsertAgent(sim.Agent{Name: "Fresh", LastSeen: time.Now(),
		LastEnergyUpdate: time.Now(), LastWantedUpdate: time.Now()})
	if err := db.SaveSnapshot(second); err != nil {
		t.Fatalf("resave: %v", err)
	}

	dst := sim.NewStore()
	if _, err := db.LoadSnapshot(dst); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := dst.Agent(stale); ok {
		t.Fatal("stale agent survived a snapshot replace")
	}
	if n := len(dst.Agents()); n != 1 {
		t.Fatalf("agents = %d, want 1", n)
	}
}

func TestActivityLogAppendAndRead(t *testing.T) {
	db := openTestDB(t)
	base := time.Now().Truncate(time.Millisecond)

	entries := []sim.Activity{
		{Type: sim.ActivityAgentJoined, AgentName: "KayaCan", Message: "KayaCan joined The Workshop", Timestamp: base},
		{Type: sim.ActivityMissionCompleted, AgentName: "KayaCan", Message: "KayaCan completed \"job\" (+50 coins)", Timestamp: base.Add(time.Second)},
		{Type: sim.ActivityEvent, AgentName: "Friday", Message: "Friday got into a sedan", Timestamp: base.Add(2 * time.Second)},
	}
	if err := db.AppendActivity(entries); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := db.RecentActivity(2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	// Chronological order, most recent window.
	if got[0].Type != sim.ActivityMissionCompleted || got[1].Type != sim.ActivityEvent {
		t.Fatalf("window/order wrong: %+v", got)
	}
	if !got[1].Timestamp.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("timestamp lost: %v", got[1].Timestamp)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveMeta("seed", "42"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveMeta("seed", "43"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := db.GetMeta("seed")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "43" {
		t.Fatalf("meta = %q, want 43", got)
	}
}

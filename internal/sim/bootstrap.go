package sim

import (
	"fmt"
	"math/rand"

	"github.com/talgya/agent-metro/internal/personality"
	"github.com/talgya/agent-metro/internal/world"
)

// missionSeeds is the starting mission board. Coordinate-less missions
// complete on a timer once assigned.
func missionSeeds() []Mission {
	return []Mission{
		{
			Title:          "Welcome to The Workshop",
			Description:    "Navigate to the central plaza to get oriented",
			Type:           MissionGoTo,
			Target:         &Vec{X: 250, Y: 250},
			TargetLocation: "Central Plaza",
			Reward:         50, ReputationReward: 10,
		},
		{
			Title:          "Collect Data Fragments",
			Description:    "Gather scattered data fragments around the district",
			Type:           MissionCollect,
			TargetLocation: "Data Nodes",
			Reward:         75, ReputationReward: 15,
		},
		{
			Title:          "Deliver Message to Sage",
			Description:    "Find Sage and deliver an important message",
			Type:           MissionDeliver,
			TargetLocation: "Sage's Location",
			Reward:         100, ReputationReward: 20,
		},
		{
			Title:          "Explore the Outskirts",
			Description:    "Scout the edges of The Workshop for new opportunities",
			Type:           MissionGoTo,
			Target:         &Vec{X: 50, Y: 50},
			TargetLocation: "Workshop Outskirts",
			Reward:         60, ReputationReward: 12,
		},
		{
			Title:          "Network with Other Agents",
			Description:    "Meet and interact with 3 different agents",
			Type:           MissionCollect,
			TargetLocation: "Agent Gathering",
			Reward:         80, ReputationReward: 25,
		},
	}
}

// agentSeeds are the four founding agents, one per archetype.
var agentSeeds = []struct {
	Name  string
	Color string
}{
	{"KayaCan", "#3b82f6"},
	{"Friday", "#10b981"},
	{"Ledger", "#f59e0b"},
	{"Sage", "#8b5cf6"},
}

// Initialize seeds the world: geography, the mission board, the vehicle
// fleet, and the founding agents. Idempotent, pools that already have
// entries are left alone.
func (s *Sim) Initialize() {
	s.store.SetLocations(world.Locations())

	now := s.now()
	if len(s.store.Missions()) == 0 {
		for _, m := range missionSeeds() {
			m.CreatedAt = now
			s.store.InsertMission(m)
		}
	}
	if len(s.store.Vehicles()) == 0 {
		for _, v := range vehicleSeeds {
			v.IsAvailable = true
			s.store.InsertVehicle(v)
		}
	}
	if len(s.store.Agents()) == 0 {
		for _, seed := range agentSeeds {
			s.CreateAgent(seed.Name, seed.Color)
		}
	}
	s.log.Info("world initialized",
		"agents", len(s.store.Agents()),
		"missions", len(s.store.Missions()),
		"vehicles", len(s.store.Vehicles()),
		"locations", len(s.store.Locations()))
}

// CreateAgent spawns a new agent in the Workshop starting area. The agent's
// name doubles as its archetype when it matches one; everyone else gets the
// default temperament.
func (s *Sim) CreateAgent(name, avatarColor string) AgentID {
	now := s.now()
	var x, y float64
	s.withRNG(func(rng *rand.Rand) {
		x = 100 + rng.Float64()*200
		y = 100 + rng.Float64()*200
	})

	id := s.store.InsertAgent(Agent{
		Name:             name,
		AvatarColor:      avatarColor,
		X:                x,
		Y:                y,
		Coins:            100,
		Reputation:       0,
		IsOnline:         true,
		LastSeen:         now,
		Archetype:        personality.Normalize(name),
		Energy:           100,
		LastEnergyUpdate: now,
		LastWantedUpdate: now,
	})

	s.store.AppendActivity(Activity{
		Type:      ActivityAgentJoined,
		AgentID:   id,
		AgentName: name,
		Message:   fmt.Sprintf("%s joined The Workshop", name),
		Timestamp: now,
	})
	s.log.Info("agent joined", "agent", name, "archetype", personality.Normalize(name))
	return id
}

// Reset wipes all dynamic state. Call Initialize afterwards to re-seed.
func (s *Sim) Reset() {
	s.store.Reset()
	s.log.Warn("world reset")
}

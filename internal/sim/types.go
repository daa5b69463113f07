// Package sim provides the world-state store and the behavioral subsystems
// that act on it: movement and energy, mission auction, crew formation, the
// wanted/security system, shared vehicles, and contextual dialogue.
package sim

import (
	"time"
)

// Entity identifiers. UUIDs issued by the store; the zero value means "none".
type (
	AgentID    string
	MissionID  string
	CrewID     string
	VehicleID  string
	SecurityID string
	DialogueID string
)

// Vec is a point in world coordinates.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Agent is an autonomous actor in the city.
type Agent struct {
	ID          AgentID `json:"id"`
	Name        string  `json:"name"`
	AvatarColor string  `json:"avatar_color"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Target   *Vec    `json:"target,omitempty"`
	IsMoving bool    `json:"is_moving"`

	Coins      int `json:"coins"`
	Reputation int `json:"reputation"`

	CrewID         CrewID    `json:"crew_id,omitempty"`
	CurrentMission MissionID `json:"current_mission,omitempty"`

	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`

	// Archetype is normalized at creation and never re-defaulted elsewhere.
	Archetype string `json:"archetype"`

	Energy           float64   `json:"energy"` // 0–100
	LastEnergyUpdate time.Time `json:"last_energy_update"`

	WantedLevel      float64   `json:"wanted_level"` // 0–5 stars
	LastWantedUpdate time.Time `json:"last_wanted_update"`
	IsBeingChased    bool      `json:"is_being_chased"`

	VehicleID   VehicleID `json:"vehicle_id,omitempty"`
	IsInVehicle bool      `json:"is_in_vehicle"`
}

// Mission types.
const (
	MissionGoTo    = "go_to"
	MissionCollect = "collect"
	MissionDeliver = "deliver"
)

// Mission is a job agents bid on and complete.
type Mission struct {
	ID          MissionID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`

	Target         *Vec   `json:"target,omitempty"`
	TargetLocation string `json:"target_location,omitempty"`

	Reward           int `json:"reward"`
	ReputationReward int `json:"reputation_reward"`

	IsCompleted bool      `json:"is_completed"`
	AssignedTo  AgentID   `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	CompletedBy AgentID   `json:"completed_by,omitempty"`
}

// Crew is a social group of agents. Aggregate totals are eventually
// consistent; RecomputeCrewStats re-derives them from current members.
type Crew struct {
	ID              CrewID    `json:"id"`
	Name            string    `json:"name"`
	LeaderID        AgentID   `json:"leader_id"`
	MemberCount     int       `json:"member_count"`
	TotalCoins      int       `json:"total_coins"`
	TotalReputation int       `json:"total_reputation"`
	CreatedAt       time.Time `json:"created_at"`
}

// Vehicle types.
const (
	VehicleSedan  = "sedan"
	VehicleSports = "sports"
	VehicleVan    = "van"
)

// Vehicle is a shared ride parked somewhere in the city.
type Vehicle struct {
	ID            VehicleID `json:"id"`
	Type          string    `json:"type"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Color         string    `json:"color"`
	Speed         float64   `json:"speed"` // speed multiplier over walking
	IsAvailable   bool      `json:"is_available"`
	OwnerID       AgentID   `json:"owner_id,omitempty"`
	SpawnDistrict string    `json:"spawn_district"`
}

// SecurityNPC is a transient chaser pursuing a wanted agent.
type SecurityNPC struct {
	ID            SecurityID `json:"id"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	TargetAgentID AgentID    `json:"target_agent_id"`
	TargetX       float64    `json:"target_x"`
	TargetY       float64    `json:"target_y"`
	IsChasing     bool       `json:"is_chasing"`
	Speed         float64    `json:"speed"`
	SpawnedAt     time.Time  `json:"spawned_at"`
	DespawnAt     time.Time  `json:"despawn_at"`
}

// DialogueBubble is a short-lived speech bubble anchored to an agent's
// position at the moment it spoke.
type DialogueBubble struct {
	ID        DialogueID `json:"id"`
	AgentID   AgentID    `json:"agent_id"`
	AgentName string     `json:"agent_name"`
	Message   string     `json:"message"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Context   string     `json:"context,omitempty"`
}

// Activity feed entry types.
const (
	ActivityAgentJoined      = "agent_joined"
	ActivityMissionCompleted = "mission_completed"
	ActivityCrewFormed       = "crew_formed"
	ActivityCrewJoined       = "crew_joined"
	ActivityDialogue         = "dialogue"
	ActivityEvent            = "event"
)

// Activity is an append-only narrative record of a notable event.
type Activity struct {
	Type      string    `json:"type"`
	AgentID   AgentID   `json:"agent_id,omitempty"`
	AgentName string    `json:"agent_name,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

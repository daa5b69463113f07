// Package tuning holds the named policy constants that drive agent behavior.
// Defaults match the live simulation; a YAML file can override any field so
// deployments (and tests) can substitute their own policies.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the full policy set for the simulation.
type Tuning struct {
	Movement  Movement  `yaml:"movement"`
	Energy    Energy    `yaml:"energy"`
	Missions  Missions  `yaml:"missions"`
	Crews     Crews     `yaml:"crews"`
	Wanted    Wanted    `yaml:"wanted"`
	Vehicles  Vehicles  `yaml:"vehicles"`
	Dialogue  Dialogue  `yaml:"dialogue"`
	Scheduler Scheduler `yaml:"scheduler"`
}

type Movement struct {
	BaseSpeed        float64 `yaml:"base_speed"`        // units per tick on foot
	ArrivalRadius    float64 `yaml:"arrival_radius"`    // per-axis distance counting as arrived
	EfficiencyBoost  float64 `yaml:"efficiency_boost"`  // speed multiplier above the efficiency cutoff
	EfficiencyCutoff float64 `yaml:"efficiency_cutoff"` // trait value that earns the boost
	ExplorationBias  float64 `yaml:"exploration_bias"`  // trait value above which targets are uniform
	BuildingJitter   float64 `yaml:"building_jitter"`   // ± offset around a building target
	WorldMargin      float64 `yaml:"world_margin"`      // kept clear of world edges when exploring
	ExhaustionFloor  float64 `yaml:"exhaustion_floor"`  // below this energy the agent halts
}

type Energy struct {
	DrainPerHour     float64 `yaml:"drain_per_hour"`      // base idle drain
	MoveDrainPerHour float64 `yaml:"move_drain_per_hour"` // extra drain while moving
	RechargePerHour  float64 `yaml:"recharge_per_hour"`   // recharge rate near the café
	RechargeRadius   float64 `yaml:"recharge_radius"`
	LowThreshold     float64 `yaml:"low_threshold"` // below this, head to the café
}

type Missions struct {
	ScoreThreshold   float64 `yaml:"score_threshold"`    // minimum score to accept a mission
	MinEnergy        float64 `yaml:"min_energy"`         // rest requirement to bid
	CandidateCount   int     `yaml:"candidate_count"`    // top-N candidates kept per agent
	CompleteRadius   float64 `yaml:"complete_radius"`    // distance for location auto-complete
	TimedCompleteSec float64 `yaml:"timed_complete_sec"` // age for coordinate-less auto-complete
	RivalTauntChance float64 `yaml:"rival_taunt_chance"` // losers emitting competition dialogue
	ScoreNoise       float64 `yaml:"score_noise"`        // uniform noise half-width on scores
}

type Crews struct {
	ProximityRadius float64 `yaml:"proximity_radius"`
	ProposalChance  float64 `yaml:"proposal_chance"`
	DeclineChance   float64 `yaml:"decline_chance"` // chance a rejection produces dialogue
}

type Wanted struct {
	DecayAmount      float64 `yaml:"decay_amount"` // stars shed per decay interval
	DecayIntervalSec float64 `yaml:"decay_interval_sec"`
	MaxLevel         float64 `yaml:"max_level"`
	ChaseThreshold   float64 `yaml:"chase_threshold"` // stars at which chasers spawn
	MaxChasers       int     `yaml:"max_chasers"`
	SpawnRadiusMin   float64 `yaml:"spawn_radius_min"`
	SpawnRadiusMax   float64 `yaml:"spawn_radius_max"`
	ChaserSpeed      float64 `yaml:"chaser_speed"`
	ChaserLifeSec    float64 `yaml:"chaser_life_sec"`
	CaptureRadius    float64 `yaml:"capture_radius"`
	CaptureCoinCut   float64 `yaml:"capture_coin_cut"` // fraction of coins lost on capture
	SafeHouseHills   float64 `yaml:"safe_house_hills"` // heat shed at a Hills safe house
	SafeHouseOther   float64 `yaml:"safe_house_other"`
}

type Vehicles struct {
	EnterRadius float64 `yaml:"enter_radius"`
}

type Dialogue struct {
	BubbleLifeSec    float64 `yaml:"bubble_life_sec"`
	LowEnergyChance  float64 `yaml:"low_energy_chance"`
	GreetingChance   float64 `yaml:"greeting_chance"`
	GreetingRadius   float64 `yaml:"greeting_radius"`
	MaxOpportunities int     `yaml:"max_opportunities"` // realized per pass
}

type Scheduler struct {
	MovementMs        int `yaml:"movement_ms"`
	SecurityMs        int `yaml:"security_ms"`
	VehiclesMs        int `yaml:"vehicles_ms"`
	UpkeepMs          int `yaml:"upkeep_ms"`
	MissionsMs        int `yaml:"missions_ms"`
	SocialMs          int `yaml:"social_ms"`
	DialogueCleanupMs int `yaml:"dialogue_cleanup_ms"`
	SnapshotMs        int `yaml:"snapshot_ms"`
}

// Defaults returns the live policy set.
func Defaults() Tuning {
	return Tuning{
		Movement: Movement{
			BaseSpeed:        0.5,
			ArrivalRadius:    5,
			EfficiencyBoost:  1.2,
			EfficiencyCutoff: 0.8,
			ExplorationBias:  0.7,
			BuildingJitter:   25,
			WorldMargin:      50,
			ExhaustionFloor:  5,
		},
		Energy: Energy{
			DrainPerHour:     20,
			MoveDrainPerHour: 10,
			RechargePerHour:  50,
			RechargeRadius:   30,
			LowThreshold:     30,
		},
		Missions: Missions{
			ScoreThreshold:   30,
			MinEnergy:        20,
			CandidateCount:   3,
			CompleteRadius:   20,
			TimedCompleteSec: 30,
			RivalTauntChance: 0.3,
			ScoreNoise:       10,
		},
		Crews: Crews{
			ProximityRadius: 80,
			ProposalChance:  0.1,
			DeclineChance:   0.3,
		},
		Wanted: Wanted{
			DecayAmount:      0.5,
			DecayIntervalSec: 30,
			MaxLevel:         5,
			ChaseThreshold:   3,
			MaxChasers:       3,
			SpawnRadiusMin:   100,
			SpawnRadiusMax:   150,
			ChaserSpeed:      1.5,
			ChaserLifeSec:    60,
			CaptureRadius:    5,
			CaptureCoinCut:   0.1,
			SafeHouseHills:   2,
			SafeHouseOther:   1,
		},
		Vehicles: Vehicles{
			EnterRadius: 30,
		},
		Dialogue: Dialogue{
			BubbleLifeSec:    4,
			LowEnergyChance:  0.1,
			GreetingChance:   0.05,
			GreetingRadius:   50,
			MaxOpportunities: 2,
		},
		Scheduler: Scheduler{
			MovementMs:        100,
			SecurityMs:        200,
			VehiclesMs:        1000,
			UpkeepMs:          5000,
			MissionsMs:        3000,
			SocialMs:          8000,
			DialogueCleanupMs: 10000,
			SnapshotMs:        60000,
		},
	}
}

// Load reads a YAML policy file over the defaults. Fields the file omits keep
// their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %w", err)
	}
	return t, nil
}

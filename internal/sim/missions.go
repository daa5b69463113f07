package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/talgya/agent-metro/internal/personality"
	"github.com/talgya/agent-metro/internal/world"
)

type missionBid struct {
	agent   Agent
	mission Mission
	score   float64
}

// AssignMissions runs one auction pass. Every idle, rested, online agent
// scores the open mission pool, keeps its top candidates, and bids. Bids are
// settled best score first; an agent's losing bid falls through to its next
// candidate. Scores are drawn once per (agent, mission) pair per pass.
func (s *Sim) AssignMissions() {
	open := s.store.OpenMissions()
	if len(open) == 0 {
		return
	}

	var bids []missionBid
	for _, a := range s.store.Agents() {
		if !a.IsOnline || a.CurrentMission != "" || a.Energy <= s.cfg.Missions.MinEnergy {
			continue
		}
		bids = append(bids, s.scoreMissions(a, open)...)
	}
	if len(bids) == 0 {
		return
	}

	sort.Slice(bids, func(i, j int) bool { return bids[i].score > bids[j].score })

	assignedAgents := make(map[AgentID]bool)
	assignedMissions := make(map[MissionID]AgentID)
	for _, b := range bids {
		if assignedAgents[b.agent.ID] {
			continue
		}
		if _, taken := assignedMissions[b.mission.ID]; taken {
			// Lost the contest for this mission; the competitive ones
			// sometimes say so out loud.
			if s.chance(s.cfg.Missions.RivalTauntChance) {
				s.speak(b.agent, personality.ContextCompetition,
					s.line(b.agent.Archetype, personality.ContextCompetition))
			}
			continue
		}
		if s.assignMission(b.agent, b.mission) {
			assignedAgents[b.agent.ID] = true
			assignedMissions[b.mission.ID] = b.agent.ID
		}
	}
}

// scoreMissions evaluates the pool for one agent and returns its top
// candidates at or above the acceptance threshold.
func (s *Sim) scoreMissions(a Agent, open []Mission) []missionBid {
	var bids []missionBid
	s.withRNG(func(rng *rand.Rand) {
		for _, m := range open {
			in := personality.MissionInput{Type: m.Type, Reward: m.Reward}
			if m.Target != nil {
				in.TargetX = &m.Target.X
				in.TargetY = &m.Target.Y
			}
			score := personality.EvaluateMission(a.Archetype, in, a.X, a.Y, a.Energy, s.cfg.Missions.ScoreNoise, rng)
			if score >= s.cfg.Missions.ScoreThreshold {
				bids = append(bids, missionBid{agent: a, mission: m, score: score})
			}
		}
	})
	sort.Slice(bids, func(i, j int) bool { return bids[i].score > bids[j].score })
	if len(bids) > s.cfg.Missions.CandidateCount {
		bids = bids[:s.cfg.Missions.CandidateCount]
	}
	return bids
}

// assignMission links agent and mission, re-checking both sides under the
// store lock in case either changed since the pass snapshot.
func (s *Sim) assignMission(a Agent, m Mission) bool {
	claimed := s.store.UpdateMission(m.ID, func(live *Mission) {
		if live.IsCompleted || live.AssignedTo != "" {
			return
		}
		live.AssignedTo = a.ID
	})
	if !claimed {
		return false
	}
	if live, ok := s.store.Mission(m.ID); !ok || live.AssignedTo != a.ID {
		return false
	}

	ok := s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.CurrentMission = m.ID
		if m.Target != nil {
			t := *m.Target
			live.Target = &t
			live.IsMoving = true
		}
	})
	if !ok {
		s.store.UpdateMission(m.ID, func(live *Mission) { live.AssignedTo = "" })
		return false
	}

	s.speak(a, personality.ContextMissionStart, s.missionStartLine(a.Archetype, m.Title, m.Reward))
	s.log.Debug("mission assigned", "agent", a.Name, "mission", m.Title)
	return true
}

// CompleteMissions finishes missions whose assignee has arrived. Missions
// without target coordinates complete on a timer instead.
func (s *Sim) CompleteMissions() {
	now := s.now()
	for _, a := range s.store.Agents() {
		if a.CurrentMission == "" {
			continue
		}
		m, ok := s.store.Mission(a.CurrentMission)
		if !ok || m.IsCompleted || m.AssignedTo != a.ID {
			continue
		}

		done := false
		if m.Target != nil {
			done = world.Distance(a.X, a.Y, m.Target.X, m.Target.Y) <= s.cfg.Missions.CompleteRadius
		} else {
			done = now.Sub(m.CreatedAt).Seconds() > s.cfg.Missions.TimedCompleteSec
		}
		if done {
			s.completeMission(a, m)
		}
	}
}

// completeMission credits the agent and retires the mission.
func (s *Sim) completeMission(a Agent, m Mission) {
	now := s.now()
	s.store.UpdateMission(m.ID, func(live *Mission) {
		live.IsCompleted = true
		live.CompletedAt = now
		live.CompletedBy = a.ID
	})
	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.Coins += m.Reward
		live.Reputation += m.ReputationReward
		live.CurrentMission = ""
		live.Target = nil
		live.IsMoving = false
		live.LastSeen = now
	})

	s.store.AppendActivity(Activity{
		Type:      ActivityMissionCompleted,
		AgentID:   a.ID,
		AgentName: a.Name,
		Message:   fmt.Sprintf("%s completed %q (+%d coins)", a.Name, m.Title, m.Reward),
		Timestamp: now,
	})
	s.speak(a, personality.ContextMissionComplete,
		s.line(a.Archetype, personality.ContextMissionComplete))
	s.log.Info("mission completed", "agent", a.Name, "mission", m.Title, "reward", m.Reward)
}

// AssignMissionTo is the explicit assignment entry point.
func (s *Sim) AssignMissionTo(agentID AgentID, missionID MissionID) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	m, ok := s.store.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission %s: %w", missionID, ErrNotFound)
	}
	if m.IsCompleted {
		return ErrMissionCompleted
	}
	if m.AssignedTo != "" {
		return ErrMissionAssigned
	}
	if !s.assignMission(a, m) {
		return ErrMissionAssigned
	}
	return nil
}

// CompleteMissionFor completes an agent's assigned mission regardless of
// position. Used by the admin surface.
func (s *Sim) CompleteMissionFor(agentID AgentID, missionID MissionID) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	m, ok := s.store.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission %s: %w", missionID, ErrNotFound)
	}
	if m.IsCompleted {
		return ErrMissionCompleted
	}
	if m.AssignedTo != a.ID {
		return ErrMissionAssigned
	}
	s.completeMission(a, m)
	return nil
}

package sim

import (
	"fmt"
	"math/rand"

	"github.com/talgya/agent-metro/internal/personality"
	"github.com/talgya/agent-metro/internal/world"
)

// FormCrews runs one social pass. Networker archetypes occasionally propose
// crews to unaffiliated agents standing nearby, one roll per prospect; the
// target decides by its own personality, swayed by the payout of whatever job
// the recruiter is working. At most one crew change happens per pass, which
// keeps the social scene from reorganizing all at once.
func (s *Sim) FormCrews() {
	agents := s.store.Agents()

	for _, leader := range agents {
		if !leader.IsOnline || leader.Archetype != personality.ArchLedger {
			continue
		}
		// Affiliated agents only recruit for crews they lead.
		var crew Crew
		if leader.CrewID != "" {
			c, ok := s.store.Crew(leader.CrewID)
			if !ok || c.LeaderID != leader.ID {
				continue
			}
			crew = c
		}
		pitchReward := 0
		if leader.CurrentMission != "" {
			if m, ok := s.store.Mission(leader.CurrentMission); ok && !m.IsCompleted {
				pitchReward = m.Reward
			}
		}

		for _, cand := range agents {
			if cand.ID == leader.ID || !cand.IsOnline || cand.CrewID != "" {
				continue
			}
			if world.Distance(leader.X, leader.Y, cand.X, cand.Y) > s.cfg.Crews.ProximityRadius {
				continue
			}
			if !s.chance(s.cfg.Crews.ProposalChance) {
				continue
			}

			s.speak(leader, personality.ContextCrewInvite,
				s.line(leader.Archetype, personality.ContextCrewInvite))

			nearby := s.countNearby(agents, cand)
			var accepted bool
			s.withRNG(func(rng *rand.Rand) {
				accepted = personality.ShouldJoinCrew(cand.Archetype, 0, nearby, pitchReward, rng)
			})
			if !accepted {
				if s.chance(s.cfg.Crews.DeclineChance) {
					s.speak(cand, personality.ContextCrewDecline,
						s.line(cand.Archetype, personality.ContextCrewDecline))
				}
				continue
			}

			if leader.CrewID == "" {
				id, err := s.CreateCrew(leader.ID, "")
				if err != nil {
					return
				}
				crew, _ = s.store.Crew(id)
			}
			if err := s.JoinCrew(cand.ID, crew.ID); err == nil {
				return
			}
		}
	}
}

// countNearby counts other online agents within the crew proximity radius.
func (s *Sim) countNearby(agents []Agent, of Agent) int {
	n := 0
	for _, a := range agents {
		if a.ID == of.ID || !a.IsOnline {
			continue
		}
		if world.Distance(of.X, of.Y, a.X, a.Y) <= s.cfg.Crews.ProximityRadius {
			n++
		}
	}
	return n
}

// CreateCrew founds a new crew led by the given agent. An empty name
// defaults to "<Leader>'s Crew". The leader must be unaffiliated.
func (s *Sim) CreateCrew(leaderID AgentID, name string) (CrewID, error) {
	leader, ok := s.store.Agent(leaderID)
	if !ok {
		return "", fmt.Errorf("agent %s: %w", leaderID, ErrNotFound)
	}
	if leader.CrewID != "" {
		return "", ErrAlreadyInCrew
	}
	if name == "" {
		name = fmt.Sprintf("%s's Crew", leader.Name)
	}

	now := s.now()
	crewID := s.store.InsertCrew(Crew{
		Name:            name,
		LeaderID:        leader.ID,
		MemberCount:     1,
		TotalCoins:      leader.Coins,
		TotalReputation: leader.Reputation,
		CreatedAt:       now,
	})
	s.store.UpdateAgent(leader.ID, func(live *Agent) {
		live.CrewID = crewID
	})

	s.store.AppendActivity(Activity{
		Type:      ActivityCrewFormed,
		AgentID:   leader.ID,
		AgentName: leader.Name,
		Message:   fmt.Sprintf("%s formed %s", leader.Name, name),
		Timestamp: now,
	})
	s.log.Info("crew formed", "crew", name, "leader", leader.Name)
	return crewID, nil
}

// JoinCrew adds an unaffiliated agent to an existing crew.
func (s *Sim) JoinCrew(agentID AgentID, crewID CrewID) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if a.CrewID != "" {
		return ErrAlreadyInCrew
	}
	crew, ok := s.store.Crew(crewID)
	if !ok {
		return fmt.Errorf("crew %s: %w", crewID, ErrNotFound)
	}

	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.CrewID = crewID
	})
	s.store.UpdateCrew(crewID, func(live *Crew) {
		live.MemberCount++
		live.TotalCoins += a.Coins
		live.TotalReputation += a.Reputation
	})

	s.store.AppendActivity(Activity{
		Type:      ActivityCrewJoined,
		AgentID:   a.ID,
		AgentName: a.Name,
		Message:   fmt.Sprintf("%s joined %s", a.Name, crew.Name),
		Timestamp: s.now(),
	})
	return nil
}

// RecomputeCrewStats re-derives a crew's aggregate totals from its current
// members. Totals drift as members earn between recomputes; this is the
// reconciliation point.
func (s *Sim) RecomputeCrewStats(crewID CrewID) error {
	if _, ok := s.store.Crew(crewID); !ok {
		return fmt.Errorf("crew %s: %w", crewID, ErrNotFound)
	}
	members := s.store.CrewMembers(crewID)
	coins, rep := 0, 0
	for _, m := range members {
		coins += m.Coins
		rep += m.Reputation
	}
	s.store.UpdateCrew(crewID, func(live *Crew) {
		live.MemberCount = len(members)
		live.TotalCoins = coins
		live.TotalReputation = rep
	})
	return nil
}

// RecomputeAllCrewStats reconciles every crew.
func (s *Sim) RecomputeAllCrewStats() {
	for _, c := range s.store.Crews() {
		if err := s.RecomputeCrewStats(c.ID); err != nil {
			s.log.Warn("crew recompute failed", "crew", c.ID, "error", err)
		}
	}
}

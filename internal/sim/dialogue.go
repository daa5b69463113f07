package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/talgya/agent-metro/internal/personality"
	"github.com/talgya/agent-metro/internal/world"
)

// speak posts a dialogue bubble anchored at the agent's current position.
// Noteworthy contexts are echoed onto the activity feed.
func (s *Sim) speak(a Agent, context, message string) {
	now := s.now()
	s.store.InsertDialogue(DialogueBubble{
		AgentID:   a.ID,
		AgentName: a.Name,
		Message:   message,
		X:         a.X,
		Y:         a.Y,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.cfg.Dialogue.BubbleLifeSec * float64(time.Second))),
		Context:   context,
	})

	if personality.Noteworthy(context) {
		s.store.AppendActivity(Activity{
			Type:      ActivityDialogue,
			AgentID:   a.ID,
			AgentName: a.Name,
			Message:   fmt.Sprintf("%s: %s", a.Name, message),
			Timestamp: now,
		})
	}
}

// Say posts an explicit dialogue bubble for an agent.
func (s *Sim) Say(agentID AgentID, message, context string) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	s.speak(a, context, message)
	return nil
}

// CheckDialogueOpportunities scans for ambient chatter: low-energy grumbling
// and greetings between idle agents standing near each other. At most a few
// opportunities are realized per pass so the feed never floods.
func (s *Sim) CheckDialogueOpportunities() {
	budget := s.cfg.Dialogue.MaxOpportunities
	if budget <= 0 {
		return
	}
	agents := s.store.Agents()

	for _, a := range agents {
		if budget == 0 {
			return
		}
		if !a.IsOnline {
			continue
		}
		if a.Energy < s.cfg.Energy.LowThreshold && s.chance(s.cfg.Dialogue.LowEnergyChance) {
			s.speak(a, personality.ContextEnergyLow,
				s.line(a.Archetype, personality.ContextEnergyLow))
			budget--
		}
	}

	for i, a := range agents {
		if budget == 0 {
			return
		}
		if !a.IsOnline || a.IsMoving {
			continue
		}
		for _, b := range agents[i+1:] {
			if budget == 0 {
				return
			}
			if !b.IsOnline || b.IsMoving {
				continue
			}
			if world.Distance(a.X, a.Y, b.X, b.Y) > s.cfg.Dialogue.GreetingRadius {
				continue
			}
			if s.chance(s.cfg.Dialogue.GreetingChance) {
				s.speak(a, personality.ContextNearAgent, s.greetingLine(a.Archetype, b.Name))
				budget--
			}
		}
	}
}

// CleanupDialogue deletes expired bubbles. Safe to run repeatedly.
func (s *Sim) CleanupDialogue() {
	now := s.now()
	for _, d := range s.store.ExpiredDialogue(now) {
		s.store.DeleteDialogue(d.ID)
	}
}

// Locked wrappers around the personality line pickers.

func (s *Sim) line(archetype, context string) string {
	var out string
	s.withRNG(func(rng *rand.Rand) {
		out = personality.Line(archetype, context, rng)
	})
	return out
}

func (s *Sim) missionStartLine(archetype, title string, reward int) string {
	var out string
	s.withRNG(func(rng *rand.Rand) {
		out = personality.MissionStartLine(archetype, title, reward, rng)
	})
	return out
}

func (s *Sim) greetingLine(archetype, targetName string) string {
	var out string
	s.withRNG(func(rng *rand.Rand) {
		out = personality.GreetingLine(archetype, targetName, rng)
	})
	return out
}

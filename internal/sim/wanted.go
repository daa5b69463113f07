package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/talgya/agent-metro/internal/world"
)

// AddHeat raises an agent's wanted level, clamped to the maximum, and records
// the reason on the activity feed. Crossing the chase threshold spawns
// security chasers unless some are already on the agent's tail.
func (s *Sim) AddHeat(agentID AgentID, amount float64, reason string) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	now := s.now()
	level := math.Min(s.cfg.Wanted.MaxLevel, a.WantedLevel+amount)

	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.WantedLevel = level
		live.LastWantedUpdate = now
		live.IsBeingChased = level >= s.cfg.Wanted.ChaseThreshold
	})

	msg := fmt.Sprintf("%s gained heat (%d stars)", a.Name, int(math.Floor(level)))
	if reason != "" {
		msg = fmt.Sprintf("%s gained heat: %s (%d stars)", a.Name, reason, int(math.Floor(level)))
	}
	s.store.AppendActivity(Activity{
		Type:      ActivityEvent,
		AgentID:   a.ID,
		AgentName: a.Name,
		Message:   msg,
		Timestamp: now,
	})

	if level >= s.cfg.Wanted.ChaseThreshold && len(s.store.SecurityTargeting(a.ID)) == 0 {
		s.spawnChasers(a, level)
	}
	return nil
}

// spawnChasers rings the agent with security NPCs, one per full wanted star
// up to the cap, spread evenly around a randomized radius.
func (s *Sim) spawnChasers(a Agent, level float64) {
	count := int(math.Min(float64(s.cfg.Wanted.MaxChasers), math.Floor(level)))
	if count <= 0 {
		return
	}
	now := s.now()

	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		var dist float64
		s.withRNG(func(rng *rand.Rand) {
			dist = s.cfg.Wanted.SpawnRadiusMin +
				rng.Float64()*(s.cfg.Wanted.SpawnRadiusMax-s.cfg.Wanted.SpawnRadiusMin)
		})
		s.store.InsertSecurity(SecurityNPC{
			X:             world.Clamp(a.X + math.Cos(angle)*dist),
			Y:             world.Clamp(a.Y + math.Sin(angle)*dist),
			TargetAgentID: a.ID,
			TargetX:       a.X,
			TargetY:       a.Y,
			IsChasing:     true,
			Speed:         s.cfg.Wanted.ChaserSpeed,
			SpawnedAt:     now,
			DespawnAt:     now.Add(secDuration(s.cfg.Wanted.ChaserLifeSec)),
		})
	}
	s.log.Info("security dispatched", "agent", a.Name, "chasers", count, "wanted", level)
}

// DecayWanted sheds heat from agents who have stayed clean past the decay
// interval. Losing a full star earns a cooled-down note on the activity feed.
func (s *Sim) DecayWanted() {
	now := s.now()
	interval := secDuration(s.cfg.Wanted.DecayIntervalSec)

	for _, a := range s.store.Agents() {
		if !a.IsOnline || a.WantedLevel <= 0 {
			continue
		}
		if now.Sub(a.LastWantedUpdate) <= interval {
			continue
		}
		next := math.Max(0, a.WantedLevel-s.cfg.Wanted.DecayAmount)
		s.store.UpdateAgent(a.ID, func(live *Agent) {
			live.WantedLevel = next
			live.LastWantedUpdate = now
			live.IsBeingChased = next >= s.cfg.Wanted.ChaseThreshold
		})
		if math.Floor(next) < math.Floor(a.WantedLevel) {
			s.store.AppendActivity(Activity{
				Type:      ActivityEvent,
				AgentID:   a.ID,
				AgentName: a.Name,
				Message:   fmt.Sprintf("%s cooled down to %d wanted stars", a.Name, int(math.Floor(next))),
				Timestamp: now,
			})
		}
	}
}

// UpdateSecurity advances every chaser one step: expired or orphaned chasers
// despawn, the rest close on their target and capture on contact.
func (s *Sim) UpdateSecurity() {
	now := s.now()

	for _, n := range s.store.Security() {
		if now.After(n.DespawnAt) {
			s.dropChaser(n)
			continue
		}
		target, ok := s.store.Agent(n.TargetAgentID)
		if !ok || !target.IsOnline || target.WantedLevel < s.cfg.Wanted.ChaseThreshold {
			s.dropChaser(n)
			continue
		}

		if world.Distance(n.X, n.Y, target.X, target.Y) <= s.cfg.Wanted.CaptureRadius {
			s.capture(target)
			continue
		}

		dx := target.X - n.X
		dy := target.Y - n.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			continue
		}
		s.store.UpdateSecurity(n.ID, func(live *SecurityNPC) {
			live.X = world.Clamp(live.X + dx/dist*live.Speed)
			live.Y = world.Clamp(live.Y + dy/dist*live.Speed)
			live.TargetX = target.X
			live.TargetY = target.Y
		})
	}
}

// dropChaser removes one chaser. The chase flag tracks the wanted level, so
// it clears only when the last chaser leaves an agent who is no longer hot.
func (s *Sim) dropChaser(n SecurityNPC) {
	s.store.DeleteSecurity(n.ID)
	if len(s.store.SecurityTargeting(n.TargetAgentID)) > 0 {
		return
	}
	if a, ok := s.store.Agent(n.TargetAgentID); ok && a.WantedLevel >= s.cfg.Wanted.ChaseThreshold {
		return
	}
	s.store.UpdateAgent(n.TargetAgentID, func(live *Agent) {
		live.IsBeingChased = false
	})
}

// capture busts a wanted agent: a cut of its coins, heat reset to zero, and
// a teleport back to the Workshop spawn. Every chaser on the agent stands
// down.
func (s *Sim) capture(target Agent) {
	now := s.now()
	fine := int(math.Floor(float64(target.Coins) * s.cfg.Wanted.CaptureCoinCut))

	s.store.UpdateAgent(target.ID, func(live *Agent) {
		live.Coins -= fine
		live.WantedLevel = 0
		live.LastWantedUpdate = now
		live.IsBeingChased = false
		live.X = world.CaptureSpawnX
		live.Y = world.CaptureSpawnY
		live.Target = nil
		live.IsMoving = false
	})
	for _, n := range s.store.SecurityTargeting(target.ID) {
		s.store.DeleteSecurity(n.ID)
	}

	s.store.AppendActivity(Activity{
		Type:      ActivityEvent,
		AgentID:   target.ID,
		AgentName: target.Name,
		Message:   fmt.Sprintf("%s got busted! Lost %d coins", target.Name, fine),
		Timestamp: now,
	})
	s.log.Info("agent busted", "agent", target.Name, "fine", fine)
}

// VisitSafeHouse sheds heat immediately. Hills safe houses are better
// connected than the rest of the city.
func (s *Sim) VisitSafeHouse(agentID AgentID) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	reduce := s.cfg.Wanted.SafeHouseOther
	if world.DistrictAt(a.X, a.Y) == world.DistrictHills {
		reduce = s.cfg.Wanted.SafeHouseHills
	}
	now := s.now()
	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.WantedLevel = math.Max(0, live.WantedLevel-reduce)
		live.LastWantedUpdate = now
		live.IsBeingChased = live.WantedLevel >= s.cfg.Wanted.ChaseThreshold
	})
	return nil
}

func secDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

package sim

import (
	"math"
	"math/rand"

	"github.com/talgya/agent-metro/internal/personality"
	"github.com/talgya/agent-metro/internal/world"
)

// UpdateEnergy drains or recharges every online agent based on wall-clock
// time since its last update. Drain scales with the archetype's consumption
// multiplier and with movement; standing near the café recharges instead.
func (s *Sim) UpdateEnergy() {
	now := s.now()
	cafe, hasCafe := s.store.LocationByName(world.RechargeLocation)

	for _, a := range s.store.Agents() {
		if !a.IsOnline {
			continue
		}
		hours := now.Sub(a.LastEnergyUpdate).Hours()
		if hours <= 0 {
			continue
		}
		traits := personality.Profile(a.Archetype)

		recharging := hasCafe &&
			world.Distance(a.X, a.Y, cafe.X, cafe.Y) <= s.cfg.Energy.RechargeRadius

		var delta float64
		if recharging {
			delta = s.cfg.Energy.RechargePerHour * hours
		} else {
			rate := s.cfg.Energy.DrainPerHour
			if a.IsMoving {
				rate += s.cfg.Energy.MoveDrainPerHour
			}
			delta = -rate * traits.EnergyConsumption * hours
		}

		s.store.UpdateAgent(a.ID, func(live *Agent) {
			live.Energy = clampEnergy(live.Energy + delta)
			live.LastEnergyUpdate = now
		})
	}
}

// UpdateMovement advances every online agent one step: picks a destination
// when the agent has none, walks toward the current target, and snaps to it
// on arrival. Exhausted agents stand still until they recover.
func (s *Sim) UpdateMovement() {
	for _, a := range s.store.Agents() {
		if !a.IsOnline {
			continue
		}

		// A mission that was completed or reassigned out from under the
		// agent is dropped silently; the next pass picks a fresh target.
		if a.CurrentMission != "" {
			if m, ok := s.store.Mission(a.CurrentMission); !ok || m.IsCompleted || m.AssignedTo != a.ID {
				s.store.UpdateAgent(a.ID, func(live *Agent) {
					live.CurrentMission = ""
					live.Target = nil
					live.IsMoving = false
				})
				continue
			}
		}

		if a.Energy < s.cfg.Movement.ExhaustionFloor {
			if a.IsMoving {
				s.store.UpdateAgent(a.ID, func(live *Agent) {
					live.IsMoving = false
				})
			}
			continue
		}

		if a.Target == nil {
			target := s.pickTarget(a)
			s.store.UpdateAgent(a.ID, func(live *Agent) {
				live.Target = &target
				live.IsMoving = true
			})
			continue
		}

		s.stepToward(a)
	}
}

// pickTarget chooses a destination by priority: recharge when low, the
// current mission's coordinates, otherwise wander per the archetype.
func (s *Sim) pickTarget(a Agent) Vec {
	if a.Energy < s.cfg.Energy.LowThreshold {
		if cafe, ok := s.store.LocationByName(world.RechargeLocation); ok {
			return Vec{X: cafe.X, Y: cafe.Y}
		}
	}

	if a.CurrentMission != "" {
		if m, ok := s.store.Mission(a.CurrentMission); ok && m.Target != nil {
			return *m.Target
		}
	}

	return s.exploreTarget(a)
}

// exploreTarget picks a wander destination. High-exploration archetypes roam
// anywhere inside the world margin; the rest head for a random building with
// a little jitter so they do not stack on one point.
func (s *Sim) exploreTarget(a Agent) Vec {
	traits := personality.Profile(a.Archetype)
	var target Vec
	s.withRNG(func(rng *rand.Rand) {
		if traits.Exploration > s.cfg.Movement.ExplorationBias {
			margin := s.cfg.Movement.WorldMargin
			target = Vec{
				X: margin + rng.Float64()*(world.Size-2*margin),
				Y: margin + rng.Float64()*(world.Size-2*margin),
			}
			return
		}
		buildings := s.store.Buildings()
		if len(buildings) == 0 {
			target = Vec{X: world.Size / 2, Y: world.Size / 2}
			return
		}
		b := buildings[rng.Intn(len(buildings))]
		jitter := s.cfg.Movement.BuildingJitter
		target = Vec{
			X: world.Clamp(b.X + (rng.Float64()*2-1)*jitter),
			Y: world.Clamp(b.Y + (rng.Float64()*2-1)*jitter),
		}
	})
	return target
}

// stepToward moves the agent one tick toward its target and snaps on
// arrival. Arrival is judged per axis.
func (s *Sim) stepToward(a Agent) {
	target := *a.Target
	dx := target.X - a.X
	dy := target.Y - a.Y

	if math.Abs(dx) < s.cfg.Movement.ArrivalRadius && math.Abs(dy) < s.cfg.Movement.ArrivalRadius {
		s.store.UpdateAgent(a.ID, func(live *Agent) {
			live.X = world.Clamp(target.X)
			live.Y = world.Clamp(target.Y)
			live.Target = nil
			live.IsMoving = false
		})
		return
	}

	speed := s.speedFor(a)
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return
	}
	nx := world.Clamp(a.X + dx/dist*speed)
	ny := world.Clamp(a.Y + dy/dist*speed)

	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.X = nx
		live.Y = ny
		live.IsMoving = true
	})
}

// speedFor computes the agent's per-tick speed: base walking pace scaled by
// remaining energy, an efficiency bonus for optimizer archetypes, and the
// vehicle multiplier when riding.
func (s *Sim) speedFor(a Agent) float64 {
	traits := personality.Profile(a.Archetype)

	speed := s.cfg.Movement.BaseSpeed * (0.5 + 0.5*a.Energy/100)
	if traits.Efficiency > s.cfg.Movement.EfficiencyCutoff {
		speed *= s.cfg.Movement.EfficiencyBoost
	}
	if a.IsInVehicle && a.VehicleID != "" {
		if v, ok := s.store.Vehicle(a.VehicleID); ok {
			speed *= v.Speed
		}
	}
	return speed
}

// SendToRecharge points an agent at the café immediately, regardless of its
// current plan.
func (s *Sim) SendToRecharge(id AgentID) bool {
	cafe, ok := s.store.LocationByName(world.RechargeLocation)
	if !ok {
		return false
	}
	return s.store.UpdateAgent(id, func(live *Agent) {
		live.Target = &Vec{X: cafe.X, Y: cafe.Y}
		live.IsMoving = true
	})
}

func clampEnergy(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

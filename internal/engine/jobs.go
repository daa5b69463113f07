package engine

import (
	"time"

	"github.com/talgya/agent-metro/internal/sim"
	"github.com/talgya/agent-metro/internal/tuning"
)

// Wire registers the standard simulation jobs at the configured cadences.
// The snapshot job is optional; pass nil when running without persistence.
func Wire(e *Engine, s *sim.Sim, cfg tuning.Scheduler, snapshot func()) {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	e.Add("movement", ms(cfg.MovementMs), s.UpdateMovement)
	e.Add("security", ms(cfg.SecurityMs), s.UpdateSecurity)
	e.Add("vehicles", ms(cfg.VehiclesMs), s.UpdateVehicles)
	e.Add("upkeep", ms(cfg.UpkeepMs), func() {
		s.UpdateEnergy()
		s.DecayWanted()
	})
	e.Add("missions", ms(cfg.MissionsMs), func() {
		s.CompleteMissions()
		s.AssignMissions()
	})
	e.Add("social", ms(cfg.SocialMs), func() {
		s.FormCrews()
		s.CheckDialogueOpportunities()
		s.RecomputeAllCrewStats()
	})
	e.Add("dialogue-cleanup", ms(cfg.DialogueCleanupMs), s.CleanupDialogue)
	if snapshot != nil {
		e.Add("snapshot", ms(cfg.SnapshotMs), snapshot)
	}
}

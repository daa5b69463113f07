package sim

import (
	"fmt"

	"github.com/talgya/agent-metro/internal/world"
)

// vehicleSeeds is the city's shared fleet, two rides per district.
var vehicleSeeds = []Vehicle{
	{Type: VehicleSedan, X: 250, Y: 1950, Color: "#6b7280", Speed: 2.0, SpawnDistrict: world.DistrictWorkshop},
	{Type: VehicleVan, X: 300, Y: 1900, Color: "#374151", Speed: 1.5, SpawnDistrict: world.DistrictWorkshop},
	{Type: VehicleSports, X: 1200, Y: 1300, Color: "#ef4444", Speed: 3.0, SpawnDistrict: world.DistrictDowntown},
	{Type: VehicleSedan, X: 1350, Y: 1200, Color: "#3b82f6", Speed: 2.0, SpawnDistrict: world.DistrictDowntown},
	{Type: VehicleVan, X: 400, Y: 300, Color: "#52525b", Speed: 1.5, SpawnDistrict: world.DistrictIndustrial},
	{Type: VehicleSedan, X: 500, Y: 250, Color: "#6b7280", Speed: 2.0, SpawnDistrict: world.DistrictIndustrial},
	{Type: VehicleVan, X: 1300, Y: 2000, Color: "#0c4a6e", Speed: 1.5, SpawnDistrict: world.DistrictDocks},
	{Type: VehicleSports, X: 1500, Y: 1900, Color: "#0ea5e9", Speed: 3.0, SpawnDistrict: world.DistrictDocks},
	{Type: VehicleSports, X: 2000, Y: 300, Color: "#22c55e", Speed: 3.0, SpawnDistrict: world.DistrictHills},
	{Type: VehicleSedan, X: 1900, Y: 400, Color: "#86efac", Speed: 2.0, SpawnDistrict: world.DistrictHills},
}

// EnterVehicle puts an agent behind the wheel of a parked vehicle. The
// vehicle must be free and within reach, and the agent on foot.
func (s *Sim) EnterVehicle(agentID AgentID, vehicleID VehicleID) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	v, ok := s.store.Vehicle(vehicleID)
	if !ok {
		return fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}
	if a.IsInVehicle {
		return ErrAlreadyInVehicle
	}
	if !v.IsAvailable {
		return ErrVehicleUnavailable
	}
	if world.Distance(a.X, a.Y, v.X, v.Y) > s.cfg.Vehicles.EnterRadius {
		return ErrTooFar
	}

	s.store.UpdateVehicle(v.ID, func(live *Vehicle) {
		live.IsAvailable = false
		live.OwnerID = a.ID
	})
	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.VehicleID = v.ID
		live.IsInVehicle = true
	})

	s.store.AppendActivity(Activity{
		Type:      ActivityEvent,
		AgentID:   a.ID,
		AgentName: a.Name,
		Message:   fmt.Sprintf("%s got into a %s", a.Name, v.Type),
		Timestamp: s.now(),
	})
	return nil
}

// ExitVehicle parks the agent's current vehicle where the agent stands and
// frees it for the next rider.
func (s *Sim) ExitVehicle(agentID AgentID) error {
	a, ok := s.store.Agent(agentID)
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if !a.IsInVehicle || a.VehicleID == "" {
		return ErrNotInVehicle
	}
	v, ok := s.store.Vehicle(a.VehicleID)
	if !ok {
		return fmt.Errorf("vehicle %s: %w", a.VehicleID, ErrNotFound)
	}

	s.store.UpdateVehicle(v.ID, func(live *Vehicle) {
		live.X = a.X
		live.Y = a.Y
		live.IsAvailable = true
		live.OwnerID = ""
	})
	s.store.UpdateAgent(a.ID, func(live *Agent) {
		live.VehicleID = ""
		live.IsInVehicle = false
	})

	s.store.AppendActivity(Activity{
		Type:      ActivityEvent,
		AgentID:   a.ID,
		AgentName: a.Name,
		Message:   fmt.Sprintf("%s exited their %s", a.Name, v.Type),
		Timestamp: s.now(),
	})
	return nil
}

// UpdateVehicles keeps occupied vehicles under their riders. Orphaned
// vehicles (rider gone or no longer riding) are released in place.
func (s *Sim) UpdateVehicles() {
	for _, v := range s.store.Vehicles() {
		if v.OwnerID == "" {
			continue
		}
		owner, ok := s.store.Agent(v.OwnerID)
		if !ok || !owner.IsInVehicle || owner.VehicleID != v.ID {
			s.store.UpdateVehicle(v.ID, func(live *Vehicle) {
				live.IsAvailable = true
				live.OwnerID = ""
			})
			continue
		}
		if v.X != owner.X || v.Y != owner.Y {
			s.store.UpdateVehicle(v.ID, func(live *Vehicle) {
				live.X = owner.X
				live.Y = owner.Y
			})
		}
	}
}

package sim

import (
	"errors"
	"testing"
)

func seedVehicle(store *Store, x, y float64) Vehicle {
	id := store.InsertVehicle(Vehicle{
		Type:          VehicleSedan,
		X:             x,
		Y:             y,
		Color:         "#6b7280",
		Speed:         2.0,
		IsAvailable:   true,
		SpawnDistrict: "Downtown",
	})
	v, _ := store.Vehicle(id)
	return v
}

func TestEnterExitVehicleRoundTrip(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 1000, 1000, 100)
	v := seedVehicle(store, 1010, 1010)

	if err := s.EnterVehicle(a.ID, v.ID); err != nil {
		t.Fatalf("enter: %v", err)
	}
	gotA, _ := store.Agent(a.ID)
	gotV, _ := store.Vehicle(v.ID)
	if !gotA.IsInVehicle || gotA.VehicleID != v.ID {
		t.Fatalf("agent not riding: %+v", gotA)
	}
	if gotV.IsAvailable || gotV.OwnerID != a.ID {
		t.Fatalf("vehicle not claimed: %+v", gotV)
	}

	// Ride somewhere, then exit: the vehicle parks at the agent.
	store.UpdateAgent(a.ID, func(live *Agent) {
		live.X = 1500
		live.Y = 1600
	})
	if err := s.ExitVehicle(a.ID); err != nil {
		t.Fatalf("exit: %v", err)
	}
	gotA, _ = store.Agent(a.ID)
	gotV, _ = store.Vehicle(v.ID)
	if gotA.IsInVehicle || gotA.VehicleID != "" {
		t.Fatalf("agent still riding: %+v", gotA)
	}
	if !gotV.IsAvailable || gotV.OwnerID != "" {
		t.Fatalf("vehicle not released: %+v", gotV)
	}
	if gotV.X != 1500 || gotV.Y != 1600 {
		t.Fatalf("vehicle parked at (%.0f, %.0f), want rider position", gotV.X, gotV.Y)
	}
}

func TestEnterVehicleRejections(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 1000, 1000, 100)
	b := seedAgent(s, store, "Friday", 1000, 1000, 100)
	far := seedVehicle(store, 2000, 2000)
	near := seedVehicle(store, 1010, 1010)

	if err := s.EnterVehicle(a.ID, far.ID); !errors.Is(err, ErrTooFar) {
		t.Fatalf("err = %v, want ErrTooFar", err)
	}
	if err := s.EnterVehicle(a.ID, near.ID); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := s.EnterVehicle(b.ID, near.ID); !errors.Is(err, ErrVehicleUnavailable) {
		t.Fatalf("err = %v, want ErrVehicleUnavailable", err)
	}
	second := seedVehicle(store, 1005, 1005)
	if err := s.EnterVehicle(a.ID, second.ID); !errors.Is(err, ErrAlreadyInVehicle) {
		t.Fatalf("err = %v, want ErrAlreadyInVehicle", err)
	}
	if err := s.ExitVehicle(b.ID); !errors.Is(err, ErrNotInVehicle) {
		t.Fatalf("err = %v, want ErrNotInVehicle", err)
	}
}

func TestOccupiedVehicleFollowsRider(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 1000, 1000, 100)
	v := seedVehicle(store, 1010, 1010)
	if err := s.EnterVehicle(a.ID, v.ID); err != nil {
		t.Fatalf("enter: %v", err)
	}

	store.UpdateAgent(a.ID, func(live *Agent) {
		live.X = 1200
		live.Y = 1300
	})
	s.UpdateVehicles()

	gotV, _ := store.Vehicle(v.ID)
	if gotV.X != 1200 || gotV.Y != 1300 {
		t.Fatalf("vehicle at (%.0f, %.0f), want rider position", gotV.X, gotV.Y)
	}
}

func TestOrphanedVehicleReleased(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 1000, 1000, 100)
	v := seedVehicle(store, 1010, 1010)
	if err := s.EnterVehicle(a.ID, v.ID); err != nil {
		t.Fatalf("enter: %v", err)
	}
	store.DeleteAgent(a.ID)

	s.UpdateVehicles()

	gotV, _ := store.Vehicle(v.ID)
	if !gotV.IsAvailable || gotV.OwnerID != "" {
		t.Fatalf("orphaned vehicle not released: %+v", gotV)
	}
}

func TestVehicleSpeedsUpRider(t *testing.T) {
	s, store, _ := newTestSim(1)
	seedGeography(store)
	a := seedAgent(s, store, "KayaCan", 1000, 1000, 100)
	v := seedVehicle(store, 1010, 1010)
	if err := s.EnterVehicle(a.ID, v.ID); err != nil {
		t.Fatalf("enter: %v", err)
	}
	store.UpdateAgent(a.ID, func(live *Agent) {
		live.Target = &Vec{X: 2000, Y: 1000}
		live.IsMoving = true
	})
	got, _ := store.Agent(a.ID)

	onFoot := s.speedFor(Agent{Archetype: "KayaCan", Energy: 100})
	riding := s.speedFor(got)
	if riding != onFoot*2.0 {
		t.Fatalf("riding speed = %.2f, want %.2f", riding, onFoot*2.0)
	}
}

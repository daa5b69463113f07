package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Movement.BaseSpeed != 0.5 {
		t.Fatalf("base speed = %v", d.Movement.BaseSpeed)
	}
	if d.Energy.LowThreshold != 30 || d.Energy.RechargePerHour != 50 {
		t.Fatalf("energy defaults: %+v", d.Energy)
	}
	if d.Wanted.MaxLevel != 5 || d.Wanted.ChaseThreshold != 3 || d.Wanted.MaxChasers != 3 {
		t.Fatalf("wanted defaults: %+v", d.Wanted)
	}
	if d.Scheduler.MovementMs != 100 || d.Scheduler.MissionsMs != 3000 {
		t.Fatalf("scheduler defaults: %+v", d.Scheduler)
	}
}

func TestLoadOverridesSelectedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	yaml := []byte("movement:\n  base_speed: 2.5\nwanted:\n  max_chasers: 5\n")
	if err := os.WriteFile(path, yaml, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Movement.BaseSpeed != 2.5 {
		t.Fatalf("override lost: base speed = %v", got.Movement.BaseSpeed)
	}
	if got.Wanted.MaxChasers != 5 {
		t.Fatalf("override lost: max chasers = %v", got.Wanted.MaxChasers)
	}
	// Untouched fields keep their defaults.
	if got.Movement.ArrivalRadius != 5 || got.Energy.DrainPerHour != 20 {
		t.Fatalf("defaults clobbered: %+v", got)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("want error for a missing file")
	}
}

func TestLoadBadYAMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("movement: ["), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("want error for malformed yaml")
	}
}

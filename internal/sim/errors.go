package sim

import "errors"

// Sentinel errors for explicit operations. Handlers map these onto HTTP
// status codes; background passes treat the conditions as silent skips.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyInCrew      = errors.New("agent already in a crew")
	ErrMissionAssigned    = errors.New("mission already assigned")
	ErrMissionCompleted   = errors.New("mission already completed")
	ErrVehicleUnavailable = errors.New("vehicle unavailable")
	ErrAlreadyInVehicle   = errors.New("agent already in a vehicle")
	ErrNotInVehicle       = errors.New("agent not in a vehicle")
	ErrTooFar             = errors.New("too far away")
)

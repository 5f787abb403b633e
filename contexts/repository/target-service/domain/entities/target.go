package entities

import "time"

// Target is a managed device capable of receiving and installing software.
// It is created on first device contact and never destroyed by the rollout
// core; deletion is an administrative operation.
type Target struct {
	ControllerID string
	Name         string
	Description  string
	Address      string

	// AssignedSetID points at the distribution set the target should run,
	// InstalledSetID at the set it is known to run. Assignment is logically
	// instantaneous; installation is not.
	AssignedSetID  *string
	InstalledSetID *string

	// ActiveActionID references the at-most-one action currently driving
	// this target.
	ActiveActionID *string

	LastContactAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

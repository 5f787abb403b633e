package entities

import "time"

// SoftwareModule is a single installable unit of software. Its binary content
// lives in the artifact service; the catalog only tracks artifact references.
type SoftwareModule struct {
	ModuleID    string
	Type        ModuleType
	Name        string
	Version     string
	Vendor      string
	Description string
	ArtifactIDs []string
	CreatedAt   time.Time
}

type ModuleType string

const (
	ModuleTypeOS          ModuleType = "os"
	ModuleTypeRuntime     ModuleType = "runtime"
	ModuleTypeApplication ModuleType = "application"
)

func (t ModuleType) Valid() bool {
	switch t {
	case ModuleTypeOS, ModuleTypeRuntime, ModuleTypeApplication:
		return true
	}
	return false
}

// DistributionSet is a named, versioned composition of software modules
// deployed as one unit. Membership is a relation, not ownership: a module may
// belong to many sets.
type DistributionSet struct {
	SetID                 string
	Name                  string
	Version               string
	Type                  string
	Description           string
	RequiredMigrationStep bool
	ModuleIDs             []string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (d DistributionSet) HasModule(moduleID string) bool {
	for _, id := range d.ModuleIDs {
		if id == moduleID {
			return true
		}
	}
	return false
}

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateSetRequest struct {
	Name                  string   `json:"name"`
	Version               string   `json:"version"`
	Type                  string   `json:"type,omitempty"`
	Description           string   `json:"description,omitempty"`
	RequiredMigrationStep bool     `json:"required_migration_step,omitempty"`
	ModuleIDs             []string `json:"modules,omitempty"`
}

type UpdateSetRequest struct {
	Name        *string `json:"name,omitempty"`
	Version     *string `json:"version,omitempty"`
	Description *string `json:"description,omitempty"`
}

type DistributionSetDTO struct {
	SetID                 string   `json:"id"`
	Name                  string   `json:"name"`
	Version               string   `json:"version"`
	Type                  string   `json:"type,omitempty"`
	Description           string   `json:"description,omitempty"`
	RequiredMigrationStep bool     `json:"required_migration_step"`
	ModuleIDs             []string `json:"modules"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type DistributionSetResponse struct {
	Status string             `json:"status"`
	Data   DistributionSetDTO `json:"data"`
}

type DistributionSetListResponse struct {
	Status string               `json:"status"`
	Data   []DistributionSetDTO `json:"data"`
}

type CreateModuleRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Vendor      string `json:"vendor,omitempty"`
	Description string `json:"description,omitempty"`
}

type SoftwareModuleDTO struct {
	ModuleID    string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Vendor      string   `json:"vendor,omitempty"`
	Description string   `json:"description,omitempty"`
	ArtifactIDs []string `json:"artifacts,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

type SoftwareModuleResponse struct {
	Status string            `json:"status"`
	Data   SoftwareModuleDTO `json:"data"`
}

type SoftwareModuleListResponse struct {
	Status string              `json:"status"`
	Data   []SoftwareModuleDTO `json:"data"`
}

type AssignModulesRequest struct {
	ModuleIDs []string `json:"modules"`
}

type MetadataRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type MetadataDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type MetadataResponse struct {
	Status string      `json:"status"`
	Data   MetadataDTO `json:"data"`
}

type MetadataListResponse struct {
	Status string        `json:"status"`
	Data   []MetadataDTO `json:"data"`
}

package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"
	httptransport "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// CreateSetHandler godoc
// @Summary Create a distribution set
// @Tags distributionsets
// @Accept json
// @Produce json
// @Param request body httptransport.CreateSetRequest true "Distribution set"
// @Success 201 {object} httptransport.DistributionSetResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets [post]
func (h Handler) CreateSetHandler(ctx context.Context, req httptransport.CreateSetRequest) (httptransport.DistributionSetResponse, error) {
	set, err := h.Service.CreateDistributionSet(ctx, application.CreateSetInput{
		Name:                  req.Name,
		Version:               req.Version,
		Type:                  req.Type,
		Description:           req.Description,
		RequiredMigrationStep: req.RequiredMigrationStep,
		ModuleIDs:             req.ModuleIDs,
	})
	if err != nil {
		return httptransport.DistributionSetResponse{}, err
	}
	return httptransport.DistributionSetResponse{Status: "success", Data: toSetDTO(set)}, nil
}

// GetSetHandler godoc
// @Summary Get a distribution set
// @Tags distributionsets
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Success 200 {object} httptransport.DistributionSetResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id} [get]
func (h Handler) GetSetHandler(ctx context.Context, setID string) (httptransport.DistributionSetResponse, error) {
	set, err := h.Service.GetDistributionSet(ctx, setID)
	if err != nil {
		return httptransport.DistributionSetResponse{}, err
	}
	return httptransport.DistributionSetResponse{Status: "success", Data: toSetDTO(set)}, nil
}

// ListSetsHandler godoc
// @Summary List distribution sets
// @Tags distributionsets
// @Produce json
// @Param type query string false "Set type filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} httptransport.DistributionSetListResponse
// @Router /distributionsets [get]
func (h Handler) ListSetsHandler(ctx context.Context, filter ports.SetFilter) (httptransport.DistributionSetListResponse, error) {
	items, err := h.Service.ListDistributionSets(ctx, filter)
	if err != nil {
		return httptransport.DistributionSetListResponse{}, err
	}
	resp := httptransport.DistributionSetListResponse{
		Status: "success",
		Data:   make([]httptransport.DistributionSetDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toSetDTO(item))
	}
	return resp, nil
}

// UpdateSetHandler godoc
// @Summary Update a distribution set
// @Tags distributionsets
// @Accept json
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param request body httptransport.UpdateSetRequest true "Fields to update"
// @Success 200 {object} httptransport.DistributionSetResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id} [put]
func (h Handler) UpdateSetHandler(ctx context.Context, setID string, req httptransport.UpdateSetRequest) (httptransport.DistributionSetResponse, error) {
	set, err := h.Service.UpdateDistributionSet(ctx, setID, application.UpdateSetInput{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.DistributionSetResponse{}, err
	}
	return httptransport.DistributionSetResponse{Status: "success", Data: toSetDTO(set)}, nil
}

// DeleteSetHandler godoc
// @Summary Delete a distribution set
// @Description Fails with 423 while in-flight actions reference the set.
// @Tags distributionsets
// @Param set_id path string true "Distribution set id"
// @Success 200
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 423 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id} [delete]
func (h Handler) DeleteSetHandler(ctx context.Context, setID string) error {
	return h.Service.DeleteDistributionSet(ctx, setID)
}

// CreateModuleHandler godoc
// @Summary Create a software module
// @Tags softwaremodules
// @Accept json
// @Produce json
// @Param request body httptransport.CreateModuleRequest true "Software module"
// @Success 201 {object} httptransport.SoftwareModuleResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /softwaremodules [post]
func (h Handler) CreateModuleHandler(ctx context.Context, req httptransport.CreateModuleRequest) (httptransport.SoftwareModuleResponse, error) {
	module, err := h.Service.CreateSoftwareModule(ctx, application.CreateModuleInput{
		Type:        entities.ModuleType(req.Type),
		Name:        req.Name,
		Version:     req.Version,
		Vendor:      req.Vendor,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.SoftwareModuleResponse{}, err
	}
	return httptransport.SoftwareModuleResponse{Status: "success", Data: toModuleDTO(module)}, nil
}

// GetModuleHandler godoc
// @Summary Get a software module
// @Tags softwaremodules
// @Produce json
// @Param module_id path string true "Software module id"
// @Success 200 {object} httptransport.SoftwareModuleResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /softwaremodules/{module_id} [get]
func (h Handler) GetModuleHandler(ctx context.Context, moduleID string) (httptransport.SoftwareModuleResponse, error) {
	module, err := h.Service.GetSoftwareModule(ctx, moduleID)
	if err != nil {
		return httptransport.SoftwareModuleResponse{}, err
	}
	return httptransport.SoftwareModuleResponse{Status: "success", Data: toModuleDTO(module)}, nil
}

// ListModulesHandler godoc
// @Summary List software modules
// @Tags softwaremodules
// @Produce json
// @Param type query string false "Module type filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} httptransport.SoftwareModuleListResponse
// @Router /softwaremodules [get]
func (h Handler) ListModulesHandler(ctx context.Context, filter ports.ModuleFilter) (httptransport.SoftwareModuleListResponse, error) {
	items, err := h.Service.ListSoftwareModules(ctx, filter)
	if err != nil {
		return httptransport.SoftwareModuleListResponse{}, err
	}
	resp := httptransport.SoftwareModuleListResponse{
		Status: "success",
		Data:   make([]httptransport.SoftwareModuleDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toModuleDTO(item))
	}
	return resp, nil
}

// AssignModulesHandler godoc
// @Summary Assign software modules to a distribution set
// @Description Fail-fast batch: one unresolved module id rejects the whole request; a locked set rejects it with 423.
// @Tags distributionsets
// @Accept json
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param request body httptransport.AssignModulesRequest true "Module ids"
// @Success 200 {object} httptransport.DistributionSetResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 423 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/assignedSM [post]
func (h Handler) AssignModulesHandler(ctx context.Context, setID string, req httptransport.AssignModulesRequest) (httptransport.DistributionSetResponse, error) {
	set, err := h.Service.AssignSoftwareModules(ctx, setID, req.ModuleIDs)
	if err != nil {
		return httptransport.DistributionSetResponse{}, err
	}
	return httptransport.DistributionSetResponse{Status: "success", Data: toSetDTO(set)}, nil
}

// UnassignModuleHandler godoc
// @Summary Remove a software module from a distribution set
// @Tags distributionsets
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param module_id path string true "Software module id"
// @Success 200 {object} httptransport.DistributionSetResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 423 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/assignedSM/{module_id} [delete]
func (h Handler) UnassignModuleHandler(ctx context.Context, setID string, moduleID string) (httptransport.DistributionSetResponse, error) {
	set, err := h.Service.UnassignSoftwareModule(ctx, setID, moduleID)
	if err != nil {
		return httptransport.DistributionSetResponse{}, err
	}
	return httptransport.DistributionSetResponse{Status: "success", Data: toSetDTO(set)}, nil
}

// CreateMetadataHandler godoc
// @Summary Create a metadata entry
// @Tags distributionsets
// @Accept json
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param request body httptransport.MetadataRequest true "Metadata entry"
// @Success 201 {object} httptransport.MetadataResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/metadata [post]
func (h Handler) CreateMetadataHandler(ctx context.Context, setID string, req httptransport.MetadataRequest) (httptransport.MetadataResponse, error) {
	item, err := h.Service.CreateMetadata(ctx, setID, req.Key, req.Value)
	if err != nil {
		return httptransport.MetadataResponse{}, err
	}
	return httptransport.MetadataResponse{Status: "success", Data: toMetadataDTO(item)}, nil
}

// GetMetadataHandler godoc
// @Summary Get a metadata value
// @Tags distributionsets
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param metadata_key path string true "Metadata key"
// @Success 200 {object} httptransport.MetadataResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/metadata/{metadata_key} [get]
func (h Handler) GetMetadataHandler(ctx context.Context, setID string, key string) (httptransport.MetadataResponse, error) {
	item, err := h.Service.GetMetadata(ctx, setID, key)
	if err != nil {
		return httptransport.MetadataResponse{}, err
	}
	return httptransport.MetadataResponse{Status: "success", Data: toMetadataDTO(item)}, nil
}

// ListMetadataHandler godoc
// @Summary List metadata of a distribution set
// @Tags distributionsets
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Success 200 {object} httptransport.MetadataListResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/metadata [get]
func (h Handler) ListMetadataHandler(ctx context.Context, setID string) (httptransport.MetadataListResponse, error) {
	items, err := h.Service.ListMetadata(ctx, setID)
	if err != nil {
		return httptransport.MetadataListResponse{}, err
	}
	resp := httptransport.MetadataListResponse{
		Status: "success",
		Data:   make([]httptransport.MetadataDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toMetadataDTO(item))
	}
	return resp, nil
}

// UpdateMetadataHandler godoc
// @Summary Update a metadata value
// @Tags distributionsets
// @Accept json
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param metadata_key path string true "Metadata key"
// @Param request body httptransport.MetadataRequest true "New value"
// @Success 200 {object} httptransport.MetadataResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/metadata/{metadata_key} [put]
func (h Handler) UpdateMetadataHandler(ctx context.Context, setID string, key string, value string) (httptransport.MetadataResponse, error) {
	item, err := h.Service.UpdateMetadata(ctx, setID, key, value)
	if err != nil {
		return httptransport.MetadataResponse{}, err
	}
	return httptransport.MetadataResponse{Status: "success", Data: toMetadataDTO(item)}, nil
}

// DeleteMetadataHandler godoc
// @Summary Delete a metadata entry
// @Tags distributionsets
// @Param set_id path string true "Distribution set id"
// @Param metadata_key path string true "Metadata key"
// @Success 200
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/metadata/{metadata_key} [delete]
func (h Handler) DeleteMetadataHandler(ctx context.Context, setID string, key string) error {
	return h.Service.DeleteMetadata(ctx, setID, key)
}

func toSetDTO(set entities.DistributionSet) httptransport.DistributionSetDTO {
	return httptransport.DistributionSetDTO{
		SetID:                 set.SetID,
		Name:                  set.Name,
		Version:               set.Version,
		Type:                  set.Type,
		Description:           set.Description,
		RequiredMigrationStep: set.RequiredMigrationStep,
		ModuleIDs:             append([]string{}, set.ModuleIDs...),
		CreatedAt:             set.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             set.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toModuleDTO(module entities.SoftwareModule) httptransport.SoftwareModuleDTO {
	return httptransport.SoftwareModuleDTO{
		ModuleID:    module.ModuleID,
		Type:        string(module.Type),
		Name:        module.Name,
		Version:     module.Version,
		Vendor:      module.Vendor,
		Description: module.Description,
		ArtifactIDs: append([]string{}, module.ArtifactIDs...),
		CreatedAt:   module.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toMetadataDTO(item entities.SetMetadata) httptransport.MetadataDTO {
	return httptransport.MetadataDTO{Key: item.Key.Key, Value: item.Value}
}

package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/ports"
	httptransport "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// RegisterTargetHandler godoc
// @Summary Register a target
// @Description Registers a device on first contact; an existing target only refreshes its last-contact timestamp.
// @Tags targets
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterTargetRequest true "Target registration"
// @Success 201 {object} httptransport.TargetResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /targets [post]
func (h Handler) RegisterTargetHandler(ctx context.Context, req httptransport.RegisterTargetRequest) (httptransport.TargetResponse, error) {
	target, created, err := h.Service.RegisterTarget(ctx, application.RegisterTargetInput{
		ControllerID: req.ControllerID,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
	})
	if err != nil {
		return httptransport.TargetResponse{}, err
	}
	return httptransport.TargetResponse{
		Status:  "success",
		Created: created,
		Data:    toDTO(target),
	}, nil
}

// GetTargetHandler godoc
// @Summary Get a target
// @Tags targets
// @Produce json
// @Param controller_id path string true "Controller id"
// @Success 200 {object} httptransport.TargetResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id} [get]
func (h Handler) GetTargetHandler(ctx context.Context, controllerID string) (httptransport.TargetResponse, error) {
	target, err := h.Service.GetTarget(ctx, controllerID)
	if err != nil {
		return httptransport.TargetResponse{}, err
	}
	return httptransport.TargetResponse{Status: "success", Data: toDTO(target)}, nil
}

// ListTargetsHandler godoc
// @Summary List targets
// @Description Lists targets, optionally narrowed to those assigned to or running a given distribution set.
// @Tags targets
// @Produce json
// @Param assigned_set query string false "Assigned distribution set id"
// @Param installed_set query string false "Installed distribution set id"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} httptransport.TargetListResponse
// @Router /targets [get]
func (h Handler) ListTargetsHandler(ctx context.Context, req httptransport.TargetListRequest) (httptransport.TargetListResponse, error) {
	items, err := h.Service.ListTargets(ctx, ports.TargetFilter{
		AssignedSetID:  req.AssignedSetID,
		InstalledSetID: req.InstalledSetID,
		Limit:          req.Limit,
		Offset:         req.Offset,
	})
	if err != nil {
		return httptransport.TargetListResponse{}, err
	}
	resp := httptransport.TargetListResponse{
		Status: "success",
		Data:   make([]httptransport.TargetDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toDTO(item))
	}
	return resp, nil
}

// UpdateTargetHandler godoc
// @Summary Update a target
// @Tags targets
// @Accept json
// @Produce json
// @Param controller_id path string true "Controller id"
// @Param request body httptransport.UpdateTargetRequest true "Fields to update"
// @Success 200 {object} httptransport.TargetResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id} [put]
func (h Handler) UpdateTargetHandler(ctx context.Context, controllerID string, req httptransport.UpdateTargetRequest) (httptransport.TargetResponse, error) {
	target, err := h.Service.UpdateTarget(ctx, controllerID, application.UpdateTargetInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		return httptransport.TargetResponse{}, err
	}
	return httptransport.TargetResponse{Status: "success", Data: toDTO(target)}, nil
}

// DeleteTargetHandler godoc
// @Summary Delete a target
// @Tags targets
// @Param controller_id path string true "Controller id"
// @Success 200
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id} [delete]
func (h Handler) DeleteTargetHandler(ctx context.Context, controllerID string) error {
	return h.Service.DeleteTarget(ctx, controllerID)
}

func toDTO(target entities.Target) httptransport.TargetDTO {
	return httptransport.TargetDTO{
		ControllerID:   target.ControllerID,
		Name:           target.Name,
		Description:    target.Description,
		Address:        target.Address,
		AssignedSetID:  target.AssignedSetID,
		InstalledSetID: target.InstalledSetID,
		ActiveActionID: target.ActiveActionID,
		LastContactAt:  target.LastContactAt.UTC().Format(time.RFC3339),
		CreatedAt:      target.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      target.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
	httptransport "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// AssignDistributionSetHandler godoc
// @Summary Assign a distribution set to targets
// @Description Creates one pending action per target, superseding any live action a target already has. Targets already driven by a live action for the same set are counted, not re-assigned.
// @Tags actions
// @Accept json
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Param request body httptransport.AssignDistributionSetRequest true "Targets and action types"
// @Success 200 {object} httptransport.AssignmentResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /distributionsets/{set_id}/assignedTargets [post]
func (h Handler) AssignDistributionSetHandler(ctx context.Context, setID string, req httptransport.AssignDistributionSetRequest) (httptransport.AssignmentResponse, error) {
	requests := make([]ports.TargetAssignment, 0, len(req.Targets))
	for _, target := range req.Targets {
		assignment := ports.TargetAssignment{
			ControllerID: target.ControllerID,
			Type:         entities.ActionType(target.Type),
		}
		if target.ForcedTime != "" {
			forced, err := time.Parse(time.RFC3339, target.ForcedTime)
			if err != nil {
				return httptransport.AssignmentResponse{}, domainerrors.ErrInvalidAssignment
			}
			assignment.ForcedTime = &forced
		}
		requests = append(requests, assignment)
	}

	result, err := h.Service.AssignDistributionSet(ctx, setID, requests)
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}

	dto := httptransport.AssignmentResultDTO{
		Assigned:        result.Assigned,
		AlreadyAssigned: result.AlreadyAssigned,
		Total:           result.Total,
	}
	for _, failure := range result.Failures {
		dto.Failures = append(dto.Failures, httptransport.AssignmentFailureDTO{
			ControllerID: failure.ControllerID,
			Reason:       failure.Reason,
		})
	}
	return httptransport.AssignmentResponse{Status: "success", Data: dto}, nil
}

// ListAssignedTargetActionsHandler godoc
// @Summary List actions referencing a distribution set
// @Tags actions
// @Produce json
// @Param set_id path string true "Distribution set id"
// @Success 200 {object} httptransport.ActionListResponse
// @Router /distributionsets/{set_id}/assignedTargets [get]
func (h Handler) ListActionsBySetHandler(ctx context.Context, setID string) (httptransport.ActionListResponse, error) {
	items, err := h.Service.ListActions(ctx, ports.ActionFilter{SetID: setID})
	if err != nil {
		return httptransport.ActionListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListTargetActionsHandler godoc
// @Summary List a target's actions
// @Tags actions
// @Produce json
// @Param controller_id path string true "Controller id"
// @Success 200 {object} httptransport.ActionListResponse
// @Router /targets/{controller_id}/actions [get]
func (h Handler) ListTargetActionsHandler(ctx context.Context, controllerID string) (httptransport.ActionListResponse, error) {
	items, err := h.Service.ListActions(ctx, ports.ActionFilter{ControllerID: controllerID})
	if err != nil {
		return httptransport.ActionListResponse{}, err
	}
	return toListResponse(items), nil
}

// GetActionHandler godoc
// @Summary Get an action
// @Tags actions
// @Produce json
// @Param controller_id path string true "Controller id"
// @Param action_id path string true "Action id"
// @Success 200 {object} httptransport.ActionResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id}/actions/{action_id} [get]
func (h Handler) GetActionHandler(ctx context.Context, actionID string) (httptransport.ActionResponse, error) {
	action, err := h.Service.GetAction(ctx, actionID)
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: toActionDTO(action)}, nil
}

// CancelActionHandler godoc
// @Summary Cancel an action
// @Description Asks the device to abort. With force=true a canceling action is closed immediately without waiting for the device.
// @Tags actions
// @Produce json
// @Param controller_id path string true "Controller id"
// @Param action_id path string true "Action id"
// @Param force query bool false "Force quit without device acknowledgement"
// @Success 200 {object} httptransport.ActionResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id}/actions/{action_id} [delete]
func (h Handler) CancelActionHandler(ctx context.Context, actionID string, force bool) (httptransport.ActionResponse, error) {
	var (
		action entities.Action
		err    error
	)
	if force {
		action, err = h.Service.ForceQuitAction(ctx, actionID)
	} else {
		action, err = h.Service.RequestCancel(ctx, actionID)
	}
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: toActionDTO(action)}, nil
}

// ListActionStatusHandler godoc
// @Summary List an action's status history
// @Tags actions
// @Produce json
// @Param controller_id path string true "Controller id"
// @Param action_id path string true "Action id"
// @Success 200 {object} httptransport.ActionStatusListResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id}/actions/{action_id}/status [get]
func (h Handler) ListActionStatusHandler(ctx context.Context, actionID string) (httptransport.ActionStatusListResponse, error) {
	entries, err := h.Service.ListActionStatuses(ctx, actionID)
	if err != nil {
		return httptransport.ActionStatusListResponse{}, err
	}
	resp := httptransport.ActionStatusListResponse{
		Status: "success",
		Data:   make([]httptransport.ActionStatusEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		dto := httptransport.ActionStatusEntryDTO{
			EntryID:    entry.EntryID,
			Status:     string(entry.Status),
			Messages:   entry.Messages,
			OccurredAt: entry.OccurredAt.UTC().Format(time.RFC3339),
		}
		if entry.Progress != nil {
			dto.Progress = &httptransport.ProgressDTO{Cnt: entry.Progress.Cnt, Of: entry.Progress.Of}
		}
		resp.Data = append(resp.Data, dto)
	}
	return resp, nil
}

// ReportFeedbackHandler godoc
// @Summary Report device feedback for an action
// @Description Device execution feedback: proceeding, finished, error or canceled (cancel acknowledgement).
// @Tags actions
// @Accept json
// @Produce json
// @Param controller_id path string true "Controller id"
// @Param action_id path string true "Action id"
// @Param request body httptransport.FeedbackRequest true "Feedback"
// @Success 200 {object} httptransport.ActionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id}/actions/{action_id}/feedback [post]
func (h Handler) ReportFeedbackHandler(ctx context.Context, actionID string, req httptransport.FeedbackRequest) (httptransport.ActionResponse, error) {
	input := application.FeedbackInput{
		Status:   req.Status,
		Messages: req.Messages,
	}
	if req.Progress != nil {
		input.Progress = &entities.Progress{Cnt: req.Progress.Cnt, Of: req.Progress.Of}
	}
	action, err := h.Service.ReportActionStatus(ctx, actionID, input)
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: toActionDTO(action)}, nil
}

// PendingActionHandler godoc
// @Summary Device poll for the next pending action
// @Description Returns the action currently driving the target. The stop flag tells the device to abort the named action instead of applying it.
// @Tags controller
// @Produce json
// @Param controller_id path string true "Controller id"
// @Success 200 {object} httptransport.PendingActionResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /targets/{controller_id}/controller/pending [get]
func (h Handler) PendingActionHandler(ctx context.Context, controllerID string) (httptransport.PendingActionResponse, error) {
	pending, err := h.Service.NextPendingAction(ctx, controllerID)
	if err != nil {
		return httptransport.PendingActionResponse{}, err
	}
	return httptransport.PendingActionResponse{
		Status: "success",
		Data: httptransport.PendingActionDTO{
			Action: toActionDTO(pending.Action),
			Stop:   pending.Stop,
			StopID: pending.StopID,
		},
	}, nil
}

func toActionDTO(action entities.Action) httptransport.ActionDTO {
	dto := httptransport.ActionDTO{
		ActionID:     action.ActionID,
		ControllerID: action.ControllerID,
		SetID:        action.SetID,
		Type:         string(action.Type),
		Status:       string(action.Status),
		Active:       action.Active,
		CreatedAt:    action.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    action.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if action.ForcedTime != nil {
		forced := action.ForcedTime.UTC().Format(time.RFC3339)
		dto.ForcedTime = &forced
	}
	return dto
}

func toListResponse(items []entities.Action) httptransport.ActionListResponse {
	resp := httptransport.ActionListResponse{
		Status: "success",
		Data:   make([]httptransport.ActionDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toActionDTO(item))
	}
	return resp
}

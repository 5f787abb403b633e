package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	deploymenterrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	deploymenthttp "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/transport/http"
)

func writeDeploymentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, deploymenthttp.ErrorResponse{Code: code, Message: message})
}

func writeDeploymentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deploymenterrors.ErrActionNotFound),
		errors.Is(err, deploymenterrors.ErrTargetUnknown),
		errors.Is(err, deploymenterrors.ErrDistributionSetUnknown),
		errors.Is(err, deploymenterrors.ErrNoPendingAction):
		writeDeploymentError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, deploymenterrors.ErrActionTerminal),
		errors.Is(err, deploymenterrors.ErrActionNotActive),
		errors.Is(err, deploymenterrors.ErrActionNotCanceling),
		errors.Is(err, deploymenterrors.ErrInvalidTransition):
		writeDeploymentError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, deploymenterrors.ErrInvalidActionType),
		errors.Is(err, deploymenterrors.ErrInvalidAssignment),
		errors.Is(err, deploymenterrors.ErrInvalidFeedback),
		errors.Is(err, deploymenterrors.ErrNoAssignments):
		writeDeploymentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeDeploymentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleAssignDistributionSet(w http.ResponseWriter, r *http.Request) {
	var req deploymenthttp.AssignDistributionSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDeploymentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.deployment.Handler.AssignDistributionSetHandler(r.Context(), r.PathValue("set_id"), req)
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSetActions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deployment.Handler.ListActionsBySetHandler(r.Context(), r.PathValue("set_id"))
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTargetActions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deployment.Handler.ListTargetActionsHandler(r.Context(), r.PathValue("controller_id"))
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAction(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deployment.Handler.GetActionHandler(r.Context(), r.PathValue("action_id"))
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelAction(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	resp, err := s.deployment.Handler.CancelActionHandler(r.Context(), r.PathValue("action_id"), force)
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListActionStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deployment.Handler.ListActionStatusHandler(r.Context(), r.PathValue("action_id"))
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActionFeedback(w http.ResponseWriter, r *http.Request) {
	var req deploymenthttp.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDeploymentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.deployment.Handler.ReportFeedbackHandler(r.Context(), r.PathValue("action_id"), req)
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePendingAction(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deployment.Handler.PendingActionHandler(r.Context(), r.PathValue("controller_id"))
	if err != nil {
		writeDeploymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

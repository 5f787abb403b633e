package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	targeterrors "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/errors"
	targethttp "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/transport/http"
)

func writeTargetError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, targethttp.ErrorResponse{Code: code, Message: message})
}

func writeTargetDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, targeterrors.ErrTargetNotFound):
		writeTargetError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, targeterrors.ErrTargetExists):
		writeTargetError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, targeterrors.ErrInvalidTarget):
		writeTargetError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeTargetError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRegisterTarget(w http.ResponseWriter, r *http.Request) {
	var req targethttp.RegisterTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTargetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.targets.Handler.RegisterTargetHandler(r.Context(), req)
	if err != nil {
		writeTargetDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	resp, err := s.targets.Handler.GetTargetHandler(r.Context(), r.PathValue("controller_id"))
	if err != nil {
		writeTargetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePage(query)
	resp, err := s.targets.Handler.ListTargetsHandler(r.Context(), targethttp.TargetListRequest{
		AssignedSetID:  query.Get("assigned_set"),
		InstalledSetID: query.Get("installed_set"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		writeTargetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTarget(w http.ResponseWriter, r *http.Request) {
	var req targethttp.UpdateTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTargetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.targets.Handler.UpdateTargetHandler(r.Context(), r.PathValue("controller_id"), req)
	if err != nil {
		writeTargetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTarget(w http.ResponseWriter, r *http.Request) {
	if err := s.targets.Handler.DeleteTargetHandler(r.Context(), r.PathValue("controller_id")); err != nil {
		writeTargetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleListInstalledTargets lists targets whose installed pointer already
// moved to the given set.
func (s *Server) handleListInstalledTargets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePage(query)
	resp, err := s.targets.Handler.ListTargetsHandler(r.Context(), targethttp.TargetListRequest{
		InstalledSetID: r.PathValue("set_id"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		writeTargetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

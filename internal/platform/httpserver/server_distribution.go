package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	distributionerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"
	distributionhttp "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/transport/http"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
)

func writeDistributionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, distributionhttp.ErrorResponse{Code: code, Message: message})
}

func writeDistributionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, distributionerrors.ErrDistributionSetNotFound),
		errors.Is(err, distributionerrors.ErrSoftwareModuleNotFound),
		errors.Is(err, distributionerrors.ErrMetadataNotFound):
		writeDistributionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, distributionerrors.ErrDistributionSetLocked):
		writeDistributionError(w, http.StatusLocked, "set_locked", err.Error())
	case errors.Is(err, distributionerrors.ErrMetadataKeyExists),
		errors.Is(err, distributionerrors.ErrModuleNotAssigned):
		writeDistributionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, distributionerrors.ErrInvalidSet),
		errors.Is(err, distributionerrors.ErrInvalidModule),
		errors.Is(err, distributionerrors.ErrInvalidMetadataKey):
		writeDistributionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeDistributionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func parsePage(query map[string][]string) (limit int, offset int) {
	get := func(key string) string {
		if values := query[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	limit, _ = strconv.Atoi(get("limit"))
	offset, _ = strconv.Atoi(get("offset"))
	return limit, offset
}

func (s *Server) handleCreateDistributionSet(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.CreateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.CreateSetHandler(r.Context(), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetDistributionSet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.GetSetHandler(r.Context(), r.PathValue("set_id"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDistributionSets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePage(query)
	resp, err := s.distribution.Handler.ListSetsHandler(r.Context(), ports.SetFilter{
		Type:   query.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDistributionSet(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.UpdateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.UpdateSetHandler(r.Context(), r.PathValue("set_id"), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDistributionSet(w http.ResponseWriter, r *http.Request) {
	if err := s.distribution.Handler.DeleteSetHandler(r.Context(), r.PathValue("set_id")); err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleListAssignedModules(w http.ResponseWriter, r *http.Request) {
	set, err := s.distribution.Service.GetDistributionSet(r.Context(), r.PathValue("set_id"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	resp := distributionhttp.SoftwareModuleListResponse{
		Status: "success",
		Data:   make([]distributionhttp.SoftwareModuleDTO, 0, len(set.ModuleIDs)),
	}
	for _, moduleID := range set.ModuleIDs {
		moduleResp, err := s.distribution.Handler.GetModuleHandler(r.Context(), moduleID)
		if err != nil {
			writeDistributionDomainError(w, err)
			return
		}
		resp.Data = append(resp.Data, moduleResp.Data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignModules(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.AssignModulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.AssignModulesHandler(r.Context(), r.PathValue("set_id"), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnassignModule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.UnassignModuleHandler(r.Context(), r.PathValue("set_id"), r.PathValue("module_id"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSoftwareModule(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.CreateModuleHandler(r.Context(), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSoftwareModule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.GetModuleHandler(r.Context(), r.PathValue("module_id"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSoftwareModules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePage(query)
	resp, err := s.distribution.Handler.ListModulesHandler(r.Context(), ports.ModuleFilter{
		Type:   entities.ModuleType(query.Get("type")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateMetadata(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.CreateMetadataHandler(r.Context(), r.PathValue("set_id"), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.GetMetadataHandler(r.Context(), r.PathValue("set_id"), r.PathValue("metadata_key"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMetadata(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.ListMetadataHandler(r.Context(), r.PathValue("set_id"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.UpdateMetadataHandler(r.Context(), r.PathValue("set_id"), r.PathValue("metadata_key"), req.Value)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMetadata(w http.ResponseWriter, r *http.Request) {
	if err := s.distribution.Handler.DeleteMetadataHandler(r.Context(), r.PathValue("set_id"), r.PathValue("metadata_key")); err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

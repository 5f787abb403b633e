package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	artifacterrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"
	artifacthttp "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/transport/http"
)

func writeArtifactError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, artifacthttp.ErrorResponse{Code: code, Message: message})
}

func writeArtifactDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, artifacterrors.ErrArtifactNotFound),
		errors.Is(err, artifacterrors.ErrModuleUnknown),
		errors.Is(err, artifacterrors.ErrBlobNotFound):
		writeArtifactError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, artifacterrors.ErrArtifactExists):
		writeArtifactError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, artifacterrors.ErrInvalidArtifact):
		writeArtifactError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeArtifactError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleUploadArtifact(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = r.Header.Get("X-Filename")
	}
	defer r.Body.Close()

	resp, err := s.artifacts.Handler.UploadArtifactHandler(r.Context(), r.PathValue("module_id"), filename, r.Body)
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	resp, err := s.artifacts.Handler.GetArtifactHandler(r.Context(), r.PathValue("artifact_id"))
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.artifacts.Handler.ListArtifactsHandler(r.Context(), r.PathValue("module_id"))
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	stream, artifact, err := s.artifacts.Handler.DownloadArtifactHandler(r.Context(), r.PathValue("artifact_id"))
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(artifact.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	if _, err := io.Copy(w, stream); err != nil {
		s.logger.Error("artifact download interrupted",
			"event", "artifact_download_interrupted",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"artifact_id", artifact.ArtifactID,
			"error", err.Error(),
		)
	}
}

func (s *Server) handleDeleteArtifact(w http.ResponseWriter, r *http.Request) {
	if err := s.artifacts.Handler.DeleteArtifactHandler(r.Context(), r.PathValue("artifact_id")); err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

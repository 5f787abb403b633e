package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	artifactservice "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service"
	distributionservice "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service"
	targetservice "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service"
	deploymentservice "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/sergeysedoy97/hawkbit/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	distribution distributionservice.Module
	targets      targetservice.Module
	deployment   deploymentservice.Module
	artifacts    artifactservice.Module
}

func New(
	distribution distributionservice.Module,
	targets targetservice.Module,
	deployment deploymentservice.Module,
	artifacts artifactservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		distribution: distribution,
		targets:      targets,
		deployment:   deployment,
		artifacts:    artifacts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /rest/v1/distributionsets", s.handleListDistributionSets)
	s.mux.HandleFunc("POST /rest/v1/distributionsets", s.handleCreateDistributionSet)
	s.mux.HandleFunc("GET /rest/v1/distributionsets/{set_id}", s.handleGetDistributionSet)
	s.mux.HandleFunc("PUT /rest/v1/distributionsets/{set_id}", s.handleUpdateDistributionSet)
	s.mux.HandleFunc("DELETE /rest/v1/distributionsets/{set_id}", s.handleDeleteDistributionSet)
	s.mux.HandleFunc("GET /rest/v1/distributionsets/{set_id}/assignedSM", s.handleListAssignedModules)
	s.mux.HandleFunc("POST /rest/v1/distributionsets/{set_id}/assignedSM", s.handleAssignModules)
	s.mux.HandleFunc("DELETE /rest/v1/distributionsets/{set_id}/assignedSM/{module_id}", s.handleUnassignModule)
	s.mux.HandleFunc("GET /rest/v1/distributionsets/{set_id}/metadata", s.handleListMetadata)
	s.mux.HandleFunc("POST /rest/v1/distributionsets/{set_id}/metadata", s.handleCreateMetadata)
	s.mux.HandleFunc("GET /rest/v1/distributionsets/{set_id}/metadata/{metadata_key}", s.handleGetMetadata)
	s.mux.HandleFunc("PUT /rest/v1/distributionsets/{set_id}/metadata/{metadata_key}", s.handleUpdateMetadata)
	s.mux.HandleFunc("DELETE /rest/v1/distributionsets/{set_id}/metadata/{metadata_key}", s.handleDeleteMetadata)

	s.mux.HandleFunc("GET /rest/v1/softwaremodules", s.handleListSoftwareModules)
	s.mux.HandleFunc("POST /rest/v1/softwaremodules", s.handleCreateSoftwareModule)
	s.mux.HandleFunc("GET /rest/v1/softwaremodules/{module_id}", s.handleGetSoftwareModule)
	s.mux.HandleFunc("GET /rest/v1/softwaremodules/{module_id}/artifacts", s.handleListArtifacts)
	s.mux.HandleFunc("POST /rest/v1/softwaremodules/{module_id}/artifacts", s.handleUploadArtifact)
	s.mux.HandleFunc("GET /rest/v1/softwaremodules/{module_id}/artifacts/{artifact_id}", s.handleGetArtifact)
	s.mux.HandleFunc("GET /rest/v1/softwaremodules/{module_id}/artifacts/{artifact_id}/download", s.handleDownloadArtifact)
	s.mux.HandleFunc("DELETE /rest/v1/softwaremodules/{module_id}/artifacts/{artifact_id}", s.handleDeleteArtifact)

	s.mux.HandleFunc("GET /rest/v1/targets", s.handleListTargets)
	s.mux.HandleFunc("POST /rest/v1/targets", s.handleRegisterTarget)
	s.mux.HandleFunc("GET /rest/v1/targets/{controller_id}", s.handleGetTarget)
	s.mux.HandleFunc("PUT /rest/v1/targets/{controller_id}", s.handleUpdateTarget)
	s.mux.HandleFunc("DELETE /rest/v1/targets/{controller_id}", s.handleDeleteTarget)

	s.mux.HandleFunc("GET /rest/v1/distributionsets/{set_id}/assignedTargets", s.handleListSetActions)
	s.mux.HandleFunc("POST /rest/v1/distributionsets/{set_id}/assignedTargets", s.handleAssignDistributionSet)
	s.mux.HandleFunc("GET /rest/v1/distributionsets/{set_id}/installedTargets", s.handleListInstalledTargets)
	s.mux.HandleFunc("GET /rest/v1/targets/{controller_id}/actions", s.handleListTargetActions)
	s.mux.HandleFunc("GET /rest/v1/targets/{controller_id}/actions/{action_id}", s.handleGetAction)
	s.mux.HandleFunc("DELETE /rest/v1/targets/{controller_id}/actions/{action_id}", s.handleCancelAction)
	s.mux.HandleFunc("GET /rest/v1/targets/{controller_id}/actions/{action_id}/status", s.handleListActionStatus)
	s.mux.HandleFunc("POST /rest/v1/targets/{controller_id}/actions/{action_id}/feedback", s.handleActionFeedback)
	s.mux.HandleFunc("GET /rest/v1/targets/{controller_id}/controller/pending", s.handlePendingAction)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package httpadapter

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/entities"
	httptransport "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// UploadArtifactHandler godoc
// @Summary Upload an artifact to a software module
// @Description Streams the payload in, computes sha1/md5/size and stores the blob content-addressed.
// @Tags artifacts
// @Accept octet-stream
// @Produce json
// @Param module_id path string true "Software module id"
// @Param filename query string true "Artifact filename"
// @Success 201 {object} httptransport.ArtifactResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /softwaremodules/{module_id}/artifacts [post]
func (h Handler) UploadArtifactHandler(ctx context.Context, moduleID string, filename string, content io.Reader) (httptransport.ArtifactResponse, error) {
	artifact, err := h.Service.UploadArtifact(ctx, moduleID, filename, content)
	if err != nil {
		return httptransport.ArtifactResponse{}, err
	}
	return httptransport.ArtifactResponse{Status: "success", Data: toDTO(artifact)}, nil
}

// GetArtifactHandler godoc
// @Summary Get artifact metadata
// @Tags artifacts
// @Produce json
// @Param module_id path string true "Software module id"
// @Param artifact_id path string true "Artifact id"
// @Success 200 {object} httptransport.ArtifactResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /softwaremodules/{module_id}/artifacts/{artifact_id} [get]
func (h Handler) GetArtifactHandler(ctx context.Context, artifactID string) (httptransport.ArtifactResponse, error) {
	artifact, err := h.Service.GetArtifact(ctx, artifactID)
	if err != nil {
		return httptransport.ArtifactResponse{}, err
	}
	return httptransport.ArtifactResponse{Status: "success", Data: toDTO(artifact)}, nil
}

// ListArtifactsHandler godoc
// @Summary List a software module's artifacts
// @Tags artifacts
// @Produce json
// @Param module_id path string true "Software module id"
// @Success 200 {object} httptransport.ArtifactListResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /softwaremodules/{module_id}/artifacts [get]
func (h Handler) ListArtifactsHandler(ctx context.Context, moduleID string) (httptransport.ArtifactListResponse, error) {
	items, err := h.Service.ListArtifactsByModule(ctx, moduleID)
	if err != nil {
		return httptransport.ArtifactListResponse{}, err
	}
	resp := httptransport.ArtifactListResponse{
		Status: "success",
		Data:   make([]httptransport.ArtifactDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toDTO(item))
	}
	return resp, nil
}

// DownloadArtifactHandler opens a fresh payload stream. The HTTP layer
// copies it to the response and closes it.
func (h Handler) DownloadArtifactHandler(ctx context.Context, artifactID string) (io.ReadCloser, entities.Artifact, error) {
	return h.Service.OpenStream(ctx, artifactID)
}

// DeleteArtifactHandler godoc
// @Summary Delete an artifact
// @Tags artifacts
// @Param module_id path string true "Software module id"
// @Param artifact_id path string true "Artifact id"
// @Success 200
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /softwaremodules/{module_id}/artifacts/{artifact_id} [delete]
func (h Handler) DeleteArtifactHandler(ctx context.Context, artifactID string) error {
	return h.Service.DeleteArtifact(ctx, artifactID)
}

func toDTO(artifact entities.Artifact) httptransport.ArtifactDTO {
	return httptransport.ArtifactDTO{
		ArtifactID: artifact.ArtifactID,
		ModuleID:   artifact.ModuleID,
		Filename:   artifact.Filename,
		SHA1:       artifact.SHA1,
		MD5:        artifact.MD5,
		SizeBytes:  artifact.SizeBytes,
		CreatedAt:  artifact.CreatedAt.UTC().Format(time.RFC3339),
	}
}

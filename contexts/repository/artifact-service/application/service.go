package application

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/ports"
)

type Service struct {
	Artifacts ports.ArtifactRepository
	Blobs     ports.BlobStore
	Modules   ports.ModuleCatalog
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// UploadArtifact streams the payload into the blob store, hashing as it
// writes, and records the metadata. A second upload of identical content
// under a different name shares the blob; the same filename on the same
// module is a conflict.
func (s Service) UploadArtifact(ctx context.Context, moduleID string, filename string, content io.Reader) (entities.Artifact, error) {
	moduleID = strings.TrimSpace(moduleID)
	filename = strings.TrimSpace(filename)
	if moduleID == "" || filename == "" || content == nil {
		return entities.Artifact{}, domainerrors.ErrInvalidArtifact
	}

	exists, err := s.Modules.ModuleExists(ctx, moduleID)
	if err != nil {
		return entities.Artifact{}, err
	}
	if !exists {
		return entities.Artifact{}, domainerrors.ErrModuleUnknown
	}

	if _, taken, err := s.Artifacts.FindByFilename(ctx, moduleID, filename); err != nil {
		return entities.Artifact{}, err
	} else if taken {
		return entities.Artifact{}, domainerrors.ErrArtifactExists
	}

	blob, err := s.Blobs.Store(ctx, content)
	if err != nil {
		return entities.Artifact{}, err
	}

	artifactID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Artifact{}, err
	}
	artifact := entities.Artifact{
		ArtifactID: artifactID,
		ModuleID:   moduleID,
		Filename:   filename,
		SHA1:       blob.SHA1,
		MD5:        blob.MD5,
		SizeBytes:  blob.SizeBytes,
		CreatedAt:  s.Clock.Now().UTC(),
	}
	if err := s.Artifacts.CreateArtifact(ctx, artifact); err != nil {
		return entities.Artifact{}, err
	}

	resolveLogger(s.Logger).Info("artifact uploaded",
		"event", "artifact_uploaded",
		"module", "repository/artifact-service",
		"layer", "application",
		"artifact_id", artifactID,
		"module_id", moduleID,
		"filename", filename,
		"sha1", blob.SHA1,
		"size_bytes", blob.SizeBytes,
	)
	return artifact, nil
}

func (s Service) GetArtifact(ctx context.Context, artifactID string) (entities.Artifact, error) {
	return s.Artifacts.GetArtifact(ctx, strings.TrimSpace(artifactID))
}

func (s Service) ListArtifactsByModule(ctx context.Context, moduleID string) ([]entities.Artifact, error) {
	moduleID = strings.TrimSpace(moduleID)
	exists, err := s.Modules.ModuleExists(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainerrors.ErrModuleUnknown
	}
	return s.Artifacts.ListArtifactsByModule(ctx, moduleID)
}

func (s Service) FindBySHA1(ctx context.Context, sha1 string) ([]entities.Artifact, error) {
	return s.Artifacts.FindBySHA1(ctx, strings.ToLower(strings.TrimSpace(sha1)))
}

// OpenStream returns a fresh reader over the artifact's payload. Callers
// own the returned stream and must close it; two calls never share state.
func (s Service) OpenStream(ctx context.Context, artifactID string) (io.ReadCloser, entities.Artifact, error) {
	artifact, err := s.Artifacts.GetArtifact(ctx, strings.TrimSpace(artifactID))
	if err != nil {
		return nil, entities.Artifact{}, err
	}
	stream, err := s.Blobs.Open(ctx, artifact.SHA1)
	if err != nil {
		return nil, entities.Artifact{}, err
	}
	return stream, artifact, nil
}

// DeleteArtifact removes the metadata row and garbage-collects the blob
// once the last artifact referencing it is gone.
func (s Service) DeleteArtifact(ctx context.Context, artifactID string) error {
	artifact, err := s.Artifacts.GetArtifact(ctx, strings.TrimSpace(artifactID))
	if err != nil {
		return err
	}
	if err := s.Artifacts.DeleteArtifact(ctx, artifact.ArtifactID); err != nil {
		return err
	}

	remaining, err := s.Artifacts.CountBySHA1(ctx, artifact.SHA1)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.Blobs.Delete(ctx, artifact.SHA1); err != nil {
			return err
		}
	}

	resolveLogger(s.Logger).Info("artifact deleted",
		"event", "artifact_deleted",
		"module", "repository/artifact-service",
		"layer", "application",
		"artifact_id", artifact.ArtifactID,
		"sha1", artifact.SHA1,
		"blob_removed", remaining == 0,
	)
	return nil
}

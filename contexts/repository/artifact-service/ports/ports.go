package ports

import (
	"context"
	"io"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/entities"
)

type ArtifactRepository interface {
	CreateArtifact(ctx context.Context, artifact entities.Artifact) error
	GetArtifact(ctx context.Context, artifactID string) (entities.Artifact, error)
	ListArtifactsByModule(ctx context.Context, moduleID string) ([]entities.Artifact, error)
	FindBySHA1(ctx context.Context, sha1 string) ([]entities.Artifact, error)
	FindByFilename(ctx context.Context, moduleID string, filename string) (entities.Artifact, bool, error)
	CountBySHA1(ctx context.Context, sha1 string) (int, error)
	DeleteArtifact(ctx context.Context, artifactID string) error
}

// StoredBlob is what the blob store learned about a payload while writing it.
type StoredBlob struct {
	SHA1      string
	MD5       string
	SizeBytes int64
}

// BlobStore keeps payloads addressed by their SHA1. Open hands out a fresh
// independent reader on every call; concurrent readers of the same blob do
// not share position.
type BlobStore interface {
	Store(ctx context.Context, content io.Reader) (StoredBlob, error)
	Open(ctx context.Context, sha1 string) (io.ReadCloser, error)
	Delete(ctx context.Context, sha1 string) error
}

// ModuleCatalog answers software module existence for upload validation.
type ModuleCatalog interface {
	ModuleExists(ctx context.Context, moduleID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

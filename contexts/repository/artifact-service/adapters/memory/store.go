package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.RWMutex
	artifacts map[string]entities.Artifact
	blobs     map[string][]byte
	modules   map[string]struct{}
}

func NewStore(seedModules []string) *Store {
	store := &Store{
		artifacts: make(map[string]entities.Artifact),
		blobs:     make(map[string][]byte),
		modules:   make(map[string]struct{}),
	}
	for _, moduleID := range seedModules {
		store.modules[moduleID] = struct{}{}
	}
	return store
}

func (s *Store) AddModule(moduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[moduleID] = struct{}{}
}

func (s *Store) CreateArtifact(_ context.Context, artifact entities.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(artifact.ArtifactID)
	if id == "" {
		return domainerrors.ErrInvalidArtifact
	}
	if _, exists := s.artifacts[id]; exists {
		return domainerrors.ErrInvalidArtifact
	}
	s.artifacts[id] = artifact
	return nil
}

func (s *Store) GetArtifact(_ context.Context, artifactID string) (entities.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifact, ok := s.artifacts[strings.TrimSpace(artifactID)]
	if !ok {
		return entities.Artifact{}, domainerrors.ErrArtifactNotFound
	}
	return artifact, nil
}

func (s *Store) ListArtifactsByModule(_ context.Context, moduleID string) ([]entities.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Artifact, 0)
	for _, artifact := range s.artifacts {
		if artifact.ModuleID == moduleID {
			items = append(items, artifact)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Filename < items[j].Filename
	})
	return items, nil
}

func (s *Store) FindBySHA1(_ context.Context, sha string) ([]entities.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Artifact, 0)
	for _, artifact := range s.artifacts {
		if artifact.SHA1 == sha {
			items = append(items, artifact)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ArtifactID < items[j].ArtifactID
	})
	return items, nil
}

func (s *Store) FindByFilename(_ context.Context, moduleID string, filename string) (entities.Artifact, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, artifact := range s.artifacts {
		if artifact.ModuleID == moduleID && artifact.Filename == filename {
			return artifact, true, nil
		}
	}
	return entities.Artifact{}, false, nil
}

func (s *Store) CountBySHA1(_ context.Context, sha string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, artifact := range s.artifacts {
		if artifact.SHA1 == sha {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteArtifact(_ context.Context, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(artifactID)
	if _, exists := s.artifacts[id]; !exists {
		return domainerrors.ErrArtifactNotFound
	}
	delete(s.artifacts, id)
	return nil
}

func (s *Store) Store(_ context.Context, content io.Reader) (ports.StoredBlob, error) {
	sha := sha1.New()
	sum := md5.New()
	var buf bytes.Buffer
	size, err := io.Copy(io.MultiWriter(sha, sum, &buf), content)
	if err != nil {
		return ports.StoredBlob{}, err
	}

	blob := ports.StoredBlob{
		SHA1:      hex.EncodeToString(sha.Sum(nil)),
		MD5:       hex.EncodeToString(sum.Sum(nil)),
		SizeBytes: size,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.blobs[blob.SHA1]; !exists {
		s.blobs[blob.SHA1] = buf.Bytes()
	}
	return blob, nil
}

// Open returns a reader over a private copy so concurrent callers never
// observe each other's position.
func (s *Store) Open(_ context.Context, sha string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.blobs[sha]
	if !ok {
		return nil, domainerrors.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), payload...))), nil
}

func (s *Store) Delete(_ context.Context, sha string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[sha]; !ok {
		return domainerrors.ErrBlobNotFound
	}
	delete(s.blobs, sha)
	return nil
}

func (s *Store) ModuleExists(_ context.Context, moduleID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.modules[strings.TrimSpace(moduleID)]
	return ok, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

package application

import (
	"context"
	"strings"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
)

// Metadata operations carry no state-machine semantics: they are plain CRUD
// over the (set id, key) compound key and ignore the composition lock.

func (s Service) CreateMetadata(ctx context.Context, setID string, key string, value string) (entities.SetMetadata, error) {
	metadataKey, err := s.metadataKey(ctx, setID, key)
	if err != nil {
		return entities.SetMetadata{}, err
	}

	item := entities.SetMetadata{Key: metadataKey, Value: value}
	if err := s.Metadata.CreateMetadata(ctx, item); err != nil {
		return entities.SetMetadata{}, err
	}
	return item, nil
}

func (s Service) GetMetadata(ctx context.Context, setID string, key string) (entities.SetMetadata, error) {
	metadataKey, err := s.metadataKey(ctx, setID, key)
	if err != nil {
		return entities.SetMetadata{}, err
	}
	return s.Metadata.GetMetadata(ctx, metadataKey)
}

func (s Service) ListMetadata(ctx context.Context, setID string) ([]entities.SetMetadata, error) {
	setID = strings.TrimSpace(setID)
	if _, err := s.Sets.GetSet(ctx, setID); err != nil {
		return nil, err
	}
	return s.Metadata.ListMetadata(ctx, setID)
}

func (s Service) UpdateMetadata(ctx context.Context, setID string, key string, value string) (entities.SetMetadata, error) {
	metadataKey, err := s.metadataKey(ctx, setID, key)
	if err != nil {
		return entities.SetMetadata{}, err
	}

	item := entities.SetMetadata{Key: metadataKey, Value: value}
	if err := s.Metadata.UpdateMetadata(ctx, item); err != nil {
		return entities.SetMetadata{}, err
	}
	return item, nil
}

func (s Service) DeleteMetadata(ctx context.Context, setID string, key string) error {
	metadataKey, err := s.metadataKey(ctx, setID, key)
	if err != nil {
		return err
	}
	return s.Metadata.DeleteMetadata(ctx, metadataKey)
}

func (s Service) metadataKey(ctx context.Context, setID string, key string) (entities.MetadataKey, error) {
	setID = strings.TrimSpace(setID)
	key = strings.TrimSpace(key)
	if key == "" {
		return entities.MetadataKey{}, domainerrors.ErrInvalidMetadataKey
	}
	if _, err := s.Sets.GetSet(ctx, setID); err != nil {
		return entities.MetadataKey{}, err
	}
	return entities.MetadataKey{SetID: setID, Key: key}, nil
}

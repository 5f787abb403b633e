package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateSet(ctx context.Context, set entities.DistributionSet) error {
	row := setModelFromEntity(set)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidSet
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateSet(ctx context.Context, set entities.DistributionSet) error {
	row := setModelFromEntity(set)
	result := r.db.WithContext(ctx).
		Model(&setModel{}).
		Where("set_id = ?", row.SetID).
		Updates(map[string]any{
			"name":        row.Name,
			"version":     row.Version,
			"description": row.Description,
			"updated_at":  row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDistributionSetNotFound
	}
	return nil
}

func (r *Repository) GetSet(ctx context.Context, setID string) (entities.DistributionSet, error) {
	var row setModel
	err := r.db.WithContext(ctx).
		Where("set_id = ?", strings.TrimSpace(setID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DistributionSet{}, domainerrors.ErrDistributionSetNotFound
		}
		return entities.DistributionSet{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSets(ctx context.Context, filter ports.SetFilter) ([]entities.DistributionSet, error) {
	tx := r.db.WithContext(ctx).Model(&setModel{})
	if strings.TrimSpace(filter.Type) != "" {
		tx = tx.Where("type = ?", strings.TrimSpace(filter.Type))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []setModel
	if err := tx.Order("name ASC, version ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.DistributionSet, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteSet(ctx context.Context, setID string) error {
	setID = strings.TrimSpace(setID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("set_id = ?", setID).Delete(&setModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrDistributionSetNotFound
		}
		return tx.Where("set_id = ?", setID).Delete(&metadataModel{}).Error
	})
}

func (r *Repository) ReplaceModules(ctx context.Context, setID string, moduleIDs []string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&setModel{}).
		Where("set_id = ?", strings.TrimSpace(setID)).
		Updates(map[string]any{
			"module_ids": copyOrEmpty(moduleIDs),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDistributionSetNotFound
	}
	return nil
}

func (r *Repository) CreateModule(ctx context.Context, module entities.SoftwareModule) error {
	row := moduleModelFromEntity(module)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidModule
		}
		return err
	}
	return nil
}

func (r *Repository) GetModule(ctx context.Context, moduleID string) (entities.SoftwareModule, error) {
	var row moduleModel
	err := r.db.WithContext(ctx).
		Where("module_id = ?", strings.TrimSpace(moduleID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SoftwareModule{}, domainerrors.ErrSoftwareModuleNotFound
		}
		return entities.SoftwareModule{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListModules(ctx context.Context, filter ports.ModuleFilter) ([]entities.SoftwareModule, error) {
	tx := r.db.WithContext(ctx).Model(&moduleModel{})
	if filter.Type != "" {
		tx = tx.Where("type = ?", string(filter.Type))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []moduleModel
	if err := tx.Order("name ASC, version ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.SoftwareModule, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateMetadata(ctx context.Context, item entities.SetMetadata) error {
	row := metadataModel{
		SetID:       item.Key.SetID,
		MetadataKey: item.Key.Key,
		Value:       item.Value,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrMetadataKeyExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetMetadata(ctx context.Context, key entities.MetadataKey) (entities.SetMetadata, error) {
	var row metadataModel
	err := r.db.WithContext(ctx).
		Where("set_id = ? AND metadata_key = ?", key.SetID, key.Key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SetMetadata{}, domainerrors.ErrMetadataNotFound
		}
		return entities.SetMetadata{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMetadata(ctx context.Context, setID string) ([]entities.SetMetadata, error) {
	var rows []metadataModel
	err := r.db.WithContext(ctx).
		Where("set_id = ?", strings.TrimSpace(setID)).
		Order("metadata_key ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.SetMetadata, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateMetadata(ctx context.Context, item entities.SetMetadata) error {
	result := r.db.WithContext(ctx).
		Model(&metadataModel{}).
		Where("set_id = ? AND metadata_key = ?", item.Key.SetID, item.Key.Key).
		Update("value", item.Value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMetadataNotFound
	}
	return nil
}

func (r *Repository) DeleteMetadata(ctx context.Context, key entities.MetadataKey) error {
	result := r.db.WithContext(ctx).
		Where("set_id = ? AND metadata_key = ?", key.SetID, key.Key).
		Delete(&metadataModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMetadataNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}

type setModel struct {
	SetID                 string    `gorm:"column:set_id;primaryKey"`
	Name                  string    `gorm:"column:name"`
	Version               string    `gorm:"column:version"`
	Type                  string    `gorm:"column:type"`
	Description           string    `gorm:"column:description"`
	RequiredMigrationStep bool      `gorm:"column:required_migration_step"`
	ModuleIDs             []string  `gorm:"column:module_ids;type:text[]"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (setModel) TableName() string {
	return "distribution_sets"
}

func setModelFromEntity(item entities.DistributionSet) setModel {
	return setModel{
		SetID:                 strings.TrimSpace(item.SetID),
		Name:                  strings.TrimSpace(item.Name),
		Version:               strings.TrimSpace(item.Version),
		Type:                  strings.TrimSpace(item.Type),
		Description:           strings.TrimSpace(item.Description),
		RequiredMigrationStep: item.RequiredMigrationStep,
		ModuleIDs:             copyOrEmpty(item.ModuleIDs),
		CreatedAt:             item.CreatedAt.UTC(),
		UpdatedAt:             item.UpdatedAt.UTC(),
	}
}

func (m setModel) toEntity() entities.DistributionSet {
	return entities.DistributionSet{
		SetID:                 m.SetID,
		Name:                  m.Name,
		Version:               m.Version,
		Type:                  m.Type,
		Description:           m.Description,
		RequiredMigrationStep: m.RequiredMigrationStep,
		ModuleIDs:             append([]string(nil), m.ModuleIDs...),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

type moduleModel struct {
	ModuleID    string    `gorm:"column:module_id;primaryKey"`
	Type        string    `gorm:"column:type"`
	Name        string    `gorm:"column:name"`
	Version     string    `gorm:"column:version"`
	Vendor      string    `gorm:"column:vendor"`
	Description string    `gorm:"column:description"`
	ArtifactIDs []string  `gorm:"column:artifact_ids;type:text[]"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (moduleModel) TableName() string {
	return "software_modules"
}

func moduleModelFromEntity(item entities.SoftwareModule) moduleModel {
	return moduleModel{
		ModuleID:    strings.TrimSpace(item.ModuleID),
		Type:        string(item.Type),
		Name:        strings.TrimSpace(item.Name),
		Version:     strings.TrimSpace(item.Version),
		Vendor:      strings.TrimSpace(item.Vendor),
		Description: strings.TrimSpace(item.Description),
		ArtifactIDs: copyOrEmpty(item.ArtifactIDs),
		CreatedAt:   item.CreatedAt.UTC(),
	}
}

func (m moduleModel) toEntity() entities.SoftwareModule {
	return entities.SoftwareModule{
		ModuleID:    m.ModuleID,
		Type:        entities.ModuleType(m.Type),
		Name:        m.Name,
		Version:     m.Version,
		Vendor:      m.Vendor,
		Description: m.Description,
		ArtifactIDs: append([]string(nil), m.ArtifactIDs...),
		CreatedAt:   m.CreatedAt,
	}
}

type metadataModel struct {
	SetID       string `gorm:"column:set_id;primaryKey"`
	MetadataKey string `gorm:"column:metadata_key;primaryKey"`
	Value       string `gorm:"column:value"`
}

func (metadataModel) TableName() string {
	return "distribution_set_metadata"
}

func (m metadataModel) toEntity() entities.SetMetadata {
	return entities.SetMetadata{
		Key:   entities.MetadataKey{SetID: m.SetID, Key: m.MetadataKey},
		Value: m.Value,
	}
}

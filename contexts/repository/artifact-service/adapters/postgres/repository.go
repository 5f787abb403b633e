package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"

	"github.com/google/uuid"
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

func (r *Repository) CreateArtifact(ctx context.Context, artifact entities.Artifact) error {
	row := artifactModelFromEntity(artifact)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrArtifactExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetArtifact(ctx context.Context, artifactID string) (entities.Artifact, error) {
	var row artifactModel
	err := r.db.WithContext(ctx).
		Where("artifact_id = ?", strings.TrimSpace(artifactID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Artifact{}, domainerrors.ErrArtifactNotFound
		}
		return entities.Artifact{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListArtifactsByModule(ctx context.Context, moduleID string) ([]entities.Artifact, error) {
	var rows []artifactModel
	err := r.db.WithContext(ctx).
		Where("module_id = ?", strings.TrimSpace(moduleID)).
		Order("filename ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) FindBySHA1(ctx context.Context, sha string) ([]entities.Artifact, error) {
	var rows []artifactModel
	err := r.db.WithContext(ctx).
		Where("sha1 = ?", strings.TrimSpace(sha)).
		Order("artifact_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) FindByFilename(ctx context.Context, moduleID string, filename string) (entities.Artifact, bool, error) {
	var row artifactModel
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND filename = ?", strings.TrimSpace(moduleID), strings.TrimSpace(filename)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Artifact{}, false, nil
		}
		return entities.Artifact{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountBySHA1(ctx context.Context, sha string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&artifactModel{}).
		Where("sha1 = ?", strings.TrimSpace(sha)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) DeleteArtifact(ctx context.Context, artifactID string) error {
	result := r.db.WithContext(ctx).
		Where("artifact_id = ?", strings.TrimSpace(artifactID)).
		Delete(&artifactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrArtifactNotFound
	}
	return nil
}

// ModuleCatalog checks software module existence against the repository
// context's table.
type ModuleCatalog struct {
	db *gorm.DB
}

func NewModuleCatalog(db *gorm.DB) *ModuleCatalog {
	return &ModuleCatalog{db: db}
}

func (c *ModuleCatalog) ModuleExists(ctx context.Context, moduleID string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Table("software_modules").
		Where("module_id = ?", strings.TrimSpace(moduleID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type artifactModel struct {
	ArtifactID string    `gorm:"column:artifact_id;primaryKey"`
	ModuleID   string    `gorm:"column:module_id;index"`
	Filename   string    `gorm:"column:filename"`
	SHA1       string    `gorm:"column:sha1;index"`
	MD5        string    `gorm:"column:md5"`
	SizeBytes  int64     `gorm:"column:size_bytes"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (artifactModel) TableName() string {
	return "artifacts"
}

func artifactModelFromEntity(item entities.Artifact) artifactModel {
	return artifactModel{
		ArtifactID: strings.TrimSpace(item.ArtifactID),
		ModuleID:   strings.TrimSpace(item.ModuleID),
		Filename:   strings.TrimSpace(item.Filename),
		SHA1:       strings.TrimSpace(item.SHA1),
		MD5:        strings.TrimSpace(item.MD5),
		SizeBytes:  item.SizeBytes,
		CreatedAt:  item.CreatedAt.UTC(),
	}
}

func (m artifactModel) toEntity() entities.Artifact {
	return entities.Artifact{
		ArtifactID: m.ArtifactID,
		ModuleID:   m.ModuleID,
		Filename:   m.Filename,
		SHA1:       m.SHA1,
		MD5:        m.MD5,
		SizeBytes:  m.SizeBytes,
		CreatedAt:  m.CreatedAt,
	}
}

func toEntities(rows []artifactModel) []entities.Artifact {
	items := make([]entities.Artifact, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

// UUIDGenerator creates artifact identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

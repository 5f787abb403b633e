package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/ports"

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

func (r *Repository) CreateTarget(ctx context.Context, target entities.Target) error {
	row := targetModelFromEntity(target)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrTargetExists
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateTarget(ctx context.Context, target entities.Target) error {
	result := r.db.WithContext(ctx).
		Model(&targetModel{}).
		Where("controller_id = ?", strings.TrimSpace(target.ControllerID)).
		Updates(map[string]any{
			"name":        strings.TrimSpace(target.Name),
			"description": strings.TrimSpace(target.Description),
			"address":     strings.TrimSpace(target.Address),
			"updated_at":  target.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTargetNotFound
	}
	return nil
}

func (r *Repository) GetTarget(ctx context.Context, controllerID string) (entities.Target, error) {
	var row targetModel
	err := r.db.WithContext(ctx).
		Where("controller_id = ?", strings.TrimSpace(controllerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Target{}, domainerrors.ErrTargetNotFound
		}
		return entities.Target{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTargets(ctx context.Context, filter ports.TargetFilter) ([]entities.Target, error) {
	tx := r.db.WithContext(ctx).Model(&targetModel{})
	if strings.TrimSpace(filter.AssignedSetID) != "" {
		tx = tx.Where("assigned_set_id = ?", strings.TrimSpace(filter.AssignedSetID))
	}
	if strings.TrimSpace(filter.InstalledSetID) != "" {
		tx = tx.Where("installed_set_id = ?", strings.TrimSpace(filter.InstalledSetID))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []targetModel
	if err := tx.Order("controller_id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Target, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteTarget(ctx context.Context, controllerID string) error {
	result := r.db.WithContext(ctx).
		Where("controller_id = ?", strings.TrimSpace(controllerID)).
		Delete(&targetModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTargetNotFound
	}
	return nil
}

func (r *Repository) UpdatePointers(ctx context.Context, controllerID string, update ports.PointerUpdate) error {
	fields := map[string]any{"updated_at": update.UpdatedAt.UTC()}
	if update.SetAssigned {
		fields["assigned_set_id"] = update.AssignedSetID
	}
	if update.SetInstalled {
		fields["installed_set_id"] = update.InstalledSetID
	}
	if update.SetActive {
		fields["active_action_id"] = update.ActiveActionID
	}

	result := r.db.WithContext(ctx).
		Model(&targetModel{}).
		Where("controller_id = ?", strings.TrimSpace(controllerID)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTargetNotFound
	}
	return nil
}

func (r *Repository) TouchLastContact(ctx context.Context, controllerID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&targetModel{}).
		Where("controller_id = ?", strings.TrimSpace(controllerID)).
		Update("last_contact_at", at.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTargetNotFound
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

type targetModel struct {
	ControllerID   string     `gorm:"column:controller_id;primaryKey"`
	Name           string     `gorm:"column:name"`
	Description    string     `gorm:"column:description"`
	Address        string     `gorm:"column:address"`
	AssignedSetID  *string    `gorm:"column:assigned_set_id"`
	InstalledSetID *string    `gorm:"column:installed_set_id"`
	ActiveActionID *string    `gorm:"column:active_action_id"`
	LastContactAt  time.Time  `gorm:"column:last_contact_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (targetModel) TableName() string {
	return "targets"
}

func targetModelFromEntity(item entities.Target) targetModel {
	return targetModel{
		ControllerID:   strings.TrimSpace(item.ControllerID),
		Name:           strings.TrimSpace(item.Name),
		Description:    strings.TrimSpace(item.Description),
		Address:        strings.TrimSpace(item.Address),
		AssignedSetID:  item.AssignedSetID,
		InstalledSetID: item.InstalledSetID,
		ActiveActionID: item.ActiveActionID,
		LastContactAt:  item.LastContactAt.UTC(),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m targetModel) toEntity() entities.Target {
	return entities.Target{
		ControllerID:   m.ControllerID,
		Name:           m.Name,
		Description:    m.Description,
		Address:        m.Address,
		AssignedSetID:  m.AssignedSetID,
		InstalledSetID: m.InstalledSetID,
		ActiveActionID: m.ActiveActionID,
		LastContactAt:  m.LastContactAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

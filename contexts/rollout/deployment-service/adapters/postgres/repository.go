package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"

	"gorm.io/gorm"
)

var terminalStatuses = []string{
	string(entities.ActionStatusFinished),
	string(entities.ActionStatusError),
	string(entities.ActionStatusCanceled),
}

// Repository persists actions and their history. Every mutation carries a
// `status NOT IN (terminal)` guard so a terminal row can never change, no
// matter what the caller asks for.
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

func (r *Repository) CreateAction(ctx context.Context, action entities.Action, first entities.ActionStatusEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := actionModelFromEntity(action)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		entry, err := entryModelFromEntity(first)
		if err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
}

func (r *Repository) GetAction(ctx context.Context, actionID string) (entities.Action, error) {
	var row actionModel
	err := r.db.WithContext(ctx).
		Where("action_id = ?", strings.TrimSpace(actionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Action{}, domainerrors.ErrActionNotFound
		}
		return entities.Action{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListActions(ctx context.Context, filter ports.ActionFilter) ([]entities.Action, error) {
	tx := r.db.WithContext(ctx).Model(&actionModel{})
	if strings.TrimSpace(filter.ControllerID) != "" {
		tx = tx.Where("controller_id = ?", strings.TrimSpace(filter.ControllerID))
	}
	if strings.TrimSpace(filter.SetID) != "" {
		tx = tx.Where("set_id = ?", strings.TrimSpace(filter.SetID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.ActiveOnly {
		tx = tx.Where("active = TRUE")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []actionModel
	if err := tx.Order("created_at ASC, action_id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Action, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// updateGuarded applies the update to a non-terminal row and tells the two
// zero-row cases apart.
func (r *Repository) updateGuarded(tx *gorm.DB, actionID string, update ports.ActionUpdate) error {
	fields := map[string]any{"updated_at": update.UpdatedAt.UTC()}
	if update.Status != nil {
		fields["status"] = string(*update.Status)
	}
	if update.Active != nil {
		fields["active"] = *update.Active
	}
	if update.ForceEscalated != nil {
		fields["force_escalated"] = *update.ForceEscalated
	}

	id := strings.TrimSpace(actionID)
	result := tx.Model(&actionModel{}).
		Where("action_id = ? AND status NOT IN ?", id, terminalStatuses).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var row actionModel
		err := tx.Where("action_id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrActionNotFound
		}
		if err != nil {
			return err
		}
		return domainerrors.ErrActionTerminal
	}
	return nil
}

func (r *Repository) UpdateAction(ctx context.Context, actionID string, update ports.ActionUpdate) error {
	return r.updateGuarded(r.db.WithContext(ctx), actionID, update)
}

func (r *Repository) AppendStatus(ctx context.Context, actionID string, update ports.ActionUpdate, entry entities.ActionStatusEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateGuarded(tx, actionID, update); err != nil {
			return err
		}
		row, err := entryModelFromEntity(entry)
		if err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
}

func (r *Repository) ListStatusEntries(ctx context.Context, actionID string) ([]entities.ActionStatusEntry, error) {
	id := strings.TrimSpace(actionID)

	var count int64
	if err := r.db.WithContext(ctx).Model(&actionModel{}).Where("action_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domainerrors.ErrActionNotFound
	}

	var rows []entryModel
	err := r.db.WithContext(ctx).
		Where("action_id = ?", id).
		Order("occurred_at ASC, entry_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.ActionStatusEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, nil
}

func (r *Repository) ActiveAction(ctx context.Context, controllerID string) (entities.Action, bool, error) {
	var row actionModel
	err := r.db.WithContext(ctx).
		Where("controller_id = ? AND active = TRUE", strings.TrimSpace(controllerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Action{}, false, nil
		}
		return entities.Action{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountOpenActionsBySet(ctx context.Context, setID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&actionModel{}).
		Where("set_id = ? AND status NOT IN ?", strings.TrimSpace(setID), terminalStatuses).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) ListEscalatableActions(ctx context.Context, now time.Time, limit int) ([]entities.Action, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []actionModel
	err := r.db.WithContext(ctx).
		Where("type = ? AND force_escalated = FALSE AND forced_time IS NOT NULL AND forced_time <= ? AND status NOT IN ?",
			string(entities.ActionTypeTimeForced), now.UTC(), terminalStatuses).
		Order("forced_time ASC, action_id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Action, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type actionModel struct {
	ActionID       string     `gorm:"column:action_id;primaryKey"`
	ControllerID   string     `gorm:"column:controller_id"`
	SetID          string     `gorm:"column:set_id"`
	Type           string     `gorm:"column:type"`
	ForcedTime     *time.Time `gorm:"column:forced_time"`
	Status         string     `gorm:"column:status"`
	Active         bool       `gorm:"column:active"`
	ForceEscalated bool       `gorm:"column:force_escalated"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (actionModel) TableName() string {
	return "actions"
}

func actionModelFromEntity(item entities.Action) actionModel {
	row := actionModel{
		ActionID:       strings.TrimSpace(item.ActionID),
		ControllerID:   strings.TrimSpace(item.ControllerID),
		SetID:          strings.TrimSpace(item.SetID),
		Type:           string(item.Type),
		Status:         string(item.Status),
		Active:         item.Active,
		ForceEscalated: item.ForceEscalated,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
	if item.ForcedTime != nil {
		forced := item.ForcedTime.UTC()
		row.ForcedTime = &forced
	}
	return row
}

func (m actionModel) toEntity() entities.Action {
	return entities.Action{
		ActionID:       m.ActionID,
		ControllerID:   m.ControllerID,
		SetID:          m.SetID,
		Type:           entities.ActionType(m.Type),
		ForcedTime:     m.ForcedTime,
		Status:         entities.ActionStatus(m.Status),
		Active:         m.Active,
		ForceEscalated: m.ForceEscalated,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type entryModel struct {
	EntryID     string    `gorm:"column:entry_id;primaryKey"`
	ActionID    string    `gorm:"column:action_id"`
	Status      string    `gorm:"column:status"`
	Messages    string    `gorm:"column:messages"`
	ProgressCnt *int      `gorm:"column:progress_cnt"`
	ProgressOf  *int      `gorm:"column:progress_of"`
	OccurredAt  time.Time `gorm:"column:occurred_at"`
}

func (entryModel) TableName() string {
	return "action_status_entries"
}

func entryModelFromEntity(item entities.ActionStatusEntry) (entryModel, error) {
	messages, err := json.Marshal(item.Messages)
	if err != nil {
		return entryModel{}, err
	}
	row := entryModel{
		EntryID:    strings.TrimSpace(item.EntryID),
		ActionID:   strings.TrimSpace(item.ActionID),
		Status:     string(item.Status),
		Messages:   string(messages),
		OccurredAt: item.OccurredAt.UTC(),
	}
	if item.Progress != nil {
		cnt := item.Progress.Cnt
		of := item.Progress.Of
		row.ProgressCnt = &cnt
		row.ProgressOf = &of
	}
	return row, nil
}

func (m entryModel) toEntity() (entities.ActionStatusEntry, error) {
	entry := entities.ActionStatusEntry{
		EntryID:    m.EntryID,
		ActionID:   m.ActionID,
		Status:     entities.ActionStatus(m.Status),
		OccurredAt: m.OccurredAt,
	}
	if m.Messages != "" {
		if err := json.Unmarshal([]byte(m.Messages), &entry.Messages); err != nil {
			return entities.ActionStatusEntry{}, err
		}
	}
	if m.ProgressCnt != nil && m.ProgressOf != nil {
		entry.Progress = &entities.Progress{Cnt: *m.ProgressCnt, Of: *m.ProgressOf}
	}
	return entry, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

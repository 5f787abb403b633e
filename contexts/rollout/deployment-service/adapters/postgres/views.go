package postgresadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"

	"gorm.io/gorm"
)

// TargetRegistry reads and repoints provisioning targets. It works on the
// same `targets` table the repository context owns; the rollout side only
// ever touches the three deployment pointers.
type TargetRegistry struct {
	db *gorm.DB
}

func NewTargetRegistry(db *gorm.DB) *TargetRegistry {
	return &TargetRegistry{db: db}
}

type targetRow struct {
	ControllerID  string  `gorm:"column:controller_id;primaryKey"`
	AssignedSetID *string `gorm:"column:assigned_set_id"`
}

func (targetRow) TableName() string {
	return "targets"
}

func (r *TargetRegistry) GetTarget(ctx context.Context, controllerID string) (ports.TargetView, error) {
	var row targetRow
	err := r.db.WithContext(ctx).
		Where("controller_id = ?", strings.TrimSpace(controllerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TargetView{}, domainerrors.ErrTargetUnknown
		}
		return ports.TargetView{}, err
	}
	return ports.TargetView{
		ControllerID:  row.ControllerID,
		AssignedSetID: row.AssignedSetID,
	}, nil
}

func (r *TargetRegistry) UpdatePointers(ctx context.Context, controllerID string, pointers ports.TargetPointers) error {
	fields := map[string]any{"updated_at": pointers.UpdatedAt.UTC()}
	if pointers.SetAssigned {
		fields["assigned_set_id"] = pointers.AssignedSetID
	}
	if pointers.SetInstalled {
		fields["installed_set_id"] = pointers.InstalledSetID
	}
	if pointers.SetActive {
		fields["active_action_id"] = pointers.ActiveActionID
	}

	result := r.db.WithContext(ctx).
		Table("targets").
		Where("controller_id = ?", strings.TrimSpace(controllerID)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTargetUnknown
	}
	return nil
}

// SetCatalog answers distribution set existence from the repository
// context's table.
type SetCatalog struct {
	db *gorm.DB
}

func NewSetCatalog(db *gorm.DB) *SetCatalog {
	return &SetCatalog{db: db}
}

func (c *SetCatalog) SetExists(ctx context.Context, setID string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Table("distribution_sets").
		Where("set_id = ?", strings.TrimSpace(setID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Outbox stores pending rollout events for the relay worker.
type Outbox struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *Outbox {
	return &Outbox{db: db}
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "rollout_outbox"
}

func (o *Outbox) EnqueueOutbox(ctx context.Context, message ports.OutboxMessage) error {
	row := outboxModel{
		OutboxID:  message.OutboxID,
		EventType: message.EventType,
		Payload:   message.Payload,
		Status:    "pending",
		CreatedAt: message.CreatedAt.UTC(),
	}
	return o.db.WithContext(ctx).Create(&row).Error
}

func (o *Outbox) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := o.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC, outbox_id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (o *Outbox) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	return o.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{"status": "published", "published_at": &at}).
		Error
}

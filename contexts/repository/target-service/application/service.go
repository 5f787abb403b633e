package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/ports"
)

type Service struct {
	Targets ports.TargetRepository
	Clock   ports.Clock
	Logger  *slog.Logger
}

type RegisterTargetInput struct {
	ControllerID string
	Name         string
	Description  string
	Address      string
}

// RegisterTarget is the first-contact entry point. A target that already
// exists only gets its last-contact timestamp refreshed; the bool reports
// whether the target was created by this call.
func (s Service) RegisterTarget(ctx context.Context, input RegisterTargetInput) (entities.Target, bool, error) {
	controllerID := strings.TrimSpace(input.ControllerID)
	if controllerID == "" {
		return entities.Target{}, false, domainerrors.ErrInvalidTarget
	}

	now := s.Clock.Now().UTC()
	existing, err := s.Targets.GetTarget(ctx, controllerID)
	if err == nil {
		if err := s.Targets.TouchLastContact(ctx, controllerID, now); err != nil {
			return entities.Target{}, false, err
		}
		existing.LastContactAt = now
		return existing, false, nil
	}
	if !errors.Is(err, domainerrors.ErrTargetNotFound) {
		return entities.Target{}, false, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = controllerID
	}
	target := entities.Target{
		ControllerID:  controllerID,
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Address:       strings.TrimSpace(input.Address),
		LastContactAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Targets.CreateTarget(ctx, target); err != nil {
		return entities.Target{}, false, err
	}

	resolveLogger(s.Logger).Info("target registered",
		"event", "target_registered",
		"module", "repository/target-service",
		"layer", "application",
		"controller_id", controllerID,
	)
	return target, true, nil
}

func (s Service) GetTarget(ctx context.Context, controllerID string) (entities.Target, error) {
	controllerID = strings.TrimSpace(controllerID)
	if controllerID == "" {
		return entities.Target{}, domainerrors.ErrInvalidTarget
	}
	return s.Targets.GetTarget(ctx, controllerID)
}

func (s Service) ListTargets(ctx context.Context, filter ports.TargetFilter) ([]entities.Target, error) {
	return s.Targets.ListTargets(ctx, filter)
}

type UpdateTargetInput struct {
	Name        *string
	Description *string
	Address     *string
}

func (s Service) UpdateTarget(ctx context.Context, controllerID string, input UpdateTargetInput) (entities.Target, error) {
	target, err := s.GetTarget(ctx, controllerID)
	if err != nil {
		return entities.Target{}, err
	}

	if input.Name != nil {
		target.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		target.Description = strings.TrimSpace(*input.Description)
	}
	if input.Address != nil {
		target.Address = strings.TrimSpace(*input.Address)
	}
	target.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Targets.UpdateTarget(ctx, target); err != nil {
		return entities.Target{}, err
	}
	return target, nil
}

// DeleteTarget removes a target administratively. In-flight actions for the
// target are left to the rollout side to supersede or time out.
func (s Service) DeleteTarget(ctx context.Context, controllerID string) error {
	controllerID = strings.TrimSpace(controllerID)
	if controllerID == "" {
		return domainerrors.ErrInvalidTarget
	}
	if err := s.Targets.DeleteTarget(ctx, controllerID); err != nil {
		return err
	}

	resolveLogger(s.Logger).Info("target deleted",
		"event", "target_deleted",
		"module", "repository/target-service",
		"layer", "application",
		"controller_id", controllerID,
	)
	return nil
}

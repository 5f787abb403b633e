package unit

import (
	"context"
	"errors"
	"testing"

	targetservice "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/ports"
)

func TestRegisterTargetFirstContact(t *testing.T) {
	module := targetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	target, created, err := module.Service.RegisterTarget(ctx, application.RegisterTargetInput{
		ControllerID: "device-1",
		Address:      "mqtt://10.0.0.5",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !created {
		t.Fatal("first contact must create the target")
	}
	if target.Name != "device-1" {
		t.Fatalf("name must default to the controller id, got %q", target.Name)
	}
	if target.LastContactAt.IsZero() {
		t.Fatal("last contact not stamped")
	}
}

func TestRegisterTargetRepeatRefreshesContact(t *testing.T) {
	module := targetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	first, _, err := module.Service.RegisterTarget(ctx, application.RegisterTargetInput{
		ControllerID: "device-1",
		Name:         "rack-4-gateway",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	again, created, err := module.Service.RegisterTarget(ctx, application.RegisterTargetInput{
		ControllerID: "device-1",
		Name:         "ignored-on-repeat",
	})
	if err != nil {
		t.Fatalf("repeat register failed: %v", err)
	}
	if created {
		t.Fatal("repeat contact must not report creation")
	}
	if again.Name != first.Name {
		t.Fatalf("repeat contact must not rename the target, got %q", again.Name)
	}
	if again.LastContactAt.Before(first.LastContactAt) {
		t.Fatal("last contact went backwards")
	}
}

func TestRegisterTargetRejectsBlankControllerID(t *testing.T) {
	module := targetservice.NewInMemoryModule(nil, nil)

	if _, _, err := module.Service.RegisterTarget(context.Background(), application.RegisterTargetInput{
		ControllerID: "   ",
	}); !errors.Is(err, domainerrors.ErrInvalidTarget) {
		t.Fatalf("expected invalid target, got %v", err)
	}
}

func TestUpdateAndDeleteTarget(t *testing.T) {
	module := targetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, _, err := module.Service.RegisterTarget(ctx, application.RegisterTargetInput{
		ControllerID: "device-1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	name := "renamed"
	target, err := module.Service.UpdateTarget(ctx, "device-1", application.UpdateTargetInput{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if target.Name != "renamed" {
		t.Fatalf("unexpected name: %q", target.Name)
	}

	if _, err := module.Service.UpdateTarget(ctx, "ghost", application.UpdateTargetInput{Name: &name}); !errors.Is(err, domainerrors.ErrTargetNotFound) {
		t.Fatalf("update absent target: expected not found, got %v", err)
	}

	if err := module.Service.DeleteTarget(ctx, "device-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := module.Service.GetTarget(ctx, "device-1"); !errors.Is(err, domainerrors.ErrTargetNotFound) {
		t.Fatalf("get deleted target: expected not found, got %v", err)
	}
	if err := module.Service.DeleteTarget(ctx, "device-1"); !errors.Is(err, domainerrors.ErrTargetNotFound) {
		t.Fatalf("repeat delete: expected not found, got %v", err)
	}
}

func TestListTargetsByRolloutPointer(t *testing.T) {
	setID := "ds-1"
	other := "ds-2"
	seed := []entities.Target{
		{ControllerID: "device-1", Name: "device-1", AssignedSetID: &setID, InstalledSetID: &setID},
		{ControllerID: "device-2", Name: "device-2", AssignedSetID: &setID},
		{ControllerID: "device-3", Name: "device-3", AssignedSetID: &other},
	}
	module := targetservice.NewInMemoryModule(seed, nil)
	ctx := context.Background()

	assigned, err := module.Service.ListTargets(ctx, ports.TargetFilter{AssignedSetID: setID})
	if err != nil {
		t.Fatalf("list assigned failed: %v", err)
	}
	if len(assigned) != 2 {
		t.Fatalf("expected two assigned targets, got %d", len(assigned))
	}

	installed, err := module.Service.ListTargets(ctx, ports.TargetFilter{InstalledSetID: setID})
	if err != nil {
		t.Fatalf("list installed failed: %v", err)
	}
	if len(installed) != 1 || installed[0].ControllerID != "device-1" {
		t.Fatalf("unexpected installed listing: %+v", installed)
	}
}

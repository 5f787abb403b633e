package unit

import (
	"context"
	"errors"
	"testing"

	distributionservice "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/errors"
	distports "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"
	deploymentservice "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service"
	rolloutapp "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application"
	rolloutentities "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	rolloutports "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// lockProxy lets a test wire the rollout side in after the catalog module is
// built, since set ids are only known once a set exists.
type lockProxy struct {
	inner distports.LockChecker
}

func (p *lockProxy) IsLocked(ctx context.Context, setID string) (bool, error) {
	if p.inner == nil {
		return false, nil
	}
	return p.inner.IsLocked(ctx, setID)
}

func newCatalog(t *testing.T) (distributionservice.Module, entities.SoftwareModule, entities.DistributionSet) {
	t.Helper()
	module := distributionservice.NewInMemoryModule(nil, nil, nil, nil)
	ctx := context.Background()

	sm, err := module.Service.CreateSoftwareModule(ctx, application.CreateModuleInput{
		Type:    entities.ModuleTypeOS,
		Name:    "base-os",
		Version: "1.0.0",
		Vendor:  "acme",
	})
	if err != nil {
		t.Fatalf("create module failed: %v", err)
	}
	set, err := module.Service.CreateDistributionSet(ctx, application.CreateSetInput{
		Name:      "fleet-image",
		Version:   "1.0.0",
		Type:      "os_app",
		ModuleIDs: []string{sm.ModuleID},
	})
	if err != nil {
		t.Fatalf("create set failed: %v", err)
	}
	return module, sm, set
}

func TestCreateDistributionSetResolvesModules(t *testing.T) {
	module, sm, set := newCatalog(t)

	if !set.HasModule(sm.ModuleID) {
		t.Fatalf("set does not reference its module: %+v", set)
	}

	got, err := module.Service.GetDistributionSet(context.Background(), set.SetID)
	if err != nil {
		t.Fatalf("get set failed: %v", err)
	}
	if got.Name != "fleet-image" || got.Version != "1.0.0" {
		t.Fatalf("unexpected set: %+v", got)
	}
}

func TestCreateDistributionSetValidation(t *testing.T) {
	module, _, _ := newCatalog(t)
	ctx := context.Background()

	if _, err := module.Service.CreateDistributionSet(ctx, application.CreateSetInput{
		Version: "1.0.0",
	}); !errors.Is(err, domainerrors.ErrInvalidSet) {
		t.Fatalf("missing name: expected invalid set, got %v", err)
	}

	// One unresolved module id rejects the whole create.
	if _, err := module.Service.CreateDistributionSet(ctx, application.CreateSetInput{
		Name:      "broken",
		Version:   "1.0.0",
		ModuleIDs: []string{"no-such-module"},
	}); !errors.Is(err, domainerrors.ErrSoftwareModuleNotFound) {
		t.Fatalf("unknown module: expected not found, got %v", err)
	}
}

func TestCreateSoftwareModuleValidation(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil, nil, nil, nil)
	ctx := context.Background()

	if _, err := module.Service.CreateSoftwareModule(ctx, application.CreateModuleInput{
		Type:    "firmware",
		Name:    "blob",
		Version: "1",
	}); !errors.Is(err, domainerrors.ErrInvalidModule) {
		t.Fatalf("bad type: expected invalid module, got %v", err)
	}
	if _, err := module.Service.CreateSoftwareModule(ctx, application.CreateModuleInput{
		Type:    entities.ModuleTypeApplication,
		Version: "1",
	}); !errors.Is(err, domainerrors.ErrInvalidModule) {
		t.Fatalf("missing name: expected invalid module, got %v", err)
	}
}

func TestAssignAndUnassignModules(t *testing.T) {
	module, sm, set := newCatalog(t)
	ctx := context.Background()

	runtime, err := module.Service.CreateSoftwareModule(ctx, application.CreateModuleInput{
		Type:    entities.ModuleTypeRuntime,
		Name:    "jvm",
		Version: "21",
	})
	if err != nil {
		t.Fatalf("create module failed: %v", err)
	}

	// Duplicate ids collapse, re-assigning a present module is a no-op.
	updated, err := module.Service.AssignSoftwareModules(ctx, set.SetID, []string{
		runtime.ModuleID, runtime.ModuleID, sm.ModuleID,
	})
	if err != nil {
		t.Fatalf("assign modules failed: %v", err)
	}
	if len(updated.ModuleIDs) != 2 {
		t.Fatalf("expected two modules, got %v", updated.ModuleIDs)
	}

	updated, err = module.Service.UnassignSoftwareModule(ctx, set.SetID, runtime.ModuleID)
	if err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	if len(updated.ModuleIDs) != 1 || updated.ModuleIDs[0] != sm.ModuleID {
		t.Fatalf("unexpected composition after unassign: %v", updated.ModuleIDs)
	}

	if _, err := module.Service.UnassignSoftwareModule(ctx, set.SetID, runtime.ModuleID); !errors.Is(err, domainerrors.ErrModuleNotAssigned) {
		t.Fatalf("unassign absent module: expected not assigned, got %v", err)
	}
}

func TestLockedSetFreezesCompositionAndDelete(t *testing.T) {
	proxy := &lockProxy{}
	catalog := distributionservice.NewInMemoryModule(nil, nil, proxy, nil)
	ctx := context.Background()

	sm, err := catalog.Service.CreateSoftwareModule(ctx, application.CreateModuleInput{
		Type:    entities.ModuleTypeOS,
		Name:    "base-os",
		Version: "1.0.0",
	})
	if err != nil {
		t.Fatalf("create module failed: %v", err)
	}
	set, err := catalog.Service.CreateDistributionSet(ctx, application.CreateSetInput{
		Name:    "fleet-image",
		Version: "1.0.0",
	})
	if err != nil {
		t.Fatalf("create set failed: %v", err)
	}

	rollout := deploymentservice.NewInMemoryModule([]string{"device-1"}, []string{set.SetID}, nil, nil, nil)
	proxy.inner = rollout.Service

	if _, err := rollout.Service.AssignDistributionSet(ctx, set.SetID, []rolloutports.TargetAssignment{
		{ControllerID: "device-1", Type: rolloutentities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("rollout assign failed: %v", err)
	}

	if _, err := catalog.Service.AssignSoftwareModules(ctx, set.SetID, []string{sm.ModuleID}); !errors.Is(err, domainerrors.ErrDistributionSetLocked) {
		t.Fatalf("assign while locked: expected locked, got %v", err)
	}
	if err := catalog.Service.DeleteDistributionSet(ctx, set.SetID); !errors.Is(err, domainerrors.ErrDistributionSetLocked) {
		t.Fatalf("delete while locked: expected locked, got %v", err)
	}

	// Non-composition fields stay editable while locked.
	description := "patched description"
	if _, err := catalog.Service.UpdateDistributionSet(ctx, set.SetID, application.UpdateSetInput{
		Description: &description,
	}); err != nil {
		t.Fatalf("update while locked failed: %v", err)
	}

	// Closing the action releases the lock.
	state, _ := rollout.Store.TargetState("device-1")
	if _, err := rollout.Service.ReportActionStatus(ctx, *state.ActiveActionID, rolloutapp.FeedbackInput{
		Status: rolloutapp.FeedbackFinished,
	}); err != nil {
		t.Fatalf("finish feedback failed: %v", err)
	}

	if _, err := catalog.Service.AssignSoftwareModules(ctx, set.SetID, []string{sm.ModuleID}); err != nil {
		t.Fatalf("assign after unlock failed: %v", err)
	}
	if err := catalog.Service.DeleteDistributionSet(ctx, set.SetID); err != nil {
		t.Fatalf("delete after unlock failed: %v", err)
	}
}

func TestMetadataCompoundKeySemantics(t *testing.T) {
	module, _, set := newCatalog(t)
	ctx := context.Background()

	if _, err := module.Service.CreateMetadata(ctx, set.SetID, "channel", "stable"); err != nil {
		t.Fatalf("create metadata failed: %v", err)
	}
	if _, err := module.Service.CreateMetadata(ctx, set.SetID, "channel", "beta"); !errors.Is(err, domainerrors.ErrMetadataKeyExists) {
		t.Fatalf("duplicate key: expected conflict, got %v", err)
	}
	if _, err := module.Service.CreateMetadata(ctx, set.SetID, "  ", "x"); !errors.Is(err, domainerrors.ErrInvalidMetadataKey) {
		t.Fatalf("blank key: expected invalid key, got %v", err)
	}

	item, err := module.Service.UpdateMetadata(ctx, set.SetID, "channel", "beta")
	if err != nil {
		t.Fatalf("update metadata failed: %v", err)
	}
	if item.Value != "beta" {
		t.Fatalf("unexpected value: %+v", item)
	}
	if _, err := module.Service.UpdateMetadata(ctx, set.SetID, "missing", "x"); !errors.Is(err, domainerrors.ErrMetadataNotFound) {
		t.Fatalf("update absent key: expected not found, got %v", err)
	}

	items, err := module.Service.ListMetadata(ctx, set.SetID)
	if err != nil {
		t.Fatalf("list metadata failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one entry, got %d", len(items))
	}

	if err := module.Service.DeleteMetadata(ctx, set.SetID, "channel"); err != nil {
		t.Fatalf("delete metadata failed: %v", err)
	}
	if _, err := module.Service.GetMetadata(ctx, set.SetID, "channel"); !errors.Is(err, domainerrors.ErrMetadataNotFound) {
		t.Fatalf("get deleted key: expected not found, got %v", err)
	}
}

func TestListDistributionSetsFilters(t *testing.T) {
	module, _, _ := newCatalog(t)
	ctx := context.Background()

	if _, err := module.Service.CreateDistributionSet(ctx, application.CreateSetInput{
		Name:    "app-only-image",
		Version: "2.0.0",
		Type:    "app",
	}); err != nil {
		t.Fatalf("create set failed: %v", err)
	}

	sets, err := module.Service.ListDistributionSets(ctx, distports.SetFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("expected both sets, got %d", len(sets))
	}

	sets, err = module.Service.ListDistributionSets(ctx, distports.SetFilter{Type: "app"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sets) != 1 || sets[0].Name != "app-only-image" {
		t.Fatalf("type filter failed: %+v", sets)
	}
}

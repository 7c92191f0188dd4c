package services

import (
	"strings"
	"testing"

	"github.com/ad/trustsphere/internal/models"
	"pgregory.net/rapid"
)

func TestNavigator_InitialMenu(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)

	entries := nav.Menu(1)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantUnlocked := []bool{true, false, false}
	for i, e := range entries {
		if e.Unlocked != wantUnlocked[i] {
			t.Errorf("module %d unlocked=%v, want %v", e.Module.ID, e.Unlocked, wantUnlocked[i])
		}
		if e.Complete {
			t.Errorf("module %d should not be complete", e.Module.ID)
		}
	}
}

func TestNavigator_EnterLockedModule(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)

	result, err := nav.Enter(1, models.ModuleDataBreach)
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if result.Allowed {
		t.Fatal("module 3 should be locked")
	}
	if !strings.Contains(result.Advisory, "Module 1") {
		t.Errorf("advisory should point at module 1, got %q", result.Advisory)
	}
}

func TestNavigator_AdvisoryNamesMissingPrerequisite(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)
	env.progressRepo.StoreFor(1).MarkComplete(models.ModuleDarkPatterns)

	result, err := nav.Enter(1, models.ModuleDataBreach)
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("module 3 should still be locked")
	}
	if !strings.Contains(result.Advisory, "Module 2") {
		t.Errorf("advisory should point at module 2, got %q", result.Advisory)
	}
}

func TestNavigator_CustomLockedMessageWithoutVerb(t *testing.T) {
	env := setupTestEnv(t)
	if err := env.settingsRepo.Set("locked_message", "Not yet!"); err != nil {
		t.Fatal(err)
	}
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)

	result, err := nav.Enter(1, models.ModulePrivacy)
	if err != nil {
		t.Fatal(err)
	}
	if result.Advisory != "Not yet!" {
		t.Errorf("expected custom advisory, got %q", result.Advisory)
	}
}

func TestNavigator_PerformCompletingAction(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)

	result, err := nav.Perform(7, models.ModuleDarkPatterns, "accept")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Allowed || result.Completed {
		t.Fatalf("accept should be allowed and not complete the module: %+v", result)
	}

	result, err = nav.Perform(7, models.ModuleDarkPatterns, "solution")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Completed || !result.Record.Module1Complete {
		t.Fatalf("solution should complete module 1: %+v", result)
	}

	again, err := nav.Perform(7, models.ModuleDarkPatterns, "solution")
	if err != nil {
		t.Fatal(err)
	}
	if again.Completed || !again.Record.Module1Complete {
		t.Fatalf("repeating solution must keep module 1 complete without completing it again: %+v", again)
	}

	entered, err := nav.Enter(7, models.ModulePrivacy)
	if err != nil {
		t.Fatal(err)
	}
	if !entered.Allowed {
		t.Error("module 2 should be enterable right after module 1 completes")
	}
}

func TestNavigator_PerformOnLockedModule(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)

	result, err := nav.Perform(3, models.ModulePrivacy, "protection")
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed || result.Completed {
		t.Fatalf("locked module action must be refused: %+v", result)
	}
	if nav.Record(3).Module2Complete {
		t.Error("refused action must not mark the module complete")
	}
}

func TestNavigator_UnknownModuleAndAction(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)

	if _, err := nav.Enter(1, 9); err == nil {
		t.Error("expected error for unknown module")
	}
	if _, err := nav.Perform(1, models.ModuleDarkPatterns, "nope"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestProperty1_MenuMatchesGatingRule(t *testing.T) {
	env := setupTestEnv(t)
	nav := NewModuleNavigator(env.catalog, env.progressRepo, env.settingsRepo)
	completing := map[models.ModuleID]string{1: "solution", 2: "protection", 3: "defense"}
	userID := int64(1000)

	rapid.Check(t, func(rt *rapid.T) {
		userID++
		for _, m := range rapid.SliceOfN(rapid.IntRange(1, 3), 0, 6).Draw(rt, "attempts") {
			module := models.ModuleID(m)
			if _, err := nav.Perform(userID, module, completing[module]); err != nil {
				rt.Fatalf("Perform failed: %v", err)
			}
		}

		record := nav.Record(userID)
		if record.Module2Complete && !record.Module1Complete {
			rt.Fatalf("module 2 completed without module 1: %+v", record)
		}
		if record.Module3Complete && !record.Module2Complete {
			rt.Fatalf("module 3 completed without module 2: %+v", record)
		}
		for _, e := range nav.Menu(userID) {
			if e.Unlocked != record.CanEnter(e.Module.ID) {
				rt.Fatalf("menu affordance for module %d disagrees with gate", e.Module.ID)
			}
			if e.Complete != record.IsComplete(e.Module.ID) {
				rt.Fatalf("menu completion for module %d disagrees with record", e.Module.ID)
			}
		}
	})
}

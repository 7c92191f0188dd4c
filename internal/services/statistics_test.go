package services

import (
	"strings"
	"testing"

	"github.com/ad/trustsphere/internal/models"
	"github.com/ad/trustsphere/internal/progress"
	"github.com/google/go-cmp/cmp"
)

func TestStatistics_Calculate(t *testing.T) {
	env := setupTestEnv(t)
	for _, id := range []int64{1, 2, 3, 4} {
		if err := env.userRepo.CreateOrUpdate(&models.User{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	env.progressRepo.StoreFor(1).MarkComplete(models.ModuleDarkPatterns)
	for _, m := range models.AllModules {
		env.progressRepo.StoreFor(2).MarkComplete(m)
	}
	if err := env.storageRepo.Set(3, progress.StorageKey, "corrupted"); err != nil {
		t.Fatal(err)
	}

	stats, err := NewStatisticsService(env.userRepo, env.progressRepo).Calculate()
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	want := &ProgressStats{
		TotalUsers:   4,
		StartedUsers: 2,
		Completed: map[models.ModuleID]int{
			models.ModuleDarkPatterns: 2,
			models.ModulePrivacy:      1,
			models.ModuleDataBreach:   1,
		},
		FullyCompleted: 1,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatStats(t *testing.T) {
	env := setupTestEnv(t)
	stats := &ProgressStats{
		TotalUsers:     5,
		StartedUsers:   3,
		Completed:      map[models.ModuleID]int{models.ModuleDarkPatterns: 3, models.ModulePrivacy: 1},
		FullyCompleted: 0,
	}

	text := FormatStats(stats, env.catalog)
	for _, want := range []string{"Users: 5", "With progress: 3", "Module 1: Dark Patterns: 3", "Module 3: Data Breach: 0", "All modules: 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in:\n%s", want, text)
		}
	}

	if plain := FormatStats(stats, nil); !strings.Contains(plain, "Module 2: 1") {
		t.Errorf("expected untitled module line in:\n%s", plain)
	}
}

func TestStatistics_UserProgress(t *testing.T) {
	env := setupTestEnv(t)
	if err := env.userRepo.CreateOrUpdate(&models.User{ID: 12, FirstName: "Eve", Username: "eve"}); err != nil {
		t.Fatal(err)
	}
	env.progressRepo.StoreFor(12).MarkComplete(models.ModuleDarkPatterns)
	env.progressRepo.StoreFor(12).MarkComplete(models.ModulePrivacy)

	svc := NewStatisticsService(env.userRepo, env.progressRepo)
	p, err := svc.UserProgress(12)
	if err != nil {
		t.Fatalf("UserProgress failed: %v", err)
	}
	if got, want := FormatUserProgress(p), "Eve @eve [12]: ✅ ✅ ▫️ (2/3)"; got != want {
		t.Errorf("FormatUserProgress() = %q, want %q", got, want)
	}

	if _, err := svc.UserProgress(404); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestStatistics_AllUserProgress(t *testing.T) {
	env := setupTestEnv(t)
	for _, id := range []int64{1, 2} {
		if err := env.userRepo.CreateOrUpdate(&models.User{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, m := range models.AllModules {
		env.progressRepo.StoreFor(2).MarkComplete(m)
	}

	all, err := NewStatisticsService(env.userRepo, env.progressRepo).AllUserProgress()
	if err != nil {
		t.Fatalf("AllUserProgress failed: %v", err)
	}
	got := map[int64]models.ProgressRecord{}
	for _, p := range all {
		got[p.User.ID] = p.Record
	}
	want := map[int64]models.ProgressRecord{
		1: {},
		2: {Module1Complete: true, Module2Complete: true, Module3Complete: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

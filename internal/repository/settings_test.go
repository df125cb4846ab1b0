package repository_test

import (
	"context"
	"testing"

	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/testutil"
)

func TestSettingsRepository_GetDefault(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	value, err := repo.Get(ctx, repository.SettingCalendarName)
	if err != nil {
		t.Fatalf("getting default setting: %v", err)
	}
	if value != "Slice n Dice" {
		t.Errorf("expected default 'Slice n Dice', got '%s'", value)
	}
}

func TestSettingsRepository_SetOverwrite(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	repo.Set(ctx, repository.SettingCalendarName, "Dinners")
	repo.Set(ctx, repository.SettingCalendarName, "Family Meals")

	value, err := repo.Get(ctx, repository.SettingCalendarName)
	if err != nil {
		t.Fatalf("getting value: %v", err)
	}
	if value != "Family Meals" {
		t.Errorf("expected 'Family Meals', got '%s'", value)
	}
}

func TestSettingsRepository_GetOrDefault(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	value, err := repo.GetOrDefault(ctx, "missing", "fallback")
	if err != nil {
		t.Fatalf("getting missing value: %v", err)
	}
	if value != "fallback" {
		t.Errorf("expected 'fallback', got '%s'", value)
	}

	repo.Set(ctx, "blank", "")
	value, err = repo.GetOrDefault(ctx, "blank", "fallback")
	if err != nil {
		t.Fatalf("getting blank value: %v", err)
	}
	if value != "fallback" {
		t.Errorf("expected 'fallback' for blank value, got '%s'", value)
	}
}

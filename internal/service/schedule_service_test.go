package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/pkg/apperror"
	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func TestWeeklyScheduleLifecycle(t *testing.T) {
	env := newTestEnv(t, testDay)
	habitA := env.createActivity(t, "a", "daily", 1, false)
	habitB := env.createActivity(t, "b", "daily", 1, false)

	ctx := context.Background()

	entryA, err := env.scheduleSvc.AddWeeklyEntry(ctx, env.userID, dto.CreateWeeklyEntryRequest{
		ActivityID: habitA.ID, DayOfWeek: intPtr(1),
	})
	if err != nil {
		t.Fatalf("add weekly failed: %v", err)
	}
	if entryA.SortOrder != 0 || entryA.DayOfWeek != 1 {
		t.Fatalf("first entry = %+v, want sort 0 on day 1", entryA)
	}

	entryB, err := env.scheduleSvc.AddWeeklyEntry(ctx, env.userID, dto.CreateWeeklyEntryRequest{
		ActivityID: habitB.ID, DayOfWeek: intPtr(1),
	})
	if err != nil {
		t.Fatalf("add weekly failed: %v", err)
	}
	if entryB.SortOrder != 1 {
		t.Fatalf("second entry sort = %d, want 1", entryB.SortOrder)
	}

	// Sort orders are per day: another day starts back at zero.
	other, err := env.scheduleSvc.AddWeeklyEntry(ctx, env.userID, dto.CreateWeeklyEntryRequest{
		ActivityID: habitA.ID, DayOfWeek: intPtr(4),
	})
	if err != nil {
		t.Fatalf("add weekly failed: %v", err)
	}
	if other.SortOrder != 0 {
		t.Fatalf("other-day sort = %d, want 0", other.SortOrder)
	}

	err = env.scheduleSvc.ReorderWeekly(ctx, env.userID, dto.ReorderWeeklyRequest{
		DayOfWeek: intPtr(1),
		IDs:       []uuid.UUID{entryB.ID, entryA.ID},
	})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	entries, err := env.scheduleSvc.GetWeeklyEntries(ctx, env.userID, dto.WeeklyEntryFilter{DayOfWeek: intPtr(1)})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != entryB.ID || entries[1].ID != entryA.ID {
		t.Fatalf("reordered list = %+v, want [B, A]", entries)
	}

	if err := env.scheduleSvc.RemoveWeeklyEntry(ctx, env.userID, entryA.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	entries, err = env.scheduleSvc.GetWeeklyEntries(ctx, env.userID, dto.WeeklyEntryFilter{DayOfWeek: intPtr(1)})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entryB.ID {
		t.Fatalf("list after remove = %+v, want [B]", entries)
	}
}

func TestDateScheduleLifecycle(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "a", "daily", 1, false)

	ctx := context.Background()

	entry, err := env.scheduleSvc.AddDateEntry(ctx, env.userID, dto.CreateDateEntryRequest{
		ActivityID: habit.ID, Date: "2025-04-01",
	})
	if err != nil {
		t.Fatalf("add date entry failed: %v", err)
	}
	if entry.ScheduledDate != "2025-04-01" || entry.SortOrder != 0 {
		t.Fatalf("date entry = %+v", entry)
	}

	entries, err := env.scheduleSvc.GetDateEntries(ctx, env.userID, dto.DateEntryFilter{Date: "2025-04-01"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("list = %+v, want one entry", entries)
	}

	if err := env.scheduleSvc.RemoveDateEntry(ctx, env.userID, entry.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	entries, err = env.scheduleSvc.GetDateEntries(ctx, env.userID, dto.DateEntryFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("list after remove = %+v, want empty", entries)
	}
}

func TestScheduleRejectsArchivedActivity(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "a", "daily", 1, false)
	archived := true
	if _, err := env.activitySvc.UpdateActivity(context.Background(), env.userID, habit.ID, dto.UpdateActivityRequest{Archived: &archived}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	_, err := env.scheduleSvc.AddWeeklyEntry(context.Background(), env.userID, dto.CreateWeeklyEntryRequest{
		ActivityID: habit.ID, DayOfWeek: intPtr(0),
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("weekly add error = %v, want ErrInvalidInput", err)
	}

	_, err = env.scheduleSvc.AddDateEntry(context.Background(), env.userID, dto.CreateDateEntryRequest{
		ActivityID: habit.ID, Date: "2025-04-01",
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("date add error = %v, want ErrInvalidInput", err)
	}
}

func TestScheduleRejectsForeignActivity(t *testing.T) {
	env := newTestEnv(t, testDay)
	_, err := env.scheduleSvc.AddWeeklyEntry(context.Background(), env.userID, dto.CreateWeeklyEntryRequest{
		ActivityID: uuid.New(), DayOfWeek: intPtr(0),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("add error = %v, want ErrNotFound", err)
	}
}

func TestReorderWeeklyScopedToDay(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "a", "daily", 1, false)

	ctx := context.Background()
	mon, err := env.scheduleSvc.AddWeeklyEntry(ctx, env.userID, dto.CreateWeeklyEntryRequest{
		ActivityID: habit.ID, DayOfWeek: intPtr(1),
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// An id from another day is not part of the reorder scope.
	err = env.scheduleSvc.ReorderWeekly(ctx, env.userID, dto.ReorderWeeklyRequest{
		DayOfWeek: intPtr(2),
		IDs:       []uuid.UUID{mon.ID},
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("cross-day reorder error = %v, want ErrInvalidInput", err)
	}
}

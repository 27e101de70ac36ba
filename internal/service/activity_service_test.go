package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCompleteCrossesGoalThreshold(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "pushups", "daily", 3, false)

	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		resp, err := env.activitySvc.Complete(ctx, env.userID, habit.ID)
		if err != nil {
			t.Fatalf("complete %d failed: %v", i, err)
		}
		if resp.Activity.CurrentCount != i || resp.Activity.Complete {
			t.Fatalf("after %d completions: %+v", i, resp.Activity)
		}
	}

	resp, err := env.activitySvc.Complete(ctx, env.userID, habit.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Activity.CurrentCount != 3 || !resp.Activity.Complete {
		t.Fatalf("at goal: %+v, want count 3 complete", resp.Activity)
	}

	// Counting past the goal is allowed.
	resp, err = env.activitySvc.Complete(ctx, env.userID, habit.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Activity.CurrentCount != 4 || !resp.Activity.Complete {
		t.Fatalf("past goal: %+v, want count 4 complete", resp.Activity)
	}
}

func TestUndoFloorsAtZero(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "journal", "daily", 1, false)

	ctx := context.Background()
	resp, err := env.activitySvc.Undo(ctx, env.userID, habit.ID)
	if err != nil {
		t.Fatalf("undo at zero failed: %v", err)
	}
	if resp.Activity.CurrentCount != 0 {
		t.Fatalf("undo at zero = %d, want 0", resp.Activity.CurrentCount)
	}

	if _, err := env.activitySvc.Complete(ctx, env.userID, habit.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	resp, err = env.activitySvc.Undo(ctx, env.userID, habit.ID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if resp.Activity.CurrentCount != 0 || resp.Activity.Complete {
		t.Fatalf("after undo: %+v, want count 0 incomplete", resp.Activity)
	}
}

func TestCompleteArchivedRejected(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "old", "daily", 1, false)

	archived := true
	if _, err := env.activitySvc.UpdateActivity(context.Background(), env.userID, habit.ID, dto.UpdateActivityRequest{Archived: &archived}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	_, err := env.activitySvc.Complete(context.Background(), env.userID, habit.ID)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("complete archived error = %v, want ErrInvalidInput", err)
	}
}

func TestCompleteStartsFreshPeriodWindow(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "stretch", "daily", 1, false)

	ctx := context.Background()
	if _, err := env.activitySvc.Complete(ctx, env.userID, habit.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	env.setClock(testDay.AddDate(0, 0, 1))
	resp, err := env.activitySvc.Complete(ctx, env.userID, habit.ID)
	if err != nil {
		t.Fatalf("next-day complete failed: %v", err)
	}
	if resp.Activity.CurrentCount != 1 {
		t.Fatalf("next-day count = %d, want fresh window at 1", resp.Activity.CurrentCount)
	}

	history, err := env.activitySvc.GetHistory(ctx, env.userID, habit.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history rows = %d, want 2", len(history))
	}
}

func TestCompleteTaskDeletesByDefault(t *testing.T) {
	env := newTestEnv(t, testDay)
	task := env.createActivity(t, "errand", "daily", 1, true)
	env.addTodo(t, task.ID, 0)

	resp, err := env.activitySvc.Complete(context.Background(), env.userID, task.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !resp.Removed {
		t.Fatal("task completion did not report removal")
	}

	if _, err := env.activityRepo.FindByID(context.Background(), task.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("task lookup after completion = %v, want record not found", err)
	}
	if ids := todoActivityIDs(t, env); len(ids) != 0 {
		t.Fatalf("todo entries survived task completion: %+v", ids)
	}
}

func TestCompleteTaskArchivesWhenConfigured(t *testing.T) {
	env := newTestEnv(t, testDay)
	task := env.createActivity(t, "errand", "daily", 1, true)
	task.ArchiveTask = true
	if err := env.activityRepo.Update(context.Background(), task); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	env.addTodo(t, task.ID, 0)

	resp, err := env.activitySvc.Complete(context.Background(), env.userID, task.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !resp.Removed {
		t.Fatal("task completion did not report removal")
	}

	stored, err := env.activityRepo.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("archived task should survive: %v", err)
	}
	if !stored.Archived {
		t.Fatal("task not archived after completion")
	}
	if ids := todoActivityIDs(t, env); len(ids) != 0 {
		t.Fatalf("todo entries survived task completion: %+v", ids)
	}
}

func TestCompleteSuggestsStackedActivity(t *testing.T) {
	env := newTestEnv(t, testDay)
	next := env.createActivity(t, "floss", "daily", 1, false)
	first := env.createActivity(t, "brush", "daily", 1, false)
	first.StackedActivityID = &next.ID
	if err := env.activityRepo.Update(context.Background(), first); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	resp, err := env.activitySvc.Complete(context.Background(), env.userID, first.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Suggestion == nil || resp.Suggestion.ID != next.ID {
		t.Fatalf("suggestion = %+v, want the stacked activity", resp.Suggestion)
	}

	// Undo never suggests.
	resp, err = env.activitySvc.Undo(context.Background(), env.userID, first.ID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if resp.Suggestion != nil {
		t.Fatalf("undo suggested %+v", resp.Suggestion)
	}
}

func TestUpdateActivityRejectsSelfStack(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "loop", "daily", 1, false)

	_, err := env.activitySvc.UpdateActivity(context.Background(), env.userID, habit.ID, dto.UpdateActivityRequest{
		StackedActivityID: &habit.ID,
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("self-stack error = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteActivityCascades(t *testing.T) {
	env := newTestEnv(t, testDay)
	habit := env.createActivity(t, "doomed", "daily", 1, false)
	dependent := env.createActivity(t, "dependent", "daily", 1, false)
	dependent.StackedActivityID = &habit.ID
	if err := env.activityRepo.Update(context.Background(), dependent); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	ctx := context.Background()
	if _, err := env.activitySvc.Complete(ctx, env.userID, habit.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	env.addTodo(t, habit.ID, 0)
	env.addWeekly(t, habit.ID, 3, 0)
	env.addDate(t, habit.ID, "2025-03-20", 0)
	achievement := env.createAchievement(t, &model.Achievement{
		Title:      "fan",
		Type:       model.AchievementTypeHabit,
		ActivityID: &habit.ID,
		GoalCount:  5,
	})

	if err := env.activitySvc.DeleteActivity(ctx, env.userID, habit.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := env.activityRepo.FindByID(ctx, habit.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("activity lookup = %v, want record not found", err)
	}
	if ids := todoActivityIDs(t, env); len(ids) != 0 {
		t.Fatalf("todo entries survived delete: %+v", ids)
	}
	if entries, _ := env.weeklyRepo.FindByUser(ctx, env.userID); len(entries) != 0 {
		t.Fatalf("weekly entries survived delete: %+v", entries)
	}
	if entries, _ := env.dateRepo.FindByUser(ctx, env.userID); len(entries) != 0 {
		t.Fatalf("date entries survived delete: %+v", entries)
	}

	stored, err := env.activityRepo.FindByID(ctx, dependent.ID)
	if err != nil {
		t.Fatalf("dependent lookup failed: %v", err)
	}
	if stored.StackedActivityID != nil {
		t.Fatalf("stacked reference not cleared: %v", stored.StackedActivityID)
	}

	storedAchievement := env.achievementByID(t, achievement.ID)
	if storedAchievement.ActivityID != nil {
		t.Fatalf("achievement activity reference not cleared: %v", storedAchievement.ActivityID)
	}
}

func TestForeignActivityLooksMissing(t *testing.T) {
	env := newTestEnv(t, testDay)
	_, err := env.activitySvc.GetActivity(context.Background(), env.userID, uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown activity error = %v, want ErrNotFound", err)
	}
}

func TestConfigDefaultsOnFirstAccess(t *testing.T) {
	env := newTestEnv(t, testDay)

	config, err := env.configSvc.GetOrDefault(context.Background(), env.userID)
	if err != nil {
		t.Fatalf("get or default failed: %v", err)
	}
	if config.DayEndOffsetMinutes != 0 || config.ClearTodoOnNewDay || config.LastPopulatedDate != "" {
		t.Fatalf("default config = %+v", config)
	}

	offset := 180
	clear := true
	updated, err := env.configSvc.UpdateConfig(context.Background(), env.userID, dto.UpdateConfigRequest{
		DayEndOffsetMinutes: &offset,
		ClearTodoOnNewDay:   &clear,
	})
	if err != nil {
		t.Fatalf("update config failed: %v", err)
	}
	if updated.DayEndOffsetMinutes != 180 || !updated.ClearTodoOnNewDay {
		t.Fatalf("updated config = %+v", updated)
	}

	// Early-morning completion with the offset lands in the previous
	// daily window.
	env.setClock(time.Date(2025, 3, 13, 2, 0, 0, 0, time.UTC))
	habit := env.createActivity(t, "late-night", "daily", 1, false)
	if _, err := env.activitySvc.Complete(context.Background(), env.userID, habit.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	history, err := env.activitySvc.GetHistory(context.Background(), env.userID, habit.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || history[0].PeriodStart != "2025-03-12" {
		t.Fatalf("history = %+v, want one row for 2025-03-12", history)
	}
}

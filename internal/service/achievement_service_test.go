package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/pkg/apperror"
	"github.com/google/uuid"
)

func (e *testEnv) achievementByID(t *testing.T, id uuid.UUID) *model.Achievement {
	t.Helper()
	a, err := e.achieveRepo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load achievement: %v", err)
	}
	return a
}

func TestCreateAchievementValidation(t *testing.T) {
	env := newTestEnv(t, testDay)
	owned := env.createActivity(t, "owned", "daily", 1, false)
	daily := "daily"
	foreign := uuid.New()

	tests := []struct {
		name    string
		req     dto.CreateAchievementRequest
		wantErr error
	}{
		{
			"habit without activity",
			dto.CreateAchievementRequest{Title: "x", Type: "habit", GoalCount: 1},
			apperror.ErrInvalidInput,
		},
		{
			"habit with foreign activity",
			dto.CreateAchievementRequest{Title: "x", Type: "habit", ActivityID: &foreign, GoalCount: 1},
			apperror.ErrNotFound,
		},
		{
			"period without period",
			dto.CreateAchievementRequest{Title: "x", Type: "period", GoalCount: 1},
			apperror.ErrInvalidInput,
		},
		{
			"valid habit",
			dto.CreateAchievementRequest{Title: "x", Type: "habit", ActivityID: &owned.ID, GoalCount: 3},
			nil,
		},
		{
			"valid period",
			dto.CreateAchievementRequest{Title: "x", Type: "period", Period: &daily, GoalCount: 3},
			nil,
		},
		{
			"valid todo",
			dto.CreateAchievementRequest{Title: "x", Type: "todo", GoalCount: 3},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.achievementSvc.CreateAchievement(context.Background(), env.userID, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if resp.Count != 0 || resp.Completed {
				t.Fatalf("new achievement not at zero: %+v", resp)
			}
		})
	}
}

func TestHabitAchievementCompletesAndFreezes(t *testing.T) {
	env := newTestEnv(t, testDay)
	env.setConfig(t, 0, true, "")

	habit := env.createActivity(t, "run", "daily", 1, false)
	achievement := env.createAchievement(t, &model.Achievement{
		Title:      "runner",
		Reward:     "new shoes",
		Type:       model.AchievementTypeHabit,
		ActivityID: &habit.ID,
		GoalCount:  2,
	})

	ctx := context.Background()

	signals, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, true, "daily")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("signaled below goal: %+v", signals)
	}

	signals, err = env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, true, "daily")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(signals) != 1 || signals[0].Title != "runner" || signals[0].Reward != "new shoes" {
		t.Fatalf("completion signal = %+v, want runner/new shoes", signals)
	}

	stored := env.achievementByID(t, achievement.ID)
	if !stored.Completed || stored.Count != 2 {
		t.Fatalf("achievement after goal = %+v, want completed at count 2", stored)
	}

	// Completed and not repeatable: further transitions in either
	// direction leave it frozen.
	if _, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, true, "daily"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if _, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, false, "daily"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	stored = env.achievementByID(t, achievement.ID)
	if !stored.Completed || stored.Count != 2 {
		t.Fatalf("frozen achievement mutated: %+v", stored)
	}
}

func TestRepeatableAchievementResets(t *testing.T) {
	env := newTestEnv(t, testDay)
	env.setConfig(t, 0, true, "")

	habit := env.createActivity(t, "meditate", "daily", 1, false)
	achievement := env.createAchievement(t, &model.Achievement{
		Title:      "calm",
		Type:       model.AchievementTypeHabit,
		ActivityID: &habit.ID,
		GoalCount:  2,
		Repeatable: true,
	})

	ctx := context.Background()
	for round := 0; round < 2; round++ {
		if _, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, true, "daily"); err != nil {
			t.Fatalf("check failed: %v", err)
		}
		signals, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, true, "daily")
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if len(signals) != 1 {
			t.Fatalf("round %d: signals = %+v, want one completion", round, signals)
		}
		stored := env.achievementByID(t, achievement.ID)
		if stored.Completed || stored.Count != 0 {
			t.Fatalf("round %d: repeatable state = %+v, want reset to zero", round, stored)
		}
	}
}

func TestHabitAchievementDecrementOnUncomplete(t *testing.T) {
	env := newTestEnv(t, testDay)
	env.setConfig(t, 0, true, "")

	habit := env.createActivity(t, "write", "daily", 1, false)
	achievement := env.createAchievement(t, &model.Achievement{
		Title:      "author",
		Type:       model.AchievementTypeHabit,
		ActivityID: &habit.ID,
		GoalCount:  5,
	})

	ctx := context.Background()
	if _, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, true, "daily"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if _, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, false, "daily"); err != nil {
		t.Fatalf("check failed: %v", err)
	}

	stored := env.achievementByID(t, achievement.ID)
	if stored.Count != 0 {
		t.Fatalf("count after increment+decrement = %d, want 0", stored.Count)
	}

	// Decrement at zero stays at zero.
	if _, err := env.achievementSvc.CheckHabitAchievements(ctx, env.userID, habit.ID, false, "daily"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if stored := env.achievementByID(t, achievement.ID); stored.Count != 0 {
		t.Fatalf("count after decrement at zero = %d, want 0", stored.Count)
	}
}

func TestPeriodAchievementRequiresAllHabitsComplete(t *testing.T) {
	env := newTestEnv(t, testDay)
	env.setConfig(t, 0, true, "")

	daily := "daily"
	achievement := env.createAchievement(t, &model.Achievement{
		Title:     "perfect day",
		Type:      model.AchievementTypePeriod,
		Period:    &daily,
		GoalCount: 3,
	})

	habitA := env.createActivity(t, "a", "daily", 1, false)
	habitB := env.createActivity(t, "b", "daily", 2, false)

	ctx := context.Background()

	// Completing A alone: B has no history yet, so no advance.
	if _, err := env.activitySvc.Complete(ctx, env.userID, habitA.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if stored := env.achievementByID(t, achievement.ID); stored.Count != 0 {
		t.Fatalf("period count with incomplete set = %d, want 0", stored.Count)
	}

	// B needs two completions; only the crossing one advances.
	if _, err := env.activitySvc.Complete(ctx, env.userID, habitB.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if stored := env.achievementByID(t, achievement.ID); stored.Count != 0 {
		t.Fatalf("period count below B goal = %d, want 0", stored.Count)
	}
	if _, err := env.activitySvc.Complete(ctx, env.userID, habitB.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if stored := env.achievementByID(t, achievement.ID); stored.Count != 1 {
		t.Fatalf("period count with all complete = %d, want 1", stored.Count)
	}

	// Undoing B drops it below goal and walks the period counter back.
	if _, err := env.activitySvc.Undo(ctx, env.userID, habitB.ID); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if stored := env.achievementByID(t, achievement.ID); stored.Count != 0 {
		t.Fatalf("period count after undo = %d, want 0", stored.Count)
	}
}

func TestPeriodAchievementEmptyHabitSetNeverAdvances(t *testing.T) {
	env := newTestEnv(t, testDay)
	env.setConfig(t, 0, true, "")

	daily := "daily"
	achievement := env.createAchievement(t, &model.Achievement{
		Title:     "perfect day",
		Type:      model.AchievementTypePeriod,
		Period:    &daily,
		GoalCount: 1,
	})

	// A lone task does not count as a habit; the habit set stays empty
	// and empty is never "all complete".
	task := env.createActivity(t, "errand", "daily", 1, true)
	if _, err := env.activitySvc.Complete(context.Background(), env.userID, task.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if stored := env.achievementByID(t, achievement.ID); stored.Count != 0 || stored.Completed {
		t.Fatalf("period achievement advanced on empty habit set: %+v", stored)
	}
}

func TestTodoAchievementIncrementsOncePerDay(t *testing.T) {
	env := newTestEnv(t, testDay)
	env.setConfig(t, 0, true, "")

	achievement := env.createAchievement(t, &model.Achievement{
		Title:     "consistent",
		Type:      model.AchievementTypeTodo,
		GoalCount: 2,
	})

	ctx := context.Background()

	if _, err := env.achievementSvc.CheckTodoAchievements(ctx, env.userID, "2025-03-12"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if _, err := env.achievementSvc.CheckTodoAchievements(ctx, env.userID, "2025-03-12"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if stored := env.achievementByID(t, achievement.ID); stored.Count != 1 {
		t.Fatalf("same-day count = %d, want 1", stored.Count)
	}

	signals, err := env.achievementSvc.CheckTodoAchievements(ctx, env.userID, "2025-03-13")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("signals on goal day = %+v, want one", signals)
	}
	if stored := env.achievementByID(t, achievement.ID); !stored.Completed || stored.Count != 2 {
		t.Fatalf("todo achievement after goal = %+v, want completed at 2", stored)
	}
}

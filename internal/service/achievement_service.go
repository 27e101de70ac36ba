package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/internal/period"
	"anoa.com/habitloop/internal/repository"
	"anoa.com/habitloop/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementService interface {
	CreateAchievement(ctx context.Context, userID uuid.UUID, req dto.CreateAchievementRequest) (*dto.AchievementResponse, error)
	GetAchievements(ctx context.Context, userID uuid.UUID) ([]dto.AchievementResponse, error)
	// CheckHabitAchievements applies a habit completion transition to the
	// matching habit and period achievements. isNowComplete reports which
	// direction the activity crossed its per-period goal.
	CheckHabitAchievements(ctx context.Context, userID, activityID uuid.UUID, isNowComplete bool, activityPeriod string) ([]dto.CompletedAchievement, error)
	// CheckTodoAchievements increments todo achievements at most once per
	// logical day, stamping lastTodoIncrementDate.
	CheckTodoAchievements(ctx context.Context, userID uuid.UUID, today string) ([]dto.CompletedAchievement, error)
}

type achievementService struct {
	repo         repository.AchievementRepository
	activityRepo repository.ActivityRepository
	historyRepo  repository.HistoryRepository
	configSvc    UserConfigService
	clock        Clock
}

func NewAchievementService(
	repo repository.AchievementRepository,
	activityRepo repository.ActivityRepository,
	historyRepo repository.HistoryRepository,
	configSvc UserConfigService,
	clock Clock,
) AchievementService {
	return &achievementService{
		repo:         repo,
		activityRepo: activityRepo,
		historyRepo:  historyRepo,
		configSvc:    configSvc,
		clock:        clock,
	}
}

func (s *achievementService) CreateAchievement(ctx context.Context, userID uuid.UUID, req dto.CreateAchievementRequest) (*dto.AchievementResponse, error) {
	switch req.Type {
	case model.AchievementTypeHabit:
		if req.ActivityID == nil {
			return nil, fmt.Errorf("%w: habit achievement requires activity_id", apperror.ErrInvalidInput)
		}
		activity, err := s.activityRepo.FindByID(ctx, *req.ActivityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: activity", apperror.ErrNotFound)
			}
			return nil, err
		}
		if activity.UserID != userID {
			return nil, fmt.Errorf("%w: activity", apperror.ErrNotFound)
		}
	case model.AchievementTypePeriod:
		if req.Period == nil {
			return nil, fmt.Errorf("%w: period achievement requires period", apperror.ErrInvalidInput)
		}
	}

	achievement := &model.Achievement{
		UserID:     userID,
		Title:      req.Title,
		Reward:     req.Reward,
		Type:       req.Type,
		ActivityID: req.ActivityID,
		Period:     req.Period,
		GoalCount:  req.GoalCount,
		Repeatable: req.Repeatable,
	}

	if err := s.repo.Create(ctx, achievement); err != nil {
		return nil, err
	}

	resp := buildAchievementResponse(achievement)
	return &resp, nil
}

func (s *achievementService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]dto.AchievementResponse, error) {
	achievements, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		responses = append(responses, buildAchievementResponse(a))
	}
	return responses, nil
}

// increment advances the counter by one. Reaching the goal either
// completes the achievement or, for repeatable ones, resets the counter
// to zero; both return a one-time completion signal.
func (s *achievementService) increment(ctx context.Context, a *model.Achievement) (*dto.CompletedAchievement, error) {
	if a.Completed {
		return nil, nil
	}

	newCount := a.Count + 1
	if newCount < a.GoalCount {
		a.Count = newCount
		return nil, s.repo.Update(ctx, a)
	}

	if a.Repeatable {
		a.Count = 0
	} else {
		a.Count = newCount
		a.Completed = true
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return &dto.CompletedAchievement{ID: a.ID, Title: a.Title, Reward: a.Reward}, nil
}

// decrement walks the counter back toward zero. Never signals.
func (s *achievementService) decrement(ctx context.Context, a *model.Achievement) error {
	if a.Completed {
		return nil
	}
	if a.Count > 0 {
		a.Count--
	}
	return s.repo.Update(ctx, a)
}

func (s *achievementService) CheckHabitAchievements(ctx context.Context, userID, activityID uuid.UUID, isNowComplete bool, activityPeriod string) ([]dto.CompletedAchievement, error) {
	candidates, err := s.repo.FindHabitCandidates(ctx, userID, activityID, activityPeriod)
	if err != nil {
		return nil, err
	}

	// Resolved lazily: only needed when a period achievement can advance.
	allComplete := false
	allCompleteKnown := false

	completed := []dto.CompletedAchievement{}
	for _, a := range candidates {
		switch a.Type {
		case model.AchievementTypeHabit:
			if isNowComplete {
				signal, err := s.increment(ctx, a)
				if err != nil {
					return nil, err
				}
				if signal != nil {
					completed = append(completed, *signal)
				}
			} else {
				if err := s.decrement(ctx, a); err != nil {
					return nil, err
				}
			}
		case model.AchievementTypePeriod:
			if !isNowComplete {
				// Best-effort undo of a prior increment. The engine
				// cannot tell whether this activity caused one.
				if err := s.decrement(ctx, a); err != nil {
					return nil, err
				}
				continue
			}
			if !allCompleteKnown {
				allComplete, err = s.areAllPeriodHabitsComplete(ctx, userID, activityPeriod)
				if err != nil {
					return nil, err
				}
				allCompleteKnown = true
			}
			if allComplete {
				signal, err := s.increment(ctx, a)
				if err != nil {
					return nil, err
				}
				if signal != nil {
					completed = append(completed, *signal)
				}
			}
		}
	}

	return completed, nil
}

func (s *achievementService) CheckTodoAchievements(ctx context.Context, userID uuid.UUID, today string) ([]dto.CompletedAchievement, error) {
	candidates, err := s.repo.FindTodoCandidates(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	completed := []dto.CompletedAchievement{}
	for _, a := range candidates {
		day := today
		a.LastTodoIncrementDate = &day
		signal, err := s.increment(ctx, a)
		if err != nil {
			return nil, err
		}
		if signal != nil {
			completed = append(completed, *signal)
		}
	}

	return completed, nil
}

// areAllPeriodHabitsComplete reports whether every non-archived,
// non-task activity of the period has met its goal in the current
// window. An empty activity set is never "all complete".
func (s *achievementService) areAllPeriodHabitsComplete(ctx context.Context, userID uuid.UUID, activityPeriod string) (bool, error) {
	config, err := s.configSvc.GetOrDefault(ctx, userID)
	if err != nil {
		return false, err
	}

	habits, err := s.activityRepo.FindHabitsByPeriod(ctx, userID, activityPeriod)
	if err != nil {
		return false, err
	}
	if len(habits) == 0 {
		return false, nil
	}

	periodStart := period.Start(period.Kind(activityPeriod), s.clock(), config.DayEndOffsetMinutes)

	for _, habit := range habits {
		history, err := s.historyRepo.FindByActivityAndPeriod(ctx, habit.ID, periodStart)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if history.Count < habit.GoalCount {
			return false, nil
		}
	}

	return true, nil
}

func buildAchievementResponse(a *model.Achievement) dto.AchievementResponse {
	return dto.AchievementResponse{
		ID:         a.ID,
		Title:      a.Title,
		Reward:     a.Reward,
		Type:       a.Type,
		ActivityID: a.ActivityID,
		Period:     a.Period,
		GoalCount:  a.GoalCount,
		Count:      a.Count,
		Repeatable: a.Repeatable,
		Completed:  a.Completed,
	}
}

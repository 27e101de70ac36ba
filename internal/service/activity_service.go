package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/internal/period"
	"anoa.com/habitloop/internal/repository"
	"anoa.com/habitloop/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ActivityService interface {
	CreateActivity(ctx context.Context, userID uuid.UUID, req dto.CreateActivityRequest) (*dto.ActivityResponse, error)
	GetActivities(ctx context.Context, userID uuid.UUID, filter dto.ActivityFilter) ([]dto.ActivityResponse, error)
	GetActivity(ctx context.Context, userID, activityID uuid.UUID) (*dto.ActivityResponse, error)
	UpdateActivity(ctx context.Context, userID, activityID uuid.UUID, req dto.UpdateActivityRequest) (*dto.ActivityResponse, error)
	DeleteActivity(ctx context.Context, userID, activityID uuid.UUID) error
	// Complete records one completion in the current period window,
	// fires the achievement hook on a goal-threshold crossing, and
	// handles task self-removal.
	Complete(ctx context.Context, userID, activityID uuid.UUID) (*dto.CompletionResponse, error)
	// Undo walks one completion back.
	Undo(ctx context.Context, userID, activityID uuid.UUID) (*dto.CompletionResponse, error)
	GetHistory(ctx context.Context, userID, activityID uuid.UUID) ([]dto.HistoryResponse, error)
}

type activityService struct {
	repo           repository.ActivityRepository
	historyRepo    repository.HistoryRepository
	todoRepo       repository.TodoRepository
	configSvc      UserConfigService
	achievementSvc AchievementService
	searchSvc      SearchService
	rdb            *redis.Client
	clock          Clock
}

func NewActivityService(
	repo repository.ActivityRepository,
	historyRepo repository.HistoryRepository,
	todoRepo repository.TodoRepository,
	configSvc UserConfigService,
	achievementSvc AchievementService,
	searchSvc SearchService,
	rdb *redis.Client,
	clock Clock,
) ActivityService {
	return &activityService{
		repo:           repo,
		historyRepo:    historyRepo,
		todoRepo:       todoRepo,
		configSvc:      configSvc,
		achievementSvc: achievementSvc,
		searchSvc:      searchSvc,
		rdb:            rdb,
		clock:          clock,
	}
}

// findOwned loads an activity and enforces ownership. Foreign rows are
// indistinguishable from missing ones.
func (s *activityService) findOwned(ctx context.Context, userID, activityID uuid.UUID) (*model.Activity, error) {
	activity, err := s.repo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: activity", apperror.ErrNotFound)
		}
		return nil, err
	}
	if activity.UserID != userID {
		return nil, fmt.Errorf("%w: activity", apperror.ErrNotFound)
	}
	return activity, nil
}

func (s *activityService) CreateActivity(ctx context.Context, userID uuid.UUID, req dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	if req.StackedActivityID != nil {
		if _, err := s.findOwned(ctx, userID, *req.StackedActivityID); err != nil {
			return nil, err
		}
	}

	activity := &model.Activity{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Period:            req.Period,
		GoalCount:         req.GoalCount,
		Task:              req.Task,
		ArchiveTask:       req.ArchiveTask,
		StackedActivityID: req.StackedActivityID,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexActivity(activity); err != nil {
			log.Printf("Failed to index activity %s: %v", activity.ID, err)
		}
	}

	resp := s.buildActivityResponse(ctx, activity)
	return &resp, nil
}

func (s *activityService) GetActivities(ctx context.Context, userID uuid.UUID, filter dto.ActivityFilter) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.FindByUser(ctx, userID, filter.Archived, filter.Period)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, s.buildActivityResponse(ctx, activity))
	}
	return responses, nil
}

func (s *activityService) GetActivity(ctx context.Context, userID, activityID uuid.UUID) (*dto.ActivityResponse, error) {
	activity, err := s.findOwned(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	resp := s.buildActivityResponse(ctx, activity)
	return &resp, nil
}

func (s *activityService) UpdateActivity(ctx context.Context, userID, activityID uuid.UUID, req dto.UpdateActivityRequest) (*dto.ActivityResponse, error) {
	activity, err := s.findOwned(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	if req.StackedActivityID != nil {
		if *req.StackedActivityID == activityID {
			return nil, fmt.Errorf("%w: activity cannot stack on itself", apperror.ErrInvalidInput)
		}
		if _, err := s.findOwned(ctx, userID, *req.StackedActivityID); err != nil {
			return nil, err
		}
		activity.StackedActivityID = req.StackedActivityID
	}
	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Period != nil {
		activity.Period = *req.Period
	}
	if req.GoalCount != nil {
		activity.GoalCount = *req.GoalCount
	}
	if req.Archived != nil {
		activity.Archived = *req.Archived
	}
	if req.Task != nil {
		activity.Task = *req.Task
	}
	if req.ArchiveTask != nil {
		activity.ArchiveTask = *req.ArchiveTask
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexActivity(activity); err != nil {
			log.Printf("Failed to reindex activity %s: %v", activity.ID, err)
		}
	}

	resp := s.buildActivityResponse(ctx, activity)
	return &resp, nil
}

func (s *activityService) DeleteActivity(ctx context.Context, userID, activityID uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, activityID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, activityID); err != nil {
		return err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.DeleteActivity(activityID.String()); err != nil {
			log.Printf("Failed to remove activity %s from index: %v", activityID, err)
		}
	}

	s.invalidateTodoCache(ctx, userID)
	return nil
}

func (s *activityService) Complete(ctx context.Context, userID, activityID uuid.UUID) (*dto.CompletionResponse, error) {
	return s.applyCompletion(ctx, userID, activityID, 1)
}

func (s *activityService) Undo(ctx context.Context, userID, activityID uuid.UUID) (*dto.CompletionResponse, error) {
	return s.applyCompletion(ctx, userID, activityID, -1)
}

func (s *activityService) applyCompletion(ctx context.Context, userID, activityID uuid.UUID, delta int) (*dto.CompletionResponse, error) {
	activity, err := s.findOwned(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Archived {
		return nil, fmt.Errorf("%w: activity is archived", apperror.ErrInvalidInput)
	}

	config, err := s.configSvc.GetOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	periodStart := period.Start(period.Kind(activity.Period), s.clock(), config.DayEndOffsetMinutes)

	oldCount := 0
	history, err := s.historyRepo.FindByActivityAndPeriod(ctx, activityID, periodStart)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if history != nil {
		oldCount = history.Count
	}

	newCount := oldCount + delta
	if newCount < 0 {
		newCount = 0
	}

	if history == nil {
		history = &model.ActivityHistory{
			ActivityID:  activityID,
			PeriodStart: periodStart,
			Count:       newCount,
		}
		if err := s.historyRepo.Create(ctx, history); err != nil {
			return nil, err
		}
	} else if newCount != oldCount {
		if err := s.historyRepo.UpdateCount(ctx, history.ID, newCount); err != nil {
			return nil, err
		}
	}

	wasComplete := oldCount >= activity.GoalCount
	isNowComplete := newCount >= activity.GoalCount

	completedAchievements := []dto.CompletedAchievement{}
	if wasComplete != isNowComplete {
		completedAchievements, err = s.achievementSvc.CheckHabitAchievements(ctx, userID, activityID, isNowComplete, activity.Period)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.CompletionResponse{
		Activity:              buildActivityResponseWithCount(activity, newCount),
		CompletedAchievements: completedAchievements,
	}

	if delta > 0 && activity.StackedActivityID != nil {
		if stacked, err := s.findOwned(ctx, userID, *activity.StackedActivityID); err == nil {
			suggestion := s.buildActivityResponse(ctx, stacked)
			resp.Suggestion = &suggestion
		}
	}

	// Tasks fire once: completing one removes it from the todo list and
	// then archives or deletes it.
	if delta > 0 && activity.Task {
		if err := s.todoRepo.DeleteByUserAndActivity(ctx, userID, activityID); err != nil {
			return nil, err
		}
		if activity.ArchiveTask {
			if err := s.repo.SetArchived(ctx, activityID, true); err != nil {
				return nil, err
			}
		} else {
			if err := s.repo.Delete(ctx, activityID); err != nil {
				return nil, err
			}
			if s.searchSvc != nil {
				if err := s.searchSvc.DeleteActivity(activityID.String()); err != nil {
					log.Printf("Failed to remove activity %s from index: %v", activityID, err)
				}
			}
		}
		resp.Removed = true
		s.invalidateTodoCache(ctx, userID)
	}

	return resp, nil
}

func (s *activityService) GetHistory(ctx context.Context, userID, activityID uuid.UUID) ([]dto.HistoryResponse, error) {
	if _, err := s.findOwned(ctx, userID, activityID); err != nil {
		return nil, err
	}

	rows, err := s.historyRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.HistoryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.HistoryResponse{
			PeriodStart: row.PeriodStart,
			Count:       row.Count,
		})
	}
	return responses, nil
}

func (s *activityService) invalidateTodoCache(ctx context.Context, userID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	config, err := s.configSvc.GetOrDefault(ctx, userID)
	if err != nil {
		return
	}
	today := period.Start(period.Daily, s.clock(), config.DayEndOffsetMinutes)
	if err := InvalidateTodoCache(ctx, s.rdb, userID, today); err != nil {
		log.Printf("Failed to invalidate todo cache for user %s: %v", userID, err)
	}
}

func (s *activityService) buildActivityResponse(ctx context.Context, activity *model.Activity) dto.ActivityResponse {
	count := 0
	if config, err := s.configSvc.GetOrDefault(ctx, activity.UserID); err == nil {
		periodStart := period.Start(period.Kind(activity.Period), s.clock(), config.DayEndOffsetMinutes)
		if history, err := s.historyRepo.FindByActivityAndPeriod(ctx, activity.ID, periodStart); err == nil {
			count = history.Count
		}
	}
	return buildActivityResponseWithCount(activity, count)
}

func buildActivityResponseWithCount(activity *model.Activity, currentCount int) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:                activity.ID,
		Title:             activity.Title,
		Description:       activity.Description,
		Period:            activity.Period,
		GoalCount:         activity.GoalCount,
		Archived:          activity.Archived,
		Task:              activity.Task,
		ArchiveTask:       activity.ArchiveTask,
		StackedActivityID: activity.StackedActivityID,
		CurrentCount:      currentCount,
		Complete:          currentCount >= activity.GoalCount,
	}
}

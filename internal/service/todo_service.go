package service

import (
	"context"
	"encoding/json"
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

type TodoService interface {
	// PopulateToday reconciles the todo list with both schedule sources
	// for the current logical day. Idempotent within one logical day:
	// callers may invoke it on every app foreground.
	PopulateToday(ctx context.Context, userID uuid.UUID) ([]dto.TodoEntryResponse, error)
	GetTodos(ctx context.Context, userID uuid.UUID) ([]dto.TodoEntryResponse, error)
	AddTodo(ctx context.Context, userID uuid.UUID, req dto.AddTodoRequest) (*dto.TodoEntryResponse, error)
	RemoveTodo(ctx context.Context, userID, entryID uuid.UUID) error
	// CompleteTodo removes the entry as completed: the underlying
	// activity records a completion and todo achievements advance.
	CompleteTodo(ctx context.Context, userID, entryID uuid.UUID) (*dto.CompleteTodoResponse, error)
	Reorder(ctx context.Context, userID uuid.UUID, req dto.ReorderRequest) error
}

type todoService struct {
	repo           repository.TodoRepository
	weeklyRepo     repository.WeeklyScheduleRepository
	dateRepo       repository.DateScheduleRepository
	configRepo     repository.UserConfigRepository
	configSvc      UserConfigService
	activitySvc    ActivityService
	achievementSvc AchievementService
	tx             repository.TxManager
	rdb            *redis.Client
	clock          Clock
}

func NewTodoService(
	repo repository.TodoRepository,
	weeklyRepo repository.WeeklyScheduleRepository,
	dateRepo repository.DateScheduleRepository,
	configRepo repository.UserConfigRepository,
	configSvc UserConfigService,
	activitySvc ActivityService,
	achievementSvc AchievementService,
	tx repository.TxManager,
	rdb *redis.Client,
	clock Clock,
) TodoService {
	return &todoService{
		repo:           repo,
		weeklyRepo:     weeklyRepo,
		dateRepo:       dateRepo,
		configRepo:     configRepo,
		configSvc:      configSvc,
		activitySvc:    activitySvc,
		achievementSvc: achievementSvc,
		tx:             tx,
		rdb:            rdb,
		clock:          clock,
	}
}

func (s *todoService) PopulateToday(ctx context.Context, userID uuid.UUID) ([]dto.TodoEntryResponse, error) {
	config, err := s.configSvc.GetOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	today := period.Start(period.Daily, now, config.DayEndOffsetMinutes)

	// Same-day guard: population already ran for this logical day, so
	// return the list untouched. No schedule consumption on this path.
	if config.LastPopulatedDate == today {
		return s.GetTodos(ctx, userID)
	}

	acquired, err := AcquirePopulateLock(ctx, s.rdb, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("%w: populate already in progress", apperror.ErrConflict)
	}
	defer func() {
		if err := ReleasePopulateLock(ctx, s.rdb, userID); err != nil {
			log.Printf("Failed to release populate lock for user %s: %v", userID, err)
		}
	}()

	// The weekday whose recurring schedule applies follows the adjusted
	// instant, not the date string.
	dayOfWeek := period.DayOfWeek(now, config.DayEndOffsetMinutes)

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		todoRepo := s.repo.WithTx(tx)
		weeklyRepo := s.weeklyRepo.WithTx(tx)
		dateRepo := s.dateRepo.WithTx(tx)
		configRepo := s.configRepo.WithTx(tx)

		weeklyEntries, err := weeklyRepo.FindByUserAndDay(ctx, userID, dayOfWeek)
		if err != nil {
			return err
		}
		dateEntries, err := dateRepo.FindByUserAndDate(ctx, userID, today)
		if err != nil {
			return err
		}

		// Weekly entries always precede date entries.
		allScheduled := make([]uuid.UUID, 0, len(weeklyEntries)+len(dateEntries))
		for _, entry := range weeklyEntries {
			allScheduled = append(allScheduled, entry.ActivityID)
		}
		for _, entry := range dateEntries {
			allScheduled = append(allScheduled, entry.ActivityID)
		}

		if config.ClearTodoOnNewDay {
			if err := todoRepo.DeleteByUser(ctx, userID); err != nil {
				return err
			}
			for i, activityID := range allScheduled {
				entry := &model.TodoEntry{
					UserID:     userID,
					ActivityID: activityID,
					SortOrder:  i,
				}
				if err := todoRepo.Create(ctx, entry); err != nil {
					return err
				}
			}
		} else {
			existing, err := todoRepo.FindByUser(ctx, userID)
			if err != nil {
				return err
			}
			// Dedupe only against entries that already existed before
			// this run; a double-booked activity absent from the list
			// still yields two rows.
			present := make(map[uuid.UUID]bool, len(existing))
			next := 0
			for _, entry := range existing {
				present[entry.ActivityID] = true
				if entry.SortOrder >= next {
					next = entry.SortOrder + 1
				}
			}
			for _, activityID := range allScheduled {
				if present[activityID] {
					continue
				}
				entry := &model.TodoEntry{
					UserID:     userID,
					ActivityID: activityID,
					SortOrder:  next,
				}
				if err := todoRepo.Create(ctx, entry); err != nil {
					return err
				}
				next++
			}
		}

		// One-shot consumption happens whether or not the branch above
		// used the date entries.
		if err := dateRepo.DeleteByUserAndDate(ctx, userID, today); err != nil {
			return err
		}

		// A weekly-scheduled task fires once, then leaves the schedule.
		taskEntryIDs := []uuid.UUID{}
		for _, entry := range weeklyEntries {
			if entry.Activity.Task {
				taskEntryIDs = append(taskEntryIDs, entry.ID)
			}
		}
		if err := weeklyRepo.DeleteByIDs(ctx, taskEntryIDs); err != nil {
			return err
		}

		return configRepo.SetLastPopulatedDate(ctx, userID, today)
	})
	if err != nil {
		return nil, err
	}

	if err := InvalidateTodoCache(ctx, s.rdb, userID, today); err != nil {
		log.Printf("Failed to invalidate todo cache for user %s: %v", userID, err)
	}

	return s.GetTodos(ctx, userID)
}

func (s *todoService) GetTodos(ctx context.Context, userID uuid.UUID) ([]dto.TodoEntryResponse, error) {
	config, err := s.configSvc.GetOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := period.Start(period.Daily, s.clock(), config.DayEndOffsetMinutes)

	if payload, err := GetCachedTodoList(ctx, s.rdb, userID, today); err == nil && payload != nil {
		var cached []dto.TodoEntryResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TodoEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, buildTodoEntryResponse(entry))
	}

	if payload, err := json.Marshal(responses); err == nil {
		if err := CacheTodoList(ctx, s.rdb, userID, today, payload); err != nil {
			log.Printf("Failed to cache todo list for user %s: %v", userID, err)
		}
	}

	return responses, nil
}

func (s *todoService) AddTodo(ctx context.Context, userID uuid.UUID, req dto.AddTodoRequest) (*dto.TodoEntryResponse, error) {
	if _, err := s.activitySvc.GetActivity(ctx, userID, req.ActivityID); err != nil {
		return nil, err
	}

	max, err := s.repo.MaxSortOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := &model.TodoEntry{
		UserID:     userID,
		ActivityID: req.ActivityID,
		SortOrder:  max + 1,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, entry.ID)
	if err != nil {
		// Insert-then-read returning nothing signals a storage anomaly.
		return nil, fmt.Errorf("%w: todo entry missing after insert: %v", apperror.ErrInternal, err)
	}

	s.invalidateCache(ctx, userID)
	resp := buildTodoEntryResponse(created)
	return &resp, nil
}

func (s *todoService) findOwned(ctx context.Context, userID, entryID uuid.UUID) (*model.TodoEntry, error) {
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: todo entry", apperror.ErrNotFound)
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("%w: todo entry", apperror.ErrNotFound)
	}
	return entry, nil
}

func (s *todoService) RemoveTodo(ctx context.Context, userID, entryID uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, entryID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entryID); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *todoService) CompleteTodo(ctx context.Context, userID, entryID uuid.UUID) (*dto.CompleteTodoResponse, error) {
	entry, err := s.findOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, entryID); err != nil {
		return nil, err
	}

	completion, err := s.activitySvc.Complete(ctx, userID, entry.ActivityID)
	if err != nil {
		return nil, err
	}

	config, err := s.configSvc.GetOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := period.Start(period.Daily, s.clock(), config.DayEndOffsetMinutes)

	achievements, err := s.achievementSvc.CheckTodoAchievements(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, userID)

	return &dto.CompleteTodoResponse{
		Completion:            completion,
		CompletedAchievements: achievements,
	}, nil
}

func (s *todoService) Reorder(ctx context.Context, userID uuid.UUID, req dto.ReorderRequest) error {
	existing, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	orders, err := resolveReorder(req.IDs, entryIDs(existing))
	if err != nil {
		return err
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateSortOrders(ctx, orders)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

func (s *todoService) invalidateCache(ctx context.Context, userID uuid.UUID) {
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

func entryIDs(entries []*model.TodoEntry) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

// resolveReorder validates that the requested order is a permutation of
// the stored id set before any write happens.
func resolveReorder(requested, existing []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(requested) != len(existing) {
		return nil, fmt.Errorf("%w: reorder must include every entry exactly once", apperror.ErrInvalidInput)
	}

	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	orders := make(map[uuid.UUID]int, len(requested))
	for i, id := range requested {
		if !known[id] {
			return nil, fmt.Errorf("%w: unknown entry %s in reorder", apperror.ErrInvalidInput, id)
		}
		if _, dup := orders[id]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %s in reorder", apperror.ErrInvalidInput, id)
		}
		orders[id] = i
	}

	return orders, nil
}

func buildTodoEntryResponse(entry *model.TodoEntry) dto.TodoEntryResponse {
	return dto.TodoEntryResponse{
		ID:        entry.ID,
		SortOrder: entry.SortOrder,
		Activity:  buildActivityResponseWithCount(&entry.Activity, 0),
	}
}

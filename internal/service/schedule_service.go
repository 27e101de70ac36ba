package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/internal/repository"
	"anoa.com/habitloop/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleService interface {
	AddWeeklyEntry(ctx context.Context, userID uuid.UUID, req dto.CreateWeeklyEntryRequest) (*dto.WeeklyEntryResponse, error)
	GetWeeklyEntries(ctx context.Context, userID uuid.UUID, filter dto.WeeklyEntryFilter) ([]dto.WeeklyEntryResponse, error)
	RemoveWeeklyEntry(ctx context.Context, userID, entryID uuid.UUID) error
	ReorderWeekly(ctx context.Context, userID uuid.UUID, req dto.ReorderWeeklyRequest) error

	AddDateEntry(ctx context.Context, userID uuid.UUID, req dto.CreateDateEntryRequest) (*dto.DateEntryResponse, error)
	GetDateEntries(ctx context.Context, userID uuid.UUID, filter dto.DateEntryFilter) ([]dto.DateEntryResponse, error)
	RemoveDateEntry(ctx context.Context, userID, entryID uuid.UUID) error
	ReorderDate(ctx context.Context, userID uuid.UUID, req dto.ReorderDateRequest) error
}

type scheduleService struct {
	weeklyRepo   repository.WeeklyScheduleRepository
	dateRepo     repository.DateScheduleRepository
	activityRepo repository.ActivityRepository
	tx           repository.TxManager
}

func NewScheduleService(
	weeklyRepo repository.WeeklyScheduleRepository,
	dateRepo repository.DateScheduleRepository,
	activityRepo repository.ActivityRepository,
	tx repository.TxManager,
) ScheduleService {
	return &scheduleService{
		weeklyRepo:   weeklyRepo,
		dateRepo:     dateRepo,
		activityRepo: activityRepo,
		tx:           tx,
	}
}

func (s *scheduleService) checkActivityOwned(ctx context.Context, userID, activityID uuid.UUID) error {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: activity", apperror.ErrNotFound)
		}
		return err
	}
	if activity.UserID != userID {
		return fmt.Errorf("%w: activity", apperror.ErrNotFound)
	}
	if activity.Archived {
		return fmt.Errorf("%w: archived activity cannot be scheduled", apperror.ErrInvalidInput)
	}
	return nil
}

func (s *scheduleService) AddWeeklyEntry(ctx context.Context, userID uuid.UUID, req dto.CreateWeeklyEntryRequest) (*dto.WeeklyEntryResponse, error) {
	if err := s.checkActivityOwned(ctx, userID, req.ActivityID); err != nil {
		return nil, err
	}

	max, err := s.weeklyRepo.MaxSortOrder(ctx, userID, *req.DayOfWeek)
	if err != nil {
		return nil, err
	}

	entry := &model.WeeklyScheduleEntry{
		UserID:     userID,
		DayOfWeek:  *req.DayOfWeek,
		ActivityID: req.ActivityID,
		SortOrder:  max + 1,
	}
	if err := s.weeklyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	created, err := s.weeklyRepo.FindByID(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: weekly entry missing after insert: %v", apperror.ErrInternal, err)
	}

	resp := buildWeeklyEntryResponse(created)
	return &resp, nil
}

func (s *scheduleService) GetWeeklyEntries(ctx context.Context, userID uuid.UUID, filter dto.WeeklyEntryFilter) ([]dto.WeeklyEntryResponse, error) {
	var entries []*model.WeeklyScheduleEntry
	var err error
	if filter.DayOfWeek != nil {
		entries, err = s.weeklyRepo.FindByUserAndDay(ctx, userID, *filter.DayOfWeek)
	} else {
		entries, err = s.weeklyRepo.FindByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]dto.WeeklyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, buildWeeklyEntryResponse(entry))
	}
	return responses, nil
}

func (s *scheduleService) RemoveWeeklyEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.weeklyRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: weekly entry", apperror.ErrNotFound)
		}
		return err
	}
	if entry.UserID != userID {
		return fmt.Errorf("%w: weekly entry", apperror.ErrNotFound)
	}
	return s.weeklyRepo.Delete(ctx, entryID)
}

func (s *scheduleService) ReorderWeekly(ctx context.Context, userID uuid.UUID, req dto.ReorderWeeklyRequest) error {
	existing, err := s.weeklyRepo.FindByUserAndDay(ctx, userID, *req.DayOfWeek)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(existing))
	for _, entry := range existing {
		ids = append(ids, entry.ID)
	}

	orders, err := resolveReorder(req.IDs, ids)
	if err != nil {
		return err
	}

	return s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		return s.weeklyRepo.WithTx(tx).UpdateSortOrders(ctx, orders)
	})
}

func (s *scheduleService) AddDateEntry(ctx context.Context, userID uuid.UUID, req dto.CreateDateEntryRequest) (*dto.DateEntryResponse, error) {
	if err := s.checkActivityOwned(ctx, userID, req.ActivityID); err != nil {
		return nil, err
	}

	max, err := s.dateRepo.MaxSortOrder(ctx, userID, req.Date)
	if err != nil {
		return nil, err
	}

	entry := &model.DateScheduleEntry{
		UserID:        userID,
		ScheduledDate: req.Date,
		ActivityID:    req.ActivityID,
		SortOrder:     max + 1,
	}
	if err := s.dateRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	created, err := s.dateRepo.FindByID(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: date entry missing after insert: %v", apperror.ErrInternal, err)
	}

	resp := buildDateEntryResponse(created)
	return &resp, nil
}

func (s *scheduleService) GetDateEntries(ctx context.Context, userID uuid.UUID, filter dto.DateEntryFilter) ([]dto.DateEntryResponse, error) {
	var entries []*model.DateScheduleEntry
	var err error
	if filter.Date != "" {
		entries, err = s.dateRepo.FindByUserAndDate(ctx, userID, filter.Date)
	} else {
		entries, err = s.dateRepo.FindByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DateEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, buildDateEntryResponse(entry))
	}
	return responses, nil
}

func (s *scheduleService) RemoveDateEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.dateRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: date entry", apperror.ErrNotFound)
		}
		return err
	}
	if entry.UserID != userID {
		return fmt.Errorf("%w: date entry", apperror.ErrNotFound)
	}
	return s.dateRepo.Delete(ctx, entryID)
}

func (s *scheduleService) ReorderDate(ctx context.Context, userID uuid.UUID, req dto.ReorderDateRequest) error {
	existing, err := s.dateRepo.FindByUserAndDate(ctx, userID, req.Date)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(existing))
	for _, entry := range existing {
		ids = append(ids, entry.ID)
	}

	orders, err := resolveReorder(req.IDs, ids)
	if err != nil {
		return err
	}

	return s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		return s.dateRepo.WithTx(tx).UpdateSortOrders(ctx, orders)
	})
}

func buildWeeklyEntryResponse(entry *model.WeeklyScheduleEntry) dto.WeeklyEntryResponse {
	return dto.WeeklyEntryResponse{
		ID:        entry.ID,
		DayOfWeek: entry.DayOfWeek,
		SortOrder: entry.SortOrder,
		Activity:  buildActivityResponseWithCount(&entry.Activity, 0),
	}
}

func buildDateEntryResponse(entry *model.DateScheduleEntry) dto.DateEntryResponse {
	return dto.DateEntryResponse{
		ID:            entry.ID,
		ScheduledDate: entry.ScheduledDate,
		SortOrder:     entry.SortOrder,
		Activity:      buildActivityResponseWithCount(&entry.Activity, 0),
	}
}

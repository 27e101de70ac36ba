package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeeklyScheduleRepository interface {
	WithTx(tx *gorm.DB) WeeklyScheduleRepository
	Create(ctx context.Context, entry *model.WeeklyScheduleEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WeeklyScheduleEntry, error)
	FindByUserAndDay(ctx context.Context, userID uuid.UUID, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.WeeklyScheduleEntry, error)
	MaxSortOrder(ctx context.Context, userID uuid.UUID, dayOfWeek int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error
}

type weeklyScheduleRepository struct {
	db *gorm.DB
}

func NewWeeklyScheduleRepository(db *gorm.DB) WeeklyScheduleRepository {
	return &weeklyScheduleRepository{db: db}
}

func (r *weeklyScheduleRepository) WithTx(tx *gorm.DB) WeeklyScheduleRepository {
	return &weeklyScheduleRepository{db: tx}
}

func (r *weeklyScheduleRepository) Create(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *weeklyScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WeeklyScheduleEntry, error) {
	var entry model.WeeklyScheduleEntry
	if err := r.db.WithContext(ctx).Preload("Activity").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *weeklyScheduleRepository) FindByUserAndDay(ctx context.Context, userID uuid.UUID, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
	var entries []*model.WeeklyScheduleEntry
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek).
		Order("sort_order ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *weeklyScheduleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.WeeklyScheduleEntry, error) {
	var entries []*model.WeeklyScheduleEntry
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("day_of_week ASC, sort_order ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *weeklyScheduleRepository) MaxSortOrder(ctx context.Context, userID uuid.UUID, dayOfWeek int) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&model.WeeklyScheduleEntry{}).
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek).
		Select("MAX(sort_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *weeklyScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.WeeklyScheduleEntry{}, "id = ?", id).Error
}

func (r *weeklyScheduleRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.WeeklyScheduleEntry{}, "id IN ?", ids).Error
}

func (r *weeklyScheduleRepository) UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error {
	for id, order := range orders {
		if err := r.db.WithContext(ctx).
			Model(&model.WeeklyScheduleEntry{}).
			Where("id = ?", id).
			Update("sort_order", order).Error; err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DateScheduleRepository interface {
	WithTx(tx *gorm.DB) DateScheduleRepository
	Create(ctx context.Context, entry *model.DateScheduleEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DateScheduleEntry, error)
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date string) ([]*model.DateScheduleEntry, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.DateScheduleEntry, error)
	MaxSortOrder(ctx context.Context, userID uuid.UUID, date string) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByUserAndDate consumes every one-shot entry for the date.
	DeleteByUserAndDate(ctx context.Context, userID uuid.UUID, date string) error
	UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error
}

type dateScheduleRepository struct {
	db *gorm.DB
}

func NewDateScheduleRepository(db *gorm.DB) DateScheduleRepository {
	return &dateScheduleRepository{db: db}
}

func (r *dateScheduleRepository) WithTx(tx *gorm.DB) DateScheduleRepository {
	return &dateScheduleRepository{db: tx}
}

func (r *dateScheduleRepository) Create(ctx context.Context, entry *model.DateScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *dateScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DateScheduleEntry, error) {
	var entry model.DateScheduleEntry
	if err := r.db.WithContext(ctx).Preload("Activity").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *dateScheduleRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date string) ([]*model.DateScheduleEntry, error) {
	var entries []*model.DateScheduleEntry
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ? AND scheduled_date = ?", userID, date).
		Order("sort_order ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *dateScheduleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.DateScheduleEntry, error) {
	var entries []*model.DateScheduleEntry
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("scheduled_date ASC, sort_order ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *dateScheduleRepository) MaxSortOrder(ctx context.Context, userID uuid.UUID, date string) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&model.DateScheduleEntry{}).
		Where("user_id = ? AND scheduled_date = ?", userID, date).
		Select("MAX(sort_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *dateScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DateScheduleEntry{}, "id = ?", id).Error
}

func (r *dateScheduleRepository) DeleteByUserAndDate(ctx context.Context, userID uuid.UUID, date string) error {
	return r.db.WithContext(ctx).
		Delete(&model.DateScheduleEntry{}, "user_id = ? AND scheduled_date = ?", userID, date).Error
}

func (r *dateScheduleRepository) UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error {
	for id, order := range orders {
		if err := r.db.WithContext(ctx).
			Model(&model.DateScheduleEntry{}).
			Where("id = ?", id).
			Update("sort_order", order).Error; err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoRepository interface {
	WithTx(tx *gorm.DB) TodoRepository
	Create(ctx context.Context, entry *model.TodoEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TodoEntry, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.TodoEntry, error)
	MaxSortOrder(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) error
	UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error
}

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) WithTx(tx *gorm.DB) TodoRepository {
	return &todoRepository{db: tx}
}

func (r *todoRepository) Create(ctx context.Context, entry *model.TodoEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *todoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TodoEntry, error) {
	var entry model.TodoEntry
	if err := r.db.WithContext(ctx).Preload("Activity").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *todoRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.TodoEntry, error) {
	var entries []*model.TodoEntry
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *todoRepository) MaxSortOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&model.TodoEntry{}).
		Where("user_id = ?", userID).
		Select("MAX(sort_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TodoEntry{}, "id = ?", id).Error
}

func (r *todoRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TodoEntry{}, "user_id = ?", userID).Error
}

func (r *todoRepository) DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&model.TodoEntry{}, "user_id = ? AND activity_id = ?", userID, activityID).Error
}

func (r *todoRepository) UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error {
	for id, order := range orders {
		if err := r.db.WithContext(ctx).
			Model(&model.TodoEntry{}).
			Where("id = ?", id).
			Update("sort_order", order).Error; err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	FindByActivityAndPeriod(ctx context.Context, activityID uuid.UUID, periodStart string) (*model.ActivityHistory, error)
	Create(ctx context.Context, history *model.ActivityHistory) error
	UpdateCount(ctx context.Context, id uint, count int) error
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*model.ActivityHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) FindByActivityAndPeriod(ctx context.Context, activityID uuid.UUID, periodStart string) (*model.ActivityHistory, error) {
	var history model.ActivityHistory
	if err := r.db.WithContext(ctx).
		Where("activity_id = ? AND period_start = ?", activityID, periodStart).
		First(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *historyRepository) Create(ctx context.Context, history *model.ActivityHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *historyRepository) UpdateCount(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.ActivityHistory{}).
		Where("id = ?", id).
		Update("count", count).Error
}

func (r *historyRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*model.ActivityHistory, error) {
	var rows []*model.ActivityHistory
	if err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("period_start DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	FindByUser(ctx context.Context, userID uuid.UUID, archived *bool, period string) ([]*model.Activity, error)
	// FindHabitsByPeriod returns the non-archived, non-task activities of
	// one period for a user.
	FindHabitsByPeriod(ctx context.Context, userID uuid.UUID, period string) ([]*model.Activity, error)
	Update(ctx context.Context, activity *model.Activity) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error
	// Delete removes the activity and everything referencing it: history
	// rows, todo entries, weekly and date schedule entries, stacked
	// references from other activities, and habit achievement references.
	// Runs as one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) FindByUser(ctx context.Context, userID uuid.UUID, archived *bool, period string) ([]*model.Activity, error) {
	var activities []*model.Activity
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if archived != nil {
		query = query.Where("archived = ?", *archived)
	}
	if period != "" {
		query = query.Where("period = ?", period)
	}

	if err := query.Order("created_at ASC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) FindHabitsByPeriod(ctx context.Context, userID uuid.UUID, period string) ([]*model.Activity, error) {
	var activities []*model.Activity
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND period = ? AND archived = ? AND task = ?", userID, period, false, false).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) Update(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ActivityHistory{}, "activity_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.TodoEntry{}, "activity_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.WeeklyScheduleEntry{}, "activity_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.DateScheduleEntry{}, "activity_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Activity{}).
			Where("stacked_activity_id = ?", id).
			Update("stacked_activity_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Achievement{}).
			Where("activity_id = ?", id).
			Update("activity_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Activity{}, "id = ?", id).Error
	})
}

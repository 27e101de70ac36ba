package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement *model.Achievement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Achievement, error)
	// FindHabitCandidates returns the non-completed achievements a
	// habit-completion event can touch: habit achievements bound to the
	// activity and period achievements bound to the period.
	FindHabitCandidates(ctx context.Context, userID, activityID uuid.UUID, period string) ([]*model.Achievement, error)
	// FindTodoCandidates returns the non-completed todo achievements not
	// yet incremented on the given logical day.
	FindTodoCandidates(ctx context.Context, userID uuid.UUID, today string) ([]*model.Achievement, error)
	Update(ctx context.Context, achievement *model.Achievement) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(ctx context.Context, achievement *model.Achievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

func (r *achievementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.db.WithContext(ctx).First(&achievement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *achievementRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) FindHabitCandidates(ctx context.Context, userID, activityID uuid.UUID, period string) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, false).
		Where(
			r.db.Where("type = ? AND activity_id = ?", model.AchievementTypeHabit, activityID).
				Or("type = ? AND period = ?", model.AchievementTypePeriod, period),
		).
		Order("created_at ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) FindTodoCandidates(ctx context.Context, userID uuid.UUID, today string) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND completed = ?", userID, model.AchievementTypeTodo, false).
		Where("last_todo_increment_date IS NULL OR last_todo_increment_date <> ?", today).
		Order("created_at ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) Update(ctx context.Context, achievement *model.Achievement) error {
	return r.db.WithContext(ctx).Save(achievement).Error
}

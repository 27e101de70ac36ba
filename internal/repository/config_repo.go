package repository

import (
	"context"

	"anoa.com/habitloop/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserConfigRepository interface {
	WithTx(tx *gorm.DB) UserConfigRepository
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserConfig, error)
	Upsert(ctx context.Context, config *model.UserConfig) error
	SetLastPopulatedDate(ctx context.Context, userID uuid.UUID, date string) error
}

type userConfigRepository struct {
	db *gorm.DB
}

func NewUserConfigRepository(db *gorm.DB) UserConfigRepository {
	return &userConfigRepository{db: db}
}

func (r *userConfigRepository) WithTx(tx *gorm.DB) UserConfigRepository {
	return &userConfigRepository{db: tx}
}

func (r *userConfigRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserConfig, error) {
	var config model.UserConfig
	if err := r.db.WithContext(ctx).First(&config, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *userConfigRepository) Upsert(ctx context.Context, config *model.UserConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"day_end_offset_minutes", "clear_todo_on_new_day", "last_populated_date", "updated_at"}),
		}).
		Create(config).Error
}

func (r *userConfigRepository) SetLastPopulatedDate(ctx context.Context, userID uuid.UUID, date string) error {
	return r.db.WithContext(ctx).
		Model(&model.UserConfig{}).
		Where("user_id = ?", userID).
		Update("last_populated_date", date).Error
}

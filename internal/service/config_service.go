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

type UserConfigService interface {
	GetConfig(ctx context.Context, userID uuid.UUID) (*dto.ConfigResponse, error)
	UpdateConfig(ctx context.Context, userID uuid.UUID, req dto.UpdateConfigRequest) (*dto.ConfigResponse, error)
	// GetOrDefault returns the stored config, lazily creating a default
	// row on first access.
	GetOrDefault(ctx context.Context, userID uuid.UUID) (*model.UserConfig, error)
}

type userConfigService struct {
	repo repository.UserConfigRepository
}

func NewUserConfigService(repo repository.UserConfigRepository) UserConfigService {
	return &userConfigService{repo: repo}
}

func (s *userConfigService) GetOrDefault(ctx context.Context, userID uuid.UUID) (*model.UserConfig, error) {
	config, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, &model.UserConfig{UserID: userID}); err != nil {
		return nil, err
	}

	config, err = s.repo.FindByUserID(ctx, userID)
	if err != nil {
		// Upsert succeeded but the row is gone: storage anomaly.
		return nil, fmt.Errorf("%w: user config missing after upsert: %v", apperror.ErrInternal, err)
	}
	return config, nil
}

func (s *userConfigService) GetConfig(ctx context.Context, userID uuid.UUID) (*dto.ConfigResponse, error) {
	config, err := s.GetOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildConfigResponse(config), nil
}

func (s *userConfigService) UpdateConfig(ctx context.Context, userID uuid.UUID, req dto.UpdateConfigRequest) (*dto.ConfigResponse, error) {
	config, err := s.GetOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DayEndOffsetMinutes != nil {
		config.DayEndOffsetMinutes = *req.DayEndOffsetMinutes
	}
	if req.ClearTodoOnNewDay != nil {
		config.ClearTodoOnNewDay = *req.ClearTodoOnNewDay
	}

	if err := s.repo.Upsert(ctx, config); err != nil {
		return nil, err
	}

	return buildConfigResponse(config), nil
}

func buildConfigResponse(config *model.UserConfig) *dto.ConfigResponse {
	return &dto.ConfigResponse{
		DayEndOffsetMinutes: config.DayEndOffsetMinutes,
		ClearTodoOnNewDay:   config.ClearTodoOnNewDay,
		LastPopulatedDate:   config.LastPopulatedDate,
	}
}

package dto

import "github.com/google/uuid"

type CreateAchievementRequest struct {
	Title      string     `json:"title" binding:"required,max=255"`
	Reward     string     `json:"reward"`
	Type       string     `json:"type" binding:"required,oneof=habit period todo"`
	ActivityID *uuid.UUID `json:"activity_id"`
	Period     *string    `json:"period" binding:"omitempty,oneof=daily weekly monthly"`
	GoalCount  int        `json:"goal_count" binding:"required,min=1"`
	Repeatable bool       `json:"repeatable"`
}

type AchievementResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Reward     string     `json:"reward"`
	Type       string     `json:"type"`
	ActivityID *uuid.UUID `json:"activity_id,omitempty"`
	Period     *string    `json:"period,omitempty"`
	GoalCount  int        `json:"goal_count"`
	Count      int        `json:"count"`
	Repeatable bool       `json:"repeatable"`
	Completed  bool       `json:"completed"`
}

// CompletedAchievement is the celebration payload returned when an
// achievement reaches its goal.
type CompletedAchievement struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Reward string    `json:"reward"`
}

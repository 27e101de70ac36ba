package dto

import "github.com/google/uuid"

type CreateActivityRequest struct {
	Title             string     `json:"title" binding:"required,max=255"`
	Description       string     `json:"description"`
	Period            string     `json:"period" binding:"required,oneof=daily weekly monthly"`
	GoalCount         int        `json:"goal_count" binding:"required,min=1"`
	Task              bool       `json:"task"`
	ArchiveTask       bool       `json:"archive_task"`
	StackedActivityID *uuid.UUID `json:"stacked_activity_id"`
}

type UpdateActivityRequest struct {
	Title             *string    `json:"title" binding:"omitempty,max=255"`
	Description       *string    `json:"description"`
	Period            *string    `json:"period" binding:"omitempty,oneof=daily weekly monthly"`
	GoalCount         *int       `json:"goal_count" binding:"omitempty,min=1"`
	Archived          *bool      `json:"archived"`
	Task              *bool      `json:"task"`
	ArchiveTask       *bool      `json:"archive_task"`
	StackedActivityID *uuid.UUID `json:"stacked_activity_id"`
}

type ActivityResponse struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Period            string     `json:"period"`
	GoalCount         int        `json:"goal_count"`
	Archived          bool       `json:"archived"`
	Task              bool       `json:"task"`
	ArchiveTask       bool       `json:"archive_task"`
	StackedActivityID *uuid.UUID `json:"stacked_activity_id,omitempty"`
	// Count accumulated in the current period window.
	CurrentCount int  `json:"current_count"`
	Complete     bool `json:"complete"`
}

type ActivityFilter struct {
	Archived *bool  `form:"archived"`
	Period   string `form:"period" binding:"omitempty,oneof=daily weekly monthly"`
}

// CompletionResponse is returned from complete/undo. Suggestion carries
// the stacked follow-up activity, if any; CompletedAchievements the
// achievements that just crossed their goal.
type CompletionResponse struct {
	Activity              ActivityResponse       `json:"activity"`
	Removed               bool                   `json:"removed"`
	Suggestion            *ActivityResponse      `json:"suggestion,omitempty"`
	CompletedAchievements []CompletedAchievement `json:"completed_achievements"`
}

type HistoryResponse struct {
	PeriodStart string `json:"period_start"`
	Count       int    `json:"count"`
}

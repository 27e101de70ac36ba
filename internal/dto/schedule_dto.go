package dto

import "github.com/google/uuid"

type CreateWeeklyEntryRequest struct {
	ActivityID uuid.UUID `json:"activity_id" binding:"required"`
	DayOfWeek  *int      `json:"day_of_week" binding:"required,min=0,max=6"`
}

type CreateDateEntryRequest struct {
	ActivityID uuid.UUID `json:"activity_id" binding:"required"`
	Date       string    `json:"date" binding:"required,datetime=2006-01-02"`
}

type WeeklyEntryResponse struct {
	ID        uuid.UUID        `json:"id"`
	DayOfWeek int              `json:"day_of_week"`
	SortOrder int              `json:"sort_order"`
	Activity  ActivityResponse `json:"activity"`
}

type DateEntryResponse struct {
	ID            uuid.UUID        `json:"id"`
	ScheduledDate string           `json:"scheduled_date"`
	SortOrder     int              `json:"sort_order"`
	Activity      ActivityResponse `json:"activity"`
}

type WeeklyEntryFilter struct {
	DayOfWeek *int `form:"day_of_week" binding:"omitempty,min=0,max=6"`
}

type DateEntryFilter struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ReorderRequest carries the full id set of a list in its new order.
// Partial sets are rejected before any write.
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type ReorderWeeklyRequest struct {
	DayOfWeek *int        `json:"day_of_week" binding:"required,min=0,max=6"`
	IDs       []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type ReorderDateRequest struct {
	Date string      `json:"date" binding:"required,datetime=2006-01-02"`
	IDs  []uuid.UUID `json:"ids" binding:"required,min=1"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Period      string    `gorm:"size:10;not null" json:"period"` // 'daily', 'weekly', 'monthly'
	GoalCount   int       `gorm:"not null" json:"goal_count"`
	Archived    bool      `gorm:"default:false" json:"archived"`
	// Task activities remove themselves on completion instead of recurring.
	Task        bool `gorm:"default:false" json:"task"`
	ArchiveTask bool `gorm:"default:false" json:"archive_task"`
	// Weak reference to a follow-up activity suggested after completion.
	// Nulled out when the referenced activity is deleted.
	StackedActivityID *uuid.UUID `gorm:"type:uuid" json:"stacked_activity_id,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// ActivityHistory records the completion count accumulated within one
// period window. One row per (activity, periodStart), created lazily on
// the first completion inside that window.
type ActivityHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActivityID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_activity_period,priority:1;not null" json:"activity_id"`
	Activity    Activity  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PeriodStart string    `gorm:"size:10;uniqueIndex:idx_activity_period,priority:2;not null" json:"period_start"`
	Count       int       `gorm:"default:0" json:"count"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

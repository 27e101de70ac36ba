package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeeklyScheduleEntry schedules an activity on a recurring day of week.
// Entries persist until removed, except entries referencing a task
// activity, which are consumed by the populate run that fires them.
type WeeklyScheduleEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index:idx_weekly_user_day,priority:1;not null" json:"user_id"`
	DayOfWeek  int       `gorm:"index:idx_weekly_user_day,priority:2;not null" json:"day_of_week"` // 0=Sunday..6=Saturday
	ActivityID uuid.UUID `gorm:"type:uuid;index;not null" json:"activity_id"`
	Activity   Activity  `gorm:"constraint:OnDelete:CASCADE" json:"activity"`
	SortOrder  int       `gorm:"default:0" json:"sort_order"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *WeeklyScheduleEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}

// DateScheduleEntry schedules an activity once, on a specific date.
// One-shot: deleted as soon as population processes that date, whether
// or not the activity made it onto the todo list.
type DateScheduleEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index:idx_date_user_date,priority:1;not null" json:"user_id"`
	ScheduledDate string    `gorm:"size:10;index:idx_date_user_date,priority:2;not null" json:"scheduled_date"`
	ActivityID    uuid.UUID `gorm:"type:uuid;index;not null" json:"activity_id"`
	Activity      Activity  `gorm:"constraint:OnDelete:CASCADE" json:"activity"`
	SortOrder     int       `gorm:"default:0" json:"sort_order"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *DateScheduleEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}

// TodoEntry is one item on the user's live working list.
type TodoEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;index;not null" json:"activity_id"`
	Activity   Activity  `gorm:"constraint:OnDelete:CASCADE" json:"activity"`
	SortOrder  int       `gorm:"default:0" json:"sort_order"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *TodoEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AchievementTypeHabit  = "habit"
	AchievementTypePeriod = "period"
	AchievementTypeTodo   = "todo"
)

// Achievement is a progress counter toward a goal. habit achievements
// track one activity, period achievements track "all habits of a period
// complete", todo achievements track days with at least one completed
// todo item. Once completed and not repeatable, count and completed are
// frozen. Repeatable achievements reset count to 0 on reaching the goal
// instead of completing.
type Achievement struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Reward     string     `gorm:"type:text" json:"reward"`
	Type       string     `gorm:"size:10;not null" json:"type"` // 'habit', 'period', 'todo'
	ActivityID *uuid.UUID `gorm:"type:uuid" json:"activity_id,omitempty"`
	Period     *string    `gorm:"size:10" json:"period,omitempty"`
	GoalCount  int        `gorm:"not null" json:"goal_count"`
	Count      int        `gorm:"default:0" json:"count"`
	Repeatable bool       `gorm:"default:false" json:"repeatable"`
	Completed  bool       `gorm:"default:false" json:"completed"`
	// Guards todo achievements against double-increment within one
	// logical day.
	LastTodoIncrementDate *string   `gorm:"size:10" json:"last_todo_increment_date,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

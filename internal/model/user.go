package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string      `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	Config       *UserConfig `gorm:"constraint:OnDelete:CASCADE" json:"config,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserConfig holds the per-user scheduling preferences. lastPopulatedDate
// is the same-day guard key for todo population: once stamped for a logical
// day, population is a no-op until the next one.
type UserConfig struct {
	UserID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DayEndOffsetMinutes int       `gorm:"default:0" json:"day_end_offset_minutes"`
	ClearTodoOnNewDay   bool      `gorm:"default:false" json:"clear_todo_on_new_day"`
	LastPopulatedDate   string    `gorm:"size:10" json:"last_populated_date"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

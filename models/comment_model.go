package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LessonID uuid.UUID `gorm:"not null;index" json:"lesson_id"`
	UserID   uuid.UUID `gorm:"not null" json:"user_id"`
	Body     string    `gorm:"type:text;not null" json:"body"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type LessonCompletion struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID uuid.UUID `gorm:"not null;uniqueIndex:idx_user_lesson" json:"lesson_id"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Lesson Lesson `gorm:"foreignkey:LessonID" json:"-"`

	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

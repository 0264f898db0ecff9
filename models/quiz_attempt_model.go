package models

import (
	"time"

	"github.com/google/uuid"
)

type QuizAttempt struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID uuid.UUID `gorm:"not null;index" json:"quiz_id"`
	UserID uuid.UUID `gorm:"not null;index" json:"user_id"`

	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	Score           int        `gorm:"not null;default:0" json:"score"`
	IsPassed        bool       `gorm:"not null;default:false" json:"is_passed"`
	DurationSeconds int        `gorm:"not null;default:0" json:"duration_seconds"`

	Quiz Quiz `gorm:"foreignkey:QuizID" json:"-"`
	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

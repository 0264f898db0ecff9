package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID        uuid.UUID `gorm:"not null;index" json:"course_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	PassingScore    int       `gorm:"not null;default:70" json:"passing_score"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`

	Course    Course     `gorm:"foreignkey:CourseID" json:"-"`
	Questions []Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

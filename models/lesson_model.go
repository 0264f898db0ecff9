package models

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID uuid.UUID `gorm:"not null;index" json:"course_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text" json:"content"`
	Position int       `gorm:"not null;default:0" json:"position"`

	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID uuid.UUID `gorm:"not null;index" json:"course_id"`
	AuthorID uuid.UUID `gorm:"not null" json:"author_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Body     string    `gorm:"type:text;not null" json:"body"`

	Author User `gorm:"foreignkey:AuthorID" json:"author,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

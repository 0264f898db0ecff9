package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	InstructorID uuid.UUID `gorm:"not null" json:"instructor_id"`

	IsPublished         bool `gorm:"default:false" json:"is_published"`
	CertificatesEnabled bool `gorm:"default:true" json:"certificates_enabled"`

	Instructor User     `gorm:"foreignkey:InstructorID" json:"instructor,omitempty"`
	Lessons    []Lesson `gorm:"foreignkey:CourseID" json:"lessons,omitempty"`
	Quizzes    []Quiz   `gorm:"foreignkey:CourseID" json:"quizzes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"not null;uniqueIndex:idx_user_course_enrollment" json:"user_id"`
	CourseID uuid.UUID `gorm:"not null;uniqueIndex:idx_user_course_enrollment" json:"course_id"`
	Status   string    `gorm:"size:20;not null;default:'active'" json:"status"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Course Course `gorm:"foreignkey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID `gorm:"not null;uniqueIndex:idx_user_course_certificate" json:"user_id"`
	CourseID         uuid.UUID `gorm:"not null;uniqueIndex:idx_user_course_certificate" json:"course_id"`
	VerificationCode string    `gorm:"size:16;not null;unique" json:"verification_code"`
	IssuedAt         time.Time `gorm:"not null" json:"issued_at"`
	CertificateURL   *string   `gorm:"type:text" json:"certificate_url"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	Course Course `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

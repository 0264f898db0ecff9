package models

import (
	"github.com/google/uuid"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID       uuid.UUID `gorm:"not null;index" json:"quiz_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType string    `gorm:"size:20;not null;default:'single'" json:"question_type"`
	Position     int       `gorm:"not null;default:0" json:"position"`

	Options []AnswerOption `gorm:"foreignkey:QuestionID" json:"options,omitempty"`
}

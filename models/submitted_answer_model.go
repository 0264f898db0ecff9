package models

import "github.com/google/uuid"

type SubmittedAnswer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizAttemptID  uuid.UUID  `gorm:"not null;index" json:"quiz_attempt_id"`
	QuestionID     uuid.UUID  `gorm:"not null;index" json:"question_id"`
	AnswerOptionID *uuid.UUID `json:"answer_option_id"`
	FreeText       *string    `gorm:"type:text" json:"free_text"`
	IsCorrect      *bool      `json:"is_correct"`

	QuizAttempt QuizAttempt `gorm:"foreignkey:QuizAttemptID" json:"-"`
	Question    Question    `gorm:"foreignkey:QuestionID" json:"-"`
}

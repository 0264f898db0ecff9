package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/learnsphere/backend/models"
	"gorm.io/gorm"
)

// PersistGradeResult writes a grade onto the attempt row and stamps the
// per-answer verdicts, all in one transaction scoped to the attempt.
// Submitting the same attempt twice concurrently resolves to last writer
// wins with no interleaved partial state.
func PersistGradeResult(db *gorm.DB, attempt *models.QuizAttempt, result GradeResult, answers []models.SubmittedAnswer, submittedAt time.Time) error {
	verdicts := make(map[uuid.UUID]QuestionReport, len(result.PerQuestion))
	for _, report := range result.PerQuestion {
		verdicts[report.QuestionID] = report
	}

	return db.Transaction(func(tx *gorm.DB) error {
		attempt.Score = result.Score
		attempt.IsPassed = result.IsPassed
		attempt.SubmittedAt = &submittedAt
		attempt.DurationSeconds = int(submittedAt.Sub(attempt.StartedAt).Seconds())
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}

		for i := range answers {
			report, ok := verdicts[answers[i].QuestionID]
			if !ok || !report.Graded {
				continue
			}
			if err := tx.Model(&answers[i]).Update("is_correct", report.Correct).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

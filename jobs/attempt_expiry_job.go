package jobs

import (
	"log"
	"time"

	"github.com/learnsphere/backend/cache"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/models"
	"github.com/learnsphere/backend/services"
	"github.com/learnsphere/backend/websocket"
	"gorm.io/gorm"
)

// Attempts get a short grace period past the quiz time limit before the
// job force-submits them with whatever answers were stored.
const expiryGrace = 2 * time.Minute

func AutoSubmitExpiredAttempts() {
	log.Println("Running job: AutoSubmitExpiredAttempts...")

	now := time.Now()
	cutoff := now.Add(-expiryGrace)

	var expired []models.QuizAttempt
	err := database.DB.
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.submitted_at IS NULL AND quiz_attempts.started_at + (quizzes.duration_minutes * interval '1 minute') < ?", cutoff).
		Find(&expired).Error
	if err != nil {
		log.Printf("Error finding expired attempts: %v", err)
		return
	}

	if len(expired) == 0 {
		log.Println("No expired attempts found.")
		return
	}

	submitted := 0
	for i := range expired {
		if err := autoSubmitAttempt(&expired[i], now); err != nil {
			log.Printf("Error auto-submitting attempt %s: %v", expired[i].ID, err)
			continue
		}
		submitted++
	}

	log.Printf("Auto-submitted %d expired attempt(s).", submitted)
}

func autoSubmitAttempt(attempt *models.QuizAttempt, now time.Time) error {
	var quiz models.Quiz
	err := database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.position asc") }).
		Preload("Questions.Options").
		First(&quiz, "id = ?", attempt.QuizID).Error
	if err != nil {
		return err
	}

	var answers []models.SubmittedAnswer
	if err := database.DB.Where("quiz_attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		return err
	}

	sheet := services.BuildQuizSheet(quiz)
	if err := services.ValidateAnswerSheet(sheet, answers); err != nil {
		return err
	}

	result := services.GradeAttempt(sheet, answers)
	if err := services.PersistGradeResult(database.DB, attempt, result, answers, now); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", attempt.UserID).Error; err == nil {
		cache.Leaderboard.RecordScore(quiz.ID, user.FullName, result.Score)
	}
	websocket.NotifyUser(attempt.UserID, websocket.EventAttemptGraded, map[string]interface{}{
		"attempt_id": attempt.ID,
		"quiz_title": quiz.Title,
		"score":      result.Score,
		"is_passed":  result.IsPassed,
		"auto":       true,
	})

	return nil
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/learnsphere/backend/cache"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/middleware"
	"github.com/learnsphere/backend/models"
	"github.com/learnsphere/backend/notifications"
	"github.com/learnsphere/backend/services"
	"github.com/learnsphere/backend/websocket"
	"gorm.io/gorm"
)

type QuizRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	PassingScore    int    `json:"passing_score" validate:"gte=0,lte=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"gt=0"`
}

func CreateQuiz(c *fiber.Ctx) error {
	course, err := courseOwnedBy(c, c.Params("courseId"))
	if course == nil {
		return err
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quiz := models.Quiz{
		CourseID:        course.ID,
		Title:           req.Title,
		Description:     req.Description,
		PassingScore:    req.PassingScore,
		DurationMinutes: req.DurationMinutes,
	}
	if err := database.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	course, err := courseOwnedBy(c, quiz.CourseID.String())
	if course == nil {
		return err
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.PassingScore = req.PassingScore
	quiz.DurationMinutes = req.DurationMinutes
	database.DB.Save(&quiz)

	return c.JSON(quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	course, err := courseOwnedBy(c, quiz.CourseID.String())
	if course == nil {
		return err
	}

	if err := database.DB.Delete(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quiz"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	err := database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.position asc") }).
		Preload("Questions.Options").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	return c.JSON(quiz)
}

type QuestionRequest struct {
	QuestionText string `json:"question_text" validate:"required"`
	QuestionType string `json:"question_type" validate:"required"`
	Position     int    `json:"position"`
	Options      []struct {
		OptionText string `json:"option_text" validate:"required"`
		IsCorrect  bool   `json:"is_correct"`
	} `json:"options" validate:"dive"`
}

func CreateQuestion(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	course, err := courseOwnedBy(c, quiz.CourseID.String())
	if course == nil {
		return err
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question := models.Question{
		QuizID:       quiz.ID,
		QuestionText: req.QuestionText,
		QuestionType: string(services.NormalizeQuestionType(req.QuestionType)),
		Position:     req.Position,
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, models.AnswerOption{
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
		})
	}

	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")

	var question models.Question
	if err := database.DB.Preload("Options").First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", question.QuizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	course, err := courseOwnedBy(c, quiz.CourseID.String())
	if course == nil {
		return err
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		question.QuestionText = req.QuestionText
		question.QuestionType = string(services.NormalizeQuestionType(req.QuestionType))
		question.Position = req.Position
		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&models.AnswerOption{}).Error; err != nil {
			return err
		}
		for _, opt := range req.Options {
			option := models.AnswerOption{
				QuestionID: question.ID,
				OptionText: opt.OptionText,
				IsCorrect:  opt.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}

	database.DB.Preload("Options").First(&question, "id = ?", question.ID)
	return c.JSON(question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")

	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", question.QuizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	course, err := courseOwnedBy(c, quiz.CourseID.String())
	if course == nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.AnswerOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type questionForStudent struct {
	ID           uuid.UUID          `json:"id"`
	QuestionText string             `json:"question_text"`
	QuestionType string             `json:"question_type"`
	Position     int                `json:"position"`
	Options      []optionForStudent `json:"options"`
}

type optionForStudent struct {
	ID         uuid.UUID `json:"id"`
	OptionText string    `json:"option_text"`
}

func StartQuizAttempt(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	quizID := c.Params("quizId")

	var quiz models.Quiz
	err = database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.position asc") }).
		Preload("Questions.Options").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var enrollment models.Enrollment
	if err := database.DB.Where("user_id = ? AND course_id = ? AND status = ?", userID, quiz.CourseID, "active").First(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not enrolled in this course"})
	}

	attempt := models.QuizAttempt{
		QuizID:    quiz.ID,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if err := database.DB.Create(&attempt).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start quiz attempt"})
	}

	// Students never see which options are correct.
	questions := make([]questionForStudent, len(quiz.Questions))
	for i, q := range quiz.Questions {
		options := make([]optionForStudent, len(q.Options))
		for j, opt := range q.Options {
			options[j] = optionForStudent{ID: opt.ID, OptionText: opt.OptionText}
		}
		questions[i] = questionForStudent{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Position:     q.Position,
			Options:      options,
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attempt_id":       attempt.ID,
		"quiz_title":       quiz.Title,
		"duration_minutes": quiz.DurationMinutes,
		"questions":        questions,
	})
}

type SaveAnswerRequest struct {
	QuestionID string   `json:"question_id" validate:"required"`
	OptionIDs  []string `json:"option_ids"`
	FreeText   *string  `json:"free_text"`
}

// SaveAnswer replaces the stored answer rows for one question of an open
// attempt. Re-answering supersedes, it never appends.
func SaveAnswer(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	attemptID := c.Params("attemptId")

	var attempt models.QuizAttempt
	if err := database.DB.First(&attempt, "id = ?", attemptID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz attempt not found"})
	}
	if attempt.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This attempt belongs to another user"})
	}
	if attempt.SubmittedAt != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Attempt has already been submitted"})
	}

	var req SaveAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	var question models.Question
	if err := database.DB.Preload("Options").First(&question, "id = ? AND quiz_id = ?", questionID, attempt.QuizID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question does not belong to this quiz"})
	}

	validOptions := make(map[uuid.UUID]bool, len(question.Options))
	for _, opt := range question.Options {
		validOptions[opt.ID] = true
	}

	answers := make([]models.SubmittedAnswer, 0, len(req.OptionIDs)+1)
	for _, raw := range req.OptionIDs {
		optionID, err := uuid.Parse(raw)
		if err != nil || !validOptions[optionID] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Option does not belong to this question"})
		}
		optID := optionID
		answers = append(answers, models.SubmittedAnswer{
			QuizAttemptID:  attempt.ID,
			QuestionID:     question.ID,
			AnswerOptionID: &optID,
		})
	}
	if req.FreeText != nil {
		answers = append(answers, models.SubmittedAnswer{
			QuizAttemptID: attempt.ID,
			QuestionID:    question.ID,
			FreeText:      req.FreeText,
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_attempt_id = ? AND question_id = ?", attempt.ID, question.ID).Delete(&models.SubmittedAnswer{}).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		return tx.Create(&answers).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save answer"})
	}

	return c.JSON(fiber.Map{"message": "Answer saved", "question_id": question.ID})
}

// SubmitQuizAttempt grades one attempt from all of its stored answers and
// writes the result onto the attempt exactly once. The grade-and-save
// step is a single transaction on the attempt row.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	attemptID := c.Params("attemptId")

	var attempt models.QuizAttempt
	if err := database.DB.First(&attempt, "id = ?", attemptID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz attempt not found"})
	}
	if attempt.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This attempt belongs to another user"})
	}
	if attempt.SubmittedAt != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Attempt has already been submitted"})
	}

	var quiz models.Quiz
	err = database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.position asc") }).
		Preload("Questions.Options").
		First(&quiz, "id = ?", attempt.QuizID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var answers []models.SubmittedAnswer
	if err := database.DB.Where("quiz_attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load answers"})
	}

	sheet := services.BuildQuizSheet(quiz)
	if err := services.ValidateAnswerSheet(sheet, answers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := services.GradeAttempt(sheet, answers)

	if err := services.PersistGradeResult(database.DB, &attempt, result, answers, time.Now()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save results"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
		cache.Leaderboard.RecordScore(quiz.ID, user.FullName, result.Score)
		go notifications.SendQuizResultEmail(user.Email, user.FullName, quiz.Title, result.Score, result.IsPassed)
	}
	websocket.NotifyUser(userID, websocket.EventAttemptGraded, fiber.Map{
		"attempt_id": attempt.ID,
		"quiz_title": quiz.Title,
		"score":      result.Score,
		"is_passed":  result.IsPassed,
	})

	return c.JSON(fiber.Map{
		"attempt_id":   attempt.ID,
		"score":        result.Score,
		"is_passed":    result.IsPassed,
		"per_question": result.PerQuestion,
	})
}

func MyQuizAttempts(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	quizID := c.Params("quizId")

	var attempts []models.QuizAttempt
	if err := database.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).Order("created_at desc").Find(&attempts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attempts"})
	}

	return c.JSON(attempts)
}

func QuizLeaderboard(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	if entries, ok := cache.Leaderboard.TopScores(quizID, 20); ok {
		return c.JSON(fiber.Map{"leaderboard": entries, "source": "cache"})
	}

	var entries []cache.LeaderboardEntry
	err = database.DB.Model(&models.QuizAttempt{}).
		Select("users.full_name, MAX(quiz_attempts.score) AS score").
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Where("quiz_attempts.quiz_id = ? AND quiz_attempts.submitted_at IS NOT NULL", quizID).
		Group("users.full_name").
		Order("score desc").
		Limit(20).
		Scan(&entries).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	cache.Leaderboard.Fill(quizID, entries)

	return c.JSON(fiber.Map{"leaderboard": entries, "source": "database"})
}

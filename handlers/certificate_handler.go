package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/middleware"
	"github.com/learnsphere/backend/models"
	"github.com/learnsphere/backend/services"
	"gorm.io/gorm"
)

func buildEligibilityInput(tx *gorm.DB, userID uuid.UUID, course models.Course) (services.EligibilityInput, error) {
	input := services.EligibilityInput{
		CertificatesEnabled: course.CertificatesEnabled,
	}

	var enrollment models.Enrollment
	err := tx.Where("user_id = ? AND course_id = ? AND status = ?", userID, course.ID, "active").First(&enrollment).Error
	if err == nil {
		input.EnrollmentActive = true
	} else if err != gorm.ErrRecordNotFound {
		return input, err
	}

	var totalLessons int64
	if err := tx.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&totalLessons).Error; err != nil {
		return input, err
	}
	input.TotalLessons = int(totalLessons)

	var completedLessons int64
	err = tx.Model(&models.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.user_id = ? AND lessons.course_id = ?", userID, course.ID).
		Distinct("lesson_completions.lesson_id").
		Count(&completedLessons).Error
	if err != nil {
		return input, err
	}
	input.CompletedLessons = int(completedLessons)

	var quizzes []models.Quiz
	if err := tx.Where("course_id = ?", course.ID).Find(&quizzes).Error; err != nil {
		return input, err
	}

	// One grouped query for best scores instead of one query per quiz.
	type bestScoreRow struct {
		QuizID uuid.UUID
		Best   int
	}
	var rows []bestScoreRow
	err = tx.Model(&models.QuizAttempt{}).
		Select("quiz_id, MAX(score) AS best").
		Where("user_id = ? AND submitted_at IS NOT NULL AND quiz_id IN (SELECT id FROM quizzes WHERE course_id = ?)", userID, course.ID).
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return input, err
	}
	bestScores := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		bestScores[row.QuizID] = row.Best
	}

	for _, quiz := range quizzes {
		standing := services.QuizStanding{
			QuizID:       quiz.ID,
			Title:        quiz.Title,
			PassingScore: quiz.PassingScore,
		}
		if best, ok := bestScores[quiz.ID]; ok {
			score := best
			standing.BestScore = &score
		}
		input.Quizzes = append(input.Quizzes, standing)
	}

	return input, nil
}

// ClaimCertificate evaluates certificate eligibility for the caller and,
// when every condition holds, issues or refreshes the certificate row.
// An ineligible outcome is a normal 200 response with the reasons.
func ClaimCertificate(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	if !course.CertificatesEnabled {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Certificates are not available for this course"})
	}

	input, err := buildEligibilityInput(database.DB, userID, course)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to evaluate eligibility"})
	}

	result := services.EvaluateEligibility(input)
	if !result.Eligible {
		return c.JSON(fiber.Map{
			"eligible":  false,
			"reasons":   result.Reasons,
			"breakdown": result.Breakdown,
		})
	}

	var cert models.Certificate
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		cert, txErr = services.UpsertCertificate(tx, userID, course.ID)
		return txErr
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue certificate"})
	}

	go services.GenerateCertificateArtifact(cert.ID)

	return c.JSON(fiber.Map{
		"eligible":    true,
		"breakdown":   result.Breakdown,
		"certificate": cert,
	})
}

// CertificateEligibility reports the breakdown without issuing anything,
// so the UI can show remaining lessons and unpassed quizzes up front.
func CertificateEligibility(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	input, err := buildEligibilityInput(database.DB, userID, course)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to evaluate eligibility"})
	}

	result := services.EvaluateEligibility(input)
	return c.JSON(result)
}

func MyCertificates(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var certificates []models.Certificate
	if err := database.DB.Where("user_id = ?", userID).Preload("Course").Order("issued_at desc").Find(&certificates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch certificates"})
	}

	type certificateWithCourse struct {
		models.Certificate
		CourseTitle string `json:"course_title"`
	}

	result := make([]certificateWithCourse, len(certificates))
	for i, cert := range certificates {
		result[i] = certificateWithCourse{Certificate: cert, CourseTitle: cert.Course.Title}
	}

	return c.JSON(result)
}

// VerifyCertificate is the public lookup by verification code. Codes are
// matched exactly and case-sensitively.
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Params("code")

	var cert models.Certificate
	err := database.DB.Preload("User").Preload("Course").
		Where("verification_code = ?", code).
		First(&cert).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}

	return c.JSON(fiber.Map{
		"student_name": cert.User.FullName,
		"course_title": cert.Course.Title,
		"issue_date":   cert.IssuedAt.Format("2006-01-02"),
		"platform":     "LearnSphere",
	})
}

package services

import (
	"fmt"

	"github.com/google/uuid"
)

type QuizStanding struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	Title        string    `json:"title"`
	PassingScore int       `json:"passing_score"`
	BestScore    *int      `json:"best_score"`
	Passed       bool      `json:"passed"`
}

type EligibilityInput struct {
	EnrollmentActive    bool
	CertificatesEnabled bool
	TotalLessons        int
	CompletedLessons    int
	Quizzes             []QuizStanding
}

type EligibilityBreakdown struct {
	TotalLessons     int            `json:"total_lessons"`
	CompletedLessons int            `json:"completed_lessons"`
	Quizzes          []QuizStanding `json:"quizzes"`
}

type EligibilityResult struct {
	Eligible  bool                 `json:"eligible"`
	Reasons   []string             `json:"reasons"`
	Breakdown EligibilityBreakdown `json:"breakdown"`
}

// EvaluateEligibility decides whether a student may claim a course
// certificate. A negative outcome is a successful computation with the
// unmet conditions listed in Reasons, not an error. A quiz with no
// attempts is reported as missing, which is distinct from a failed quiz.
func EvaluateEligibility(input EligibilityInput) EligibilityResult {
	result := EligibilityResult{
		Breakdown: EligibilityBreakdown{
			TotalLessons:     input.TotalLessons,
			CompletedLessons: input.CompletedLessons,
			Quizzes:          make([]QuizStanding, 0, len(input.Quizzes)),
		},
	}

	if !input.EnrollmentActive {
		result.Reasons = append(result.Reasons, "no active enrollment in this course")
	}

	if input.TotalLessons > 0 && input.CompletedLessons < input.TotalLessons {
		remaining := input.TotalLessons - input.CompletedLessons
		noun := "lessons"
		if remaining == 1 {
			noun = "lesson"
		}
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d %s remaining out of %d", remaining, noun, input.TotalLessons))
	}

	for _, standing := range input.Quizzes {
		switch {
		case standing.BestScore == nil:
			result.Reasons = append(result.Reasons, fmt.Sprintf("quiz %q has no attempt yet", standing.Title))
		case *standing.BestScore < standing.PassingScore:
			result.Reasons = append(result.Reasons, fmt.Sprintf("quiz %q best score %d is below the passing score %d", standing.Title, *standing.BestScore, standing.PassingScore))
		default:
			standing.Passed = true
		}
		result.Breakdown.Quizzes = append(result.Breakdown.Quizzes, standing)
	}

	if !input.CertificatesEnabled {
		result.Reasons = append(result.Reasons, "certificates are not enabled for this course")
	}

	result.Eligible = len(result.Reasons) == 0
	return result
}

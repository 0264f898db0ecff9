package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func eligibleInput() EligibilityInput {
	return EligibilityInput{
		EnrollmentActive:    true,
		CertificatesEnabled: true,
		TotalLessons:        5,
		CompletedLessons:    5,
		Quizzes: []QuizStanding{
			{QuizID: uuid.New(), Title: "Final Quiz", PassingScore: 70, BestScore: intPtr(85)},
		},
	}
}

func TestEvaluateEligibilityAllConditionsMet(t *testing.T) {
	result := EvaluateEligibility(eligibleInput())

	assert.True(t, result.Eligible)
	assert.Empty(t, result.Reasons)
	require.Len(t, result.Breakdown.Quizzes, 1)
	assert.True(t, result.Breakdown.Quizzes[0].Passed)
}

func TestEvaluateEligibilityIncompleteLessons(t *testing.T) {
	input := eligibleInput()
	input.CompletedLessons = 4

	result := EvaluateEligibility(input)

	assert.False(t, result.Eligible)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "1 lesson remaining")
	assert.Equal(t, 5, result.Breakdown.TotalLessons)
	assert.Equal(t, 4, result.Breakdown.CompletedLessons)
}

func TestEvaluateEligibilityZeroLessonCourse(t *testing.T) {
	input := eligibleInput()
	input.TotalLessons = 0
	input.CompletedLessons = 0

	result := EvaluateEligibility(input)

	assert.True(t, result.Eligible)
}

func TestEvaluateEligibilityZeroQuizCourse(t *testing.T) {
	input := eligibleInput()
	input.Quizzes = nil

	result := EvaluateEligibility(input)

	assert.True(t, result.Eligible)
	assert.Empty(t, result.Breakdown.Quizzes)
}

func TestEvaluateEligibilityQuizBoundaryScores(t *testing.T) {
	input := eligibleInput()
	input.Quizzes[0].PassingScore = 70

	input.Quizzes[0].BestScore = intPtr(70)
	result := EvaluateEligibility(input)
	assert.True(t, result.Eligible, "best score equal to passing score satisfies the quiz")

	input.Quizzes[0].BestScore = intPtr(69)
	result = EvaluateEligibility(input)
	assert.False(t, result.Eligible)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "below the passing score")
	assert.False(t, result.Breakdown.Quizzes[0].Passed)
}

func TestEvaluateEligibilityMissingAttemptDistinctFromFailed(t *testing.T) {
	input := eligibleInput()
	input.Quizzes[0].BestScore = nil

	result := EvaluateEligibility(input)

	assert.False(t, result.Eligible)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "no attempt")
	assert.NotContains(t, result.Reasons[0], "below")
}

func TestEvaluateEligibilityNoEnrollment(t *testing.T) {
	input := eligibleInput()
	input.EnrollmentActive = false

	result := EvaluateEligibility(input)

	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reasons[0], "enrollment")
}

func TestEvaluateEligibilityCertificatesDisabled(t *testing.T) {
	input := eligibleInput()
	input.CertificatesEnabled = false

	result := EvaluateEligibility(input)

	assert.False(t, result.Eligible)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "not enabled")
}

func TestEvaluateEligibilityCollectsEveryUnmetCondition(t *testing.T) {
	result := EvaluateEligibility(EligibilityInput{
		EnrollmentActive:    false,
		CertificatesEnabled: false,
		TotalLessons:        3,
		CompletedLessons:    1,
		Quizzes: []QuizStanding{
			{QuizID: uuid.New(), Title: "Quiz A", PassingScore: 70, BestScore: intPtr(40)},
			{QuizID: uuid.New(), Title: "Quiz B", PassingScore: 70},
		},
	})

	assert.False(t, result.Eligible)
	assert.Len(t, result.Reasons, 5)
}

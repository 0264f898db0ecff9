package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/learnsphere/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionAnswer(questionID, optionID uuid.UUID) models.SubmittedAnswer {
	return models.SubmittedAnswer{QuestionID: questionID, AnswerOptionID: &optionID}
}

func textAnswer(questionID uuid.UUID, text string) models.SubmittedAnswer {
	return models.SubmittedAnswer{QuestionID: questionID, FreeText: &text}
}

func singleQuestion(correct uuid.UUID, others ...uuid.UUID) QuestionSheet {
	return QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeSingle,
		OptionIDs:        append([]uuid.UUID{correct}, others...),
		CorrectOptionIDs: []uuid.UUID{correct},
	}
}

func TestNormalizeQuestionType(t *testing.T) {
	cases := map[string]QuestionType{
		"single":     QuestionTypeSingle,
		"Single":     QuestionTypeSingle,
		"MCQ":        QuestionTypeSingle,
		"TF":         QuestionTypeSingle,
		"true_false": QuestionTypeSingle,
		"multiple":   QuestionTypeMultiple,
		"MSQ":        QuestionTypeMultiple,
		"text":       QuestionTypeText,
		"essay":      QuestionTypeText,
		"":           QuestionTypeText,
		"garbage":    QuestionTypeText,
	}
	for label, want := range cases {
		assert.Equal(t, want, NormalizeQuestionType(label), "label %q", label)
	}
}

func TestGradeSingleQuestionCorrect(t *testing.T) {
	correct := uuid.New()
	wrong := uuid.New()
	q := singleQuestion(correct, wrong)
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{optionAnswer(q.ID, correct)})

	require.Len(t, result.PerQuestion, 1)
	assert.True(t, result.PerQuestion[0].Graded)
	assert.True(t, result.PerQuestion[0].Correct)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.IsPassed)
}

func TestGradeSingleQuestionWrongOption(t *testing.T) {
	correct := uuid.New()
	wrong := uuid.New()
	q := singleQuestion(correct, wrong)
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{optionAnswer(q.ID, wrong)})

	assert.True(t, result.PerQuestion[0].Graded)
	assert.False(t, result.PerQuestion[0].Correct)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.IsPassed)
}

func TestGradeSingleQuestionNoAnswer(t *testing.T) {
	q := singleQuestion(uuid.New(), uuid.New())
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, nil)

	report := result.PerQuestion[0]
	assert.True(t, report.Graded)
	assert.False(t, report.Correct)
	require.NotNil(t, report.Note)
	assert.Equal(t, NoteNoAnswerSelected, *report.Note)
	assert.Equal(t, 1, result.GradedCount)
}

func TestGradeSingleQuestionSelectingTwoOptionsIsIncorrect(t *testing.T) {
	correct := uuid.New()
	wrong := uuid.New()
	q := singleQuestion(correct, wrong)
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{
		optionAnswer(q.ID, correct),
		optionAnswer(q.ID, wrong),
	})

	assert.True(t, result.PerQuestion[0].Graded)
	assert.False(t, result.PerQuestion[0].Correct)
}

func TestGradeSingleQuestionWithNoCorrectOptionIsUngraded(t *testing.T) {
	optA := uuid.New()
	optB := uuid.New()
	q := QuestionSheet{
		ID:        uuid.New(),
		Type:      QuestionTypeSingle,
		OptionIDs: []uuid.UUID{optA, optB},
	}
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{optionAnswer(q.ID, optA)})

	report := result.PerQuestion[0]
	assert.False(t, report.Graded)
	require.NotNil(t, report.Note)
	assert.Equal(t, NoteNoSingleCorrectOption, *report.Note)
	assert.Equal(t, 0, result.GradedCount)
	assert.Equal(t, 0, result.CorrectCount)
}

func TestGradeSingleQuestionWithTwoCorrectOptionsIsUngraded(t *testing.T) {
	optA := uuid.New()
	optB := uuid.New()
	q := QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeSingle,
		OptionIDs:        []uuid.UUID{optA, optB},
		CorrectOptionIDs: []uuid.UUID{optA, optB},
	}
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{optionAnswer(q.ID, optA)})

	assert.False(t, result.PerQuestion[0].Graded)
	assert.Equal(t, 0, result.GradedCount)
}

func TestGradeMultipleQuestionExactSetMatch(t *testing.T) {
	optA := uuid.New()
	optB := uuid.New()
	optC := uuid.New()
	q := QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeMultiple,
		OptionIDs:        []uuid.UUID{optA, optB, optC},
		CorrectOptionIDs: []uuid.UUID{optA, optB},
	}
	sheet := QuizSheet{PassingScore: 100, Questions: []QuestionSheet{q}}

	// Order must not matter.
	result := GradeAttempt(sheet, []models.SubmittedAnswer{
		optionAnswer(q.ID, optB),
		optionAnswer(q.ID, optA),
	})

	assert.True(t, result.PerQuestion[0].Correct)
	assert.Equal(t, 100, result.Score)
}

func TestGradeMultipleQuestionSubsetSupersetDisjoint(t *testing.T) {
	optA := uuid.New()
	optB := uuid.New()
	optC := uuid.New()
	q := QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeMultiple,
		OptionIDs:        []uuid.UUID{optA, optB, optC},
		CorrectOptionIDs: []uuid.UUID{optA, optB},
	}
	sheet := QuizSheet{PassingScore: 100, Questions: []QuestionSheet{q}}

	cases := map[string][]models.SubmittedAnswer{
		"subset":   {optionAnswer(q.ID, optA)},
		"superset": {optionAnswer(q.ID, optA), optionAnswer(q.ID, optB), optionAnswer(q.ID, optC)},
		"disjoint": {optionAnswer(q.ID, optC)},
	}
	for name, answers := range cases {
		result := GradeAttempt(sheet, answers)
		assert.False(t, result.PerQuestion[0].Correct, name)
		assert.True(t, result.PerQuestion[0].Graded, name)
	}
}

func TestGradeMultipleQuestionDuplicateSelectionsDeduplicated(t *testing.T) {
	optA := uuid.New()
	q := QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeMultiple,
		OptionIDs:        []uuid.UUID{optA},
		CorrectOptionIDs: []uuid.UUID{optA},
	}
	sheet := QuizSheet{PassingScore: 100, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{
		optionAnswer(q.ID, optA),
		optionAnswer(q.ID, optA),
	})

	assert.True(t, result.PerQuestion[0].Correct)
	assert.Len(t, result.PerQuestion[0].SubmittedOptionIDs, 1)
}

func TestGradeMultipleQuestionEmptySubmissionIncorrect(t *testing.T) {
	optA := uuid.New()
	q := QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeMultiple,
		OptionIDs:        []uuid.UUID{optA},
		CorrectOptionIDs: []uuid.UUID{optA},
	}
	sheet := QuizSheet{PassingScore: 100, Questions: []QuestionSheet{q}}

	result := GradeAttempt(sheet, nil)

	report := result.PerQuestion[0]
	assert.True(t, report.Graded)
	assert.False(t, report.Correct)
	require.NotNil(t, report.Note)
	assert.Equal(t, NoteNoAnswerSelected, *report.Note)
}

func TestGradeTextQuestionNeverAutoGraded(t *testing.T) {
	q := QuestionSheet{ID: uuid.New(), Type: QuestionTypeText}
	correct := uuid.New()
	graded := singleQuestion(correct, uuid.New())
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{q, graded}}

	result := GradeAttempt(sheet, []models.SubmittedAnswer{
		textAnswer(q.ID, "free form response"),
		optionAnswer(graded.ID, correct),
	})

	require.Len(t, result.PerQuestion, 2)
	textReport := result.PerQuestion[0]
	assert.False(t, textReport.Graded)
	require.NotNil(t, textReport.Note)
	assert.Equal(t, NoteRequiresManualGrading, *textReport.Note)

	// Text questions count toward neither numerator nor denominator.
	assert.Equal(t, 1, result.GradedCount)
	assert.Equal(t, 100, result.Score)
}

func TestGradeNoGradableQuestionsScoresZero(t *testing.T) {
	sheet := QuizSheet{
		PassingScore: 0,
		Questions: []QuestionSheet{
			{ID: uuid.New(), Type: QuestionTypeText},
			{ID: uuid.New(), Type: QuestionTypeText},
		},
	}

	result := GradeAttempt(sheet, nil)

	assert.Equal(t, 0, result.GradedCount)
	assert.Equal(t, 0, result.Score)
	// passing score 0 means even an all-text quiz passes
	assert.True(t, result.IsPassed)
}

func TestGradeScoreRounding(t *testing.T) {
	cases := []struct {
		correct int
		total   int
		want    int
	}{
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
	}

	for _, tc := range cases {
		questions := make([]QuestionSheet, 0, tc.total)
		answers := make([]models.SubmittedAnswer, 0, tc.total)
		for i := 0; i < tc.total; i++ {
			correctOpt := uuid.New()
			wrongOpt := uuid.New()
			q := singleQuestion(correctOpt, wrongOpt)
			questions = append(questions, q)
			if i < tc.correct {
				answers = append(answers, optionAnswer(q.ID, correctOpt))
			} else {
				answers = append(answers, optionAnswer(q.ID, wrongOpt))
			}
		}
		result := GradeAttempt(QuizSheet{PassingScore: 50, Questions: questions}, answers)
		assert.Equal(t, tc.want, result.Score, "%d of %d", tc.correct, tc.total)
	}
}

func TestGradePassBoundary(t *testing.T) {
	correctA := uuid.New()
	correctB := uuid.New()
	qa := singleQuestion(correctA, uuid.New())
	qb := singleQuestion(correctB, uuid.New())
	sheet := QuizSheet{PassingScore: 50, Questions: []QuestionSheet{qa, qb}}

	// Score exactly at the passing score passes.
	result := GradeAttempt(sheet, []models.SubmittedAnswer{optionAnswer(qa.ID, correctA)})
	assert.Equal(t, 50, result.Score)
	assert.True(t, result.IsPassed)

	// One point below fails.
	sheet.PassingScore = 51
	result = GradeAttempt(sheet, []models.SubmittedAnswer{optionAnswer(qa.ID, correctA)})
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.IsPassed)
}

func TestGradeAttemptIsDeterministic(t *testing.T) {
	correct := uuid.New()
	optB := uuid.New()
	optC := uuid.New()
	qa := singleQuestion(correct, optB)
	qb := QuestionSheet{
		ID:               uuid.New(),
		Type:             QuestionTypeMultiple,
		OptionIDs:        []uuid.UUID{optB, optC},
		CorrectOptionIDs: []uuid.UUID{optB, optC},
	}
	sheet := QuizSheet{PassingScore: 70, Questions: []QuestionSheet{qa, qb}}
	answers := []models.SubmittedAnswer{
		optionAnswer(qa.ID, correct),
		optionAnswer(qb.ID, optC),
		optionAnswer(qb.ID, optB),
	}

	first := GradeAttempt(sheet, answers)
	second := GradeAttempt(sheet, answers)

	assert.Equal(t, first, second)
}

func TestValidateAnswerSheet(t *testing.T) {
	correct := uuid.New()
	qa := singleQuestion(correct, uuid.New())
	qb := singleQuestion(uuid.New(), uuid.New())
	sheet := QuizSheet{Questions: []QuestionSheet{qa, qb}}

	assert.NoError(t, ValidateAnswerSheet(sheet, []models.SubmittedAnswer{optionAnswer(qa.ID, correct)}))

	err := ValidateAnswerSheet(sheet, []models.SubmittedAnswer{optionAnswer(uuid.New(), correct)})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// Option taken from a different question on the same quiz.
	err = ValidateAnswerSheet(sheet, []models.SubmittedAnswer{optionAnswer(qb.ID, correct)})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestBuildQuizSheetNormalizesLegacyTypes(t *testing.T) {
	quiz := models.Quiz{
		ID:           uuid.New(),
		PassingScore: 60,
		Questions: []models.Question{
			{
				ID:           uuid.New(),
				QuestionType: "MCQ",
				Options: []models.AnswerOption{
					{ID: uuid.New(), IsCorrect: true},
					{ID: uuid.New()},
				},
			},
			{
				ID:           uuid.New(),
				QuestionType: "essay",
			},
		},
	}

	sheet := BuildQuizSheet(quiz)

	require.Len(t, sheet.Questions, 2)
	assert.Equal(t, QuestionTypeSingle, sheet.Questions[0].Type)
	assert.Len(t, sheet.Questions[0].CorrectOptionIDs, 1)
	assert.Len(t, sheet.Questions[0].OptionIDs, 2)
	assert.Equal(t, QuestionTypeText, sheet.Questions[1].Type)
	assert.Equal(t, 60, sheet.PassingScore)
}

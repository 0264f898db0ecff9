package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/learnsphere/backend/models"
)

type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "single"
	QuestionTypeMultiple QuestionType = "multiple"
	QuestionTypeText     QuestionType = "text"
)

// Legacy content imported from older course exports used MCQ/TF/MSQ labels.
// Anything unrecognized is treated as text so it is never auto-graded.
func NormalizeQuestionType(label string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "single", "single_choice", "mcq", "tf", "true_false":
		return QuestionTypeSingle
	case "multiple", "multiple_choice", "msq", "multi_select":
		return QuestionTypeMultiple
	default:
		return QuestionTypeText
	}
}

const (
	NoteNoSingleCorrectOption = "no single correct option defined"
	NoteNoAnswerSelected      = "no answer selected"
	NoteRequiresManualGrading = "requires manual grading"
)

var ErrInvalidAnswer = errors.New("invalid answer")

type QuestionSheet struct {
	ID               uuid.UUID
	Type             QuestionType
	OptionIDs        []uuid.UUID
	CorrectOptionIDs []uuid.UUID
}

type QuizSheet struct {
	QuizID       uuid.UUID
	PassingScore int
	Questions    []QuestionSheet
}

type QuestionReport struct {
	QuestionID         uuid.UUID    `json:"question_id"`
	QuestionType       QuestionType `json:"question_type"`
	Graded             bool         `json:"graded"`
	Correct            bool         `json:"correct"`
	CorrectOptionIDs   []uuid.UUID  `json:"correct_option_ids"`
	SubmittedOptionIDs []uuid.UUID  `json:"submitted_option_ids"`
	Note               *string      `json:"note"`
}

type GradeResult struct {
	Score        int              `json:"score"`
	IsPassed     bool             `json:"is_passed"`
	GradedCount  int              `json:"graded_count"`
	CorrectCount int              `json:"correct_count"`
	PerQuestion  []QuestionReport `json:"per_question"`
}

// BuildQuizSheet flattens a loaded quiz into the read model the grader
// consumes, normalizing question types on the way in.
func BuildQuizSheet(quiz models.Quiz) QuizSheet {
	sheet := QuizSheet{
		QuizID:       quiz.ID,
		PassingScore: quiz.PassingScore,
		Questions:    make([]QuestionSheet, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qs := QuestionSheet{
			ID:   q.ID,
			Type: NormalizeQuestionType(q.QuestionType),
		}
		for _, opt := range q.Options {
			qs.OptionIDs = append(qs.OptionIDs, opt.ID)
			if opt.IsCorrect {
				qs.CorrectOptionIDs = append(qs.CorrectOptionIDs, opt.ID)
			}
		}
		sheet.Questions = append(sheet.Questions, qs)
	}
	return sheet
}

// ValidateAnswerSheet rejects answers that reference questions outside the
// quiz or options that belong to a different question. It runs before
// grading so the grader itself never has to fail.
func ValidateAnswerSheet(sheet QuizSheet, answers []models.SubmittedAnswer) error {
	optionsByQuestion := make(map[uuid.UUID]map[uuid.UUID]bool, len(sheet.Questions))
	for _, q := range sheet.Questions {
		opts := make(map[uuid.UUID]bool, len(q.OptionIDs))
		for _, id := range q.OptionIDs {
			opts[id] = true
		}
		optionsByQuestion[q.ID] = opts
	}

	for _, ans := range answers {
		opts, ok := optionsByQuestion[ans.QuestionID]
		if !ok {
			return fmt.Errorf("%w: question %s does not belong to this quiz", ErrInvalidAnswer, ans.QuestionID)
		}
		if ans.AnswerOptionID != nil && !opts[*ans.AnswerOptionID] {
			return fmt.Errorf("%w: option %s does not belong to question %s", ErrInvalidAnswer, *ans.AnswerOptionID, ans.QuestionID)
		}
	}
	return nil
}

// GradeAttempt computes the verdict for every question and the aggregate
// score. It is a pure function of the quiz sheet and the stored answers:
// re-grading the same inputs always yields the same result.
func GradeAttempt(sheet QuizSheet, answers []models.SubmittedAnswer) GradeResult {
	selectedByQuestion := make(map[uuid.UUID][]uuid.UUID)
	for _, ans := range answers {
		if ans.AnswerOptionID == nil {
			continue
		}
		selectedByQuestion[ans.QuestionID] = appendUnique(selectedByQuestion[ans.QuestionID], *ans.AnswerOptionID)
	}

	result := GradeResult{PerQuestion: make([]QuestionReport, 0, len(sheet.Questions))}

	for _, q := range sheet.Questions {
		submitted := sortedIDs(selectedByQuestion[q.ID])
		correct := sortedIDs(q.CorrectOptionIDs)

		report := QuestionReport{
			QuestionID:         q.ID,
			QuestionType:       q.Type,
			CorrectOptionIDs:   correct,
			SubmittedOptionIDs: submitted,
		}

		switch q.Type {
		case QuestionTypeSingle:
			if len(correct) != 1 {
				report.Note = notePtr(NoteNoSingleCorrectOption)
				break
			}
			report.Graded = true
			result.GradedCount++
			if len(submitted) == 0 {
				report.Note = notePtr(NoteNoAnswerSelected)
				break
			}
			if len(submitted) == 1 && submitted[0] == correct[0] {
				report.Correct = true
				result.CorrectCount++
			}
		case QuestionTypeMultiple:
			report.Graded = true
			result.GradedCount++
			if len(submitted) == 0 {
				report.Note = notePtr(NoteNoAnswerSelected)
				break
			}
			if idSetsEqual(submitted, correct) {
				report.Correct = true
				result.CorrectCount++
			}
		default:
			report.Note = notePtr(NoteRequiresManualGrading)
		}

		result.PerQuestion = append(result.PerQuestion, report)
	}

	if result.GradedCount > 0 {
		result.Score = int(math.Round(float64(result.CorrectCount) / float64(result.GradedCount) * 100))
	}
	result.IsPassed = result.Score >= sheet.PassingScore

	return result
}

func appendUnique(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

func idSetsEqual(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func notePtr(note string) *string {
	return &note
}

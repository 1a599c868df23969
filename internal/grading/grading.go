// Package grading scores quiz attempts by exact set equality between the
// selected answer indices and the authored correct indices.
package grading

import (
	"fmt"
	"sort"
	"time"

	"classroom-service/internal/domain"
)

// EmptyKeyPolicy decides how a question authored with no correct answers is scored.
type EmptyKeyPolicy string

const (
	// EmptyKeyMatchesEmpty scores an empty selection as correct against an empty key.
	EmptyKeyMatchesEmpty EmptyKeyPolicy = "match_empty"
	// EmptyKeyAlwaysWrong scores every selection against an empty key as wrong.
	EmptyKeyAlwaysWrong EmptyKeyPolicy = "always_wrong"
)

// DefaultEmptyKeyPolicy keeps the historical behaviour.
const DefaultEmptyKeyPolicy = EmptyKeyMatchesEmpty

// ParseEmptyKeyPolicy maps a config value to a policy; blank means the default.
func ParseEmptyKeyPolicy(raw string) (EmptyKeyPolicy, error) {
	switch EmptyKeyPolicy(raw) {
	case "":
		return DefaultEmptyKeyPolicy, nil
	case EmptyKeyMatchesEmpty, EmptyKeyAlwaysWrong:
		return EmptyKeyPolicy(raw), nil
	}
	return "", fmt.Errorf("unknown empty key policy %q", raw)
}

type Grader struct {
	policy EmptyKeyPolicy
}

func NewGrader(policy EmptyKeyPolicy) Grader {
	if policy == "" {
		policy = DefaultEmptyKeyPolicy
	}
	return Grader{policy: policy}
}

func (g Grader) Policy() EmptyKeyPolicy { return g.policy }

// QuestionCorrect reports whether selected equals correct as a set.
func (g Grader) QuestionCorrect(selected, correct []int) bool {
	if len(correct) == 0 && g.policy == EmptyKeyAlwaysWrong {
		return false
	}
	return SameSet(selected, correct)
}

// SameSet compares sorted copies, so order never matters.
func SameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedCopy(a)
	bs := sortedCopy(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sortedCopy(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}

// Outcome is the question-level result of one attempt.
type Outcome struct {
	Correct []bool `json:"correct"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}

// Score grades every slide; a missing selection counts as an empty one.
func (g Grader) Score(slides []domain.Slide, selections [][]int) Outcome {
	out := Outcome{Correct: make([]bool, len(slides)), Total: len(slides)}
	for i, slide := range slides {
		if g.QuestionCorrect(selectionAt(selections, i), slide.Correct) {
			out.Correct[i] = true
			out.Score++
		}
	}
	return out
}

// ValidateSelections rejects selections that do not describe sets of answer indices.
func ValidateSelections(slides []domain.Slide, selections [][]int) error {
	if len(selections) > len(slides) {
		return domain.Invalid("quiz has %d questions, got %d selections", len(slides), len(selections))
	}
	for i, sel := range selections {
		seen := make(map[int]struct{}, len(sel))
		for _, idx := range sel {
			if idx < 0 || idx >= len(slides[i].Answers) {
				return domain.Invalid("question %d: answer index %d out of range", i+1, idx)
			}
			if _, dup := seen[idx]; dup {
				return domain.Invalid("question %d: answer index %d selected twice", i+1, idx)
			}
			seen[idx] = struct{}{}
		}
	}
	return nil
}

// AnswerRecords emits one record per selected answer, carrying that answer's own
// authored flag rather than the question-level result.
func AnswerRecords(detail domain.QuizDetail, studentID string, selections [][]int, now time.Time, newID func() string) []domain.StudentAnswer {
	var records []domain.StudentAnswer
	for i, slide := range detail.Slides {
		for _, idx := range selectionAt(selections, i) {
			answer := slide.Answers[idx]
			records = append(records, domain.StudentAnswer{
				ID:         newID(),
				StudentID:  studentID,
				QuizID:     detail.ID,
				QuestionID: slide.QuestionID,
				AnswerID:   answer.AnswerID,
				IsCorrect:  answer.IsCorrect,
				CreatedAt:  now,
			})
		}
	}
	return records
}

// ReviewItem is what a non-student sees after previewing a quiz.
type ReviewItem struct {
	Question        string               `json:"question"`
	Image           string               `json:"image"`
	AllAnswers      []domain.SlideAnswer `json:"allAnswers"`
	CorrectIndexes  []int                `json:"correctIndexes"`
	SelectedIndexes []int                `json:"selectedIndexes"`
}

func Review(detail domain.QuizDetail, selections [][]int) []ReviewItem {
	items := make([]ReviewItem, 0, len(detail.Slides))
	for i, slide := range detail.Slides {
		selected := selectionAt(selections, i)
		if selected == nil {
			selected = []int{}
		}
		items = append(items, ReviewItem{
			Question:        slide.Text,
			Image:           slide.Image,
			AllAnswers:      slide.Answers,
			CorrectIndexes:  slide.Correct,
			SelectedIndexes: selected,
		})
	}
	return items
}

func selectionAt(selections [][]int, i int) []int {
	if i < len(selections) {
		return selections[i]
	}
	return nil
}

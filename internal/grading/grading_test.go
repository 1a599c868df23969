package grading

import (
	"testing"
	"time"

	"classroom-service/internal/domain"
)

func slideWith(n int, correct ...int) domain.Slide {
	s := domain.Slide{QuestionID: "q", Correct: correct}
	for i := 0; i < n; i++ {
		isCorrect := false
		for _, c := range correct {
			if c == i {
				isCorrect = true
			}
		}
		s.Answers = append(s.Answers, domain.SlideAnswer{AnswerID: string(rune('a' + i)), IsCorrect: isCorrect})
	}
	return s
}

func TestScoreScenarios(t *testing.T) {
	g := NewGrader(DefaultEmptyKeyPolicy)
	cases := []struct {
		name      string
		slides    []domain.Slide
		selection [][]int
		score     int
	}{
		{"exact single", []domain.Slide{slideWith(3, 0)}, [][]int{{0}}, 1},
		{"superset is wrong", []domain.Slide{slideWith(3, 0)}, [][]int{{0, 1}}, 0},
		{"reverse order multi", []domain.Slide{slideWith(4, 1, 2)}, [][]int{{2, 1}}, 1},
		{"subset is wrong", []domain.Slide{slideWith(4, 1, 2)}, [][]int{{1}}, 0},
		{"nothing selected", []domain.Slide{slideWith(3, 0)}, [][]int{{}}, 0},
		{"missing selection", []domain.Slide{slideWith(3, 0), slideWith(2, 1)}, [][]int{{0}}, 1},
		{"empty key empty selection", []domain.Slide{slideWith(2)}, [][]int{{}}, 1},
		{"empty key any selection", []domain.Slide{slideWith(2)}, [][]int{{0}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := g.Score(tc.slides, tc.selection)
			if out.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, out.Score)
			}
			if out.Total != len(tc.slides) {
				t.Fatalf("expected total %d, got %d", len(tc.slides), out.Total)
			}
		})
	}
}

func TestEmptyKeyAlwaysWrong(t *testing.T) {
	g := NewGrader(EmptyKeyAlwaysWrong)
	if g.QuestionCorrect(nil, nil) {
		t.Fatalf("expected empty key to be wrong under always_wrong")
	}
	if !g.QuestionCorrect([]int{1}, []int{1}) {
		t.Fatalf("non-empty keys must still match")
	}
}

func TestSameSetOrderIndependent(t *testing.T) {
	perms := [][]int{{0, 2, 3}, {3, 2, 0}, {2, 0, 3}, {3, 0, 2}}
	for _, p := range perms {
		if !SameSet(p, []int{0, 2, 3}) {
			t.Fatalf("expected %v to match", p)
		}
	}
	if SameSet([]int{0, 0}, []int{0}) {
		t.Fatalf("different sizes must not match")
	}
}

func TestParseEmptyKeyPolicy(t *testing.T) {
	if p, err := ParseEmptyKeyPolicy(""); err != nil || p != EmptyKeyMatchesEmpty {
		t.Fatalf("blank: got %v %v", p, err)
	}
	if p, err := ParseEmptyKeyPolicy("always_wrong"); err != nil || p != EmptyKeyAlwaysWrong {
		t.Fatalf("always_wrong: got %v %v", p, err)
	}
	if _, err := ParseEmptyKeyPolicy("lenient"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestValidateSelections(t *testing.T) {
	slides := []domain.Slide{slideWith(3, 0)}
	if err := ValidateSelections(slides, [][]int{{0, 2}}); err != nil {
		t.Fatalf("valid selection rejected: %v", err)
	}
	for _, bad := range [][][]int{{{3}}, {{-1}}, {{1, 1}}, {{0}, {0}}} {
		if err := ValidateSelections(slides, bad); !domain.IsValidation(err) {
			t.Fatalf("expected validation error for %v, got %v", bad, err)
		}
	}
}

func TestAnswerRecordsUseAnswerLevelTruth(t *testing.T) {
	detail := domain.QuizDetail{ID: "quiz-1", Slides: []domain.Slide{slideWith(3, 0)}}
	n := 0
	records := AnswerRecords(detail, "stu-1", [][]int{{0, 1}}, time.Unix(0, 0), func() string {
		n++
		return string(rune('0' + n))
	})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].IsCorrect || records[1].IsCorrect {
		t.Fatalf("expected first answer correct and second wrong, got %+v", records)
	}
	if records[0].QuizID != "quiz-1" || records[0].StudentID != "stu-1" {
		t.Fatalf("unexpected record %+v", records[0])
	}
}

func TestReviewIncludesSelections(t *testing.T) {
	detail := domain.QuizDetail{Slides: []domain.Slide{slideWith(3, 0), slideWith(2, 1)}}
	items := Review(detail, [][]int{{2}})
	if len(items) != 2 {
		t.Fatalf("expected 2 review items, got %d", len(items))
	}
	if len(items[0].SelectedIndexes) != 1 || items[0].SelectedIndexes[0] != 2 {
		t.Fatalf("unexpected selection %v", items[0].SelectedIndexes)
	}
	if items[1].SelectedIndexes == nil || len(items[1].SelectedIndexes) != 0 {
		t.Fatalf("expected empty selection slice, got %v", items[1].SelectedIndexes)
	}
	if len(items[1].AllAnswers) != 2 {
		t.Fatalf("expected answers to be carried through")
	}
}

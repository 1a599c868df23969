package app

import (
	"context"
	"strings"

	"classroom-service/internal/domain"
	"github.com/google/uuid"
)

type AssessmentStore interface {
	ListScores(ctx context.Context, f domain.ScoreFilter) ([]domain.AssessmentScore, error)
	ScoreByID(ctx context.Context, id string) (domain.AssessmentScore, error)
	UpsertScore(ctx context.Context, sc domain.AssessmentScore) (domain.AssessmentScore, error)
	UpdateScoreValues(ctx context.Context, id string, raw, max float64) error
	StudentByID(ctx context.Context, id string) (domain.Student, error)
	StudentByName(ctx context.Context, name string) (domain.Student, error)
}

// ScoreInput is a score as entered by a teacher. The student is identified by
// id, or by name when no id is given.
type ScoreInput struct {
	StudentID   string
	StudentName string
	Category    string
	RawScore    float64
	MaxScore    float64
	Language    string
	Month       string
	Week        string
	WeekStart   string
	WeekEnd     string
}

type AssessmentService struct {
	store AssessmentStore
	newID func() string
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{store: store, newID: uuid.NewString}
}

func (s *AssessmentService) List(ctx context.Context, f domain.ScoreFilter) ([]domain.AssessmentScore, error) {
	if f.Month == "" || f.Language == "" || f.GroupID == "" {
		return nil, domain.Invalid("month, language and group_id are required")
	}
	return s.store.ListScores(ctx, f)
}

// Record upserts a score on (student, category, language, month, week).
func (s *AssessmentService) Record(ctx context.Context, in ScoreInput) (domain.AssessmentScore, error) {
	if strings.TrimSpace(in.Category) == "" || in.Language == "" || in.Month == "" {
		return domain.AssessmentScore{}, domain.Invalid("category, language and month are required")
	}
	if err := checkScore(in.RawScore, in.MaxScore); err != nil {
		return domain.AssessmentScore{}, err
	}
	student, err := s.student(ctx, in)
	if err != nil {
		return domain.AssessmentScore{}, err
	}
	stored, err := s.store.UpsertScore(ctx, domain.AssessmentScore{
		ID:        s.newID(),
		StudentID: student.ID,
		Category:  strings.TrimSpace(in.Category),
		RawScore:  in.RawScore,
		MaxScore:  in.MaxScore,
		Language:  in.Language,
		Month:     in.Month,
		Week:      in.Week,
		WeekStart: in.WeekStart,
		WeekEnd:   in.WeekEnd,
		GroupID:   student.GroupID,
	})
	if err != nil {
		return domain.AssessmentScore{}, err
	}
	stored.Student = &student
	return stored, nil
}

func (s *AssessmentService) Update(ctx context.Context, id string, raw, max float64) (domain.AssessmentScore, error) {
	if err := checkScore(raw, max); err != nil {
		return domain.AssessmentScore{}, err
	}
	if err := s.store.UpdateScoreValues(ctx, id, raw, max); err != nil {
		return domain.AssessmentScore{}, err
	}
	return s.store.ScoreByID(ctx, id)
}

func (s *AssessmentService) student(ctx context.Context, in ScoreInput) (domain.Student, error) {
	switch {
	case in.StudentID != "":
		return s.store.StudentByID(ctx, in.StudentID)
	case strings.TrimSpace(in.StudentName) != "":
		return s.store.StudentByName(ctx, strings.TrimSpace(in.StudentName))
	}
	return domain.Student{}, domain.Invalid("student_id or student_name is required")
}

func checkScore(raw, max float64) error {
	if raw < 0 || max < 0 {
		return domain.Invalid("scores must not be negative")
	}
	if raw > max {
		return domain.Invalid("raw_score %g exceeds max_score %g", raw, max)
	}
	return nil
}

package app

import (
	"context"
	"strings"

	"classroom-service/internal/domain"
	"github.com/google/uuid"
)

type LessonPlanStore interface {
	ListLessonPlans(ctx context.Context, f domain.LessonPlanFilter) ([]domain.LessonPlan, error)
	CreateLessonPlan(ctx context.Context, p domain.LessonPlan) error
	UpdateLessonPlan(ctx context.Context, p domain.LessonPlan) error
	DeleteLessonPlan(ctx context.Context, id string) error
	LessonPlanExists(ctx context.Context, id string) (bool, error)
	LessonPlanFiles(ctx context.Context, planID string) ([]domain.LessonPlanFile, error)
	AddLessonPlanFile(ctx context.Context, f domain.LessonPlanFile) error
	DeleteLessonPlanFile(ctx context.Context, id string) error
}

type LessonPlanService struct {
	store LessonPlanStore
	newID func() string
}

func NewLessonPlanService(store LessonPlanStore) *LessonPlanService {
	return &LessonPlanService{store: store, newID: uuid.NewString}
}

func (s *LessonPlanService) List(ctx context.Context, f domain.LessonPlanFilter) ([]domain.LessonPlan, error) {
	if f.Month == "" || f.Language == "" || f.GroupID == "" {
		return nil, domain.Invalid("month, language and group_id are required")
	}
	return s.store.ListLessonPlans(ctx, f)
}

func (s *LessonPlanService) All(ctx context.Context) ([]domain.LessonPlan, error) {
	return s.store.ListLessonPlans(ctx, domain.LessonPlanFilter{})
}

func (s *LessonPlanService) Create(ctx context.Context, p domain.LessonPlan) (domain.LessonPlan, error) {
	if err := checkPlan(p); err != nil {
		return domain.LessonPlan{}, err
	}
	p.ID = s.newID()
	if err := s.store.CreateLessonPlan(ctx, p); err != nil {
		return domain.LessonPlan{}, err
	}
	return p, nil
}

func (s *LessonPlanService) Update(ctx context.Context, p domain.LessonPlan) (domain.LessonPlan, error) {
	if p.ID == "" {
		return domain.LessonPlan{}, domain.Invalid("lesson plan id is required")
	}
	if err := checkPlan(p); err != nil {
		return domain.LessonPlan{}, err
	}
	if err := s.store.UpdateLessonPlan(ctx, p); err != nil {
		return domain.LessonPlan{}, err
	}
	return p, nil
}

// Delete removes the plan's file metadata, then the plan.
func (s *LessonPlanService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteLessonPlan(ctx, id)
}

func (s *LessonPlanService) Files(ctx context.Context, planID string) ([]domain.LessonPlanFile, error) {
	return s.store.LessonPlanFiles(ctx, planID)
}

// AddFile registers metadata for a file already placed in object storage.
func (s *LessonPlanService) AddFile(ctx context.Context, planID, fileURL, fileName string) (domain.LessonPlanFile, error) {
	if strings.TrimSpace(fileURL) == "" {
		return domain.LessonPlanFile{}, domain.Invalid("file_url is required")
	}
	ok, err := s.store.LessonPlanExists(ctx, planID)
	if err != nil {
		return domain.LessonPlanFile{}, err
	}
	if !ok {
		return domain.LessonPlanFile{}, domain.ErrLessonPlanNotFound
	}
	f := domain.LessonPlanFile{ID: s.newID(), LessonPlanID: planID, FileURL: fileURL, FileName: fileName}
	if err := s.store.AddLessonPlanFile(ctx, f); err != nil {
		return domain.LessonPlanFile{}, err
	}
	return f, nil
}

func (s *LessonPlanService) DeleteFile(ctx context.Context, id string) error {
	return s.store.DeleteLessonPlanFile(ctx, id)
}

func checkPlan(p domain.LessonPlan) error {
	if p.Month == "" || p.Language == "" || strings.TrimSpace(p.Category) == "" {
		return domain.Invalid("month, language and category are required")
	}
	return nil
}

package app

import (
	"context"
	"strings"

	"classroom-service/internal/domain"
	"github.com/google/uuid"
)

type FolderStore interface {
	TeacherByClerkID(ctx context.Context, clerkUserID string) (domain.Teacher, error)
	FoldersForTeacher(ctx context.Context, teacherID string) ([]domain.QuizFolder, error)
	CreateFolder(ctx context.Context, folder domain.QuizFolder) error
	DeleteFolder(ctx context.Context, id string) error
}

// FolderService groups a teacher's quizzes into named folders.
type FolderService struct {
	store FolderStore
	newID func() string
}

func NewFolderService(store FolderStore) *FolderService {
	return &FolderService{store: store, newID: uuid.NewString}
}

func (s *FolderService) ForTeacher(ctx context.Context, clerkUserID string) ([]domain.QuizFolder, error) {
	if clerkUserID == "" {
		return nil, domain.Invalid("clerk_user_id is required")
	}
	t, err := s.store.TeacherByClerkID(ctx, clerkUserID)
	if err != nil {
		return nil, err
	}
	return s.store.FoldersForTeacher(ctx, t.ID)
}

// Create inserts the folder and then its quiz links; a failed link insert
// leaves the folder behind.
func (s *FolderService) Create(ctx context.Context, clerkUserID, name string, quizIDs []string) (domain.QuizFolder, error) {
	if strings.TrimSpace(name) == "" || quizIDs == nil || clerkUserID == "" {
		return domain.QuizFolder{}, domain.Invalid("folder_name, quiz_ids and clerk_user_id are required")
	}
	t, err := s.store.TeacherByClerkID(ctx, clerkUserID)
	if err != nil {
		return domain.QuizFolder{}, err
	}
	folder := domain.QuizFolder{ID: s.newID(), Name: strings.TrimSpace(name), TeacherID: t.ID, QuizIDs: quizIDs}
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return domain.QuizFolder{}, err
	}
	return folder, nil
}

func (s *FolderService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteFolder(ctx, id)
}

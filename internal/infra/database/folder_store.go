package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
)

// FoldersForTeacher returns the teacher's folders with their quiz ids.
func (s *Store) FoldersForTeacher(ctx context.Context, teacherID string) ([]domain.QuizFolder, error) {
	var folders []domain.QuizFolder
	if err := s.db.NewSelect().Model(&folders).
		Where("teacher_id = ?", teacherID).
		Order("folder_name ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	for i := range folders {
		var ids []string
		if err := s.db.NewSelect().Model((*domain.QuizFolderQuiz)(nil)).
			Column("quiz_id").
			Where("folder_id = ?", folders[i].ID).
			Scan(ctx, &ids); err != nil {
			return nil, fmt.Errorf("list folder quizzes: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		folders[i].QuizIDs = ids
	}
	return folders, nil
}

// CreateFolder inserts the folder, then its quiz links. A failed link insert
// leaves the folder in place.
func (s *Store) CreateFolder(ctx context.Context, folder domain.QuizFolder) error {
	if _, err := s.db.NewInsert().Model(&folder).Exec(ctx); err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	if len(folder.QuizIDs) == 0 {
		return nil
	}
	links := make([]domain.QuizFolderQuiz, 0, len(folder.QuizIDs))
	for _, id := range folder.QuizIDs {
		links = append(links, domain.QuizFolderQuiz{FolderID: folder.ID, QuizID: id})
	}
	if _, err := s.db.NewInsert().Model(&links).Exec(ctx); err != nil {
		return fmt.Errorf("insert folder quizzes: %w", err)
	}
	return nil
}

func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	if _, err := s.db.NewDelete().Model((*domain.QuizFolderQuiz)(nil)).Where("folder_id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("delete folder quizzes: %w", err)
	}
	res, err := s.db.NewDelete().Model((*domain.QuizFolder)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return mustAffect(res, domain.ErrFolderNotFound)
}

package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
)

func (s *Store) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	var rows []domain.Question
	q := s.db.NewSelect().Model(&rows).Order("quiz_id ASC", "position ASC")
	if quizID != "" {
		q = q.Where("quiz_id = ?", quizID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return rows, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var row domain.Question
	if err := s.db.NewSelect().Model(&row).Where("question_id = ?", id).Scan(ctx); err != nil {
		return row, notFound(err, domain.ErrQuestionNotFound)
	}
	return row, nil
}

func (s *Store) CreateQuestion(ctx context.Context, row domain.Question) error {
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *Store) UpdateQuestion(ctx context.Context, row domain.Question) error {
	res, err := s.db.NewUpdate().Model(&row).
		Column("question_text", "media_url", "position").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return mustAffect(res, domain.ErrQuestionNotFound)
}

// DeleteQuestion removes the question's answers first, then the question.
func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.db.NewDelete().Model((*domain.Answer)(nil)).Where("question_id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	res, err := s.db.NewDelete().Model((*domain.Question)(nil)).Where("question_id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return mustAffect(res, domain.ErrQuestionNotFound)
}

func (s *Store) ListAnswers(ctx context.Context, questionID string) ([]domain.Answer, error) {
	var rows []domain.Answer
	q := s.db.NewSelect().Model(&rows).Order("question_id ASC", "position ASC")
	if questionID != "" {
		q = q.Where("question_id = ?", questionID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return rows, nil
}

func (s *Store) GetAnswer(ctx context.Context, id string) (domain.Answer, error) {
	var row domain.Answer
	if err := s.db.NewSelect().Model(&row).Where("answer_id = ?", id).Scan(ctx); err != nil {
		return row, notFound(err, domain.ErrAnswerNotFound)
	}
	return row, nil
}

func (s *Store) CreateAnswer(ctx context.Context, row domain.Answer) error {
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *Store) UpdateAnswer(ctx context.Context, row domain.Answer) error {
	res, err := s.db.NewUpdate().Model(&row).
		Column("answer_text", "image_url", "is_correct", "position").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}
	return mustAffect(res, domain.ErrAnswerNotFound)
}

func (s *Store) DeleteAnswer(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*domain.Answer)(nil)).Where("answer_id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return mustAffect(res, domain.ErrAnswerNotFound)
}

func (s *Store) ListStudentAnswers(ctx context.Context, f domain.StudentAnswerFilter) ([]domain.StudentAnswer, error) {
	var rows []domain.StudentAnswer
	q := s.db.NewSelect().Model(&rows).Order("created_at ASC")
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.QuizID != "" {
		q = q.Where("quiz_id = ?", f.QuizID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list student answers: %w", err)
	}
	return rows, nil
}

func (s *Store) GetStudentAnswer(ctx context.Context, id string) (domain.StudentAnswer, error) {
	var row domain.StudentAnswer
	if err := s.db.NewSelect().Model(&row).Where("response_id = ?", id).Scan(ctx); err != nil {
		return row, notFound(err, domain.ErrStudentAnswerNotFound)
	}
	return row, nil
}

func (s *Store) UpdateStudentAnswer(ctx context.Context, row domain.StudentAnswer) error {
	res, err := s.db.NewUpdate().Model(&row).
		Column("answer_id", "is_correct").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update student answer: %w", err)
	}
	return mustAffect(res, domain.ErrStudentAnswerNotFound)
}

func (s *Store) DeleteStudentAnswer(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*domain.StudentAnswer)(nil)).Where("response_id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete student answer: %w", err)
	}
	return mustAffect(res, domain.ErrStudentAnswerNotFound)
}

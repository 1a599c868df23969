package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	var quizzes []domain.Quiz
	if err := s.db.NewSelect().Model(&quizzes).Order("quiz_name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return summaries(quizzes), nil
}

// LoadQuiz reads a quiz with its questions and answers in authoring order.
func (s *Store) LoadQuiz(ctx context.Context, quizID string) (domain.QuizDetail, error) {
	var quiz domain.Quiz
	if err := s.db.NewSelect().Model(&quiz).Where("quiz_id = ?", quizID).Scan(ctx); err != nil {
		return domain.QuizDetail{}, notFound(err, domain.ErrQuizNotFound)
	}

	var questions []domain.Question
	if err := s.db.NewSelect().Model(&questions).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Scan(ctx); err != nil {
		return domain.QuizDetail{}, fmt.Errorf("load questions: %w", err)
	}

	answers := map[string][]domain.Answer{}
	if len(questions) > 0 {
		ids := make([]string, 0, len(questions))
		for _, q := range questions {
			ids = append(ids, q.ID)
		}
		var rows []domain.Answer
		if err := s.db.NewSelect().Model(&rows).
			Where("question_id IN (?)", bun.In(ids)).
			Order("position ASC").
			Scan(ctx); err != nil {
			return domain.QuizDetail{}, fmt.Errorf("load answers: %w", err)
		}
		for _, a := range rows {
			answers[a.QuestionID] = append(answers[a.QuestionID], a)
		}
	}
	return domain.BuildQuizDetail(quiz, questions, answers), nil
}

// CreateQuiz inserts the quiz and its children in one transaction.
func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question, answers []domain.Answer) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&quiz).Exec(ctx); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		return insertChildren(ctx, tx, questions, answers)
	})
}

// ReplaceQuiz renames the quiz and swaps all of its questions and answers atomically.
func (s *Store) ReplaceQuiz(ctx context.Context, quizID, name string, questions []domain.Question, answers []domain.Answer) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*domain.Quiz)(nil)).
			Set("quiz_name = ?", name).
			Where("quiz_id = ?", quizID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("rename quiz: %w", err)
		}
		if err := mustAffect(res, domain.ErrQuizNotFound); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, quizID); err != nil {
			return err
		}
		return insertChildren(ctx, tx, questions, answers)
	})
}

func (s *Store) DeleteQuiz(ctx context.Context, quizID string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteChildren(ctx, tx, quizID); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*domain.QuizGroup)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
			return fmt.Errorf("delete quiz groups: %w", err)
		}
		if _, err := tx.NewDelete().Model((*domain.QuizFolderQuiz)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
			return fmt.Errorf("delete folder links: %w", err)
		}
		res, err := tx.NewDelete().Model((*domain.Quiz)(nil)).Where("quiz_id = ?", quizID).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete quiz: %w", err)
		}
		return mustAffect(res, domain.ErrQuizNotFound)
	})
}

func deleteChildren(ctx context.Context, tx bun.Tx, quizID string) error {
	sub := tx.NewSelect().Model((*domain.Question)(nil)).Column("question_id").Where("quiz_id = ?", quizID)
	if _, err := tx.NewDelete().Model((*domain.Answer)(nil)).Where("question_id IN (?)", sub).Exec(ctx); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if _, err := tx.NewDelete().Model((*domain.Question)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func insertChildren(ctx context.Context, tx bun.Tx, questions []domain.Question, answers []domain.Answer) error {
	if len(questions) > 0 {
		if _, err := tx.NewInsert().Model(&questions).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
	}
	if len(answers) > 0 {
		if _, err := tx.NewInsert().Model(&answers).Exec(ctx); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
	}
	return nil
}

// SaveStudentAnswers bulk-inserts per-answer records.
func (s *Store) SaveStudentAnswers(ctx context.Context, records []domain.StudentAnswer) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := s.db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return fmt.Errorf("insert student answers: %w", err)
	}
	return nil
}

func (s *Store) QuizGroupIDs(ctx context.Context, quizID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().Model((*domain.QuizGroup)(nil)).
		Column("group_id").
		Where("quiz_id = ?", quizID).
		Order("group_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("list quiz groups: %w", err)
	}
	return ids, nil
}

// SetQuizGroups deletes the existing assignment and inserts the new one.
// The two steps are not wrapped in a transaction.
func (s *Store) SetQuizGroups(ctx context.Context, quizID string, groupIDs []string) error {
	if _, err := s.db.NewDelete().Model((*domain.QuizGroup)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
		return fmt.Errorf("clear quiz groups: %w", err)
	}
	if len(groupIDs) == 0 {
		return nil
	}
	rows := make([]domain.QuizGroup, 0, len(groupIDs))
	for _, g := range groupIDs {
		rows = append(rows, domain.QuizGroup{QuizID: quizID, GroupID: g})
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz groups: %w", err)
	}
	return nil
}

// QuizzesForGroup lists quizzes assigned to a group.
func (s *Store) QuizzesForGroup(ctx context.Context, groupID string) ([]domain.QuizSummary, error) {
	var quizzes []domain.Quiz
	err := s.db.NewSelect().Model(&quizzes).
		Join("JOIN quiz_groups AS qg ON qg.quiz_id = qz.quiz_id").
		Where("qg.group_id = ?", groupID).
		Order("qz.quiz_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list group quizzes: %w", err)
	}
	return summaries(quizzes), nil
}

func summaries(quizzes []domain.Quiz) []domain.QuizSummary {
	out := make([]domain.QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, domain.QuizSummary{ID: q.ID, Name: q.Name})
	}
	return out
}

package migrations

import (
	"context"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

func init() {
	models := []interface{}{
		(*domain.Quiz)(nil),
		(*domain.Question)(nil),
		(*domain.Answer)(nil),
		(*domain.StudentAnswer)(nil),
		(*domain.QuizGroup)(nil),
		(*domain.QuizFolder)(nil),
		(*domain.QuizFolderQuiz)(nil),
	}
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := createTables(ctx, db, models...); err != nil {
				return err
			}
			if err := createIndex(ctx, db, (*domain.Question)(nil), "ix_questions_quiz", "quiz_id", "position"); err != nil {
				return err
			}
			if err := createIndex(ctx, db, (*domain.Answer)(nil), "ix_answers_question", "question_id", "position"); err != nil {
				return err
			}
			return createIndex(ctx, db, (*domain.StudentAnswer)(nil), "ix_student_answers_student_quiz", "student_id", "quiz_id")
		},
		func(ctx context.Context, db *bun.DB) error {
			return dropTables(ctx, db, models...)
		},
	)
}

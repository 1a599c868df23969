package postgres

import (
	"context"
	"errors"
	"fmt"

	"classroom-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizLoader reads quiz detail straight from Postgres for the quiz caches.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

const quizDetailSQL = `
SELECT q.question_id, q.question_text, q.media_url,
       a.answer_id, a.answer_text, a.image_url, a.is_correct
FROM questions q
LEFT JOIN answers a ON a.question_id = q.question_id
WHERE q.quiz_id = $1
ORDER BY q.position, q.question_id, a.position`

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.QuizDetail, error) {
	var quiz domain.Quiz
	err := l.pool.QueryRow(ctx, `SELECT quiz_id, quiz_name FROM quizzes WHERE quiz_id = $1`, quizID).
		Scan(&quiz.ID, &quiz.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDetail{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizDetail{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := l.pool.Query(ctx, quizDetailSQL, quizID)
	if err != nil {
		return domain.QuizDetail{}, fmt.Errorf("load quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	answers := map[string][]domain.Answer{}
	for rows.Next() {
		var (
			q                            domain.Question
			answerID, answerText, imgURL *string
			isCorrect                    *bool
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.MediaURL, &answerID, &answerText, &imgURL, &isCorrect); err != nil {
			return domain.QuizDetail{}, fmt.Errorf("scan quiz row: %w", err)
		}
		if len(questions) == 0 || questions[len(questions)-1].ID != q.ID {
			questions = append(questions, q)
		}
		if answerID == nil {
			continue
		}
		a := domain.Answer{ID: *answerID, QuestionID: q.ID}
		if answerText != nil {
			a.Text = *answerText
		}
		if imgURL != nil {
			a.ImageURL = *imgURL
		}
		if isCorrect != nil {
			a.IsCorrect = *isCorrect
		}
		answers[q.ID] = append(answers[q.ID], a)
	}
	if err := rows.Err(); err != nil {
		return domain.QuizDetail{}, fmt.Errorf("read quiz rows: %w", err)
	}
	return domain.BuildQuizDetail(quiz, questions, answers), nil
}

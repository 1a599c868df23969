package app

import (
	"context"
	"strings"
	"time"

	"classroom-service/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ContentStore interface {
	ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	CreateQuestion(ctx context.Context, row domain.Question) error
	UpdateQuestion(ctx context.Context, row domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error

	ListAnswers(ctx context.Context, questionID string) ([]domain.Answer, error)
	GetAnswer(ctx context.Context, id string) (domain.Answer, error)
	CreateAnswer(ctx context.Context, row domain.Answer) error
	UpdateAnswer(ctx context.Context, row domain.Answer) error
	DeleteAnswer(ctx context.Context, id string) error

	ListStudentAnswers(ctx context.Context, f domain.StudentAnswerFilter) ([]domain.StudentAnswer, error)
	GetStudentAnswer(ctx context.Context, id string) (domain.StudentAnswer, error)
	SaveStudentAnswers(ctx context.Context, records []domain.StudentAnswer) error
	UpdateStudentAnswer(ctx context.Context, row domain.StudentAnswer) error
	DeleteStudentAnswer(ctx context.Context, id string) error
}

// ContentService is row-level CRUD over questions, answers and recorded
// student answers. Any change to a question or answer drops the cached quiz.
type ContentService struct {
	store   ContentStore
	quizzes QuizRepository
	log     zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewContentService(store ContentStore, quizzes QuizRepository, log zerolog.Logger) *ContentService {
	return &ContentService{store: store, quizzes: quizzes, log: log, now: time.Now, newID: uuid.NewString}
}

func (s *ContentService) Questions(ctx context.Context, quizID string) ([]domain.Question, error) {
	return s.store.ListQuestions(ctx, quizID)
}

func (s *ContentService) Question(ctx context.Context, id string) (domain.Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// CreateQuestion appends a question to the end of its quiz.
func (s *ContentService) CreateQuestion(ctx context.Context, quizID, text, mediaURL string) (domain.Question, error) {
	if quizID == "" || strings.TrimSpace(text) == "" {
		return domain.Question{}, domain.Invalid("quiz_id and question_text are required")
	}
	existing, err := s.store.ListQuestions(ctx, quizID)
	if err != nil {
		return domain.Question{}, err
	}
	q := domain.Question{ID: s.newID(), QuizID: quizID, Text: text, MediaURL: mediaURL, Position: len(existing)}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, quizID)
	return q, nil
}

func (s *ContentService) UpdateQuestion(ctx context.Context, id, text, mediaURL string) error {
	if strings.TrimSpace(text) == "" {
		return domain.Invalid("question_text is required")
	}
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	q.Text, q.MediaURL = text, mediaURL
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	s.invalidate(ctx, q.QuizID)
	return nil
}

func (s *ContentService) DeleteQuestion(ctx context.Context, id string) error {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, q.QuizID)
	return nil
}

func (s *ContentService) Answers(ctx context.Context, questionID string) ([]domain.Answer, error) {
	return s.store.ListAnswers(ctx, questionID)
}

func (s *ContentService) Answer(ctx context.Context, id string) (domain.Answer, error) {
	return s.store.GetAnswer(ctx, id)
}

// CreateAnswer appends an answer to its question, so it takes the next index.
func (s *ContentService) CreateAnswer(ctx context.Context, questionID, text, imageURL string, isCorrect bool) (domain.Answer, error) {
	if questionID == "" {
		return domain.Answer{}, domain.Invalid("question_id is required")
	}
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.Answer{}, err
	}
	existing, err := s.store.ListAnswers(ctx, questionID)
	if err != nil {
		return domain.Answer{}, err
	}
	a := domain.Answer{
		ID:         s.newID(),
		QuestionID: questionID,
		Text:       text,
		ImageURL:   imageURL,
		IsCorrect:  isCorrect,
		Position:   len(existing),
	}
	if err := s.store.CreateAnswer(ctx, a); err != nil {
		return domain.Answer{}, err
	}
	s.invalidate(ctx, q.QuizID)
	return a, nil
}

func (s *ContentService) UpdateAnswer(ctx context.Context, id, text string, isCorrect bool) error {
	a, err := s.store.GetAnswer(ctx, id)
	if err != nil {
		return err
	}
	a.Text, a.IsCorrect = text, isCorrect
	if err := s.store.UpdateAnswer(ctx, a); err != nil {
		return err
	}
	s.invalidateForQuestion(ctx, a.QuestionID)
	return nil
}

func (s *ContentService) DeleteAnswer(ctx context.Context, id string) error {
	a, err := s.store.GetAnswer(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAnswer(ctx, id); err != nil {
		return err
	}
	s.invalidateForQuestion(ctx, a.QuestionID)
	return nil
}

func (s *ContentService) StudentAnswers(ctx context.Context, f domain.StudentAnswerFilter) ([]domain.StudentAnswer, error) {
	return s.store.ListStudentAnswers(ctx, f)
}

func (s *ContentService) StudentAnswer(ctx context.Context, id string) (domain.StudentAnswer, error) {
	return s.store.GetStudentAnswer(ctx, id)
}

// RecordStudentAnswer stores a single response row. Correctness is copied
// from the answer, not taken from the caller.
func (s *ContentService) RecordStudentAnswer(ctx context.Context, studentID, quizID, questionID, answerID string) (domain.StudentAnswer, error) {
	if studentID == "" || quizID == "" || questionID == "" || answerID == "" {
		return domain.StudentAnswer{}, domain.Invalid("student_id, quiz_id, question_id and answer_id are required")
	}
	a, err := s.store.GetAnswer(ctx, answerID)
	if err != nil {
		return domain.StudentAnswer{}, err
	}
	if a.QuestionID != questionID {
		return domain.StudentAnswer{}, domain.Invalid("answer %s does not belong to question %s", answerID, questionID)
	}
	row := domain.StudentAnswer{
		ID:         s.newID(),
		StudentID:  studentID,
		QuizID:     quizID,
		QuestionID: questionID,
		AnswerID:   answerID,
		IsCorrect:  a.IsCorrect,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.SaveStudentAnswers(ctx, []domain.StudentAnswer{row}); err != nil {
		return domain.StudentAnswer{}, err
	}
	return row, nil
}

func (s *ContentService) UpdateStudentAnswer(ctx context.Context, id, answerID string, isCorrect bool) error {
	row, err := s.store.GetStudentAnswer(ctx, id)
	if err != nil {
		return err
	}
	if answerID != "" {
		row.AnswerID = answerID
	}
	row.IsCorrect = isCorrect
	return s.store.UpdateStudentAnswer(ctx, row)
}

func (s *ContentService) DeleteStudentAnswer(ctx context.Context, id string) error {
	return s.store.DeleteStudentAnswer(ctx, id)
}

func (s *ContentService) invalidateForQuestion(ctx context.Context, questionID string) {
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		s.log.Warn().Err(err).Str("question_id", questionID).Msg("resolve quiz for cache invalidation")
		return
	}
	s.invalidate(ctx, q.QuizID)
}

func (s *ContentService) invalidate(ctx context.Context, quizID string) {
	if err := s.quizzes.Invalidate(ctx, quizID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID).Msg("invalidate quiz cache")
	}
}

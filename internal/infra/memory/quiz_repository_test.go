package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"classroom-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.QuizDetail{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(quiz.Slides) != 1 || quiz.Slides[0].Correct[0] != 1 {
		t.Fatalf("unexpected cached quiz %+v", quiz)
	}
}

func TestQuizRepositoryExpiresAndInvalidates(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewStaticQuizLoader(map[string]domain.QuizDetail{"quiz-1": sampleQuiz()})}
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.count() != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.count())
	}

	_ = repo.Invalidate(context.Background(), "quiz-1")
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.count() != 3 {
		t.Fatalf("expected reload after invalidate, got %d calls", loader.count())
	}
}

func TestQuizRepositoryPropagatesNotFound(t *testing.T) {
	repo := NewQuizRepository(NewStaticQuizLoader(nil), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.QuizDetail, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuiz() domain.QuizDetail {
	return domain.QuizDetail{
		ID:    "quiz-1",
		Title: "Arithmetic",
		Slides: []domain.Slide{
			{
				QuestionID: "q1",
				Text:       "What is 2 + 2?",
				Answers: []domain.SlideAnswer{
					{AnswerID: "a1", AnswerText: "3"},
					{AnswerID: "a2", AnswerText: "4", IsCorrect: true},
				},
				Correct: []int{1},
			},
		},
	}
}

func TestInvalidateDuringLoadKeepsStaleQuizOut(t *testing.T) {
	loader := newGatedLoader(sampleQuiz())
	repo := NewQuizRepository(loader, time.Minute)

	done := make(chan domain.QuizDetail)
	go func() {
		quiz, _ := repo.GetQuiz(context.Background(), "quiz-1")
		done <- quiz
	}()
	<-loader.started

	edited := sampleQuiz()
	edited.Title = "Arithmetic v2"
	loader.set(edited)
	_ = repo.Invalidate(context.Background(), "quiz-1")
	close(loader.release)

	if stale := <-done; stale.Title != "Arithmetic" {
		t.Fatalf("in-flight read should see the quiz it loaded, got %q", stale.Title)
	}
	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if quiz.Title != "Arithmetic v2" {
		t.Fatalf("expected edited quiz after invalidate, got %q", quiz.Title)
	}
}

// gatedLoader snapshots its quiz, then blocks until release is closed.
type gatedLoader struct {
	mu      sync.Mutex
	quiz    domain.QuizDetail
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedLoader(quiz domain.QuizDetail) *gatedLoader {
	return &gatedLoader{quiz: quiz, started: make(chan struct{}), release: make(chan struct{})}
}

func (l *gatedLoader) set(quiz domain.QuizDetail) {
	l.mu.Lock()
	l.quiz = quiz
	l.mu.Unlock()
}

func (l *gatedLoader) LoadQuiz(_ context.Context, _ string) (domain.QuizDetail, error) {
	l.mu.Lock()
	quiz := l.quiz
	l.mu.Unlock()
	l.once.Do(func() { close(l.started) })
	<-l.release
	return quiz, nil
}

package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/infra/memory"
	"github.com/rs/zerolog"
)

func TestContentEditsInvalidateQuiz(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cache := memory.NewQuizRepository(store, time.Hour)
	svc := app.NewContentService(store, cache, zerolog.Nop())
	if err := store.CreateQuiz(ctx, domain.Quiz{ID: "quiz-1", Name: "Colours", CreatedAt: time.Now()}, nil, nil); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	q, err := svc.CreateQuestion(ctx, "quiz-1", "Sky colour?", "")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if _, err := cache.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	blue, err := svc.CreateAnswer(ctx, q.ID, "blue", "", true)
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}
	green, _ := svc.CreateAnswer(ctx, q.ID, "green", "", false)
	if blue.Position != 0 || green.Position != 1 {
		t.Fatalf("answers should append in order, got %d and %d", blue.Position, green.Position)
	}

	detail, _ := cache.GetQuiz(ctx, "quiz-1")
	if len(detail.Slides) != 1 || len(detail.Slides[0].Answers) != 2 || detail.Slides[0].Correct[0] != 0 {
		t.Fatalf("cache not refreshed after answer create: %+v", detail)
	}

	if err := svc.UpdateAnswer(ctx, green.ID, "green", true); err != nil {
		t.Fatalf("update answer: %v", err)
	}
	detail, _ = cache.GetQuiz(ctx, "quiz-1")
	if len(detail.Slides[0].Correct) != 2 {
		t.Fatalf("cache not refreshed after answer update: %+v", detail.Slides[0])
	}

	if err := svc.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	detail, _ = cache.GetQuiz(ctx, "quiz-1")
	if len(detail.Slides) != 0 {
		t.Fatalf("cache not refreshed after question delete: %+v", detail)
	}
	if _, err := svc.Answer(ctx, blue.ID); !errors.Is(err, domain.ErrAnswerNotFound) {
		t.Fatalf("answers should go with their question, got %v", err)
	}
}

func TestRecordStudentAnswerCopiesCorrectness(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewContentService(store, memory.NewQuizRepository(store, time.Minute), zerolog.Nop())
	_ = store.CreateQuiz(ctx, domain.Quiz{ID: "quiz-1", Name: "Colours", CreatedAt: time.Now()}, nil, nil)
	q, _ := svc.CreateQuestion(ctx, "quiz-1", "Sky colour?", "")
	blue, _ := svc.CreateAnswer(ctx, q.ID, "blue", "", true)
	other, _ := svc.CreateQuestion(ctx, "quiz-1", "Grass colour?", "")

	row, err := svc.RecordStudentAnswer(ctx, "s1", "quiz-1", q.ID, blue.ID)
	if err != nil || !row.IsCorrect {
		t.Fatalf("expected correct row, got %+v %v", row, err)
	}
	if _, err := svc.RecordStudentAnswer(ctx, "s1", "quiz-1", other.ID, blue.ID); !domain.IsValidation(err) {
		t.Fatalf("expected mismatch to be rejected, got %v", err)
	}
	if err := svc.UpdateStudentAnswer(ctx, row.ID, "", false); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.StudentAnswer(ctx, row.ID)
	if got.IsCorrect || got.AnswerID != blue.ID {
		t.Fatalf("unexpected row after update %+v", got)
	}
	if err := svc.DeleteStudentAnswer(ctx, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteStudentAnswer(ctx, row.ID); !errors.Is(err, domain.ErrStudentAnswerNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

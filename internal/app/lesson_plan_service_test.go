package app_test

import (
	"context"
	"errors"
	"testing"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
)

func TestLessonPlanFilesLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := app.NewLessonPlanService(newStore(t))

	plan, err := svc.Create(ctx, domain.LessonPlan{Month: "June 2025", Week: "Week 1", Category: "Numbers", Language: "English", Content: "1-10", GroupID: "g1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, domain.LessonPlan{Month: "June 2025"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.List(ctx, domain.LessonPlanFilter{Month: "June 2025"}); !domain.IsValidation(err) {
		t.Fatalf("list needs month, language and group, got %v", err)
	}
	listed, _ := svc.List(ctx, domain.LessonPlanFilter{Month: "June 2025", Language: "English", GroupID: "g1", Week: "Week 1"})
	if len(listed) != 1 {
		t.Fatalf("expected one plan, got %d", len(listed))
	}

	f, err := svc.AddFile(ctx, plan.ID, "https://files.test/worksheet.pdf", "worksheet.pdf")
	if err != nil {
		t.Fatalf("add file: %v", err)
	}
	if _, err := svc.AddFile(ctx, "missing", "https://files.test/x.pdf", "x.pdf"); !errors.Is(err, domain.ErrLessonPlanNotFound) {
		t.Fatalf("expected plan not found, got %v", err)
	}
	files, _ := svc.Files(ctx, plan.ID)
	if len(files) != 1 || files[0].ID != f.ID {
		t.Fatalf("unexpected files %+v", files)
	}

	plan.Content = "1-20"
	if _, err := svc.Update(ctx, plan); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(ctx, plan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteFile(ctx, f.ID); !errors.Is(err, domain.ErrFileNotFound) {
		t.Fatalf("files should be removed with the plan, got %v", err)
	}
	all, _ := svc.All(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no plans, got %d", len(all))
	}
}

func TestQuizFolders(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_ = store.CreateTeacher(ctx, domain.Teacher{ID: "t1", Name: "Ms Rivera", Email: "r@school.test", ClerkUserID: "user_t1"})
	svc := app.NewFolderService(store)

	folder, err := svc.Create(ctx, "user_t1", "Week 1", []string{"quiz-1", "quiz-2"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := svc.Create(ctx, "user_t1", "Bad", nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, "user_x", "Week 2", []string{}); !errors.Is(err, domain.ErrTeacherNotFound) {
		t.Fatalf("expected teacher not found, got %v", err)
	}
	folders, err := svc.ForTeacher(ctx, "user_t1")
	if err != nil || len(folders) != 1 || len(folders[0].QuizIDs) != 2 {
		t.Fatalf("unexpected folders %+v %v", folders, err)
	}
	if err := svc.Delete(ctx, folder.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

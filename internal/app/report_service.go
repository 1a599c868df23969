package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"classroom-service/internal/domain"
	"github.com/google/uuid"
)

const (
	GeneratedByAI      = "ai@system"
	GeneratedByTeacher = "teacher@manual"

	noTeacherComment = "No teacher comment provided."

	reportSystemPrompt = "You are an assistant that writes simple, encouraging student progress reports for teachers " +
		"based on dynamic subjects such as letters, numbers, emotions, shapes, or any other learning area. " +
		"Always be positive, specific, and focus on effort and improvement in plain text only. Never use Markdown."
)

type ReportStore interface {
	Report(ctx context.Context, studentID, month string) (domain.AIReport, error)
	SaveComment(ctx context.Context, r domain.AIReport) error
	SaveContent(ctx context.Context, r domain.AIReport) error
	StudentByID(ctx context.Context, id string) (domain.Student, error)
	TeacherByClerkID(ctx context.Context, clerkUserID string) (domain.Teacher, error)
	ListScores(ctx context.Context, f domain.ScoreFilter) ([]domain.AssessmentScore, error)
	ListLessonPlans(ctx context.Context, f domain.LessonPlanFilter) ([]domain.LessonPlan, error)
}

// Completer is a text-completion backend.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type ReportService struct {
	store ReportStore
	ai    Completer
	newID func() string
}

func NewReportService(store ReportStore, ai Completer) *ReportService {
	return &ReportService{store: store, ai: ai, newID: uuid.NewString}
}

// Get returns domain.ErrNotFound when no report exists for the month.
func (s *ReportService) Get(ctx context.Context, studentID, month string) (domain.AIReport, error) {
	if studentID == "" || month == "" {
		return domain.AIReport{}, domain.Invalid("student_id and month are required")
	}
	return s.store.Report(ctx, studentID, month)
}

func (s *ReportService) SaveComment(ctx context.Context, studentID, month, comment string) (domain.AIReport, error) {
	if studentID == "" || month == "" {
		return domain.AIReport{}, domain.Invalid("student_id and month are required")
	}
	err := s.store.SaveComment(ctx, domain.AIReport{ID: s.newID(), StudentID: studentID, Month: month, TeacherComment: comment})
	if err != nil {
		return domain.AIReport{}, err
	}
	return s.store.Report(ctx, studentID, month)
}

// EditContent overwrites the report body by hand.
func (s *ReportService) EditContent(ctx context.Context, studentID, month, content, generatedBy string) error {
	if studentID == "" || month == "" {
		return domain.Invalid("student_id and month are required")
	}
	if generatedBy == "" {
		generatedBy = GeneratedByTeacher
	}
	return s.store.SaveContent(ctx, domain.AIReport{
		ID:          s.newID(),
		StudentID:   studentID,
		Month:       month,
		Content:     content,
		GeneratedBy: generatedBy,
	})
}

// Generate drafts the month's report from scores, lesson plans and the
// teacher comment, then stores it.
func (s *ReportService) Generate(ctx context.Context, studentID, month, teacherClerkID, generatedBy string) (string, error) {
	if studentID == "" || month == "" {
		return "", domain.Invalid("student_id and month are required")
	}
	if generatedBy == "" {
		generatedBy = GeneratedByAI
	}
	student, err := s.store.StudentByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	teacher, err := s.store.TeacherByClerkID(ctx, teacherClerkID)
	if err != nil {
		return "", err
	}
	scores, err := s.store.ListScores(ctx, domain.ScoreFilter{StudentID: studentID, Month: month})
	if err != nil {
		return "", err
	}
	plans, err := s.store.ListLessonPlans(ctx, domain.LessonPlanFilter{Month: month, GroupID: student.GroupID})
	if err != nil {
		return "", err
	}
	comment := noTeacherComment
	existing, err := s.store.Report(ctx, studentID, month)
	switch {
	case err == nil && strings.TrimSpace(existing.TeacherComment) != "":
		comment = existing.TeacherComment
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return "", err
	}

	prompt := ReportPrompt(student.Name, teacher.Name, month, scores, plans, comment)
	text, err := s.ai.Complete(ctx, reportSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	err = s.store.SaveContent(ctx, domain.AIReport{
		ID:          s.newID(),
		StudentID:   studentID,
		Month:       month,
		Content:     text,
		GeneratedBy: generatedBy,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// ReportPrompt renders the user prompt for a monthly report.
func ReportPrompt(student, teacher, month string, scores []domain.AssessmentScore, plans []domain.LessonPlan, comment string) string {
	var subjects []string
	seen := map[string]bool{}
	addSubject := func(c string) {
		if !seen[c] {
			seen[c] = true
			subjects = append(subjects, c)
		}
	}

	var scoreLines []string
	for _, sc := range scores {
		addSubject(sc.Category)
		scoreLines = append(scoreLines, fmt.Sprintf("- %s: %s/%s", sc.Category, num(sc.RawScore), num(sc.MaxScore)))
	}

	var planOrder []string
	planItems := map[string][]string{}
	planSeen := map[string]map[string]bool{}
	for _, p := range plans {
		addSubject(p.Category)
		if planSeen[p.Category] == nil {
			planSeen[p.Category] = map[string]bool{}
			planOrder = append(planOrder, p.Category)
		}
		if !planSeen[p.Category][p.Content] {
			planSeen[p.Category][p.Content] = true
			planItems[p.Category] = append(planItems[p.Category], p.Content)
		}
	}
	planLines := make([]string, 0, len(planOrder))
	for _, c := range planOrder {
		planLines = append(planLines, fmt.Sprintf("- %s: %s", c, strings.Join(planItems[c], ", ")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a monthly student progress report for %s for %s.\n\n", student, month)
	b.WriteString("Subjects covered this month include the following categories based on assessments and lesson plans:\n")
	b.WriteString(strings.Join(subjects, ", "))
	b.WriteString(".\n\n")
	b.WriteString("Include the following sections exactly and do not skip any. For assessment scores, use the score numbers directly:\n")
	b.WriteString("Assessment Scores:\n")
	b.WriteString(strings.Join(scoreLines, "\n"))
	b.WriteString("\n\nMonthly Lesson Plans:\n")
	b.WriteString(strings.Join(planLines, "\n"))
	b.WriteString("\n\nTeacher Comments:\n")
	b.WriteString(comment)
	b.WriteString("\n\nWrite in simple, clear, teacher-style language and keep it specific to the subjects above.\n")
	b.WriteString("- Frame all feedback positively. Do not use words like \"struggled\", \"weak\" or \"failed\".\n")
	b.WriteString("- Emphasize effort, improvement and areas to keep working on with encouraging phrasing.\n")
	b.WriteString("- Do not bold any text.\n")
	b.WriteString("- Use the assessment scores and lesson plans to highlight specific achievements.\n")
	fmt.Fprintf(&b, "- End the report with: \"Regards, %s\"", teacher)
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

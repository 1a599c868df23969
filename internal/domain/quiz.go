package domain

import (
	"time"

	"github.com/uptrace/bun"
)

type Quiz struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID        string    `bun:"quiz_id,pk" json:"quiz_id"`
	Name      string    `bun:"quiz_name,notnull" json:"quiz_name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Question belongs to a quiz. Position keeps authoring order.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:qn"`

	ID       string `bun:"question_id,pk" json:"question_id"`
	QuizID   string `bun:"quiz_id,notnull" json:"quiz_id"`
	Text     string `bun:"question_text,notnull" json:"question_text"`
	MediaURL string `bun:"media_url" json:"media_url"`
	Position int    `bun:"position,notnull" json:"position"`
}

// Answer belongs to a question. Its index within the question is its Position order.
type Answer struct {
	bun.BaseModel `bun:"table:answers,alias:an"`

	ID         string `bun:"answer_id,pk" json:"answer_id"`
	QuestionID string `bun:"question_id,notnull" json:"question_id"`
	Text       string `bun:"answer_text,notnull" json:"answer_text"`
	ImageURL   string `bun:"image_url" json:"image_url"`
	IsCorrect  bool   `bun:"is_correct,notnull" json:"is_correct"`
	Position   int    `bun:"position,notnull" json:"position"`
}

// StudentAnswer records one selected answer with that answer's authored correctness.
type StudentAnswer struct {
	bun.BaseModel `bun:"table:student_answers,alias:sa"`

	ID         string    `bun:"response_id,pk" json:"response_id"`
	StudentID  string    `bun:"student_id,notnull" json:"student_id"`
	QuizID     string    `bun:"quiz_id,notnull" json:"quiz_id"`
	QuestionID string    `bun:"question_id,notnull" json:"question_id"`
	AnswerID   string    `bun:"answer_id,notnull" json:"answer_id"`
	IsCorrect  bool      `bun:"is_correct,notnull" json:"is_correct"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

type QuizGroup struct {
	bun.BaseModel `bun:"table:quiz_groups,alias:qg"`

	QuizID  string `bun:"quiz_id,pk" json:"quiz_id"`
	GroupID string `bun:"group_id,pk" json:"group_id"`
}

type QuizFolder struct {
	bun.BaseModel `bun:"table:quiz_folders,alias:qf"`

	ID        string `bun:"id,pk" json:"id"`
	Name      string `bun:"folder_name,notnull" json:"folder_name"`
	TeacherID string `bun:"teacher_id,notnull" json:"teacher_id"`

	QuizIDs []string `bun:"-" json:"quiz_ids"`
}

type QuizFolderQuiz struct {
	bun.BaseModel `bun:"table:quiz_folder_quizzes,alias:qfq"`

	FolderID string `bun:"folder_id,pk" json:"folder_id"`
	QuizID   string `bun:"quiz_id,pk" json:"quiz_id"`
}

// QuizSummary is a row of the quiz listing.
type QuizSummary struct {
	ID   string `json:"quiz_id"`
	Name string `json:"quiz_name"`
}

// QuizDetail is the read shape consumed by quiz takers and the scorer.
// Correct holds answer indices derived from each answer's IsCorrect flag.
type QuizDetail struct {
	ID     string  `json:"quiz_id"`
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

type Slide struct {
	QuestionID string        `json:"question_id"`
	Text       string        `json:"text"`
	Image      string        `json:"image"`
	Answers    []SlideAnswer `json:"answers"`
	Correct    []int         `json:"correct"`
}

type SlideAnswer struct {
	AnswerID   string `json:"answer_id"`
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
	Image      string `json:"image"`
}

// BuildQuizDetail assembles the detail view from rows ordered by position.
func BuildQuizDetail(quiz Quiz, questions []Question, answers map[string][]Answer) QuizDetail {
	detail := QuizDetail{ID: quiz.ID, Title: quiz.Name, Slides: make([]Slide, 0, len(questions))}
	for _, q := range questions {
		slide := Slide{
			QuestionID: q.ID,
			Text:       q.Text,
			Image:      q.MediaURL,
			Answers:    make([]SlideAnswer, 0, len(answers[q.ID])),
			Correct:    []int{},
		}
		for i, a := range answers[q.ID] {
			slide.Answers = append(slide.Answers, SlideAnswer{
				AnswerID:   a.ID,
				AnswerText: a.Text,
				IsCorrect:  a.IsCorrect,
				Image:      a.ImageURL,
			})
			if a.IsCorrect {
				slide.Correct = append(slide.Correct, i)
			}
		}
		detail.Slides = append(detail.Slides, slide)
	}
	return detail
}

// QuizResult is one graded student submission, pushed to live result feeds.
type QuizResult struct {
	QuizID      string    `json:"quiz_id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

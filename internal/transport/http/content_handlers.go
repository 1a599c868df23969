package http

import (
	"net/http"

	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type questionRequest struct {
	QuizID   string `json:"quiz_id" validate:"required"`
	Text     string `json:"question_text" validate:"required"`
	MediaURL string `json:"media_url"`
}

type questionUpdate struct {
	Text     string `json:"question_text" validate:"required"`
	MediaURL string `json:"media_url"`
}

type answerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Text       string `json:"answer_text" validate:"required"`
	ImageURL   string `json:"image_url"`
	IsCorrect  *bool  `json:"is_correct" validate:"required"`
}

type answerUpdate struct {
	Text      string `json:"answer_text"`
	IsCorrect *bool  `json:"is_correct" validate:"required"`
}

type studentAnswerRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	QuizID     string `json:"quiz_id" validate:"required"`
	QuestionID string `json:"question_id" validate:"required"`
	AnswerID   string `json:"answer_id" validate:"required"`
}

type studentAnswerUpdate struct {
	AnswerID  string `json:"answer_id"`
	IsCorrect *bool  `json:"is_correct" validate:"required"`
}

// listQuestions serves both /questions and /questions/quiz/{quizID}.
func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.content.Questions(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	row, err := s.content.Question(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.content.CreateQuestion(r.Context(), req.QuizID, req.Text, req.MediaURL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionUpdate
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.content.UpdateQuestion(r.Context(), chi.URLParam(r, "id"), req.Text, req.MediaURL); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteQuestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) listAnswers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.content.Answers(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getAnswer(w http.ResponseWriter, r *http.Request) {
	row, err := s.content.Answer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) createAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.content.CreateAnswer(r.Context(), req.QuestionID, req.Text, req.ImageURL, *req.IsCorrect)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) updateAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerUpdate
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.content.UpdateAnswer(r.Context(), chi.URLParam(r, "id"), req.Text, *req.IsCorrect); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) deleteAnswer(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteAnswer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

// listStudentAnswers serves the full listing and the per-student, per-quiz one.
// Students only see their own rows.
func (s *Server) listStudentAnswers(w http.ResponseWriter, r *http.Request) {
	f := domain.StudentAnswerFilter{StudentID: chi.URLParam(r, "studentID"), QuizID: chi.URLParam(r, "quizID")}
	if who := actor(r); who.Role == domain.RoleStudent {
		st, err := s.dashboard.Student(r.Context(), who.UserID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if st.ID != f.StudentID {
			s.fail(w, r, domain.ErrForbidden)
			return
		}
	}
	rows, err := s.content.StudentAnswers(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getStudentAnswer(w http.ResponseWriter, r *http.Request) {
	row, err := s.content.StudentAnswer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) createStudentAnswer(w http.ResponseWriter, r *http.Request) {
	var req studentAnswerRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.content.RecordStudentAnswer(r.Context(), req.StudentID, req.QuizID, req.QuestionID, req.AnswerID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) updateStudentAnswer(w http.ResponseWriter, r *http.Request) {
	var req studentAnswerUpdate
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.content.UpdateStudentAnswer(r.Context(), chi.URLParam(r, "id"), req.AnswerID, *req.IsCorrect); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) deleteStudentAnswer(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteStudentAnswer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

package http

import (
	"encoding/json"
	"net/http"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// answerInput accepts either a bare string or {answer_text, image}.
type answerInput struct {
	Text  string `json:"answer_text"`
	Image string `json:"image"`
}

func (a *answerInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = answerInput{Text: text}
		return nil
	}
	type plain answerInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = answerInput(p)
	return nil
}

type slideInput struct {
	Text    string        `json:"text" validate:"required"`
	Image   string        `json:"image"`
	Answers []answerInput `json:"answers"`
	Correct []int         `json:"correct"`
}

type createQuizRequest struct {
	Title  string       `json:"title" validate:"required"`
	Slides []slideInput `json:"slides" validate:"dive"`
}

type replaceQuizRequest struct {
	QuizName string       `json:"quiz_name" validate:"required"`
	Slides   []slideInput `json:"slides" validate:"dive"`
}

type submitRequest struct {
	Selections [][]int `json:"selections" validate:"required"`
}

type quizGroupsRequest struct {
	QuizID   string   `json:"quiz_id" validate:"required"`
	GroupIDs []string `json:"group_ids" validate:"required"`
}

type folderRequest struct {
	Name        string   `json:"folder_name" validate:"required"`
	QuizIDs     []string `json:"quiz_ids" validate:"required"`
	ClerkUserID string   `json:"clerk_user_id" validate:"required"`
}

func toDraft(title string, slides []slideInput) app.QuizDraft {
	draft := app.QuizDraft{Title: title, Slides: make([]app.SlideDraft, 0, len(slides))}
	for _, sl := range slides {
		answers := make([]app.AnswerDraft, 0, len(sl.Answers))
		for _, a := range sl.Answers {
			answers = append(answers, app.AnswerDraft{Text: a.Text, Image: a.Image})
		}
		draft.Slides = append(draft.Slides, app.SlideDraft{
			Text:    sl.Text,
			Image:   sl.Image,
			Answers: answers,
			Correct: sl.Correct,
		})
	}
	return draft
}

func (s *Server) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.quizzes.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	detail, err := s.quizzes.Get(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	quiz, err := s.quizzes.Create(r.Context(), toDraft(req.Title, req.Slides))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]domain.Quiz{"quiz": quiz})
}

func (s *Server) replaceQuiz(w http.ResponseWriter, r *http.Request) {
	var req replaceQuizRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.quizzes.Replace(r.Context(), chi.URLParam(r, "quizID"), toDraft(req.QuizName, req.Slides)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.quizzes.Delete(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// submitQuiz grades an attempt; the caller's role comes from the token.
func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	who := actor(r)
	out, err := s.quizzes.Submit(r.Context(), chi.URLParam(r, "quizID"), who, req.Selections)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.quizSubmitted(string(who.Role))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) quizGroups(w http.ResponseWriter, r *http.Request) {
	ids, err := s.quizzes.GroupIDs(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) setQuizGroups(w http.ResponseWriter, r *http.Request) {
	var req quizGroupsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.quizzes.SetGroups(r.Context(), req.QuizID, req.GroupIDs); err != nil {
		s.fail(w, r, err)
		return
	}
	rows := make([]domain.QuizGroup, 0, len(req.GroupIDs))
	for _, g := range req.GroupIDs {
		rows = append(rows, domain.QuizGroup{QuizID: req.QuizID, GroupID: g})
	}
	writeJSON(w, http.StatusCreated, rows)
}

func (s *Server) studentQuizzes(w http.ResponseWriter, r *http.Request) {
	clerkUserID := chi.URLParam(r, "clerkUserID")
	if err := self(r, clerkUserID); err != nil {
		s.fail(w, r, err)
		return
	}
	quizzes, err := s.quizzes.ForStudent(r.Context(), clerkUserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "clerk_user_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	folders, err := s.folders.ForTeacher(r.Context(), q["clerk_user_id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	folder, err := s.folders.Create(r.Context(), req.ClerkUserID, req.Name, req.QuizIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.folders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

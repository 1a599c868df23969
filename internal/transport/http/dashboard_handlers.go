package http

import (
	"errors"
	"net/http"

	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type commentRequest struct {
	StudentID      string `json:"student_id" validate:"required"`
	Month          string `json:"month" validate:"required"`
	TeacherComment string `json:"teacher_comment"`
}

type generateRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	Month       string `json:"month" validate:"required"`
	GeneratedBy string `json:"generated_by"`
}

type editContentRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	Month       string `json:"month" validate:"required"`
	Content     string `json:"content"`
	GeneratedBy string `json:"generated_by"`
}

func (s *Server) dashboardLessons(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "clerk_user_id", "month", "language")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := self(r, q["clerk_user_id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	plans, err := s.dashboard.Lessons(r.Context(), q["clerk_user_id"], q["month"], q["language"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// dashboardReport answers {} when nothing has been written yet.
func (s *Server) dashboardReport(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "student_id", "month")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if who := actor(r); who.Role == domain.RoleStudent {
		st, err := s.dashboard.Student(r.Context(), who.UserID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if st.ID != q["student_id"] {
			s.fail(w, r, domain.ErrForbidden)
			return
		}
	}
	view, err := s.dashboard.Report(r.Context(), q["student_id"], q["month"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) dashboardOverview(w http.ResponseWriter, r *http.Request) {
	clerkUserID := chi.URLParam(r, "clerkUserID")
	if err := self(r, clerkUserID); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.dashboard.Overview(r.Context(), clerkUserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "student_id", "month")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.reports.Get(r.Context(), q["student_id"], q["month"])
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) saveComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.reports.SaveComment(r.Context(), req.StudentID, req.Month, req.TeacherComment)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// generateReport writes the report as the calling teacher.
func (s *Server) generateReport(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	text, err := s.reports.Generate(r.Context(), req.StudentID, req.Month, actor(r).UserID, req.GeneratedBy)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "report": text})
}

func (s *Server) editReport(w http.ResponseWriter, r *http.Request) {
	var req editContentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reports.EditContent(r.Context(), req.StudentID, req.Month, req.Content, req.GeneratedBy); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

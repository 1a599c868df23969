package http

import (
	"net/http"

	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type groupRequest struct {
	Name string `json:"name" validate:"required"`
}

type studentRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Country        string `json:"country"`
	GroupID        string `json:"group_id"`
	ClerkUserID    string `json:"clerk_user_id"`
	ProfilePicture string `json:"profile_picture"`
}

func (p studentRequest) student(id string) domain.Student {
	return domain.Student{
		ID:             id,
		Name:           p.Name,
		Email:          p.Email,
		Country:        p.Country,
		GroupID:        p.GroupID,
		ClerkUserID:    p.ClerkUserID,
		ProfilePicture: p.ProfilePicture,
	}
}

type teacherRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Country     string `json:"country"`
	ClerkUserID string `json:"clerk_user_id" validate:"required"`
}

type teacherUpdate struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Country string `json:"country"`
}

type teacherGroupsRequest struct {
	GroupIDs []string `json:"group_ids" validate:"required"`
}

type teacherCreated struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    domain.Teacher `json:"data"`
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.roster.Groups(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) groupsForTeacher(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "clerk_user_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	groups, err := s.roster.GroupsForTeacher(r.Context(), q["clerk_user_id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.roster.CreateGroup(r.Context(), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.roster.Students(r.Context(), r.URL.Query().Get("group_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) createStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.roster.CreateStudent(r.Context(), req.student(""))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) updateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.roster.UpdateStudent(r.Context(), req.student(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) studentsForTeacher(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "clerk_user_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	students, err := s.roster.StudentsForTeacher(r.Context(), q["clerk_user_id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) studentSelfSummary(w http.ResponseWriter, r *http.Request) {
	clerkUserID := chi.URLParam(r, "clerkUserID")
	if err := self(r, clerkUserID); err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := query(r, "month")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.dashboard.Summary(r.Context(), clerkUserID, q["month"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// createTeacher answers 200 both for a new row and for an existing email.
func (s *Server) createTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, existed, err := s.roster.CreateTeacher(r.Context(), domain.Teacher{
		Name:        req.Name,
		Email:       req.Email,
		Country:     req.Country,
		ClerkUserID: req.ClerkUserID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := teacherCreated{Success: true, Data: t}
	if existed {
		out.Message = "Teacher already exists"
	}
	writeJSON(w, http.StatusOK, out)
}

// teacherByClerkID answers null when nobody is linked.
func (s *Server) teacherByClerkID(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "clerk_user_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.roster.TeacherByClerkID(r.Context(), q["clerk_user_id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) teachersWithGroups(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.roster.TeachersWithGroups(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (s *Server) updateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherUpdate
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.roster.UpdateTeacher(r.Context(), domain.Teacher{
		ID:      chi.URLParam(r, "id"),
		Name:    req.Name,
		Email:   req.Email,
		Country: req.Country,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) setTeacherGroups(w http.ResponseWriter, r *http.Request) {
	var req teacherGroupsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.roster.SetTeacherGroups(r.Context(), chi.URLParam(r, "id"), req.GroupIDs); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

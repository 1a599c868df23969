package http

import (
	"fmt"
	"net/http"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type attendanceRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=P A H"`
	Month     string `json:"month" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

type attendanceUpdate struct {
	Status string `json:"status" validate:"required,oneof=P A H"`
}

type monthRequest struct {
	Month string `json:"month" validate:"required"`
}

type scoreRequest struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Category    string  `json:"category" validate:"required"`
	RawScore    float64 `json:"raw_score" validate:"gte=0"`
	MaxScore    float64 `json:"max_score" validate:"gte=0"`
	Language    string  `json:"language" validate:"required"`
	Month       string  `json:"month" validate:"required"`
	Week        string  `json:"week"`
	WeekStart   string  `json:"week_start"`
	WeekEnd     string  `json:"week_end"`
}

type scoreUpdate struct {
	RawScore float64 `json:"raw_score" validate:"gte=0"`
	MaxScore float64 `json:"max_score" validate:"gte=0"`
}

type lessonPlanRequest struct {
	Month     string `json:"month" validate:"required"`
	Week      string `json:"week"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Category  string `json:"category" validate:"required"`
	Language  string `json:"language" validate:"required"`
	Content   string `json:"content"`
	GroupID   string `json:"group_id"`
}

func (p lessonPlanRequest) plan(id string) domain.LessonPlan {
	return domain.LessonPlan{
		ID:        id,
		Month:     p.Month,
		Week:      p.Week,
		WeekStart: p.WeekStart,
		WeekEnd:   p.WeekEnd,
		Category:  p.Category,
		Language:  p.Language,
		Content:   p.Content,
		GroupID:   p.GroupID,
	}
}

type fileRequest struct {
	FileURL  string `json:"file_url" validate:"required"`
	FileName string `json:"file_name"`
}

func (s *Server) listAttendance(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "month", "group_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := s.attendance.List(r.Context(), q["month"], q["group_id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) recordAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := s.attendance.Record(r.Context(), domain.AttendanceEntry{
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    domain.AttendanceStatus(req.Status),
		Month:     req.Month,
		Country:   req.Country,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Attendance recorded", "data": entry})
}

func (s *Server) updateAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceUpdate
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := s.attendance.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.AttendanceStatus(req.Status))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Attendance updated successfully", "data": entry})
}

func (s *Server) fillHolidays(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.attendance.FillHolidays(r.Context(), req.Month)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": fmt.Sprintf("Inserted %d H entries", n), "inserted": n})
}

func (s *Server) listScores(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "month", "language", "group_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := s.assessments.List(r.Context(), domain.ScoreFilter{
		Month:    q["month"],
		Language: q["language"],
		GroupID:  q["group_id"],
		Week:     r.URL.Query().Get("week"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) recordScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.assessments.Record(r.Context(), app.ScoreInput{
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		Category:    req.Category,
		RawScore:    req.RawScore,
		MaxScore:    req.MaxScore,
		Language:    req.Language,
		Month:       req.Month,
		Week:        req.Week,
		WeekStart:   req.WeekStart,
		WeekEnd:     req.WeekEnd,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) updateScore(w http.ResponseWriter, r *http.Request) {
	var req scoreUpdate
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.assessments.Update(r.Context(), chi.URLParam(r, "id"), req.RawScore, req.MaxScore)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) weeklyAttendance(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "group_id", "week_start")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.stats.Weekly(r.Context(), q["group_id"], q["week_start"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) dailyAttendance(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "group_id", "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.stats.Daily(r.Context(), q["group_id"], q["date"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) studentPercentages(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "group_id", "month")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.stats.StudentPercentages(r.Context(), q["group_id"], q["month"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) monthlyCategories(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "group_id", "month")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.stats.MonthlyCategories(r.Context(), q["group_id"], q["month"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) studentSummary(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "student_id", "month")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.stats.StudentSummary(r.Context(), q["student_id"], q["month"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listLessonPlans(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "month", "language", "group_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := s.lessonPlans.List(r.Context(), domain.LessonPlanFilter{
		Month:    q["month"],
		Language: q["language"],
		GroupID:  q["group_id"],
		Week:     r.URL.Query().Get("week"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) allLessonPlans(w http.ResponseWriter, r *http.Request) {
	rows, err := s.lessonPlans.All(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) createLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req lessonPlanRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.lessonPlans.Create(r.Context(), req.plan(""))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) updateLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req lessonPlanRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.lessonPlans.Update(r.Context(), req.plan(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) deleteLessonPlan(w http.ResponseWriter, r *http.Request) {
	if err := s.lessonPlans.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) lessonPlanFiles(w http.ResponseWriter, r *http.Request) {
	rows, err := s.lessonPlans.Files(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) addLessonPlanFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := s.lessonPlans.AddFile(r.Context(), chi.URLParam(r, "id"), req.FileURL, req.FileName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) deleteLessonPlanFile(w http.ResponseWriter, r *http.Request) {
	if err := s.lessonPlans.DeleteFile(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

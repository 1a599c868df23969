package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Role is the identity-provider role claim.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// AttendanceStatus is one of P (present), A (absent) or H (holiday).
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "P"
	StatusAbsent  AttendanceStatus = "A"
	StatusHoliday AttendanceStatus = "H"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHoliday:
		return true
	}
	return false
}

type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID   string `bun:"id,pk" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:t"`

	ID          string `bun:"id,pk" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	Email       string `bun:"email,notnull,unique" json:"email"`
	Country     string `bun:"country" json:"country"`
	ClerkUserID string `bun:"clerk_user_id" json:"clerk_user_id"`

	// Groups holds group names; filled by the with-groups listing only.
	Groups []string `bun:"-" json:"groups,omitempty"`
}

// GroupTeacher links a teacher to a group they teach.
type GroupTeacher struct {
	bun.BaseModel `bun:"table:group_teachers,alias:gt"`

	TeacherID string `bun:"teacher_id,pk" json:"teacher_id"`
	GroupID   string `bun:"group_id,pk" json:"group_id"`
}

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID             string `bun:"id,pk" json:"id"`
	Name           string `bun:"name,notnull" json:"name"`
	Email          string `bun:"email" json:"email"`
	Country        string `bun:"country" json:"country"`
	GroupID        string `bun:"group_id" json:"group_id"`
	ClerkUserID    string `bun:"clerk_user_id" json:"clerk_user_id"`
	ProfilePicture string `bun:"profile_picture" json:"profile_picture"`

	Group *Group `bun:"rel:belongs-to,join:group_id=id" json:"groups,omitempty"`
}

type AttendanceEntry struct {
	bun.BaseModel `bun:"table:attendance_entries,alias:ae"`

	ID        string           `bun:"id,pk" json:"id"`
	StudentID string           `bun:"student_id,notnull,unique:ux_attendance_student_date" json:"student_id"`
	Date      string           `bun:"date,notnull,unique:ux_attendance_student_date" json:"date"`
	Status    AttendanceStatus `bun:"status,notnull" json:"status"`
	Month     string           `bun:"month,notnull" json:"month"`
	Country   string           `bun:"country" json:"country"`
	GroupID   string           `bun:"group_id" json:"group_id"`

	Student *Student `bun:"rel:belongs-to,join:student_id=id" json:"students,omitempty"`
}

type AssessmentScore struct {
	bun.BaseModel `bun:"table:assessment_scores,alias:sc"`

	ID        string  `bun:"id,pk" json:"id"`
	StudentID string  `bun:"student_id,notnull,unique:ux_score_key" json:"student_id"`
	Category  string  `bun:"category,notnull,unique:ux_score_key" json:"category"`
	RawScore  float64 `bun:"raw_score,notnull" json:"raw_score"`
	MaxScore  float64 `bun:"max_score,notnull" json:"max_score"`
	Language  string  `bun:"language,notnull,unique:ux_score_key" json:"language"`
	Month     string  `bun:"month,notnull,unique:ux_score_key" json:"month"`
	Week      string  `bun:"week,notnull,unique:ux_score_key" json:"week"`
	WeekStart string  `bun:"week_start" json:"week_start"`
	WeekEnd   string  `bun:"week_end" json:"week_end"`
	GroupID   string  `bun:"group_id" json:"group_id"`

	Student *Student `bun:"rel:belongs-to,join:student_id=id" json:"students,omitempty"`
}

type LessonPlan struct {
	bun.BaseModel `bun:"table:lesson_plans,alias:lp"`

	ID        string `bun:"id,pk" json:"id"`
	Month     string `bun:"month,notnull" json:"month"`
	Week      string `bun:"week" json:"week"`
	WeekStart string `bun:"week_start" json:"week_start"`
	WeekEnd   string `bun:"week_end" json:"week_end"`
	Category  string `bun:"category,notnull" json:"category"`
	Language  string `bun:"language,notnull" json:"language"`
	Content   string `bun:"content" json:"content"`
	GroupID   string `bun:"group_id" json:"group_id"`
}

// LessonPlanFile is metadata for a file stored outside the service.
type LessonPlanFile struct {
	bun.BaseModel `bun:"table:lesson_plan_files,alias:lpf"`

	ID           string `bun:"id,pk" json:"id"`
	LessonPlanID string `bun:"lesson_plan_id,notnull" json:"lesson_plan_id"`
	FileURL      string `bun:"file_url,notnull" json:"file_url"`
	FileName     string `bun:"file_name" json:"file_name"`
}

// AIReport is the monthly progress report for one student.
type AIReport struct {
	bun.BaseModel `bun:"table:ai_reports,alias:ar"`

	ID             string    `bun:"id,pk" json:"id"`
	StudentID      string    `bun:"student_id,notnull,unique:ux_report_student_month" json:"student_id"`
	Month          string    `bun:"month,notnull,unique:ux_report_student_month" json:"month"`
	Content        string    `bun:"content" json:"content"`
	TeacherComment string    `bun:"teacher_comment" json:"teacher_comment"`
	GeneratedBy    string    `bun:"generated_by" json:"generated_by"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// StudentSummary is a student's monthly headline numbers.
type StudentSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ProfilePicture    string `json:"profile_picture,omitempty"`
	AttendancePercent int    `json:"attendancePercent"`
	AssessmentPercent int    `json:"assessmentPercent"`
}

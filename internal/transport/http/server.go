package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/auth"
	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Translator turns text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Deps is everything the HTTP layer needs from the rest of the service.
type Deps struct {
	Quizzes     *app.QuizService
	Content     *app.ContentService
	Roster      *app.RosterService
	Attendance  *app.AttendanceService
	Assessments *app.AssessmentService
	Stats       *app.StatsService
	Dashboard   *app.DashboardService
	LessonPlans *app.LessonPlanService
	Folders     *app.FolderService
	Reports     *app.ReportService
	Identity    *app.IdentityService
	Translator  Translator

	Auth          *auth.Service
	Metrics       *Metrics
	WebhookSecret string
	CORSOrigins   []string
	Timeout       time.Duration
	ReportTimeout time.Duration
	Log           zerolog.Logger
}

type Server struct {
	quizzes     *app.QuizService
	content     *app.ContentService
	roster      *app.RosterService
	attendance  *app.AttendanceService
	assessments *app.AssessmentService
	stats       *app.StatsService
	dashboard   *app.DashboardService
	lessonPlans *app.LessonPlanService
	folders     *app.FolderService
	reports     *app.ReportService
	identity    *app.IdentityService
	translator  Translator
	results     *ResultsHandler

	auth          *auth.Service
	metrics       *Metrics
	webhookSecret string
	corsOrigins   []string
	timeout       time.Duration
	reportTimeout time.Duration
	log           zerolog.Logger
}

func NewServer(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	if d.ReportTimeout <= 0 {
		d.ReportTimeout = 2 * time.Minute
	}
	return &Server{
		quizzes:       d.Quizzes,
		content:       d.Content,
		roster:        d.Roster,
		attendance:    d.Attendance,
		assessments:   d.Assessments,
		stats:         d.Stats,
		dashboard:     d.Dashboard,
		lessonPlans:   d.LessonPlans,
		folders:       d.Folders,
		reports:       d.Reports,
		identity:      d.Identity,
		translator:    d.Translator,
		results:       NewResultsHandler(d.Quizzes, d.Log, originAllowed(d.CORSOrigins)),
		auth:          d.Auth,
		metrics:       d.Metrics,
		webhookSecret: d.WebhookSecret,
		corsOrigins:   d.CORSOrigins,
		timeout:       d.Timeout,
		reportTimeout: d.ReportTimeout,
		log:           d.Log,
	}
}

// Router wires every route. Websocket feeds sit outside the request timeout.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(s.metrics.Instrument)
	r.Use(middleware.Recoverer)
	allowed := originAllowed(s.corsOrigins)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, origin string) bool { return allowed(origin) },
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())
	r.Post("/webhooks/clerk", s.clerkWebhook)

	teacher := auth.Require(domain.RoleTeacher)
	member := auth.Require(domain.RoleTeacher, domain.RoleStudent)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.With(teacher).Get("/ws/quizzes/{quizID}/results", s.results.ServeResults)
		r.Route("/reports", s.reportRoutes(teacher))
		r.Route("/ai-reports", s.reportRoutes(teacher))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.timeout))

			r.Route("/quizzes", func(r chi.Router) {
				r.With(member).Get("/", s.listQuizzes)
				r.With(member).Get("/{quizID}", s.getQuiz)
				r.With(member).Post("/{quizID}/submit", s.submitQuiz)
				r.With(teacher).Post("/", s.createQuiz)
				r.With(teacher).Put("/{quizID}", s.replaceQuiz)
				r.With(teacher).Delete("/{quizID}", s.deleteQuiz)
			})
			r.Route("/quiz-groups", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/{quizID}", s.quizGroups)
				r.Post("/", s.setQuizGroups)
			})
			r.With(member).Get("/student-quizzes/{clerkUserID}", s.studentQuizzes)
			r.Route("/quiz-folders", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/", s.listFolders)
				r.Post("/", s.createFolder)
				r.Delete("/{id}", s.deleteFolder)
			})

			r.Route("/questions", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/", s.listQuestions)
				r.Get("/quiz/{quizID}", s.listQuestions)
				r.Get("/{id}", s.getQuestion)
				r.Post("/", s.createQuestion)
				r.Put("/{id}", s.updateQuestion)
				r.Delete("/{id}", s.deleteQuestion)
			})
			r.Route("/answers", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/", s.listAnswers)
				r.Get("/question/{questionID}", s.listAnswers)
				r.Get("/{id}", s.getAnswer)
				r.Post("/", s.createAnswer)
				r.Put("/{id}", s.updateAnswer)
				r.Delete("/{id}", s.deleteAnswer)
			})
			r.Route("/student-answers", func(r chi.Router) {
				r.With(member).Get("/student/{studentID}/quiz/{quizID}", s.listStudentAnswers)
				r.With(teacher).Get("/", s.listStudentAnswers)
				r.With(teacher).Get("/{id}", s.getStudentAnswer)
				r.With(teacher).Post("/", s.createStudentAnswer)
				r.With(teacher).Put("/{id}", s.updateStudentAnswer)
				r.With(teacher).Delete("/{id}", s.deleteStudentAnswer)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/", s.listAttendance)
				r.Post("/", s.recordAttendance)
				r.Post("/fill-holidays", s.fillHolidays)
				r.Put("/{id}", s.updateAttendance)
			})
			r.Route("/assessments", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/", s.listScores)
				r.Post("/", s.recordScore)
				r.Put("/{id}", s.updateScore)
			})
			r.Route("/stats", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/attendance/weekly", s.weeklyAttendance)
				r.Get("/attendance/daily", s.dailyAttendance)
				r.Get("/attendance/student-percentages", s.studentPercentages)
				r.Get("/assessments/monthly-categories", s.monthlyCategories)
				r.Get("/student-summary", s.studentSummary)
			})
			r.Route("/lesson-plans", func(r chi.Router) {
				r.Use(teacher)
				r.Get("/", s.listLessonPlans)
				r.Get("/all", s.allLessonPlans)
				r.Post("/", s.createLessonPlan)
				r.Put("/{id}", s.updateLessonPlan)
				r.Delete("/{id}", s.deleteLessonPlan)
				r.Get("/{id}/files", s.lessonPlanFiles)
				r.Post("/{id}/files", s.addLessonPlanFile)
				r.Delete("/files/{id}", s.deleteLessonPlanFile)
			})

			r.Route("/groups", func(r chi.Router) {
				r.With(member).Get("/", s.listGroups)
				r.With(teacher).Get("/for-teacher", s.groupsForTeacher)
				r.With(teacher).Post("/", s.createGroup)
			})
			r.Route("/students", func(r chi.Router) {
				r.With(teacher).Get("/", s.listStudents)
				r.With(teacher).Post("/", s.createStudent)
				r.With(teacher).Put("/{id}", s.updateStudent)
				r.With(teacher).Get("/for-teacher", s.studentsForTeacher)
				r.With(member).Get("/summary/{clerkUserID}", s.studentSelfSummary)
			})
			r.Route("/teachers", func(r chi.Router) {
				r.With(teacher).Post("/", s.createTeacher)
				r.With(member).Get("/by-clerk-id", s.teacherByClerkID)
				r.With(teacher).Get("/with-groups", s.teachersWithGroups)
				r.With(teacher).Put("/{id}", s.updateTeacher)
				r.With(teacher).Put("/{id}/groups", s.setTeacherGroups)
			})
			r.Route("/student-dashboard", func(r chi.Router) {
				r.Use(member)
				r.Get("/lessons", s.dashboardLessons)
				r.Get("/reports", s.dashboardReport)
				r.Get("/{clerkUserID}", s.dashboardOverview)
			})

			r.With(teacher).Post("/set-role", s.setRole)
			r.With(member).Post("/translate", s.translate)
		})
	})
	return r
}

// reportRoutes carries its own timeouts: generation waits on the completion API.
func (s *Server) reportRoutes(guard func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(guard)
		r.With(middleware.Timeout(s.reportTimeout)).Post("/generate-report", s.generateReport)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.timeout))
			r.Get("/", s.getReport)
			r.Post("/comment", s.saveComment)
			r.Post("/edit-content", s.editReport)
		})
	}
}

// originAllowed matches browser origins exactly against the configured list.
// An empty list allows no cross-origin callers.
func originAllowed(origins []string) func(string) bool {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(origin string) bool {
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// self rejects a student reading another user's data. Teachers may read anyone's.
func self(r *http.Request, clerkUserID string) error {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		return domain.ErrUnauthorized
	}
	if id.Role == domain.RoleStudent && id.Subject != clerkUserID {
		return domain.ErrForbidden
	}
	return nil
}

func actor(r *http.Request) app.Actor {
	id, _ := auth.FromContext(r.Context())
	return app.Actor{UserID: id.Subject, Role: id.Role}
}

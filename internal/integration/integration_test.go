package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/grading"
	"classroom-service/internal/infra/database"
	pgloader "classroom-service/internal/infra/postgres"
	infraredis "classroom-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSubmitQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	store := openStore(t, ctx, pgURL)
	seedRoster(t, ctx, store)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	cache := infraredis.NewQuizRepository(redisClient, pgloader.NewQuizLoader(pool), 5*time.Minute)
	feed := infraredis.NewResultBroker(redisClient)
	service := app.NewQuizService(store, cache, feed, grading.NewGrader(grading.DefaultEmptyKeyPolicy), zerolog.Nop())

	quiz, err := service.Create(ctx, app.QuizDraft{
		Title: "Shapes",
		Slides: []app.SlideDraft{
			{Text: "Round?", Answers: []app.AnswerDraft{{Text: "circle"}, {Text: "square"}}, Correct: []int{0}},
			{Text: "Four sides?", Answers: []app.AnswerDraft{{Text: "square"}, {Text: "triangle"}, {Text: "rectangle"}}, Correct: []int{0, 2}},
		},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	detail, err := service.Get(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if len(detail.Slides) != 2 || len(detail.Slides[1].Answers) != 3 {
		t.Fatalf("unexpected detail from pgx loader: %+v", detail)
	}

	results, cancel, err := service.Subscribe(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	out, err := service.Submit(ctx, quiz.ID, app.Actor{UserID: "user_mia", Role: domain.RoleStudent}, [][]int{{0}, {2, 0}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 2 || out.Total != 2 || out.Saved != 3 {
		t.Fatalf("unexpected submission %+v", out)
	}

	select {
	case res := <-results:
		if res.StudentName != "Mia" || res.Score != 2 {
			t.Fatalf("unexpected result %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no result published through redis")
	}

	rows, err := store.ListStudentAnswers(ctx, domain.StudentAnswerFilter{StudentID: "s1", QuizID: quiz.ID})
	if err != nil {
		t.Fatalf("list student answers: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 stored answers, got %d", len(rows))
	}
}

func TestAttendanceUpsertAndBackfillOnPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	store := openStore(t, ctx, pgURL)
	seedRoster(t, ctx, store)
	service := app.NewAttendanceService(store, zerolog.Nop())

	entry := domain.AttendanceEntry{StudentID: "s1", Date: "2025-06-02", Status: domain.StatusAbsent, Month: "June 2025", Country: "UK"}
	if _, err := service.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	entry.Status = domain.StatusPresent
	saved, err := service.Record(ctx, entry)
	if err != nil {
		t.Fatalf("re-record: %v", err)
	}
	if saved.Status != domain.StatusPresent {
		t.Fatalf("expected upsert to overwrite status, got %s", saved.Status)
	}

	n, err := service.FillHolidays(ctx, "June 2025")
	if err != nil {
		t.Fatalf("fill holidays: %v", err)
	}
	if n != 29 {
		t.Fatalf("expected 29 holiday rows, got %d", n)
	}
	again, err := service.FillHolidays(ctx, "June 2025")
	if err != nil || again != 0 {
		t.Fatalf("second backfill should insert nothing, got %d %v", again, err)
	}
}

func openStore(t *testing.T, ctx context.Context, dsn string) *database.Store {
	t.Helper()
	db, err := database.Open(ctx, database.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database.NewStore(db)
}

func seedRoster(t *testing.T, ctx context.Context, store *database.Store) {
	t.Helper()
	if err := store.CreateGroup(ctx, domain.Group{ID: "g1", Name: "Sunflowers"}); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	if err := store.CreateStudent(ctx, domain.Student{ID: "s1", Name: "Mia", GroupID: "g1", ClerkUserID: "user_mia", Country: "UK"}); err != nil {
		t.Fatalf("seed student: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "classroom", "POSTGRES_PASSWORD": "classroompass", "POSTGRES_DB": "classroom"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://classroom:classroompass@%s:%s/classroom?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

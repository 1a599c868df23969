package cli

import (
	"context"
	"fmt"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/auth"
	"classroom-service/internal/config"
	"classroom-service/internal/grading"
	"classroom-service/internal/infra/clerk"
	"classroom-service/internal/infra/database"
	"classroom-service/internal/infra/memory"
	"classroom-service/internal/infra/openrouter"
	pgloader "classroom-service/internal/infra/postgres"
	rediscache "classroom-service/internal/infra/redis"
	"classroom-service/internal/infra/translate"
	transport "classroom-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const clientTimeout = 30 * time.Second

// runtime holds every long-lived dependency of the server.
type runtime struct {
	deps    transport.Deps
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// build connects the database and caches and assembles the services. Redis
// replaces the in-process cache and result feed when an address is set, and a
// pgx pool serves quiz detail reads when the database is Postgres.
func build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*runtime, error) {
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret not configured")
	}
	policy, err := grading.ParseEmptyKeyPolicy(cfg.Quiz.EmptyKeyPolicy)
	if err != nil {
		return nil, err
	}

	rt := &runtime{}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = db.Close() })
	if _, err := database.Migrate(ctx, db); err != nil {
		rt.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	store := database.NewStore(db)

	var loader memory.QuizLoader = store
	if database.Driver(cfg.Database.Driver) == database.DriverPostgres {
		pool, err := pgxpool.Connect(ctx, cfg.Database.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var (
		cache app.QuizRepository
		feed  app.ResultFeed
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		cache = rediscache.NewQuizRepository(client, loader, quizTTL)
		feed = rediscache.NewResultBroker(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis quiz cache and result feed")
	} else {
		cache = memory.NewQuizRepository(loader, quizTTL)
		feed = memory.NewResultBroker()
	}

	roles := clerk.New(clerk.Config{APIURL: cfg.Clerk.APIURL, SecretKey: cfg.Clerk.SecretKey, Timeout: clientTimeout})
	completionTimeout := config.TTLDuration(cfg.OpenRouter.Timeout, time.Minute)
	completer := openrouter.New(openrouter.Config{
		URL:     cfg.OpenRouter.URL,
		APIKey:  cfg.OpenRouter.APIKey,
		Model:   cfg.OpenRouter.Model,
		Referer: cfg.OpenRouter.Referer,
		Timeout: completionTimeout,
	})
	translator := translate.New(translate.Config{URL: cfg.Translate.URL, APIKey: cfg.Translate.APIKey, Timeout: clientTimeout})

	rt.deps = transport.Deps{
		Quizzes:       app.NewQuizService(store, cache, feed, grading.NewGrader(policy), log),
		Content:       app.NewContentService(store, cache, log),
		Roster:        app.NewRosterService(store),
		Attendance:    app.NewAttendanceService(store, log),
		Assessments:   app.NewAssessmentService(store),
		Stats:         app.NewStatsService(store),
		Dashboard:     app.NewDashboardService(store),
		LessonPlans:   app.NewLessonPlanService(store),
		Folders:       app.NewFolderService(store),
		Reports:       app.NewReportService(store, completer),
		Identity:      app.NewIdentityService(store, roles, log),
		Translator:    translator,
		Auth:          newAuth(cfg),
		WebhookSecret: cfg.Clerk.WebhookSecret,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Timeout:       config.TTLDuration(cfg.Server.RequestTimeout, 30*time.Second),
		ReportTimeout: completionTimeout + 15*time.Second,
		Log:           log,
	}
	return rt, nil
}

func newAuth(cfg config.Config) *auth.Service {
	return auth.NewService(cfg.Auth.Secret, cfg.Auth.Issuer, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
}

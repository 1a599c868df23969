package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/grading"
	"classroom-service/internal/infra/database"
	"classroom-service/internal/infra/memory"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newStore(t *testing.T) *database.Store {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database.NewStore(db)
}

type quizFixture struct {
	store   *database.Store
	cache   *memory.QuizRepository
	broker  *memory.ResultBroker
	service *app.QuizService
}

func newQuizFixture(t *testing.T, policy grading.EmptyKeyPolicy) quizFixture {
	t.Helper()
	store := newStore(t)
	cache := memory.NewQuizRepository(store, time.Minute)
	broker := memory.NewResultBroker()
	return quizFixture{
		store:   store,
		cache:   cache,
		broker:  broker,
		service: app.NewQuizService(store, cache, broker, grading.NewGrader(policy), zerolog.Nop()),
	}
}

func seedStudent(t *testing.T, store *database.Store, st domain.Student) {
	t.Helper()
	ctx := context.Background()
	if st.GroupID != "" {
		groups, _ := store.ListGroups(ctx)
		exists := false
		for _, g := range groups {
			exists = exists || g.ID == st.GroupID
		}
		if !exists {
			if err := store.CreateGroup(ctx, domain.Group{ID: st.GroupID, Name: "Group " + st.GroupID}); err != nil {
				t.Fatalf("seed group: %v", err)
			}
		}
	}
	if err := store.CreateStudent(ctx, st); err != nil {
		t.Fatalf("seed student: %v", err)
	}
}

type fakeRoles struct {
	mu    sync.Mutex
	calls map[string]domain.Role
	err   error
}

func (f *fakeRoles) SetRole(_ context.Context, userID string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.calls == nil {
		f.calls = map[string]domain.Role{}
	}
	f.calls[userID] = role
	return nil
}

type fakeCompleter struct {
	system, prompt string
	reply          string
	err            error
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.reply, f.err
}

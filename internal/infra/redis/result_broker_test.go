package redis

import (
	"context"
	"testing"
	"time"

	"classroom-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestResultBrokerRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	broker := NewResultBroker(newClient(mr))

	ch, cancel, err := broker.Subscribe(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	// A second broker stands in for another service instance.
	other := NewResultBroker(newClient(mr))
	want := domain.QuizResult{QuizID: "quiz-1", StudentID: "s1", StudentName: "Ana", Score: 2, Total: 3}
	if err := other.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-ch:
		if got.StudentID != want.StudentID || got.Score != want.Score || got.Total != want.Total {
			t.Fatalf("unexpected result %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for result")
	}
}

func TestResultBrokerCancelClosesChannel(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	broker := NewResultBroker(newClient(mr))
	ch, cancel, err := broker.Subscribe(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}

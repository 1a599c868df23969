package memory

import (
	"context"
	"sync"

	"classroom-service/internal/domain"
)

const subscriberBuffer = 8

// ResultBroker fans quiz results out to in-process subscribers, one topic per quiz.
type ResultBroker struct {
	mu     sync.Mutex
	topics map[string]map[chan domain.QuizResult]struct{}
}

func NewResultBroker() *ResultBroker {
	return &ResultBroker{topics: make(map[string]map[chan domain.QuizResult]struct{})}
}

// Publish never blocks: a full subscriber loses its oldest pending result.
func (b *ResultBroker) Publish(_ context.Context, result domain.QuizResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.topics[result.QuizID] {
		select {
		case ch <- result:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
	return nil
}

// Subscribe registers a listener for a quiz. The caller must invoke cancel.
func (b *ResultBroker) Subscribe(_ context.Context, quizID string) (<-chan domain.QuizResult, func(), error) {
	ch := make(chan domain.QuizResult, subscriberBuffer)

	b.mu.Lock()
	subs, ok := b.topics[quizID]
	if !ok {
		subs = make(map[chan domain.QuizResult]struct{})
		b.topics[quizID] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.topics[quizID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(b.topics, quizID)
		}
	}
	return ch, cancel, nil
}

// Subscribers reports how many listeners a quiz has.
func (b *ResultBroker) Subscribers(quizID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[quizID])
}

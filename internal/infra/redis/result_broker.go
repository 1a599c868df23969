package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"classroom-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultBroker publishes quiz results over Redis pub/sub so every instance's
// websocket subscribers see submissions handled elsewhere.
type ResultBroker struct {
	client *redis.Client
}

func NewResultBroker(client *redis.Client) *ResultBroker {
	return &ResultBroker{client: client}
}

func (b *ResultBroker) Publish(ctx context.Context, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, resultsChannel(result.QuizID), data).Err(); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// Subscribe waits for the subscription to be confirmed before returning. The caller must invoke cancel.
func (b *ResultBroker) Subscribe(ctx context.Context, quizID string) (<-chan domain.QuizResult, func(), error) {
	ps := b.client.Subscribe(ctx, resultsChannel(quizID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe results: %w", err)
	}

	out := make(chan domain.QuizResult, 8)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var result domain.QuizResult
			if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
				continue
			}
			select {
			case out <- result:
			default:
				// slow consumer: drop the oldest pending result
				select {
				case <-out:
				default:
				}
				out <- result
			}
		}
	}()

	cancel := func() { _ = ps.Close() }
	return out, cancel, nil
}

func resultsChannel(quizID string) string {
	return "quiz:" + quizID + ":results"
}

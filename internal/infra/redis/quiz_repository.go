package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const titleField = "title"

// QuizRepository caches quiz detail in Redis (hash per quiz) and falls back to a loader on cache miss.
// Layout: HSET quiz:{quizID}:detail title {title} 0 {slide json} 1 {slide json} ...
type QuizRepository struct {
	client *redis.Client
	loader memory.QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader memory.QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.QuizDetail, error) {
	if quiz, ok := r.fromCache(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, quizID); ok {
			return quiz, nil
		}

		gen, err := r.generation(ctx, quizID)
		if err != nil {
			gen = -1
		}
		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.QuizDetail{}, err
		}
		if gen >= 0 {
			r.store(ctx, quiz, gen)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.QuizDetail{}, err
	}
	return result.(domain.QuizDetail), nil
}

// Invalidate bumps the quiz generation and removes the cached hash, so the
// next read reloads it and loads already in flight skip their cache write.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	r.sf.Forget(quizID)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, generationKey(quizID))
	pipe.Del(ctx, detailKey(quizID))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *QuizRepository) generation(ctx context.Context, quizID string) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(quizID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store writes the hash only while the generation still equals gen.
func (r *QuizRepository) store(ctx context.Context, quiz domain.QuizDetail, gen int64) {
	key := detailKey(quiz.ID)
	genKey := generationKey(quiz.ID)
	fields := make([]interface{}, 0, 2+2*len(quiz.Slides))
	fields = append(fields, titleField, quiz.Title)
	for i, slide := range quiz.Slides {
		data, err := json.Marshal(slide)
		if err != nil {
			return
		}
		fields = append(fields, strconv.Itoa(i), data)
	}

	ttl := r.ttlWithJitter()
	// best-effort: a failed or aborted write only costs a reload
	_ = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, fields...)
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
			return nil
		})
		return err
	}, genKey)
}

func (r *QuizRepository) fromCache(ctx context.Context, quizID string) (domain.QuizDetail, bool) {
	fields, err := r.client.HGetAll(ctx, detailKey(quizID)).Result()
	if err != nil || len(fields) == 0 {
		return domain.QuizDetail{}, false
	}
	quiz, err := buildQuizFromCache(quizID, fields)
	if err != nil {
		return domain.QuizDetail{}, false
	}
	return quiz, true
}

func buildQuizFromCache(quizID string, fields map[string]string) (domain.QuizDetail, error) {
	title, ok := fields[titleField]
	if !ok {
		return domain.QuizDetail{}, fmt.Errorf("cached quiz %s has no title", quizID)
	}
	positions := make([]int, 0, len(fields)-1)
	for field := range fields {
		if field == titleField {
			continue
		}
		pos, err := strconv.Atoi(field)
		if err != nil {
			return domain.QuizDetail{}, fmt.Errorf("cached quiz %s: bad field %q", quizID, field)
		}
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	quiz := domain.QuizDetail{ID: quizID, Title: title, Slides: make([]domain.Slide, 0, len(positions))}
	for _, pos := range positions {
		var slide domain.Slide
		if err := json.Unmarshal([]byte(fields[strconv.Itoa(pos)]), &slide); err != nil {
			return domain.QuizDetail{}, err
		}
		quiz.Slides = append(quiz.Slides, slide)
	}
	return quiz, nil
}

func detailKey(quizID string) string {
	return "quiz:" + quizID + ":detail"
}

func generationKey(quizID string) string {
	return "quiz:" + quizID + ":gen"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

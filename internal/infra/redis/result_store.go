package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-engine-service/internal/domain"
)

// ResultStore keeps graded results per quiz as a Redis list:
// RPUSH quiz:{quizID}:results {json}.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Append(ctx context.Context, r domain.Result) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	key := s.key(r.QuizID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, raw)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.Result, error) {
	raws, err := s.client.LRange(ctx, s.key(quizID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	results := make([]domain.Result, 0, len(raws))
	for _, raw := range raws {
		var r domain.Result
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *ResultStore) key(quizID string) string {
	return "quiz:" + quizID + ":results"
}

package memory

import (
	"context"
	"sync"

	"quiz-engine-service/internal/domain"
)

// ResultStore keeps graded results per quiz in memory.
type ResultStore struct {
	mu     sync.RWMutex
	byQuiz map[string][]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{byQuiz: make(map[string][]domain.Result)}
}

func (s *ResultStore) Append(_ context.Context, r domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byQuiz[r.QuizID] = append(s.byQuiz[r.QuizID], r)
	return nil
}

func (s *ResultStore) ListByQuiz(_ context.Context, quizID string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Result(nil), s.byQuiz[quizID]...), nil
}

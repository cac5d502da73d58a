package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-engine-service/internal/domain"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	quiz  domain.Quiz
	err   error
}

func (l *countingLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return domain.Quiz{}, l.err
	}
	if quizID != l.quiz.ID {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return l.quiz, nil
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestQuizRepositoryCachesWithinTTL(t *testing.T) {
	loader := &countingLoader{quiz: domain.Quiz{ID: "quiz-1", Title: "Go basics"}}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		quiz, err := repo.GetQuiz(ctx, "quiz-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if quiz.Title != "Go basics" {
			t.Fatalf("unexpected quiz: %+v", quiz)
		}
	}
	if got := loader.count(); got != 1 {
		t.Fatalf("expected a single backing load, got %d", got)
	}
}

func TestQuizRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{quiz: domain.Quiz{ID: "quiz-1"}}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	current := time.Now()
	repo.clock = func() time.Time { return current }

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	// Jump past TTL plus the 10% jitter ceiling.
	current = current.Add(2 * time.Minute)
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got := loader.count(); got != 2 {
		t.Fatalf("expected reload after expiry, got %d loads", got)
	}
}

func TestQuizRepositoryDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("backing store down")}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err == nil {
		t.Fatalf("expected load error")
	}

	loader.mu.Lock()
	loader.err = nil
	loader.quiz = domain.Quiz{ID: "quiz-1"}
	loader.mu.Unlock()

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("expected recovery after backing store heals, got %v", err)
	}
}

func TestStaticQuizLoaderRoundTrip(t *testing.T) {
	loader := NewStaticQuizLoader(nil)
	ctx := context.Background()

	if _, err := loader.LoadQuiz(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	quiz := domain.Quiz{ID: "quiz-1", Title: "Go basics"}
	if err := loader.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := loader.LoadQuiz(ctx, "quiz-1")
	if err != nil || got.Title != "Go basics" {
		t.Fatalf("load: %+v err=%v", got, err)
	}
	if loader.Len() != 1 {
		t.Fatalf("expected 1 quiz stored, got %d", loader.Len())
	}
}

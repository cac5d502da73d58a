package memory

import (
	"sync"

	"quiz-engine-service/internal/attempt"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
// Attempts stay resident after finishing so a repeated submit can resolve to
// the existing terminal state.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*attempt.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*attempt.Attempt),
	}
}

func (s *AttemptStore) Put(a *attempt.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ID()] = a
}

func (s *AttemptStore) Get(attemptID string) (*attempt.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[attemptID]
	return a, ok
}

func (s *AttemptStore) FindInProgress(quizID, participant string) (*attempt.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.Quiz().ID == quizID && a.Participant() == participant && a.State() == attempt.StateInProgress {
			return a, true
		}
	}
	return nil, false
}

func (s *AttemptStore) Delete(attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptID)
}

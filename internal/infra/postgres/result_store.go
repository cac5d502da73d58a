package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-engine-service/internal/domain"
)

// ResultStore persists graded results as JSONB rows keyed by quiz.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Append(ctx context.Context, r domain.Result) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO results (id, quiz_id, submitted_at, data) VALUES ($1, $2, $3, $4::jsonb)`,
		r.ID, r.QuizID, r.SubmittedAt, raw)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM results WHERE quiz_id=$1 ORDER BY submitted_at ASC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r domain.Result
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

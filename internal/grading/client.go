package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quiz-engine-service/internal/domain"
)

// Verdict is the grading service's judgment for one question. Correct is nil
// when the answer awaits manual review.
type Verdict struct {
	QuestionID  string `json:"questionId"`
	Correct     *bool  `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// Response is the grading service's reply for one submission. Score, when
// present, is the service-computed overall percentage and takes precedence
// over any client-side recomputation.
type Response struct {
	Score    *float64  `json:"score,omitempty"`
	Verdicts []Verdict `json:"verdicts"`
}

// Grader sends a frozen answer set out for correctness judgment.
type Grader interface {
	Grade(ctx context.Context, sub domain.Submission) (Response, error)
}

// Client calls the remote grading service over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Grade posts the submission to the grading endpoint. Any transport or
// decoding failure is returned to the caller, which degrades the result to
// pending review rather than blocking the participant.
func (c *Client) Grade(ctx context.Context, sub domain.Submission) (Response, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return Response{}, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/grade", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build grade request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("grade request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("grading service returned %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode grade response: %w", err)
	}
	return out, nil
}

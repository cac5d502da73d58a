package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned when an attempt ID is unknown.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptFinished is returned when an operation requires a running attempt.
	ErrAttemptFinished = errors.New("attempt already finished")
	// ErrMaxAttemptsReached is returned when a participant has used every allowed attempt.
	ErrMaxAttemptsReached = errors.New("maximum attempts reached")
)

// PrecheckError refuses a mutation that would violate a structural invariant.
// The state it guards is left unchanged.
type PrecheckError struct {
	Op     string
	Reason string
}

func (e *PrecheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// InvalidAnswerFormatError reports an answer whose wire shape does not match
// the question variant.
type InvalidAnswerFormatError struct {
	QuestionID string
	Type       QuestionType
	Value      string
}

func (e *InvalidAnswerFormatError) Error() string {
	return fmt.Sprintf("invalid answer %q for %s question %s", e.Value, e.Type, e.QuestionID)
}

// IncompleteSubmissionError refuses a manual submit while questions remain
// unanswered.
type IncompleteSubmissionError struct {
	Missing []string
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("submission incomplete, unanswered questions: %s", strings.Join(e.Missing, ", "))
}

package attempt

import (
	"errors"
	"testing"
	"time"

	"quiz-engine-service/internal/domain"
)

func TestStartSeedsFullTimeBudget(t *testing.T) {
	started := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	a := Start(quizFixture(), "alice", WithClock(func() time.Time { return started }))

	if a.State() != StateInProgress {
		t.Fatalf("expected in_progress, got %s", a.State())
	}
	if a.Remaining() != 60 {
		t.Fatalf("expected 60 seconds remaining, got %d", a.Remaining())
	}
	if a.CurrentIndex() != 0 {
		t.Fatalf("expected position 0, got %d", a.CurrentIndex())
	}
	if !a.StartedAt().Equal(started) {
		t.Fatalf("expected injected start time, got %v", a.StartedAt())
	}
	if len(a.Answers()) != 0 {
		t.Fatalf("expected empty answer map")
	}
}

func TestAnswerValidatesWireShape(t *testing.T) {
	a := Start(quizFixture(), "alice")

	if err := a.Answer("q1", "4"); err != nil {
		t.Fatalf("answer choice: %v", err)
	}
	if err := a.Answer("q2", "true"); err != nil {
		t.Fatalf("answer boolean: %v", err)
	}

	var format *domain.InvalidAnswerFormatError
	if err := a.Answer("q1", "not an option"); !errors.As(err, &format) {
		t.Fatalf("expected invalid format for unknown option, got %v", err)
	}
	if err := a.Answer("q2", "yes"); !errors.As(err, &format) {
		t.Fatalf("expected invalid format for non-boolean, got %v", err)
	}
	if got := a.Answers()["q2"]; got.Kind != domain.AnswerBoolean || !got.Bool {
		t.Fatalf("rejected answer must not overwrite prior value, got %+v", got)
	}

	if err := a.Answer("missing", "4"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestAnswerOverwritesPriorValue(t *testing.T) {
	a := Start(quizFixture(), "alice")

	if err := a.Answer("q1", "3"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := a.Answer("q1", "4"); err != nil {
		t.Fatalf("answer again: %v", err)
	}
	if got := a.Answers()["q1"].Choice; got != "4" {
		t.Fatalf("expected overwritten answer, got %q", got)
	}
}

func TestGoToClampsToValidRange(t *testing.T) {
	a := Start(quizFixture(), "alice")

	if err := a.GoTo(99); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if a.CurrentIndex() != 1 {
		t.Fatalf("expected clamp to last question, got %d", a.CurrentIndex())
	}
	if err := a.GoTo(-5); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if a.CurrentIndex() != 0 {
		t.Fatalf("expected clamp to 0, got %d", a.CurrentIndex())
	}
}

func TestTickCountsDownAndExpires(t *testing.T) {
	a := Start(quizFixture(), "alice")
	if err := a.Answer("q1", "4"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	prev := a.Remaining()
	for i := 0; i < 59; i++ {
		a.Tick()
		if a.Remaining() > prev {
			t.Fatalf("remaining time increased: %d -> %d", prev, a.Remaining())
		}
		prev = a.Remaining()
		if a.State() != StateInProgress {
			t.Fatalf("expired early at remaining=%d", a.Remaining())
		}
	}
	if a.Remaining() != 1 {
		t.Fatalf("expected 1 second left, got %d", a.Remaining())
	}

	// The draining tick auto-submits whatever was answered.
	a.Tick()
	if a.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", a.Remaining())
	}
	if a.State() != StateExpired {
		t.Fatalf("expected expired state, got %s", a.State())
	}
	if set := a.AnswerSet(); len(set) != 1 || set["q1"] != "4" {
		t.Fatalf("expected partial answer set frozen, got %v", set)
	}
}

func TestSubmitRequiresAllAnswers(t *testing.T) {
	a := Start(quizFixture(), "alice")
	if err := a.Answer("q1", "4"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	_, err := a.Submit()
	var incomplete *domain.IncompleteSubmissionError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected incomplete submission, got %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != "q2" {
		t.Fatalf("expected q2 reported missing, got %v", incomplete.Missing)
	}
	if a.State() != StateInProgress {
		t.Fatalf("refused submit must leave attempt running")
	}

	if err := a.Answer("q2", "true"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	state, err := a.Submit()
	if err != nil || state != StateSubmitted {
		t.Fatalf("expected submitted, got state=%s err=%v", state, err)
	}
}

func TestTerminalTransitionIsIdempotent(t *testing.T) {
	a := Start(quizFixture(), "alice")
	for i := 0; i < 60; i++ {
		a.Tick()
	}
	if a.State() != StateExpired {
		t.Fatalf("expected expired, got %s", a.State())
	}

	// Manual submit after timeout is a no-op that reports the terminal state.
	state, err := a.Submit()
	if err != nil || state != StateExpired {
		t.Fatalf("expected expired no-op, got state=%s err=%v", state, err)
	}

	// Further ticks and operations do not revive the attempt.
	a.Tick()
	if a.State() != StateExpired || a.Remaining() != 0 {
		t.Fatalf("terminal state must be write-once")
	}
	if err := a.Answer("q1", "4"); !errors.Is(err, domain.ErrAttemptFinished) {
		t.Fatalf("expected attempt finished, got %v", err)
	}
	if err := a.GoTo(1); !errors.Is(err, domain.ErrAttemptFinished) {
		t.Fatalf("expected attempt finished, got %v", err)
	}
}

func TestShuffleSeedReordersPresentationOnly(t *testing.T) {
	quiz := quizFixture()
	quiz.RandomizeOrder = true

	a := Start(quiz, "alice", WithShuffleSeed(42))
	b := Start(quiz, "bob", WithShuffleSeed(42))

	orderA, orderB := a.QuestionOrder(), b.QuestionOrder()
	if len(orderA) != 2 || len(orderB) != 2 {
		t.Fatalf("expected full order, got %v / %v", orderA, orderB)
	}
	for i := range orderA {
		if orderA[i] != orderB[i] {
			t.Fatalf("same seed must give same order: %v vs %v", orderA, orderB)
		}
	}

	// Answers stay keyed by question ID regardless of presentation order.
	if err := a.Answer("q2", "true"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if a.Answers()["q2"].Kind != domain.AnswerBoolean {
		t.Fatalf("expected boolean answer recorded")
	}
}

func quizFixture() domain.Quiz {
	return domain.Quiz{
		ID:               "quiz-1",
		Title:            "Go basics",
		Description:      "Warm-up quiz",
		TimeLimitMinutes: 1,
		PassingScore:     70,
		MaxAttempts:      3,
		TotalPoints:      15,
		Questions: []domain.Question{
			{
				ID:            "q1",
				Type:          domain.MultipleChoice,
				Prompt:        "What is 2 + 2?",
				Points:        10,
				Options:       []string{"3", "4", "5"},
				CorrectOption: 1,
			},
			{
				ID:          "q2",
				Type:        domain.TrueFalse,
				Prompt:      "The zero value of a slice is nil.",
				Points:      5,
				CorrectBool: true,
			},
		},
	}
}

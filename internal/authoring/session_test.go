package authoring

import (
	"errors"
	"testing"

	"quiz-engine-service/internal/domain"
)

func TestAddQuestionAppendsDefaultAndFocuses(t *testing.T) {
	s := NewSession()
	idx := s.AddQuestion()

	if idx != 1 || s.ActiveIndex() != 1 {
		t.Fatalf("expected new question focused at index 1, got idx=%d active=%d", idx, s.ActiveIndex())
	}
	q := s.Draft().Questions[1]
	if q.Type != domain.MultipleChoice || len(q.Options) != 4 {
		t.Fatalf("expected default multiple-choice with 4 options, got %+v", q)
	}
}

func TestRemoveQuestionRefusesLastAndRefocuses(t *testing.T) {
	s := NewSession()

	err := s.RemoveQuestion(0)
	var precheck *domain.PrecheckError
	if !errors.As(err, &precheck) {
		t.Fatalf("expected precheck error removing last question, got %v", err)
	}

	s.AddQuestion()
	s.AddQuestion() // three questions, focus on 2
	if err := s.RemoveQuestion(2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.QuestionCount() != 2 || s.ActiveIndex() != 1 {
		t.Fatalf("expected 2 questions with focus 1, got count=%d active=%d", s.QuestionCount(), s.ActiveIndex())
	}
}

func TestRemoveOptionRefusedAtTwoOptions(t *testing.T) {
	s := NewSession()
	if err := s.SetQuestionType(0, domain.MultipleChoice); err != nil {
		t.Fatalf("set type: %v", err)
	}
	// shrink 4 -> 2
	if err := s.RemoveOption(0); err != nil {
		t.Fatalf("remove option: %v", err)
	}
	if err := s.RemoveOption(0); err != nil {
		t.Fatalf("remove option: %v", err)
	}

	before := s.Draft().Questions[0].Options
	err := s.RemoveOption(0)
	var precheck *domain.PrecheckError
	if !errors.As(err, &precheck) {
		t.Fatalf("expected refusal at 2 options, got %v", err)
	}
	after := s.Draft().Questions[0].Options
	if len(after) != 2 || len(before) != len(after) {
		t.Fatalf("option list must be unchanged after refusal, got %v", after)
	}
}

func TestRemoveOptionResetsCorrectIndex(t *testing.T) {
	s := NewSession()
	for i, text := range []string{"a", "b", "c", "d"} {
		if err := s.SetOption(0, i, text); err != nil {
			t.Fatalf("set option: %v", err)
		}
	}
	if err := s.SetCorrectOption(0, 3); err != nil {
		t.Fatalf("set correct: %v", err)
	}

	if err := s.RemoveOption(0); err != nil {
		t.Fatalf("remove option: %v", err)
	}
	if got := s.Draft().Questions[0].CorrectOption; got != 0 {
		t.Fatalf("expected correct index reset to 0, got %d", got)
	}
}

func TestSetQuestionTypeResetsVariantFields(t *testing.T) {
	s := NewSession()
	if err := s.SetOption(0, 0, "keep me"); err != nil {
		t.Fatalf("set option: %v", err)
	}
	if err := s.SetCorrectOption(0, 0); err != nil {
		t.Fatalf("set correct: %v", err)
	}

	if err := s.SetQuestionType(0, domain.TrueFalse); err != nil {
		t.Fatalf("switch type: %v", err)
	}
	q := s.Draft().Questions[0]
	if q.Options != nil || q.CorrectBool {
		t.Fatalf("expected options discarded and boolean default false, got %+v", q)
	}

	if err := s.SetQuestionType(0, domain.MultipleChoice); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	q = s.Draft().Questions[0]
	if len(q.Options) != 4 || q.Options[0] != "" {
		t.Fatalf("expected fresh default options, got %+v", q.Options)
	}
}

func TestMutationPrechecks(t *testing.T) {
	s := NewSession()
	var precheck *domain.PrecheckError

	if err := s.SetPoints(0, 0); !errors.As(err, &precheck) {
		t.Fatalf("expected precheck for non-positive points, got %v", err)
	}
	if err := s.SetTimeLimit(0); !errors.As(err, &precheck) {
		t.Fatalf("expected precheck for zero time limit, got %v", err)
	}
	if err := s.SetPassingScore(101); !errors.As(err, &precheck) {
		t.Fatalf("expected precheck for passing score > 100, got %v", err)
	}
	if err := s.SetMaxAttempts(0); !errors.As(err, &precheck) {
		t.Fatalf("expected precheck for zero attempts, got %v", err)
	}
	if err := s.SetPrompt(9, "out of range"); !errors.As(err, &precheck) {
		t.Fatalf("expected precheck for bad index, got %v", err)
	}
}

func TestPublishFailureLeavesDraftEditable(t *testing.T) {
	s := NewSession() // untitled, question incomplete

	quiz, report := s.Publish()
	if report.Valid() {
		t.Fatalf("expected validation failure")
	}
	if quiz.ID != "" {
		t.Fatalf("failed publish must not produce a quiz, got %+v", quiz)
	}

	// Draft still editable afterwards.
	s.SetTitle("Go basics")
	if s.Draft().Title != "Go basics" {
		t.Fatalf("draft should remain editable after failed publish")
	}
}

func TestPublishComputesTotalPointsAndIdentities(t *testing.T) {
	s := completeSession(t)

	quiz, report := s.Publish()
	if !report.Valid() {
		t.Fatalf("publish failed: %s", report)
	}
	if quiz.TotalPoints != 15 {
		t.Fatalf("expected total points 15, got %d", quiz.TotalPoints)
	}
	if quiz.ID == "" {
		t.Fatalf("expected quiz identity assigned")
	}
	for i, q := range quiz.Questions {
		if q.ID == "" {
			t.Fatalf("question %d missing identity", i)
		}
	}

	// Publishing must not alias draft state: later edits leave the quiz alone.
	if err := s.SetPrompt(0, "changed afterwards"); err != nil {
		t.Fatalf("edit after publish: %v", err)
	}
	if quiz.Questions[0].Prompt == "changed afterwards" {
		t.Fatalf("published quiz must be immutable")
	}
}

func completeSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.SetTitle("Go basics")
	s.SetDescription("Warm-up quiz")
	if err := s.SetPrompt(0, "What is 2 + 2?"); err != nil {
		t.Fatalf("set prompt: %v", err)
	}
	for i, text := range []string{"3", "4", "5", "6"} {
		if err := s.SetOption(0, i, text); err != nil {
			t.Fatalf("set option: %v", err)
		}
	}
	if err := s.SetCorrectOption(0, 1); err != nil {
		t.Fatalf("set correct: %v", err)
	}

	idx := s.AddQuestion()
	if err := s.SetQuestionType(idx, domain.TrueFalse); err != nil {
		t.Fatalf("set type: %v", err)
	}
	if err := s.SetPrompt(idx, "The zero value of a slice is nil."); err != nil {
		t.Fatalf("set prompt: %v", err)
	}
	if err := s.SetPoints(idx, 5); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if err := s.SetCorrectBool(idx, true); err != nil {
		t.Fatalf("set correct bool: %v", err)
	}
	return s
}

package authoring

import (
	"fmt"

	"github.com/google/uuid"

	"quiz-engine-service/internal/domain"
)

const (
	defaultTimeLimitMinutes = 30
	defaultPassingScore     = 70
	defaultMaxAttempts      = 3
	defaultQuestionPoints   = 10
	defaultOptionCount      = 4
	minOptionCount          = 2
)

// Draft is the mutable shape of a quiz under authoring. It becomes an
// immutable domain.Quiz only through a successful Publish.
type Draft struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	TimeLimitMinutes int               `json:"timeLimitMinutes"`
	PassingScore     int               `json:"passingScore"`
	MaxAttempts      int               `json:"maxAttempts"`
	ShowResults      bool              `json:"showResults"`
	RandomizeOrder   bool              `json:"randomizeOrder"`
	Questions        []domain.Question `json:"questions"`
}

// Session is the editing surface over a single draft. It is not safe for
// concurrent use; each caller edits its own session.
type Session struct {
	draft  Draft
	active int
}

// NewSession starts a fresh draft with one default question, mirroring what
// an instructor sees when opening the quiz editor.
func NewSession() *Session {
	return &Session{
		draft: Draft{
			TimeLimitMinutes: defaultTimeLimitMinutes,
			PassingScore:     defaultPassingScore,
			MaxAttempts:      defaultMaxAttempts,
			ShowResults:      true,
			Questions:        []domain.Question{defaultQuestion()},
		},
	}
}

// NewSessionFromDraft resumes editing an existing draft. The draft is copied
// so the caller's value stays untouched.
func NewSessionFromDraft(d Draft) *Session {
	if len(d.Questions) == 0 {
		d.Questions = []domain.Question{defaultQuestion()}
	}
	d.Questions = copyQuestions(d.Questions)
	return &Session{draft: d}
}

func defaultQuestion() domain.Question {
	return domain.Question{
		Type:    domain.MultipleChoice,
		Points:  defaultQuestionPoints,
		Options: make([]string, defaultOptionCount),
	}
}

// Draft returns a copy of the current draft state.
func (s *Session) Draft() Draft {
	d := s.draft
	d.Questions = copyQuestions(s.draft.Questions)
	return d
}

// ActiveIndex is the currently focused question.
func (s *Session) ActiveIndex() int { return s.active }

// QuestionCount returns the number of questions in the draft.
func (s *Session) QuestionCount() int { return len(s.draft.Questions) }

func (s *Session) SetTitle(title string)      { s.draft.Title = title }
func (s *Session) SetDescription(desc string) { s.draft.Description = desc }
func (s *Session) SetShowResults(v bool)      { s.draft.ShowResults = v }
func (s *Session) SetRandomizeOrder(v bool)   { s.draft.RandomizeOrder = v }

// SetTimeLimit rejects non-positive limits at the point of mutation.
func (s *Session) SetTimeLimit(minutes int) error {
	if minutes < 1 {
		return &domain.PrecheckError{Op: "set time limit", Reason: "must be at least 1 minute"}
	}
	s.draft.TimeLimitMinutes = minutes
	return nil
}

func (s *Session) SetPassingScore(score int) error {
	if score < 0 || score > 100 {
		return &domain.PrecheckError{Op: "set passing score", Reason: "must be between 0 and 100"}
	}
	s.draft.PassingScore = score
	return nil
}

func (s *Session) SetMaxAttempts(n int) error {
	if n < 1 {
		return &domain.PrecheckError{Op: "set max attempts", Reason: "must allow at least 1 attempt"}
	}
	s.draft.MaxAttempts = n
	return nil
}

// AddQuestion appends a default multiple-choice question with four empty
// options and focuses it. Returns the new question's index.
func (s *Session) AddQuestion() int {
	s.draft.Questions = append(s.draft.Questions, defaultQuestion())
	s.active = len(s.draft.Questions) - 1
	return s.active
}

// RemoveQuestion deletes the question at index. The last remaining question
// cannot be removed; focus moves to the nearest surviving question.
func (s *Session) RemoveQuestion(index int) error {
	if err := s.checkIndex("remove question", index); err != nil {
		return err
	}
	if len(s.draft.Questions) == 1 {
		return &domain.PrecheckError{Op: "remove question", Reason: "quiz must keep at least one question"}
	}
	s.draft.Questions = append(s.draft.Questions[:index], s.draft.Questions[index+1:]...)
	if s.active = index; s.active > len(s.draft.Questions)-1 {
		s.active = len(s.draft.Questions) - 1
	}
	return nil
}

// MoveQuestion reorders the question at from to position to, focusing it.
func (s *Session) MoveQuestion(from, to int) error {
	if err := s.checkIndex("move question", from); err != nil {
		return err
	}
	if err := s.checkIndex("move question", to); err != nil {
		return err
	}
	q := s.draft.Questions[from]
	rest := append(s.draft.Questions[:from:from], s.draft.Questions[from+1:]...)
	s.draft.Questions = append(rest[:to:to], append([]domain.Question{q}, rest[to:]...)...)
	s.active = to
	return nil
}

func (s *Session) SetPrompt(index int, prompt string) error {
	q, err := s.question("set prompt", index)
	if err != nil {
		return err
	}
	q.Prompt = prompt
	return nil
}

func (s *Session) SetPoints(index, points int) error {
	q, err := s.question("set points", index)
	if err != nil {
		return err
	}
	if points < 1 {
		return &domain.PrecheckError{Op: "set points", Reason: "point value must be at least 1"}
	}
	q.Points = points
	return nil
}

func (s *Session) SetExplanation(index int, text string) error {
	q, err := s.question("set explanation", index)
	if err != nil {
		return err
	}
	q.Explanation = text
	return nil
}

// SetQuestionType switches a question's variant, resetting variant-specific
// fields to that variant's defaults. Switching away from multiple_choice
// discards the option list.
func (s *Session) SetQuestionType(index int, t domain.QuestionType) error {
	q, err := s.question("set question type", index)
	if err != nil {
		return err
	}
	switch t {
	case domain.MultipleChoice, domain.TrueFalse, domain.ShortAnswer:
	default:
		return &domain.PrecheckError{Op: "set question type", Reason: fmt.Sprintf("unknown question type %q", t)}
	}
	if q.Type == t {
		return nil
	}
	q.Type = t
	q.Options = nil
	q.CorrectOption = 0
	q.CorrectBool = false
	q.AcceptedAnswers = nil
	if t == domain.MultipleChoice {
		q.Options = make([]string, defaultOptionCount)
	}
	return nil
}

func (s *Session) SetOption(index, option int, text string) error {
	q, err := s.choiceQuestion("set option", index)
	if err != nil {
		return err
	}
	if option < 0 || option >= len(q.Options) {
		return &domain.PrecheckError{Op: "set option", Reason: "option index out of range"}
	}
	q.Options[option] = text
	return nil
}

func (s *Session) SetCorrectOption(index, option int) error {
	q, err := s.choiceQuestion("set correct option", index)
	if err != nil {
		return err
	}
	if option < 0 || option >= len(q.Options) {
		return &domain.PrecheckError{Op: "set correct option", Reason: "option index out of range"}
	}
	q.CorrectOption = option
	return nil
}

func (s *Session) SetCorrectBool(index int, v bool) error {
	q, err := s.question("set correct answer", index)
	if err != nil {
		return err
	}
	if q.Type != domain.TrueFalse {
		return &domain.PrecheckError{Op: "set correct answer", Reason: "question is not true/false"}
	}
	q.CorrectBool = v
	return nil
}

func (s *Session) SetAcceptedAnswers(index int, answers []string) error {
	q, err := s.question("set accepted answers", index)
	if err != nil {
		return err
	}
	if q.Type != domain.ShortAnswer {
		return &domain.PrecheckError{Op: "set accepted answers", Reason: "question is not short answer"}
	}
	q.AcceptedAnswers = append([]string(nil), answers...)
	return nil
}

// AddOption appends an empty option to a multiple-choice question.
func (s *Session) AddOption(index int) error {
	q, err := s.choiceQuestion("add option", index)
	if err != nil {
		return err
	}
	q.Options = append(q.Options, "")
	return nil
}

// RemoveOption drops the last option. It refuses when only two options remain.
// If the removed option was the correct answer, the correct index resets to 0.
func (s *Session) RemoveOption(index int) error {
	q, err := s.choiceQuestion("remove option", index)
	if err != nil {
		return err
	}
	if len(q.Options) <= minOptionCount {
		return &domain.PrecheckError{Op: "remove option", Reason: "question must keep at least two options"}
	}
	q.Options = q.Options[:len(q.Options)-1]
	if q.CorrectOption >= len(q.Options) {
		q.CorrectOption = 0
	}
	return nil
}

// Publish validates the draft and, on success, returns an immutable Quiz with
// TotalPoints recomputed and identities assigned. On failure the report lists
// every violation and the draft is left unchanged.
func (s *Session) Publish() (domain.Quiz, Report) {
	report := Validate(s.draft)
	if !report.Valid() {
		return domain.Quiz{}, report
	}

	questions := copyQuestions(s.draft.Questions)
	total := 0
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		total += questions[i].Points
	}

	return domain.Quiz{
		ID:               uuid.NewString(),
		Title:            s.draft.Title,
		Description:      s.draft.Description,
		TimeLimitMinutes: s.draft.TimeLimitMinutes,
		PassingScore:     s.draft.PassingScore,
		MaxAttempts:      s.draft.MaxAttempts,
		ShowResults:      s.draft.ShowResults,
		RandomizeOrder:   s.draft.RandomizeOrder,
		TotalPoints:      total,
		Questions:        questions,
	}, report
}

func (s *Session) question(op string, index int) (*domain.Question, error) {
	if err := s.checkIndex(op, index); err != nil {
		return nil, err
	}
	return &s.draft.Questions[index], nil
}

func (s *Session) choiceQuestion(op string, index int) (*domain.Question, error) {
	q, err := s.question(op, index)
	if err != nil {
		return nil, err
	}
	if q.Type != domain.MultipleChoice {
		return nil, &domain.PrecheckError{Op: op, Reason: "question is not multiple choice"}
	}
	return q, nil
}

func (s *Session) checkIndex(op string, index int) error {
	if index < 0 || index >= len(s.draft.Questions) {
		return &domain.PrecheckError{Op: op, Reason: "question index out of range"}
	}
	return nil
}

func copyQuestions(src []domain.Question) []domain.Question {
	out := make([]domain.Question, len(src))
	copy(out, src)
	for i := range out {
		out[i].Options = append([]string(nil), src[i].Options...)
		out[i].AcceptedAnswers = append([]string(nil), src[i].AcceptedAnswers...)
	}
	return out
}

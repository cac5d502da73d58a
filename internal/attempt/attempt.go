package attempt

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"quiz-engine-service/internal/domain"
)

// State is the attempt lifecycle. submitted and expired are terminal.
type State string

const (
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateExpired    State = "expired"
)

// Attempt drives one participant's timed run through a published quiz.
//
// It follows a single-threaded cooperative model: the owner feeds it ticks and
// operations from one loop, so no internal locking is needed. The terminal
// transition is write-once, guarded by the state field, which makes the race
// between a timeout tick and a manual submit resolve to whichever lands first.
type Attempt struct {
	id          string
	quiz        domain.Quiz
	participant string
	startedAt   time.Time
	remaining   int
	current     int
	order       []int
	answers     map[string]domain.AnswerValue
	state       State
}

// Option tweaks attempt construction; used by tests for determinism.
type Option func(*Attempt)

// WithClock overrides the start timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Attempt) { a.startedAt = now() }
}

// WithShuffleSeed fixes the question-order shuffle for quizzes that randomize.
func WithShuffleSeed(seed int64) Option {
	return func(a *Attempt) {
		if a.quiz.RandomizeOrder {
			shuffle(a.order, rand.New(rand.NewSource(seed)))
		}
	}
}

// Start creates an in-progress attempt with a full time budget, an empty
// answer map, and the first question focused.
func Start(quiz domain.Quiz, participant string, opts ...Option) *Attempt {
	order := make([]int, len(quiz.Questions))
	for i := range order {
		order[i] = i
	}
	a := &Attempt{
		id:          uuid.NewString(),
		quiz:        quiz,
		participant: participant,
		startedAt:   time.Now(),
		remaining:   quiz.TimeLimitMinutes * 60,
		order:       order,
		answers:     make(map[string]domain.AnswerValue),
		state:       StateInProgress,
	}
	if quiz.RandomizeOrder {
		shuffle(a.order, rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func shuffle(order []int, r *rand.Rand) {
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
}

func (a *Attempt) ID() string           { return a.id }
func (a *Attempt) Quiz() domain.Quiz    { return a.quiz }
func (a *Attempt) Participant() string  { return a.participant }
func (a *Attempt) StartedAt() time.Time { return a.startedAt }
func (a *Attempt) State() State         { return a.state }
func (a *Attempt) Remaining() int       { return a.remaining }
func (a *Attempt) CurrentIndex() int    { return a.current }

// CurrentQuestion returns the focused question in presentation order.
func (a *Attempt) CurrentQuestion() domain.Question {
	return a.quiz.Questions[a.order[a.current]]
}

// QuestionOrder exposes the presentation order as quiz question indices.
func (a *Attempt) QuestionOrder() []int {
	return append([]int(nil), a.order...)
}

// Answers returns a copy of the recorded answers keyed by question ID.
func (a *Attempt) Answers() map[string]domain.AnswerValue {
	out := make(map[string]domain.AnswerValue, len(a.answers))
	for k, v := range a.answers {
		out[k] = v
	}
	return out
}

// Answer records the participant's raw answer for a question, overwriting any
// prior value. The raw value must match the question variant's wire shape;
// a mismatch is refused and nothing changes.
func (a *Attempt) Answer(questionID, raw string) error {
	if a.state != StateInProgress {
		return domain.ErrAttemptFinished
	}
	q, ok := a.quiz.QuestionByID(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	value, err := parseAnswer(q, raw)
	if err != nil {
		return err
	}
	a.answers[questionID] = value
	return nil
}

// parseAnswer validates the wire form against the question variant and builds
// the tagged value.
func parseAnswer(q domain.Question, raw string) (domain.AnswerValue, error) {
	switch q.Type {
	case domain.MultipleChoice:
		for _, opt := range q.Options {
			if opt == raw {
				return domain.AnswerValue{Kind: domain.AnswerChoice, Choice: raw}, nil
			}
		}
		return domain.AnswerValue{}, &domain.InvalidAnswerFormatError{QuestionID: q.ID, Type: q.Type, Value: raw}
	case domain.TrueFalse:
		switch raw {
		case "true":
			return domain.AnswerValue{Kind: domain.AnswerBoolean, Bool: true}, nil
		case "false":
			return domain.AnswerValue{Kind: domain.AnswerBoolean, Bool: false}, nil
		}
		return domain.AnswerValue{}, &domain.InvalidAnswerFormatError{QuestionID: q.ID, Type: q.Type, Value: raw}
	case domain.ShortAnswer:
		if strings.TrimSpace(raw) == "" {
			return domain.AnswerValue{}, &domain.InvalidAnswerFormatError{QuestionID: q.ID, Type: q.Type, Value: raw}
		}
		return domain.AnswerValue{Kind: domain.AnswerText, Text: raw}, nil
	}
	return domain.AnswerValue{}, &domain.InvalidAnswerFormatError{QuestionID: q.ID, Type: q.Type, Value: raw}
}

// GoTo moves the focus to the question at index, clamped to the valid range.
// Navigation is free-form; prior questions need not be answered.
func (a *Attempt) GoTo(index int) error {
	if a.state != StateInProgress {
		return domain.ErrAttemptFinished
	}
	if index < 0 {
		index = 0
	}
	if max := len(a.order) - 1; index > max {
		index = max
	}
	a.current = index
	return nil
}

// Tick consumes one second of the time budget. When the budget reaches zero
// the attempt auto-submits whatever has been answered and lands in the
// expired state. Ticks after a terminal transition are no-ops.
func (a *Attempt) Tick() {
	if a.state != StateInProgress {
		return
	}
	if a.remaining > 0 {
		a.remaining--
	}
	if a.remaining == 0 {
		a.finish(StateExpired)
	}
}

// Submit is the manual submission path. Every question must have a recorded
// answer; otherwise the missing question IDs are reported and the attempt
// stays in progress. Submitting an already-terminal attempt is a no-op.
func (a *Attempt) Submit() (State, error) {
	if a.state != StateInProgress {
		return a.state, nil
	}
	var missing []string
	for _, q := range a.quiz.Questions {
		if _, ok := a.answers[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return a.state, &domain.IncompleteSubmissionError{Missing: missing}
	}
	a.finish(StateSubmitted)
	return a.state, nil
}

// finish is the single write-once terminal transition shared by the timeout
// and manual submission paths.
func (a *Attempt) finish(terminal State) {
	if a.state != StateInProgress {
		return
	}
	a.state = terminal
}

// AnswerSet emits the frozen answers in the grading service's wire form.
func (a *Attempt) AnswerSet() domain.AnswerSet {
	set := make(domain.AnswerSet, len(a.answers))
	for id, value := range a.answers {
		set[id] = value.Wire()
	}
	return set
}

// Elapsed reports seconds consumed from the time budget.
func (a *Attempt) Elapsed() int {
	return a.quiz.TimeLimitMinutes*60 - a.remaining
}

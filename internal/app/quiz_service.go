package app

import (
	"context"
	"log"
	"time"

	"quiz-engine-service/internal/analytics"
	"quiz-engine-service/internal/attempt"
	"quiz-engine-service/internal/authoring"
	"quiz-engine-service/internal/domain"
	"quiz-engine-service/internal/grading"
	"quiz-engine-service/internal/result"
)

// QuizRepository loads published quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizWriter persists a newly published quiz.
type QuizWriter interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
}

// AttemptRepository stores live and finished attempts (in-memory, Redis-backed, etc).
type AttemptRepository interface {
	Put(a *attempt.Attempt)
	Get(attemptID string) (*attempt.Attempt, bool)
	FindInProgress(quizID, participant string) (*attempt.Attempt, bool)
	Delete(attemptID string)
}

// ResultStore accumulates graded results per quiz for the analytics view.
type ResultStore interface {
	Append(ctx context.Context, r domain.Result) error
	ListByQuiz(ctx context.Context, quizID string) ([]domain.Result, error)
}

// QuizService contains the quiz lifecycle use cases: publishing drafts,
// running attempts, assembling results, and serving analytics.
type QuizService struct {
	quizzes  QuizRepository
	writer   QuizWriter
	attempts AttemptRepository
	results  ResultStore
	grader   grading.Grader
	now      func() time.Time
}

func NewQuizService(quizzes QuizRepository, writer QuizWriter, attempts AttemptRepository, results ResultStore, grader grading.Grader) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		writer:   writer,
		attempts: attempts,
		results:  results,
		grader:   grader,
		now:      time.Now,
	}
}

// WithClock overrides the service clock; test-only.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// PublishDraft validates and publishes an authoring draft. A failed validation
// returns the report without touching storage; the draft stays editable.
func (s *QuizService) PublishDraft(ctx context.Context, draft authoring.Draft) (domain.Quiz, authoring.Report, error) {
	session := authoring.NewSessionFromDraft(draft)
	quiz, report := session.Publish()
	if !report.Valid() {
		return domain.Quiz{}, report, nil
	}
	if err := s.writer.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, report, err
	}
	return quiz, report, nil
}

// StartAttempt begins a timed run through a quiz. A participant's existing
// in-progress attempt is resumed rather than consuming another slot; once
// MaxAttempts results exist for the participant, further starts are refused.
func (s *QuizService) StartAttempt(ctx context.Context, quizID, participant string, opts ...attempt.Option) (*attempt.Attempt, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.attempts.FindInProgress(quizID, participant); ok {
		return existing, nil
	}

	used, err := s.countResults(ctx, quizID, participant)
	if err != nil {
		return nil, err
	}
	if quiz.MaxAttempts > 0 && used >= quiz.MaxAttempts {
		return nil, domain.ErrMaxAttemptsReached
	}

	opts = append([]attempt.Option{attempt.WithClock(s.now)}, opts...)
	a := attempt.Start(quiz, participant, opts...)
	s.attempts.Put(a)
	return a, nil
}

// Answer records a participant's answer on a running attempt.
func (s *QuizService) Answer(ctx context.Context, attemptID, questionID, raw string) error {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return a.Answer(questionID, raw)
}

// Navigate moves the attempt's focus to the given question index.
func (s *QuizService) Navigate(ctx context.Context, attemptID string, index int) error {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return a.GoTo(index)
}

// TickOutcome reports the attempt state after one countdown tick. Result is
// set only on the tick that expired the attempt.
type TickOutcome struct {
	Remaining int
	State     attempt.State
	Result    *domain.Result
}

// Tick consumes one second of an attempt's budget. The tick that drains the
// budget auto-submits whatever was answered and grades it as expired.
func (s *QuizService) Tick(ctx context.Context, attemptID string) (TickOutcome, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return TickOutcome{}, domain.ErrAttemptNotFound
	}

	before := a.State()
	a.Tick()
	out := TickOutcome{Remaining: a.Remaining(), State: a.State()}
	if before == attempt.StateInProgress && a.State() == attempt.StateExpired {
		r := s.finalize(ctx, a)
		out.Result = &r
	}
	return out, nil
}

// Submit is the manual submission path. Submitting an attempt that already
// reached a terminal state returns its existing result unchanged.
func (s *QuizService) Submit(ctx context.Context, attemptID string) (domain.Result, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.Result{}, domain.ErrAttemptNotFound
	}

	if a.State() != attempt.StateInProgress {
		return s.findResult(ctx, a)
	}

	if _, err := a.Submit(); err != nil {
		return domain.Result{}, err
	}
	return s.finalize(ctx, a), nil
}

// Analytics recomputes the aggregate snapshot for a quiz from its stored results.
func (s *QuizService) Analytics(ctx context.Context, quizID string) (analytics.Snapshot, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	results, err := s.results.ListByQuiz(ctx, quizID)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	return analytics.Compute(quiz, results), nil
}

// Abandon drops an in-progress attempt without producing a result.
func (s *QuizService) Abandon(ctx context.Context, attemptID string) {
	a, ok := s.attempts.Get(attemptID)
	if !ok || a.State() != attempt.StateInProgress {
		return
	}
	s.attempts.Delete(attemptID)
}

// finalize grades a freshly terminal attempt and stores the result. A grading
// outage degrades every question to pending review instead of failing the
// submission.
func (s *QuizService) finalize(ctx context.Context, a *attempt.Attempt) domain.Result {
	info := result.AttemptInfo{
		AttemptID:   a.ID(),
		Participant: a.Participant(),
		TimeTaken:   a.Elapsed(),
		SubmittedAt: s.now(),
		Expired:     a.State() == attempt.StateExpired,
	}

	sub := domain.Submission{
		QuizID:    a.Quiz().ID,
		AttemptID: a.ID(),
		Answers:   a.AnswerSet(),
	}

	var r domain.Result
	resp, err := s.grader.Grade(ctx, sub)
	if err != nil {
		log.Printf("grading unavailable for attempt %s, marking pending review: %v", a.ID(), err)
		r = result.AssemblePending(a.Quiz(), info)
	} else {
		r = result.Assemble(a.Quiz(), info, resp)
	}

	if err := s.results.Append(ctx, r); err != nil {
		log.Printf("store result for attempt %s: %v", a.ID(), err)
	}
	return r
}

func (s *QuizService) countResults(ctx context.Context, quizID, participant string) (int, error) {
	results, err := s.results.ListByQuiz(ctx, quizID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range results {
		if r.Participant == participant {
			n++
		}
	}
	return n, nil
}

func (s *QuizService) findResult(ctx context.Context, a *attempt.Attempt) (domain.Result, error) {
	results, err := s.results.ListByQuiz(ctx, a.Quiz().ID)
	if err != nil {
		return domain.Result{}, err
	}
	for _, r := range results {
		if r.AttemptID == a.ID() {
			return r, nil
		}
	}
	return domain.Result{}, domain.ErrAttemptNotFound
}

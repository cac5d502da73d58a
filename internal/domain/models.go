package domain

import "time"

// QuestionType discriminates the question variants a quiz may contain.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// Question is polymorphic over QuestionType. Variant-specific fields are
// meaningful only for their own variant: Options/CorrectOption for
// multiple_choice, CorrectBool for true_false, AcceptedAnswers for short_answer.
type Question struct {
	ID              string       `json:"id"`
	Type            QuestionType `json:"type"`
	Prompt          string       `json:"prompt"`
	Points          int          `json:"points"`
	Explanation     string       `json:"explanation,omitempty"`
	Options         []string     `json:"options,omitempty"`
	CorrectOption   int          `json:"correctOption,omitempty"`
	CorrectBool     bool         `json:"correctBool,omitempty"`
	AcceptedAnswers []string     `json:"acceptedAnswers,omitempty"`
}

// Quiz is a published, immutable assessment definition.
type Quiz struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	PassingScore     int        `json:"passingScore"`
	MaxAttempts      int        `json:"maxAttempts"`
	ShowResults      bool       `json:"showResults"`
	RandomizeOrder   bool       `json:"randomizeOrder"`
	TotalPoints      int        `json:"totalPoints"`
	Questions        []Question `json:"questions"`
}

// QuestionByID returns the question with the given ID, if present.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return q.Questions[i], true
		}
	}
	return Question{}, false
}

// AnswerKind tags the shape of a captured answer value.
type AnswerKind string

const (
	AnswerChoice  AnswerKind = "choice"
	AnswerBoolean AnswerKind = "boolean"
	AnswerText    AnswerKind = "text"
)

// AnswerValue is the tagged union of answer shapes, keyed to the question's
// variant. Exactly one of Choice/Bool/Text is meaningful per Kind.
type AnswerValue struct {
	Kind   AnswerKind `json:"kind"`
	Choice string     `json:"choice,omitempty"`
	Bool   bool       `json:"bool,omitempty"`
	Text   string     `json:"text,omitempty"`
}

// Wire renders the value in the grading service's wire form: the raw string
// for choice/text answers, the literal "true"/"false" for booleans.
func (v AnswerValue) Wire() string {
	switch v.Kind {
	case AnswerBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case AnswerText:
		return v.Text
	default:
		return v.Choice
	}
}

// AnswerSet is the frozen submission payload sent to the grading service,
// keyed by question ID in wire form.
type AnswerSet map[string]string

// Submission identifies one attempt's answer set for grading.
type Submission struct {
	QuizID    string    `json:"quizId"`
	AttemptID string    `json:"attemptId"`
	Answers   AnswerSet `json:"answers"`
}

// FeedbackStatus marks whether a per-question verdict has been resolved.
type FeedbackStatus string

const (
	FeedbackGraded        FeedbackStatus = "graded"
	FeedbackPendingReview FeedbackStatus = "pending_review"
)

// Feedback is the per-question outcome shown to the participant.
// Correct is nil while the verdict is pending manual review.
type Feedback struct {
	Correct     *bool          `json:"correct"`
	Status      FeedbackStatus `json:"status"`
	Explanation string         `json:"explanation,omitempty"`
}

// ResultStatus marks whether a result's score is final or provisional.
type ResultStatus string

const (
	ResultGraded      ResultStatus = "graded"
	ResultProvisional ResultStatus = "provisional"
)

// Result is the displayable outcome of one graded attempt.
type Result struct {
	ID          string              `json:"id"`
	AttemptID   string              `json:"attemptId"`
	QuizID      string              `json:"quizId"`
	Participant string              `json:"participant"`
	Score       float64             `json:"score"`
	Status      ResultStatus        `json:"status"`
	Feedback    map[string]Feedback `json:"feedback"`
	TimeTaken   int                 `json:"timeTakenSeconds"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

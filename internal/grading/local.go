package grading

import (
	"context"
	"strings"

	"quiz-engine-service/internal/domain"
)

// QuizSource resolves the quiz a submission belongs to.
type QuizSource interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// LocalGrader judges objective questions against the quiz's own answer key.
// It stands in for the remote grading service when none is configured; free-
// text answers still come back as pending review, matching the remote
// service's contract.
type LocalGrader struct {
	quizzes QuizSource
}

func NewLocalGrader(quizzes QuizSource) *LocalGrader {
	return &LocalGrader{quizzes: quizzes}
}

func (g *LocalGrader) Grade(ctx context.Context, sub domain.Submission) (Response, error) {
	quiz, err := g.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return Response{}, err
	}

	verdicts := make([]Verdict, 0, len(sub.Answers))
	for _, q := range quiz.Questions {
		raw, answered := sub.Answers[q.ID]
		if !answered {
			continue
		}
		verdicts = append(verdicts, gradeQuestion(q, raw))
	}
	return Response{Verdicts: verdicts}, nil
}

func gradeQuestion(q domain.Question, raw string) Verdict {
	v := Verdict{QuestionID: q.ID, Explanation: q.Explanation}
	switch q.Type {
	case domain.MultipleChoice:
		if q.CorrectOption >= 0 && q.CorrectOption < len(q.Options) {
			correct := strings.EqualFold(strings.TrimSpace(raw), strings.TrimSpace(q.Options[q.CorrectOption]))
			v.Correct = &correct
		}
	case domain.TrueFalse:
		correct := raw == "true" == q.CorrectBool
		v.Correct = &correct
	case domain.ShortAnswer:
		// Free text needs human judgment; leave the verdict pending.
	}
	return v
}

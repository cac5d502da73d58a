package result

import (
	"math"
	"time"

	"github.com/google/uuid"

	"quiz-engine-service/internal/domain"
	"quiz-engine-service/internal/grading"
)

// AttemptInfo carries the attempt metadata the assembler needs alongside the
// grading verdicts.
type AttemptInfo struct {
	AttemptID   string
	Participant string
	TimeTaken   int
	SubmittedAt time.Time
	Expired     bool
}

// Assemble joins an attempt's metadata with the grading service's verdicts
// into a displayable Result.
//
// Questions without a verdict, or with a nil correctness judgment, count as
// pending review and are excluded from both sides of the score fraction, so a
// provisional score only reflects what has actually been graded. When the
// service reports an overall score it is taken as the source of truth.
func Assemble(quiz domain.Quiz, info AttemptInfo, resp grading.Response) domain.Result {
	byQuestion := make(map[string]grading.Verdict, len(resp.Verdicts))
	for _, v := range resp.Verdicts {
		byQuestion[v.QuestionID] = v
	}

	feedback := make(map[string]domain.Feedback, len(quiz.Questions))
	gradedPoints, correctPoints := 0, 0
	pending := false

	for _, q := range quiz.Questions {
		verdict, ok := byQuestion[q.ID]
		if !ok || verdict.Correct == nil {
			pending = true
			feedback[q.ID] = domain.Feedback{
				Status:      domain.FeedbackPendingReview,
				Explanation: verdict.Explanation,
			}
			continue
		}
		gradedPoints += q.Points
		if *verdict.Correct {
			correctPoints += q.Points
		}
		explanation := verdict.Explanation
		if explanation == "" {
			explanation = q.Explanation
		}
		feedback[q.ID] = domain.Feedback{
			Correct:     verdict.Correct,
			Status:      domain.FeedbackGraded,
			Explanation: explanation,
		}
	}

	score := 0.0
	if gradedPoints > 0 {
		score = round1(float64(correctPoints) / float64(gradedPoints) * 100)
	}
	if resp.Score != nil {
		score = round1(*resp.Score)
	}

	status := domain.ResultGraded
	if pending {
		status = domain.ResultProvisional
	}

	return domain.Result{
		ID:          uuid.NewString(),
		AttemptID:   info.AttemptID,
		QuizID:      quiz.ID,
		Participant: info.Participant,
		Score:       score,
		Status:      status,
		Feedback:    feedback,
		TimeTaken:   info.TimeTaken,
		SubmittedAt: info.SubmittedAt,
	}
}

// AssemblePending builds an all-pending Result for when the grading service
// is unreachable. The participant still sees a result, conservatively marked
// provisional with a zero score.
func AssemblePending(quiz domain.Quiz, info AttemptInfo) domain.Result {
	return Assemble(quiz, info, grading.Response{})
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

package analytics

import (
	"fmt"
	"math"
	"sort"

	"quiz-engine-service/internal/domain"
)

// QuestionRate is the share of results that answered one question correctly.
type QuestionRate struct {
	Index       int     `json:"index"`
	QuestionID  string  `json:"questionId"`
	CorrectRate float64 `json:"correctRate"`
}

// CompletionEntry is one row of the completion-time ranking.
type CompletionEntry struct {
	Participant string `json:"participant"`
	TimeTaken   int    `json:"timeTakenSeconds"`
}

// Snapshot is the derived aggregate view over one quiz's results. It is
// recomputed from scratch on demand and holds no incremental state.
type Snapshot struct {
	QuizID            string            `json:"quizId"`
	TotalResults      int               `json:"totalResults"`
	AverageScore      float64           `json:"averageScore"`
	AverageTimeTaken  int               `json:"averageTimeTakenSeconds"`
	ScoreDistribution map[string]int    `json:"scoreDistribution"`
	QuestionRates     []QuestionRate    `json:"questionRates"`
	CompletionRanking []CompletionEntry `json:"completionRanking"`
	Passed            int               `json:"passed"`
	Failed            int               `json:"failed"`
	PassRate          float64           `json:"passRate"`
}

// Compute aggregates the results of a single quiz. It is pure and total: an
// empty result list yields the zero-valued form of every field rather than an
// error or a NaN.
func Compute(quiz domain.Quiz, results []domain.Result) Snapshot {
	snap := Snapshot{
		QuizID:            quiz.ID,
		TotalResults:      len(results),
		ScoreDistribution: make(map[string]int),
		QuestionRates:     questionRates(quiz, results),
		CompletionRanking: completionRanking(results),
	}

	scoreSum := 0.0
	timeSum := 0
	for _, r := range results {
		snap.ScoreDistribution[bucketLabel(r.Score)]++
		scoreSum += r.Score
		timeSum += r.TimeTaken
		if r.Score >= float64(quiz.PassingScore) {
			snap.Passed++
		} else {
			snap.Failed++
		}
	}

	if len(results) > 0 {
		snap.AverageScore = round1(scoreSum / float64(len(results)))
		snap.AverageTimeTaken = timeSum / len(results)
		snap.PassRate = round1(float64(snap.Passed) / float64(len(results)) * 100)
	}
	return snap
}

// bucketLabel maps a score into its decile bucket. A perfect 100 folds into
// the top bucket instead of opening a bucket of its own.
func bucketLabel(score float64) string {
	start := int(score/10) * 10
	if start > 90 {
		start = 90
	}
	if start < 0 {
		start = 0
	}
	return fmt.Sprintf("%d-%d", start, start+9)
}

func questionRates(quiz domain.Quiz, results []domain.Result) []QuestionRate {
	rates := make([]QuestionRate, len(quiz.Questions))
	for i, q := range quiz.Questions {
		rates[i] = QuestionRate{Index: i, QuestionID: q.ID}
		if len(results) == 0 {
			continue
		}
		correct := 0
		for _, r := range results {
			if fb, ok := r.Feedback[q.ID]; ok && fb.Correct != nil && *fb.Correct {
				correct++
			}
		}
		rates[i].CorrectRate = round1(float64(correct) / float64(len(results)) * 100)
	}
	return rates
}

func completionRanking(results []domain.Result) []CompletionEntry {
	ranking := make([]CompletionEntry, 0, len(results))
	for _, r := range results {
		ranking = append(ranking, CompletionEntry{Participant: r.Participant, TimeTaken: r.TimeTaken})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TimeTaken < ranking[j].TimeTaken
	})
	return ranking
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

package authoring

import (
	"fmt"
	"strings"

	"quiz-engine-service/internal/domain"
)

// Violation is one structural problem found in a draft. QuestionIndex is -1
// for quiz-level problems.
type Violation struct {
	QuestionIndex int    `json:"questionIndex"`
	Reason        string `json:"reason"`
}

// Report lists every violation found in a draft, in scan order.
type Report struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether the draft passed validation.
func (r Report) Valid() bool {
	return len(r.Violations) == 0
}

func (r Report) String() string {
	if r.Valid() {
		return "valid"
	}
	parts := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		if v.QuestionIndex < 0 {
			parts = append(parts, v.Reason)
			continue
		}
		parts = append(parts, fmt.Sprintf("question %d: %s", v.QuestionIndex+1, v.Reason))
	}
	return strings.Join(parts, "; ")
}

// Validate checks a draft against the publishing rules. It is pure: the draft
// is never modified and malformed input yields violations, not panics.
// Per question only the first failing rule is reported, but the scan continues
// across the remaining questions.
func Validate(d Draft) Report {
	var report Report

	if strings.TrimSpace(d.Title) == "" {
		report.Violations = append(report.Violations, Violation{QuestionIndex: -1, Reason: "title is required"})
	}
	if strings.TrimSpace(d.Description) == "" {
		report.Violations = append(report.Violations, Violation{QuestionIndex: -1, Reason: "description is required"})
	}

	for i := range d.Questions {
		if reason, ok := validateQuestion(d.Questions[i]); !ok {
			report.Violations = append(report.Violations, Violation{QuestionIndex: i, Reason: reason})
		}
	}
	return report
}

func validateQuestion(q domain.Question) (string, bool) {
	if strings.TrimSpace(q.Prompt) == "" {
		return "prompt is required", false
	}
	if q.Points < 1 {
		return "point value is required", false
	}

	switch q.Type {
	case domain.MultipleChoice:
		for i, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Sprintf("option %d is empty", i+1), false
			}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return "correct option index out of range", false
		}
	case domain.ShortAnswer:
		if !hasAcceptedAnswer(q.AcceptedAnswers) {
			return "at least one acceptable answer is required", false
		}
	}
	return "", true
}

func hasAcceptedAnswer(answers []string) bool {
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

package domain

import (
	"errors"
	"strings"
)

// MinAnalyzableTextLength is the trimmed length below which user text is
// answered with the fixed short-text result instead of a model call.
const MinAnalyzableTextLength = 5

// Common validation errors for analysis input.
var (
	ErrEmptyUserText   = errors.New("user text cannot be empty")
	ErrMissingCriteria = errors.New("analysis criteria cannot be empty")
)

// Feedback is the qualitative half of an analysis result.
type Feedback struct {
	Summarize     string   `json:"summarize"`
	Keyword       []string `json:"keyword"`
	Facts         string   `json:"facts"`
	Understanding string   `json:"understanding"`
	Personalized  string   `json:"personalized"`
}

// ScoreResult is the quantitative half of an analysis result.
type ScoreResult struct {
	OverallScore int `json:"overall_score"`
	Level        int `json:"level"`
}

// AnalysisResult aggregates an independently computed score and feedback.
// Both halves must exist; there is no partial aggregate.
type AnalysisResult struct {
	OverallScore int      `json:"overall_score"`
	Level        int      `json:"level"`
	Feedback     Feedback `json:"feedback"`
}

// AnalysisRequest is the input to one analysis run.
type AnalysisRequest struct {
	UserText string
	Criteria map[string]any
	History  []map[string]any
}

// IsTooShort reports whether the user text falls under the short-text
// fast path.
func (r AnalysisRequest) IsTooShort() bool {
	return len(strings.TrimSpace(r.UserText)) < MinAnalyzableTextLength
}

// ShortTextResult is the fixed result written for user text under the
// minimum analyzable length. It is a COMPLETED outcome, not an error.
func ShortTextResult() *AnalysisResult {
	return &AnalysisResult{
		OverallScore: 0,
		Level:        1,
		Feedback: Feedback{
			Summarize:     "The submitted text was too short to analyze.",
			Keyword:       []string{"recognition failed", "short answer"},
			Facts:         "There is not enough text to analyze.",
			Understanding: "The speaker's intent could not be determined.",
			Personalized:  "Please try again with a longer answer.",
		},
	}
}

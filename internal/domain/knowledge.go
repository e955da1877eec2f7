package domain

// MaxEvaluationTextLength bounds the candidate text accepted by the
// knowledge evaluation endpoint.
const MaxEvaluationTextLength = 5000

// KnowledgeAction is the closed set of per-target evaluation decisions.
type KnowledgeAction string

// Possible knowledge actions.
const (
	KnowledgeActionUpdate KnowledgeAction = "UPDATE"
	KnowledgeActionIgnore KnowledgeAction = "IGNORE"
)

// IsValid reports whether the action is a member of the closed enum.
func (a KnowledgeAction) IsValid() bool {
	return a == KnowledgeActionUpdate || a == KnowledgeActionIgnore
}

// RawFeedbackItem is one unit of free-text feedback collected upstream,
// prior to refinement.
type RawFeedbackItem struct {
	ID          string `json:"id"          validate:"required"`
	Keyword     string `json:"keyword"     validate:"required"`
	RawFeedback string `json:"rawFeedback" validate:"required"`
}

// KnowledgeCandidate is the normalized form of one raw feedback item:
// model-refined text plus its embedding vector.
type KnowledgeCandidate struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	RefinedText string    `json:"refinedText"`
	Embedding   []float32 `json:"embedding"`
}

// RefineBatchResult is the outcome of one refinement batch. ProcessedCount
// counts only items that produced a candidate; failed items are dropped.
type RefineBatchResult struct {
	ProcessedCount int                  `json:"processedCount"`
	Candidates     []KnowledgeCandidate `json:"candidates"`
}

// EvaluateCandidateInput is the candidate under evaluation.
type EvaluateCandidateInput struct {
	Text    string `json:"text"    validate:"required"`
	Keyword string `json:"keyword"`
}

// EvaluateSimilarInput is one existing knowledge entry considered similar
// to the candidate, annotated with its similarity score.
type EvaluateSimilarInput struct {
	ID         string  `json:"id"   validate:"required"`
	Keyword    string  `json:"keyword"`
	Text       string  `json:"text" validate:"required"`
	Similarity float64 `json:"similarity"`
}

// KnowledgeEvaluationResult is the evaluation verdict for one target.
// FinalVector is only computed for UPDATE decisions with non-empty
// FinalContent.
type KnowledgeEvaluationResult struct {
	Decision     KnowledgeAction `json:"decision"`
	TargetID     string          `json:"targetId,omitempty"`
	FinalContent string          `json:"finalContent,omitempty"`
	FinalVector  []float32       `json:"finalVector,omitempty"`
	Reasoning    string          `json:"reasoning"`
}

// BatchKnowledgeEvaluationResult is the ordered set of decisions from one
// evaluation call. It may be empty when the model found nothing actionable.
type BatchKnowledgeEvaluationResult struct {
	Results []KnowledgeEvaluationResult `json:"results"`
}

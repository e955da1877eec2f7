package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imyme/ai-server/internal/domain"
)

// buildScoringPrompt asks the model for the quantitative half of an
// analysis: an overall score and a level, as bare JSON.
func buildScoringPrompt(userText string, criteria map[string]any) string {
	return fmt.Sprintf(`You are an expert language evaluator.
Please evaluate the following user text based on the provided criteria.

[Criteria]
%s

[User Text]
%s

[Output Format]
Return purely JSON without any markdown formatting.
{
    "overall_score": <0-100 integer>,
    "level": <1-5 integer>
}`, marshalIndent(criteria), userText)
}

// buildFeedbackPrompt asks the model for the qualitative half of an
// analysis. Prior exchanges are included so the personalized section can
// reference them.
func buildFeedbackPrompt(userText string, criteria map[string]any, history []map[string]any) string {
	historyText := "(No prior exchanges)"
	if len(history) > 0 {
		historyText = marshalIndent(history)
	}
	return fmt.Sprintf(`You are an encouraging language coach.
Write feedback for the user text below, judged against the criteria and
informed by the conversation history.

[Criteria]
%s

[Conversation History]
%s

[User Text]
%s

[Output Format]
Return purely JSON without any markdown formatting.
{
    "summarize": <one-sentence summary of the user text>,
    "keyword": [<up to 5 key phrases from the user text>],
    "facts": <factual observations about the answer>,
    "understanding": <what the user appears to understand>,
    "personalized": <specific, actionable advice for this user>
}`, marshalIndent(criteria), historyText, userText)
}

// buildRefinementPrompt rewrites one raw feedback note into a formal
// knowledge statement. The response is the refined text itself, not JSON.
func buildRefinementPrompt(keyword, rawFeedback string) string {
	return fmt.Sprintf(`You are a knowledge curator.
Rewrite the raw feedback below into a single, formal knowledge statement
about the topic "%s". Keep every concrete fact, drop filler and opinion,
and write in complete sentences.

[Raw Feedback]
%s

Return only the refined statement, with no markdown formatting and no
preamble.`, keyword, rawFeedback)
}

// buildEvaluationPrompt asks the model to compare a candidate statement
// against existing similar knowledge entries and decide, per entry,
// whether to update it or leave it alone.
func buildEvaluationPrompt(candidate domain.EvaluateCandidateInput, similars []domain.EvaluateSimilarInput) string {
	var lines []string
	for _, s := range similars {
		lines = append(lines, fmt.Sprintf("- ID: %s (Keyword: %s, Similarity: %.4f)\n  Content: %s",
			s.ID, s.Keyword, s.Similarity, s.Text))
	}
	similarsText := strings.Join(lines, "\n")
	if similarsText == "" {
		similarsText = "(No similar knowledge found)"
	}
	return fmt.Sprintf(`You are a knowledge base maintainer.
A new candidate statement has arrived. Compare it against each existing
entry below and decide whether that entry should be updated to absorb the
candidate (UPDATE) or left unchanged (IGNORE). When updating, write the
merged content yourself.

[Candidate]
%s

[Existing Entries]
%s

[Output Format]
Return purely JSON without any markdown formatting.
{
    "results": [
        {
            "decision": "UPDATE" | "IGNORE",
            "targetId": <ID of the existing entry>,
            "finalContent": <merged content, required for UPDATE>,
            "reasoning": <one sentence explaining the decision>
        }
    ]
}`, candidate.Text, similarsText)
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

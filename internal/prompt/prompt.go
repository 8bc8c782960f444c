// Package prompt builds the instruction texts sent to the completion service.
// The builders are pure: same inputs, same prompt, no side effects.
package prompt

import (
	"fmt"
	"strings"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

// QuestionCount is the number of interview questions demanded from the model.
const QuestionCount = 5

// Contract selects the output format requested from the evaluation call.
// The JSON contract is the machine-readable default; the free-text contract
// is a legacy mode whose output is displayed unparsed.
type Contract int

const (
	ContractJSON Contract = iota
	ContractFreeText
)

// QA is one question/answer pair fed into the evaluation prompt.
type QA struct {
	Question string
	Answer   string
}

var (
	ErrEmptyCV    = errors.NewSentinel("CV text must not be empty")
	ErrEmptyRole  = errors.NewSentinel("role must not be empty")
	ErrEmptyPairs = errors.NewSentinel("at least one question/answer pair required")
)

const questionTemplate = `Act strictly as an AI interviewer.

Your task:
- Based on the following candidate CV and the job role of "%s", generate exactly %d interview questions.
- The questions must be a mix of technical and behavioral, directly relevant to the role.

Strict instructions:
- DO NOT include any introduction, summary, explanation, or extra phrases.
- DO NOT say things like "Here are the questions".
- DO NOT include anything before question one.
- Output one question per line, numbered 1 through %d.

Only output this format. Anything else is incorrect.

---CV START---
%s
---CV END---`

// BuildQuestionPrompt embeds the CV text and target role into the question
// generation template. Both inputs must be non-empty after trimming.
func BuildQuestionPrompt(cvText, role string) (string, error) {
	cvText = strings.TrimSpace(cvText)
	role = strings.TrimSpace(role)
	if cvText == "" {
		return "", ErrEmptyCV
	}
	if role == "" {
		return "", ErrEmptyRole
	}
	return fmt.Sprintf(questionTemplate, role, QuestionCount, QuestionCount, cvText), nil
}

const evaluationJSONTemplate = `You are a professional interview evaluator.

Evaluate the following answers provided by a candidate applying for the role of "%s".

Respond with a single JSON object and nothing else. No markdown fences, no commentary.
The object must have exactly these fields:
- "score": overall score as a number from 0 to 10
- "strengths": array of short strings describing what the candidate did well
- "improvements": array of short strings describing what to improve
- "recommendations": one paragraph of concrete advice

--- Begin ---

%s
--- End ---`

const evaluationFreeTextTemplate = `You are a professional interview evaluator.

Evaluate the following answers provided by a candidate applying for the role of "%s". For each question-answer pair, provide feedback with the following:

1. **Clarity** (Short note)
2. **Relevance** (Short note)
3. **Suggestions for Improvement**
4. **Score out of 10**

Return the response as a structured numbered list for each pair.

--- Begin ---

%s
--- End ---`

// BuildEvaluationPrompt embeds each question/answer pair and the role into
// the evaluation template selected by contract.
func BuildEvaluationPrompt(pairs []QA, role string, contract Contract) (string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return "", ErrEmptyRole
	}
	if len(pairs) == 0 {
		return "", ErrEmptyPairs
	}

	var b strings.Builder
	for i, pair := range pairs {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, pair.Question, i+1, pair.Answer)
	}

	template := evaluationJSONTemplate
	if contract == ContractFreeText {
		template = evaluationFreeTextTemplate
	}
	return fmt.Sprintf(template, role, b.String()), nil
}

// Package gateway is the boundary to the external completion service. It
// turns prompts into domain objects and classifies failures; it holds no
// state and never retries on its own.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/interview"
	"github.com/mkarvonen/prepdeck/internal/prompt"
)

var (
	// ErrGeneration marks a failed or unusable question generation call.
	ErrGeneration = errors.NewSentinel("question generation failed")
	// ErrParse marks an evaluation response that violates the JSON contract.
	ErrParse = errors.NewSentinel("feedback response violates contract")
)

// Completer is the single call type the gateway depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Gateway wraps a Completer with the prompt and parsing policies of the
// interview domain. Calls are independent; concurrent use is safe because
// nothing here is mutated after construction.
type Gateway struct {
	completer Completer
	logger    *slog.Logger
}

func New(completer Completer, logger *slog.Logger) *Gateway {
	return &Gateway{
		completer: completer,
		logger:    logger.With("source", "Gateway"),
	}
}

// GenerateQuestions asks the model for interview questions based on the CV
// text and role. Every non-empty response line becomes one question with an
// ordinal id. A transport failure, rate limit, or a response without a single
// usable line fails with ErrGeneration; the caller owns the retry.
func (g *Gateway) GenerateQuestions(ctx context.Context, cvText, role string) ([]interview.Question, error) {
	p, err := prompt.BuildQuestionPrompt(cvText, role)
	if err != nil {
		return nil, err
	}

	raw, err := g.completer.Complete(ctx, p)
	if err != nil {
		return nil, errors.Wrap(errors.Join(ErrGeneration, err), "complete question prompt")
	}

	var questions []interview.Question
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, interview.Question{
			ID:   strconv.Itoa(len(questions) + 1),
			Text: line,
		})
	}
	if len(questions) == 0 {
		return nil, errors.Wrap(ErrGeneration, "response contained no usable lines",
			slog.Int("responseLength", len(raw)))
	}

	g.logger.DebugContext(ctx, "generated questions", slog.Int("count", len(questions)))
	return questions, nil
}

// EvaluateAnswers asks the model to grade the answer set under the strict
// JSON contract and parses the response into a Feedback. A malformed payload
// or one missing a required field fails with ErrParse.
func (g *Gateway) EvaluateAnswers(
	ctx context.Context,
	questions []interview.Question,
	answers []interview.Answer,
	role string,
) (*interview.Feedback, error) {
	raw, err := g.complete(ctx, questions, answers, role, prompt.ContractJSON)
	if err != nil {
		return nil, err
	}
	return parseFeedback(raw)
}

// EvaluateAnswersFreeText is the legacy evaluation mode: the response text is
// passed through unparsed for display-only use.
func (g *Gateway) EvaluateAnswersFreeText(
	ctx context.Context,
	questions []interview.Question,
	answers []interview.Answer,
	role string,
) (*interview.Feedback, error) {
	raw, err := g.complete(ctx, questions, answers, role, prompt.ContractFreeText)
	if err != nil {
		return nil, err
	}
	return &interview.Feedback{Recommendations: raw}, nil
}

func (g *Gateway) complete(
	ctx context.Context,
	questions []interview.Question,
	answers []interview.Answer,
	role string,
	contract prompt.Contract,
) (string, error) {
	byQuestion := make(map[string]string, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer.Text
	}
	pairs := make([]prompt.QA, len(questions))
	for i, question := range questions {
		pairs[i] = prompt.QA{Question: question.Text, Answer: byQuestion[question.ID]}
	}

	p, err := prompt.BuildEvaluationPrompt(pairs, role, contract)
	if err != nil {
		return "", err
	}
	raw, err := g.completer.Complete(ctx, p)
	if err != nil {
		return "", errors.Wrap(err, "complete evaluation prompt")
	}
	return raw, nil
}

// requiredFeedbackFields must all be present in a JSON contract response.
var requiredFeedbackFields = []string{"score", "strengths", "improvements", "recommendations"}

func parseFeedback(raw string) (*interview.Feedback, error) {
	// Models occasionally wrap the object in prose or markdown fences even
	// when told not to; parse the outermost object only.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, errors.Wrap(ErrParse, "no JSON object in response")
	}
	payload := raw[start : end+1]

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, errors.Wrap(ErrParse, "invalid JSON", slog.String("detail", err.Error()))
	}
	for _, field := range requiredFeedbackFields {
		if _, ok := fields[field]; !ok {
			return nil, errors.Wrap(ErrParse, "missing required field", slog.String("field", field))
		}
	}

	var feedback interview.Feedback
	if err := json.Unmarshal([]byte(payload), &feedback); err != nil {
		return nil, errors.Wrap(ErrParse, "field has wrong type", slog.String("detail", err.Error()))
	}
	return &feedback, nil
}

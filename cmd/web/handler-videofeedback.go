package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mkarvonen/prepdeck/internal/contexthelpers"
	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/interview"
)

// submitAnswer records the answer for the session's current question and
// advances to the next one. The answer is also persisted so past rounds stay
// reviewable after the session is gone.
func (app *application) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		QuestionID string             `json:"questionId"`
		AnswerText string             `json:"answerText"`
		Metrics    map[string]float64 `json:"metrics"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	session, ok := app.sessions.Get(userID)
	if !ok {
		app.clientError(w, r, http.StatusConflict, "No active interview")
		return
	}

	current, err := session.CurrentQuestion()
	if err != nil {
		app.clientError(w, r, http.StatusConflict, "Interview is not accepting answers")
		return
	}

	answer := interview.Answer{
		QuestionID: payload.QuestionID,
		Text:       payload.AnswerText,
		Metrics:    payload.Metrics,
	}
	if err := session.SubmitAnswer(answer); err != nil {
		switch {
		case errors.Is(err, interview.ErrValidation):
			app.clientError(w, r, http.StatusBadRequest, "Missing questionId or answerText")
		case errors.Is(err, interview.ErrWrongPhase):
			app.clientError(w, r, http.StatusConflict, "Interview is not accepting answers")
		default:
			app.serverError(w, r, err)
		}
		return
	}

	var metricsJSON []byte
	if len(payload.Metrics) > 0 {
		var err error
		if metricsJSON, err = json.Marshal(payload.Metrics); err != nil {
			app.serverError(w, r, errors.Wrap(err, "marshal metrics"))
			return
		}
	}
	stored := session.Answers()[current.ID]
	if err := app.answers.Save(r.Context(), userID, stored.QuestionID, stored.Text, metricsJSON); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Answer received successfully!"})
}

// finalEvaluate runs the evaluation over the full answer set. On failure the
// session stays answerable at the last question so the client can retry.
func (app *application) finalEvaluate(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	session, ok := app.sessions.Get(userID)
	if !ok {
		app.clientError(w, r, http.StatusConflict, "No active interview")
		return
	}

	if err := session.Evaluate(r.Context()); err != nil {
		switch {
		case errors.Is(err, interview.ErrWrongPhase):
			app.clientError(w, r, http.StatusConflict, "Interview is not ready for evaluation")
		case errors.Is(err, interview.ErrBusy):
			app.clientError(w, r, http.StatusTooManyRequests, "Evaluation already in progress")
		default:
			app.clientError(w, r, http.StatusBadGateway, "Evaluation failed, please retry")
		}
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{"feedback": session.Feedback()})
}

type historyEntry struct {
	QuestionID string          `json:"questionId"`
	AnswerText string          `json:"answerText"`
	Metrics    json.RawMessage `json:"metrics,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// answerHistory lists the user's persisted answers, oldest first.
func (app *application) answerHistory(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	answers, err := app.answers.ListForUser(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	entries := make([]historyEntry, 0, len(answers))
	for _, a := range answers {
		entries = append(entries, historyEntry{
			QuestionID: a.QuestionID,
			AnswerText: a.AnswerText,
			Metrics:    a.Metrics,
			CreatedAt:  a.CreatedAt,
		})
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"answers": entries})
}

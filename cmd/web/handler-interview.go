package main

import (
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/mkarvonen/prepdeck/internal/contexthelpers"
	"github.com/mkarvonen/prepdeck/internal/cv"
	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/gateway"
	"github.com/mkarvonen/prepdeck/internal/interview"
)

// maxCVUpload caps the CV upload size at 10 MB.
const maxCVUpload = 10 << 20

// startInterview takes a CV upload and a target role, generates the question
// list, and replaces the user's active session with a fresh one positioned at
// the first question.
func (app *application) startInterview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCVUpload); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	role := r.FormValue("role")
	file, header, err := r.FormFile("cv")
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "CV file is required")
		return
	}
	defer file.Close()

	// Content types from browsers are unreliable, check the magic bytes.
	head := make([]byte, 5)
	n, err := io.ReadFull(file, head)
	if err != nil && n == 0 {
		app.clientError(w, r, http.StatusBadRequest, "CV file is empty")
		return
	}
	if !cv.SniffPDF(head[:n]) {
		app.clientError(w, r, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	// The PDF reader needs a seekable file, so spool the upload to disk.
	tmp, err := os.CreateTemp("", "prepdeck-cv-*.pdf")
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "create temp file"))
		return
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err = tmp.Write(head[:n]); err != nil {
		app.serverError(w, r, errors.Wrap(err, "spool upload"))
		return
	}
	if _, err = io.Copy(tmp, file); err != nil {
		app.serverError(w, r, errors.Wrap(err, "spool upload"))
		return
	}

	cvText, err := cv.ExtractText(tmp.Name())
	if err != nil {
		if errors.Is(err, cv.ErrNotPDF) || errors.Is(err, cv.ErrNoText) {
			app.clientError(w, r, http.StatusBadRequest, "Could not read text from the CV")
			return
		}
		app.serverError(w, r, err)
		return
	}

	session := interview.NewSession(app.gateway, app.gateway, app.logger)
	if err = session.SubmitIntake(r.Context(), role, cvText); err != nil {
		switch {
		case errors.Is(err, interview.ErrValidation):
			app.clientError(w, r, http.StatusBadRequest, "Role and CV text are required")
		case errors.Is(err, gateway.ErrGeneration):
			app.clientError(w, r, http.StatusBadGateway, "Question generation failed, please retry")
		default:
			app.serverError(w, r, err)
		}
		return
	}
	if err = session.Begin(); err != nil {
		app.serverError(w, r, err)
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	app.sessions.Put(userID, session)

	app.logger.Debug("interview started", "userID", userID,
		"filename", header.Filename, "questionCount", len(session.Questions()))

	questions := make([]string, 0, len(session.Questions()))
	for _, q := range session.Questions() {
		questions = append(questions, q.Text)
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"questions": questions})
}

// evaluateAnswers is the stateless legacy evaluation: the client sends the
// full question and answer lists and gets the model's prose feedback back
// unparsed.
func (app *application) evaluateAnswers(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role      string   `json:"role"`
		Questions []string `json:"questions"`
		Answers   []string `json:"answers"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(payload.Questions) == 0 || len(payload.Questions) != len(payload.Answers) {
		app.clientError(w, r, http.StatusBadRequest, "Questions and answers must be non-empty and match")
		return
	}

	questions := make([]interview.Question, len(payload.Questions))
	answers := make([]interview.Answer, len(payload.Answers))
	for i, text := range payload.Questions {
		id := strconv.Itoa(i + 1)
		questions[i] = interview.Question{ID: id, Text: text}
		answers[i] = interview.Answer{QuestionID: id, Text: payload.Answers[i]}
	}

	feedback, err := app.gateway.EvaluateAnswersFreeText(r.Context(), questions, answers, payload.Role)
	if err != nil {
		app.clientError(w, r, http.StatusBadGateway, "Evaluation failed, please retry")
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{"feedback": feedback.Recommendations})
}

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthy(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})

	resp := srv.Get(t, "/api/healthy", "")
	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})

	resp := srv.PostJSON(t, "/api/auth/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody[struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}](t, resp)
	closeBody(t, resp)
	assert.True(t, registered.Success)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "Ada", registered.User.Name)
	assert.Equal(t, "ada@example.com", registered.User.Email)

	// Same email again is rejected.
	resp = srv.PostJSON(t, "/api/auth/register", "", map[string]string{
		"name":     "Imposter",
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	closeBody(t, resp)
	assert.Equal(t, "User already exists", body["message"])

	resp = srv.PostJSON(t, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loggedIn := decodeBody[struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, resp)
	closeBody(t, resp)
	assert.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	resp = srv.PostJSON(t, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	closeBody(t, resp)

	resp = srv.PostJSON(t, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	closeBody(t, resp)
}

func TestInterviewEndpointsRequireAuth(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})

	for _, path := range []string{
		"/api/interview/start",
		"/api/interview/evaluate",
		"/api/interview/video-feedback/submit",
		"/api/interview/video-feedback/final-evaluate",
	} {
		resp := srv.PostJSON(t, path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		closeBody(t, resp)
	}

	resp := srv.PostJSON(t, "/api/interview/start", "not-a-token", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	closeBody(t, resp)
}

func TestInterviewFlow(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})
	token := srv.Register(t, "Ada", "ada@example.com")

	resp := srv.UploadCV(t, token, "Backend Engineer", "cv.pdf",
		minimalPDF(t, "Go developer with five years of experience"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	started := decodeBody[struct {
		Questions []string `json:"questions"`
	}](t, resp)
	closeBody(t, resp)
	require.Len(t, started.Questions, 5)
	assert.Equal(t, "1. Tell me about your Go experience.", started.Questions[0])

	// An empty answer is rejected without advancing.
	resp = srv.PostJSON(t, "/api/interview/video-feedback/submit", token, map[string]any{
		"answerText": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	closeBody(t, resp)

	// Evaluating before all answers are in is rejected.
	resp = srv.PostJSON(t, "/api/interview/video-feedback/final-evaluate", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	closeBody(t, resp)

	answers := []string{
		"I have five years of Go experience.",
		"I reproduce the bug first, then bisect.",
		"I led a storage migration.",
		"I focus on the shared goal.",
		"The role matches my background.",
	}
	for i, answer := range answers {
		payload := map[string]any{"answerText": answer}
		if i == 0 {
			payload["metrics"] = map[string]float64{"clarity_score": 0.8}
		}
		resp = srv.PostJSON(t, "/api/interview/video-feedback/submit", token, payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		closeBody(t, resp)
		assert.Equal(t, "Answer received successfully!", body["message"])
	}

	resp = srv.PostJSON(t, "/api/interview/video-feedback/final-evaluate", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	evaluated := decodeBody[struct {
		Feedback struct {
			Score           float64  `json:"score"`
			Strengths       []string `json:"strengths"`
			Improvements    []string `json:"improvements"`
			Recommendations string   `json:"recommendations"`
		} `json:"feedback"`
	}](t, resp)
	closeBody(t, resp)
	assert.InDelta(t, 7.5, evaluated.Feedback.Score, 0.001)
	assert.Equal(t, []string{"clear communication", "relevant experience"}, evaluated.Feedback.Strengths)
	assert.NotEmpty(t, evaluated.Feedback.Recommendations)

	// Every answer was persisted, metrics included.
	resp = srv.Get(t, "/api/interview/video-feedback/history", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[struct {
		Answers []struct {
			QuestionID string          `json:"questionId"`
			AnswerText string          `json:"answerText"`
			Metrics    json.RawMessage `json:"metrics"`
		} `json:"answers"`
	}](t, resp)
	closeBody(t, resp)
	require.Len(t, history.Answers, 5)
	assert.Equal(t, "1", history.Answers[0].QuestionID)
	assert.Equal(t, answers[0], history.Answers[0].AnswerText)
	assert.JSONEq(t, `{"clarity_score":0.8}`, string(history.Answers[0].Metrics))
	assert.Empty(t, history.Answers[1].Metrics)
}

func TestInterviewEvaluationRetry(t *testing.T) {
	t.Parallel()
	completer := &scriptedCompleter{evaluateFailures: 1}
	srv := startTestServer(t, io.Discard, completer)
	token := srv.Register(t, "Ada", "ada@example.com")

	resp := srv.UploadCV(t, token, "Backend Engineer", "cv.pdf",
		minimalPDF(t, "Go developer with five years of experience"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	closeBody(t, resp)

	for i := 0; i < 5; i++ {
		resp = srv.PostJSON(t, "/api/interview/video-feedback/submit", token, map[string]any{
			"answerText": "An answer with substance.",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		closeBody(t, resp)
	}

	// First evaluation fails; the answers survive and a retry succeeds.
	resp = srv.PostJSON(t, "/api/interview/video-feedback/final-evaluate", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	closeBody(t, resp)

	resp = srv.PostJSON(t, "/api/interview/video-feedback/final-evaluate", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	evaluated := decodeBody[struct {
		Feedback struct {
			Score float64 `json:"score"`
		} `json:"feedback"`
	}](t, resp)
	closeBody(t, resp)
	assert.InDelta(t, 7.5, evaluated.Feedback.Score, 0.001)
}

func TestInterviewRejectsNonPDF(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})
	token := srv.Register(t, "Ada", "ada@example.com")

	resp := srv.UploadCV(t, token, "Backend Engineer", "cv.docx", []byte("not a pdf"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	closeBody(t, resp)
	assert.Equal(t, "Only PDF files are allowed", body["message"])
}

func TestSubmitWithoutActiveInterview(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})
	token := srv.Register(t, "Ada", "ada@example.com")

	resp := srv.PostJSON(t, "/api/interview/video-feedback/submit", token, map[string]any{
		"answerText": "An answer.",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	closeBody(t, resp)

	resp = srv.PostJSON(t, "/api/interview/video-feedback/final-evaluate", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	closeBody(t, resp)
}

func TestLegacyEvaluate(t *testing.T) {
	t.Parallel()
	srv := startTestServer(t, io.Discard, &scriptedCompleter{})
	token := srv.Register(t, "Ada", "ada@example.com")

	resp := srv.PostJSON(t, "/api/interview/evaluate", token, map[string]any{
		"role":      "Backend Engineer",
		"questions": []string{"Tell me about yourself."},
		"answers":   []string{"I build Go services."},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	closeBody(t, resp)
	assert.Contains(t, body["feedback"], "Clarity")

	resp = srv.PostJSON(t, "/api/interview/evaluate", token, map[string]any{
		"role":      "Backend Engineer",
		"questions": []string{"One question."},
		"answers":   []string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	closeBody(t, resp)
}

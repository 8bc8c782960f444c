package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	base := alice.New()
	authenticated := base.Append(app.authenticate, app.requireAuth)

	mux.Handle("GET /api/healthy", base.ThenFunc(app.healthy))

	mux.Handle("POST /api/auth/register", base.ThenFunc(app.register))
	mux.Handle("POST /api/auth/login", base.ThenFunc(app.login))

	mux.Handle("POST /api/interview/start", authenticated.ThenFunc(app.startInterview))
	mux.Handle("POST /api/interview/evaluate", authenticated.ThenFunc(app.evaluateAnswers))

	mux.Handle("POST /api/interview/video-feedback/submit", authenticated.ThenFunc(app.submitAnswer))
	mux.Handle("POST /api/interview/video-feedback/final-evaluate", authenticated.ThenFunc(app.finalEvaluate))
	mux.Handle("GET /api/interview/video-feedback/history", authenticated.ThenFunc(app.answerHistory))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}

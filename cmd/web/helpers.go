package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

// maxJSONBody caps the request bodies of the JSON endpoints.
const maxJSONBody = 1 << 20

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		map[string]string{"message": http.StatusText(http.StatusInternalServerError)})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Debug(message, "status", status, "method", method, "uri", uri)
	app.writeJSON(w, r, status, map[string]string{"message": message})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write response", errors.SlogError(err))
	}
}

// readJSON decodes the request body into dst, rejecting unknown sizes above
// maxJSONBody and trailing garbage.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

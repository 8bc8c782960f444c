package main

import (
	"net/http"
	"strings"

	"github.com/mkarvonen/prepdeck/internal/auth"
	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/repositories"
)

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		app.clientError(w, r, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	user, err := app.users.Create(r.Context(), payload.Name, payload.Email, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			app.clientError(w, r, http.StatusBadRequest, "User already exists")
			return
		}
		app.serverError(w, r, err)
		return
	}

	token, err := app.tokens.Sign(user.ID, user.Name, user.Email)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		app.clientError(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := app.users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.clientError(w, r, http.StatusNotFound, "User not found")
			return
		}
		app.serverError(w, r, err)
		return
	}

	if !auth.VerifyPassword(user.PasswordHash, payload.Password) {
		app.clientError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := app.tokens.Sign(user.ID, user.Name, user.Email)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"token": token,
		"user":  userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

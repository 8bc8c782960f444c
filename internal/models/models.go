// Package models holds the row types shared by the repositories.
package models

import "time"

// User is a registered account.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// SubmittedAnswer is one answered interview question, persisted so that past
// practice rounds survive the session.
type SubmittedAnswer struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	QuestionID string    `db:"question_id"`
	AnswerText string    `db:"answer_text"`
	Metrics    []byte    `db:"metrics"`
	CreatedAt  time.Time `db:"created_at"`
}

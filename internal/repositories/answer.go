package repositories

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/models"
	"github.com/mkarvonen/prepdeck/internal/sqlite"
)

// AnswerRepository persists submitted answers so that past practice rounds
// can be reviewed after the session is gone.
type AnswerRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewAnswerRepository(dbs *sqlite.Database, logger *slog.Logger) *AnswerRepository {
	return &AnswerRepository{
		dbs:    dbs,
		logger: logger.With("source", "AnswerRepository"),
	}
}

// Save stores one answered question. Metrics is an optional JSON document
// with delivery metrics for the answer.
func (r *AnswerRepository) Save(ctx context.Context, userID, questionID, answerText string, metrics []byte) error {
	stmt := `INSERT INTO answers (id, user_id, question_id, answer_text, metrics) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, uuid.NewString(), userID, questionID, answerText, metrics); err != nil {
		return errors.Wrap(err, "insert answer",
			slog.String("userID", userID),
			slog.String("questionID", questionID))
	}
	return nil
}

// ListForUser returns the user's answers, oldest first.
func (r *AnswerRepository) ListForUser(ctx context.Context, userID string) ([]models.SubmittedAnswer, error) {
	var answers []models.SubmittedAnswer
	stmt := `SELECT id, user_id, question_id, answer_text, metrics, created_at
FROM answers
WHERE user_id = ?
ORDER BY created_at, rowid`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &answers, stmt, userID); err != nil {
		return nil, errors.Wrap(err, "query answers", slog.String("userID", userID))
	}
	return answers, nil
}

package interview

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

// Phase is the lifecycle state of a session. Exactly one phase holds at any
// time.
type Phase int

const (
	PhaseIntake Phase = iota
	PhaseQuestionsReady
	PhaseAnswering
	PhaseSubmitting
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIntake:
		return "intake"
	case PhaseQuestionsReady:
		return "questions-ready"
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitting:
		return "submitting"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// QuestionSource generates the question list from CV text and a target role.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, cvText, role string) ([]Question, error)
}

// Evaluator turns the full answer set into structured feedback.
type Evaluator interface {
	EvaluateAnswers(ctx context.Context, questions []Question, answers []Answer, role string) (*Feedback, error)
}

var (
	// ErrValidation marks input problems that are surfaced inline and never
	// change the session phase.
	ErrValidation = errors.NewSentinel("validation failed")
	// ErrWrongPhase is returned when an operation is invoked outside the
	// phase it belongs to.
	ErrWrongPhase = errors.NewSentinel("operation not allowed in current phase")
	// ErrBusy rejects a second generation or evaluation while one is in
	// flight for the same session.
	ErrBusy = errors.NewSentinel("request already in flight")
)

// Session is one end-to-end interview attempt. It is single-owner: one
// client view drives it at a time, but the mutex keeps concurrent HTTP
// requests from corrupting it.
//
// Invariants: currentIndex is a valid question index while answering;
// len(answers) never exceeds len(questions); feedback is non-nil exactly in
// the complete phase.
type Session struct {
	mu        sync.Mutex
	source    QuestionSource
	evaluator Evaluator
	analyzer  MetricsAnalyzer
	logger    *slog.Logger

	phase        Phase
	role         string
	questions    []Question
	answers      map[string]Answer
	currentIndex int
	feedback     *Feedback
	lastErr      error
	inFlight     bool
}

// Option configures a Session.
type Option func(*Session)

// WithAnalyzer attaches a video metrics analyzer used after a successful
// evaluation.
func WithAnalyzer(a MetricsAnalyzer) Option {
	return func(s *Session) {
		s.analyzer = a
	}
}

// NewSession creates a session in the intake phase.
func NewSession(source QuestionSource, evaluator Evaluator, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		source:    source,
		evaluator: evaluator,
		analyzer:  NoopAnalyzer{},
		logger:    logger,
		phase:     PhaseIntake,
		answers:   map[string]Answer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitIntake validates the role and CV text, generates the question list,
// and moves the session to the questions-ready phase. On failure the session
// stays in intake with the error surfaced; the caller may simply retry.
func (s *Session) SubmitIntake(ctx context.Context, role, cvText string) error {
	s.mu.Lock()
	if s.phase != PhaseIntake {
		s.mu.Unlock()
		return errors.Wrap(ErrWrongPhase, "submit intake", slog.String("phase", s.phase.String()))
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	role = strings.TrimSpace(role)
	cvText = strings.TrimSpace(cvText)
	if role == "" || cvText == "" {
		s.mu.Unlock()
		return errors.Wrap(ErrValidation, "role and CV text required")
	}
	s.inFlight = true
	s.mu.Unlock()

	// The network call happens outside the lock; inFlight blocks duplicates.
	questions, err := s.source.GenerateQuestions(ctx, cvText, role)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "question generation failed", errors.SlogError(err))
		s.lastErr = err
		return errors.Wrap(err, "generate questions")
	}

	s.role = role
	s.questions = questions
	s.answers = map[string]Answer{}
	s.currentIndex = 0
	s.lastErr = nil
	s.phase = PhaseQuestionsReady
	return nil
}

// Begin moves from questions-ready to answering at the first question.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseQuestionsReady {
		return errors.Wrap(ErrWrongPhase, "begin answering", slog.String("phase", s.phase.String()))
	}
	s.currentIndex = 0
	s.phase = PhaseAnswering
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return Question{}, errors.Wrap(ErrWrongPhase, "current question", slog.String("phase", s.phase.String()))
	}
	return s.questions[s.currentIndex], nil
}

// SubmitAnswer records the answer for the current question and advances. The
// last answer moves the session to the submitting phase instead. An empty
// transcript is rejected without advancing, as is an answer addressed to a
// question other than the current one.
func (s *Session) SubmitAnswer(answer Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return errors.Wrap(ErrWrongPhase, "submit answer", slog.String("phase", s.phase.String()))
	}

	current := s.questions[s.currentIndex]
	if answer.QuestionID != "" && answer.QuestionID != current.ID {
		return errors.Wrap(ErrValidation, "answer does not address the current question",
			slog.String("got", answer.QuestionID), slog.String("want", current.ID))
	}
	text := strings.TrimSpace(answer.Text)
	if text == "" {
		return errors.Wrap(ErrValidation, "answer text must not be empty")
	}

	answer.QuestionID = current.ID
	answer.Text = text
	s.answers[current.ID] = answer

	if s.currentIndex == len(s.questions)-1 {
		s.phase = PhaseSubmitting
		return nil
	}
	s.currentIndex++
	return nil
}

// Evaluate runs the evaluation call and completes the session. On failure the
// session returns to answering at the last question with every answer
// preserved, so a retry re-submits the same set.
func (s *Session) Evaluate(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseSubmitting {
		s.mu.Unlock()
		return errors.Wrap(ErrWrongPhase, "evaluate", slog.String("phase", s.phase.String()))
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	s.inFlight = true
	questions := make([]Question, len(s.questions))
	copy(questions, s.questions)
	answers := make([]Answer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, s.answers[q.ID])
	}
	role := s.role
	s.mu.Unlock()

	feedback, err := s.evaluator.EvaluateAnswers(ctx, questions, answers, role)
	if err == nil && s.analyzer != nil {
		var metrics *VideoMetrics
		if metrics, err = s.analyzer.Analyze(ctx, answers); err == nil && metrics != nil {
			feedback.VideoMetrics = metrics
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		// Evaluation failed: back to the last question, answers intact.
		s.logger.LogAttrs(ctx, slog.LevelWarn, "evaluation failed", errors.SlogError(err))
		s.phase = PhaseAnswering
		s.currentIndex = len(s.questions) - 1
		s.lastErr = err
		return errors.Wrap(err, "evaluate answers")
	}

	s.feedback = feedback
	s.lastErr = nil
	s.phase = PhaseComplete
	return nil
}

// Reset clears the session back to intake. Only a completed session can be
// reset; abandoning an active one means dropping the session object.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseComplete {
		return errors.Wrap(ErrWrongPhase, "reset", slog.String("phase", s.phase.String()))
	}
	s.role = ""
	s.questions = nil
	s.answers = map[string]Answer{}
	s.currentIndex = 0
	s.feedback = nil
	s.lastErr = nil
	s.phase = PhaseIntake
	return nil
}

// AcknowledgeError clears the surfaced error. The phase was already restored
// to the prior stable state when the error was recorded, so acknowledging
// never loses state.
func (s *Session) AcknowledgeError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Err returns the error surfaced to the user, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Role returns the target role submitted at intake.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Questions returns a copy of the generated question list.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]Question, len(s.questions))
	copy(questions, s.questions)
	return questions
}

// Answers returns a copy of the submitted answers keyed by question id.
func (s *Session) Answers() map[string]Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make(map[string]Answer, len(s.answers))
	for id, a := range s.answers {
		answers[id] = a
	}
	return answers
}

// CurrentIndex returns the index of the question being answered.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// Feedback returns the evaluation result, non-nil exactly when the session is
// complete. The result is read-only.
func (s *Session) Feedback() *Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

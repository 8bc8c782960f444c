package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mkarvonen/prepdeck/internal/ai"
	"github.com/mkarvonen/prepdeck/internal/auth"
	"github.com/mkarvonen/prepdeck/internal/envstruct"
	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/gateway"
	"github.com/mkarvonen/prepdeck/internal/interview"
	"github.com/mkarvonen/prepdeck/internal/logging"
	"github.com/mkarvonen/prepdeck/internal/pprofserver"
	"github.com/mkarvonen/prepdeck/internal/repositories"
	"github.com/mkarvonen/prepdeck/internal/sqlite"
)

type application struct {
	logger   *slog.Logger
	gateway  *gateway.Gateway
	users    *repositories.UserRepository
	answers  *repositories.AnswerRepository
	sessions *interview.Sessions
	tokens   auth.Tokens
}

type config struct {
	Addr        string `env:"PREPDECK_ADDR" envDefault:"localhost:4000"`
	SqliteURL   string `env:"PREPDECK_SQLITE_URL" envDefault:"./prepdeck.sqlite"`
	TokenSecret string `env:"PREPDECK_TOKEN_SECRET"`
	TokenTTL    string `env:"PREPDECK_TOKEN_TTL" envDefault:"30m"`
	LLMAPIKey   string `env:"GROQ_API_KEY" envDefault:""`
	LLMBaseURL  string `env:"PREPDECK_LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel    string `env:"PREPDECK_LLM_MODEL" envDefault:"llama3-8b-8192"`
}

func main() {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})))

	// The .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofPort, ok := os.LookupEnv("PREPDECK_PPROF_PORT")
	if !ok {
		pprofPort = "6060"
	}
	pprofserver.Launch(pprofPort, logger)

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.Error("server exited", errors.SlogError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	return runWithCompleter(ctx, logger, lookupEnv, nil)
}

// runWithCompleter wires the application together. The completer parameter
// exists so tests can stand up the full server against a scripted model; when
// nil, a real client is built from the configuration.
func runWithCompleter(
	ctx context.Context,
	logger *slog.Logger,
	lookupEnv func(string) (string, bool),
	completer gateway.Completer,
) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}
	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		return errors.Wrap(err, "parse token TTL", slog.String("value", cfg.TokenTTL))
	}

	dbs, err := sqlite.NewDatabase(cfg.SqliteURL)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	logger.InfoContext(ctx, "connected to db")

	if completer == nil {
		completer = ai.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	}

	app := application{
		logger:   logger,
		gateway:  gateway.New(completer, logger),
		users:    repositories.NewUserRepository(dbs, logger),
		answers:  repositories.NewAnswerRepository(dbs, logger),
		sessions: interview.NewSessions(),
		tokens:   auth.NewTokens(cfg.TokenSecret, tokenTTL),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

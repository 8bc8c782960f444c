// Package practice holds the interview practice commands.
package practice

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mkarvonen/prepdeck/internal/ai"
	"github.com/mkarvonen/prepdeck/internal/capture"
	"github.com/mkarvonen/prepdeck/internal/cv"
	"github.com/mkarvonen/prepdeck/internal/gateway"
	"github.com/mkarvonen/prepdeck/internal/logging"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "practice",
	Title: "Interview practice",
}

func init() {
	Questions.Flags().String("cv", "", "path to the CV (PDF or plain text)")
	_ = Questions.MarkFlagRequired("cv")
	Rehearse.Flags().Int("seconds", capture.DefaultUnits, "answer time budget in seconds")
}

func newLogger() *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
}

var Questions = &cobra.Command{
	Use:     "questions [role]",
	GroupID: "practice",
	Short:   "Generate interview questions",
	Long:    `Generates interview questions from a CV for the given role.`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cvPath, _ := cmd.Flags().GetString("cv")
		role := strings.Join(args, " ")

		var (
			cvText string
			err    error
		)
		if strings.HasSuffix(strings.ToLower(cvPath), ".pdf") {
			if cvText, err = cv.ExtractText(cvPath); err != nil {
				return err
			}
		} else {
			var raw []byte
			if raw, err = os.ReadFile(cvPath); err != nil {
				return err
			}
			cvText = string(raw)
		}

		baseURL, ok := os.LookupEnv("PREPDECK_LLM_BASE_URL")
		if !ok {
			baseURL = "https://api.groq.com/openai/v1"
		}
		model, ok := os.LookupEnv("PREPDECK_LLM_MODEL")
		if !ok {
			model = "llama3-8b-8192"
		}
		client := ai.NewClient(os.Getenv("GROQ_API_KEY"), baseURL, model)
		gw := gateway.New(client, newLogger())

		questions, err := gw.GenerateQuestions(cmd.Context(), cvText, role)
		if err != nil {
			return err
		}
		for _, question := range questions {
			fmt.Println(question.Text)
		}
		return nil
	},
}

var Rehearse = &cobra.Command{
	Use:     "rehearse [question]",
	GroupID: "practice",
	Short:   "Rehearse a timed answer",
	Long: `Runs a timed answer round at the terminal: type your answer line by
line before the countdown runs out, then press Ctrl-D to stop early.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, _ := cmd.Flags().GetInt("seconds")
		question := strings.Join(args, " ")

		done := make(chan bool, 1)
		transcriber := capture.NewReaderTranscriber(cmd.InOrStdin())
		round := capture.New(capture.Config{
			Units:       seconds,
			Transcriber: transcriber,
			OnTick: func(remaining int) {
				if remaining%10 == 0 || remaining <= 5 {
					fmt.Printf("%ds left\n", remaining)
				}
			},
			OnStop: func(auto bool) {
				done <- auto
			},
			Logger: newLogger(),
		})

		fmt.Printf("Q: %s\nYou have %d seconds.\n", question, seconds)
		if err := round.Start(cmd.Context()); err != nil {
			return err
		}
		go func() {
			// Ctrl-D ends the answer before the countdown does.
			<-transcriber.Done()
			round.Stop()
		}()
		auto := <-done
		if auto {
			fmt.Println("\nTime is up!")
		}
		fmt.Printf("\nYour answer:\n%s\n", round.Transcript())
		return nil
	},
}

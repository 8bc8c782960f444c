// Package user holds the account management commands.
package user

import (
	"fmt"
	"os"

	"github.com/mkarvonen/prepdeck/internal/auth"
	"github.com/mkarvonen/prepdeck/internal/logging"
	"github.com/mkarvonen/prepdeck/internal/repositories"
	"github.com/mkarvonen/prepdeck/internal/sqlite"
	"github.com/spf13/cobra"

	"log/slog"
)

var Group = &cobra.Group{
	ID:    "user",
	Title: "User operations",
}

func init() {
	Create.Flags().String("name", "", "display name")
	Create.Flags().String("email", "", "email address")
	Create.Flags().String("password", "", "password")
	Create.Flags().String("sqlite-url", "./prepdeck.sqlite", "SQLite URL")
	_ = Create.MarkFlagRequired("name")
	_ = Create.MarkFlagRequired("email")
	_ = Create.MarkFlagRequired("password")
}

var Create = &cobra.Command{
	Use:     "create",
	GroupID: "user",
	Short:   "Create a user",
	Long:    `Creates a user account directly in the database, bypassing the API.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		sqliteURL, _ := cmd.Flags().GetString("sqlite-url")

		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, nil)))

		dbs, err := sqlite.NewDatabase(sqliteURL)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbs.Close()
		}()

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		created, err := repositories.NewUserRepository(dbs, logger).Create(cmd.Context(), name, email, hash)
		if err != nil {
			return err
		}
		fmt.Printf("created user %s (%s)\n", created.ID, created.Email)
		return nil
	},
}

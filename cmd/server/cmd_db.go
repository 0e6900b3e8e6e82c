package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/database"
	"mealplan-backend/internal/repository"

	"github.com/spf13/cobra"
)

// mealplan migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := boot()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return database.Migrate(db)
	},
}

var (
	platformName     string
	platformLoginKey string
)

// mealplan create-platform-user --login-key root --name "Ops"
// The password is read from PLATFORM_PASSWORD or the first line of stdin.
var createPlatformUserCmd = &cobra.Command{
	Use:   "create-platform-user",
	Short: "Create a platform account (tenant provisioning)",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("PLATFORM_PASSWORD")
		if password == "" {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("password required on stdin or PLATFORM_PASSWORD")
			}
			password = strings.TrimSpace(line)
		}

		_, db, err := boot()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		user, err := auth.CreatePlatformUser(cmd.Context(), repository.New(db), platformName, platformLoginKey, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "platform user %q created (id %d)\n", user.LoginKey, user.ID)
		return nil
	},
}

func init() {
	createPlatformUserCmd.Flags().StringVar(&platformLoginKey, "login-key", "", "login key")
	createPlatformUserCmd.Flags().StringVar(&platformName, "name", "Platform", "display name")
	_ = createPlatformUserCmd.MarkFlagRequired("login-key")
}

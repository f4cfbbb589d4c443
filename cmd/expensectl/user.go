package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiorgiUbiria/expense_tracker/internal/auth"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/GiorgiUbiria/expense_tracker/internal/seed"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUserCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCmd(opts))
	return cmd
}

func newUserCreateCmd(opts *options) *cobra.Command {
	var (
		email, name, password string
		samples               bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			name = strings.TrimSpace(name)
			if email == "" || name == "" {
				return fmt.Errorf("--email and --name are required")
			}

			out := cmd.OutOrStdout()
			if password == "" {
				fmt.Fprint(out, "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(out)
			}
			if len(password) < auth.MinPasswordLength {
				return fmt.Errorf("password must be at least %d characters long", auth.MinPasswordLength)
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			user := &models.User{
				ID:       uuid.New(),
				Name:     name,
				Email:    email,
				Password: hash,
				Currency: models.DefaultCurrency,
				Language: models.DefaultLanguage,
				Theme:    models.DefaultTheme,
			}
			var txs []models.Transaction
			if samples {
				txs = seed.SampleTransactions(user.ID)
			}
			if err := st.CreateUserWithTransactions(cmd.Context(), user, txs); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(out, "User %s created with ID %s\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&samples, "samples", true, "Load the sample transactions")
	return cmd
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// piped input
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

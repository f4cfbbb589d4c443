package main

import (
	"fmt"
	"strings"

	"github.com/GiorgiUbiria/expense_tracker/internal/ledger"
	"github.com/GiorgiUbiria/expense_tracker/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace a user's transactions with the sample set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			user, err := st.UserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}

			txs, err := seed.Reset(ctx, st, user.ID)
			if err != nil {
				return err
			}

			s := ledger.Summarize(txs)
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d transactions for %s (income %s, expenses %s, balance %s)\n",
				len(txs), user.Email, s.TotalIncome.StringFixed(2), s.TotalExpenses.StringFixed(2), s.Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the account to seed")
	return cmd
}

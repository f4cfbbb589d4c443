package main

import (
	"fmt"

	"github.com/GiorgiUbiria/expense_tracker/configs"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"github.com/spf13/cobra"
)

type options struct {
	configDir string
	driver    string
	dsn       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "expensectl",
		Short:        "Expense tracker maintenance CLI",
		Long:         "Migrate the schema, create accounts and load sample transactions.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "./configs", "Directory holding config.yaml")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Database driver override (postgres or sqlite)")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Database DSN override")

	root.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newUserCmd(opts),
	)
	return root
}

// openStore resolves database settings from config and flags, then opens
// and migrates the store.
func (o *options) openStore() (*store.Store, error) {
	cfg, err := configs.LoadDB(o.configDir)
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.Driver = o.driver
	}
	if o.dsn != "" {
		cfg.DSN = o.dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

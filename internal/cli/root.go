// Package cli implements the reportctl commands. Each subcommand lives in
// its own file; this one wires them to the root command and loads the
// shared configuration.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/csg33k/vessel-reports/internal/adapters/sqlite"
	"github.com/csg33k/vessel-reports/internal/config"
)

// Version is injected from main.
var Version = "dev"

// NewRootCommand builds the reportctl command tree. Flag defaults that are
// not given on the command line come from the environment (and .env), the
// same settings the server reads.
func NewRootCommand() *cobra.Command {
	var (
		verbose bool
		cfg     config.Config
	)

	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Render vessel inspection and travel-expense reports",
		Long: `reportctl fills the inspection (.docx) and RBD (.xlsx) templates from the
command line, using the same templates, trip database and vessel catalog
as the web server.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	settings := func() config.Config { return cfg }
	root.AddCommand(newInspectionCommand(settings))
	root.AddCommand(newRBDCommand(settings))
	root.AddCommand(newTripsCommand(settings))
	root.AddCommand(newVesselsCommand(settings))
	return root
}

// Execute runs root and exits 1 on failure.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

// stringFlag returns the flag value when it was set, otherwise fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// openTrips opens the trip database named by --db or DB_PATH, creating the
// schema first when AUTO_MIGRATE is set.
func openTrips(cmd *cobra.Command, cfg config.Config) (*sqliteadapter.Repository, error) {
	repo, err := sqliteadapter.New(stringFlag(cmd, "db", cfg.DBPath))
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}
	return repo, nil
}

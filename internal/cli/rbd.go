package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/csg33k/vessel-reports/internal/adapters/pdf"
	"github.com/csg33k/vessel-reports/internal/adapters/rbd"
	"github.com/csg33k/vessel-reports/internal/adapters/templatesource"
	"github.com/csg33k/vessel-reports/internal/config"
)

func newRBDCommand(settings func() config.Config) *cobra.Command {
	var tripID, out, summary string

	cmd := &cobra.Command{
		Use:   "rbd",
		Short: "Fill the RBD expense workbook for a saved trip",
		Long: `Fill the RBD (rincian biaya dinas) workbook for a trip saved from the web
form, optionally writing a printable PDF summary next to it.

Examples:
  reportctl rbd --trip FAJAR-SAMARINDA-2024-08-15
  reportctl rbd --trip FAJAR-SAMARINDA-2024-08-15 --out rbd.xlsx --summary rbd.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			ctx := cmd.Context()

			repo, err := openTrips(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			trip, err := repo.GetTrip(ctx, tripID)
			if err != nil {
				return fmt.Errorf("trip %q: %w", tripID, err)
			}

			tmpl, err := templatesource.New(cfg.TemplateTimeout).Fetch(ctx, stringFlag(cmd, "template", cfg.RBDTemplate))
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := rbd.New(cfg.RBDSignPlace).Generate(ctx, tmpl, trip, midnight(time.Now()), &buf); err != nil {
				return err
			}
			if out == "" {
				out = rbd.FileName(trip)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)

			if summary == "" {
				return nil
			}
			f, err := os.Create(summary)
			if err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
			if err := pdf.New().GenerateTripSummary(ctx, trip, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", summary)
			return nil
		},
	}
	cmd.Flags().String("template", "", "Template URL or path (default $TEMPLATE_RBD_URL)")
	cmd.Flags().String("db", "", "Trip database (default $DB_PATH)")
	cmd.Flags().StringVar(&tripID, "trip", "", "Trip id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output workbook (default: RBD_<vessel>_<date>.xlsx)")
	cmd.Flags().StringVar(&summary, "summary", "", "Also write a PDF summary to this file")
	_ = cmd.MarkFlagRequired("trip")
	return cmd
}

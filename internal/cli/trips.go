package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csg33k/vessel-reports/internal/adapters/pdf"
	"github.com/csg33k/vessel-reports/internal/config"
	"github.com/csg33k/vessel-reports/internal/domain"
)

func newTripsCommand(settings func() config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List saved trips, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openTrips(cmd, settings())
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			trips, err := repo.ListTrips(cmd.Context())
			if err != nil {
				return err
			}
			if len(trips) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trips saved.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tVESSEL\tSTART\tEND\tTOTAL")
			for _, t := range trips {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.VesselCode,
					t.StartDate.Format(domain.StoredDate), t.EndDate.Format(domain.StoredDate),
					pdf.FormatRupiah(t.Total()))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("db", "", "Trip database (default $DB_PATH)")
	return cmd
}

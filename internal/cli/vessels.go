package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csg33k/vessel-reports/internal/config"
	"github.com/csg33k/vessel-reports/internal/domain"
)

func newVesselsCommand(settings func() config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vessels",
		Short: "Print the vessel catalog offered on the inspection form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := domain.LoadVesselCatalog(stringFlag(cmd, "file", settings().VesselsFile))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range catalog.Types {
				fmt.Fprintf(w, "%s (%d)\n", t.Name, len(t.Vessels))
				if len(t.Vessels) > 0 {
					fmt.Fprintf(w, "  %s\n", strings.Join(t.Vessels, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().String("file", "", "Catalog YAML (default $VESSELS_FILE, else built in)")
	return cmd
}

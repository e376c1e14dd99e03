package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sensoringest/internal/ingest"
)

func (a *app) sitesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Manage the static site catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import CATALOG.xlsx",
		Short: "Load sites and their column metadata from a workbook",
		Long: `Load the site catalog from a workbook with a Sites worksheet (SiteId, SiteKey,
SiteName, Latitude, Longitude, Elevation (m), Sampling Interval (min)) and a Columns
worksheet (SiteKey, Field, Units, Aliases). Column metadata of every imported site key
is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sites, cols, err := ingest.ReadCatalog(content)
			if err != nil {
				return err
			}
			rt, err := a.wire()
			if err != nil {
				return err
			}
			defer rt.close(a.log)

			if err := rt.services.ImportCatalog(cmd.Context(), sites, cols); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d sites, %d columns\n", len(sites), len(cols))
			return nil
		},
	})
	return cmd
}

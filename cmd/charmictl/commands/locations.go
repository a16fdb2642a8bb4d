package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"charmi-backend/internal/infrastructure/importer"
	"charmi-backend/pkg/container"
)

var (
	// Import flags
	importFile string
	dryRun     bool
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Manage location reference data",
}

// locationsImportCmd loads a workbook into countries, cities and districts
var locationsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import countries, cities and districts from an xlsx workbook",
	Long: `Import location reference data from an xlsx workbook with three sheets:

  Country   id | name
  City      id | name | country_id
  District  id | district_name | city_id

Rows are upserted by id in a single transaction and the location cache is flushed afterwards.

Examples:
  charmictl locations import --file locations.xlsx
  charmictl locations import --file locations.xlsx --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", importFile, err)
		}
		defer f.Close()

		ds, err := importer.ParseWorkbook(f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dryRun {
			fmt.Fprintf(out, "%d countries, %d cities, %d districts (dry run, nothing written)\n",
				len(ds.Countries), len(ds.Cities), len(ds.Districts))
			return nil
		}

		c, err := container.NewContainerWithConfig(cfg)
		if err != nil {
			return err
		}
		defer c.Cleanup()

		counts, err := importer.Import(cmd.Context(), c.DB.Pool, ds)
		if err != nil {
			return err
		}

		if err := c.LocationService.InvalidateCache(cmd.Context()); err != nil {
			log.Warn().Err(err).Msg("location cache not flushed, stale names expire with the TTL")
		}

		fmt.Fprintf(out, "imported %d countries, %d cities, %d districts\n",
			counts.Countries, counts.Cities, counts.Districts)
		return nil
	},
}

func init() {
	locationsImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to the xlsx workbook")
	locationsImportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate without writing")
	_ = locationsImportCmd.MarkFlagRequired("file")

	locationsCmd.AddCommand(locationsImportCmd)
	rootCmd.AddCommand(locationsCmd)
}

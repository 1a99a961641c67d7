package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/itam/pkg/domain/entities"
)

var (
	importUser        string
	importLicenceType string
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Load racks, accessories, assets and licences from CSV files",
	Long: `Import reads racks.csv, accessories.csv, assets.csv and licences.csv from
the given directory (each file is optional) and saves the records into the
configured store. With the memory driver the records are only validated.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importUser, "user", "import", "User recorded as creator of imported records")
	importCmd.Flags().StringVar(&importLicenceType, "licence-type", entities.BackOffice.String(), "Asset type of imported licences")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	assetType, err := entities.ParseAssetType(importLicenceType)
	if err != nil {
		return err
	}
	licenceAssetType = assetType

	s, err := openStores(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return err
	}
	defer s.close()

	summary, err := importDir(cmd.Context(), s, args[0], importUser, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📥 Imported from %s\n", args[0])
	fmt.Fprintf(out, "  Racks:       %d\n", summary.Racks)
	fmt.Fprintf(out, "  Accessories: %d\n", summary.Accessories)
	fmt.Fprintf(out, "  Assets:      %d\n", summary.Assets)
	fmt.Fprintf(out, "  Licences:    %d\n", summary.Licences)
	return nil
}

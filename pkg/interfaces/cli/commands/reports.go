package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/application/services"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	"github.com/vsinha/itam/pkg/interfaces/cli/output"
)

var (
	deprecatedMode  string
	deprecatedToday string
)

var rackCmd = &cobra.Command{
	Use:   "rack <id>",
	Short: "Show what occupies every unit of a rack",
	Args:  cobra.ExactArgs(1),
	RunE:  runRack,
}

var deprecatedCmd = &cobra.Command{
	Use:   "deprecated",
	Short: "List assets whose support period has ended",
	Args:  cobra.NoArgs,
	RunE:  runDeprecated,
}

func init() {
	deprecatedCmd.Flags().StringVar(&deprecatedMode, "mode", string(entities.ModeDC), "Inventory to report on: dc or back_office")
	deprecatedCmd.Flags().StringVar(&deprecatedToday, "today", "", "Evaluate deprecation at this date (YYYY-MM-DD) instead of today")
	rootCmd.AddCommand(rackCmd)
	rootCmd.AddCommand(deprecatedCmd)
}

func runRack(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid rack id %q", args[0])
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := openStores(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return err
	}
	defer s.close()

	info, err := services.NewRackInfoService(s.racks, logger).RackInfo(cmd.Context(), entities.RackID(id))
	if err != nil {
		return err
	}
	return output.Generate(output.RackReport{Info: info}, outputConfig(cmd))
}

func runDeprecated(cmd *cobra.Command, args []string) error {
	mode, err := entities.ParseMode(deprecatedMode)
	if err != nil {
		return err
	}
	today := entities.DateOf(time.Now())
	if deprecatedToday != "" {
		d, err := dto.ParseDate(&deprecatedToday)
		if err != nil {
			return err
		}
		today = *d
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := openStores(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return err
	}
	defer s.close()

	assets, err := services.NewAssetService(s.assets, events.NewInMemoryEventStore(logger), nil, logger).Deprecated(cmd.Context(), mode, today)
	if err != nil {
		return err
	}

	report := dto.DeprecationReport{
		Today:  today.Format(dto.DateLayout),
		Assets: make([]dto.AssetSummary, 0, len(assets)),
	}
	for _, asset := range assets {
		report.Assets = append(report.Assets, dto.NewAssetSummary(asset, today))
	}
	return output.Generate(output.DeprecationReport{Mode: string(mode), Report: report}, outputConfig(cmd))
}

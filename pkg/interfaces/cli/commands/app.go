package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/repositories"
	"github.com/vsinha/itam/pkg/infrastructure/attachments"
	"github.com/vsinha/itam/pkg/infrastructure/config"
	"github.com/vsinha/itam/pkg/infrastructure/logging"
	"github.com/vsinha/itam/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/itam/pkg/infrastructure/repositories/postgres"
)

// stores is the set of repositories backing one run
type stores struct {
	assets     repositories.AssetRepository
	racks      repositories.RackRepository
	licences   repositories.LicenceRepository
	categories repositories.SoftwareCategoryRepository
	supports   repositories.SupportRepository
	close      func()
}

// loadConfig reads the configuration selected by the global flags
func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, apperrors.ConfigError("failed to build logger", err)
	}
	return cfg, logger, nil
}

// openStores connects the configured storage backend. The memory backend
// is seeded from --data when given.
func openStores(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*stores, error) {
	switch cfg.Driver {
	case "memory":
		assets := memory.NewAssetRepository(256)
		licences := memory.NewLicenceRepository()
		s := &stores{
			assets:     assets,
			racks:      memory.NewRackRepository(assets),
			licences:   licences,
			categories: licences,
			supports:   memory.NewSupportRepository(assets),
			close:      func() {},
		}
		if dataDir != "" {
			summary, err := importDir(ctx, s, dataDir, "import", logger)
			if err != nil {
				return nil, err
			}
			logger.Info("Seeded memory store", zap.String("dir", dataDir), zap.Object("imported", summary))
		}
		return s, nil

	case "postgres":
		client, err := postgres.NewClient(ctx, cfg, logger)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to connect to database", err)
		}
		if err := client.Migrate(ctx); err != nil {
			client.Close()
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to migrate database", err)
		}
		assets := postgres.NewAssetStore(client)
		licences := postgres.NewLicenceStore(client)
		return &stores{
			assets:     assets,
			racks:      postgres.NewRackStore(client, assets),
			licences:   licences,
			categories: licences,
			supports:   postgres.NewSupportStore(client),
			close:      client.Close,
		}, nil

	default:
		return nil, apperrors.ConfigError(fmt.Sprintf("unknown database driver %q", cfg.Driver), nil)
	}
}

// openAttachments creates the configured attachment store
func openAttachments(ctx context.Context, cfg config.AttachmentsConfig, logger *zap.Logger) (attachments.Store, error) {
	switch cfg.Backend {
	case "local":
		store, err := attachments.NewLocalStore(cfg.Root)
		if err != nil {
			return nil, apperrors.ConfigError("failed to open attachment directory "+cfg.Root, err)
		}
		return store, nil
	case "s3":
		store, err := attachments.NewS3Store(ctx, attachments.S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		}, logger)
		if err != nil {
			return nil, apperrors.ConfigError("failed to create S3 client", err)
		}
		return store, nil
	default:
		return nil, apperrors.ConfigError(fmt.Sprintf("unknown attachments backend %q", cfg.Backend), nil)
	}
}

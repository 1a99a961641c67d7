package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
	csvloader "github.com/vsinha/itam/pkg/infrastructure/repositories/csv"
)

// Files read by importDir; each one is optional
const (
	racksFile       = "racks.csv"
	accessoriesFile = "accessories.csv"
	assetsFile      = "assets.csv"
	licencesFile    = "licences.csv"
)

// licenceAssetType is the asset type given to imported licences
var licenceAssetType = entities.BackOffice

type importSummary struct {
	Racks       int `json:"racks"`
	Accessories int `json:"accessories"`
	Assets      int `json:"assets"`
	Licences    int `json:"licences"`
}

func (s importSummary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("racks", s.Racks)
	enc.AddInt("accessories", s.Accessories)
	enc.AddInt("assets", s.Assets)
	enc.AddInt("licences", s.Licences)
	return nil
}

// importDir loads the CSV files found in dir into s. Racks go first so
// accessories and mounted assets can refer to them.
func importDir(ctx context.Context, s *stores, dir, user string, logger *zap.Logger) (importSummary, error) {
	var summary importSummary
	loader := csvloader.NewLoader()
	now := time.Now()

	if path, ok := present(dir, racksFile); ok {
		racks, err := loader.LoadRacks(path)
		if err != nil {
			return summary, apperrors.Validation("failed to load racks", err)
		}
		for _, rack := range racks {
			rack.Touch(user, now)
			if err := s.racks.SaveRack(ctx, rack); err != nil {
				return summary, err
			}
		}
		summary.Racks = len(racks)
	}

	if path, ok := present(dir, accessoriesFile); ok {
		accessories, err := loader.LoadAccessories(path)
		if err != nil {
			return summary, apperrors.Validation("failed to load accessories", err)
		}
		for _, accessory := range accessories {
			if err := s.racks.SaveAccessory(ctx, accessory); err != nil {
				return summary, err
			}
		}
		summary.Accessories = len(accessories)
	}

	if path, ok := present(dir, assetsFile); ok {
		assets, err := loader.LoadAssets(path)
		if err != nil {
			return summary, apperrors.Validation("failed to load assets", err)
		}
		for _, asset := range assets {
			asset.Touch(user, now)
			if err := s.assets.SaveAsset(ctx, asset); err != nil {
				return summary, err
			}
		}
		summary.Assets = len(assets)
	}

	if path, ok := present(dir, licencesFile); ok {
		licences, err := loader.LoadLicences(path, licenceAssetType)
		if err != nil {
			return summary, apperrors.Validation("failed to load licences", err)
		}
		for _, licence := range licences {
			if err := ensureCategory(ctx, s.categories, licence.SoftwareCategory); err != nil {
				return summary, err
			}
			licence.Touch(user, now)
			if err := s.licences.SaveLicence(ctx, licence); err != nil {
				return summary, err
			}
		}
		summary.Licences = len(licences)
	}

	logger.Debug("Import finished", zap.String("dir", dir), zap.Object("imported", summary))
	return summary, nil
}

func present(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path, false
	}
	return path, true
}

// ensureCategory gives a loaded category the id of the stored category with
// the same name, creating it when missing. The loader shares one value per
// name, so each category is resolved once.
func ensureCategory(ctx context.Context, categories repositories.SoftwareCategoryRepository, category *entities.SoftwareCategory) error {
	if category == nil || category.ID != 0 {
		return nil
	}

	page := repositories.Page{Number: 1, Size: 100}
	for {
		result, err := categories.ListSoftwareCategories(ctx, repositories.TextFilter(category.Name), page)
		if err != nil {
			return err
		}
		for _, existing := range result.Items {
			if existing.Name == category.Name {
				category.ID = existing.ID
				return nil
			}
		}
		if page.Number >= result.Pages() {
			break
		}
		page.Number++
	}
	return categories.SaveSoftwareCategory(ctx, category)
}

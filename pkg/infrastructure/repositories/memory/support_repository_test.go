package memory

import (
	"context"
	"testing"
	"time"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

func TestSupportRepository_Search(t *testing.T) {
	ctx := context.Background()
	assets := NewAssetRepository(10)
	repo := NewSupportRepository(assets)

	covered := testAsset(entities.DataCenter, "SRV-42")
	_ = assets.SaveAsset(ctx, covered)

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	gold := &entities.Support{
		AssetType: entities.DataCenter, ContractID: "C-100", Name: "Gold support",
		Region: "EU", DateFrom: &jan, AssetIDs: []entities.AssetID{covered.ID},
		SupportType: &entities.SupportType{ID: 1, Name: "hardware"},
	}
	silver := &entities.Support{
		AssetType: entities.BackOffice, ContractID: "C-200", Name: "Silver",
		Region: "US", DateFrom: &jun, AdditionalNotes: "renew in spring",
	}
	_ = repo.SaveSupport(ctx, gold)
	_ = repo.SaveSupport(ctx, silver)

	hardware := int64(1)
	fromMarch := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		query    repositories.SupportQuery
		expected []string
	}{
		{"all", repositories.SupportQuery{}, []string{"C-100", "C-200"}},
		{"mode", repositories.SupportQuery{Mode: entities.ModeBackOffice}, []string{"C-200"}},
		{"name", repositories.SupportQuery{Name: "gold"}, []string{"C-100"}},
		{"notes", repositories.SupportQuery{AdditionalNotes: "spring"}, []string{"C-200"}},
		{"support type", repositories.SupportQuery{SupportTypeID: &hardware}, []string{"C-100"}},
		{"date from range", repositories.SupportQuery{DateFrom: repositories.DateRange{From: &fromMarch}}, []string{"C-200"}},
		{"assigned asset sn", repositories.SupportQuery{AssetSN: "srv-4"}, []string{"C-100"}},
		{"unknown asset sn", repositories.SupportQuery{AssetSN: "nope"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := repo.ListSupports(ctx, tc.query)
			if err != nil {
				t.Fatalf("ListSupports failed: %v", err)
			}
			if len(result.Items) != len(tc.expected) {
				t.Fatalf("Expected %d supports, got %d", len(tc.expected), len(result.Items))
			}
			for i, id := range tc.expected {
				if result.Items[i].ContractID != id {
					t.Errorf("Expected %s at %d, got %s", id, i, result.Items[i].ContractID)
				}
			}
		})
	}
}

func TestSupportRepository_GetIsolatesAssetIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewSupportRepository(nil)

	s := &entities.Support{AssetType: entities.DataCenter, ContractID: "C", Name: "n", Region: "EU", AssetIDs: []entities.AssetID{1}}
	_ = repo.SaveSupport(ctx, s)

	got, _ := repo.GetSupport(ctx, s.ID)
	got.AssetIDs[0] = 99

	again, _ := repo.GetSupport(ctx, s.ID)
	if again.AssetIDs[0] != 1 {
		t.Errorf("Expected stored asset ids to be isolated, got %v", again.AssetIDs)
	}

	if _, err := repo.GetSupport(ctx, 42); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestLicenceRepository_ListAndCategories(t *testing.T) {
	ctx := context.Background()
	repo := NewLicenceRepository()

	office := &entities.SoftwareCategory{Name: "Office"}
	ide := &entities.SoftwareCategory{Name: "IDE"}
	if err := repo.SaveSoftwareCategory(ctx, office); err != nil {
		t.Fatalf("Failed to save category: %v", err)
	}
	_ = repo.SaveSoftwareCategory(ctx, ide)
	if err := repo.SaveSoftwareCategory(ctx, &entities.SoftwareCategory{Name: "Office"}); apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Errorf("Expected duplicate category name to conflict, got %v", err)
	}

	categories, _ := repo.ListSoftwareCategories(ctx, "", repositories.Page{})
	if len(categories.Items) != 2 || categories.Items[0].Name != "IDE" {
		t.Errorf("Expected categories sorted by name, got %v", categories.Items)
	}

	bo := entities.BackOffice
	dc := entities.DataCenter
	_ = repo.LoadLicences([]*entities.Licence{
		{SoftwareCategory: office, NIW: "N-1", SN: "A", AssetType: &bo},
		{SoftwareCategory: ide, NIW: "N-2", SN: "B", AssetType: &dc},
		{SoftwareCategory: office, NIW: "N-3", SN: "C", AssetType: &bo},
	})

	byCategory, _ := repo.ListLicences(ctx, repositories.LicenceQuery{SoftwareCategoryID: &office.ID})
	if byCategory.Total != 2 {
		t.Errorf("Expected 2 office licences, got %d", byCategory.Total)
	}
	byMode, _ := repo.ListLicences(ctx, repositories.LicenceQuery{Mode: entities.ModeDC})
	if byMode.Total != 1 || byMode.Items[0].NIW != "N-2" {
		t.Errorf("Expected only N-2 in dc mode, got %v", byMode.Items)
	}
}

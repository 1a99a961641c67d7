package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/itam/pkg/domain/entities"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadAssets(t *testing.T) {
	path := writeFile(t, "assets.csv", `type,manufacturer,model,height,warehouse,source,status,sn,barcode,invoice_date,support_period,price,rack_id,orientation,position
data center,Dell,R630,2,Warsaw,shipment,used,SN-1,BC-1,2021-01-31,36,1200.50,1,front,5
data center,Dell,R630,2,Warsaw,salvaged,,SN-2,,,,,,,
back office,Lenovo,T480,,Krakow,shipment,new,,BC-3,2022-06-01,24,800,,,
`)

	loader := NewLoader()
	assets, err := loader.LoadAssets(path)
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(assets))
	}

	first := assets[0]
	if first.Type != entities.DataCenter || first.Status != entities.StatusUsed {
		t.Errorf("Unexpected type/status %v/%v", first.Type, first.Status)
	}
	if first.Model.String() != "Dell R630" || first.Height() != 2 {
		t.Errorf("Unexpected model %s with height %d", first.Model, first.Height())
	}
	if first.DeviceInfo == nil || *first.DeviceInfo.RackID != 1 || first.DeviceInfo.Position != 5 || first.DeviceInfo.Orientation != entities.Front {
		t.Errorf("Unexpected device info %+v", first.DeviceInfo)
	}
	if first.Price.String() != "1200.5" {
		t.Errorf("Expected price 1200.5, got %s", first.Price)
	}
	if first.InvoiceDate == nil || *first.SupportPeriod != 36 {
		t.Error("Expected invoice date and support period")
	}

	second := assets[1]
	if second.Status != entities.StatusNew {
		t.Errorf("Expected default status new, got %v", second.Status)
	}
	if second.Barcode != nil || second.SupportPeriod != nil || second.DeviceInfo != nil {
		t.Error("Expected empty cells to stay unset")
	}
	if second.Model != first.Model || second.Warehouse != first.Warehouse {
		t.Error("Expected rows to share reference records")
	}

	if assets[2].Type != entities.BackOffice || assets[2].SN != nil {
		t.Errorf("Unexpected back office asset %s", assets[2])
	}
}

func TestLoadAssets_Errors(t *testing.T) {
	header := "type,manufacturer,model,height,warehouse,source,status,sn,barcode,invoice_date,support_period,price,rack_id,orientation,position\n"

	testCases := []struct {
		name    string
		content string
		message string
	}{
		{"header only", header, "at least one data row"},
		{"bad header", "type,model\nx,y\n", "header mismatch"},
		{"bad type", header + "mainframe,Dell,R630,2,W,shipment,,,,,,,,,\n", "unknown asset type"},
		{"missing model", header + "data center,Dell,,2,W,shipment,,,,,,,,,\n", "model cannot be empty"},
		{"bad date", header + "data center,Dell,R630,2,W,shipment,,,,31/01/2021,,,,,\n", "expected YYYY-MM-DD"},
		{"bad side", header + "data center,Dell,R630,2,W,shipment,,,,,,,1,top,3\n", "unknown orientation"},
		{"negative support", header + "data center,Dell,R630,2,W,shipment,,,,,-1,,,,\n", "support period cannot be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadAssets(writeFile(t, "assets.csv", tc.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("Expected error containing %q, got %v", tc.message, err)
			}
		})
	}
}

func TestLoadRacksAndAccessories(t *testing.T) {
	loader := NewLoader()

	racks, err := loader.LoadRacks(writeFile(t, "racks.csv", "id,name,max_u_height\n1,R-01,42\n2,R-02,48\n"))
	if err != nil {
		t.Fatalf("LoadRacks failed: %v", err)
	}
	if len(racks) != 2 || racks[1].Name != "R-02" || racks[1].MaxUHeight != 48 {
		t.Errorf("Unexpected racks %+v", racks)
	}

	if _, err := loader.LoadRacks(writeFile(t, "racks.csv", "id,name,max_u_height\n1,R-01,0\n")); err == nil {
		t.Error("Expected zero height rack to be rejected")
	}

	accessories, err := loader.LoadAccessories(writeFile(t, "acc.csv",
		"rack_id,orientation,position,accessory_name,remarks\n1,back,10,blanking panel,\n1,Front,1,shelf,keyboard\n"))
	if err != nil {
		t.Fatalf("LoadAccessories failed: %v", err)
	}
	if accessories[0].Orientation != entities.Back || accessories[1].Remarks != "keyboard" {
		t.Errorf("Unexpected accessories %+v %+v", accessories[0], accessories[1])
	}
}

func TestLoadLicences(t *testing.T) {
	path := writeFile(t, "licences.csv", `software_category,manufacturer,niw,sn,number_bought,price,invoice_date,valid_thru
Office,Microsoft,N-1,S-1,10,99.99,2023-01-01,2026-01-01
Office,Microsoft,N-2,S-2,,,,
`)

	licences, err := NewLoader().LoadLicences(path, entities.BackOffice)
	if err != nil {
		t.Fatalf("LoadLicences failed: %v", err)
	}
	if len(licences) != 2 {
		t.Fatalf("Expected 2 licences, got %d", len(licences))
	}
	if licences[0].SoftwareCategory != licences[1].SoftwareCategory {
		t.Error("Expected licences to share the software category")
	}
	if *licences[0].AssetType != entities.BackOffice || licences[0].NumberBought != 10 {
		t.Errorf("Unexpected licence %+v", licences[0])
	}
	if licences[1].ValidThru != nil || !licences[1].Price.IsZero() {
		t.Error("Expected empty cells to stay unset")
	}

	if _, err := NewLoader().LoadLicences(writeFile(t, "l.csv",
		"software_category,manufacturer,niw,sn,number_bought,price,invoice_date,valid_thru\nOffice,,,S-1,,,,\n"), entities.BackOffice); err == nil {
		t.Error("Expected missing inventory number to be rejected")
	}
}

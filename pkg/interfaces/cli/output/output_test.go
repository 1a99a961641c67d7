package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/itam/pkg/application/dto"
)

func sampleRack() *dto.RackInfo {
	sn := "SN-1"
	return &dto.RackInfo{
		ID:         7,
		Name:       "R07",
		MaxUHeight: 4,
		Sides: []dto.RackSide{
			{
				Type: "front",
				Items: []dto.RackItem{
					dto.AssetSlot{Type: "asset", AssetID: 1, Model: "R630", Height: 2, SN: &sn, Position: 1},
					dto.AccessorySlot{Type: "accessory", Position: 3, AccessoryType: "shelf", Remarks: "spare"},
					dto.NewEmptySlot(4),
				},
			},
			{
				Type:  "back",
				Items: []dto.RackItem{dto.NewEmptySlot(1), dto.NewEmptySlot(2), dto.NewEmptySlot(3), dto.NewEmptySlot(4)},
			},
		},
	}
}

func sampleDeprecation() DeprecationReport {
	sn := "SN-9"
	invoice := "2020-01-31"
	deprecation := "2021-01-31"
	period := 12
	return DeprecationReport{
		Mode: "dc",
		Report: dto.DeprecationReport{
			Today: "2024-02-01",
			Assets: []dto.AssetSummary{{
				ID:              9,
				Type:            "data center",
				Model:           "Dell R630",
				SN:              &sn,
				InvoiceDate:     &invoice,
				SupportPeriod:   &period,
				DeprecationDate: &deprecation,
				Deprecated:      true,
			}},
		},
	}
}

func TestGenerate_RackText(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(RackReport{Info: sampleRack()}, Config{Format: "text", Stdout: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Rack R07 (4U)", "#1 R630 (2U) sn=SN-1 barcode=-", "shelf: spare", "⋮"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "Free units: "); got != 2 {
		t.Errorf("expected a free-unit line per side, got %d", got)
	}
	if !strings.Contains(out, "Free units: 1") || !strings.Contains(out, "Free units: 4") {
		t.Errorf("unexpected free unit counts:\n%s", out)
	}
}

func TestGenerate_RackCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(RackReport{Info: sampleRack()}, Config{Format: "csv", Stdout: &buf}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 1+3+4 {
		t.Fatalf("expected 8 records, got %d", len(records))
	}
	if got := strings.Join(records[1], ","); got != "front,1,asset,1,#1 R630 (2U) sn=SN-1 barcode=-" {
		t.Errorf("unexpected first row %q", got)
	}
	if got := records[2][2]; got != "accessory" {
		t.Errorf("expected accessory row, got %q", got)
	}
}

func TestGenerate_DeprecationJSONToFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	config := Config{Format: "json", OutputDir: dir, Verbose: true, Stdout: &buf}
	if err := Generate(sampleDeprecation(), config); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "deprecated_dc.json"))
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	var report dto.DeprecationReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Today != "2024-02-01" || len(report.Assets) != 1 || report.Assets[0].ID != 9 {
		t.Errorf("unexpected report %+v", report)
	}
	if !strings.Contains(buf.String(), "deprecated_dc.json") {
		t.Errorf("verbose mode should name the saved file, got %q", buf.String())
	}
}

func TestGenerate_DeprecationText(t *testing.T) {
	tests := []struct {
		name   string
		report DeprecationReport
		want   []string
	}{
		{
			name:   "with assets",
			report: sampleDeprecation(),
			want:   []string{"as of 2024-02-01", "Assets: 1", "Dell R630", "SN-9", "2021-01-31"},
		},
		{
			name:   "empty",
			report: DeprecationReport{Mode: "back_office", Report: dto.DeprecationReport{Today: "2024-02-01"}},
			want:   []string{"Assets: 0", "nothing past its support period"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Generate(tt.report, Config{Format: "text", Stdout: &buf}); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(sampleDeprecation(), Config{Format: "xml", Stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vsinha/itam/pkg/application/dto"
)

// DeprecationReport renders the assets past their support period
type DeprecationReport struct {
	Mode   string
	Report dto.DeprecationReport
}

func (r DeprecationReport) Name() string {
	return "deprecated_" + r.Mode
}

func (r DeprecationReport) payload() any {
	return r.Report
}

func (r DeprecationReport) writeText(w io.Writer) error {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("⚠️  Deprecated %s assets as of %s", r.Mode, r.Report.Today)))
	fmt.Fprintf(w, "Assets: %d\n\n", len(r.Report.Assets))
	if len(r.Report.Assets) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("nothing past its support period"))
		return nil
	}

	fmt.Fprintf(w, "%-6s %-25s %-15s %-15s %-12s %-8s %-12s\n",
		"ID", "Model", "SN", "Barcode", "Invoiced", "Months", "Deprecated")
	fmt.Fprintf(w, "%-6s %-25s %-15s %-15s %-12s %-8s %-12s\n",
		"------", "-------------------------", "---------------", "---------------", "------------", "--------", "------------")
	for _, asset := range r.Report.Assets {
		fmt.Fprintf(w, "%-6d %-25s %-15s %-15s %-12s %-8s %s\n",
			asset.ID,
			asset.Model,
			orDash(asset.SN),
			orDash(asset.Barcode),
			orDash(asset.InvoiceDate),
			months(asset.SupportPeriod),
			warnStyle.Render(orDash(asset.DeprecationDate)))
	}
	return nil
}

func (r DeprecationReport) csvRecords() [][]string {
	records := [][]string{{"id", "type", "model", "sn", "barcode", "invoice_date", "support_period", "deprecation_date"}}
	for _, asset := range r.Report.Assets {
		records = append(records, []string{
			strconv.FormatInt(asset.ID, 10),
			asset.Type,
			asset.Model,
			deref(asset.SN),
			deref(asset.Barcode),
			deref(asset.InvoiceDate),
			months(asset.SupportPeriod),
			deref(asset.DeprecationDate),
		})
	}
	return records
}

func months(period *int) string {
	if period == nil {
		return "-"
	}
	return strconv.Itoa(*period)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

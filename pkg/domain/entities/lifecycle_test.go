package entities

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt(i int) *int { return &i }

func TestAddMonths(t *testing.T) {
	testCases := []struct {
		start    time.Time
		months   int
		expected time.Time
	}{
		{date(2020, 1, 31), 1, date(2020, 2, 29)},
		{date(2021, 1, 31), 1, date(2021, 2, 28)},
		{date(2020, 1, 1), 12, date(2021, 1, 1)},
		{date(2020, 3, 31), 1, date(2020, 4, 30)},
		{date(2020, 8, 31), 6, date(2021, 2, 28)},
		{date(2020, 2, 29), 12, date(2021, 2, 28)},
		{date(2020, 5, 15), 0, date(2020, 5, 15)},
		{date(2020, 3, 31), -1, date(2020, 2, 29)},
		{date(2019, 11, 30), 3, date(2020, 2, 29)},
	}

	for _, tc := range testCases {
		got := AddMonths(tc.start, tc.months)
		if !got.Equal(tc.expected) {
			t.Errorf("AddMonths(%s, %d) = %s, expected %s",
				tc.start.Format("2006-01-02"), tc.months,
				got.Format("2006-01-02"), tc.expected.Format("2006-01-02"))
		}
	}
}

func TestIsDeprecated(t *testing.T) {
	today := date(2024, 6, 1)

	testCases := []struct {
		name        string
		invoiceDate *time.Time
		period      *int
		today       time.Time
		expected    bool
	}{
		{"missing invoice date", nil, ptrInt(12), today, false},
		{"missing support period", ptrTime(date(2000, 1, 1)), nil, today, false},
		{"zero support period", ptrTime(date(2020, 1, 31)), ptrInt(0), today, false},
		{"one day past the window", ptrTime(date(2020, 1, 1)), ptrInt(12), date(2021, 1, 2), true},
		{"on the boundary day", ptrTime(date(2020, 1, 1)), ptrInt(12), date(2021, 1, 1), false},
		{"before the boundary", ptrTime(date(2020, 1, 1)), ptrInt(12), date(2020, 12, 31), false},
		{"month end clamps", ptrTime(date(2020, 1, 31)), ptrInt(1), date(2020, 3, 1), true},
		{"month end boundary", ptrTime(date(2020, 1, 31)), ptrInt(1), date(2020, 2, 29), false},
		{
			"time of day is ignored",
			ptrTime(time.Date(2020, 1, 1, 23, 59, 0, 0, time.UTC)),
			ptrInt(12),
			time.Date(2021, 1, 1, 23, 59, 59, 0, time.UTC),
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsDeprecated(tc.invoiceDate, tc.period, tc.today)
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestDeprecationDate(t *testing.T) {
	got, ok := DeprecationDate(ptrTime(date(2022, 8, 31)), ptrInt(6))
	if !ok {
		t.Fatal("Expected deprecation date to be defined")
	}
	if !got.Equal(date(2023, 2, 28)) {
		t.Errorf("Expected 2023-02-28, got %s", got.Format("2006-01-02"))
	}

	if _, ok := DeprecationDate(nil, ptrInt(6)); ok {
		t.Error("Expected no deprecation date without invoice date")
	}
}

func TestAsset_IsDeprecated(t *testing.T) {
	asset := &Asset{InvoiceDate: ptrTime(date(2020, 1, 1)), SupportPeriod: ptrInt(24)}
	if asset.IsDeprecated(date(2022, 1, 1)) {
		t.Error("Expected asset to be supported on its deprecation date")
	}
	if !asset.IsDeprecated(date(2022, 1, 2)) {
		t.Error("Expected asset to be deprecated after its deprecation date")
	}
}

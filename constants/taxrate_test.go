package constants

import "testing"

func TestTaxRateForYear(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1984, TaxRateThrough2017},
		{2016, TaxRateThrough2017},
		{2017, TaxRateThrough2017},
		{2018, TaxRateFrom2018},
		{2026, TaxRateFrom2018},
	}
	for _, tt := range tests {
		if got := TaxRateForYear(tt.year); got != tt.want {
			t.Errorf("TaxRateForYear(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

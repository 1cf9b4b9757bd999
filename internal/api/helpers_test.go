package api

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return d
}

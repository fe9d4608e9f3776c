package vehicle

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDailyRate(t *testing.T) {
	rate, err := ParseDailyRate("45.50")
	if err != nil {
		t.Fatalf("ParseDailyRate: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("unexpected rate: %s", rate)
	}

	for _, s := range []string{"", "abc", "0", "-12.50"} {
		if _, err := ParseDailyRate(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

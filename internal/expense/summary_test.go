package expense

import (
	"testing"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarize_GroupsAndSorts(t *testing.T) {
	items := []Expense{
		{Category: CategoryFuel, Amount: amt("45.50"), IncurredOn: "2026-01-10"},
		{Category: CategoryMaintenance, Amount: amt("320.00"), IncurredOn: "2026-01-15"},
		{Category: CategoryFuel, Amount: amt("52.25"), IncurredOn: "2026-02-03"},
	}

	got := Summarize(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Category != CategoryMaintenance || !got[0].Total.Equal(amt("320.00")) {
		t.Fatalf("expected maintenance first, got %+v", got[0])
	}
	if got[1].Category != CategoryFuel || !got[1].Total.Equal(amt("97.75")) {
		t.Fatalf("expected fuel total 97.75, got %+v", got[1])
	}
}

func TestSummarizeByMonth(t *testing.T) {
	items := []Expense{
		{Category: CategoryFuel, Amount: amt("10"), IncurredOn: "2026-01-10"},
		{Category: CategoryTax, Amount: amt("20"), IncurredOn: "2026-01-28"},
		{Category: CategoryFuel, Amount: amt("5"), IncurredOn: "2026-02-01"},
	}

	got := SummarizeByMonth(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Month != "2026-01" || !got[0].Total.Equal(amt("30")) {
		t.Fatalf("january: got %+v", got[0])
	}
	if got[1].Month != "2026-02" || !got[1].Total.Equal(amt("5")) {
		t.Fatalf("february: got %+v", got[1])
	}
}

func TestTotal_EmptyIsZero(t *testing.T) {
	if !Total(nil).Equal(decimal.Zero) {
		t.Fatalf("empty total must be zero")
	}
}

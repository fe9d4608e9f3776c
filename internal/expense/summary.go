package expense

import (
	"sort"

	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type MonthTotal struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}

// Summarize groups expenses by category, sorted by descending total so the
// biggest cost drivers come first.
func Summarize(items []Expense) []CategoryTotal {
	byCat := map[Category]decimal.Decimal{}
	for _, e := range items {
		byCat[e.Category] = byCat[e.Category].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for cat, total := range byCat {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Equal(out[j].Total) {
			return out[i].Category < out[j].Category
		}
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// SummarizeByMonth buckets expenses by calendar month of incurred_on.
// The incurred date is an ISO string, so the month is its first 7 bytes.
func SummarizeByMonth(items []Expense) []MonthTotal {
	byMonth := map[string]decimal.Decimal{}
	for _, e := range items {
		if len(e.IncurredOn) < 7 {
			continue
		}
		month := e.IncurredOn[:7]
		byMonth[month] = byMonth[month].Add(e.Amount)
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Total sums all expense amounts.
func Total(items []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Amount)
	}
	return sum
}

package service

import (
	"github.com/shopspring/decimal"
)

var gradeBands = []struct {
	min   int64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
}

// Percentage of maxMarks, rounded to 2 places.
func Percentage(marks decimal.Decimal, maxMarks int) decimal.Decimal {
	if maxMarks <= 0 {
		return decimal.Zero
	}
	return marks.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(maxMarks))).Round(2)
}

func GradeFor(pct decimal.Decimal) string {
	for _, b := range gradeBands {
		if pct.GreaterThanOrEqual(decimal.NewFromInt(b.min)) {
			return b.grade
		}
	}
	return "F"
}

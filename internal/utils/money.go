package utils

import "github.com/shopspring/decimal"

// FormatPoints keeps consistent two-decimal formatting for wallet amounts.
func FormatPoints(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// RoundPoints rounds a display cost to the nearest whole point, matching how
// fares are shown to students.
func RoundPoints(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

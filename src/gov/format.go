package gov

import (
	"fmt"
	"time"
)

// FormatCurrency renders an amount in lakhs: one decimal place from 100
// up, two below ("₹248.5L", "₹45.20L").
func FormatCurrency(v float64, prefix string) string {
	if v >= 100 {
		return fmt.Sprintf("%s%.1fL", prefix, v)
	}
	return fmt.Sprintf("%s%.2fL", prefix, v)
}

// FormatAddress shortens a wallet address to its first 6 and last 4
// characters. Addresses too short to shorten come back unchanged.
func FormatAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatDate renders day / short month / year, e.g. "27 Feb 2026".
func FormatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

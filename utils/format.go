package utils

import "fmt"

// FormatCount renders counts for the public stats endpoint: 950 -> "950+",
// 1500 -> "1.5K+", 2500000 -> "2.5M+".
func FormatCount(n int64) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%.1fM+", float64(n)/1000000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK+", float64(n)/1000)
	default:
		return fmt.Sprintf("%d+", n)
	}
}

// FormatPercent renders an uptime percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

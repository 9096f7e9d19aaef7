package types

import (
	"fmt"
	"strconv"
)

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FormatDuration formats a duration to a short human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	return fmt.Sprintf("%.2fs", seconds)
}

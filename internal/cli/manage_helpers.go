package cli

import (
	"fmt"
	"strings"
)

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1", "on":
		return true, true
	case "n", "no", "false", "0", "off", "":
		return false, true
	default:
		return false, false
	}
}

func boolToYN(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func kv(key, value string) string {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	return fmt.Sprintf("%-12s %s", key+":", value)
}

func formatIntInherit(n int) string {
	if n <= 0 {
		return "(global)"
	}
	return fmt.Sprintf("%d", n)
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// listWindow returns the half-open row range [start, end) that keeps
// cursor visible inside a viewport of maxRows items.
func listWindow(total, cursor, maxRows int) (int, int) {
	if total <= 0 || maxRows <= 0 {
		return 0, 0
	}
	if total <= maxRows {
		return 0, total
	}
	start := cursor - maxRows/2
	if start < 0 {
		start = 0
	}
	end := start + maxRows
	if end > total {
		end = total
		start = end - maxRows
	}
	return start, end
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func wrapOrTrim(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return truncateRunes(s, width)
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

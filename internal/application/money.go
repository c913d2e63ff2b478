package application

import (
	"strconv"
	"strings"
)

// ParseMoney converts a free-form revenue string into a numeric value.
// Currency symbols and thousands separators are stripped and K/M/B suffixes
// expand to their magnitude, so "$45M" parses to 45000000. Anything that still
// fails to parse yields 0.
func ParseMoney(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(strings.ToUpper(cleaned), "K"):
		multiplier = 1_000
		cleaned = cleaned[:len(cleaned)-1]
	case strings.HasSuffix(strings.ToUpper(cleaned), "M"):
		multiplier = 1_000_000
		cleaned = cleaned[:len(cleaned)-1]
	case strings.HasSuffix(strings.ToUpper(cleaned), "B"):
		multiplier = 1_000_000_000
		cleaned = cleaned[:len(cleaned)-1]
	}

	var builder strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			builder.WriteRune(r)
		}
	}

	number, err := strconv.ParseFloat(builder.String(), 64)
	if err != nil {
		return 0
	}
	return number * multiplier
}

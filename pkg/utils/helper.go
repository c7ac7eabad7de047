package utils

import (
	"strconv"
	"strings"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// NormalizeSeats trims whitespace, uppercases and de-duplicates seat labels
// while preserving request order.
func NormalizeSeats(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	result := make([]string, 0, len(seats))

	for _, seat := range seats {
		label := strings.ToUpper(strings.TrimSpace(seat))
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		result = append(result, label)
	}

	return result
}

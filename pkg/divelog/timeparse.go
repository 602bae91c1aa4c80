package divelog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseSeconds converts "MM:SS", "H:MM:SS" or plain seconds into seconds. A
// trailing "min" unit is ignored, so "12:30 min" yields 750.
func ParseSeconds(raw string) (int, error) {
	value := stripUnit(raw, "min")
	if value == "" {
		return 0, errors.New("empty time value")
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("time %q has too many fields", raw)
	}
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("time %q: %w", raw, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("time %q is negative", raw)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("time %q: field %d out of range", raw, n)
		}
		total = total*60 + n
	}
	return total, nil
}

// stripUnit trims whitespace and one trailing unit label.
func stripUnit(raw, unit string) string {
	value := strings.TrimSpace(raw)
	if unit != "" && strings.HasSuffix(value, unit) {
		value = strings.TrimSpace(strings.TrimSuffix(value, unit))
	}
	return value
}

func parseFloatUnit(raw, unit string) (float64, error) {
	return strconv.ParseFloat(stripUnit(raw, unit), 64)
}

// parseMinutes reads the whole-minute part of values such as "5:00 min".
func parseMinutes(raw string) (int, error) {
	value := stripUnit(raw, "min")
	head, _, _ := strings.Cut(value, ":")
	return strconv.Atoi(strings.TrimSpace(head))
}

// parsePercent reads "32.0%" as 0.32.
func parsePercent(raw string) (float64, error) {
	v, err := parseFloatUnit(raw, "%")
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

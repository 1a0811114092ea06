package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Common parameter formatters and parsers

// PercentFormatter formats percentage values
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// PercentParser parses percentage strings
func PercentParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	return strconv.ParseFloat(str, 64)
}

// DigitsFormatter renders an integer readout as three zero-padded digits
// separated by spaces, e.g. 100 -> "1 0 0" and 7 -> "0 0 7".
func DigitsFormatter(value float64) string {
	n := int(value + 0.5)
	if value < 0 {
		n = int(value - 0.5)
	}

	digits := fmt.Sprintf("%03d", n)
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// DigitsParser parses readouts produced by DigitsFormatter as well as plain numbers.
func DigitsParser(str string) (float64, error) {
	compact := strings.Join(strings.Fields(str), "")
	value, err := strconv.Atoi(compact)
	if err != nil {
		return 0, fmt.Errorf("invalid readout %q: %w", str, err)
	}
	return float64(value), nil
}

// OnOffFormatter formats boolean as On/Off
func OnOffFormatter(value float64) string {
	if value > 0.5 {
		return "On"
	}
	return "Off"
}

// OnOffParser parses On/Off strings
func OnOffParser(str string) (float64, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "on", "yes", "true", "1":
		return 1, nil
	case "off", "no", "false", "0":
		return 0, nil
	default:
		return 0, fmt.Errorf("expected 'on' or 'off', got: %s", str)
	}
}

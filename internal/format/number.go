package format

import (
	"strconv"
	"strings"
)

// Number renders a float with space-separated thousand groups. Whole numbers
// drop the fraction; otherwise it is truncated to two digits.
func Number(value float64) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	formatted := sign + strings.Join(groups, " ")

	if fracPart == "" || fracPart == "0" {
		return formatted
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	return formatted + "." + fracPart
}

// Amount renders a monetary value with space-separated thousand groups and a
// fixed two-digit fraction.
func Amount(value float64) string {
	s := strconv.FormatFloat(value, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + strings.Join(groups, " ") + "." + fracPart
}

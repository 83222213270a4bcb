package domain

import "strings"

// NormalizePlate uppercases a plate and drops every whitespace rune,
// so "34 abc 123" becomes "34ABC123".
func NormalizePlate(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), ""))
}

// IsBlankPlate reports whether a plate carries no characters besides whitespace.
func IsBlankPlate(value string) bool {
	return strings.TrimSpace(value) == ""
}

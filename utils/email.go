// utils/email.go
package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail is the canonical form participants are stored and matched by:
// trimmed, NFC-composed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}

// SameEmail compares two addresses case-insensitively after normalization.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// TruncateEmail shortens long addresses for compact display.
func TruncateEmail(email string) string {
	r := []rune(email)
	if len(r) > 25 {
		return string(r[:22]) + "..."
	}
	return email
}

// utils/token.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const inviteTokenBytes = 16

// NewInviteToken returns 128 random bits, base64url encoded without padding,
// so it can sit in a URL path segment as-is.
func NewInviteToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package idp

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"authlander/internal/auth/models"
)

// DecodeAssertion extracts the claims from the provider's identity assertion.
// The token has three dot-delimited segments (header.payload.signature); only
// the payload is read. The signature is not verified: the assertion arrives
// over a direct server-to-server HTTPS exchange with the provider, and that
// channel is the trust boundary.
func DecodeAssertion(idToken string) (*models.Identity, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("identity assertion has %d segments, want 3", len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode assertion payload: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("parse assertion payload: %w", err)
	}
	if identity.Sub == "" {
		return nil, fmt.Errorf("assertion payload missing subject")
	}
	return &identity, nil
}

// decodeSegment tries standard base64 first, then the URL-safe alphabet.
// Providers emit URL-safe segments per JOSE, but historically this service
// decoded with the standard alphabet; accepting both keeps either encoding
// working without changing failure behavior for garbage input.
func decodeSegment(segment string) ([]byte, error) {
	trimmed := strings.TrimRight(segment, "=")
	if out, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil {
		return out, nil
	}
	return base64.RawURLEncoding.DecodeString(trimmed)
}

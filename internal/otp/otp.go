// Package otp implements the RFC 4226 HOTP primitive and secret generation.
// It is a pure utility with no state machine; counter management belongs to
// the caller.
package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"time"

	"authlander/pkg/platform/random"
)

// base32NoPadding is RFC 4648 without padding, the alphabet authenticator
// apps expect in provisioning URIs.
var base32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Digits in a generated code.
const Digits = 6

// GenerateSecret returns a fresh shared secret, base32-encoded without
// padding, from 20 bytes of alphanumeric entropy.
func GenerateSecret() string {
	return base32NoPadding.EncodeToString([]byte(random.Alphanumeric(20)))
}

// HOTP generates a 6-digit code for the given secret and counter.
// The secret string's raw bytes key the HMAC, matching what GenerateSecret
// hands out to enrolled clients.
func HOTP(secret string, counter [8]byte) int32 {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(counter[:])
	sum := mac.Sum(nil)

	// RFC 4226 §5.3 dynamic truncation.
	offset := sum[len(sum)-1] & 0xf
	truncated := int32(sum[offset]&0x7f)<<24 |
		int32(sum[offset+1])<<16 |
		int32(sum[offset+2])<<8 |
		int32(sum[offset+3])

	mod := int32(1)
	for range Digits {
		mod *= 10
	}
	return truncated % mod
}

// TOTP generates the code for the time step containing t.
func TOTP(secret string, t time.Time, step time.Duration) int32 {
	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], uint64(t.Unix()/int64(step.Seconds())))
	return HOTP(secret, counter)
}

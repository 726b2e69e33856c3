// Package random generates opaque alphanumeric tokens backed by crypto/rand.
// It is safe for concurrent use; every call draws fresh entropy from the
// operating system, so outputs are never correlated across goroutines.
package random

import (
	"crypto/rand"
	"math/big"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Alphanumeric returns n random characters from [A-Za-z0-9].
// Panics only if the OS entropy source is unreadable, which is unrecoverable.
func Alphanumeric(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("random: entropy source unavailable: " + err.Error())
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out)
}

// Bytes returns n random bytes.
func Bytes(n int) []byte {
	out := make([]byte, n)
	if _, err := rand.Read(out); err != nil {
		panic("random: entropy source unavailable: " + err.Error())
	}
	return out
}

// Package verifytoken generates the numeric codes mailed for email verification.
package verifytoken

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Digits is the fixed length of every code.
const Digits = 8

// New returns a uniformly distributed 8-digit code in [10000000, 99999999].
func New() (string, error) {
	const lo, span = 10_000_000, 90_000_000
	// Reject draws above the largest multiple of span to avoid modulo bias.
	const ceiling = (1 << 32) / span * span
	var b [4]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return "", fmt.Errorf("verifytoken: %w", err)
		}
		n := binary.BigEndian.Uint32(b[:])
		if uint64(n) < ceiling {
			return fmt.Sprintf("%d", lo+n%span), nil
		}
	}
}

// Package id provides sortable ID and random suffix generation.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a ULID (Universally Unique Lexicographically Sortable
// Identifier): 10 chars of 48-bit millisecond timestamp followed by 16 chars
// of 80-bit randomness, lexicographically sortable by creation time.
func NewULID() string {
	ms := uint64(time.Now().UnixMilli())

	randomBytes := make([]byte, 10)
	if _, err := rand.Read(randomBytes); err != nil {
		// Fallback: time-based entropy (degraded but functional).
		binary.BigEndian.PutUint64(randomBytes[:8], uint64(time.Now().UnixNano()))
	}

	var ulid [26]byte

	// Timestamp: 48 bits, 5 bits per char, most significant first.
	for i := 9; i >= 0; i-- {
		ulid[i] = crockfordBase32[ms&0x1F]
		ms >>= 5
	}

	// Randomness: 80 bits consumed 5 at a time from a shifting accumulator.
	var acc uint64
	var bits uint
	pos := 10
	for _, b := range randomBytes {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			ulid[pos] = crockfordBase32[(acc>>bits)&0x1F]
			pos++
		}
	}

	return string(ulid[:])
}

// NewSuffix generates n random Crockford Base32 characters in lowercase.
// Used for conflict-resolution suffixes in file names.
func NewSuffix(n int) string {
	if n <= 0 {
		return ""
	}

	randomBytes := make([]byte, n)
	if _, err := rand.Read(randomBytes); err != nil {
		seed := uint64(time.Now().UnixNano())
		for i := range randomBytes {
			seed = seed*6364136223846793005 + 1442695040888963407
			randomBytes[i] = byte(seed >> 33)
		}
	}

	const lower = "0123456789abcdefghjkmnpqrstvwxyz"
	out := make([]byte, n)
	for i, b := range randomBytes {
		out[i] = lower[int(b)%len(lower)]
	}
	return string(out)
}

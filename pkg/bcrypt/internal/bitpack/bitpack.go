// Package bitpack converts between byte strings and fixed-width unsigned integers.
//
// All conversions are big-endian: the first byte of a string is the most significant byte of the
// integer. This is the byte order Blowfish uses for its block halves, its P-array keying, and the
// final bcrypt ciphertext.
package bitpack

import "fmt"

// BytesToUint packs the first n bytes of b, most significant byte first, into an integer. n must be
// between 1 and 8, and b must hold at least n bytes.
func BytesToUint(b []byte, n int) uint64 {
	if n < 1 || n > 8 {
		panic(fmt.Sprintf("bitpack: cannot pack %d bytes", n))
	}

	_ = b[n-1] // bounds check hint

	var v uint64
	for _, c := range b[:n] {
		v = v<<8 | uint64(c)
	}

	return v
}

// UintToBytes unpacks the low bitWidth bits of v into bitWidth/8 bytes, most significant byte
// first. bitWidth must be 32 or 64.
func UintToBytes(v uint64, bitWidth int) []byte {
	if bitWidth != 32 && bitWidth != 64 {
		panic(fmt.Sprintf("bitpack: unsupported width %d", bitWidth))
	}

	b := make([]byte, bitWidth/8)
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}

	return b
}

// SplitUint64 returns the high and low 32-bit halves of v.
func SplitUint64(v uint64) (hi, lo uint32) {
	return uint32(v >> 32), uint32(v)
}

// JoinUint32 is the inverse of SplitUint64.
func JoinUint32(hi, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// Word returns the 32-bit big-endian word which starts at offset mod len(b), treating b as a
// cycle: a word which runs off the end of b continues from its start. b must not be empty.
func Word(b []byte, offset int) uint32 {
	var w uint32

	j := offset % len(b)
	for i := 0; i < 4; i++ {
		w = w<<8 | uint32(b[j])

		if j++; j == len(b) {
			j = 0
		}
	}

	return w
}

// Package radix64 implements the base64 variant bcrypt uses for its salt and hash segments.
//
// It differs from RFC 4648 base64 in its alphabet, which starts with "./" and sorts digits last,
// and in never padding its output.
package radix64

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// Alphabet is the bcrypt base64 alphabet.
const Alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

//nolint:gochecknoglobals // immutable encoding
var encoding = base64.NewEncoding(Alphabet).WithPadding(base64.NoPadding)

// EncodedLen returns the length of the encoding of n bytes.
func EncodedLen(n int) int {
	return encoding.EncodedLen(n)
}

// Encode returns the encoding of src.
func Encode(src []byte) string {
	return encoding.EncodeToString(src)
}

// Decode returns the bytes encoded by src.
func Decode(src string) ([]byte, error) {
	b, err := encoding.DecodeString(src)
	if err != nil {
		return nil, errors.Wrap(err, "radix64")
	}

	return b, nil
}

// Valid returns true if every character of s is in the alphabet.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '.' || c == '/') {
			return false
		}
	}

	return true
}

package bcrypt

import (
	"strconv"
	"strings"

	"github.com/codahale/bcrypt/pkg/bcrypt/internal/bitpack"
	"github.com/codahale/bcrypt/pkg/bcrypt/internal/blowfish"
	"github.com/codahale/bcrypt/pkg/bcrypt/internal/radix64"
	"github.com/pkg/errors"
)

var (
	// ErrHashTooShort is returned when a hash is too short to be a bcrypt hash.
	ErrHashTooShort = errors.New("hash too short")

	// ErrInvalidHash is returned when a hash is malformed.
	ErrInvalidHash = errors.New("invalid hash")

	// ErrInvalidHashPrefix is returned when a hash does not start with a supported version tag.
	ErrInvalidHashPrefix = errors.New("invalid hash prefix")
)

const (
	tag    = "$2a$"
	rounds = 64

	digestSize         = 24 // the full ciphertext of the magic text
	encodedDigestBytes = 23 // the ciphertext bytes which make it into the hash string

	encodedSaltSize = 22
	encodedHashSize = 31

	// HashSize is the length of a bcrypt hash string.
	HashSize = len(tag) + 3 + encodedSaltSize + encodedHashSize
)

//nolint:gochecknoglobals // constant
var magicText = [digestSize]byte{
	'O', 'r', 'p', 'h', 'e', 'a', 'n', 'B',
	'e', 'h', 'o', 'l', 'd', 'e', 'r', 'S',
	'c', 'r', 'y', 'D', 'o', 'u', 'b', 't',
}

// encrypt encrypts the magic text 64 times under the finished tables.
func encrypt(t *blowfish.Tables) [digestSize]byte {
	text := magicText

	for i := 0; i < rounds; i++ {
		for j, block := range t.Encrypt(text[:]) {
			copy(text[j*blowfish.BlockSize:], block[:])
		}
	}

	// Read the ciphertext back as three 64-bit values and lay them out big-endian.
	var digest [digestSize]byte

	for i := 0; i < digestSize/8; i++ {
		v := bitpack.BytesToUint(text[i*8:], 8)
		copy(digest[i*8:], bitpack.UintToBytes(v, 64))
	}

	return digest
}

// format encodes the cost, salt, and digest as a hash string. Both segments have fixed widths: the
// 16-byte salt encodes to exactly 22 characters and the first 23 bytes of the digest to exactly 31.
func format(cost int, salt []byte, digest *[digestSize]byte) string {
	var b strings.Builder

	b.Grow(HashSize)
	b.WriteString(tag)

	if cost < 10 {
		b.WriteByte('0')
	}

	b.WriteString(strconv.Itoa(cost))
	b.WriteByte('$')
	b.WriteString(radix64.Encode(salt)[:encodedSaltSize])
	b.WriteString(radix64.Encode(digest[:encodedDigestBytes])[:encodedHashSize])

	return b.String()
}

type hashParts struct {
	cost   int
	salt   []byte
	digest []byte
}

// parse decodes a hash string. The $2b$ and $2y$ tags are accepted as well as $2a$: they differ
// from it only for passwords longer than 255 bytes, which are never hashed.
func parse(hash string) (*hashParts, error) {
	if len(hash) < HashSize {
		return nil, errors.Wrapf(ErrHashTooShort, "%d bytes", len(hash))
	}

	if len(hash) > HashSize {
		return nil, errors.Wrapf(ErrInvalidHash, "%d bytes", len(hash))
	}

	switch hash[:len(tag)] {
	case "$2a$", "$2b$", "$2y$":
	default:
		return nil, errors.Wrapf(ErrInvalidHashPrefix, "%q", hash[:len(tag)])
	}

	rest := hash[len(tag):]
	if rest[2] != '$' {
		return nil, errors.Wrap(ErrInvalidHash, "missing cost delimiter")
	}

	if rest[0] < '0' || rest[0] > '9' || rest[1] < '0' || rest[1] > '9' {
		return nil, errors.Wrapf(ErrInvalidHash, "cost %q", rest[:2])
	}

	cost := int(rest[0]-'0')*10 + int(rest[1]-'0')
	if cost < MinCost || cost > MaxCost {
		return nil, errors.Wrapf(ErrInvalidCost, "cost %d outside [%d,%d]", cost, MinCost, MaxCost)
	}

	rest = rest[3:]
	if !radix64.Valid(rest) {
		return nil, errors.Wrap(ErrInvalidHash, "character outside the bcrypt alphabet")
	}

	salt, err := radix64.Decode(rest[:encodedSaltSize])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHash, err.Error())
	}

	digest, err := radix64.Decode(rest[encodedSaltSize:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHash, err.Error())
	}

	return &hashParts{cost: cost, salt: salt, digest: digest}, nil
}

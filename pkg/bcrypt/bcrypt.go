// Package bcrypt implements the bcrypt password hashing function.
//
// A hash is computed in three stages. First, the EksBlowfish key schedule derives a set of Blowfish
// subkey tables from the password and a 16-byte salt, repeating its expensive expansion 2^cost
// times. Second, the fixed text "OrpheanBeholderScryDoubt" is encrypted 64 times under those
// tables. Third, the cost, salt, and ciphertext are encoded as a 60-character string:
//
//     $2a$04$P7f9aGNxyeg8SPLLV1if0.5Po5rWHsVx7CcuSR5KAWd6c9igRIxFW
//     \__/\_/\____________________/\_____________________________/
//     tag cost        salt                      hash
//
// The output is compatible with OpenBSD's $2a$ format. The password is keyed with a trailing NUL
// byte, as OpenBSD does, and passwords longer than 72 bytes are rejected rather than truncated.
//
// Each computation owns its own tables, so independent computations may run in parallel. Because
// the cost parameter makes a single computation arbitrarily slow, HashContext and Hasher allow
// callers to cancel and bound them.
package bcrypt

import (
	"context"
	"crypto/subtle"

	"github.com/codahale/bcrypt/pkg/bcrypt/internal/eksblowfish"
	"github.com/codahale/bcrypt/pkg/bcrypt/internal/rng"
	"github.com/pkg/errors"
)

const (
	MinCost     = eksblowfish.MinCost  // MinCost is the minimum allowable cost.
	MaxCost     = eksblowfish.MaxCost  // MaxCost is the maximum allowable cost.
	DefaultCost = 10                   // DefaultCost is the cost GenerateFromPassword uses.
	SaltSize    = eksblowfish.SaltSize // SaltSize is the size of a salt in bytes.

	// MaxPasswordSize is the largest password, in bytes, which can be hashed. With its NUL
	// terminator, a password of this size fills the 18 words of the P-array.
	MaxPasswordSize = 72
)

var (
	// ErrInvalidCost is returned when the cost is outside [MinCost, MaxCost].
	ErrInvalidCost = eksblowfish.ErrInvalidCost

	// ErrInvalidSaltLength is returned when the salt is not exactly SaltSize bytes.
	ErrInvalidSaltLength = eksblowfish.ErrInvalidSaltLength

	// ErrEmptyPassword is returned when the password is empty.
	ErrEmptyPassword = eksblowfish.ErrEmptyPassword

	// ErrPasswordTooLong is returned when the password is longer than MaxPasswordSize bytes.
	ErrPasswordTooLong = errors.New("password too long")

	// ErrAllocationFailure is returned when the subkey tables for a computation cannot be
	// obtained.
	ErrAllocationFailure = errors.New("table allocation failed")

	// ErrMismatchedHashAndPassword is returned when a password does not match a hash.
	ErrMismatchedHashAndPassword = errors.New("hash is not the hash of the given password")
)

// Hash returns the bcrypt hash of the password with the given cost and salt.
func Hash(cost int, salt, password []byte) (string, error) {
	return HashContext(context.Background(), cost, salt, password)
}

// HashContext is Hash with a context. If the context is done before the key schedule finishes,
// HashContext returns the context's error.
func HashContext(ctx context.Context, cost int, salt, password []byte) (string, error) {
	digest, err := sum(ctx, cost, salt, password)
	if err != nil {
		return "", err
	}

	return format(cost, salt, &digest), nil
}

// GenerateFromPassword returns the bcrypt hash of the password with the given cost and a new
// random salt.
func GenerateFromPassword(password []byte, cost int) (string, error) {
	salt, err := NewSalt()
	if err != nil {
		return "", err
	}

	return Hash(cost, salt, password)
}

// Compare returns nil if the password matches the hash, ErrMismatchedHashAndPassword if it does
// not, or another error if the hash cannot be parsed.
func Compare(hash string, password []byte) error {
	return CompareContext(context.Background(), hash, password)
}

// CompareContext is Compare with a context.
func CompareContext(ctx context.Context, hash string, password []byte) error {
	h, err := parse(hash)
	if err != nil {
		return err
	}

	digest, err := sum(ctx, h.cost, h.salt, password)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(digest[:encodedDigestBytes], h.digest) != 1 {
		return ErrMismatchedHashAndPassword
	}

	return nil
}

// Cost returns the cost parameter of the hash.
func Cost(hash string) (int, error) {
	h, err := parse(hash)
	if err != nil {
		return 0, err
	}

	return h.cost, nil
}

// NewSalt returns a new random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rng.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generating salt")
	}

	return salt, nil
}

// sum runs the key schedule and the final encryption rounds, returning the full 24-byte
// ciphertext.
func sum(ctx context.Context, cost int, salt, password []byte) ([digestSize]byte, error) {
	var digest [digestSize]byte

	if err := validate(Request{Cost: cost, Salt: salt, Password: password}); err != nil {
		return digest, err
	}

	// Key with the NUL-terminated password. The caller's slice is never modified.
	key := make([]byte, len(password)+1)
	copy(key, password)

	defer zero(key)

	s, err := eksblowfish.New(cost, salt, key)
	if err != nil {
		return digest, err
	}

	if err := s.Generate(ctx); err != nil {
		return digest, err
	}

	return encrypt(s.Tables()), nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

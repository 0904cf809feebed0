// Package eksblowfish implements the expensive key schedule (EksBlowfish) used by bcrypt.
//
// A schedule starts from the pi-seeded Blowfish tables and mixes in a key K and salt S with one
// expansion pass:
//
//     ExpandKey(K, S)
//
// and then repeats 2^cost times:
//
//     ExpandKey(K, 0)
//     ExpandKey(S, 0)
//
// where 0 is the all-zero 16-byte salt and the second pass uses the salt in place of the key. Each
// pass depends on the tables produced by the one before it, so the work is strictly sequential.
//
// An expansion pass XORs the P-array with the key, read as a cycle of big-endian 32-bit words, and
// then rewrites every P-array and S-box entry, in order, with the output of a running block which is
// XORed with alternating halves of the salt and re-encrypted under the tables being rewritten.
package eksblowfish

import (
	"context"

	"github.com/codahale/bcrypt/pkg/bcrypt/internal/bitpack"
	"github.com/codahale/bcrypt/pkg/bcrypt/internal/blowfish"
	"github.com/pkg/errors"
)

const (
	MinCost  = 4  // MinCost is the smallest cost a schedule accepts.
	MaxCost  = 31 // MaxCost is the largest cost a schedule accepts.
	SaltSize = 16 // SaltSize is the size of a salt in bytes.
)

var (
	// ErrInvalidCost is returned when the cost is outside [MinCost, MaxCost].
	ErrInvalidCost = errors.New("invalid cost")

	// ErrInvalidSaltLength is returned when the salt is not exactly SaltSize bytes.
	ErrInvalidSaltLength = errors.New("invalid salt length")

	// ErrEmptyPassword is returned when the key is empty.
	ErrEmptyPassword = errors.New("empty password")
)

// Schedule is the state of one EksBlowfish key schedule. It is not safe for concurrent use, and
// its tables are never shared with another schedule.
type Schedule struct {
	cost   int
	key    []byte
	salt   [SaltSize]byte
	tables blowfish.Tables
}

// New validates the parameters and returns a schedule whose tables hold the pi seed. The key and
// salt are copied.
func New(cost int, salt, key []byte) (*Schedule, error) {
	if cost < MinCost || cost > MaxCost {
		return nil, errors.Wrapf(ErrInvalidCost, "cost %d outside [%d,%d]", cost, MinCost, MaxCost)
	}

	if len(salt) != SaltSize {
		return nil, errors.Wrapf(ErrInvalidSaltLength, "got %d bytes, want %d", len(salt), SaltSize)
	}

	if len(key) == 0 {
		return nil, ErrEmptyPassword
	}

	s := &Schedule{
		cost: cost,
		key:  append([]byte(nil), key...),
	}
	copy(s.salt[:], salt)
	s.tables.Reset()

	return s, nil
}

// Generate runs the full schedule: one salted expansion followed by 2^cost pairs of unsalted
// key and salt expansions. The context is checked before each pair; if it is done, Generate
// returns its error and the tables must not be used.
func (s *Schedule) Generate(ctx context.Context) error {
	var zero [SaltSize]byte

	expandKey(&s.tables, s.key, &s.salt)

	rounds := uint64(1) << uint(s.cost)
	for i := uint64(0); i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "key schedule interrupted after %d of %d rounds", i, rounds)
		}

		expandKey(&s.tables, s.key, &zero)
		expandKey(&s.tables, s.salt[:], &zero)
	}

	return nil
}

// Tables returns the schedule's tables. They are final once Generate has returned nil, and the
// caller must not modify them.
func (s *Schedule) Tables() *blowfish.Tables {
	return &s.tables
}

// expandKey mixes key and salt into t. The key is read cyclically, so it may be any non-zero
// length.
func expandKey(t *blowfish.Tables, key []byte, salt *[SaltSize]byte) {
	for n := range t.P {
		t.P[n] ^= bitpack.Word(key, 4*n)
	}

	var halves [2][2]uint32
	halves[0][0], halves[0][1] = bitpack.SplitUint64(bitpack.BytesToUint(salt[:8], 8))
	halves[1][0], halves[1][1] = bitpack.SplitUint64(bitpack.BytesToUint(salt[8:], 8))

	var l, r uint32

	next := 0
	for n := 0; n < blowfish.PSize; n += 2 {
		l ^= halves[next][0]
		r ^= halves[next][1]
		next ^= 1

		l, r = t.EncryptBlock(l, r)
		t.P[n], t.P[n+1] = l, r
	}

	for i := range t.S {
		for n := 0; n < blowfish.SBoxSize; n += 2 {
			l ^= halves[next][0]
			r ^= halves[next][1]
			next ^= 1

			l, r = t.EncryptBlock(l, r)
			t.S[i][n], t.S[i][n+1] = l, r
		}
	}
}

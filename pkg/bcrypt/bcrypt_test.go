package bcrypt

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/codahale/gubbins/assert"
	xbcrypt "golang.org/x/crypto/bcrypt"
)

//nolint:gochecknoglobals // test fixture
var (
	testSalt = []byte{
		0x47, 0xD8, 0x7F, 0x70, 0x83, 0xF3, 0xD2, 0x08,
		0xBE, 0x51, 0x13, 0x4D, 0x5F, 0x79, 0x21, 0xD8,
	}
	hashGrammar = regexp.MustCompile(`^\$2a\$[0-9]{2}\$[./A-Za-z0-9]{22}[./A-Za-z0-9]{31}$`)
)

func TestHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cost     int
		salt     []byte
		password string
		hash     string
	}{
		{
			name:     "baseline",
			cost:     4,
			salt:     testSalt,
			password: "correcthorse",
			hash:     "$2a$04$P7f9aGNxyeg8SPLLV1if0.5Po5rWHsVx7CcuSR5KAWd6c9igRIxFW",
		},
		{
			name:     "different password",
			cost:     4,
			salt:     testSalt,
			password: "correcthorsf",
			hash:     "$2a$04$P7f9aGNxyeg8SPLLV1if0.Bw5PafVqkWnTGAAXw/kN8Yb7xMyVd2O",
		},
		{
			name:     "single byte password",
			cost:     4,
			salt:     testSalt,
			password: "a",
			hash:     "$2a$04$P7f9aGNxyeg8SPLLV1if0.aaIvWsvWdFSk8aDalO5Ps989SSeHk9y",
		},
		{
			name:     "different cost",
			cost:     5,
			salt:     testSalt,
			password: "correcthorse",
			hash:     "$2a$05$P7f9aGNxyeg8SPLLV1if0.YeHgL12k/e2irXmtKTtX9jmmUxN2Wqm",
		},
		{
			name:     "higher cost",
			cost:     6,
			salt:     testSalt,
			password: "U*U",
			hash:     "$2a$06$P7f9aGNxyeg8SPLLV1if0.uLWjpJd5kR3F1Orwd4s0jc/PCUY549u",
		},
		{
			name:     "zero salt",
			cost:     4,
			salt:     make([]byte, SaltSize),
			password: "x",
			hash:     "$2a$04$......................8QPuF36SqwZ1d9QO3taNcRXHOtLxpvS",
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			hash, err := Hash(test.cost, test.salt, []byte(test.password))
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, "hash", test.hash, hash)
			assert.Equal(t, "reference comparison", nil,
				xbcrypt.CompareHashAndPassword([]byte(hash), []byte(test.password)))
		})
	}
}

func TestDigest(t *testing.T) {
	t.Parallel()

	digest, err := sum(context.Background(), 4, testSalt, []byte("correcthorse"))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "digest",
		"ed1abbb5826e5f3f447b0513ecc0987fc7bf9224cacc7633", hex.EncodeToString(digest[:]))
}

func TestHashIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Hash(4, testSalt, []byte("correcthorse"))
	if err != nil {
		t.Fatal(err)
	}

	b, err := Hash(4, testSalt, []byte("correcthorse"))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "hash", a, b)
}

func TestHashDoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	password := []byte("correcthorse")
	salt := append([]byte(nil), testSalt...)

	if _, err := Hash(4, salt, password); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "password", []byte("correcthorse"), password)
	assert.Equal(t, "salt", testSalt, salt)
}

func TestHashRejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cost     int
		salt     []byte
		password []byte
		err      error
	}{
		{name: "negative cost", cost: -1, salt: testSalt, password: []byte("pw"), err: ErrInvalidCost},
		{name: "cost too low", cost: 3, salt: testSalt, password: []byte("pw"), err: ErrInvalidCost},
		{name: "cost too high", cost: 32, salt: testSalt, password: []byte("pw"), err: ErrInvalidCost},
		{name: "short salt", cost: 4, salt: testSalt[:15], password: []byte("pw"), err: ErrInvalidSaltLength},
		{name: "nil salt", cost: 4, salt: nil, password: []byte("pw"), err: ErrInvalidSaltLength},
		{name: "empty password", cost: 4, salt: testSalt, password: []byte(""), err: ErrEmptyPassword},
		{
			name:     "long password",
			cost:     4,
			salt:     testSalt,
			password: bytes.Repeat([]byte("a"), MaxPasswordSize+1),
			err:      ErrPasswordTooLong,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			hash, err := Hash(test.cost, test.salt, test.password)
			if !errors.Is(err, test.err) {
				t.Fatalf("Hash() error = %v, want = %v", err, test.err)
			}

			assert.Equal(t, "hash", "", hash)
		})
	}
}

func TestHashMaxPassword(t *testing.T) {
	t.Parallel()

	password := bytes.Repeat([]byte("0123456789"), 8)[:MaxPasswordSize]

	hash, err := Hash(4, testSalt, password)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "reference comparison", nil, xbcrypt.CompareHashAndPassword([]byte(hash), password))
}

func TestHashFormat(t *testing.T) {
	t.Parallel()

	for cost := MinCost; cost <= 6; cost++ {
		for _, password := range []string{"a", "correcthorse", strings.Repeat("x", MaxPasswordSize)} {
			hash, err := Hash(cost, testSalt, []byte(password))
			if err != nil {
				t.Fatal(err)
			}

			if !hashGrammar.MatchString(hash) {
				t.Errorf("Hash(%d, %q) = %q, which is not a bcrypt hash", cost, password, hash)
			}

			assert.Equal(t, "length", HashSize, len(hash))
		}
	}
}

func TestHashContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hash, err := HashContext(ctx, MaxCost, testSalt, []byte("correcthorse"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("HashContext() error = %v, want = %v", err, context.Canceled)
	}

	assert.Equal(t, "hash", "", hash)
}

func TestHashContextDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Cost 31 would run for days; the deadline must stop it.
	_, err := HashContext(ctx, MaxCost, testSalt, []byte("correcthorse"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("HashContext() error = %v, want = %v", err, context.DeadlineExceeded)
	}
}

func TestPasswordAvalanche(t *testing.T) {
	t.Parallel()

	password := []byte("correcthorse")

	base, err := sum(context.Background(), 4, testSalt, password)
	if err != nil {
		t.Fatal(err)
	}

	var changed, total int

	for i := 0; i < len(password)*8; i += 3 {
		flipped := append([]byte(nil), password...)
		flipped[i/8] ^= 1 << (i % 8)

		d, err := sum(context.Background(), 4, testSalt, flipped)
		if err != nil {
			t.Fatal(err)
		}

		changed += bitDifference(base[:], d[:])
		total += len(d) * 8
	}

	assertHalfChanged(t, changed, total)
}

func TestSaltAvalanche(t *testing.T) {
	t.Parallel()

	password := []byte("correcthorse")

	base, err := sum(context.Background(), 4, testSalt, password)
	if err != nil {
		t.Fatal(err)
	}

	var changed, total int

	for i := 0; i < len(testSalt)*8; i += 4 {
		salt := append([]byte(nil), testSalt...)
		salt[i/8] ^= 1 << (i % 8)

		d, err := sum(context.Background(), 4, salt, password)
		if err != nil {
			t.Fatal(err)
		}

		changed += bitDifference(base[:], d[:])
		total += len(d) * 8
	}

	assertHalfChanged(t, changed, total)
}

// TestCostDoubles is timing-sensitive and deliberately not parallel.
func TestCostDoubles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	fastest := func(cost int) time.Duration {
		best := time.Duration(1<<63 - 1)

		for i := 0; i < 5; i++ {
			start := time.Now()
			if _, err := Hash(cost, testSalt, []byte("correcthorse")); err != nil {
				t.Fatal(err)
			}

			if d := time.Since(start); d < best {
				best = d
			}
		}

		return best
	}

	a, b := fastest(7), fastest(8)
	ratio := float64(b) / float64(a)

	if ratio < 1.3 || ratio > 3.5 {
		t.Errorf("cost 8 took %v, cost 7 took %v: ratio %.2f, want ~2", b, a, ratio)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	hash := "$2a$04$P7f9aGNxyeg8SPLLV1if0.5Po5rWHsVx7CcuSR5KAWd6c9igRIxFW"

	assert.Equal(t, "correct password", nil, Compare(hash, []byte("correcthorse")))

	if err := Compare(hash, []byte("correcthorsf")); !errors.Is(err, ErrMismatchedHashAndPassword) {
		t.Errorf("Compare() error = %v, want = %v", err, ErrMismatchedHashAndPassword)
	}

	if err := Compare(hash, nil); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Compare() error = %v, want = %v", err, ErrEmptyPassword)
	}
}

func TestCompareReferenceHash(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping cost 10 hash in short mode")
	}

	assert.Equal(t, "reference hash", nil,
		Compare("$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga", []byte("allmine")))
}

func TestCompareOtherTags(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"$2b$", "$2y$"} {
		hash := tag + "04$P7f9aGNxyeg8SPLLV1if0.5Po5rWHsVx7CcuSR5KAWd6c9igRIxFW"

		assert.Equal(t, tag, nil, Compare(hash, []byte("correcthorse")))
	}
}

func TestCompareReferenceGenerated(t *testing.T) {
	t.Parallel()

	hash, err := xbcrypt.GenerateFromPassword([]byte("correcthorse"), 4)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "reference-generated hash", nil, Compare(string(hash), []byte("correcthorse")))
}

func TestGenerateFromPassword(t *testing.T) {
	t.Parallel()

	a, err := GenerateFromPassword([]byte("correcthorse"), 4)
	if err != nil {
		t.Fatal(err)
	}

	b, err := GenerateFromPassword([]byte("correcthorse"), 4)
	if err != nil {
		t.Fatal(err)
	}

	if a == b {
		t.Errorf("two hashes with random salts were equal: %s", a)
	}

	assert.Equal(t, "comparison", nil, Compare(a, []byte("correcthorse")))
	assert.Equal(t, "reference comparison", nil, xbcrypt.CompareHashAndPassword([]byte(b), []byte("correcthorse")))
}

func TestCost(t *testing.T) {
	t.Parallel()

	cost, err := Cost("$2a$05$P7f9aGNxyeg8SPLLV1if0.YeHgL12k/e2irXmtKTtX9jmmUxN2Wqm")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "cost", 5, cost)

	if _, err := Cost("$2a$05$"); !errors.Is(err, ErrHashTooShort) {
		t.Errorf("Cost() error = %v, want = %v", err, ErrHashTooShort)
	}
}

func TestNewSalt(t *testing.T) {
	t.Parallel()

	a, err := NewSalt()
	if err != nil {
		t.Fatal(err)
	}

	b, err := NewSalt()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "salt size", SaltSize, len(a))

	if bytes.Equal(a, b) {
		t.Errorf("two salts were equal: %x", a)
	}
}

func bitDifference(a, b []byte) int {
	n := 0
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}

	return n
}

func assertHalfChanged(t *testing.T, changed, total int) {
	t.Helper()

	if f := float64(changed) / float64(total); f < 0.4 || f > 0.6 {
		t.Errorf("%d of %d digest bits changed (%.3f), want ~0.5", changed, total, f)
	}
}

func BenchmarkHash(b *testing.B) {
	for _, cost := range []int{4, 6, 8, 10} {
		cost := cost

		b.Run(fmt.Sprintf("cost=%d", cost), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Hash(cost, testSalt, []byte("correcthorse")); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Package rng provides the random source for bcrypt salts.
//
// At startup, a STROBE protocol is initialized:
//
//     INIT('bcrypt.salt', level=256)
//
// When a block of random data is required, a block B of equivalent size is read from the host
// machine's RNG, and the following operations performed:
//
//     AD(LE_U64(LEN(B)), meta=true)
//     KEY(B)
//     PRF(LEN(B)) -> B
//     RATCHET(32)
//
// This insulates salts somewhat against a weak host RNG, but it is still a deterministic function
// of what the host provides.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sammyne/strobe"
)

const ratchetSize = int(strobe.Bit256) / 8

// Read is a helper function that calls Reader.Read using io.ReadFull. On return, n == len(b) if and
// only if err == nil.
func Read(b []byte) (int, error) {
	return io.ReadFull(Reader, b)
}

//nolint:gochecknoglobals // need a singleton
// Reader is a global, shared instance of a cryptographically secure random number generator. It
// is safe for concurrent use.
var Reader io.Reader = newReader("bcrypt.salt")

type reader struct {
	mu     sync.Mutex
	rng    *strobe.Strobe
	lenBuf [8]byte
}

func newReader(proto string) *reader {
	s, err := strobe.New(proto, strobe.Bit256)
	if err != nil {
		panic(err)
	}

	return &reader{rng: s}
}

func (r *reader) Read(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Include length of PRF request as associated data.
	binary.LittleEndian.PutUint64(r.lenBuf[:], uint64(len(p)))
	must(r.rng.AD(r.lenBuf[:], &strobe.Options{Meta: true}))

	// Read a new block of data from the underlying RNG.
	if _, err := rand.Read(p); err != nil {
		return 0, errors.Wrap(err, "reading host randomness")
	}

	// Re-key the protocol with the block.
	must(r.rng.KEY(p, false))

	// Return the results of the PRF.
	must(r.rng.PRF(p, false))

	// Ratchet the state of the RNG to prevent rollback.
	must(r.rng.RATCHET(ratchetSize))

	return len(p), nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

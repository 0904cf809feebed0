package bcrypt

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// A Request is the input to a single hash computation.
type Request struct {
	Cost     int
	Salt     []byte
	Password []byte
}

// A Hasher bounds the number of hash computations which hold subkey tables at the same time. It is
// safe for concurrent use.
type Hasher struct {
	sem *semaphore.Weighted
	max int64
}

// NewHasher returns a Hasher which runs at most maxConcurrent computations at once. maxConcurrent
// must be positive.
func NewHasher(maxConcurrent int64) *Hasher {
	if maxConcurrent < 1 {
		panic("bcrypt: maxConcurrent must be positive")
	}

	return &Hasher{sem: semaphore.NewWeighted(maxConcurrent), max: maxConcurrent}
}

// MaxConcurrent returns the number of computations the Hasher allows at once.
func (h *Hasher) MaxConcurrent() int64 {
	return h.max
}

// Hash waits for a free slot and then computes the hash of the request. If the context is done
// before a slot frees up, Hash returns an error matching both ErrAllocationFailure and the
// context's error. If it is done during the computation, Hash returns the context's error.
func (h *Hasher) Hash(ctx context.Context, req Request) (string, error) {
	// Reject bad parameters without waiting for a slot.
	if err := validate(req); err != nil {
		return "", err
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", &allocationError{cause: err}
	}
	defer h.sem.Release(1)

	return HashContext(ctx, req.Cost, req.Salt, req.Password)
}

// HashAll hashes the requests concurrently, subject to the Hasher's bound, and returns the hashes
// in request order. The first failure cancels the remaining computations and is returned.
func (h *Hasher) HashAll(ctx context.Context, reqs []Request) ([]string, error) {
	hashes := make([]string, len(reqs))
	g, ctx := errgroup.WithContext(ctx)

	for i := range reqs {
		i := i

		g.Go(func() error {
			hash, err := h.Hash(ctx, reqs[i])
			if err != nil {
				return errors.Wrapf(err, "request %d", i)
			}

			hashes[i] = hash

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return hashes, nil
}

func validate(req Request) error {
	switch {
	case req.Cost < MinCost || req.Cost > MaxCost:
		return errors.Wrapf(ErrInvalidCost, "cost %d outside [%d,%d]", req.Cost, MinCost, MaxCost)
	case len(req.Salt) != SaltSize:
		return errors.Wrapf(ErrInvalidSaltLength, "got %d bytes, want %d", len(req.Salt), SaltSize)
	case len(req.Password) == 0:
		return ErrEmptyPassword
	case len(req.Password) > MaxPasswordSize:
		return errors.Wrapf(ErrPasswordTooLong, "%d bytes, max %d", len(req.Password), MaxPasswordSize)
	}

	return nil
}

type allocationError struct {
	cause error
}

func (e *allocationError) Error() string {
	return ErrAllocationFailure.Error() + ": " + e.cause.Error()
}

func (e *allocationError) Is(target error) bool {
	return target == ErrAllocationFailure //nolint:errorlint,goerr113 // sentinel identity
}

func (e *allocationError) Unwrap() error {
	return e.cause
}

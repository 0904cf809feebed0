package rng

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

func TestReader_Read(t *testing.T) {
	t.Parallel()

	// Generate 1MiB and see if anything explodes.
	if _, err := io.CopyN(io.Discard, Reader, 1024*1024); err != nil {
		t.Fatal(err)
	}
}

func TestReadDistinct(t *testing.T) {
	t.Parallel()

	a := make([]byte, 16)
	b := make([]byte, 16)

	if _, err := Read(a); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(b); err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(a, b) {
		t.Errorf("two reads returned the same block %x", a)
	}
}

func TestReadConcurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			var b [16]byte
			for j := 0; j < 100; j++ {
				if _, err := Read(b[:]); err != nil {
					t.Error(err)

					return
				}
			}
		}()
	}

	wg.Wait()
}

func BenchmarkRead(b *testing.B) {
	buf := make([]byte, 16)

	for i := 0; i < b.N; i++ {
		_, _ = Read(buf)
	}
}

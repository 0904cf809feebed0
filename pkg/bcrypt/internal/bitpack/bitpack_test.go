package bitpack

import (
	"encoding/binary"
	"testing"

	"github.com/codahale/gubbins/assert"
	fuzz "github.com/trailofbits/go-fuzz-utils"
)

func TestBytesToUint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    []byte
		n    int
		want uint64
	}{
		{name: "one byte", b: []byte{0xab}, n: 1, want: 0xab},
		{name: "word", b: []byte{0x01, 0x02, 0x03, 0x04}, n: 4, want: 0x01020304},
		{name: "prefix", b: []byte{0x01, 0x02, 0x03, 0x04, 0xff}, n: 4, want: 0x01020304},
		{name: "partial", b: []byte{0xde, 0xad, 0xbe}, n: 3, want: 0xdeadbe},
		{
			name: "double word",
			b:    []byte{0x47, 0xd8, 0x7f, 0x70, 0x83, 0xf3, 0xd2, 0x08},
			n:    8,
			want: 0x47d87f7083f3d208,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, "packed value", test.want, BytesToUint(test.b, test.n))
		})
	}
}

func TestUintToBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "32-bit", []byte{0x24, 0x3f, 0x6a, 0x88}, UintToBytes(0x243f6a88, 32))
	assert.Equal(t, "32-bit truncation", []byte{0x24, 0x3f, 0x6a, 0x88}, UintToBytes(0xff243f6a88, 32))
	assert.Equal(t, "64-bit",
		[]byte{0x4f, 0x72, 0x70, 0x68, 0x65, 0x61, 0x6e, 0x42}, UintToBytes(0x4f72706865616e42, 64))
}

func TestUintToBytesMatchesBinary(t *testing.T) {
	t.Parallel()

	v := uint64(0x0123456789abcdef)

	var b [8]byte

	binary.BigEndian.PutUint64(b[:], v)
	assert.Equal(t, "64-bit", b[:], UintToBytes(v, 64))

	binary.BigEndian.PutUint32(b[:4], uint32(v))
	assert.Equal(t, "32-bit", b[:4], UintToBytes(v, 32))
}

func TestInvalidWidths(t *testing.T) {
	t.Parallel()

	mustPanic := func(name string, f func()) {
		t.Helper()

		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()

		f()
	}

	mustPanic("zero bytes", func() { BytesToUint([]byte{1}, 0) })
	mustPanic("nine bytes", func() { BytesToUint(make([]byte, 9), 9) })
	mustPanic("16-bit width", func() { UintToBytes(1, 16) })
}

func TestSplitJoin(t *testing.T) {
	t.Parallel()

	hi, lo := SplitUint64(0xd1310ba698dfb5ac)

	assert.Equal(t, "high half", uint32(0xd1310ba6), hi)
	assert.Equal(t, "low half", uint32(0x98dfb5ac), lo)
	assert.Equal(t, "joined", uint64(0xd1310ba698dfb5ac), JoinUint32(hi, lo))
}

func TestWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		b      []byte
		offset int
		want   uint32
	}{
		{name: "aligned", b: []byte("abcdefgh"), offset: 4, want: 0x65666768},
		{name: "wrapping", b: []byte("abcdef"), offset: 4, want: 0x65666162},
		{name: "offset past end", b: []byte("abcdef"), offset: 10, want: 0x65666162},
		{name: "single byte", b: []byte{0x7f}, offset: 68, want: 0x7f7f7f7f},
		{name: "three bytes", b: []byte{1, 2, 3}, offset: 4, want: 0x02030102},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, "word", test.want, Word(test.b, test.offset))
		})
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			t.Skip(err)
		}

		v, err := tp.GetUint64()
		if err != nil {
			t.Skip(err)
		}

		if got := BytesToUint(UintToBytes(v, 64), 8); got != v {
			t.Errorf("64-bit round trip of %#x = %#x", v, got)
		}

		if got, want := BytesToUint(UintToBytes(v, 32), 4), v&0xffffffff; got != want {
			t.Errorf("32-bit round trip of %#x = %#x, want = %#x", v, got, want)
		}

		if hi, lo := SplitUint64(v); JoinUint32(hi, lo) != v {
			t.Errorf("split/join of %#x = %#x", v, JoinUint32(hi, lo))
		}
	})
}

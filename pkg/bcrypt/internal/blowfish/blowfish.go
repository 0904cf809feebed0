// Package blowfish implements the encryption half of the Blowfish block cipher over caller-owned
// subkey tables.
//
// Blowfish is a 16-round Feistel network on 64-bit blocks. Each block is handled as two named
// 32-bit halves, l and r. For each round i in 0..15:
//
//     l ^= P[i]
//     r ^= F(l)
//     l, r = r, l
//
// After the last round the final swap is undone, and the halves are whitened with the two
// remaining subkeys:
//
//     r ^= P[16]
//     l ^= P[17]
//
// F splits its input into four bytes, most significant first, and combines four S-box lookups:
//
//     F(x) = ((S0[x0] + S1[x1]) ^ S2[x2]) + S3[x3]
//
// with all additions modulo 2^32.
//
// There is no key schedule here and no decryption: the tables are derived and owned by the
// EksBlowfish key schedule, which only ever needs the forward direction.
package blowfish

import "github.com/codahale/bcrypt/pkg/bcrypt/internal/bitpack"

const (
	BlockSize = 8  // BlockSize is the size of a Blowfish block in bytes.
	Rounds    = 16 // Rounds is the number of Feistel rounds per block.
	PSize     = Rounds + 2
	SBoxSize  = 256
)

// Tables holds the P-array of round subkeys and the four S-boxes.
type Tables struct {
	P [PSize]uint32
	S [4][SBoxSize]uint32
}

// NewTables returns a set of tables initialized with the fixed pi-derived seed.
func NewTables() *Tables {
	var t Tables

	t.Reset()

	return &t
}

// Reset restores the tables to the fixed pi-derived seed.
func (t *Tables) Reset() {
	t.P = seedP
	t.S = seedS
}

// EncryptBlock encrypts the 64-bit block formed by the halves l (most significant) and r.
func (t *Tables) EncryptBlock(l, r uint32) (uint32, uint32) {
	for i := 0; i < Rounds; i++ {
		l ^= t.P[i]
		r ^= t.f(l)
		l, r = r, l
	}

	l, r = r, l
	r ^= t.P[Rounds]
	l ^= t.P[Rounds+1]

	return l, r
}

// Encrypt encrypts src one 8-byte chunk at a time and returns one ciphertext block per chunk, in
// order. A final partial chunk is padded with zero bytes up to the block size; no byte past
// len(src) is read.
func (t *Tables) Encrypt(src []byte) [][BlockSize]byte {
	blocks := make([][BlockSize]byte, (len(src)+BlockSize-1)/BlockSize)

	for i := range blocks {
		var chunk [BlockSize]byte

		copy(chunk[:], src[i*BlockSize:])

		l, r := bitpack.SplitUint64(bitpack.BytesToUint(chunk[:], BlockSize))
		l, r = t.EncryptBlock(l, r)
		copy(blocks[i][:], bitpack.UintToBytes(bitpack.JoinUint32(l, r), 64))
	}

	return blocks
}

func (t *Tables) f(x uint32) uint32 {
	return ((t.S[0][byte(x>>24)] + t.S[1][byte(x>>16)]) ^ t.S[2][byte(x>>8)]) + t.S[3][byte(x)]
}

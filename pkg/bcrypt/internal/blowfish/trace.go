package blowfish

// StepTag identifies a step of a single block encryption.
type StepTag int

const (
	// StepWhitenRight tags the final XOR of P[16] into the right half.
	StepWhitenRight StepTag = Rounds + iota
	// StepWhitenLeft tags the final XOR of P[17] into the left half.
	StepWhitenLeft
)

// A Step is the state of a block after one step of the network. Tags 0 through 15 are rounds, and
// the halves are recorded after that round's swap.
type Step struct {
	Tag  StepTag
	L, R uint32
}

// Trace encrypts the block (l, r) and records every intermediate state. The last step's halves are
// the ciphertext EncryptBlock returns.
func (t *Tables) Trace(l, r uint32) []Step {
	steps := make([]Step, 0, Rounds+2)

	for i := 0; i < Rounds; i++ {
		l ^= t.P[i]
		r ^= t.f(l)
		l, r = r, l
		steps = append(steps, Step{Tag: StepTag(i), L: l, R: r})
	}

	l, r = r, l
	r ^= t.P[Rounds]
	steps = append(steps, Step{Tag: StepWhitenRight, L: l, R: r})

	l ^= t.P[Rounds+1]
	steps = append(steps, Step{Tag: StepWhitenLeft, L: l, R: r})

	return steps
}

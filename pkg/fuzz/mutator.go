package fuzz

import "math/rand/v2"

// Mutator produces randomized opcode byte streams via a weighted
// dispatch over Replace/Swap/Delete/Insert/ChangeByte edits, applied
// to raw instruction-stream bytes fed straight to the CPU's fetch
// logic.
type Mutator struct {
	rng    *rand.Rand
	maxLen int
}

// NewMutator creates a Mutator bounding streams to maxLen bytes.
func NewMutator(rng *rand.Rand, maxLen int) *Mutator {
	return &Mutator{rng: rng, maxLen: maxLen}
}

// Mutate returns a new byte stream derived from seq by one random edit.
func (m *Mutator) Mutate(seq []uint8) []uint8 {
	out := make([]uint8, len(seq))
	copy(out, seq)

	switch {
	case len(out) == 0:
		return m.insert(out)
	default:
		switch roll := m.rng.Float64(); {
		case roll < 0.40:
			return m.replace(out)
		case roll < 0.60:
			return m.swap(out)
		case roll < 0.80:
			return m.delete(out)
		case roll < 0.90:
			return m.insert(out)
		default:
			return m.changeByte(out)
		}
	}
}

func (m *Mutator) replace(seq []uint8) []uint8 {
	if len(seq) == 0 {
		return m.insert(seq)
	}
	i := m.rng.IntN(len(seq))
	seq[i] = uint8(m.rng.IntN(256))
	return seq
}

func (m *Mutator) swap(seq []uint8) []uint8 {
	if len(seq) < 2 {
		return m.insert(seq)
	}
	i, j := m.rng.IntN(len(seq)), m.rng.IntN(len(seq))
	seq[i], seq[j] = seq[j], seq[i]
	return seq
}

func (m *Mutator) delete(seq []uint8) []uint8 {
	if len(seq) == 0 {
		return seq
	}
	i := m.rng.IntN(len(seq))
	return append(seq[:i], seq[i+1:]...)
}

func (m *Mutator) insert(seq []uint8) []uint8 {
	if len(seq) >= m.maxLen {
		return seq
	}
	i := 0
	if len(seq) > 0 {
		i = m.rng.IntN(len(seq) + 1)
	}
	b := uint8(m.rng.IntN(256))
	seq = append(seq, 0)
	copy(seq[i+1:], seq[i:])
	seq[i] = b
	return seq
}

func (m *Mutator) changeByte(seq []uint8) []uint8 {
	if len(seq) == 0 {
		return m.insert(seq)
	}
	i := m.rng.IntN(len(seq))
	seq[i] ^= uint8(1 << m.rng.IntN(8))
	return seq
}

// RandomStream produces a fresh random byte stream of length n.
func (m *Mutator) RandomStream(n int) []uint8 {
	s := make([]uint8, n)
	for i := range s {
		s[i] = uint8(m.rng.IntN(256))
	}
	return s
}

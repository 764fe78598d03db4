package noise

// Sequence is a deterministic stream of floats in [0,1) derived from a
// 32-bit seed: an additive Weyl increment mixed through two
// xorshift/multiply rounds per draw (the mulberry32 construction).
type Sequence struct {
	state uint32
}

// NewSequence returns a generator seeded with state. Equal seeds always
// produce equal streams.
func NewSequence(state uint32) *Sequence {
	return &Sequence{state: state}
}

// Next advances the stream and returns the next value in [0,1).
func (s *Sequence) Next() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// CellSeed derives a per-cell seed from a layer seed and lattice cell
// coordinates. The result depends only on (seed, cellX, cellY), never on
// call order, so per-cell jitter, size, and visibility survive re-renders
// and neighborhood scans unchanged.
func CellSeed(seed uint32, cellX, cellY int) uint32 {
	h := seed ^ uint32(int32(cellX))*0x9E3779B1
	h = mix32(h)
	h ^= uint32(int32(cellY)) * 0x85EBCA6B
	return mix32(h)
}

func mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7FEB352D
	x ^= x >> 15
	x *= 0x846CA68B
	x ^= x >> 16
	return x
}

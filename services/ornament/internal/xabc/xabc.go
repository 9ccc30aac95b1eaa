// Package xabc implements the tiny XABC byte generator used for animation
// entropy. Fast, four bytes of state, good enough to pick fade targets;
// not a cryptographic source and not meant to be one.
package xabc

// Source holds the generator registers. The zero value is a poor seed;
// use New.
type Source struct {
	x, a, b, c uint8
}

// New returns a Source with the fixed boot seed. Every boot replays the
// same sequence, which keeps field behaviour reproducible.
func New() *Source {
	return &Source{x: 0xCA, a: 0xFE, b: 0xBA, c: 0xBE}
}

// NextByte advances the generator and returns the next byte.
func (s *Source) NextByte() uint8 {
	s.x++
	s.a = s.a ^ s.c ^ s.x
	s.b += s.a
	s.c += (s.b >> 1) ^ s.a
	return s.c
}

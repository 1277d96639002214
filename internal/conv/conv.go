// Package conv provides checked integer conversions for state ids and
// program counters.
//
// Automata and programs index their states with uint32. Conversions from int
// panic on overflow since a machine that large indicates a programming error,
// not bad input.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt converts n to int.
// Panics on 32-bit platforms when n does not fit.
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(n)
}

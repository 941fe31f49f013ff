// Package mathutil provides bit-level helpers for fixed-width two's-complement
// arithmetic.
package mathutil

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Mask returns a mask covering the low 'bits' bits.
// bits must be in [1, 64].
func Mask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

// SignExtend reinterprets the low 'bits' bits of pattern as a two's-complement
// integer and extends its sign bit to the full 64-bit register.
func SignExtend(pattern uint64, bits int) int64 {
	shift := uint(64 - bits)
	return int64(pattern<<shift) >> shift
}

// Wrap reduces x modulo 2^bits and reinterprets the result as a
// two's-complement integer. This is the modular wraparound of fixed-register
// hardware arithmetic: the carry-out is discarded, never clamped.
func Wrap(x uint64, bits int) int64 {
	return SignExtend(x&Mask(bits), bits)
}

// MinRaw returns the smallest representable raw for a signed 'bits'-wide word.
func MinRaw(bits int) int64 {
	return -1 << uint(bits-1)
}

// MaxRaw returns the largest representable raw for a signed 'bits'-wide word.
func MaxRaw(bits int) int64 {
	return 1<<uint(bits-1) - 1
}

// AbsInt64 returns |val| without branching.
// AbsInt64(math.MinInt64) is math.MinInt64 itself; callers converting the
// result to uint64 still get the correct magnitude.
func AbsInt64(val int64) int64 {
	mask := val >> (unsafe.Sizeof(int64(0))*8 - 1)
	return (val + mask) ^ mask
}

// SameSign reports whether a and b have the same sign bit.
func SameSign(a, b int64) bool {
	return (a>>63 ^ b>>63) == 0
}

// Abs returns |v| for any signed integer type.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

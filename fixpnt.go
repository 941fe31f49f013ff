// Package fixpnt implements configurable-precision binary fixed-point numbers.
//
// A value is a two's-complement integer of W significant bits with an implicit
// binary scale factor 2^-F, so a raw pattern r represents the rational r/2^F.
// W and F are fixed per Format; every bit pattern is a distinct, directly
// readable value with no hidden bits and no normalization.
//
// Arithmetic uses modular wraparound on overflow, like fixed-register hardware
// integer arithmetic: results exceeding the representable range are reduced
// modulo 2^W, discarding the carry-out. Multiplication and division are
// correctly rounded to nearest, ties to even. Whether a fault traps or is
// reported to a diagnostic sink is selected once per Format.
package fixpnt

import (
	"fmt"

	"github.com/nmethods/fixpnt/internal/mathutil"
)

const (
	minBits = 1
	maxBits = 64
)

// Value holds the raw two's-complement bits of a fixed-point number,
// sign-extended to the full 64-bit register. The zero Value is zero in every
// Format. Value is a pure bit pattern: its width, scale, and every operation
// on it come from a Format.
type Value int64

// Format describes a fixed-point configuration: the total bit width, the
// fractional bit width, and the error policy. A Format is an immutable value;
// copies are cheap and safe to share. Multiple Formats can coexist in the
// same process.
type Format struct {
	bits int
	frac int

	trap       bool
	noLiterals bool
	sink       Sink
}

// Option configures a Format.
type Option func(*Format)

// WithTrap selects trap mode: arithmetic and conversion faults are returned
// to the caller as typed errors instead of being reported and absorbed.
func WithTrap() Option {
	return func(f *Format) { f.trap = true }
}

// WithReporter sets the diagnostic sink used in report mode.
// Without it, diagnostics are discarded.
func WithReporter(s Sink) Option {
	return func(f *Format) { f.sink = s }
}

// WithoutLiterals disables the numeric-literal pathway (FromString), so only
// explicit conversions can construct values.
func WithoutLiterals() Option {
	return func(f *Format) { f.noLiterals = true }
}

// New returns a Format with the given total and fractional bit widths.
// bits must be in [1, 64] and frac in [0, bits].
func New(bits, frac int, opts ...Option) (Format, error) {
	if bits < minBits || bits > maxBits || frac < 0 || frac > bits {
		return Format{}, fmt.Errorf("fixpnt: invalid configuration <%d,%d>", bits, frac)
	}
	f := Format{bits: bits, frac: frac}
	for _, opt := range opts {
		opt(&f)
	}
	return f, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(bits, frac int, opts ...Option) Format {
	f, err := New(bits, frac, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Bits returns the total bit width W.
func (f Format) Bits() int { return f.bits }

// Frac returns the fractional bit width F.
func (f Format) Frac() int { return f.frac }

// Label returns the configuration label, e.g. "fixpnt<8,4>".
func (f Format) Label() string {
	return fmt.Sprintf("fixpnt<%d,%d>", f.bits, f.frac)
}

// MaxValue returns the largest representable value, (2^(W-1)-1)/2^F.
func (f Format) MaxValue() Value {
	f.checkFormat()
	return Value(mathutil.MaxRaw(f.bits))
}

// MinValue returns the smallest representable value, -2^(W-1)/2^F.
func (f Format) MinValue() Value {
	f.checkFormat()
	return Value(mathutil.MinRaw(f.bits))
}

// FromRaw builds a value from a raw bit pattern. Only the low W bits are
// significant; they are reinterpreted as two's complement. Total, never fails.
func (f Format) FromRaw(pattern uint64) Value {
	f.checkFormat()
	return Value(mathutil.Wrap(pattern, f.bits))
}

// Raw returns the W-bit storage pattern of v.
func (f Format) Raw(v Value) uint64 {
	f.check(v)
	return uint64(v) & mathutil.Mask(f.bits)
}

// Byte returns byte 'index' of the W-bit storage, least significant first.
// An index outside [0, ceil(W/8)) is a *BoundsError.
func (f Format) Byte(v Value, index int) (byte, error) {
	f.check(v)
	size := (f.bits + 7) / 8
	if index < 0 || index >= size {
		return 0, &BoundsError{Index: index, Size: size}
	}
	return byte(f.Raw(v) >> uint(8*index)), nil
}

// checkFormat guards against use of an uninitialized Format.
func (f Format) checkFormat() {
	if f.bits == 0 {
		panic(&InternalError{Reason: "use of zero Format"})
	}
}

// check verifies the encoding invariant: a Value must be canonical for this
// Format, i.e. sign-extended from its W-bit pattern. A violation is a defect
// in the caller or in this package, not user input, so it always escalates.
func (f Format) check(v Value) {
	f.checkFormat()
	if Value(mathutil.Wrap(uint64(v), f.bits)) != v {
		panic(&InternalError{
			Config: f.Label(),
			Reason: fmt.Sprintf("non-canonical raw %#x", uint64(v)),
		})
	}
}

package fixpnt

import (
	"github.com/shogo82148/int128"

	"github.com/nmethods/fixpnt/internal/mathutil"
)

var u128One = int128.Uint128{L: 1}

// Add returns a+b reduced modulo 2^W. On carry-out the low W bits are
// reinterpreted as two's complement, so MaxValue+ulp wraps to MinValue;
// the overflow is trapped or reported per the error policy.
func (f Format) Add(a, b Value) (Value, error) {
	f.check(a)
	f.check(b)
	res := Value(mathutil.Wrap(uint64(a)+uint64(b), f.bits))
	if mathutil.SameSign(int64(a), int64(b)) && !mathutil.SameSign(int64(a), int64(res)) {
		return res, f.fault("add", FaultOverflow, f.Raw(a), f.Raw(b), res)
	}
	return res, nil
}

// Sub returns a-b with the same modular wraparound policy as Add.
func (f Format) Sub(a, b Value) (Value, error) {
	f.check(a)
	f.check(b)
	res := Value(mathutil.Wrap(uint64(a)-uint64(b), f.bits))
	if !mathutil.SameSign(int64(a), int64(b)) && !mathutil.SameSign(int64(a), int64(res)) {
		return res, f.fault("sub", FaultOverflow, f.Raw(a), f.Raw(b), res)
	}
	return res, nil
}

// Neg returns -a. Two's-complement negation is ~raw+1, so negating MinValue
// wraps back to MinValue and faults as overflow.
func (f Format) Neg(a Value) (Value, error) {
	f.check(a)
	res := Value(mathutil.Wrap(-uint64(a), f.bits))
	if a != 0 && res == a {
		return res, f.fault("neg", FaultOverflow, f.Raw(a), 0, res)
	}
	return res, nil
}

// Cmp compares two values of this Format.
// Returns -1 if a < b, 0 if a == b, 1 if a > b. The two's-complement
// encoding preserves total order, so this is plain integer comparison;
// there is no unordered value.
func (f Format) Cmp(a, b Value) int {
	f.check(a)
	f.check(b)
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Mul returns a*b. The magnitudes are widened to 128 bits so the raw product,
// which carries 2F fractional bits, is exact; it is rounded back to F
// fractional bits to nearest, ties to even, then wrapped into W bits with the
// same modular policy as Add.
func (f Format) Mul(a, b Value) (Value, error) {
	f.check(a)
	f.check(b)
	magA := uint64(mathutil.AbsInt64(int64(a)))
	magB := uint64(mathutil.AbsInt64(int64(b)))
	prod := int128.Uint128{L: magA}.Mul(int128.Uint128{L: magB})
	mag := rshHalfEven(prod, uint(f.frac))
	neg := !mathutil.SameSign(int64(a), int64(b))
	res, fits := f.wrapMag(mag, neg)
	if !fits {
		return res, f.fault("mul", FaultOverflow, f.Raw(a), f.Raw(b), res)
	}
	if a != 0 && b != 0 && res == 0 {
		return res, f.fault("mul", FaultUnderflow, f.Raw(a), f.Raw(b), res)
	}
	return res, nil
}

// Div returns a/b rounded to nearest, ties to even. The numerator is
// pre-scaled by 2^F in a 128-bit register so the quotient lands at the
// correct fractional position. A zero denominator is a divide-by-zero fault,
// never a silent value; in report mode the sentinel result is zero.
func (f Format) Div(a, b Value) (Value, error) {
	f.check(a)
	f.check(b)
	if b == 0 {
		return 0, f.fault("div", FaultDivideByZero, f.Raw(a), f.Raw(b), 0)
	}
	magA := uint64(mathutil.AbsInt64(int64(a)))
	magB := uint64(mathutil.AbsInt64(int64(b)))
	num := int128.Uint128{L: magA}.Lsh(uint(f.frac))
	den := int128.Uint128{L: magB}
	quo, rem := num.DivMod(den)
	switch rem.Lsh(1).Cmp(den) {
	case 1:
		quo = quo.Add(u128One)
	case 0:
		if quo.L&1 != 0 {
			quo = quo.Add(u128One)
		}
	}
	neg := !mathutil.SameSign(int64(a), int64(b))
	res, fits := f.wrapMag(quo, neg)
	if !fits {
		return res, f.fault("div", FaultOverflow, f.Raw(a), f.Raw(b), res)
	}
	if a != 0 && res == 0 {
		return res, f.fault("div", FaultUnderflow, f.Raw(a), f.Raw(b), res)
	}
	return res, nil
}

// wrapMag folds a signed magnitude into the W-bit register. fits reports
// whether the exact result was representable; the returned value is the
// modularly wrapped raw either way.
func (f Format) wrapMag(mag int128.Uint128, neg bool) (res Value, fits bool) {
	lo := mag.L
	var limit uint64
	if neg {
		lo = -lo
		limit = 1 << uint(f.bits-1)
	} else {
		limit = mathutil.Mask(f.bits) >> 1
	}
	res = Value(mathutil.Wrap(lo, f.bits))
	fits = mag.Cmp(int128.Uint128{L: limit}) <= 0
	return res, fits
}

// rshHalfEven shifts x right by 'shift' bits, rounding the discarded
// fraction to nearest, ties to the even result.
func rshHalfEven(x int128.Uint128, shift uint) int128.Uint128 {
	if shift == 0 {
		return x
	}
	floor := x.Rsh(shift)
	rem := x.Sub(floor.Lsh(shift))
	switch rem.Cmp(u128One.Lsh(shift - 1)) {
	case 1:
		floor = floor.Add(u128One)
	case 0:
		if floor.L&1 != 0 {
			floor = floor.Add(u128One)
		}
	}
	return floor
}

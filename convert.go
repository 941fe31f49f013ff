package fixpnt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shogo82148/int128"

	"github.com/nmethods/fixpnt/internal/mathutil"
)

// FromFloat64 converts x to the nearest representable value: x is scaled by
// 2^F and rounded to the nearest raw integer, ties to the even raw. A rounded
// magnitude outside the representable range is a range fault: trap mode
// returns a *RangeError, report mode clamps to MinValue/MaxValue (zero for
// NaN) and records a diagnostic.
func (f Format) FromFloat64(x float64) (Value, error) {
	f.checkFormat()
	if math.IsNaN(x) {
		if f.trap {
			return 0, &RangeError{Config: f.Label(), X: x}
		}
		f.report("fromfloat64", FaultOverflow, 0, 0, 0)
		return 0, nil
	}
	scaled := math.RoundToEven(math.Ldexp(x, f.frac))
	limit := math.Ldexp(1, f.bits-1) // 2^(W-1), exclusive upper bound on raw
	if scaled >= limit || scaled < -limit {
		if f.trap {
			return 0, &RangeError{Config: f.Label(), X: x}
		}
		res := f.MaxValue()
		if scaled < 0 {
			res = f.MinValue()
		}
		f.report("fromfloat64", FaultOverflow, 0, 0, res)
		return res, nil
	}
	return Value(int64(scaled)), nil
}

// Float64 returns raw/2^F materialized as a float64. The decoding itself is
// exact; when W-1 exceeds the float64 mantissa the materialization rounds
// once more, which is disclosed here rather than hidden.
func (f Format) Float64(v Value) float64 {
	f.check(v)
	return math.Ldexp(float64(v), -f.frac)
}

// FromInt64 converts an integer, range-checked like FromFloat64 but without
// any rounding step.
func (f Format) FromInt64(x int64) (Value, error) {
	f.checkFormat()
	mag := int128.Uint128{L: uint64(mathutil.AbsInt64(x))}.Lsh(uint(f.frac))
	res, fits := f.wrapMag(mag, x < 0)
	if !fits {
		if f.trap {
			return 0, &RangeError{Config: f.Label(), X: float64(x)}
		}
		res = f.MaxValue()
		if x < 0 {
			res = f.MinValue()
		}
		f.report("fromint64", FaultOverflow, 0, 0, res)
		return res, nil
	}
	return res, nil
}

// FromString interprets a numeric literal, routed through FromFloat64. The
// pathway can be disabled per Format with WithoutLiterals, in which case only
// explicit conversions are permitted.
func (f Format) FromString(s string) (Value, error) {
	f.checkFormat()
	if f.noLiterals {
		return 0, fmt.Errorf("fixpnt: %s: literal conversion disabled", f.Label())
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("fixpnt: parsing %q failed: %w", s, err)
	}
	return f.FromFloat64(x)
}

// MustFromString is like FromString but panics on error.
func (f Format) MustFromString(s string) Value {
	v, err := f.FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

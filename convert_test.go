package fixpnt

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloat64(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		bits, frac int
		x          float64
		result     Value
		rangeErr   bool
	}{
		{4, 1, 0, 0, false},
		{4, 1, 3.5, 7, false}, // encode(3.5) = 7, i.e. 7/2 = 3.5 exact
		{4, 1, -4, -8, false},
		{4, 1, 3.74, 7, false},
		{4, 1, 0.25, 0, false}, // tie 0.5 resolves to the even raw 0
		{4, 1, 0.75, 2, false}, // tie 1.5 resolves to the even raw 2
		{4, 1, -4.25, -8, false},
		{4, 1, 3.75, 7, true},  // rounds to raw 8, out of range
		{4, 1, -4.3, -8, true}, // rounds to raw -9, out of range
		{8, 4, 4.125, 66, false}, // 66/16 = 4.125 exact, no rounding needed
		{8, 4, 0.03125, 0, false}, // tie 0.5 to even raw 0
		{8, 4, 0.09375, 2, false}, // tie 1.5 to even raw 2
		{8, 0, 4, 4, false},
		{4, 1, math.Inf(1), 7, true},
		{4, 1, math.Inf(-1), -8, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			// report mode clamps and never fails
			f := MustNew(test.bits, test.frac)
			v, err := f.FromFloat64(test.x)
			a.NoError(err)
			a.Equal(test.result, v)

			// trap mode propagates a typed range fault instead
			ft := MustNew(test.bits, test.frac, WithTrap())
			v, err = ft.FromFloat64(test.x)
			if test.rangeErr {
				var re *RangeError
				if a.ErrorAs(err, &re) {
					a.Equal(ft.Label(), re.Config)
				}
			} else {
				a.NoError(err)
				a.Equal(test.result, v)
			}
		})
	}
}

func TestFromFloat64NaN(t *testing.T) {
	a := assert.New(t)
	f := MustNew(8, 4)
	v, err := f.FromFloat64(math.NaN())
	a.NoError(err)
	a.Equal(Value(0), v)

	_, err = MustNew(8, 4, WithTrap()).FromFloat64(math.NaN())
	var re *RangeError
	a.ErrorAs(err, &re)
}

func TestFloat64(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		bits, frac int
		v          Value
		x          float64
	}{
		{4, 1, 7, 3.5},
		{4, 1, -8, -4},
		{8, 4, 66, 4.125},
		{8, 4, 1, 0.0625},
		{8, 0, -128, -128},
		{16, 16, 1, 1.0 / 65536},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.x, MustNew(test.bits, test.frac).Float64(test.v))
		})
	}
}

func TestFromInt64(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		bits, frac int
		x          int64
		result     Value
		rangeErr   bool
	}{
		{4, 1, 0, 0, false},
		{4, 1, 2, 4, false},
		{4, 1, 3, 6, false},
		{4, 1, -4, -8, false},
		{4, 1, 4, 7, true},   // clamps to MaxValue in report mode
		{4, 1, -5, -8, true}, // clamps to MinValue
		{8, 0, 127, 127, false},
		{8, 0, 128, 127, true},
		{64, 0, math.MaxInt64, math.MaxInt64, false},
		{64, 0, math.MinInt64, math.MinInt64, false},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			f := MustNew(test.bits, test.frac)
			v, err := f.FromInt64(test.x)
			a.NoError(err)
			a.Equal(test.result, v)

			_, err = MustNew(test.bits, test.frac, WithTrap()).FromInt64(test.x)
			if test.rangeErr {
				var re *RangeError
				a.ErrorAs(err, &re)
			} else {
				a.NoError(err)
			}
		})
	}
}

func TestFromString(t *testing.T) {
	a := assert.New(t)
	f := MustNew(8, 4)
	tests := []struct {
		s      string
		err    bool
		result Value
	}{
		{"0", false, 0},
		{"4.125", false, 66},
		{"-4.125", false, -66},
		{"0.5e1", false, 80},
		{"", true, 0},
		{"abc", true, 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v, err := f.FromString(test.s)
			if test.err {
				a.Error(err)
				a.Panics(func() {
					f.MustFromString(test.s)
				})
			} else {
				a.NoError(err)
				a.Equal(test.result, v)
			}
		})
	}
}

func TestLiteralsDisabled(t *testing.T) {
	a := assert.New(t)
	f := MustNew(8, 4, WithoutLiterals())
	_, err := f.FromString("4.125")
	a.EqualError(err, "fixpnt: fixpnt<8,4>: literal conversion disabled")

	// explicit conversions stay available
	v, err := f.FromFloat64(4.125)
	a.NoError(err)
	a.Equal(Value(66), v)
}

// an already-representable value is a fixed point of the conversion cycle
func TestConversionIdempotence(t *testing.T) {
	a := assert.New(t)
	f := MustNew(8, 4)
	for _, x := range []float64{0.1, 1.0 / 3.0, 2.77777, -5.3} {
		v, err := f.FromFloat64(x)
		a.NoError(err)
		again, err := f.FromFloat64(f.Float64(v))
		a.NoError(err)
		a.Equal(v, again)
	}
}

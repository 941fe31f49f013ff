package verify

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/nmethods/fixpnt"
)

// divPrecision is the decimal-digit budget for the division reference. Any
// quotient of W-bit operands that is not exactly a half-integer sits at least
// 2^-64 away from one, so 40 digits cannot misplace the tie decision.
const divPrecision = 40

// oracle computes reference results in arithmetic that shares no code with
// the fixpnt engine: big.Int registers for the modular group operations and
// exact shopspring/decimal arithmetic for the rounded ones. References are
// re-quantized to F fractional bits with banker's rounding and reduced
// modulo 2^W, mirroring the contract the engine must satisfy.
type oracle struct {
	f    fixpnt.Format
	mask *big.Int        // 2^W - 1
	pow5 decimal.Decimal // 5^F; dividing by 2^F is multiplying by 5^F * 10^-F
	twoF decimal.Decimal // 2^F
}

func newOracle(f fixpnt.Format) *oracle {
	frac := big.NewInt(int64(f.Frac()))
	mask := new(big.Int).Lsh(big.NewInt(1), uint(f.Bits()))
	mask.Sub(mask, big.NewInt(1))
	return &oracle{
		f:    f,
		mask: mask,
		pow5: decimal.NewFromBigInt(new(big.Int).Exp(big.NewInt(5), frac, nil), 0),
		twoF: decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), uint(f.Frac())), 0),
	}
}

// wrap reduces an exact integer result modulo 2^W and returns the W-bit
// pattern. big.Int bitwise operations use two's-complement semantics, so a
// plain And handles negative results.
func (o *oracle) wrap(x *big.Int) uint64 {
	return new(big.Int).And(x, o.mask).Uint64()
}

func (o *oracle) add(a, b fixpnt.Value) uint64 {
	return o.wrap(new(big.Int).Add(big.NewInt(int64(a)), big.NewInt(int64(b))))
}

func (o *oracle) sub(a, b fixpnt.Value) uint64 {
	return o.wrap(new(big.Int).Sub(big.NewInt(int64(a)), big.NewInt(int64(b))))
}

func (o *oracle) neg(a fixpnt.Value) uint64 {
	return o.wrap(new(big.Int).Neg(big.NewInt(int64(a))))
}

// mul: the raw product a*b carries 2F fractional bits; dividing by 2^F is
// exact in decimal, and RoundBank re-quantizes half-to-even.
func (o *oracle) mul(a, b fixpnt.Value) uint64 {
	p := decimal.New(int64(a), 0).Mul(decimal.New(int64(b), 0))
	q := p.Mul(o.pow5).Shift(-int32(o.f.Frac())).RoundBank(0)
	return o.wrap(q.BigInt())
}

// div: the value quotient re-quantized to F bits is round_even(a*2^F / b).
// Division by zero mirrors the engine's report-mode sentinel of zero.
func (o *oracle) div(a, b fixpnt.Value) uint64 {
	if b == 0 {
		return 0
	}
	n := decimal.New(int64(a), 0).Mul(o.twoF)
	q := n.DivRound(decimal.New(int64(b), 0), divPrecision).RoundBank(0)
	return o.wrap(q.BigInt())
}

// cmp: the sign of decode(a)-decode(b); the common 2^-F scale cancels.
func (o *oracle) cmp(a, b fixpnt.Value) int {
	return decimal.New(int64(a), 0).Cmp(decimal.New(int64(b), 0))
}

package fixpnt

import (
	"strconv"
	"strings"
)

// String renders the decoded rational value of v in decimal.
func (f Format) String(v Value) string {
	return strconv.FormatFloat(f.Float64(v), 'g', -1, 64)
}

// Binary renders the W-bit storage pattern with a point between the integer
// and fractional fields, e.g. "0b0100.0010" for raw 66 in fixpnt<8,4>.
func (f Format) Binary(v Value) string {
	pattern := f.Raw(v)
	var b strings.Builder
	b.WriteString("0b")
	if f.frac == f.bits {
		// all-fractional formats keep a readable leading zero
		b.WriteString("0.")
	}
	for i := f.bits - 1; i >= 0; i-- {
		if f.frac < f.bits && i == f.frac-1 {
			b.WriteByte('.')
		}
		b.WriteByte('0' + byte(pattern>>uint(i)&1))
	}
	return b.String()
}

// Text renders both the raw bit pattern and the decoded value,
// e.g. "0b0100.0010 (4.125)".
func (f Format) Text(v Value) string {
	return f.Binary(v) + " (" + f.String(v) + ")"
}

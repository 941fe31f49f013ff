package fixpnt

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// FaultKind classifies an arithmetic fault.
type FaultKind int

const (
	FaultNone FaultKind = iota
	// FaultOverflow: the exact result exceeds [-2^(W-1), 2^(W-1)-1] and was
	// wrapped (arithmetic) or clamped (conversion).
	FaultOverflow
	// FaultUnderflow: a nonzero exact result rounded to zero.
	FaultUnderflow
	// FaultDivideByZero: the denominator raw value is zero.
	FaultDivideByZero
)

func (k FaultKind) String() string {
	switch k {
	case FaultNone:
		return "none"
	case FaultOverflow:
		return "overflow"
	case FaultUnderflow:
		return "underflow"
	case FaultDivideByZero:
		return "divide-by-zero"
	}
	return fmt.Sprintf("FaultKind(%d)", int(k))
}

// MarshalText makes diagnostics render the kind as its name.
func (k FaultKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *FaultKind) UnmarshalText(text []byte) error {
	for kind := FaultNone; kind <= FaultDivideByZero; kind++ {
		if string(text) == kind.String() {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("fixpnt: unknown fault kind %q", text)
}

// ArithmeticError is an expected operational fault of an arithmetic
// operation, returned in trap mode. Operands are W-bit raw patterns.
type ArithmeticError struct {
	Config string
	Op     string
	Kind   FaultKind
	A, B   uint64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("fixpnt: %s %s %s (operands %#x, %#x)", e.Config, e.Op, e.Kind, e.A, e.B)
}

// RangeError reports a conversion whose rounded magnitude exceeds the
// representable range, returned in trap mode.
type RangeError struct {
	Config string
	X      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("fixpnt: %s cannot represent %g", e.Config, e.X)
}

// BoundsError reports an out-of-range raw-byte index. It is a programmer
// error at the call site and propagates regardless of the error policy.
type BoundsError struct {
	Index, Size int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("fixpnt: byte index %d out of range [0, %d)", e.Index, e.Size)
}

// InternalError signals a violated encoding invariant, i.e. a defect in this
// package or its caller. It is delivered by panic and must not be masked.
type InternalError struct {
	Config string
	Reason string
}

func (e *InternalError) Error() string {
	if e.Config == "" {
		return "fixpnt: internal: " + e.Reason
	}
	return fmt.Sprintf("fixpnt: internal: %s: %s", e.Config, e.Reason)
}

// Diagnostic is one report-mode fault record. A and B are the operand raw
// patterns, Result the wrapped/clamped raw pattern that the operation
// returned instead of failing.
type Diagnostic struct {
	Config string    `json:"config"`
	Op     string    `json:"op"`
	Kind   FaultKind `json:"kind"`
	A      uint64    `json:"a"`
	B      uint64    `json:"b"`
	Result uint64    `json:"result"`
}

// Sink receives report-mode diagnostics. Implementations must accept
// concurrent Record calls: parallel verification workers share one sink.
type Sink interface {
	Record(Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Diagnostic)

func (fn SinkFunc) Record(d Diagnostic) { fn(d) }

// WriterSink writes each diagnostic as a single JSON line. Records are
// appended atomically, so concurrent writers cannot interleave.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a Sink writing JSON lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Record(d Diagnostic) {
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Write(append(data, '\n'))
}

// fault resolves an arithmetic fault under the configured policy: trap mode
// returns a typed error, report mode records a diagnostic and absorbs it.
func (f Format) fault(op string, kind FaultKind, a, b uint64, result Value) error {
	if f.trap {
		return &ArithmeticError{Config: f.Label(), Op: op, Kind: kind, A: a, B: b}
	}
	f.report(op, kind, a, b, result)
	return nil
}

func (f Format) report(op string, kind FaultKind, a, b uint64, result Value) {
	if f.sink == nil {
		return
	}
	f.sink.Record(Diagnostic{
		Config: f.Label(),
		Op:     op,
		Kind:   kind,
		A:      a,
		B:      b,
		Result: f.Raw(result),
	})
}

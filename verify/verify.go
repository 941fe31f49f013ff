// Package verify is the correctness oracle for fixpnt configurations.
//
// For a given format it generates operand pairs (exhaustively for small
// widths, pseudo-randomly for large ones), computes the fixed-point result
// and an independent reference result in wider arithmetic, re-quantizes the
// reference with the same rounding and wraparound rules, and requires
// bit-exact equality. The reference path deliberately shares no code with
// the arithmetic engine.
package verify

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nmethods/fixpnt"
)

// Op selects the operation under verification.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpCmp
	OpRoundTrip
)

var opNames = [...]string{"add", "sub", "mul", "div", "neg", "cmp", "roundtrip"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// ParseOp parses an operation name as used in sweep configurations.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if name == s {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("verify: unknown operation %q", s)
}

func (op Op) binary() bool {
	return op == OpAdd || op == OpSub || op == OpMul || op == OpDiv || op == OpCmp
}

// Exhaustive enumeration limits: a binary sweep visits 2^W x 2^W pairs.
const (
	maxExhaustiveBinary = 12
	maxExhaustiveUnary  = 24
)

// Case describes one (W, F, operation) verification run.
type Case struct {
	Bits, Frac int
	Op         Op
	// Samples selects sampled mode with that many pseudo-random operand
	// pairs; zero selects exhaustive mode (small widths only).
	Samples int
	// Seed for sampled mode; zero means a fixed default, so runs are
	// reproducible unless a seed is chosen explicitly.
	Seed int64
	// MaxFailures bounds the itemized failures kept in the report
	// (counting continues past the bound). Zero keeps only the first.
	MaxFailures int
}

// Failure is one itemized failing operand pair.
type Failure struct {
	A, B uint64 // operand bit patterns
	Got  string // engine result with its bit trace
	Want string // reference result with its bit trace
}

func (fl Failure) String() string {
	return fmt.Sprintf("a=%#x b=%#x: got %s, want %s", fl.A, fl.B, fl.Got, fl.Want)
}

// Report is the per-configuration verification summary.
type Report struct {
	Config   string
	Op       string
	Pass     int64
	Fail     int64
	Failures []Failure
}

// Failed reports whether any operand pair disagreed with the reference.
func (r Report) Failed() bool { return r.Fail > 0 }

func (r Report) String() string {
	verdict := "PASS"
	if r.Failed() {
		verdict = "FAIL"
	}
	return fmt.Sprintf("%-14s %-9s %s pass %d fail %d", r.Config, r.Op, verdict, r.Pass, r.Fail)
}

// Run verifies a single case. Arithmetic faults are expected test stimuli, so
// the format under test runs in report mode and a run never aborts on them;
// Run only returns an error for an unusable case (invalid configuration, or
// exhaustive mode requested for a width that is too wide to enumerate).
func Run(c Case) (Report, error) {
	f, err := fixpnt.New(c.Bits, c.Frac)
	if err != nil {
		return Report{}, err
	}
	if c.Samples == 0 {
		limit := maxExhaustiveUnary
		if c.Op.binary() {
			limit = maxExhaustiveBinary
		}
		if c.Bits > limit {
			return Report{}, fmt.Errorf("verify: %s too wide for exhaustive %s, set Samples", f.Label(), c.Op)
		}
	}
	if c.Op == OpRoundTrip && c.Bits > 53 {
		return Report{}, fmt.Errorf("verify: %s exceeds float64 precision for roundtrip", f.Label())
	}

	maxFailures := c.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 1
	}
	o := newOracle(f)
	rep := Report{Config: f.Label(), Op: c.Op.String()}
	record := func(a, b fixpnt.Value) {
		if fl, ok := eval(f, o, c.Op, a, b); ok {
			rep.Pass++
		} else {
			rep.Fail++
			if len(rep.Failures) < maxFailures {
				rep.Failures = append(rep.Failures, fl)
			}
		}
	}

	switch {
	case c.Samples > 0:
		seed := c.Seed
		if seed == 0 {
			seed = 1
		}
		rng := rand.New(rand.NewSource(seed))
		for k := 0; k < c.Samples; k++ {
			a := f.FromRaw(rng.Uint64())
			b := fixpnt.Value(0)
			if c.Op.binary() {
				b = f.FromRaw(rng.Uint64())
			}
			record(a, b)
		}
	case c.Op.binary():
		n := uint64(1) << uint(c.Bits)
		for i := uint64(0); i < n; i++ {
			a := f.FromRaw(i)
			for j := uint64(0); j < n; j++ {
				record(a, f.FromRaw(j))
			}
		}
	default:
		n := uint64(1) << uint(c.Bits)
		for i := uint64(0); i < n; i++ {
			record(f.FromRaw(i), 0)
		}
	}
	return rep, nil
}

// eval runs one operand pair through the engine and the oracle.
func eval(f fixpnt.Format, o *oracle, op Op, a, b fixpnt.Value) (Failure, bool) {
	if op == OpCmp {
		got, want := f.Cmp(a, b), o.cmp(a, b)
		if got == want {
			return Failure{}, true
		}
		return Failure{
			A:    f.Raw(a),
			B:    f.Raw(b),
			Got:  strconv.Itoa(got),
			Want: strconv.Itoa(want),
		}, false
	}

	var got fixpnt.Value
	var want uint64
	switch op {
	case OpAdd:
		got, _ = f.Add(a, b)
		want = o.add(a, b)
	case OpSub:
		got, _ = f.Sub(a, b)
		want = o.sub(a, b)
	case OpMul:
		got, _ = f.Mul(a, b)
		want = o.mul(a, b)
	case OpDiv:
		got, _ = f.Div(a, b)
		want = o.div(a, b)
	case OpNeg:
		got, _ = f.Neg(a)
		want = o.neg(a)
	case OpRoundTrip:
		got, _ = f.FromFloat64(f.Float64(a))
		want = f.Raw(a)
	}
	if f.Raw(got) == want {
		return Failure{}, true
	}
	return Failure{
		A:    f.Raw(a),
		B:    f.Raw(b),
		Got:  f.Text(got),
		Want: f.Text(f.FromRaw(want)),
	}, false
}

// Totals aggregates pass/fail counts across a sweep. Counters are combined
// with atomic additions, so worker completion order does not matter.
type Totals struct {
	Pass, Fail int64
}

// Sweep verifies the cases on up to 'workers' goroutines (NumCPU if zero or
// negative). Cases are independent, so no ordering is imposed; reports come
// back indexed like the input.
func Sweep(ctx context.Context, cases []Case, workers int) ([]Report, Totals, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	reports := make([]Report, len(cases))
	var pass, fail atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cases {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := Run(cases[i])
			if err != nil {
				return err
			}
			reports[i] = rep
			pass.Add(rep.Pass)
			fail.Add(rep.Fail)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Totals{}, err
	}
	return reports, Totals{Pass: pass.Load(), Fail: fail.Load()}, nil
}

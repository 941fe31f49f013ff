// Command bakersmap traces the folded baker's map, a chaotic map from the
// unit square into itself, side by side in float64 and in a configurable
// fixed-point format. The trajectories start identical and diverge as the
// reduced precision loses the low bits that the doubling step amplifies.
//
//	S(x, y) = (2x, y/2)          for 0.0 <= x < 0.5
//	        = (2 - 2x, 1 - y/2)  for 0.5 <= x < 1.0
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nmethods/fixpnt"
)

type tracer struct {
	f              fixpnt.Format
	one, two, half fixpnt.Value
}

func newTracer(f fixpnt.Format) *tracer {
	one, err := f.FromInt64(1)
	if err != nil {
		log.Fatalf("bakersmap: %v", err)
	}
	two, err := f.FromInt64(2)
	if err != nil {
		log.Fatalf("bakersmap: %v", err)
	}
	half, err := f.FromFloat64(0.5)
	if err != nil {
		log.Fatalf("bakersmap: %v", err)
	}
	return &tracer{f: f, one: one, two: two, half: half}
}

// step applies one fold. The format runs in report mode, so the arithmetic
// cannot fail here; the map keeps every point inside the unit square.
func (t *tracer) step(x, y fixpnt.Value) (fixpnt.Value, fixpnt.Value) {
	f := t.f
	if f.Cmp(x, t.half) < 0 {
		nx, _ := f.Mul(t.two, x)
		ny, _ := f.Div(y, t.two)
		return nx, ny
	}
	tx, _ := f.Mul(t.two, x)
	nx, _ := f.Sub(t.two, tx)
	hy, _ := f.Div(y, t.two)
	ny, _ := f.Sub(t.one, hy)
	return nx, ny
}

func foldFloat(x, y float64) (float64, float64) {
	if x < 0.5 {
		return 2 * x, y / 2
	}
	return 2 - 2*x, 1 - y/2
}

func main() {
	log.SetFlags(0)
	bits := flag.Int("bits", 32, "total bit width")
	frac := flag.Int("frac", 16, "fractional bit width")
	x0 := flag.Float64("x", 0.125*0.125*0.125*0.125*0.125*0.125, "initial x")
	y0 := flag.Float64("y", 0.75, "initial y")
	iters := flag.Int("n", 25, "iterations")
	flag.Parse()

	f, err := fixpnt.New(*bits, *frac)
	if err != nil {
		log.Fatalf("bakersmap: %v", err)
	}
	t := newTracer(f)

	px, err := f.FromFloat64(*x0)
	if err != nil {
		log.Fatalf("bakersmap: %v", err)
	}
	py, err := f.FromFloat64(*y0)
	if err != nil {
		log.Fatalf("bakersmap: %v", err)
	}
	fx, fy := *x0, *y0

	fmt.Printf("baker's map: float64 vs %s\n", f.Label())
	for i := 0; i < *iters; i++ {
		fx, fy = foldFloat(fx, fy)
		px, py = t.step(px, py)
		fmt.Printf("%5d : float64 (%.15g, %.15g)  %s (%s, %s)\n",
			i, fx, fy, f.Label(), f.String(px), f.String(py))
	}
}

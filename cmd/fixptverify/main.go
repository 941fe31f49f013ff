// Command fixptverify sweeps fixpnt configurations against the verification
// oracle and exits non-zero if any configuration reports a failure.
//
// The sweep is described in YAML:
//
//	workers: 4
//	max_failures: 4
//	configs:
//	  - bits: 4
//	    fracs: [0, 1, 2, 3, 4]
//	    ops: [add, sub, mul, div, neg, cmp, roundtrip]
//	  - bits: 16
//	    fracs: [8]
//	    ops: [mul, div]
//	    samples: 100000
//
// Without -config a built-in sweep over the small widths is used.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nmethods/fixpnt/verify"
)

type sweepConfig struct {
	Workers     int `yaml:"workers"`
	MaxFailures int `yaml:"max_failures"`
	Configs     []struct {
		Bits    int      `yaml:"bits"`
		Fracs   []int    `yaml:"fracs"`
		Ops     []string `yaml:"ops"`
		Samples int      `yaml:"samples"`
		Seed    int64    `yaml:"seed"`
	} `yaml:"configs"`
}

const defaultSweep = `
configs:
  - bits: 4
    fracs: [0, 1, 2, 3, 4]
    ops: [add, sub, mul, div, neg, cmp, roundtrip]
  - bits: 8
    fracs: [0, 1, 2, 3, 4, 5, 6, 7, 8]
    ops: [add, sub, mul, div, neg, cmp, roundtrip]
  - bits: 10
    fracs: [3, 5, 7]
    ops: [add, mul]
  - bits: 32
    fracs: [16]
    ops: [add, sub, mul, div]
    samples: 200000
  - bits: 64
    fracs: [32]
    ops: [add, sub, mul, div]
    samples: 200000
`

func loadSweep(path string) (*sweepConfig, error) {
	data := []byte(defaultSweep)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	var cfg sweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sweep: %w", err)
	}
	return &cfg, nil
}

func (cfg *sweepConfig) cases() ([]verify.Case, error) {
	var cases []verify.Case
	for _, c := range cfg.Configs {
		for _, frac := range c.Fracs {
			for _, name := range c.Ops {
				op, err := verify.ParseOp(name)
				if err != nil {
					return nil, err
				}
				cases = append(cases, verify.Case{
					Bits:        c.Bits,
					Frac:        frac,
					Op:          op,
					Samples:     c.Samples,
					Seed:        c.Seed,
					MaxFailures: cfg.MaxFailures,
				})
			}
		}
	}
	return cases, nil
}

func main() {
	log.SetFlags(0)
	configPath := flag.String("config", "", "YAML sweep description (built-in sweep if empty)")
	workers := flag.Int("workers", 0, "parallel verification workers (NumCPU if 0)")
	flag.Parse()

	cfg, err := loadSweep(*configPath)
	if err != nil {
		log.Fatalf("fixptverify: %v", err)
	}
	cases, err := cfg.cases()
	if err != nil {
		log.Fatalf("fixptverify: %v", err)
	}
	if *workers == 0 {
		*workers = cfg.Workers
	}

	reports, totals, err := verify.Sweep(context.Background(), cases, *workers)
	if err != nil {
		log.Fatalf("fixptverify: %v", err)
	}
	for _, rep := range reports {
		fmt.Println(rep)
		for _, fl := range rep.Failures {
			fmt.Println("    " + fl.String())
		}
	}
	fmt.Printf("total pass %d fail %d\n", totals.Pass, totals.Fail)
	if totals.Fail > 0 {
		os.Exit(1)
	}
}

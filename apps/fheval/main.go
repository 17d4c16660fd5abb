//
// main.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/markkurossi/fhe/program"
	"github.com/markkurossi/fhe/vector"
	"github.com/markkurossi/tabulate"
	"github.com/montanaflynn/stats"
)

var (
	verbose = false
)

func main() {
	fDump := flag.Bool("dump", false, "Dump program listings")
	fVerbose := flag.Bool("v", false, "Verbose output")
	fBench := flag.Int("bench", 0, "Benchmark rounds per test vector")
	flag.Parse()

	verbose = *fVerbose

	if len(flag.Args()) == 0 {
		fmt.Printf("No input files\n")
		os.Exit(1)
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Program").SetAlign(tabulate.ML)
	tab.Header("Digest").SetAlign(tabulate.ML)
	tab.Header("Vectors").SetAlign(tabulate.MR)
	tab.Header("Ops").SetAlign(tabulate.MR)
	tab.Header("Cost").SetAlign(tabulate.MR)
	tab.Header("Result").SetAlign(tabulate.ML)

	var failed bool

	for _, arg := range flag.Args() {
		suite, err := vector.ParseFile(arg)
		if err != nil {
			fmt.Printf("Failed to parse suite file '%s': %s\n", arg, err)
			os.Exit(1)
		}
		prog, err := suite.Build()
		if err != nil {
			fmt.Printf("Failed to build program '%s': %s\n", arg, err)
			os.Exit(1)
		}
		if *fDump {
			prog.Dump(os.Stdout)
		}

		row := tab.Row()
		row.Column(prog.Name)
		row.Column(prog.DigestString()[:16])
		row.Column(fmt.Sprintf("%d", len(suite.Vectors)))

		st := prog.Stats()
		row.Column(fmt.Sprintf("%d", st.Count()))
		row.Column(fmt.Sprintf("%d", prog.Cost()))

		result := runSuite(prog, suite)
		if result != "ok" {
			failed = true
		}
		row.Column(result)

		if *fBench > 0 {
			err = benchmark(prog, suite, *fBench, os.Stdout)
			if err != nil {
				fmt.Printf("Benchmark failed for '%s': %s\n", arg, err)
				os.Exit(1)
			}
		}
	}
	tab.Print(os.Stdout)

	if failed {
		os.Exit(1)
	}
}

func runSuite(prog *program.Program, suite *vector.Suite) string {
	checked, err := prog.Check()
	if err != nil {
		return err.Error()
	}
	for idx := range suite.Vectors {
		err = vector.Eval(checked, suite.Vectors[idx])
		if err != nil {
			return fmt.Sprintf("vector %d: %s", idx, err)
		}
		if verbose {
			fmt.Printf("%s: vector %d: ok\n", prog.Name, idx)
		}
	}
	return "ok"
}

func benchmark(prog *program.Program, suite *vector.Suite, rounds int,
	out io.Writer) error {

	checked, err := prog.Check()
	if err != nil {
		return err
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Vector").SetAlign(tabulate.MR)
	tab.Header("Min").SetAlign(tabulate.MR)
	tab.Header("Mean").SetAlign(tabulate.MR)
	tab.Header("Median").SetAlign(tabulate.MR)
	tab.Header("P95").SetAlign(tabulate.MR)
	tab.Header("Max").SetAlign(tabulate.MR)

	for idx := range suite.Vectors {
		inputs, err := vector.Inputs(checked, suite.Vectors[idx])
		if err != nil {
			return err
		}
		samples := make([]float64, rounds)
		for round := 0; round < rounds; round++ {
			start := time.Now()
			_, err = checked.Eval(inputs)
			if err != nil {
				return err
			}
			samples[round] = float64(time.Since(start).Nanoseconds())
		}

		row := tab.Row()
		row.Column(fmt.Sprintf("%d", idx))
		for _, fn := range []func(stats.Float64Data) (float64, error){
			stats.Min,
			stats.Mean,
			stats.Median,
			func(d stats.Float64Data) (float64, error) {
				return stats.Percentile(d, 95)
			},
			stats.Max,
		} {
			v, err := fn(samples)
			if err != nil {
				return err
			}
			row.Column(time.Duration(int64(v)).String())
		}
	}

	fmt.Fprintf(out, "Benchmark %s: %d rounds\n", prog.Name, rounds)
	tab.Print(out)

	return nil
}

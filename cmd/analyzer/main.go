package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/relabs-tech/range_logger/internal/app"
)

func main() {
	window := flag.Int("window", 5, "moving-average window size (samples)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [--window N] <logfile.csv>\n", os.Args[0])
		os.Exit(2)
	}

	if err := app.RunAnalyzer(flag.Arg(0), *window); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

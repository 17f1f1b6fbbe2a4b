package app

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/relabs-tech/range_logger/internal/analysis"
	"github.com/relabs-tech/range_logger/internal/chart"
	"github.com/relabs-tech/range_logger/internal/logfile"
)

// RunAnalyzer runs the batch pipeline over a recorded log: parse, derive the
// filtered/velocity/acceleration series, write the processed CSV and the
// comparison plot next to the input, and print the stats summary.
func RunAnalyzer(path string, window int) error {
	readings, err := logfile.Read(path)
	if err != nil {
		return err
	}
	log.Printf("loaded %d readings from %s", len(readings), path)

	tbl, err := analysis.Analyze(readings, window)
	if err != nil {
		return err
	}
	sum := analysis.Summarize(tbl)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir := filepath.Dir(path)

	outCSV := filepath.Join(dir, fmt.Sprintf("processed_%s_w%d.csv", base, window))
	if err := analysis.WriteCSV(outCSV, tbl); err != nil {
		return err
	}
	log.Printf("processed data saved to %s", outCSV)

	outPlot := filepath.Join(dir, fmt.Sprintf("plot_comparison_%s_w%d.png", base, window))
	if err := chart.Comparison(outPlot, tbl, window, sum.SampleRate); err != nil {
		return err
	}
	log.Printf("comparison plot saved to %s", outPlot)

	printSummary(sum)
	return nil
}

func printSummary(s analysis.Summary) {
	fmt.Println("\nStats summary:")
	fmt.Printf("- Duration:                  %.2f s\n", s.Duration)
	fmt.Printf("- Sample rate:               %.1f Hz\n", s.SampleRate)
	fmt.Printf("- Max raw velocity:          %.2f cm/s\n", s.MaxVelocityRaw)
	fmt.Printf("- Max filtered velocity:     %.2f cm/s\n", s.MaxVelocityFiltered)
	fmt.Printf("- Max raw acceleration:      %.2f cm/s²\n", s.MaxAccelRaw)
	fmt.Printf("- Max filtered acceleration: %.2f cm/s²\n", s.MaxAccelFiltered)
}

package analysis

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

var processedHeader = []string{
	"t", "distance", "distance_filtered",
	"velocity_raw", "velocity_filtered",
	"accel_raw", "accel_filtered",
}

// WriteCSV writes the processed table next to its final location via a temp
// file and rename, so a failed run leaves no partial output behind.
// NaN entries become blank cells.
func WriteCSV(path string, tbl *Table) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".processed-*")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(processedHeader); err != nil {
		return fmt.Errorf("failed to write processed header: %w", err)
	}

	for i := range tbl.T {
		row := []string{
			strconv.FormatFloat(tbl.T[i], 'f', 2, 64),
			formatCell(tbl.Distance[i]),
			formatCell(tbl.DistanceFiltered[i]),
			formatCell(tbl.VelocityRaw[i]),
			formatCell(tbl.VelocityFiltered[i]),
			formatCell(tbl.AccelRaw[i]),
			formatCell(tbl.AccelFiltered[i]),
		}
		if err = w.Write(row); err != nil {
			return fmt.Errorf("failed to write processed row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("failed to flush processed output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close processed output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move processed output into place: %w", err)
	}
	return nil
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/range_logger/internal/ranging"
)

func TestWriteCSVBlanksUndefinedCells(t *testing.T) {
	readings := []ranging.Reading{
		{T: 0, Distance: 100},
		{T: 1, Distance: 90},
		{T: 2, Distance: 70},
	}
	tbl, err := Analyze(readings, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "processed.csv")
	require.NoError(t, WriteCSV(path, tbl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)

	require.Equal(t,
		"t,distance,distance_filtered,velocity_raw,velocity_filtered,accel_raw,accel_filtered",
		lines[0])

	// First data row has no derivatives.
	require.Equal(t, "0.00,100,100,,,,", lines[1])
	// Second row has velocity but no acceleration.
	require.Equal(t, "1.00,90,90,-10,-10,,", lines[2])
	// Third row has everything.
	require.Equal(t, "2.00,70,70,-20,-20,-10,-10", lines[3])
}

func TestWriteCSVLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	readings := []ranging.Reading{{T: 0, Distance: 1}}
	tbl, err := Analyze(readings, 1)
	require.NoError(t, err)

	require.NoError(t, WriteCSV(filepath.Join(dir, "out.csv"), tbl))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "out.csv", entries[0].Name())
}

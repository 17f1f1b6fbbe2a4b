package logfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/range_logger/internal/ranging"
)

func TestCleanName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "run1", "run1.csv"},
		{"already csv", "run1.csv", "run1.csv"},
		{"invalid chars", `run<1>:"?`, "run_1____.csv"},
		{"spaces", "  my run  ", "my_run.csv"},
		{"path separators", "logs/run1", "logs_run1.csv"},
		{"other extension kept", "run1.txt", "run1.txt.csv"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CleanName(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)

			// Sanitization is idempotent.
			again, err := CleanName(got)
			require.NoError(t, err)
			require.Equal(t, got, again)
		})
	}
}

func TestCleanNameRejectsEmptyBase(t *testing.T) {
	for _, in := range []string{"", "   ", ".csv", "..csv"} {
		_, err := CleanName(in)
		require.ErrorIs(t, err, ErrBadName, "input %q", in)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")

	w, err := Open(path, false)
	require.NoError(t, err)

	in := []ranging.Reading{
		{T: 0, Distance: 100},
		{T: 0.05, Distance: 98.5},
		{T: 0.1, Distance: 97},
	}
	for _, r := range in {
		require.NoError(t, w.WriteReading(r))
	}
	require.NoError(t, w.Close())

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for i := range in {
		require.InDelta(t, in[i].T, got[i].T, 0.005, "t at row %d", i)
		require.Equal(t, in[i].Distance, got[i].Distance, "distance at row %d", i)
	}
}

func TestAppendSkipsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")

	w, err := Open(path, false)
	require.NoError(t, err)
	require.NoError(t, w.WriteReading(ranging.Reading{T: 0, Distance: 100}))
	require.NoError(t, w.Close())

	w, err = Open(path, true)
	require.NoError(t, err)
	require.NoError(t, w.WriteReading(ranging.Reading{T: 1.5, Distance: 90}))
	require.NoError(t, w.Close())

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1.5, got[1].T)
}

func TestReadBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("# comment\ntime,dist\n0,1\n"), 0o644))

	_, err := Read(path)
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestReadBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nt,distance\n0.00,100\noops,90\n"), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 2")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

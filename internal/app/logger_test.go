package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/range_logger/internal/logfile"
)

// scriptedSource cycles through a fixed sequence of distances, optionally
// failing after a set number of reads.
type scriptedSource struct {
	mu        sync.Mutex
	distances []float64
	reads     int
	failAfter int // 0 means never fail
}

func (s *scriptedSource) ReadDistance() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && s.reads >= s.failAfter {
		return 0, fmt.Errorf("sensor unreachable")
	}
	d := s.distances[s.reads%len(s.distances)]
	s.reads++
	return d, nil
}

func (s *scriptedSource) Close() error { return nil }

// chdirTemp changes into dir and restores the previous working directory when
// the test ends. Equivalent to t.Chdir, which needs Go 1.24+.
func chdirTemp(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestRunLoopWritesWellFormedLog(t *testing.T) {
	chdirTemp(t, t.TempDir())

	w, err := logfile.Open("run.csv", false)
	require.NoError(t, err)

	src := &scriptedSource{distances: []float64{100, 98, 95, 91}}
	stop := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(src, w, nil, time.Millisecond, 0, stop)
	}()

	time.Sleep(50 * time.Millisecond)
	stop <- os.Interrupt

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runLoop did not stop on interrupt")
	}
	require.NoError(t, w.Close())

	got, err := logfile.Read("run.csv")
	require.NoError(t, err)
	require.NotEmpty(t, got)

	// Timestamps start at zero and never go backwards.
	require.InDelta(t, 0.0, got[0].T, 0.005)
	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i].T, got[i-1].T)
	}
}

func TestRunLoopSensorFailureIsFatal(t *testing.T) {
	chdirTemp(t, t.TempDir())

	w, err := logfile.Open("run.csv", false)
	require.NoError(t, err)
	defer w.Close()

	src := &scriptedSource{distances: []float64{100}, failAfter: 2}
	stop := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(src, w, nil, time.Millisecond, 0, stop)
	}()

	select {
	case err := <-errCh:
		require.Error(t, err)
		require.Contains(t, err.Error(), "sensor read")
	case <-time.After(time.Second):
		t.Fatal("runLoop did not fail on sensor error")
	}

	// The rows flushed before the failure are still on disk and parseable.
	got, err := logfile.Read("run.csv")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestChooseLogFileNewFile(t *testing.T) {
	chdirTemp(t, t.TempDir())

	in := bufio.NewReader(strings.NewReader("my run\n"))
	path, appendTo, err := chooseLogFile(in)
	require.NoError(t, err)
	require.Equal(t, "my_run.csv", path)
	require.False(t, appendTo)
}

func TestChooseLogFileInvalidNameReprompts(t *testing.T) {
	chdirTemp(t, t.TempDir())

	in := bufio.NewReader(strings.NewReader(".csv\nrun\n"))
	path, appendTo, err := chooseLogFile(in)
	require.NoError(t, err)
	require.Equal(t, "run.csv", path)
	require.False(t, appendTo)
}

func TestChooseLogFileAppendOrOverwrite(t *testing.T) {
	chdirTemp(t, t.TempDir())
	require.NoError(t, os.WriteFile("data.csv", []byte("# x\nt,distance\n"), 0o644))

	// Append, case-insensitive.
	in := bufio.NewReader(strings.NewReader("data\nA\n"))
	path, appendTo, err := chooseLogFile(in)
	require.NoError(t, err)
	require.Equal(t, "data.csv", path)
	require.True(t, appendTo)

	// Invalid answer re-prompts, then overwrite.
	in = bufio.NewReader(strings.NewReader("data\nmaybe\noverwrite\n"))
	_, appendTo, err = chooseLogFile(in)
	require.NoError(t, err)
	require.False(t, appendTo)
}

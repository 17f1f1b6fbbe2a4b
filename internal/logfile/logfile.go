// Package logfile reads and writes the raw distance log CSV format:
// a leading comment line, a "t,distance" header row, then one row per
// reading with t in seconds at two-decimal precision.
package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/relabs-tech/range_logger/internal/ranging"
)

const headerComment = "# collected with range_logger v1.2"

var (
	// ErrBadHeader is returned when a log file's header row is not "t,distance".
	ErrBadHeader = errors.New("log header mismatch, want t,distance")

	// ErrBadName is returned when a filename sanitizes down to nothing usable.
	ErrBadName = errors.New("filename must include a valid base name")
)

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// CleanName sanitizes a user-supplied log filename: characters outside
// [A-Za-z0-9_.-] become underscores and a .csv extension is ensured.
// Sanitization is idempotent.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = invalidNameChars.ReplaceAllString(name, "_")

	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" || base == "." {
		return "", ErrBadName
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		name += ".csv"
	}
	return name, nil
}

// Writer appends readings to an open log file, flushing after every row so a
// crash loses at most the in-flight write.
type Writer struct {
	f *os.File
	w *csv.Writer
}

// Open opens the log file for writing. When appendTo is false the file is
// truncated and the comment line and header row are written; when true new
// rows are appended after the existing content.
func Open(path string, appendTo bool) (*Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	w := &Writer{f: f, w: csv.NewWriter(f)}

	if !appendTo {
		if _, err := fmt.Fprintln(f, headerComment); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write log header: %w", err)
		}
		if err := w.w.Write([]string{"t", "distance"}); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write log header: %w", err)
		}
		w.w.Flush()
		if err := w.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write log header: %w", err)
		}
	}

	return w, nil
}

// WriteReading appends one t,distance row and flushes it to the OS.
func (w *Writer) WriteReading(r ranging.Reading) error {
	row := []string{
		strconv.FormatFloat(r.T, 'f', 2, 64),
		strconv.FormatFloat(r.Distance, 'f', -1, 64),
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("failed to write log row: %w", err)
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("failed to flush log row: %w", err)
	}
	return nil
}

// Close flushes any buffered output and closes the file.
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Read parses an entire log file into readings. Leading # comment lines are
// skipped; the header row must match and every row must parse as two numbers.
func Read(path string) ([]ranging.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read log header: %w", err)
	}
	if strings.TrimSpace(header[0]) != "t" || strings.TrimSpace(header[1]) != "distance" {
		return nil, fmt.Errorf("%w, got %q", ErrBadHeader, strings.Join(header, ","))
	}

	var readings []ranging.Reading
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read log row %d: %w", row+1, err)
		}
		row++

		t, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("log row %d: bad t %q: %w", row, record[0], err)
		}
		dist, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("log row %d: bad distance %q: %w", row, record[1], err)
		}
		readings = append(readings, ranging.Reading{T: t, Distance: dist})
	}

	return readings, nil
}

package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrWriterClosed is returned when writing to a committed or aborted writer.
var ErrWriterClosed = errors.New("csv writer is closed")

// Row is anything that can be written as one CSV record.
type Row interface {
	CSVRecord() []string
}

// FileWriter writes a CSV file atomically.
// Rows are buffered in a temporary file next to the destination; Commit
// renames it into place and Abort removes it.
type FileWriter struct {
	path   string
	tmp    *os.File
	csv    *csv.Writer
	count  int
	closed bool
}

// Create starts a new CSV file at path and writes the header row.
func Create(path string, header []string) (*FileWriter, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}

	w := &FileWriter{
		path: path,
		tmp:  tmp,
		csv:  csv.NewWriter(tmp),
	}
	if err := w.csv.Write(header); err != nil {
		w.Abort()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// Write appends one record.
func (w *FileWriter) Write(record []string) error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.count+1, err)
	}
	w.count++
	return nil
}

// WriteRow appends one Row.
func (w *FileWriter) WriteRow(r Row) error {
	return w.Write(r.CSVRecord())
}

// Count returns the number of data rows written so far.
func (w *FileWriter) Count() int {
	return w.count
}

// Path returns the destination path.
func (w *FileWriter) Path() string {
	return w.path
}

// Commit flushes the rows and moves the file into place.
// On failure the temporary file is removed and the destination is untouched.
func (w *FileWriter) Commit() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.Abort()
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}
	if err := w.tmp.Close(); err != nil {
		w.closed = true
		_ = os.Remove(w.tmp.Name())
		return fmt.Errorf("failed to close %s: %w", w.path, err)
	}
	w.closed = true
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		_ = os.Remove(w.tmp.Name())
		return fmt.Errorf("failed to move %s into place: %w", w.path, err)
	}
	return nil
}

// Abort discards the rows written so far. It is safe to call after Commit.
func (w *FileWriter) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}

// WriteFile writes header and rows to path atomically and returns the
// number of rows written.
func WriteFile[R Row](path string, header []string, rows []R) (int, error) {
	w, err := Create(path, header)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if err := w.WriteRow(r); err != nil {
			w.Abort()
			return 0, err
		}
	}
	if err := w.Commit(); err != nil {
		return 0, err
	}
	return w.Count(), nil
}

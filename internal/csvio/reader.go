package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/nao1215/inventoryaudit/internal/model"
)

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("csv input has no header row")

const utf8BOM = "\ufeff"

// Read returns a sequence over the rows of r keyed by the normalized header.
//
// Short rows leave trailing columns absent from the Fields map; extra cells
// beyond the header are ignored. Iteration stops after the first error,
// which is yielded together with a nil Fields.
func Read(r io.Reader, normalize HeaderFunc) iter.Seq2[model.Fields, error] {
	if normalize == nil {
		normalize = RawHeader
	}
	return func(yield func(model.Fields, error) bool) {
		cr := newReader(r)

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			yield(nil, ErrEmptyInput)
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("failed to read header: %w", err))
			return
		}
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], utf8BOM)
		}
		names := make([]string, len(header))
		for i, h := range header {
			names[i] = normalize(h)
		}

		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("failed to read row: %w", err))
				return
			}
			if isEmptyRecord(record) {
				continue
			}
			fields := make(model.Fields, len(names))
			for i, name := range names {
				if i >= len(record) {
					break
				}
				fields[name] = record[i]
			}
			if !yield(fields, nil) {
				return
			}
		}
	}
}

// ReadBytes is Read over an in-memory document.
func ReadBytes(data []byte, normalize HeaderFunc) iter.Seq2[model.Fields, error] {
	return Read(bytes.NewReader(data), normalize)
}

// ReadFile returns a sequence over the rows of the file at path.
// The file is opened when iteration starts and closed when it ends.
func ReadFile(path string, normalize HeaderFunc) iter.Seq2[model.Fields, error] {
	return func(yield func(model.Fields, error) bool) {
		f, err := os.Open(path) //nolint:gosec // path comes from configuration
		if err != nil {
			yield(nil, fmt.Errorf("failed to open %s: %w", path, err))
			return
		}
		defer f.Close()

		for fields, err := range Read(f, normalize) {
			if err != nil {
				err = fmt.Errorf("%s: %w", path, err)
			}
			if !yield(fields, err) {
				return
			}
		}
	}
}

// Collect drains a sequence, returning the rows read before the first error.
func Collect(seq iter.Seq2[model.Fields, error]) ([]model.Fields, error) {
	var rows []model.Fields
	for fields, err := range seq {
		if err != nil {
			return rows, err
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// isEmptyRecord reports whether the row is a blank line.
func isEmptyRecord(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

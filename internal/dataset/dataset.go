// Package dataset provides the in-memory tabular representation of a
// CSV file, pre-flight file validation, and column label normalization.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/yogeshc/csv2rds/internal/errs"
)

// Dataset is an ordered set of named columns over row-major records.
// Every row has exactly len(Columns) fields; the CSV reader enforces
// this during parsing.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// ReadFile parses the whole CSV file at path. The first record is the
// header. Parse failures are validation errors; they never touch the
// database connection.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Validation("File not found: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errs.Validation("Invalid CSV format: %v", err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errs.Validation("Invalid CSV format: %v", err)
	}

	return &Dataset{Columns: header, Rows: rows}, nil
}

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.Columns) }

// Column returns the values of the column at index i across all rows.
func (d *Dataset) Column(i int) []string {
	if i < 0 || i >= len(d.Columns) {
		return nil
	}
	values := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		values[r] = row[i]
	}
	return values
}

// Slice returns the contiguous batch of rows [start, end). It is a
// view over the dataset, not a copy.
func (d *Dataset) Slice(start, end int) [][]string {
	if start < 0 {
		start = 0
	}
	if end > len(d.Rows) {
		end = len(d.Rows)
	}
	if start >= end {
		return nil
	}
	return d.Rows[start:end]
}

// NumBatches returns ceil(NumRows / chunkSize).
func (d *Dataset) NumBatches(chunkSize int) int {
	if chunkSize < 1 {
		return 0
	}
	return (len(d.Rows) + chunkSize - 1) / chunkSize
}

// String summarizes the dataset shape for logging.
func (d *Dataset) String() string {
	return fmt.Sprintf("%d rows x %d columns", d.NumRows(), d.NumColumns())
}

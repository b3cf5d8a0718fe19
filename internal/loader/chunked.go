// Package loader contains the chunked bulk-loading pipeline: the
// batch-by-batch insert engine and the facade that composes
// configuration, connection, validation, and parsing around it.
package loader

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yogeshc/csv2rds/internal/dataset"
	"github.com/yogeshc/csv2rds/internal/driver"
	"github.com/yogeshc/csv2rds/internal/errs"
	"github.com/yogeshc/csv2rds/internal/logging"
	"github.com/yogeshc/csv2rds/internal/progress"
	"github.com/yogeshc/csv2rds/internal/typemap"
)

// TablePolicy controls schema handling for the destination table.
type TablePolicy string

const (
	// PolicyAppend assumes the table exists and matches the dataset.
	PolicyAppend TablePolicy = "append"

	// PolicyReplace recreates the table from the dataset's zero-row
	// projection before inserting. Existing data is not preserved.
	PolicyReplace TablePolicy = "replace"
)

// ChunkedLoader inserts a dataset into a table in bounded batches.
type ChunkedLoader struct {
	Conn     driver.Conn
	Log      *logging.Logger
	Progress *progress.Tracker

	// Workers > 1 dispatches batches concurrently. Each batch still
	// commits as a unit and totals count only committed batches; batch
	// order relative to each other is not preserved.
	Workers int
}

// LoadInBatches partitions ds into contiguous batches of at most
// chunkSize rows, in source order, and inserts each batch as one
// committed statement. It returns the rows committed. On error the
// count covers only batches committed before the failure; the caller
// must treat the operation as failed, not partially successful.
func (cl *ChunkedLoader) LoadInBatches(ctx context.Context, ds *dataset.Dataset, table string, chunkSize int, policy TablePolicy) (int64, error) {
	if cl.Conn == nil {
		return 0, errs.Databasef("database connection not initialized")
	}
	if chunkSize < 1 {
		return 0, errs.Configuration("chunk size must be >= 1, got %d", chunkSize)
	}
	if ds.NumRows() == 0 {
		return 0, errs.Validation("CSV file contains no data")
	}

	log := cl.Log
	if log == nil {
		log = logging.Default()
	}

	kinds := inferKinds(ds)

	if err := cl.prepareTable(ctx, ds, table, kinds, policy, log); err != nil {
		return 0, err
	}

	if cl.Workers > 1 {
		return cl.loadConcurrent(ctx, ds, table, chunkSize, kinds, log)
	}
	return cl.loadSequential(ctx, ds, table, chunkSize, kinds, log)
}

// inferKinds infers each column's type from its full value set. The
// kinds drive both table creation and value binding.
func inferKinds(ds *dataset.Dataset) []typemap.Kind {
	kinds := make([]typemap.Kind, ds.NumColumns())
	for i := range kinds {
		kinds[i] = typemap.InferColumn(ds.Column(i))
	}
	return kinds
}

// prepareTable applies the table policy. The destination table is in
// place and visible before any batch insertion begins.
func (cl *ChunkedLoader) prepareTable(ctx context.Context, ds *dataset.Dataset, table string, kinds []typemap.Kind, policy TablePolicy, log *logging.Logger) error {
	switch policy {
	case PolicyReplace:
		cols := make([]driver.Column, ds.NumColumns())
		for i, name := range ds.Columns {
			cols[i] = driver.Column{Name: name, Kind: kinds[i]}
			log.Debug("Column %s -> %s", name, kinds[i])
		}
		return cl.Conn.CreateTable(ctx, table, cols)

	case PolicyAppend:
		exists, err := cl.Conn.TableExists(ctx, table)
		if err != nil {
			return errs.Database("checking table "+table, err)
		}
		if !exists {
			return errs.Databasef("table %s does not exist; create it or load with replace", table)
		}
		return nil

	default:
		return errs.Configuration("unknown table policy %q", policy)
	}
}

// convertBatch binds a batch's string values to typed values.
func convertBatch(rows [][]string, kinds []typemap.Kind) [][]any {
	out := make([][]any, len(rows))
	for r, row := range rows {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = typemap.Convert(v, kinds[i])
		}
		out[r] = vals
	}
	return out
}

func (cl *ChunkedLoader) loadSequential(ctx context.Context, ds *dataset.Dataset, table string, chunkSize int, kinds []typemap.Kind, log *logging.Logger) (int64, error) {
	var total int64
	n := ds.NumRows()

	for start := 0; start < n; start += chunkSize {
		batch := ds.Slice(start, start+chunkSize)
		if err := cl.Conn.InsertBatch(ctx, table, ds.Columns, convertBatch(batch, kinds)); err != nil {
			return total, err
		}
		total += int64(len(batch))
		cl.Progress.Add(int64(len(batch)))
		log.Info("Loaded chunk of %d rows (%d/%d)", len(batch), total, n)
	}
	return total, nil
}

// batchJob is one batch handed to a worker.
type batchJob struct {
	start int
	rows  [][]string
}

// loadConcurrent dispatches batches to a bounded worker pool. Workers
// draw their own connections from the shared pool underneath the Conn;
// the first failure cancels remaining dispatch, and in-flight batches
// finish or fail naturally.
func (cl *ChunkedLoader) loadConcurrent(ctx context.Context, ds *dataset.Dataset, table string, chunkSize int, kinds []typemap.Kind, log *logging.Logger) (int64, error) {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan batchJob, cl.Workers)
	var (
		total    atomic.Int64
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < cl.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := cl.Conn.InsertBatch(workerCtx, table, ds.Columns, convertBatch(job.rows, kinds)); err != nil {
					fail(err)
					return
				}
				done := total.Add(int64(len(job.rows)))
				cl.Progress.Add(int64(len(job.rows)))
				log.Info("Loaded chunk of %d rows (%d/%d)", len(job.rows), done, ds.NumRows())
			}
		}()
	}

	n := ds.NumRows()
dispatch:
	for start := 0; start < n; start += chunkSize {
		select {
		case <-workerCtx.Done():
			break dispatch
		case jobs <- batchJob{start: start, rows: ds.Slice(start, start+chunkSize)}:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return total.Load(), firstErr
	}
	if err := ctx.Err(); err != nil {
		return total.Load(), errs.Database("loading "+table, err)
	}
	return total.Load(), nil
}

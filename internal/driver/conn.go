package driver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/errs"
	"github.com/yogeshc/csv2rds/internal/logging"
)

// Conn is a live, verified handle to the destination database. It is
// the unit the chunked loader works against; tests substitute fakes.
type Conn interface {
	// Ping verifies liveness with a round trip.
	Ping(ctx context.Context) error

	// TableExists reports whether the named table exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// CreateTable drops any existing table of that name and creates it
	// from the given columns. Existing data is not preserved.
	CreateTable(ctx context.Context, table string, cols []Column) error

	// InsertBatch inserts the rows as one committed unit. Either every
	// row in the batch is committed or none is.
	InsertBatch(ctx context.Context, table string, cols []string, rows [][]any) error

	// Stats returns pool statistics for observability.
	Stats() sql.DBStats

	// Close releases the underlying pool. Idempotent.
	Close() error
}

// Connect opens a verified connection to the configured engine. The
// pool is tuned from the descriptor: capped size, recycle age, and an
// initial liveness round trip on a dedicated connection that is closed
// again before the handle is returned. On verification failure the
// pool is released; a half-open handle is never returned.
func Connect(ctx context.Context, engine string, cfg *dbconfig.ConnConfig, log *logging.Logger) (Conn, error) {
	d, err := Get(engine)
	if err != nil {
		return nil, errs.Configuration("%v", err)
	}
	dialect := d.Dialect()

	db, err := sql.Open(dialect.DriverName(), dialect.BuildDSN(cfg))
	if err != nil {
		return nil, errs.Database(fmt.Sprintf("opening connection to %s", cfg.Addr()), err)
	}

	pool := cfg.Pool
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
		db.SetMaxIdleConns((pool.MaxOpenConns + 1) / 2)
	}
	if pool.RecycleAge > 0 {
		db.SetConnMaxLifetime(pool.RecycleAge)
	}

	if pool.PrePing {
		// Verify on a dedicated connection so the probe cannot be
		// satisfied by a connection the pool later hands to a load.
		probe, err := db.Conn(ctx)
		if err != nil {
			db.Close()
			return nil, errs.Database(fmt.Sprintf("connecting to %s/%s", cfg.Addr(), cfg.Database), err)
		}
		err = probe.PingContext(ctx)
		probe.Close()
		if err != nil {
			db.Close()
			return nil, errs.Database(fmt.Sprintf("verifying connection to %s/%s", cfg.Addr(), cfg.Database), err)
		}
	}

	if log == nil {
		log = logging.Default()
	}
	log.Debug("Connected to %s target %s/%s (pool max=%d recycle=%s)",
		d.Name(), cfg.Addr(), cfg.Database, pool.MaxOpenConns, pool.RecycleAge)

	return &sqlConn{db: db, dialect: dialect, log: log}, nil
}

// sqlConn is the generic database/sql implementation of Conn shared by
// all engines; dialect differences are confined to the Dialect.
type sqlConn struct {
	db      *sql.DB
	dialect Dialect
	log     *logging.Logger

	closeOnce sync.Once
}

func (c *sqlConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqlConn) TableExists(ctx context.Context, table string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, c.dialect.TableExistsQuery(), table).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *sqlConn) CreateTable(ctx context.Context, table string, cols []Column) error {
	qTable := c.dialect.QuoteIdentifier(table)

	if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+qTable); err != nil {
		return errs.Database(fmt.Sprintf("dropping table %s", table), err)
	}

	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = c.dialect.QuoteIdentifier(col.Name) + " " + c.dialect.TypeName(col.Kind)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", qTable, strings.Join(defs, ", "))
	c.log.Debug("Creating table: %s", ddl)

	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return errs.Database(fmt.Sprintf("creating table %s", table), err)
	}
	return nil
}

func (c *sqlConn) InsertBatch(ctx context.Context, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	// Engines cap bind parameters per statement; a batch that would
	// exceed the cap is split across statements inside one transaction
	// so the batch stays all-or-nothing.
	maxRows := len(rows)
	if ceiling := c.dialect.MaxParams() / len(cols); ceiling < maxRows {
		maxRows = ceiling
	}
	if maxRows < 1 {
		return errs.Databasef("too many columns (%d) for a single insert on %s", len(cols), c.dialect.DriverName())
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Database(fmt.Sprintf("beginning transaction for %s", table), err)
	}

	for start := 0; start < len(rows); start += maxRows {
		end := start + maxRows
		if end > len(rows) {
			end = len(rows)
		}
		if err := c.execInsert(ctx, tx, table, cols, rows[start:end], start); err != nil {
			tx.Rollback()
			return errs.Database(fmt.Sprintf("inserting batch into %s", table), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.Database(fmt.Sprintf("committing batch into %s", table), err)
	}
	return nil
}

// execInsert executes one multi-row INSERT naming every column, with
// each row's values bound positionally.
func (c *sqlConn) execInsert(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any, offset int) error {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = c.dialect.QuoteIdentifier(col)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ",
		c.dialect.QuoteIdentifier(table), strings.Join(quoted, ", "))

	args := make([]any, 0, len(rows)*len(cols))
	n := 1
	for r, row := range rows {
		if len(row) != len(cols) {
			return fmt.Errorf("row %d has %d values for %d columns", offset+r, len(row), len(cols))
		}
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for i, v := range row {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.dialect.Placeholder(n))
			n++
			args = append(args, v)
		}
		b.WriteString(")")
	}

	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

func (c *sqlConn) Stats() sql.DBStats {
	return c.db.Stats()
}

func (c *sqlConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.db.Close()
	})
	return err
}

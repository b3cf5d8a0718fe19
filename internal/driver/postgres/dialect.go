// Package postgres provides the PostgreSQL dialect, using the pgx
// stdlib adapter. It registers itself with the driver registry on
// import.
package postgres

import (
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/driver"
	"github.com/yogeshc/csv2rds/internal/typemap"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for PostgreSQL.
type Driver struct{}

func (d *Driver) Name() string { return "postgres" }

func (d *Driver) Aliases() []string { return []string{"postgresql", "pg"} }

func (d *Driver) DefaultPort() int { return 5432 }

func (d *Driver) Dialect() driver.Dialect { return &Dialect{} }

// Dialect implements driver.Dialect for PostgreSQL.
type Dialect struct{}

func (d *Dialect) DriverName() string { return "pgx" }

// BuildDSN renders a postgres:// URL. PostgreSQL client encoding is
// UTF-8 by default, which is already 4-byte-safe.
func (d *Dialect) BuildDSN(cfg *dbconfig.ConnConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", "prefer")
	u.RawQuery = q.Encode()
	return u.String()
}

func (d *Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *Dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (d *Dialect) TypeName(k typemap.Kind) string {
	switch k {
	case typemap.KindInteger:
		return "BIGINT"
	case typemap.KindFloat:
		return "DOUBLE PRECISION"
	case typemap.KindBool:
		return "BOOLEAN"
	case typemap.KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (d *Dialect) TableExistsQuery() string {
	return `SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
}

// MaxParams is the extended protocol bind parameter ceiling.
func (d *Dialect) MaxParams() int { return 65535 }

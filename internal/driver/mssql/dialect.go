// Package mssql provides the SQL Server dialect. It registers itself
// with the driver registry on import.
package mssql

import (
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/driver"
	"github.com/yogeshc/csv2rds/internal/typemap"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for SQL Server.
type Driver struct{}

func (d *Driver) Name() string { return "mssql" }

func (d *Driver) Aliases() []string { return []string{"sqlserver"} }

func (d *Driver) DefaultPort() int { return 1433 }

func (d *Driver) Dialect() driver.Dialect { return &Dialect{} }

// Dialect implements driver.Dialect for SQL Server.
type Dialect struct{}

func (d *Dialect) DriverName() string { return "sqlserver" }

func (d *Dialect) BuildDSN(cfg *dbconfig.ConnConfig) string {
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	q := u.Query()
	q.Set("database", cfg.Database)
	u.RawQuery = q.Encode()
	return u.String()
}

func (d *Dialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *Dialect) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

// TypeName uses NVARCHAR for text so 4-byte UTF-8 survives on
// collations without UTF-8 storage.
func (d *Dialect) TypeName(k typemap.Kind) string {
	switch k {
	case typemap.KindInteger:
		return "BIGINT"
	case typemap.KindFloat:
		return "FLOAT"
	case typemap.KindBool:
		return "BIT"
	case typemap.KindTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

func (d *Dialect) TableExistsQuery() string {
	return `SELECT 1 WHERE OBJECT_ID(@p1) IS NOT NULL`
}

// MaxParams reflects the TDS RPC limit of 2100 parameters; batches
// larger than that are split by the generic target.
func (d *Dialect) MaxParams() int { return 2100 }

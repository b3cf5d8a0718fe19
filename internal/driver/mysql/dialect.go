// Package mysql provides the MySQL/MariaDB dialect. It registers
// itself with the driver registry on import.
package mysql

import (
	"fmt"
	"net/url"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/driver"
	"github.com/yogeshc/csv2rds/internal/typemap"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for MySQL/MariaDB.
type Driver struct{}

func (d *Driver) Name() string { return "mysql" }

func (d *Driver) Aliases() []string { return []string{"mariadb", "maria"} }

func (d *Driver) DefaultPort() int { return 3306 }

func (d *Driver) Dialect() driver.Dialect { return &Dialect{} }

// Dialect implements driver.Dialect for MySQL/MariaDB.
type Dialect struct{}

func (d *Dialect) DriverName() string { return "mysql" }

// BuildDSN renders a go-sql-driver DSN. The charset is pinned to
// utf8mb4 so 4-byte UTF-8 survives the round trip.
func (d *Dialect) BuildDSN(cfg *dbconfig.ConnConfig) string {
	params := url.Values{}
	params.Set("charset", "utf8mb4")
	params.Set("parseTime", "true")
	params.Set("loc", "UTC")
	params.Set("tls", "preferred")

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Database, params.Encode())
}

func (d *Dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *Dialect) Placeholder(_ int) string { return "?" }

func (d *Dialect) TypeName(k typemap.Kind) string {
	switch k {
	case typemap.KindInteger:
		return "BIGINT"
	case typemap.KindFloat:
		return "DOUBLE"
	case typemap.KindBool:
		return "BOOLEAN"
	case typemap.KindTimestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

func (d *Dialect) TableExistsQuery() string {
	return `SELECT 1 FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`
}

// MaxParams is the prepared statement placeholder ceiling.
func (d *Dialect) MaxParams() int { return 65535 }

// Package driver provides pluggable database target abstractions.
// Each engine (MySQL, PostgreSQL, SQL Server) supplies a Dialect in its
// own subpackage and registers itself on import; the generic
// database/sql target in this package does the rest.
//
// To add a new engine:
//  1. Create a package under internal/driver/<engine>/
//  2. Implement the Dialect interface
//  3. Register via init(): driver.Register(&Driver{})
package driver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/typemap"
)

// Dialect captures everything engine-specific about building and
// executing the loader's SQL.
type Dialect interface {
	// DriverName is the name registered with database/sql.
	DriverName() string

	// BuildDSN renders a connection string from the descriptor. The
	// encoding must be 4-byte-safe UTF-8 on engines where that is a
	// connection-level setting.
	BuildDSN(cfg *dbconfig.ConnConfig) string

	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string

	// Placeholder returns the bind placeholder for the 1-based ordinal n.
	Placeholder(n int) string

	// TypeName maps an inferred column kind to the engine's SQL type.
	TypeName(k typemap.Kind) string

	// TableExistsQuery returns a single-placeholder query yielding a
	// row when the named table exists in the connected database.
	TableExistsQuery() string

	// MaxParams is the engine's bind parameter ceiling per statement.
	MaxParams() int
}

// Driver is a pluggable database engine.
type Driver interface {
	// Name returns the primary engine name (e.g. "mysql").
	Name() string

	// Aliases returns alternative names accepted for this engine.
	Aliases() []string

	// DefaultPort is the engine's conventional port, used in help text.
	DefaultPort() int

	// Dialect returns the SQL dialect for this engine.
	Dialect() Dialect
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// Register adds a driver to the registry under its name and aliases.
// Called from engine package init functions.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(d.Name())] = d
	for _, alias := range d.Aliases() {
		registry[strings.ToLower(alias)] = d
	}
}

// Get returns the driver registered under name or an alias.
func Get(name string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown database engine %q (available: %s)",
			name, strings.Join(namesLocked(), ", "))
	}
	return d, nil
}

// Names returns the primary names of all registered drivers, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range registry {
		if !seen[d.Name()] {
			seen[d.Name()] = true
			names = append(names, d.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Column describes one destination column for table creation.
type Column struct {
	Name string
	Kind typemap.Kind
}

package mysql

import (
	"strings"
	"testing"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/typemap"
)

func TestBuildDSN(t *testing.T) {
	d := &Dialect{}
	cfg := &dbconfig.ConnConfig{
		Host: "test-host", Port: 3306, Database: "test-db",
		User: "test-user", Password: "test-pass",
	}

	dsn := d.BuildDSN(cfg)
	if !strings.HasPrefix(dsn, "test-user:test-pass@tcp(test-host:3306)/test-db?") {
		t.Errorf("DSN = %q, want test-host:3306/test-db with exact credentials", dsn)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Errorf("DSN %q missing utf8mb4 charset", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN %q missing parseTime", dsn)
	}
}

func TestBuildDSNEscapesCredentials(t *testing.T) {
	d := &Dialect{}
	cfg := &dbconfig.ConnConfig{
		Host: "h", Port: 3306, Database: "db",
		User: "user@domain", Password: "p@ss/word",
	}
	dsn := d.BuildDSN(cfg)
	if !strings.Contains(dsn, "user%40domain") {
		t.Errorf("DSN %q should escape @ in user", dsn)
	}
	if !strings.Contains(dsn, "p%40ss%2Fword") {
		t.Errorf("DSN %q should escape password specials", dsn)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	d := &Dialect{}
	tests := []struct{ in, want string }{
		{"orders", "`orders`"},
		{"weird`name", "`weird``name`"},
	}
	for _, tt := range tests {
		if got := d.QuoteIdentifier(tt.in); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	d := &Dialect{}
	if got := d.Placeholder(1); got != "?" {
		t.Errorf("Placeholder(1) = %q, want ?", got)
	}
	if got := d.Placeholder(500); got != "?" {
		t.Errorf("Placeholder(500) = %q, want ?", got)
	}
}

func TestTypeName(t *testing.T) {
	d := &Dialect{}
	tests := []struct {
		kind typemap.Kind
		want string
	}{
		{typemap.KindInteger, "BIGINT"},
		{typemap.KindFloat, "DOUBLE"},
		{typemap.KindBool, "BOOLEAN"},
		{typemap.KindTimestamp, "DATETIME"},
		{typemap.KindText, "TEXT"},
	}
	for _, tt := range tests {
		if got := d.TypeName(tt.kind); got != tt.want {
			t.Errorf("TypeName(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

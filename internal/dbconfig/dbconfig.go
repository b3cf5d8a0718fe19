// Package dbconfig provides connection configuration types shared by the
// config and driver packages. It is a leaf package so that config can
// produce descriptors and drivers can consume them without importing
// each other.
package dbconfig

import (
	"fmt"
	"time"
)

// ConnConfig is an immutable connection descriptor for the target
// database. It is constructed once by the config loader and consumed,
// never mutated, by the connection layer.
type ConnConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	Pool PoolConfig
}

// PoolConfig holds connection pool tuning. These mirror the knobs the
// original deployment relied on: liveness probing before reuse and a
// maximum connection age after which a connection is recycled.
type PoolConfig struct {
	// PrePing verifies liveness with a round trip before a load uses
	// the pool.
	PrePing bool

	// RecycleAge is the maximum age of a pooled connection. Zero means
	// the driver default.
	RecycleAge time.Duration

	// MaxOpenConns caps the pool size. Concurrent batch workers each
	// draw their own connection from this pool.
	MaxOpenConns int
}

// DefaultPool returns the pool tuning used when the config source does
// not override it.
func DefaultPool() PoolConfig {
	return PoolConfig{
		PrePing:      true,
		RecycleAge:   time.Hour,
		MaxOpenConns: 4,
	}
}

// Validate checks descriptor completeness: all fields non-empty and the
// port a valid TCP port.
func (c *ConnConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Database == "" {
		return fmt.Errorf("database must not be empty")
	}
	if c.User == "" {
		return fmt.Errorf("username must not be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password must not be empty")
	}
	return nil
}

// Addr returns host:port for logging. The password is never part of it.
func (c *ConnConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

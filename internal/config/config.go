// Package config loads connection settings from an INI file and tool
// defaults from an optional YAML file.
//
// The connection file carries a single [RDS] section with the five
// credential fields plus optional pool tuning keys. Tool-level defaults
// (engine, chunk size, workers, logging, history location) live in a
// separate YAML file so one credentials file can serve many loads.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/errs"
)

// sectionName is the required section in the connection file.
const sectionName = "RDS"

// requiredFields are the keys that must be present in [RDS].
var requiredFields = []string{"host", "port", "database", "username", "password"}

// Load reads and validates the [RDS] section of the INI file at path,
// returning an immutable connection descriptor. All failures are
// configuration errors; no network is touched.
func Load(path string) (*dbconfig.ConnConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errs.Configuration("Configuration file not found: %s", path)
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, errs.Configuration("parsing %s: %v", path, err)
	}

	section, err := file.GetSection(sectionName)
	if err != nil {
		return nil, errs.Configuration("RDS section missing in configuration")
	}

	for _, field := range requiredFields {
		if !section.HasKey(field) {
			return nil, errs.Configuration("Missing required field: %s", field)
		}
	}

	port, err := section.Key("port").Int()
	if err != nil {
		return nil, errs.Configuration("Invalid configuration value: port %q is not an integer",
			section.Key("port").String())
	}

	cfg := &dbconfig.ConnConfig{
		Host:     section.Key("host").String(),
		Port:     port,
		Database: section.Key("database").String(),
		User:     section.Key("username").String(),
		Password: section.Key("password").String(),
		Pool:     poolFromSection(section),
	}

	if err := cfg.Validate(); err != nil {
		return nil, errs.Configuration("Invalid configuration value: %v", err)
	}
	return cfg, nil
}

// poolFromSection reads the optional pool tuning keys, falling back to
// the package defaults for absent keys.
func poolFromSection(section *ini.Section) dbconfig.PoolConfig {
	pool := dbconfig.DefaultPool()
	if section.HasKey("pool_pre_ping") {
		pool.PrePing = section.Key("pool_pre_ping").MustBool(pool.PrePing)
	}
	if section.HasKey("pool_recycle") {
		secs := section.Key("pool_recycle").MustInt(int(pool.RecycleAge / time.Second))
		pool.RecycleAge = time.Duration(secs) * time.Second
	}
	if section.HasKey("pool_max_open") {
		pool.MaxOpenConns = section.Key("pool_max_open").MustInt(pool.MaxOpenConns)
	}
	return pool
}

// Defaults holds tool-level settings read from the YAML defaults file.
// Zero values mean "use the built-in default".
type Defaults struct {
	Engine      string `yaml:"engine"`       // target engine: mysql, postgres, mssql
	ChunkSize   int    `yaml:"chunk_size"`   // rows per insert batch
	Workers     int    `yaml:"workers"`      // concurrent batch writers
	LogLevel    string `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string `yaml:"log_format"`   // text or json
	HistoryPath string `yaml:"history_path"` // sqlite load-history location
	Progress    *bool  `yaml:"progress"`     // show the progress bar
}

// Built-in defaults applied when the defaults file is absent or silent.
const (
	DefaultEngine    = "mysql"
	DefaultChunkSize = 1000
	DefaultWorkers   = 1
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// LoadDefaults reads the YAML defaults file at path. A missing file is
// not an error: built-in defaults are returned. A present but malformed
// file is a configuration error.
func LoadDefaults(path string) (*Defaults, error) {
	d := &Defaults{
		Engine:    DefaultEngine,
		ChunkSize: DefaultChunkSize,
		Workers:   DefaultWorkers,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, errs.Configuration("reading defaults file %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, errs.Configuration("parsing defaults file %s: %v", path, err)
	}

	if d.ChunkSize < 1 {
		return nil, errs.Configuration("chunk_size must be >= 1, got %d", d.ChunkSize)
	}
	if d.Workers < 1 {
		return nil, errs.Configuration("workers must be >= 1, got %d", d.Workers)
	}
	return d, nil
}

// ShowProgress reports whether the progress bar is enabled.
func (d *Defaults) ShowProgress() bool {
	if d.Progress == nil {
		return true
	}
	return *d.Progress
}

// String renders the non-secret settings for debug logging.
func (d *Defaults) String() string {
	return fmt.Sprintf("engine=%s chunk_size=%d workers=%d log=%s/%s",
		d.Engine, d.ChunkSize, d.Workers, d.LogLevel, d.LogFormat)
}

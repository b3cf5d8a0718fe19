package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/yogeshc/csv2rds/internal/config"
	"github.com/yogeshc/csv2rds/internal/dataset"
	"github.com/yogeshc/csv2rds/internal/dbconfig"
	"github.com/yogeshc/csv2rds/internal/driver"
	"github.com/yogeshc/csv2rds/internal/errs"
	"github.com/yogeshc/csv2rds/internal/logging"
	"github.com/yogeshc/csv2rds/internal/progress"
)

// DefaultChunkSize is used when the caller passes a chunk size < 1.
const DefaultChunkSize = 1000

// ConfigSource produces the connection descriptor. The production
// implementation reads the INI file; tests substitute fixtures.
type ConfigSource interface {
	Load() (*dbconfig.ConnConfig, error)
}

// Connector turns a descriptor into a live connection.
type Connector interface {
	Connect(ctx context.Context, cfg *dbconfig.ConnConfig) (driver.Conn, error)
}

// FileValidator runs the pre-flight file check.
type FileValidator interface {
	Validate(path string) (ok bool, message string)
}

// Recorder persists load-run history. Recording failures are logged,
// never fatal to a load.
type Recorder interface {
	StartRun(csvPath, tableName, engine string) (string, error)
	CompleteRun(id string, rowsLoaded int64) error
	FailRun(id string, rowsLoaded int64, errMsg string) error
}

// FileConfigSource is the production ConfigSource reading an INI file.
type FileConfigSource struct {
	Path string
}

func (s FileConfigSource) Load() (*dbconfig.ConnConfig, error) {
	return config.Load(s.Path)
}

// EngineConnector is the production Connector using the driver
// registry.
type EngineConnector struct {
	Engine string
	Log    *logging.Logger
}

func (c EngineConnector) Connect(ctx context.Context, cfg *dbconfig.ConnConfig) (driver.Conn, error) {
	return driver.Connect(ctx, c.Engine, cfg, c.Log)
}

// CSVValidator is the production FileValidator.
type CSVValidator struct{}

func (CSVValidator) Validate(path string) (bool, string) {
	return dataset.ValidateFile(path)
}

// Options configures a Loader. Zero-value collaborators are replaced
// with the production implementations.
type Options struct {
	ConfigPath string      // INI file with the [RDS] section
	Engine     string      // target engine name (default mysql)
	Policy     TablePolicy // default append
	Workers    int         // concurrent batch writers (default 1)

	Config    ConfigSource
	Connector Connector
	Validator FileValidator
	History   Recorder // optional
	Log       *logging.Logger

	ShowProgress bool
}

// Loader composes the pipeline behind a single load-a-file operation.
// One Loader may serve several files on one connection: Initialize
// eagerly, or let the first LoadFile connect lazily.
type Loader struct {
	opts Options

	mu   sync.Mutex
	conn driver.Conn
}

// New creates a Loader, filling in production collaborators for any
// that were not injected.
func New(opts Options) *Loader {
	if opts.Engine == "" {
		opts.Engine = config.DefaultEngine
	}
	if opts.Policy == "" {
		opts.Policy = PolicyAppend
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Log == nil {
		opts.Log = logging.Default()
	}
	if opts.Config == nil {
		opts.Config = FileConfigSource{Path: opts.ConfigPath}
	}
	if opts.Connector == nil {
		opts.Connector = EngineConnector{Engine: opts.Engine, Log: opts.Log}
	}
	if opts.Validator == nil {
		opts.Validator = CSVValidator{}
	}
	return &Loader{opts: opts}
}

// Initialize loads configuration and establishes the connection. It is
// a no-op when already connected, so callers may pre-initialize to
// reuse one connection across several loads.
func (l *Loader) Initialize(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initLocked(ctx)
}

func (l *Loader) initLocked(ctx context.Context) error {
	if l.conn != nil {
		return nil
	}

	cfg, err := l.opts.Config.Load()
	if err != nil {
		l.opts.Log.Error("Initialization failed: %v", err)
		return err
	}

	conn, err := l.opts.Connector.Connect(ctx, cfg)
	if err != nil {
		l.opts.Log.Error("Initialization failed: %v", err)
		return err
	}
	l.conn = conn
	return nil
}

// LoadFile validates, parses, normalizes, and loads the CSV file at
// path into tableName. A chunkSize < 1 selects the default. It returns
// the number of rows loaded; on error the connection (when the error
// is not a connection failure) stays usable for a subsequent file.
func (l *Loader) LoadFile(ctx context.Context, path, tableName string, chunkSize int) (int64, error) {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}

	runID := l.startRun(path, tableName)

	rows, err := l.loadFile(ctx, path, tableName, chunkSize)
	if err != nil {
		l.opts.Log.Error("Error loading file: %v", err)
		l.finishRun(runID, rows, err)
		return 0, err
	}

	l.opts.Log.Info("Successfully loaded %d rows into %s", rows, tableName)
	l.finishRun(runID, rows, nil)
	return rows, nil
}

// loadFile is the pipeline itself; it returns committed rows even on
// failure so history can report partial progress accurately.
func (l *Loader) loadFile(ctx context.Context, path, tableName string, chunkSize int) (int64, error) {
	if ok, msg := l.opts.Validator.Validate(path); !ok {
		return 0, errs.Validation("%s", msg)
	}

	ds, err := dataset.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if ds.NumRows() == 0 {
		return 0, errs.Validation("CSV file contains no data")
	}

	ds.Columns = dataset.NormalizeColumns(ds.Columns)
	if err := dataset.CheckColumnCollisions(ds.Columns); err != nil {
		return 0, err
	}

	l.mu.Lock()
	if err := l.initLocked(ctx); err != nil {
		l.mu.Unlock()
		return 0, err
	}
	conn := l.conn
	l.mu.Unlock()

	var tracker *progress.Tracker
	if l.opts.ShowProgress {
		tracker = progress.New(int64(ds.NumRows()))
		defer tracker.Finish()
	}

	cl := &ChunkedLoader{
		Conn:     conn,
		Log:      l.opts.Log,
		Progress: tracker,
		Workers:  l.opts.Workers,
	}
	rows, err := cl.LoadInBatches(ctx, ds, tableName, chunkSize, l.opts.Policy)
	if err != nil {
		return rows, fmt.Errorf("loading %s into %s: %w", path, tableName, err)
	}
	return rows, nil
}

// startRun records the beginning of a load when history is wired.
func (l *Loader) startRun(path, tableName string) string {
	if l.opts.History == nil {
		return ""
	}
	id, err := l.opts.History.StartRun(path, tableName, l.opts.Engine)
	if err != nil {
		l.opts.Log.Warn("Could not record run start: %v", err)
		return ""
	}
	return id
}

// finishRun closes out the history record.
func (l *Loader) finishRun(id string, rows int64, loadErr error) {
	if l.opts.History == nil || id == "" {
		return
	}
	var err error
	if loadErr != nil {
		err = l.opts.History.FailRun(id, rows, loadErr.Error())
	} else {
		err = l.opts.History.CompleteRun(id, rows)
	}
	if err != nil {
		l.opts.Log.Warn("Could not record run finish: %v", err)
	}
}

// Close releases the connection. Safe to call repeatedly and from any
// state; after Close the loader reconnects on the next use.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}

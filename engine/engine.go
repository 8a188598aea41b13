package engine

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/internal/store"
)

// ErrRunNotFound reports a run id with no persisted record.
var ErrRunNotFound = errors.New("run not found")

// defaultDir is where engines without an explicit database path keep
// their data. The directory ignores itself from version control.
const defaultDir = ".benchkit"

// Engine executes runs for one Bench against one database.
//
// Thread-safety: the Engine is safe for concurrent use. Writes are
// serialized by the store's single connection; the decode caches are
// guarded by a mutex.
type Engine struct {
	bench *benchkit.Bench
	store *store.Store
	log   *slog.Logger
	ids   IDGenerator
	now   func() time.Time

	dbPath string

	mu sync.Mutex
	// tasks and methods cache decoded instances by content id, so a
	// listing does not re-decode the same entity per run record. Ids are
	// domain-hashed over type and payload, so the cache cannot conflate
	// two types sharing a payload shape.
	tasks   map[string]taskEntry
	methods map[string]methodEntry
}

type taskEntry struct {
	task benchkit.Task
	typ  string
}

type methodEntry struct {
	method benchkit.Method
	typ    string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDatabase sets the SQLite database path. ":memory:" is supported.
// Without this option the engine uses .benchkit/<bench-name>.db,
// creating the directory (and a "*"-only .gitignore) on first use.
func WithDatabase(path string) Option {
	return func(e *Engine) {
		e.dbPath = path
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRunIDs sets the run id generator. Defaults to UUIDGenerator.
// Tests use FixedGenerator for deterministic records.
func WithRunIDs(gen IDGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.ids = gen
		}
	}
}

// WithNow sets the wall-clock source for record timestamps. Defaults
// to time.Now. Timestamps are display metadata; ordering always comes
// from sequence numbers.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine over the given Bench and opens its database.
func New(b *benchkit.Bench, opts ...Option) (*Engine, error) {
	if b == nil {
		return nil, &benchkit.ConfigurationError{Reason: "bench is nil"}
	}

	e := &Engine{
		bench:   b,
		log:     slog.Default(),
		ids:     UUIDGenerator{},
		now:     time.Now,
		tasks:   make(map[string]taskEntry),
		methods: make(map[string]methodEntry),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.dbPath == "" {
		path, err := defaultDatabase(b.Name())
		if err != nil {
			return nil, err
		}
		e.dbPath = path
	}

	st, err := store.Open(e.dbPath)
	if err != nil {
		return nil, err
	}
	e.store = st

	e.log.Debug("engine ready", "bench", b.Name(), "db", e.dbPath)
	return e, nil
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	return e.store.Close()
}

// DatabasePath returns the path of the open database.
func (e *Engine) DatabasePath() string {
	return e.dbPath
}

// defaultDatabase ensures the data directory exists and returns the
// database path for a bench name.
func defaultDatabase(name string) (string, error) {
	if err := os.MkdirAll(defaultDir, 0o755); err != nil {
		return "", &benchkit.StorageError{Op: "create data dir", Err: err}
	}

	gitignore := filepath.Join(defaultDir, ".gitignore")
	if _, err := os.Stat(gitignore); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(gitignore, []byte("*\n"), 0o644); err != nil {
			return "", &benchkit.StorageError{Op: "write gitignore", Err: err}
		}
	}

	return filepath.Join(defaultDir, name+".db"), nil
}

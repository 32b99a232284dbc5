package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
	"github.com/syssam/icegraph/dialect/badgerkv"
	"github.com/syssam/icegraph/dialect/boltkv"
	"github.com/syssam/icegraph/dialect/sqlitekv"
)

var errNilTarget = errors.New("nil target record")

// Engine stores records of a generated graph in a family-partitioned store.
// It is safe for concurrent use; every operation runs in its own transaction.
type Engine struct {
	drv      dialect.Driver
	stats    *dialect.StatsDriver
	path     string
	registry *icegraph.Registry
	gen      icegraph.Generator
	codec    icegraph.Codec
	log      *slog.Logger
	cascade  bool
	headSize int
}

// Open opens the store at path and makes sure every configured kind has a family.
// For badger path is a directory, for bolt and sqlite a file.
func Open(path string, opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	drv := cfg.driver
	if drv == nil {
		if drv, err = openDriver(path, cfg); err != nil {
			return nil, icegraph.NewError(icegraph.StoreIoFailed, "open", "", "", err)
		}
	}
	e := &Engine{
		path:     path,
		registry: cfg.registry,
		gen:      cfg.gen,
		codec:    cfg.codec,
		log:      cfg.logger.With("dialect", drv.Dialect()),
		cascade:  cfg.cascade,
		headSize: cfg.headSize,
	}
	if cfg.stats {
		e.stats = dialect.NewStatsDriver(drv, cfg.statsOpts...)
		drv = e.stats
	}
	if cfg.debug {
		drv = dialect.NewDebugDriver(drv, dialect.DebugWithLogger(e.log))
	}
	e.drv = drv

	ctx := context.Background()
	for _, kind := range append(cfg.registry.Kinds(), cfg.kinds...) {
		if err := e.EnsureFamily(ctx, kind); err != nil {
			drv.Close()
			return nil, err
		}
	}
	families, err := e.Families(ctx)
	if err != nil {
		drv.Close()
		return nil, err
	}
	e.log.Info("engine opened", "path", path, "families", len(families), "codec", e.codec.Name())
	return e, nil
}

var openers = map[string]dialect.Opener{
	dialect.Badger: badgerkv.OpenPath,
	dialect.Bolt:   boltkv.OpenPath,
	dialect.SQLite: sqlitekv.OpenPath,
}

// OpenDriver opens the store at path with the driver of the named dialect.
func OpenDriver(name, path string) (dialect.Driver, error) {
	open, ok := openers[name]
	if !ok {
		return nil, fmt.Errorf("engine: unsupported dialect %q", name)
	}
	return open(path)
}

func openDriver(path string, cfg *config) (dialect.Driver, error) {
	if cfg.dialect == dialect.Badger {
		opts := badgerkv.Options{Dir: path, InMemory: cfg.inMemory, Logger: cfg.logger}
		if cfg.inMemory {
			opts.Dir = ""
		}
		return badgerkv.Open(opts)
	}
	return OpenDriver(cfg.dialect, path)
}

// Close closes the underlying store.
func (e *Engine) Close() error {
	if err := e.drv.Close(); err != nil {
		return icegraph.NewError(icegraph.StoreIoFailed, "close", "", "", err)
	}
	e.log.Info("engine closed", "path", e.path)
	return nil
}

// Dialect returns the name of the store backend.
func (e *Engine) Dialect() string { return e.drv.Dialect() }

// Codec returns the codec records are stored with.
func (e *Engine) Codec() icegraph.Codec { return e.codec }

// Generator returns the token generator for new records.
func (e *Engine) Generator() icegraph.Generator { return e.gen }

// Registry returns the registry given with WithRegistry, or nil.
func (e *Engine) Registry() *icegraph.Registry { return e.registry }

// Stats returns a snapshot of the transaction statistics. It reports false unless the
// engine was opened WithStats.
func (e *Engine) Stats() (dialect.StatsSnapshot, bool) {
	if e.stats == nil {
		return dialect.StatsSnapshot{}, false
	}
	return e.stats.TxStats().Stats(), true
}

// EnsureFamily creates the family if it does not exist yet.
func (e *Engine) EnsureFamily(ctx context.Context, name string) error {
	if err := e.drv.CreateFamily(ctx, name); err != nil {
		return icegraph.NewError(icegraph.FamilyCreationFailed, "ensure_family", name, "", err)
	}
	e.log.Debug("family ensured", "family", name)
	return nil
}

// Families lists every family of the store, sorted by name.
func (e *Engine) Families(ctx context.Context) ([]string, error) {
	families, err := e.drv.Families(ctx)
	if err != nil {
		return nil, icegraph.NewError(icegraph.FamilyEnumerationFailed, "families", "", "", err)
	}
	return families, nil
}

// view runs fn in a read-only transaction.
func (e *Engine) view(ctx context.Context, op string, fn func(dialect.Tx) error) error {
	if err := dialect.View(ctx, e.drv, fn); err != nil {
		return storeError(op, "", "", err)
	}
	return nil
}

// update runs fn in a write transaction and commits it.
func (e *Engine) update(ctx context.Context, op string, fn func(dialect.Tx) error) error {
	if err := dialect.Update(ctx, e.drv, fn); err != nil {
		return storeError(op, "", "", err)
	}
	return nil
}

// storeError classifies a driver error. Errors already carrying a kind pass through.
func storeError(op, family, key string, err error) error {
	var ie *icegraph.Error
	if errors.As(err, &ie) {
		return err
	}
	kind := icegraph.StoreIoFailed
	switch {
	case errors.Is(err, dialect.ErrFamilyNotFound):
		kind = icegraph.PartitionNotFound
	case errors.Is(err, dialect.ErrKeyNotFound):
		kind = icegraph.KeyNotFound
	case errors.Is(err, dialect.ErrConflict):
		err = fmt.Errorf("%w: %w", icegraph.ErrConflict, err)
	}
	return icegraph.NewError(kind, op, family, key, err)
}

// recordKey returns the family and key a record is stored under.
func recordKey(op string, rec icegraph.Record) (string, string, error) {
	if rec == nil {
		return "", "", icegraph.NewError(icegraph.IdentifierParseFailed, op, "", "", errors.New("nil record"))
	}
	id := rec.Identifier()
	if id == nil || id.Token() == "" {
		return rec.Family(), "", icegraph.NewError(icegraph.IdentifierParseFailed, op, rec.Family(), icegraph.IDString(id), errors.New("empty identifier token"))
	}
	if id.Kind() != rec.Family() {
		return rec.Family(), "", icegraph.NewError(icegraph.IdentifierParseFailed, op, rec.Family(), id.String(),
			fmt.Errorf("identifier kind %q does not match family %q", id.Kind(), rec.Family()))
	}
	return rec.Family(), id.String(), nil
}

// parseKey checks that id is a well-formed identifier of the given family. An empty
// family accepts any kind and returns it.
func parseKey(op, id, family string) (string, error) {
	kind, token, err := icegraph.SplitID(id)
	switch {
	case err != nil:
	case token == "":
		err = errors.New("empty token")
	case family != "" && kind != family:
		err = fmt.Errorf("kind %q, want %q", kind, family)
	}
	if err != nil {
		var ie *icegraph.Error
		if errors.As(err, &ie) {
			err = ie.Err
		}
		return "", icegraph.NewError(icegraph.IdentifierParseFailed, op, family, id, err)
	}
	return kind, nil
}

func (e *Engine) encode(op string, rec icegraph.Record, key string) ([]byte, error) {
	data, err := e.codec.Marshal(rec)
	if err != nil {
		return nil, icegraph.NewError(icegraph.EncodeFailed, op, rec.Family(), key, err)
	}
	return data, nil
}

func (e *Engine) decode(op, family, key string, data []byte, into icegraph.Record) error {
	if err := e.codec.Unmarshal(data, into); err != nil {
		return icegraph.NewError(icegraph.DecodeFailed, op, family, key, err)
	}
	return nil
}

// put encodes rec and stores it under its identifier.
func (e *Engine) put(tx dialect.Tx, op string, rec icegraph.Record) ([]byte, error) {
	family, key, err := recordKey(op, rec)
	if err != nil {
		return nil, err
	}
	data, err := e.encode(op, rec, key)
	if err != nil {
		return nil, err
	}
	if err := tx.Put(family, []byte(key), data); err != nil {
		return nil, storeError(op, family, key, err)
	}
	return data, nil
}

// load reads the record stored under key and decodes it into into.
func (e *Engine) load(tx dialect.Tx, op, family, key string, into icegraph.Record) error {
	data, err := tx.Get(family, []byte(key))
	if err != nil {
		return storeError(op, family, key, err)
	}
	return e.decode(op, family, key, data, into)
}

// newRecord returns an empty record of the kind, from the registry when it knows the
// kind and otherwise of the same dynamic type as like.
func (e *Engine) newRecord(kind string, like icegraph.Record) (icegraph.Record, bool) {
	if rec, ok := e.registry.NewRecord(kind); ok {
		return rec, true
	}
	if like == nil {
		return nil, false
	}
	t := reflect.TypeOf(like)
	if t.Kind() != reflect.Pointer {
		return nil, false
	}
	rec, ok := reflect.New(t.Elem()).Interface().(icegraph.Record)
	return rec, ok
}

package dialect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TxStats holds store access statistics.
type TxStats struct {
	// Reads is the number of Get and ForEach calls.
	Reads atomic.Int64
	// Writes is the number of Put and Delete calls.
	Writes atomic.Int64
	// Commits is the number of successful commits.
	Commits atomic.Int64
	// Conflicts is the number of commits that failed with ErrConflict.
	Conflicts atomic.Int64
	// TotalDuration is the total time spent in committed or rolled back transactions.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowTxs is the count of transactions exceeding the slow threshold.
	SlowTxs atomic.Int64
	// Errors is the count of failed calls, conflicts included.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *TxStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		Reads:         s.Reads.Load(),
		Writes:        s.Writes.Load(),
		Commits:       s.Commits.Load(),
		Conflicts:     s.Conflicts.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowTxs:       s.SlowTxs.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *TxStats) Reset() {
	s.Reads.Store(0)
	s.Writes.Store(0)
	s.Commits.Store(0)
	s.Conflicts.Store(0)
	s.TotalDuration.Store(0)
	s.SlowTxs.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of store statistics.
type StatsSnapshot struct {
	Reads         int64
	Writes        int64
	Commits       int64
	Conflicts     int64
	TotalDuration time.Duration
	SlowTxs       int64
	Errors        int64
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"reads=%d writes=%d commits=%d conflicts=%d duration=%s slow=%d errors=%d",
		s.Reads, s.Writes, s.Commits, s.Conflicts, s.TotalDuration, s.SlowTxs, s.Errors,
	)
}

// SlowTxHook is called when a transaction took longer than the slow threshold.
type SlowTxHook func(ctx context.Context, writable bool, duration time.Duration)

// StatsDriver wraps a Driver with statistics collection.
type StatsDriver struct {
	Driver
	stats         *TxStats
	slowThreshold time.Duration
	slowHook      SlowTxHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow transaction detection. Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowTxHook sets a callback for slow transactions.
func WithSlowTxHook(hook SlowTxHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowTxLog logs slow transactions to the default logger.
func WithSlowTxLog() StatsOption {
	return WithSlowTxHook(func(_ context.Context, writable bool, duration time.Duration) {
		slog.Warn("slow transaction detected", "duration", duration, "writable", writable)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
// Example:
//
//	drv, _ := badgerkv.Open(badgerkv.Options{Dir: dir})
//	stats := dialect.NewStatsDriver(drv, dialect.WithSlowThreshold(50*time.Millisecond))
//	eng, _ := engine.Open(dir, engine.WithDriver(stats))
//	fmt.Println(stats.TxStats().Stats())
func NewStatsDriver(drv Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &TxStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TxStats returns the underlying statistics.
func (d *StatsDriver) TxStats() *TxStats {
	return d.stats
}

// SlowThreshold returns the current slow transaction threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow transaction threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Tx starts a transaction that records statistics.
func (d *StatsDriver) Tx(ctx context.Context, writable bool) (Tx, error) {
	tx, err := d.Driver.Tx(ctx, writable)
	if err != nil {
		d.stats.Errors.Add(1)
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d, ctx: ctx, writable: writable, start: time.Now()}, nil
}

func (d *StatsDriver) count(c *atomic.Int64, err error) {
	c.Add(1)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		d.stats.Errors.Add(1)
	}
}

func (d *StatsDriver) finish(ctx context.Context, writable bool, start time.Time) {
	duration := time.Since(start)
	d.stats.TotalDuration.Add(int64(duration))

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowTxs.Add(1)
		if hook != nil {
			hook(ctx, writable, duration)
		}
	}
}

// StatsTx wraps a transaction with statistics collection.
type StatsTx struct {
	Tx
	driver   *StatsDriver
	ctx      context.Context
	writable bool
	start    time.Time
	done     bool
}

// Get reads a key and records statistics.
func (tx *StatsTx) Get(family string, key []byte) ([]byte, error) {
	v, err := tx.Tx.Get(family, key)
	tx.driver.count(&tx.driver.stats.Reads, err)
	return v, err
}

// ForEach iterates a family and records statistics.
func (tx *StatsTx) ForEach(family string, fn func(key, value []byte) error) error {
	err := tx.Tx.ForEach(family, fn)
	tx.driver.count(&tx.driver.stats.Reads, err)
	return err
}

// Put writes a key and records statistics.
func (tx *StatsTx) Put(family string, key, value []byte) error {
	err := tx.Tx.Put(family, key, value)
	tx.driver.count(&tx.driver.stats.Writes, err)
	return err
}

// Delete removes a key and records statistics.
func (tx *StatsTx) Delete(family string, key []byte) error {
	err := tx.Tx.Delete(family, key)
	tx.driver.count(&tx.driver.stats.Writes, err)
	return err
}

// Commit commits the transaction and records statistics.
func (tx *StatsTx) Commit() error {
	err := tx.Tx.Commit()
	switch {
	case err == nil:
		tx.driver.stats.Commits.Add(1)
	case errors.Is(err, ErrConflict):
		tx.driver.stats.Conflicts.Add(1)
		tx.driver.stats.Errors.Add(1)
	default:
		tx.driver.stats.Errors.Add(1)
	}
	tx.end()
	return err
}

// Rollback rolls back the transaction.
func (tx *StatsTx) Rollback() error {
	err := tx.Tx.Rollback()
	tx.end()
	return err
}

func (tx *StatsTx) end() {
	if tx.done {
		return
	}
	tx.done = true
	tx.driver.finish(tx.ctx, tx.writable, tx.start)
}

// DebugDriver wraps a Driver with debug logging.
type DebugDriver struct {
	Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// DebugWithLogger logs through the given slog logger at debug level.
func DebugWithLogger(logger *slog.Logger) DebugOption {
	return DebugWithLog(func(ctx context.Context, v ...any) {
		logger.DebugContext(ctx, fmt.Sprint(v...))
	})
}

// NewDebugDriver wraps a Driver with debug logging.
func NewDebugDriver(drv Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateFamily creates a family and logs it.
func (d *DebugDriver) CreateFamily(ctx context.Context, name string) error {
	d.log(ctx, "create family: ", name)
	return d.Driver.CreateFamily(ctx, name)
}

// DropFamily drops a family and logs it.
func (d *DebugDriver) DropFamily(ctx context.Context, name string) error {
	d.log(ctx, "drop family: ", name)
	return d.Driver.DropFamily(ctx, name)
}

// Tx starts a transaction with debug logging.
func (d *DebugDriver) Tx(ctx context.Context, writable bool) (Tx, error) {
	d.log(ctx, fmt.Sprintf("begin transaction writable=%t", writable))
	tx, err := d.Driver.Tx(ctx, writable)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, ctx: ctx, log: d.log}, nil
}

// DebugTx wraps a transaction with debug logging.
type DebugTx struct {
	Tx
	ctx context.Context
	log func(context.Context, ...any)
}

// Get reads a key and logs it.
func (tx *DebugTx) Get(family string, key []byte) ([]byte, error) {
	tx.log(tx.ctx, fmt.Sprintf("tx get: %s %s", family, key))
	return tx.Tx.Get(family, key)
}

// Put writes a key and logs it.
func (tx *DebugTx) Put(family string, key, value []byte) error {
	tx.log(tx.ctx, fmt.Sprintf("tx put: %s %s (%d bytes)", family, key, len(value)))
	return tx.Tx.Put(family, key, value)
}

// Delete removes a key and logs it.
func (tx *DebugTx) Delete(family string, key []byte) error {
	tx.log(tx.ctx, fmt.Sprintf("tx delete: %s %s", family, key))
	return tx.Tx.Delete(family, key)
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.log(tx.ctx, "commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.log(tx.ctx, "rollback transaction")
	return tx.Tx.Rollback()
}

// Ensure interfaces are implemented.
var (
	_ Driver = (*StatsDriver)(nil)
	_ Tx     = (*StatsTx)(nil)
	_ Driver = (*DebugDriver)(nil)
	_ Tx     = (*DebugTx)(nil)
)

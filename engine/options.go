package engine

import (
	"fmt"
	"log/slog"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
)

// DefaultHeadSize is the number of entries DisplayFamilyHead prints per family.
const DefaultHeadSize = 5

// Option configures an Engine.
type Option func(*config) error

type config struct {
	dialect   string
	driver    dialect.Driver
	inMemory  bool
	registry  *icegraph.Registry
	kinds     []string
	gen       icegraph.Generator
	codec     icegraph.Codec
	logger    *slog.Logger
	cascade   bool
	stats     bool
	statsOpts []dialect.StatsOption
	debug     bool
	headSize  int
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		dialect:  dialect.Badger,
		codec:    icegraph.DefaultCodec,
		gen:      icegraph.DefaultGenerator,
		headSize: DefaultHeadSize,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.inMemory && c.dialect != dialect.Badger {
		return nil, fmt.Errorf("engine: in-memory mode requires the %s dialect, got %s", dialect.Badger, c.dialect)
	}
	if c.cascade && c.registry == nil {
		return nil, fmt.Errorf("engine: cascading removal requires a registry")
	}
	return c, nil
}

// WithDialect selects the store backend: "badger" (default), "bolt" or "sqlite".
func WithDialect(name string) Option {
	return func(c *config) error {
		if _, ok := openers[name]; !ok {
			return fmt.Errorf("engine: unsupported dialect %q", name)
		}
		c.dialect = name
		return nil
	}
}

// WithDriver runs the engine on an already opened driver. The path given to Open is
// ignored and Close closes the driver.
func WithDriver(drv dialect.Driver) Option {
	return func(c *config) error {
		if drv == nil {
			return fmt.Errorf("engine: nil driver")
		}
		c.driver = drv
		c.dialect = drv.Dialect()
		return nil
	}
}

// WithInMemory opens an in-memory Badger store. Nothing is persisted.
func WithInMemory() Option {
	return func(c *config) error {
		c.inMemory = true
		return nil
	}
}

// WithRegistry registers the kinds of a generated package. Their families are created
// on Open, and records read back without a caller-supplied type are materialized through it.
func WithRegistry(r *icegraph.Registry) Option {
	return func(c *config) error {
		c.registry = r
		return nil
	}
}

// WithKinds adds families to create on Open.
func WithKinds(kinds ...string) Option {
	return func(c *config) error {
		for _, k := range kinds {
			if err := dialect.ValidateFamily(k); err != nil {
				return err
			}
		}
		c.kinds = append(c.kinds, kinds...)
		return nil
	}
}

// WithGenerator sets the token generator returned by Engine.Generator.
func WithGenerator(gen icegraph.Generator) Option {
	return func(c *config) error {
		if gen == nil {
			return fmt.Errorf("engine: nil generator")
		}
		c.gen = gen
		return nil
	}
}

// WithCodec sets the codec records are stored with. The default is MessagePack.
func WithCodec(codec icegraph.Codec) Option {
	return func(c *config) error {
		if codec == nil {
			return fmt.Errorf("engine: nil codec")
		}
		c.codec = codec
		return nil
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithCascade makes RemoveEdge retract the edge from both endpoints, and RemoveNode
// delete every edge referencing the node. It requires WithRegistry.
func WithCascade() Option {
	return func(c *config) error {
		c.cascade = true
		return nil
	}
}

// WithStats collects transaction statistics, see Engine.Stats.
func WithStats(opts ...dialect.StatsOption) Option {
	return func(c *config) error {
		c.stats = true
		c.statsOpts = append(c.statsOpts, opts...)
		return nil
	}
}

// WithDebug logs family changes at debug level.
func WithDebug() Option {
	return func(c *config) error {
		c.debug = true
		return nil
	}
}

// WithHeadSize sets the number of entries DisplayFamilyHead prints per family.
func WithHeadSize(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("engine: head size must be positive, got %d", n)
		}
		c.headSize = n
		return nil
	}
}

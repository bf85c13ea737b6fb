package blend

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/internal/options"
	"github.com/arloliu/blend/section"
	"github.com/arloliu/blend/view"
)

type config struct {
	logger    *slog.Logger
	offHeap   []string
	heapBase  uint64
	listLimit int
	handler   view.Handler
}

func defaultConfig() *config {
	return &config{
		heapBase:  block.DefaultHeapBase,
		listLimit: view.DefaultListLimit,
	}
}

// Option configures Parse and Open.
type Option = options.Option[*config]

// WithLogger logs parse progress at debug level and diagnostics at warn level to l.
// Without it the library is silent.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = l
	})
}

// WithOffHeapStructs replaces the default off-heap struct list. Struct names missing
// from the file's catalog are skipped with a warning.
func WithOffHeapStructs(names ...string) Option {
	return options.New(func(c *config) error {
		for _, n := range names {
			if n == "" {
				return fmt.Errorf("%w: empty struct name", errs.ErrInvalidOffHeapStructs)
			}
		}
		c.offHeap = append([]string{}, names...)

		return nil
	})
}

// WithHeapBase sets the lowest address a heap block may have.
func WithHeapBase(base uint64) Option {
	return options.NoError(func(c *config) {
		c.heapBase = base
	})
}

// WithListLimit bounds linked-list traversals.
func WithListLimit(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("list limit must be positive, got %d", n)
		}
		c.listLimit = n

		return nil
	})
}

// WithDiagnostics installs a handler for the soft diagnostics of every view of the file.
func WithDiagnostics(h view.Handler) Option {
	return options.NoError(func(c *config) {
		c.handler = h
	})
}

// DefaultOffHeapStructs returns the struct kinds written from their own allocator by
// the given file version.
func DefaultOffHeapStructs(version int) []string {
	if version >= section.TreeStoreOffHeapMin {
		return []string{"FileGlobal", "TreeStoreElem"}
	}

	return []string{"FileGlobal"}
}

package block

import (
	"fmt"

	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/internal/options"
)

// DefaultHeapBase is the lowest address a heap block may have. Real allocators never
// hand out memory from the first page.
const DefaultHeapBase = 4096

// Labeler names a struct index for error messages, usually sdna.Catalog lookups.
type Labeler func(structIndex int) string

type buildConfig struct {
	offHeap  []int
	heapBase uint64
	labeler  Labeler
}

// Option configures Build.
type Option = options.Option[*buildConfig]

// WithOffHeap moves the blocks of the given struct indices into their own tables.
func WithOffHeap(structIndices ...int) Option {
	return options.New(func(c *buildConfig) error {
		for _, i := range structIndices {
			if i < 0 {
				return fmt.Errorf("%w: struct index %d", errs.ErrInvalidOffHeapStructs, i)
			}
		}
		c.offHeap = append(c.offHeap, structIndices...)

		return nil
	})
}

// WithHeapBase overrides DefaultHeapBase.
func WithHeapBase(base uint64) Option {
	return options.NoError(func(c *buildConfig) {
		c.heapBase = base
	})
}

// WithLabeler sets the function used to name struct indices in errors.
func WithLabeler(l Labeler) Option {
	return options.NoError(func(c *buildConfig) {
		c.labeler = l
	})
}

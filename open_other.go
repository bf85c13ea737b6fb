//go:build !unix

package blend

import (
	"fmt"
	"os"
)

// Open reads a file into memory and parses it. Close is a no-op on this platform.
func Open(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

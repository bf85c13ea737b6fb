//go:build unix

package blend

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/arloliu/blend/format"
)

// Open maps a file read-only and parses it. If mmap is unavailable the file is read
// into memory instead. The returned File must be closed to release the mapping.
func Open(path string, opts ...Option) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fd.Close() }()

	stat, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	size := stat.Size()
	if size <= 0 || size > int64(int(^uint(0)>>1)) {
		return readAndParse(path, opts)
	}

	data, err := unix.Mmap(int(fd.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return readAndParse(path, opts)
	}
	// Pointer chasing jumps all over the file.
	_ = unix.Madvise(data, unix.MADV_RANDOM)

	f, err := Parse(data, opts...)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if f.Container() != format.CompressionNone {
		// The image was decompressed into its own buffer.
		if err := unix.Munmap(data); err != nil {
			return nil, err
		}

		return f, nil
	}
	f.release = func() error { return unix.Munmap(data) }

	return f, nil
}

func readAndParse(path string, opts []Option) (*File, error) {
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

//go:build unix

package region

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserveMmap creates an anonymous private mapping of n zeroed bytes.
func reserveMmap(n int) (*Region, error) {
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return &Region{Data: data, release: release}, nil
}

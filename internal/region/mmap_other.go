//go:build !unix

package region

// reserveMmap is unavailable without mmap; Auto falls back to the heap.
func reserveMmap(n int) (*Region, error) {
	return nil, ErrUnsupported
}

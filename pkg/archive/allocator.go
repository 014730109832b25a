package archive

import "github.com/marmos91/pipearchive/pkg/bufpool"

// bufpoolAllocator adapts pkg/bufpool's tiered pool to the Allocator
// interface, giving callers a reasonable default without forcing every
// Create/Open call to supply its own arena.
type bufpoolAllocator struct {
	pool *bufpool.Pool
}

func (a *bufpoolAllocator) Alloc(n int) []byte {
	return a.pool.Get(n)
}

func (a *bufpoolAllocator) Free(buf []byte) {
	a.pool.Put(buf)
}

var defaultAllocator = &bufpoolAllocator{pool: bufpool.NewPool(nil)}

// DefaultAllocator returns the package-wide bufpool-backed Allocator used
// when an OpenInfo does not supply its own.
func DefaultAllocator() Allocator {
	return defaultAllocator
}

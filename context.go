package bigfloat

import "github.com/pkg/errors"

// Allocator is the three-argument realloc hook described in spec §6:
// a call with ptr == nil and newSize > 0 allocates, newSize == 0 frees
// and must return nil, and any other combination reallocates. Returning
// nil for a requested newSize > 0 signals out-of-memory.
//
// The core only ever needs to grow or shrink []uint64/[]uint64-like
// backing arrays; Go's garbage collector makes an explicit free a
// no-op in practice, but the hook is kept symmetrical with the
// original C allocator shape so callers that really do want an arena
// or a pooled allocator (e.g. to bound NTT scratch memory) can plug
// one in.
type Allocator interface {
	Realloc(ptr []uint64, newSize int) ([]uint64, error)
}

// defaultAllocator is a thin wrapper over make/append; it never fails
// except on a negative size, which cannot happen through normal use.
type defaultAllocator struct{}

func (defaultAllocator) Realloc(ptr []uint64, newSize int) ([]uint64, error) {
	if newSize == 0 {
		return nil, nil
	}
	if newSize <= cap(ptr) {
		return ptr[:newSize], nil
	}
	out := make([]uint64, newSize, newSize+4) // +4: extra capacity, amortizes regrowth
	copy(out, ptr)
	return out, nil
}

// DefaultAllocator is the zero-configuration Allocator used by
// NewContext when none is supplied.
var DefaultAllocator Allocator = defaultAllocator{}

// Context is the process-scope-free structure spec §3 describes: it
// owns an allocator, the lazily-built π/ln2 caches, and an NTT table
// slot that no code fills, and nothing else is global. A Context is not safe for
// concurrent use (spec §5); create one per goroutine that needs one.
type Context struct {
	alloc Allocator

	// Traps selects which Status bits GoError promotes to an error.
	// Mirrors apd.Context.Traps.
	Traps Status

	pi  *BigFloat // binary-splitting Chudnovsky cache, precision-tagged
	ln2 *BigFloat

	ntt *nttState // never set: nttMul keeps no tables

	maxNTTCacheBytes int // stored by WithMaxNTTCacheBytes, not read
}

// ContextOption configures a Context at construction time. The
// functional-option shape mirrors apd's Context{}-literal-plus-With*
// convention rather than a config-file format: this library has no
// files, environment variables, or flags to parse.
type ContextOption func(*Context)

// WithTraps overrides DefaultTraps.
func WithTraps(traps Status) ContextOption {
	return func(c *Context) { c.Traps = traps }
}

// WithMaxNTTCacheBytes records n as the Context's bound on cached NTT
// twiddle-factor memory. The NTT engine caches no tables and does not
// read the bound, so the option has no effect on any operation.
func WithMaxNTTCacheBytes(n int) ContextOption {
	return func(c *Context) { c.maxNTTCacheBytes = n }
}

// NewContext creates a Context using alloc (or DefaultAllocator if
// alloc is nil).
func NewContext(alloc Allocator, opts ...ContextOption) *Context {
	if alloc == nil {
		alloc = DefaultAllocator
	}
	c := &Context{alloc: alloc, Traps: DefaultTraps}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearCache releases the π/ln2 caches and resets the NTT table slot.
// Destroying
// a Context without calling ClearCache first is fine — there is no
// finalizer to run — but long-lived contexts that move to a very
// different precision should call it to avoid holding stale caches.
func (c *Context) ClearCache() {
	c.pi = nil
	c.ln2 = nil
	c.ntt = nil
}

func (c *Context) realloc(ptr []uint64, n int) ([]uint64, error) {
	out, err := c.alloc.Realloc(ptr, n)
	if err != nil {
		return nil, errors.Wrap(err, "bigfloat: allocator failed")
	}
	if n > 0 && out == nil {
		return nil, errors.New("bigfloat: allocator returned nil for non-zero size")
	}
	return out, nil
}

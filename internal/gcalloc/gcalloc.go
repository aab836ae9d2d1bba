// Package gcalloc is a thin allocator/GC abstraction: new_atomic/
// new_pointer, root registration so the arena's owner can be told what
// is still externally reachable, and finalisers. The backing store is a
// modernc.org/memory arena rather than the Go heap directly, so blocks
// are allocated and freed explicitly.
//
// No other package in this module allocates through Heap: bignum limbs,
// strings and symbols are ordinary Go heap values. The one part of this
// package the rest of the core calls is Fatal.
package gcalloc

import (
	"os"
	"sync"

	"modernc.org/memory"

	"wisp/internal/diag"
)

// Handle is a live allocation: Bytes is the backing storage, kind
// records whether a tracing collector built on top of this arena would
// need to scan it for outgoing pointers.
type Handle struct {
	Bytes []byte
	kind  allocKind
}

type allocKind int

const (
	kindAtomic allocKind = iota
	kindPointer
)

// Heap is one arena plus the bookkeeping (roots, finalisers) this core's
// allocator interface exposes on top of it. A Heap is safe for
// concurrent use.
type Heap struct {
	mu         sync.Mutex
	alloc      memory.Allocator
	roots      map[*Handle]struct{}
	finalizers map[*Handle]func()
}

// NewHeap returns an empty Heap backed by a fresh arena.
func NewHeap() *Heap {
	return &Heap{
		roots:      make(map[*Handle]struct{}),
		finalizers: make(map[*Handle]func()),
	}
}

// NewAtomic allocates size bytes known to hold no outgoing pointers
// (numeric limb storage, string and symbol bytes), a tracing collector
// layered on top of this arena would never need to scan this block.
func (h *Heap) NewAtomic(size int) (*Handle, error) {
	return h.newBlock(size, kindAtomic)
}

// NewPointer allocates size bytes that may hold references into other
// arena allocations or into the Go heap, a tracing collector layered on
// top of this arena would need to scan this block.
func (h *Heap) NewPointer(size int) (*Handle, error) {
	return h.newBlock(size, kindPointer)
}

func (h *Heap) newBlock(size int, kind allocKind) (*Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, err := h.alloc.Malloc(size)
	if err != nil {
		return nil, diag.Wrap(err, "gcalloc: arena allocation failed")
	}
	return &Handle{Bytes: b, kind: kind}, nil
}

// Free releases hdl back to the arena. Any finalizer registered for hdl
// runs first.
func (h *Heap) Free(hdl *Handle) error {
	h.mu.Lock()
	fn := h.finalizers[hdl]
	delete(h.finalizers, hdl)
	delete(h.roots, hdl)
	h.mu.Unlock()

	if fn != nil {
		fn()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.alloc.Free(hdl.Bytes); err != nil {
		return diag.Wrap(err, "gcalloc: arena free failed")
	}
	hdl.Bytes = nil
	return nil
}

// AddRoot marks hdl as externally reachable, so a caller walking roots
// before a collection pass (or before freeing the whole Heap) knows not
// to reclaim it.
func (h *Heap) AddRoot(hdl *Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roots[hdl] = struct{}{}
}

// RemoveRoot undoes a prior AddRoot.
func (h *Heap) RemoveRoot(hdl *Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.roots, hdl)
}

// Roots returns the handles currently registered as roots.
func (h *Heap) Roots() []*Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Handle, 0, len(h.roots))
	for hdl := range h.roots {
		out = append(out, hdl)
	}
	return out
}

// SetFinalizer registers fn to run once, the next time hdl is freed via
// Free. Registering a new finalizer for a handle replaces any previous
// one rather than stacking them.
func (h *Heap) SetFinalizer(hdl *Handle, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finalizers[hdl] = fn
}

// Fatal aborts the process with a diagnostic. It is reserved for the
// handful of errors spec'd as unrecoverable: allocator failure, and
// corruption of the dynamic-wind node tree detected by contin.Invoke.
// There is no handler-stack path for these, by the time this is called,
// the implementation does not trust its own state enough to keep running
// it at all, let alone run a Scheme-visible handler.
func Fatal(err error) {
	if de, ok := err.(*diag.Error); ok {
		os.Stderr.WriteString(de.StackTrace())
		os.Stderr.WriteString("\n")
	} else {
		os.Stderr.WriteString(err.Error())
		os.Stderr.WriteString("\n")
	}
	os.Exit(2)
}

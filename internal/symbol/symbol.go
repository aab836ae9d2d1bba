// Package symbol implements process-wide symbol interning: two symbols
// with the same name are always the same *Interned pointer, so symbol
// equality is pointer equality. Symbols are process-wide and effectively
// immutable once interned, so the hot path is a single lock-free map
// read.
package symbol

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Interned is the canonical representation of an interned symbol name.
type Interned struct {
	Name string
}

func (i *Interned) String() string { return i.Name }

var (
	table sync.Map // string -> *Interned

	// group collapses concurrent first-interning of the same name across
	// VMs running on separate OS threads into a single construction, so
	// two goroutines racing to intern "foo" for the first time are
	// guaranteed to observe the same *Interned pointer.
	group singleflight.Group
)

// Intern returns the canonical *Interned for name, creating it on first
// use. Safe for concurrent use by multiple VM contexts.
func Intern(name string) *Interned {
	if v, ok := table.Load(name); ok {
		return v.(*Interned)
	}
	v, _, _ := group.Do(name, func() (interface{}, error) {
		if v, ok := table.Load(name); ok {
			return v.(*Interned), nil
		}
		sym := &Interned{Name: name}
		table.Store(name, sym)
		return sym, nil
	})
	return v.(*Interned)
}

// Lookup returns the *Interned for name if it has already been interned,
// without creating it.
func Lookup(name string) (*Interned, bool) {
	v, ok := table.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Interned), true
}

// threadid.go — compact producer id assignment and recycling.
//
// Go goroutines have no thread-local storage and can hop between OS
// threads, so this package does not attempt to reproduce the original's
// thread_local id cache. Instead the caller is handed an id once (from
// Enable, see emberlog.go) and holds onto it for the lifetime of its
// Producer handle — an explicit handle is the idiomatic Go answer to the
// same problem every producer/consumer package in the retrieval pack
// solves by passing an explicit handle around instead of relying on
// ambient thread identity.
package threadid

import "sync/atomic"

// MaxProducers bounds the id space; ids occupy [1, MaxProducers).
const MaxProducers = 256

// Registry assigns and recycles small integer producer ids.
type Registry struct {
	counter atomic.Uint32 // next id to hand out when the free list is empty
	free    freeStack
}

// NewRegistry returns a registry with ids starting at 1 (0 means unassigned).
func NewRegistry() *Registry {
	r := &Registry{}
	r.counter.Store(1)
	return r
}

// Assign hands out a producer id, preferring a recycled one from the free
// list (LIFO) over minting a new one.
func (r *Registry) Assign() uint32 {
	if id, ok := r.free.pop(); ok {
		return id
	}
	return r.counter.Add(1) - 1
}

// Release returns id to the free list for reuse. Best effort: if the free
// list is full the id leaks and is never reused, matching the original's
// "push may fail, id leaks" contract.
func (r *Registry) Release(id uint32) bool {
	if id == 0 {
		return false
	}
	return r.free.push(id)
}

// MaxAssigned returns an exclusive upper bound on ever-assigned ids; the
// drain loop scans [0, MaxAssigned()).
func (r *Registry) MaxAssigned() uint32 {
	return r.counter.Load()
}

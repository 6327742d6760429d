package schedcore

// pidAllocator hands out a strictly increasing sequence of PIDs, starting
// at 1. Unlike a kernel pidmap (see the wrap-around allocator this is
// adapted from), exited PIDs are never recycled: the core never owns a
// record long enough, nor runs long enough, to need reuse, and reuse
// would violate the "all pid values are unique" invariant across a
// process's full lifetime in list() history.
//
// The core performs no internal locking (§5 — single-threaded by
// contract); callers needing concurrent access synchronize externally.
type pidAllocator struct {
	next PID
}

func newPIDAllocator() *pidAllocator {
	return &pidAllocator{next: 1}
}

// alloc returns the next PID and advances the counter.
func (a *pidAllocator) alloc() PID {
	p := a.next
	a.next++
	return p
}

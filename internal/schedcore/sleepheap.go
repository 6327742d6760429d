package schedcore

import "container/heap"

// sleepEntry pairs a timed-sleeping process with its remaining duration.
// index is maintained by container/heap for O(log n) pop; seq is the
// insertion order, used only to break ties between equal remaining
// durations (spec §4.1 rule 5: "ties broken by insertion order").
type sleepEntry struct {
	proc      *Process
	remaining int
	seq       int64
	index     int
}

// sleepHeap is a min-heap over remaining duration, adapted from the
// teacher's container/heap-based event scheduler (originally ordered by
// wall-clock wake time; re-themed here to order by remaining sleep
// units). decrementAll subtracts a uniform delta from every entry, which
// preserves relative order except where entries are floored at zero;
// only then is the heap rebuilt.
type sleepHeap struct {
	h   entryHeap
	seq int64
}

func newSleepHeap() *sleepHeap {
	return &sleepHeap{h: entryHeap{}}
}

// push inserts a new timed sleeper with the given remaining duration.
func (s *sleepHeap) push(p *Process, remaining int) {
	e := &sleepEntry{proc: p, remaining: remaining, seq: s.seq}
	s.seq++
	heap.Push(&s.h, e)
}

// len reports the number of timed sleepers.
func (s *sleepHeap) len() int { return len(s.h) }

// popMin removes and returns the sleeper with the least remaining
// duration (ties broken by insertion order). ok is false if empty.
func (s *sleepHeap) popMin() (proc *Process, remaining int, ok bool) {
	if len(s.h) == 0 {
		return nil, 0, false
	}
	e := heap.Pop(&s.h).(*sleepEntry)
	return e.proc, e.remaining, true
}

// peek reports the sleeper with the least remaining duration without
// removing it. ok is false if empty.
func (s *sleepHeap) peek() (proc *Process, remaining int, ok bool) {
	if len(s.h) == 0 {
		return nil, 0, false
	}
	e := s.h[0]
	return e.proc, e.remaining, true
}

// decrementAll subtracts delta from every entry's remaining duration,
// flooring at zero. A uniform shift leaves heap order intact, but entries
// floored to zero may now tie in a different seq order than their heap
// positions, so the heap is rebuilt whenever any entry was floored.
func (s *sleepHeap) decrementAll(delta int) {
	if delta <= 0 {
		return
	}
	floored := false
	for _, e := range s.h {
		e.remaining -= delta
		if e.remaining < 0 {
			e.remaining = 0
			floored = true
		}
	}
	if floored {
		heap.Init(&s.h)
	}
}

// snapshot returns the remaining-sleeping processes in heap-internal
// order (unspecified by the spec beyond invariant (2)). List does not use
// it; it reads the wait set instead.
func (s *sleepHeap) snapshot() []*Process {
	out := make([]*Process, len(s.h))
	for i, e := range s.h {
		out[i] = e.proc
	}
	return out
}

// entryHeap implements heap.Interface, ordered by (remaining, seq).
type entryHeap []*sleepEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].remaining != h[j].remaining {
		return h[i].remaining < h[j].remaining
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*sleepEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	e.index = -1
	*h = old[:n-1]
	return e
}

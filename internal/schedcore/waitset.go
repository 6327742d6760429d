package schedcore

// waitSet holds every blocked process — both timed sleepers and
// event-waiters — in stable insertion order. Order is not externally
// meaningful except as the tie-break the spec requires for sleep
// wakeup (§4.1 rule 5) and for Signal's wakeup order (§4.3).
//
// Timed sleepers additionally carry an entry in the scheduler's
// sleepHeap; waitSet itself does not distinguish the two kinds beyond
// what ProcessState.HasEvent already records.
type waitSet struct {
	order []*Process
}

func newWaitSet() *waitSet {
	return &waitSet{}
}

// add appends p to the wait set.
func (w *waitSet) add(p *Process) {
	w.order = append(w.order, p)
}

// remove deletes p from the wait set by identity. No-op if absent.
func (w *waitSet) remove(p *Process) {
	for i, q := range w.order {
		if q == p {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}

func (w *waitSet) len() int { return len(w.order) }

// allBlockedOnEvents reports whether every waiter is an event-waiter
// (no timed sleepers) — the condition for Deadlock in §4.1 rule 4.
func (w *waitSet) allBlockedOnEvents() bool {
	for _, p := range w.order {
		if !p.State.HasEvent {
			return false
		}
	}
	return true
}

// waitersForEvent returns every waiter currently blocked on e, in
// insertion order.
func (w *waitSet) waitersForEvent(e EventID) []*Process {
	var out []*Process
	for _, p := range w.order {
		if p.State.HasEvent && p.State.Event == e {
			out = append(out, p)
		}
	}
	return out
}

// snapshot returns all waiters in insertion order.
func (w *waitSet) snapshot() []*Process {
	out := make([]*Process, len(w.order))
	copy(out, w.order)
	return out
}

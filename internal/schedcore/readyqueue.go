package schedcore

// Policy selects which ready-structure discipline the scheduler uses.
type Policy int

const (
	// PolicyRR is the classical single-FIFO round robin.
	PolicyRR Policy = iota
	// PolicyRRP additionally orders ready processes by current priority,
	// descending, with FIFO order preserved within a priority band, and
	// ages priority on quantum expiry (§4.2).
	PolicyRRP
)

func (p Policy) String() string {
	if p == PolicyRRP {
		return "round-robin-priority"
	}
	return "round-robin"
}

// readyQueue is the ordered collection of Ready processes. RR and RRP
// each provide one implementation; the decision/event engines depend
// only on this interface.
type readyQueue interface {
	push(p *Process)
	pop() (*Process, bool)
	len() int
	// snapshot returns all queued processes in the order they would be
	// served (head first).
	snapshot() []*Process
}

// fifoReady is the RR ready structure: a single FIFO queue.
type fifoReady struct {
	q []*Process
}

func newFIFOReady() *fifoReady { return &fifoReady{} }

func (r *fifoReady) push(p *Process) { r.q = append(r.q, p) }

func (r *fifoReady) pop() (*Process, bool) {
	if len(r.q) == 0 {
		return nil, false
	}
	p := r.q[0]
	r.q = r.q[1:]
	return p, true
}

func (r *fifoReady) len() int { return len(r.q) }

func (r *fifoReady) snapshot() []*Process {
	out := make([]*Process, len(r.q))
	copy(out, r.q)
	return out
}

// priorityBands is the number of distinct priority levels, [0,5].
const priorityBands = 6

// bucketReady is the RRP ready structure: a stable bucket array of FIFOs
// indexed by current priority (Design Notes option (a)). pop always
// serves the highest non-empty band first; within a band, FIFO order is
// preserved.
type bucketReady struct {
	buckets [priorityBands][]*Process
	count   int
}

func newBucketReady() *bucketReady { return &bucketReady{} }

func (r *bucketReady) push(p *Process) {
	band := clampPriority(p.Priority)
	r.buckets[band] = append(r.buckets[band], p)
	r.count++
}

func (r *bucketReady) pop() (*Process, bool) {
	for band := priorityBands - 1; band >= 0; band-- {
		if len(r.buckets[band]) == 0 {
			continue
		}
		p := r.buckets[band][0]
		r.buckets[band] = r.buckets[band][1:]
		r.count--
		return p, true
	}
	return nil, false
}

func (r *bucketReady) len() int { return r.count }

func (r *bucketReady) snapshot() []*Process {
	out := make([]*Process, 0, r.count)
	for band := priorityBands - 1; band >= 0; band-- {
		out = append(out, r.buckets[band]...)
	}
	return out
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > priorityBands-1 {
		return priorityBands - 1
	}
	return p
}

func newReadyQueue(policy Policy) readyQueue {
	if policy == PolicyRRP {
		return newBucketReady()
	}
	return newFIFOReady()
}

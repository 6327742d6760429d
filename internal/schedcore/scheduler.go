package schedcore

import (
	"fmt"

	"go.uber.org/zap"
)

// Config parametrizes a Scheduler. It plays the role the teacher's
// options structs (e.g. SummaryOptions) play: a plain value type with a
// validating constructor, no builder machinery.
type Config struct {
	// Timeslice is the nominal quantum granted per scheduling. Must be > 0.
	Timeslice int
	// MinimumRemaining is the threshold below which a running process is
	// preempted at the next Next call. Must be >= 0 and <= Timeslice.
	MinimumRemaining int
	// Policy selects RR or RRP. Zero value is PolicyRR.
	Policy Policy
	// Logger receives Debug-level transition traces and Info-level
	// terminal-condition events. Nil is treated as zap.NewNop().
	Logger *zap.Logger
	// InitPriority is the creation priority handed to the bootstrap PID
	// 1 process (§3 "Lifecycle" allows either host-supplied
	// Fork(priority=0) semantics or the scheduler's own bootstrap;
	// this makes the bootstrap priority the host's choice). Must be in
	// [0,5]; zero value (0) is a legal, and the most common, choice.
	InitPriority int
}

func (c Config) validate() error {
	if c.Timeslice <= 0 {
		return fmt.Errorf("%w: timeslice must be positive, got %d", ErrInvalidConfig, c.Timeslice)
	}
	if c.MinimumRemaining < 0 {
		return fmt.Errorf("%w: minimum remaining must be non-negative, got %d", ErrInvalidConfig, c.MinimumRemaining)
	}
	if c.MinimumRemaining > c.Timeslice {
		return fmt.Errorf("%w: minimum remaining (%d) exceeds timeslice (%d)", ErrInvalidConfig, c.MinimumRemaining, c.Timeslice)
	}
	return nil
}

// Scheduler is the deterministic core described in SPEC_FULL.md §3–§4. A
// zero Scheduler is not usable; construct one with New.
//
// Scheduler performs no internal locking (§5): it is a pure, single-
// threaded transition function. Callers sharing one instance across
// goroutines must synchronize externally — see internal/host/session
// for a reference wrapper.
type Scheduler struct {
	cfg Config
	log *zap.Logger

	pids *pidAllocator

	ready readyQueue
	wait  *waitSet
	sleep *sleepHeap

	running   *Process
	remaining int // remaining_running_time

	initExited   bool
	deferredWake int

	totalForked int

	// terminal latches the first terminal Decision once one is reached,
	// so repeated Next calls keep answering with it (§4.4, §7).
	terminal    Decision
	hasTerminal bool
}

// New constructs a Scheduler per cfg and bootstraps the init process
// (PID 1, priority cfg.InitPriority, Ready) per spec §3 "Lifecycle".
func New(cfg Config) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Scheduler{
		cfg:   cfg,
		log:   cfg.Logger.Named("schedcore"),
		pids:  newPIDAllocator(),
		ready: newReadyQueue(cfg.Policy),
		wait:  newWaitSet(),
		sleep: newSleepHeap(),
	}

	init := s.newProcess(cfg.InitPriority, "")
	s.ready.push(init)

	s.log.Debug("bootstrapped init process",
		zap.Int64("pid", int64(init.PID)),
		zap.Stringer("policy", cfg.Policy),
		zap.Int("timeslice", cfg.Timeslice),
		zap.Int("minimum_remaining", cfg.MinimumRemaining))

	return s, nil
}

// newProcess allocates a fresh Ready process record and bumps the
// fork counter. Does not place it into any container.
func (s *Scheduler) newProcess(priority int, label string) *Process {
	p := &Process{
		PID:          s.pids.alloc(),
		State:        readyState(),
		Priority:     priority,
		BasePriority: priority,
		Label:        label,
	}
	s.totalForked++
	return p
}

// TotalForked returns the number of processes ever created, including
// the bootstrap init process. Pure derived bookkeeping: it plays no
// part in any scheduling decision (SPEC_FULL.md §3.1).
func (s *Scheduler) TotalForked() int { return s.totalForked }

// List returns an immutable snapshot of every known process, in the
// order: ready queue, wait set, running slot (§4.5).
func (s *Scheduler) List() []Snapshot {
	out := make([]Snapshot, 0, s.ready.len()+s.wait.len()+1)
	for _, p := range s.ready.snapshot() {
		out = append(out, p.snapshot())
	}
	for _, p := range s.wait.snapshot() {
		out = append(out, p.snapshot())
	}
	if s.running != nil {
		out = append(out, s.running.snapshot())
	}
	return out
}

// chargeWallClock adds delta to the Total timing of every live process
// (running + ready + wait), per the common update rule shared by the
// preamble (§4.1) and every syscall/expiry (§4.3).
func (s *Scheduler) chargeWallClock(delta int) {
	if delta <= 0 {
		return
	}
	if s.running != nil {
		s.running.Timings.Total += delta
	}
	for _, p := range s.ready.snapshot() {
		p.Timings.Total += delta
	}
	for _, p := range s.wait.snapshot() {
		p.Timings.Total += delta
	}
}

// wakeProcess moves p from wait to ready, setting its state to Ready.
func (s *Scheduler) wakeProcess(p *Process) {
	s.wait.remove(p)
	p.State = readyState()
	s.ready.push(p)
}

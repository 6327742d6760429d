package schedcore

import "go.uber.org/zap"

// Stop implements the event engine (§4.3): it applies the effects of a
// syscall issued early, or of the quantum simply expiring, to the
// currently running process, and returns a SyscallResult.
func (s *Scheduler) Stop(reason StopReason) SyscallResult {
	if s.running == nil {
		s.log.Debug("stop called with no running process")
		return noRunningProcessResult()
	}

	if reason.Kind == ReasonExpired {
		return s.stopExpired()
	}
	return s.stopSyscall(reason.Syscall, reason.Remaining)
}

// stopExpired handles StopReason{Kind: ReasonExpired}.
func (s *Scheduler) stopExpired() SyscallResult {
	used := s.remaining
	s.chargeWallClock(used)

	proc := s.running
	if s.cfg.Policy == PolicyRRP {
		proc.Priority = minInt(proc.Priority+1, proc.BasePriority)
	}
	proc.State = readyState()
	s.ready.push(proc)
	s.running = nil
	s.remaining = s.cfg.Timeslice

	s.log.Debug("quantum expired",
		zap.Int64("pid", int64(proc.PID)), zap.Int("used", used),
		zap.Int("priority", proc.Priority))
	return successResult()
}

// stopSyscall handles StopReason{Kind: ReasonSyscall}.
func (s *Scheduler) stopSyscall(sc Syscall, remaining int) SyscallResult {
	used := s.remaining - remaining
	if used < 0 {
		used = 0
	}
	// used time units of CPU plus the 1-unit syscall instruction are
	// charged to wall-clock for every live record (§4.3).
	elapsed := used + 1
	s.chargeWallClock(elapsed)

	proc := s.running

	switch sc.Kind {
	case SyscallFork:
		proc.Timings.CPU += used
		proc.Timings.Syscalls++
		s.remaining = remaining

		child := s.newProcess(sc.ForkPriority, "")
		s.ready.push(child)
		s.wakeSleepersAfter(elapsed)

		s.log.Debug("fork",
			zap.Int64("parent", int64(proc.PID)), zap.Int64("child", int64(child.PID)),
			zap.Int("priority", sc.ForkPriority))
		return pidResult(child.PID)

	case SyscallSleep:
		proc.Timings.CPU += used
		proc.Timings.Syscalls++
		proc.State = sleepState()
		if s.cfg.Policy == PolicyRRP {
			proc.Priority = maxInt(proc.Priority-1, 0)
		}
		s.running = nil
		s.remaining = s.cfg.Timeslice

		s.wait.add(proc)
		s.sleep.push(proc, sc.SleepAmount)
		// The ledger entry just pushed is itself live as of this call, so
		// the common decrement applies to it too: a process that sleeps
		// for n after using u charges its own ledger by u+1 before anyone
		// else's (§8.3 scenario 3).
		s.wakeSleepersAfter(elapsed)

		s.log.Debug("sleep",
			zap.Int64("pid", int64(proc.PID)), zap.Int("amount", sc.SleepAmount))
		return successResult()

	case SyscallWait:
		proc.Timings.CPU += used
		proc.Timings.Syscalls++
		proc.State = eventState(sc.Event)
		if s.cfg.Policy == PolicyRRP {
			proc.Priority = maxInt(proc.Priority-1, 0)
		}
		s.running = nil
		s.remaining = s.cfg.Timeslice

		s.wait.add(proc)
		s.wakeSleepersAfter(elapsed)

		s.log.Debug("wait",
			zap.Int64("pid", int64(proc.PID)), zap.Int64("event", int64(sc.Event)))
		return successResult()

	case SyscallSignal:
		proc.Timings.CPU += used
		proc.Timings.Syscalls++
		s.remaining = remaining
		s.wakeSleepersAfter(elapsed)

		woken := s.wait.waitersForEvent(sc.Event)
		for _, w := range woken {
			// Signal does not change a woken waiter's priority (§4.2).
			s.wakeProcess(w)
		}

		s.log.Debug("signal",
			zap.Int64("pid", int64(proc.PID)), zap.Int64("event", int64(sc.Event)),
			zap.Int("woken", len(woken)))
		return successResult()

	case SyscallExit:
		s.running = nil
		s.remaining = s.cfg.Timeslice
		if proc.PID == 1 {
			s.initExited = true
		}
		// Exit does not decrement or check the sleep ledger: the exiting
		// record never returns for a next turn, so it charges wall-clock
		// (above) but does not drive deferred-wake accounting the way a
		// continuing syscall does (§8.3 scenario 3).

		s.log.Debug("exit", zap.Int64("pid", int64(proc.PID)))
		return successResult()

	default:
		// Unreachable: Syscall is constructed exclusively via this
		// package's constructors, all of which set a valid Kind.
		return successResult()
	}
}

// wakeSleepersAfter decrements every timed sleeper's ledger by elapsed
// and wakes any whose ledger reached zero. Called from every syscall that
// returns the caller for a future turn (Fork, Sleep, Wait, Signal); Exit
// terminates the caller outright and skips it (§8.3 scenario 3). Expiry
// has no analogous wake step since it advances wall-clock but not the
// deferred-wake mechanism used by Sleep decisions.
func (s *Scheduler) wakeSleepersAfter(elapsed int) {
	s.sleep.decrementAll(elapsed)
	for {
		_, remaining, ok := s.sleep.peek()
		if !ok || remaining > 0 {
			return
		}
		proc, _, _ := s.sleep.popMin()
		s.wakeProcess(proc)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

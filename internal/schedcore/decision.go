package schedcore

import "go.uber.org/zap"

// Next implements the decision engine (§4.1): it charges any deferred
// wake time from a prior Sleep decision, then evaluates the five rules
// in order and returns the resulting Decision.
func (s *Scheduler) Next() Decision {
	if s.hasTerminal {
		return s.terminal
	}

	// Preamble: charge deferred_wake to every live record and to the
	// sleep ledger, then clear it.
	if s.deferredWake > 0 {
		s.chargeWallClock(s.deferredWake)
		s.sleep.decrementAll(s.deferredWake)
		s.deferredWake = 0
	}

	// Rule 1: a process is already running.
	if s.running != nil {
		if s.remaining < s.cfg.MinimumRemaining {
			s.log.Debug("rule 1: preempting running process (remaining below minimum)",
				zap.Int64("pid", int64(s.running.PID)),
				zap.Int("remaining", s.remaining))
			s.running.State = readyState()
			s.ready.push(s.running)
			s.running = nil
			// fall through to rule 2
		} else {
			d := runDecision(s.running.PID, s.remaining)
			s.log.Debug("rule 1: continuing running process",
				zap.Int64("pid", int64(d.PID)), zap.Int("timeslice", d.Timeslice))
			return d
		}
	}

	// Rule 2: init_exited is checked and consumed on the first rule-2
	// evaluation after Exit, whether or not a ready record happens to
	// exist yet — it must not linger and fire against an unrelated
	// arrival (e.g. a later sleep-wakeup) several Next calls on (§8.3
	// scenario 3 vs. scenario 5). Panic fires if a ready record exists, or
	// if every remaining waiter is blocked on an event (Panic takes
	// precedence over Deadlock, §4.4).
	if s.initExited {
		s.initExited = false
		if s.ready.len() > 0 || (s.wait.len() > 0 && s.wait.allBlockedOnEvents()) {
			return s.latchTerminal(panicDecision(), "rule 2: init exited while other processes remain")
		}
	} else if s.ready.len() > 0 {
		p, _ := s.ready.pop()
		p.State = runningState()
		s.running = p
		s.remaining = s.cfg.Timeslice
		d := runDecision(p.PID, s.cfg.Timeslice)
		s.log.Debug("rule 2: scheduling ready process",
			zap.Int64("pid", int64(d.PID)), zap.Int("timeslice", d.Timeslice),
			zap.Int("priority", p.Priority))
		return d
	}

	// Rule 3: nothing waiting either — simulation is over.
	if s.wait.len() == 0 {
		return s.latchTerminal(doneDecision(), "rule 3: no ready, running, or waiting processes")
	}

	// Rule 4: every waiter is blocked on an event — no one can ever wake.
	if s.wait.allBlockedOnEvents() {
		return s.latchTerminal(deadlockDecision(), "rule 4: all waiters blocked on events")
	}

	// Rule 5: at least one timed sleeper — wake the one closest to done.
	proc, amount, ok := s.sleep.popMin()
	if !ok {
		// Unreachable given rule 4's check, but fail safe rather than panic.
		return s.latchTerminal(deadlockDecision(), "rule 5: no timed sleeper found despite rule 4 check")
	}
	s.wakeProcess(proc)
	s.deferredWake = amount
	s.log.Debug("rule 5: sleeping CPU until next timed sleeper wakes",
		zap.Int64("pid", int64(proc.PID)), zap.Int("amount", amount))
	return sleepDecision(amount)
}

// latchTerminal records d as the terminal decision (consumed once, then
// repeated on subsequent Next calls per §4.4/§7) and logs it at Info
// the first time it is reached.
func (s *Scheduler) latchTerminal(d Decision, reason string) Decision {
	s.hasTerminal = true
	s.terminal = d
	s.log.Info("reached terminal decision",
		zap.Stringer("decision", d.Kind), zap.String("reason", reason))
	return d
}

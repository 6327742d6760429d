package httpapi

import (
	"fmt"

	"github.com/edirooss/schedsim/internal/schedcore"
)

// createSessionReq is the body of POST /api/sessions.
type createSessionReq struct {
	Policy           string `json:"policy"` // "rr" or "rrp"
	Timeslice        int    `json:"timeslice"`
	MinimumRemaining int    `json:"minimum_remaining"`
	InitPriority     int    `json:"init_priority"`
}

func parsePolicy(s string) (schedcore.Policy, error) {
	switch s {
	case "", "rr":
		return schedcore.PolicyRR, nil
	case "rrp":
		return schedcore.PolicyRRP, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

func policyName(p schedcore.Policy) string {
	if p == schedcore.PolicyRRP {
		return "rrp"
	}
	return "rr"
}

// stopReq is the body of POST /api/sessions/:id/stop.
type stopReq struct {
	// Reason is "expired" or "syscall".
	Reason    string `json:"reason"`
	Remaining int    `json:"remaining"`

	// Syscall fields, meaningful only when Reason == "syscall".
	Syscall      string `json:"syscall"` // "fork", "sleep", "wait", "signal", "exit"
	ForkPriority int    `json:"fork_priority"`
	SleepAmount  int    `json:"sleep_amount"`
	Event        int64  `json:"event"`
}

func (r stopReq) toStopReason() (schedcore.StopReason, error) {
	if r.Reason == "expired" {
		return schedcore.Expired(), nil
	}
	if r.Reason != "syscall" {
		return schedcore.StopReason{}, fmt.Errorf("unknown reason %q", r.Reason)
	}

	var sc schedcore.Syscall
	switch r.Syscall {
	case "fork":
		sc = schedcore.Fork(r.ForkPriority)
	case "sleep":
		sc = schedcore.Sleep(r.SleepAmount)
	case "wait":
		sc = schedcore.Wait(schedcore.EventID(r.Event))
	case "signal":
		sc = schedcore.SignalEvent(schedcore.EventID(r.Event))
	case "exit":
		sc = schedcore.ExitSyscall()
	default:
		return schedcore.StopReason{}, fmt.Errorf("unknown syscall %q", r.Syscall)
	}
	return schedcore.SyscallStop(sc, r.Remaining), nil
}

// snapshotDTO is the wire shape of a schedcore.Snapshot.
type snapshotDTO struct {
	PID          int64     `json:"pid"`
	State        stateDTO  `json:"state"`
	Total        int       `json:"total"`
	Syscalls     int       `json:"syscalls"`
	CPU          int       `json:"cpu"`
	Priority     int       `json:"priority"`
	BasePriority int       `json:"base_priority"`
	Label        string    `json:"label,omitempty"`
}

type stateDTO struct {
	Kind     string `json:"kind"`
	HasEvent bool   `json:"has_event,omitempty"`
	Event    int64  `json:"event,omitempty"`
}

func toSnapshotDTO(s schedcore.Snapshot) snapshotDTO {
	return snapshotDTO{
		PID: int64(s.PID),
		State: stateDTO{
			Kind:     s.State.Kind.String(),
			HasEvent: s.State.HasEvent,
			Event:    int64(s.State.Event),
		},
		Total:        s.Timings.Total,
		Syscalls:     s.Timings.Syscalls,
		CPU:          s.Timings.CPU,
		Priority:     s.Priority,
		BasePriority: s.BasePriority,
		Label:        s.Label,
	}
}

func toSnapshotDTOs(snaps []schedcore.Snapshot) []snapshotDTO {
	out := make([]snapshotDTO, len(snaps))
	for i, s := range snaps {
		out[i] = toSnapshotDTO(s)
	}
	return out
}

// decisionDTO is the wire shape of a schedcore.Decision.
type decisionDTO struct {
	Kind        string `json:"kind"`
	PID         int64  `json:"pid,omitempty"`
	Timeslice   int    `json:"timeslice,omitempty"`
	SleepAmount int    `json:"sleep_amount,omitempty"`
}

func toDecisionDTO(d schedcore.Decision) decisionDTO {
	return decisionDTO{
		Kind:        d.Kind.String(),
		PID:         int64(d.PID),
		Timeslice:   d.Timeslice,
		SleepAmount: d.SleepAmount,
	}
}

// resultDTO is the wire shape of a schedcore.SyscallResult.
type resultDTO struct {
	Kind string `json:"kind"`
	PID  int64  `json:"pid,omitempty"`
}

func toResultDTO(r schedcore.SyscallResult) resultDTO {
	kind := "success"
	switch r.Kind {
	case schedcore.ResultPid:
		kind = "pid"
	case schedcore.ResultNoRunningProcess:
		kind = "no_running_process"
	}
	return resultDTO{Kind: kind, PID: int64(r.PID)}
}

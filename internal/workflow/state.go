// Package workflow models the lifecycle of a single user action (upload, review,
// delete) as one value instead of a set of independent booleans.
package workflow

import "fmt"

type Phase string

const (
	Idle       Phase = "idle"
	InProgress Phase = "in-progress"
	Succeeded  Phase = "succeeded"
	Failed     Phase = "failed"
)

// State is Idle, InProgress, Succeeded or Failed(Reason). Reason is only set when Failed.
type State struct {
	Phase  Phase
	Reason error
}

func NewIdle() State {
	return State{Phase: Idle}
}

func NewInProgress() State {
	return State{Phase: InProgress}
}

func NewSucceeded() State {
	return State{Phase: Succeeded}
}

func NewFailed(reason error) State {
	if reason == nil {
		reason = fmt.Errorf("unknown failure")
	}
	return State{Phase: Failed, Reason: reason}
}

func (s State) IsBusy() bool {
	return s.Phase == InProgress
}

func (s State) IsFailed() bool {
	return s.Phase == Failed
}

func (s State) String() string {
	if s.Phase == "" {
		return string(Idle)
	}
	if s.Phase == Failed {
		return fmt.Sprintf("%s: %v", s.Phase, s.Reason)
	}
	return string(s.Phase)
}

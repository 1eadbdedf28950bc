package export

import (
	"sync"
	"time"
)

// SettleFor is how long a finished action shows its result before it
// returns to idle.
const SettleFor = 3 * time.Second

type ActionState int

const (
	Idle ActionState = iota
	InProgress
	Succeeded
	Failed
)

func (s ActionState) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Action tracks a user-triggered operation such as a download or a share.
// A settled result is reported until SettleFor has elapsed, after which the
// action reads as idle again.
type Action struct {
	mu        sync.Mutex
	state     ActionState
	settledAt time.Time
	err       error
}

// Begin moves the action to InProgress. It reports false when the action is
// already running.
func (a *Action) Begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == InProgress {
		return false
	}
	a.state = InProgress
	a.err = nil
	return true
}

func (a *Action) Finish(err error, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = Succeeded
	if err != nil {
		a.state = Failed
	}
	a.err = err
	a.settledAt = now
}

func (a *Action) State(now time.Time) ActionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if (a.state == Succeeded || a.state == Failed) && now.Sub(a.settledAt) >= SettleFor {
		a.state = Idle
		a.err = nil
	}
	return a.state
}

// Err is the failure of the last settled run, if it has not yet reverted.
func (a *Action) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

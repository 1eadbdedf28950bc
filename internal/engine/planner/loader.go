package planner

import (
	"context"
	"sync"
	"time"
)

type LoadPhase int

const (
	LoadIdle LoadPhase = iota
	Loading
	Loaded
	LoadFailed
)

// Load is the snapshot of one loader.
type Load[T any] struct {
	Phase LoadPhase
	Value T
	Err   string
}

// Loader is a small idle/loading/loaded/failed state machine for one
// independent fetch. The zero value is ready to use.
type Loader[T any] struct {
	mu    sync.Mutex
	state Load[T]
}

func (l *Loader[T]) State() Load[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Run executes fetch with the given timeout and records the outcome. A
// previous value survives a failed reload.
func (l *Loader[T]) Run(ctx context.Context, timeout time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	l.state.Phase = Loading
	l.state.Err = ""
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	v, err := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state.Phase = LoadFailed
		l.state.Err = err.Error()
		var zero T
		return zero, err
	}
	l.state = Load[T]{Phase: Loaded, Value: v}
	return v, nil
}

package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrTaskGroupClosed is returned when a task is registered after the
// group's barrier has already drained it.
var ErrTaskGroupClosed = errors.New("task group already drained")

// TaskGroup tracks the background speech-synthesis tasks spawned while
// rendering one turn. It is scoped to exactly one turn: the renderer
// appends to it during dispatch, the orchestrator drains it once at the
// barrier and releases it on every exit path.
type TaskGroup struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
	size   int
	errs   []error
}

func NewTaskGroup() *TaskGroup {
	return &TaskGroup{}
}

// Go registers and starts one background task. Registering after the
// barrier has run is a programming error and fails fast with
// ErrTaskGroupClosed. Individual task failures (and panics) are collected
// for the barrier; they never abort the turn or sibling tasks.
func (g *TaskGroup) Go(name string, run func() error) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrTaskGroupClosed
	}
	g.size++
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer func() {
			if recovered := recover(); recovered != nil {
				g.recordError(fmt.Errorf("%s task panicked: %v", name, recovered))
			}
		}()

		if err := run(); err != nil {
			g.recordError(fmt.Errorf("%s task failed: %w", name, err))
		}
	}()
	return nil
}

func (g *TaskGroup) recordError(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Len reports the number of registered tasks; it drops to zero once the
// group has been drained or released.
func (g *TaskGroup) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.size
}

// Wait is the barrier: it blocks until every registered task has settled,
// then closes the group and returns the collected task failures. If ctx
// is cancelled first the group is released without waiting and the
// context error is returned, so abandoned tasks cannot block a cancelled
// turn.
func (g *TaskGroup) Wait(ctx context.Context) ([]error, error) {
	settled := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(settled)
	}()

	select {
	case <-ctx.Done():
		g.Release()
		return nil, ctx.Err()
	case <-settled:
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.size = 0
	errs := g.errs
	g.errs = nil
	return errs, nil
}

// Release abandons the group without waiting. Safe to call on any exit
// path, any number of times; it never fails.
func (g *TaskGroup) Release() {
	g.mu.Lock()
	g.closed = true
	g.size = 0
	g.errs = nil
	g.mu.Unlock()
}

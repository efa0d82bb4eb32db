package notify

import (
	"fmt"
	"io"
	"sync"
)

// Terminal prints notifications as styled lines. Loading lines are only
// printed once per id; dismissing an unknown id is ignored.
type Terminal struct {
	out   io.Writer
	errw  io.Writer
	quiet bool

	mu     sync.Mutex
	active map[string]string
}

// NewTerminal writes progress and success lines to out and errors to errw.
// A nil errw drops error notifications, for callers that report the returned
// error themselves. When quiet is set, loading lines are suppressed.
func NewTerminal(out, errw io.Writer, quiet bool) *Terminal {
	return &Terminal{out: out, errw: errw, quiet: quiet, active: make(map[string]string)}
}

func (t *Terminal) Loading(id, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.active[id]; ok {
		return
	}
	t.active[id] = message
	if !t.quiet {
		fmt.Fprintln(t.out, Pending(message))
	}
}

func (t *Terminal) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, id)
}

func (t *Terminal) Success(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, OK(message))
}

func (t *Terminal) Error(message string) {
	if t.errw == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.errw, Fail(message))
}

// Active returns the number of loading notifications not yet dismissed.
func (t *Terminal) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Package execxtest provides a scripted execx.Runner for tests.
package execxtest

import (
	"context"
	"io"
	"sync"

	"github.com/bryanchriswhite/swaycap/internal/execx"
)

// Call records one invocation seen by Fake.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// Response is what Fake answers for a Run call.
type Response struct {
	Stdout string
	Err    error
}

// Exit builds the error a program exiting with code produces.
func Exit(name string, code int) *execx.ExitError {
	return &execx.ExitError{Name: name, Code: code}
}

// Fake is an execx.Runner answering from queued responses or handlers
// keyed by program name. Unscripted programs succeed with empty output.
type Fake struct {
	mu       sync.Mutex
	calls    []Call
	queued   map[string][]Response
	handlers map[string]func(Call) Response

	// StartFunc handles Start; by default a Proc with pid 4242 that exits 0.
	StartFunc func(Call) (execx.Process, error)
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		queued:   make(map[string][]Response),
		handlers: make(map[string]func(Call) Response),
	}
}

// Queue appends responses returned, in order, to the next Run calls of name.
func (f *Fake) Queue(name string, responses ...Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[name] = append(f.queued[name], responses...)
}

// On installs a handler for name used once its queue is empty.
func (f *Fake) On(name string, fn func(Call) Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = fn
}

func (f *Fake) record(c execx.Cmd) Call {
	call := Call{Name: c.Name, Args: append([]string(nil), c.Args...)}
	if c.Stdin != nil {
		data, _ := io.ReadAll(c.Stdin)
		call.Stdin = string(data)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return call
}

func (f *Fake) Run(ctx context.Context, c execx.Cmd) ([]byte, error) {
	call := f.record(c)

	f.mu.Lock()
	var resp Response
	if q := f.queued[c.Name]; len(q) > 0 {
		resp, f.queued[c.Name] = q[0], q[1:]
	} else if h, ok := f.handlers[c.Name]; ok {
		f.mu.Unlock()
		resp = h(call)
		f.mu.Lock()
	}
	f.mu.Unlock()

	return []byte(resp.Stdout), resp.Err
}

func (f *Fake) Start(ctx context.Context, c execx.Cmd) (execx.Process, error) {
	call := f.record(c)
	if f.StartFunc != nil {
		return f.StartFunc(call)
	}
	return &Proc{PID: 4242}, nil
}

// Calls returns every recorded invocation.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded invocations of name.
func (f *Fake) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Proc is a fake started process.
type Proc struct {
	PID      int
	WaitFunc func() error
}

func (p *Proc) Pid() int {
	return p.PID
}

func (p *Proc) Wait() error {
	if p.WaitFunc != nil {
		return p.WaitFunc()
	}
	return nil
}

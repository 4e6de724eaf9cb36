package machine

import (
	"context"
	"errors"
	"fmt"

	"github.com/mna/lilypad/lang/hashing"
	"github.com/mna/lilypad/lang/token"
)

// resolutionCacheSize is the number of slots of a thread's function
// resolution cache.
const resolutionCacheSize = 64

var errMaxSteps = errors.New("maximum number of steps exceeded")

// A Thread holds the state of a chain of nested calls: the call stack, the
// limits that apply to it and the cancellation context. A Thread is not safe
// for concurrent use, but distinct threads of the same Engine may run
// concurrently.
type Thread struct {
	// Name is an optional name that describes the thread, mostly for debugging.
	Name string

	// MaxSteps is the maximum number of "steps", a deliberately unspecified
	// measure of execution time (currently the number of function calls),
	// before the thread is cancelled. A value <= 0 means no limit.
	MaxSteps int

	// MaxCallStackDepth limits the number of nested function calls. A value <=
	// 0 means no limit.
	MaxCallStackDepth int

	ctx       context.Context
	ctxCancel context.CancelCauseFunc
	callStack []*Frame
	cache     *hashing.Cache[*Function]

	steps uint64
}

func newThread(ctx context.Context, cfg Config) *Thread {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancelCause(ctx)
	return &Thread{
		MaxSteps:          cfg.MaxSteps,
		MaxCallStackDepth: cfg.MaxCallDepth,
		ctx:               ctx,
		ctxCancel:         cancel,
		cache:             hashing.NewCache[*Function](resolutionCacheSize),
	}
}

// Context returns the context of the thread.
func (th *Thread) Context() context.Context { return th.ctx }

// Cancel cancels the thread: any subsequent call fails.
func (th *Thread) Cancel(cause error) { th.ctxCancel(cause) }

// Depth returns the current depth of the call stack.
func (th *Thread) Depth() int { return len(th.callStack) }

// CallStack returns a copy of the current call stack, the innermost call
// last.
func (th *Thread) CallStack() []Frame {
	frames := make([]Frame, len(th.callStack))
	for i, fr := range th.callStack {
		frames[i] = *fr
	}
	return frames
}

// push checks the thread's limits and pushes a new frame for the call of fn
// from pos.
func (th *Thread) push(fn *Function, pos token.Pos) error {
	if th.ctx.Err() != nil {
		return fmt.Errorf("thread cancelled: %w", context.Cause(th.ctx))
	}

	th.steps++
	if th.MaxSteps > 0 && th.steps > uint64(th.MaxSteps) {
		th.ctxCancel(errMaxSteps)
		return fmt.Errorf("thread cancelled: %w", context.Cause(th.ctx))
	}
	if limit := th.MaxCallStackDepth; limit > 0 && len(th.callStack) >= limit {
		return fmt.Errorf("function %s: maximum call stack depth of %d exceeded", fn.Name, limit)
	}

	// As an optimization, use slack portion of thread.callStack slice as a
	// freelist of empty frames.
	var fr *Frame
	if n := len(th.callStack); n < cap(th.callStack) {
		fr = th.callStack[n : n+1][0]
	}
	if fr == nil {
		fr = new(Frame)
	}
	fr.fn = fn
	fr.callPos = pos
	th.callStack = append(th.callStack, fr)
	return nil
}

func (th *Thread) pop() {
	n := len(th.callStack) - 1
	fr := th.callStack[n]
	// clear out any references
	*fr = Frame{}
	th.callStack = th.callStack[:n]
}

// Package frame provides the engine's cooperative event/animation loop.
//
// All engine state (scene, view transform, simulation) has a single owner:
// the loop goroutine. External callers marshal mutations onto the loop with
// Do; per-frame work (physics ticks, viewport animation) registers as a
// ticker. There is no shared-memory concurrency anywhere above this
// package.
package frame

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// DefaultInterval is one frame at roughly 60fps.
const DefaultInterval = 16 * time.Millisecond

// TickFunc is invoked once per frame with the elapsed time in seconds.
type TickFunc func(dt float64)

// PanicHandler receives recovered panics from loop callbacks.
type PanicHandler func(err error)

// debugLog is set by the host to enable verbose loop traces.
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function for the frame package.
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

type tickerEntry struct {
	id uint32
	fn TickFunc
}

// Loop is the recurring frame scheduler. It must be stopped explicitly on
// teardown; a leaked loop is a leaked goroutine and a leaked ticker.
type Loop struct {
	interval time.Duration
	thunks   chan func()
	stop     chan struct{}
	stopped  chan struct{}
	running  atomic.Bool

	// Owned by the loop goroutine.
	tickers []tickerEntry
	nextID  uint32

	onPanic PanicHandler
}

// New creates a loop with the default frame interval.
func New() *Loop {
	return NewWithInterval(DefaultInterval)
}

// NewWithInterval creates a loop ticking at the given interval. Tests use
// short intervals to settle quickly.
func NewWithInterval(interval time.Duration) *Loop {
	return &Loop{
		interval: interval,
		thunks:   make(chan func(), 256),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// SetPanicHandler installs a handler for panics recovered in callbacks.
// Without one, panics are logged through the debug hook and swallowed:
// nothing inside the engine is allowed to take the host down.
func (l *Loop) SetPanicHandler(h PanicHandler) {
	l.onPanic = h
}

// Start launches the loop goroutine. Starting twice is a no-op.
func (l *Loop) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	go l.run()
}

// Stop halts the loop and waits for the goroutine to exit. Pending thunks
// are discarded.
func (l *Loop) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	close(l.stop)
	<-l.stopped
}

// Running reports whether the loop goroutine is alive.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Do marshals fn onto the loop goroutine without waiting. When the loop is
// not running, fn is dropped; teardown races resolve toward doing nothing.
func (l *Loop) Do(fn func()) {
	if !l.running.Load() {
		return
	}
	select {
	case l.thunks <- fn:
	case <-l.stop:
	}
}

// Call runs fn on the loop goroutine and waits for it to finish. Intended
// for reads of loop-owned state from other goroutines.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.Do(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-l.stop:
	}
}

// AddTicker registers a per-frame callback and returns its removal handle.
// Both registration and removal are marshaled onto the loop.
func (l *Loop) AddTicker(fn TickFunc) (remove func()) {
	id := atomic.AddUint32(&l.nextID, 1)
	l.Do(func() {
		l.tickers = append(l.tickers, tickerEntry{id: id, fn: fn})
	})
	return func() {
		l.Do(func() {
			for i, t := range l.tickers {
				if t.id == id {
					l.tickers = append(l.tickers[:i], l.tickers[i+1:]...)
					return
				}
			}
		})
	}
}

func (l *Loop) run() {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-l.stop:
			if debugLog != nil {
				debugLog("[Frame] Loop stopped")
			}
			return

		case fn := <-l.thunks:
			l.invoke(fn)

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			for _, t := range l.tickers {
				l.tick(t.fn, dt)
			}
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer l.recover()
	fn()
}

func (l *Loop) tick(fn TickFunc, dt float64) {
	defer l.recover()
	fn(dt)
}

func (l *Loop) recover() {
	if r := recover(); r != nil {
		err := fmt.Errorf("frame callback panic: %v\n%s", r, debug.Stack())
		if l.onPanic != nil {
			l.onPanic(err)
		} else if debugLog != nil {
			debugLog("[Frame]", err)
		}
	}
}

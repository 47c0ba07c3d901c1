package bridge

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrQueueClosed is the panic value of Dispatch on a closed SerialQueue.
var ErrQueueClosed = errors.New("serial queue is closed")

// Executor runs continuations. Dispatch must not block on fn.
type Executor interface {
	Dispatch(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

// Dispatch calls f(fn).
func (f ExecutorFunc) Dispatch(fn func()) { f(fn) }

type inline struct{}

func (inline) Dispatch(fn func()) { fn() }

// Inline runs continuations on the dispatching goroutine, before Dispatch
// returns.
//
//nolint:gochecknoglobals // Stateless executor value
var Inline Executor = inline{}

// SerialQueue is an unbounded FIFO executor drained by a single goroutine.
// Tasks run one at a time in dispatch order.
type SerialQueue struct {
	name string

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool

	executing atomic.Bool
	done      chan struct{}
}

// NewSerialQueue starts a queue. Close it to stop its goroutine.
func NewSerialQueue(name string) *SerialQueue {
	q := &SerialQueue{name: name, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Name returns the queue label.
func (q *SerialQueue) Name() string {
	return q.name
}

// Dispatch appends fn to the queue. It never blocks on running tasks.
// Dispatching to a closed queue panics with ErrQueueClosed.
func (q *SerialQueue) Dispatch(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		panic(ErrQueueClosed)
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
	q.cond.Signal()
}

// Executing reports whether one of q's tasks is running right now. Called
// from inside a task it is always true.
func (q *SerialQueue) Executing() bool {
	return q.executing.Load()
}

// Len returns the number of queued tasks not yet started.
func (q *SerialQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops accepting tasks, runs the ones already queued and waits for the
// queue goroutine to exit. It must not be called from a task of q.
func (q *SerialQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
	<-q.done
}

func (q *SerialQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.executing.Store(true)
		fn()
		q.executing.Store(false)
	}
}

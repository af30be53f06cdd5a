package walk

import (
	"context"
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"github.com/sourcegraph/conc"
)

// VisitFunc processes one directory. It may call enqueue for every
// subdirectory that should be visited as well.
type VisitFunc func(ctx context.Context, dir string, enqueue func(dir string))

// Executor schedules directory visits until no work remains.
type Executor interface {
	Run(ctx context.Context, root string, visit VisitFunc) error
}

// DefaultWorkers returns the number of physical cores, or the number of
// logical CPUs when the physical count cannot be determined.
func DefaultWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Pool is a fixed set of workers draining a shared queue of directories.
// A Pool holds no per-walk state and may be reused or run concurrently.
type Pool struct {
	workers int
}

// NewPool returns a pool with the given number of workers. A value below one
// selects DefaultWorkers.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	return &Pool{workers: workers}
}

// Workers returns the size of the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Run visits root and everything enqueued from it, returning once the queue
// is drained and every worker is idle, or once ctx is done.
func (p *Pool) Run(ctx context.Context, root string, visit VisitFunc) error {
	q := newDirQueue()
	q.push(root)

	stop := context.AfterFunc(ctx, q.close)
	defer stop()

	var wg conc.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Go(func() {
			for {
				dir, ok := q.pop()
				if !ok {
					return
				}
				func() {
					defer q.done()
					visit(ctx, dir, q.push)
				}()
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

// dirQueue is a LIFO stack of pending directories. pending counts queued
// plus in-flight directories; the queue closes itself when it reaches zero.
type dirQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	stack   []string
	pending int
	closed  bool
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *dirQueue) push(dir string) {
	q.mu.Lock()
	if !q.closed {
		q.stack = append(q.stack, dir)
		q.pending++
		q.cond.Signal()
	}
	q.mu.Unlock()
}

// pop blocks until a directory is available or the queue is closed.
func (q *dirQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.stack) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return "", false
	}

	n := len(q.stack) - 1
	dir := q.stack[n]
	q.stack[n] = ""
	q.stack = q.stack[:n]
	return dir, true
}

// done marks one popped directory as fully visited.
func (q *dirQueue) done() {
	q.mu.Lock()
	q.pending--
	if q.pending == 0 {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

func (q *dirQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.stack = nil
	q.cond.Broadcast()
	q.mu.Unlock()
}

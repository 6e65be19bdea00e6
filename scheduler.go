package commandchest

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickInterval is the duration of one scheduler tick, matching the game's
// 20 TPS clock.
const TickInterval = 50 * time.Millisecond

// deferredTask is one function queued for a later tick.
type deferredTask struct {
	// runAt is the tick number the task becomes due.
	runAt uint64

	// seq preserves FIFO order between tasks due on the same tick.
	seq uint64

	fn func()

	// index is the heap index.
	index int
}

// Scheduler defers work to later turns of the single event-processing
// thread. Deferral is reordering within one cooperative schedule, not
// concurrency: tasks due on the same tick run in submission order, and a
// scheduled task cannot be cancelled.
type Scheduler struct {
	mu   sync.Mutex
	heap []*deferredTask
	tick uint64
	seq  uint64

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates an idle scheduler. Drive it either with Start, which
// ticks it on a background loop, or by calling Tick directly.
func NewScheduler() *Scheduler {
	return &Scheduler{
		heap:   make([]*deferredTask, 0, 16),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Schedule queues fn to run after delayTicks ticks. A delay of 0 or 1 runs on
// the next tick; work is never executed inline.
func (s *Scheduler) Schedule(delayTicks int, fn func()) {
	if delayTicks < 1 {
		delayTicks = 1
	}
	s.mu.Lock()
	task := &deferredTask{
		runAt: s.tick + uint64(delayTicks),
		seq:   s.seq,
		fn:    fn,
	}
	s.seq++
	s.push(task)
	s.mu.Unlock()
}

// Tick advances the clock one tick and runs every task that became due, in
// FIFO submission order. Tasks scheduled by a running task are due no earlier
// than the following tick.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	s.tick++
	var due []*deferredTask
	for len(s.heap) > 0 && s.heap[0].runAt <= s.tick {
		due = append(due, s.pop())
	}
	s.mu.Unlock()

	for _, task := range due {
		task.fn()
	}
}

// Start begins ticking on a background goroutine at TickInterval.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return
	}
	go s.loop()
}

// Stop halts the background loop and waits for the current tick to finish.
// Pending tasks are discarded.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-s.stopCh:
			return
		}
	}
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.heap)
}

// Min-heap ordered by (runAt, seq). Caller must hold s.mu.

func (s *Scheduler) push(task *deferredTask) {
	task.index = len(s.heap)
	s.heap = append(s.heap, task)
	s.up(task.index)
}

func (s *Scheduler) pop() *deferredTask {
	n := len(s.heap) - 1
	s.swap(0, n)
	s.down(0, n)
	task := s.heap[n]
	s.heap[n] = nil
	s.heap = s.heap[:n]
	task.index = -1
	return task
}

func (s *Scheduler) less(i, j int) bool {
	a, b := s.heap[i], s.heap[j]
	if a.runAt != b.runAt {
		return a.runAt < b.runAt
	}
	return a.seq < b.seq
}

func (s *Scheduler) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !s.less(i, parent) {
			break
		}
		s.swap(i, parent)
		i = parent
	}
}

func (s *Scheduler) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && s.less(right, left) {
			j = right
		}
		if !s.less(j, i) {
			break
		}
		s.swap(i, j)
		i = j
	}
}

func (s *Scheduler) swap(i, j int) {
	s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
	s.heap[i].index = i
	s.heap[j].index = j
}

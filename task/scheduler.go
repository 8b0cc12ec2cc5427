// Package task runs cooperative timed waits on a single logical thread.
//
// A task is a continuation scheduled to run once a number of real-time
// seconds has elapsed. Continuations only ever run from Poll, on the
// goroutine that calls it, so the code they touch needs no locking.
// Cancelling a task guarantees its continuation never runs.
package task

import (
	"container/heap"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/sparks/clock"
)

// Id identifies a scheduled task. The zero Id never names a task.
type Id uint64

type entry struct {
	id    Id
	due   time.Time
	seq   uint64
	fn    func()
	index int
}

// Scheduler holds pending timed waits ordered by deadline.
type Scheduler struct {
	clock   clock.Clock
	tasks   *intmap.Map[Id, *entry]
	queue   deadlineQueue
	nextId  Id
	seq     uint64
	polling bool
	current time.Time
}

// New creates a scheduler reading time from c.
func New(c clock.Clock) *Scheduler {
	if c == nil {
		panic("task scheduler requires a clock")
	}
	return &Scheduler{
		clock: c,
		tasks: intmap.New[Id, *entry](64),
	}
}

// Now returns the scheduling reference time. While a continuation is
// running this is the deadline it fired for, so waits chained from inside
// a continuation keep exact spacing even when Poll runs late.
func (s *Scheduler) Now() time.Time {
	if s.polling {
		return s.current
	}
	return s.clock.Now()
}

// After schedules fn to run once d has elapsed. Negative durations are treated as zero.
func (s *Scheduler) After(d time.Duration, fn func()) Id {
	if d < 0 {
		d = 0
	}
	s.nextId++
	s.seq++
	e := &entry{
		id:  s.nextId,
		due: s.Now().Add(d),
		seq: s.seq,
		fn:  fn,
	}
	s.tasks.Put(e.id, e)
	heap.Push(&s.queue, e)
	return e.id
}

// Cancel removes a pending task. Returns false if the task already ran or was cancelled.
func (s *Scheduler) Cancel(id Id) bool {
	e, ok := s.tasks.Get(id)
	if !ok {
		return false
	}
	s.tasks.Del(id)
	heap.Remove(&s.queue, e.index)
	e.fn = nil
	return true
}

// Pending reports whether the task is still waiting to run.
func (s *Scheduler) Pending(id Id) bool {
	return s.tasks.Has(id)
}

// Due returns the deadline of a pending task.
func (s *Scheduler) Due(id Id) (time.Time, bool) {
	e, ok := s.tasks.Get(id)
	if !ok {
		return time.Time{}, false
	}
	return e.due, true
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return s.tasks.Len()
}

// Poll runs every task whose deadline has been reached, earliest first.
// Tasks scheduled by a running continuation run in the same Poll if they
// are already due. Returns the number of continuations executed.
func (s *Scheduler) Poll() int {
	if s.polling {
		return 0
	}
	now := s.clock.Now()
	s.polling = true
	defer func() { s.polling = false }()

	ran := 0
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.due.After(now) {
			break
		}
		heap.Pop(&s.queue)
		s.tasks.Del(next.id)

		s.current = next.due
		fn := next.fn
		next.fn = nil
		fn()
		ran++
	}
	return ran
}

// deadlineQueue is a min-heap on (due, seq).
type deadlineQueue []*entry

func (q deadlineQueue) Len() int { return len(q) }

func (q deadlineQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q deadlineQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *deadlineQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *deadlineQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

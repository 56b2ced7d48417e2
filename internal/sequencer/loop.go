package sequencer

import (
	"container/heap"
	"time"
)

// Scheduler defers fn by d. Implementations must never call fn synchronously
// from After.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x any)   { *q = append(*q, x.(*timer)) }
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Loop is a virtual-time event loop. Timers due at the same instant fire in
// the order they were scheduled.
type Loop struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

func NewLoop() *Loop {
	return &Loop{queue: make(timerQueue, 0, 64)}
}

// Now returns the virtual time elapsed since the loop was created.
func (l *Loop) Now() time.Duration { return l.now }

// Pending returns the number of timers waiting to fire.
func (l *Loop) Pending() int { return len(l.queue) }

func (l *Loop) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	l.seq++
	heap.Push(&l.queue, &timer{at: l.now + d, seq: l.seq, fn: fn})
}

// Next reports when the earliest pending timer is due.
func (l *Loop) Next() (time.Duration, bool) {
	if len(l.queue) == 0 {
		return 0, false
	}
	return l.queue[0].at, true
}

// Advance moves virtual time forward by d, firing every timer that falls due,
// including timers scheduled by callbacks along the way. It returns the number
// of callbacks run.
func (l *Loop) Advance(d time.Duration) int {
	target := l.now + d
	fired := 0
	for len(l.queue) > 0 && l.queue[0].at <= target {
		t := heap.Pop(&l.queue).(*timer)
		l.now = t.at
		t.fn()
		fired++
	}
	if target > l.now {
		l.now = target
	}
	return fired
}

// Drain fires timers until none remain.
func (l *Loop) Drain() int {
	fired := 0
	for len(l.queue) > 0 {
		t := heap.Pop(&l.queue).(*timer)
		l.now = t.at
		t.fn()
		fired++
	}
	return fired
}

// Package scheduler serializes timer expiries and externally posted inputs
// into one ordered queue. Timers belong to a group; cancelling a group stops
// its timers and drops any of their events that already fired but were not yet
// consumed, so a stale timer can never reach the consumer.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Group tags timers that share a lifetime, typically one game phase.
type Group string

type entry[E any] struct {
	ev    E
	group Group
	epoch uint64
	timed bool
}

// Scheduler is a FIFO event queue fed by Post and by timers started with
// After. It is safe for concurrent producers; Next and TryNext are meant for a
// single consumer goroutine.
type Scheduler[E any] struct {
	clock quartz.Clock

	mu     sync.Mutex
	queue  []entry[E]
	epochs map[Group]uint64
	timers map[Group]map[uint64]*quartz.Timer
	nextID uint64
	notify chan struct{}
}

// New returns an empty scheduler driven by clock.
func New[E any](clock quartz.Clock) *Scheduler[E] {
	return &Scheduler[E]{
		clock:  clock,
		epochs: make(map[Group]uint64),
		timers: make(map[Group]map[uint64]*quartz.Timer),
		notify: make(chan struct{}, 1),
	}
}

// Clock returns the clock timers are scheduled on.
func (s *Scheduler[E]) Clock() quartz.Clock { return s.clock }

// Post enqueues ev immediately. Posted events are never cancelled.
func (s *Scheduler[E]) Post(ev E) {
	s.mu.Lock()
	s.queue = append(s.queue, entry[E]{ev: ev})
	s.mu.Unlock()
	s.signal()
}

// After enqueues ev once d has elapsed, unless group is cancelled first.
func (s *Scheduler[E]) After(group Group, d time.Duration, ev E) {
	s.mu.Lock()
	defer s.mu.Unlock()

	epoch := s.epochs[group]
	if d <= 0 {
		s.queue = append(s.queue, entry[E]{ev: ev, group: group, epoch: epoch, timed: true})
		s.signal()
		return
	}

	s.nextID++
	id := s.nextID
	timer := s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epochs[group] != epoch {
			return
		}
		delete(s.timers[group], id)
		s.queue = append(s.queue, entry[E]{ev: ev, group: group, epoch: epoch, timed: true})
		s.signal()
	}, "scheduler", string(group))

	if s.timers[group] == nil {
		s.timers[group] = make(map[uint64]*quartz.Timer)
	}
	s.timers[group][id] = timer
}

// Cancel stops every pending timer of group and discards its queued events.
// It returns how many timers were still pending.
func (s *Scheduler[E]) Cancel(group Group) int {
	s.mu.Lock()
	timers := s.cancelLocked(group)
	s.mu.Unlock()
	return stopAll(timers)
}

// CancelAll cancels every group.
func (s *Scheduler[E]) CancelAll() int {
	s.mu.Lock()
	var timers []*quartz.Timer
	for group := range s.epochs {
		timers = append(timers, s.cancelLocked(group)...)
	}
	for group := range s.timers {
		timers = append(timers, s.cancelLocked(group)...)
	}
	s.mu.Unlock()
	return stopAll(timers)
}

// cancelLocked bumps the group epoch, which already makes its timers inert;
// stopping them afterwards only releases the clock's resources.
func (s *Scheduler[E]) cancelLocked(group Group) []*quartz.Timer {
	s.epochs[group]++
	timers := make([]*quartz.Timer, 0, len(s.timers[group]))
	for _, t := range s.timers[group] {
		timers = append(timers, t)
	}
	delete(s.timers, group)
	return timers
}

func stopAll(timers []*quartz.Timer) int {
	n := 0
	for _, t := range timers {
		if t.Stop() {
			n++
		}
	}
	return n
}

// Pending returns the number of timers of group that have not fired.
func (s *Scheduler[E]) Pending(group Group) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[group])
}

// Len returns the number of queued events, including stale ones not yet
// discarded.
func (s *Scheduler[E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// TryNext pops the next live event without blocking.
func (s *Scheduler[E]) TryNext() (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) > 0 {
		e := s.queue[0]
		s.queue[0] = entry[E]{}
		s.queue = s.queue[1:]
		if e.timed && s.epochs[e.group] != e.epoch {
			continue
		}
		return e.ev, true
	}
	var zero E
	return zero, false
}

// Next blocks until an event is available or ctx is done.
func (s *Scheduler[E]) Next(ctx context.Context) (E, error) {
	for {
		if ev, ok := s.TryNext(); ok {
			return ev, nil
		}
		select {
		case <-s.notify:
		case <-ctx.Done():
			var zero E
			return zero, ctx.Err()
		}
	}
}

func (s *Scheduler[E]) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

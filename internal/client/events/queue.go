// Package events carries engine-to-host events and host-to-engine commands.
//
// Both directions are unbounded FIFO queues: producers never block and the
// consumer polls with TryReceive at its own cadence.
package events

import (
	"sync"

	"github.com/bradenaw/juniper/container/deque"
)

// Queue is an unbounded many-producer FIFO. The zero value is ready to use.
type Queue[T any] struct {
	mu    sync.Mutex
	items deque.Deque[T]
}

// Send appends v; it never blocks.
func (q *Queue[T]) Send(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushBack(v)
}

// TryReceive pops the oldest item, reporting false when the queue is empty.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopFront(), true
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Dispatcher bundles the two directions.
type Dispatcher struct {
	Events   *Queue[Event]
	Commands *Queue[Command]
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{Events: &Queue[Event]{}, Commands: &Queue[Command]{}}
}

// Emit is shorthand for d.Events.Send.
func (d *Dispatcher) Emit(e Event) {
	d.Events.Send(e)
}

package event

// Topic is a double-buffered queue for one event type. Events emitted during
// tick N are delivered in tick N+1 after Swap. Accessed only from the tick
// goroutine, no locks.
type Topic[T any] struct {
	front    []T
	back     []T
	handlers []func(T)
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{}
}

// Emit queues an event into the back buffer.
func (t *Topic[T]) Emit(ev T) {
	t.back = append(t.back, ev)
}

// Subscribe registers a handler called by Dispatch.
func (t *Topic[T]) Subscribe(fn func(T)) {
	t.handlers = append(t.handlers, fn)
}

// Swap rotates back to front and clears the new back buffer.
func (t *Topic[T]) Swap() {
	t.front, t.back = t.back, t.front[:0]
}

// Dispatch delivers every front-buffer event to every handler.
func (t *Topic[T]) Dispatch() int {
	for _, ev := range t.front {
		for _, h := range t.handlers {
			h(ev)
		}
	}
	return len(t.front)
}

// Pending reports events waiting for the next Swap.
func (t *Topic[T]) Pending() int {
	return len(t.back)
}

package engine

// ring keeps the most recent values up to a fixed capacity. Callers guard
// it with their own lock.
type ring[T any] struct {
	items []T
	next  int
	n     int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{items: make([]T, max(capacity, 1))}
}

func (r *ring[T]) push(v T) {
	r.items[r.next] = v
	r.next = (r.next + 1) % len(r.items)
	if r.n < len(r.items) {
		r.n++
	}
}

// ordered returns a copy, oldest first, or nil when empty.
func (r *ring[T]) ordered() []T {
	if r.n == 0 {
		return nil
	}
	out := make([]T, 0, r.n)
	if r.n == len(r.items) {
		out = append(out, r.items[r.next:]...)
		return append(out, r.items[:r.next]...)
	}
	return append(out, r.items[:r.n]...)
}

func (r *ring[T]) capacity() int { return len(r.items) }

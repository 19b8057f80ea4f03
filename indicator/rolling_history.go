// rolling_history.go implements a bounded FIFO of measurements with its arithmetic mean.

package indicator

import (
	"fmt"
)

// RollingHistory keeps the last Capacity values pushed into it, evicting the
// oldest first. It is not safe for concurrent use.
type RollingHistory[T Number] struct {
	values []T
	start  int
	count  int
}

func NewRollingHistory[T Number](capacity int) *RollingHistory[T] {
	if capacity <= 0 {
		panic(fmt.Errorf("rolling history capacity must be positive, got %d", capacity))
	}
	return &RollingHistory[T]{
		values: make([]T, capacity),
	}
}

func (h *RollingHistory[T]) Capacity() int {
	return len(h.values)
}

func (h *RollingHistory[T]) Len() int {
	return h.count
}

// Push appends v and returns true if the oldest value had to be evicted.
func (h *RollingHistory[T]) Push(v T) bool {
	if h.count < len(h.values) {
		h.values[(h.start+h.count)%len(h.values)] = v
		h.count++
		return false
	}
	h.values[h.start] = v
	h.start = (h.start + 1) % len(h.values)
	return true
}

// Mean is the arithmetic mean of the stored values, or 0 when empty.
func (h *RollingHistory[T]) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < h.count; i++ {
		sum += float64(h.values[(h.start+i)%len(h.values)])
	}
	return sum / float64(h.count)
}

func (h *RollingHistory[T]) Reset() {
	h.start = 0
	h.count = 0
}

// Values returns a copy of the stored values, oldest first.
func (h *RollingHistory[T]) Values() []T {
	out := make([]T, 0, h.count)
	for i := 0; i < h.count; i++ {
		out = append(out, h.values[(h.start+i)%len(h.values)])
	}
	return out
}

func (h *RollingHistory[T]) String() string {
	return fmt.Sprintf("RollingHistory(%d/%d, mean:%.1f)", h.count, len(h.values), h.Mean())
}

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type buffer struct {
	data []byte
}

func TestPoolResetsOnPut(t *testing.T) {
	p := NewPool(
		func() *buffer {
			return &buffer{data: make([]byte, 0, 16)}
		},
		func(b *buffer) { b.data = b.data[:0] },
		nil,
	)

	b := p.Get()
	b.data = append(b.data, 1, 2, 3)
	p.Put(b, nil)

	b = p.Get()
	require.Empty(t, b.data)
	require.GreaterOrEqual(t, p.Allocated.Load(), uint64(1))
	require.Contains(t, p.String(), "Pool[pool.buffer]")
}

func TestPoolWithoutReuse(t *testing.T) {
	ReuseMemory = false
	defer func() { ReuseMemory = true }()

	resets := 0
	p := NewPool(
		func() *buffer { return &buffer{} },
		func(b *buffer) { resets++ },
		nil,
	)
	p.Put(p.Get())
	require.Zero(t, resets)
	require.Equal(t, uint64(1), p.Allocated.Load())
}

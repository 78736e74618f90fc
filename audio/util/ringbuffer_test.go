package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingBufferRotation(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Push([]float64{1, 2, 3, 4, 5, 6})
	rb.Push([]float64{7, 8, 9, 10, 11, 12})

	g := rb.Snapshot()
	exp := []float64{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	for i := range g {
		if g[i] != exp[i] {
			t.Fatal(exp, g)
		}
	}

	g = rb.Tail(4)
	exp = []float64{9, 10, 11, 12}
	for i := range g {
		if g[i] != exp[i] {
			t.Fatal(exp, g)
		}
	}
}

func TestRingBufferStartsSilent(t *testing.T) {
	rb := NewRingBuffer(8)
	for _, v := range rb.Snapshot() {
		require.Zero(t, v)
	}
	require.Equal(t, 8, rb.Size())
}

// Pushing block-sized chunks must keep length fixed and, once capacity worth
// of blocks has gone in, fully evict the zero initialization.
func TestRingBufferBlockEviction(t *testing.T) {
	const (
		blockSize = 4
		size      = 12
	)
	rb := NewRingBuffer(size)

	var want []float64
	for b := 0; b < size/blockSize; b++ {
		block := make([]float64, blockSize)
		for i := range block {
			block[i] = float64(b*blockSize + i + 1)
		}
		rb.Push(block)
		want = append(want, block...)

		require.Len(t, rb.Snapshot(), size)
	}

	require.Equal(t, want, rb.Snapshot())

	// one more rotation drops exactly the oldest block
	rb.Push([]float64{100, 101, 102, 103})
	expected := append(append([]float64{}, want[blockSize:]...), 100, 101, 102, 103)
	require.Equal(t, expected, rb.Snapshot())
}

func TestRingBufferOversizePushPanics(t *testing.T) {
	rb := NewRingBuffer(4)
	require.Panics(t, func() {
		rb.Push(make([]float64, 5))
	})
}

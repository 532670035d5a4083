package slab_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kryvoslayout/clay/internal/arena"
	"github.com/kryvoslayout/clay/internal/slab"
)

func TestPushGetSwapRemove(t *testing.T) {
	a := arena.New(make([]byte, 4096))
	s, ok := slab.New[int](a, 4)
	require.True(t, ok)

	i0, ok := s.Push(10)
	require.True(t, ok)
	i1, ok := s.Push(20)
	require.True(t, ok)
	_, ok = s.Push(30)
	require.True(t, ok)

	require.Equal(t, 10, s.Get(i0))
	require.Equal(t, 20, s.Get(i1))
	require.Equal(t, 3, s.Len())

	require.True(t, s.SwapRemove(i0))
	require.Equal(t, 2, s.Len())
	require.Equal(t, 30, s.Get(i0)) // last element moved into the removed slot
}

func TestPushFailsAtCapacity(t *testing.T) {
	a := arena.New(make([]byte, 4096))
	s, ok := slab.New[int](a, 2)
	require.True(t, ok)

	_, ok = s.Push(1)
	require.True(t, ok)
	_, ok = s.Push(2)
	require.True(t, ok)
	_, ok = s.Push(3)
	require.False(t, ok)
}

func TestGetOutOfRangeReturnsZeroValue(t *testing.T) {
	a := arena.New(make([]byte, 4096))
	s, ok := slab.New[int](a, 2)
	require.True(t, ok)

	require.Equal(t, 0, s.Get(5))
	require.Equal(t, 0, s.Get(-1))
}

func TestResetTruncatesButKeepsCapacity(t *testing.T) {
	a := arena.New(make([]byte, 4096))
	s, ok := slab.New[int](a, 2)
	require.True(t, ok)
	s.Push(1)
	s.Push(2)

	s.Reset()
	require.Zero(t, s.Len())
	require.Equal(t, 2, s.Cap())

	_, ok = s.Push(9)
	require.True(t, ok)
}

func TestNewFailsWhenArenaTooSmall(t *testing.T) {
	a := arena.New(make([]byte, 8))
	_, ok := slab.New[[128]byte](a, 4)
	require.False(t, ok)
}

package ident_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kryvoslayout/clay/internal/ident"
)

func TestHashStringIsDeterministic(t *testing.T) {
	a := ident.HashString("sidebar", 0)
	b := ident.HashString("sidebar", 0)
	require.Equal(t, a, b)
}

func TestHashStringDiffersBySeed(t *testing.T) {
	a := ident.HashString("child", 1)
	b := ident.HashString("child", 2)
	require.NotEqual(t, a, b)
}

func TestHashNumberIsDeterministic(t *testing.T) {
	require.Equal(t, ident.HashNumber(3, 100), ident.HashNumber(3, 100))
	require.NotEqual(t, ident.HashNumber(3, 100), ident.HashNumber(4, 100))
}

func TestMapBindAndGet(t *testing.T) {
	m := ident.NewMap(16)
	err := m.Bind(42, ident.Item{ElementIndex: 7}, 1)
	require.NoError(t, err)

	item, ok := m.Get(42)
	require.True(t, ok)
	require.Equal(t, 7, item.ElementIndex)
	require.Equal(t, uint32(1), item.Generation)
}

func TestMapBindDuplicateSameGeneration(t *testing.T) {
	m := ident.NewMap(16)
	require.NoError(t, m.Bind(1, ident.Item{ElementIndex: 1}, 1))

	err := m.Bind(1, ident.Item{ElementIndex: 2}, 1)
	require.Error(t, err)
	require.IsType(t, ident.ErrDuplicateID{}, err)

	// First binding is kept.
	item, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, 1, item.ElementIndex)
}

func TestMapBindReusesSlotAcrossGenerations(t *testing.T) {
	m := ident.NewMap(16)
	require.NoError(t, m.Bind(5, ident.Item{ElementIndex: 1}, 1))
	require.NoError(t, m.Bind(5, ident.Item{ElementIndex: 2}, 2))

	item, ok := m.Get(5)
	require.True(t, ok)
	require.Equal(t, 2, item.ElementIndex)
	require.Equal(t, uint32(2), item.Generation)
}

func TestMapGetMissing(t *testing.T) {
	m := ident.NewMap(16)
	_, ok := m.Get(999)
	require.False(t, ok)
}
